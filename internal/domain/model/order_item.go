package model

import "time"

// item_priceはカート追加時点のスナップショット。
// 後から商品価格が変わっても明細には反映しない。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index:idx_order_items_order_product,unique" json:"order_id"`
	ProductID int64     `gorm:"not null;index:idx_order_items_order_product,unique" json:"product_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	ItemPrice int64     `gorm:"column:item_price;not null" json:"item_price"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
