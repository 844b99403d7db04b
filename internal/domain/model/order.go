package model

import "time"

type OrderStatus string

const (
	OrderStatusCart       OrderStatus = "Cart"
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// 前方向の遷移だけを許可する
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// from→toが許可された遷移かどうか
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// status=Cart の行が買い物カゴ
type Order struct {
	ID            int64       `gorm:"primaryKey;autoIncrement;column:order_id" json:"id"`
	BuyerUsername string      `gorm:"type:varchar(50);not null;index" json:"buyer_username"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	OrderDate     time.Time   `gorm:"not null" json:"order_date"`
	TotalAmount   int64       `gorm:"not null;default:0" json:"total_amount"`
	CreatedAt     time.Time   `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt     time.Time   `gorm:"not null;autoUpdateTime" json:"-"`
}
