package model

type Category struct {
	Name string `gorm:"primaryKey;column:category_name;type:varchar(100)" json:"name"`
}

// 商品とカテゴリのタグ関連。商品のライフサイクルに従う。
type ProductCategory struct {
	ProductID    int64  `gorm:"primaryKey" json:"product_id"`
	CategoryName string `gorm:"primaryKey;type:varchar(100)" json:"category_name"`
}
