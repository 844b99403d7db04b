package model

import "time"

// sort_order = 0 がフィーチャー画像
type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:image_id" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	ImageURL  string    `gorm:"type:varchar(255);not null" json:"image_url"`
	ThumbURL  string    `gorm:"type:varchar(255);not null" json:"thumb_url"`
	BlurURL   string    `gorm:"type:varchar(255);not null" json:"blur_url"`
	SortOrder int       `gorm:"not null;default:0;index" json:"sort_order"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
