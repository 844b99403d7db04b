package model

import "time"

type Availability string

const (
	AvailabilityDraft     Availability = "draft"
	AvailabilityPublished Availability = "published"
)

// 価格はセント単位のint64
type Product struct {
	ID           int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID   int64        `gorm:"not null;index" json:"business_id"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name"`
	Description  string       `gorm:"type:text" json:"description"`
	Price        int64        `gorm:"not null" json:"price"`
	Quantity     int64        `gorm:"not null;default:0" json:"quantity"`
	Availability Availability `gorm:"column:is_available;type:varchar(20);not null;default:'draft';index" json:"availability"`
	CreatedAt    time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;autoUpdateTime" json:"-"`
}

func (p Product) IsPublished() bool {
	return p.Availability == AvailabilityPublished
}

// 公開中かつ在庫あり
func (p Product) IsInStock() bool {
	return p.IsPublished() && p.Quantity > 0
}
