package model

import "time"

type BusinessStatus string

const (
	BusinessStatusPending BusinessStatus = "pending"
	BusinessStatusActive  BusinessStatus = "active"
)

// 承認されるまで pending
type Business struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Location         string         `gorm:"type:varchar(255)" json:"location"`
	Email            string         `gorm:"type:varchar(255)" json:"email"`
	Phone            string         `gorm:"type:varchar(50)" json:"phone"`
	ShortDescription string         `gorm:"type:varchar(500)" json:"short_description"`
	Details          string         `gorm:"type:text" json:"details"`
	Status           BusinessStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	LogoURL          string         `gorm:"type:varchar(255)" json:"logo_url"`
	BannerURL        string         `gorm:"type:varchar(255)" json:"banner_url"`
	CreatedAt        time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;autoUpdateTime" json:"-"`
}

func (b Business) IsActive() bool {
	return b.Status == BusinessStatusActive
}
