package model

import "time"

type AssociationRole string

const (
	RoleAdministrator AssociationRole = "Administrator"
	RoleSeller        AssociationRole = "Seller"
)

// ユーザーとビジネスの多対多。最初のAdministratorはビジネス作成時に自動作成。
type BusinessAssociation struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string          `gorm:"type:varchar(50);not null;index:idx_assoc_user_business,unique" json:"username"`
	BusinessID int64           `gorm:"not null;index:idx_assoc_user_business,unique" json:"business_id"`
	Role       AssociationRole `gorm:"column:role_name;type:varchar(20);not null" json:"role"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"-"`
}
