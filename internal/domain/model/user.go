package model

import "time"

type AccountType string

const (
	AccountTypeBuyer  AccountType = "Buyer"
	AccountTypeSeller AccountType = "Seller"
	AccountTypeAdmin  AccountType = "Agora Admin"
)

// usernameが不変の識別キー。メールは account_type ごとに一意。
type User struct {
	Username     string      `gorm:"primaryKey;type:varchar(50)" json:"username"`
	Email        string      `gorm:"type:varchar(255);not null;index:idx_users_email_type,unique" json:"email"`
	FirstName    string      `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string      `gorm:"type:varchar(100);not null" json:"last_name"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"`
	AccountType  AccountType `gorm:"type:varchar(20);not null;index:idx_users_email_type,unique" json:"account_type"`
	AvatarURL    string      `gorm:"type:varchar(255)" json:"avatar_url"`
	CreatedAt    time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null;autoUpdateTime" json:"-"`
}

func (u User) IsSeller() bool {
	return u.AccountType == AccountTypeSeller
}

func (u User) IsAdmin() bool {
	return u.AccountType == AccountTypeAdmin
}
