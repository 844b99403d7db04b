package model

import "time"

// 管理操作の監査記録（承認・停止・注文ステータス変更）
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string    `gorm:"type:varchar(50);not null;index" json:"actor"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Target    string    `gorm:"type:varchar(100);not null" json:"target"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
