package repository

import (
	"agora/internal/domain/model"
	"context"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error)
}
