package usecase

import (
	"context"
	"fmt"
	"net/http"

	"agora/internal/domain/model"
	repo "agora/internal/repository"
)

// プラットフォーム管理者の操作。ロール判定はミドルウェア側で済ませ、
// ここでは承認・停止と監査ログだけを扱う。
type AdminUsecase struct {
	tx repo.TransactionManager
}

func NewAdminUsecase(tx repo.TransactionManager) *AdminUsecase {
	return &AdminUsecase{tx: tx}
}

// status指定で絞り込み（空なら全件）
func (u *AdminUsecase) ListBusinesses(ctx context.Context, status string) ([]model.Business, error) {
	switch model.BusinessStatus(status) {
	case "", model.BusinessStatusPending, model.BusinessStatusActive:
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out []model.Business
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := r.Businesses().List(ctx, repo.BusinessListQuery{Status: model.BusinessStatus(status)})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = items
		return nil
	})
	return out, err
}

// pending→active。誰が通したかは監査ログに残す。
func (u *AdminUsecase) ApproveBusiness(ctx context.Context, actor string, businessID int64) error {
	return u.setStatus(ctx, actor, businessID, model.BusinessStatusActive, "business.approve")
}

// active→pending（カタログから外す）
func (u *AdminUsecase) DeactivateBusiness(ctx context.Context, actor string, businessID int64) error {
	return u.setStatus(ctx, actor, businessID, model.BusinessStatusPending, "business.deactivate")
}

func (u *AdminUsecase) setStatus(ctx context.Context, actor string, businessID int64, status model.BusinessStatus, action string) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		b, err := r.Businesses().FindByID(ctx, businessID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "business not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if b.Status == status {
			return NewHTTPError(http.StatusConflict, "business is already "+string(status))
		}
		if err := r.Businesses().UpdateStatus(ctx, businessID, status); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Audit().Create(ctx, model.AuditLog{
			Actor:  actor,
			Action: action,
			Target: fmt.Sprintf("business:%d", businessID),
			Detail: fmt.Sprintf("%s -> %s", b.Status, status),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *AdminUsecase) RecentAuditLogs(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var out []model.AuditLog
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		logs, err := r.Audit().ListRecent(ctx, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = logs
		return nil
	})
	return out, err
}
