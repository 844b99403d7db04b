package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"agora/internal/domain/model"
	repo "agora/internal/repository"
)

// 売り手側の注文処理。権限は注文明細と自ビジネスの結合から毎回導出する。
type SellerOrderUsecase struct {
	tx    repo.TransactionManager
	authz *AuthzService
}

func NewSellerOrderUsecase(tx repo.TransactionManager, authz *AuthzService) *SellerOrderUsecase {
	return &SellerOrderUsecase{tx: tx, authz: authz}
}

// 自ビジネスの商品を含む注文一覧（Cart除外）
func (u *SellerOrderUsecase) ListOrders(ctx context.Context, username string) ([]OrderSummaryOutput, error) {
	if username == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderSummaryOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Orders().ListForSeller(ctx, username)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderSummaryOutput, 0, len(rows))
		for _, row := range rows {
			outs = append(outs, toSummaryOutput(row))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *SellerOrderUsecase) GetOrder(ctx context.Context, username string, orderID int64) (OrderOutput, error) {
	if username == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := u.authz.RequireOrderSeller(ctx, username, orderID); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status == model.OrderStatusCart {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		lines, err := r.OrderItems().ListLines(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ステータス更新。前方向の遷移だけ許可し、Cancelledなら同一トランザクションで在庫を戻す。
func (u *SellerOrderUsecase) UpdateStatus(ctx context.Context, username string, orderID int64, newStatus string) error {
	if username == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	newStatus = strings.TrimSpace(newStatus)
	if !model.ValidOrderStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid order status")
	}
	target := model.OrderStatus(newStatus)

	if err := u.authz.RequireOrderSeller(ctx, username, orderID); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.Status == model.OrderStatusCart {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		if !model.CanTransition(o.Status, target) {
			return NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("cannot move order from %s to %s", o.Status, target))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, target); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// キャンセルはチェックアウトで引いた在庫を戻す
		if target == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}

		audit := model.AuditLog{
			Actor:  username,
			Action: "order.status_update",
			Target: fmt.Sprintf("order:%d", orderID),
			Detail: fmt.Sprintf("%s -> %s", o.Status, target),
		}
		if err := r.Audit().Create(ctx, audit); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
