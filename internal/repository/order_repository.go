package repository

import (
	"agora/internal/domain/model"
	"context"
	"time"
)

// 一覧表示用の集計付き注文
type OrderSummary struct {
	model.Order
	ItemCount int64 `json:"item_count"`
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 買い手のCart行を新しい順で全件（重複修復のため複数返る）
	ListCartsByBuyer(ctx context.Context, username string) ([]model.Order, error)
	CreateCart(ctx context.Context, username string, now time.Time) (model.Order, error)
	// Cart以外の注文を新しい順で
	ListByBuyer(ctx context.Context, username string) ([]OrderSummary, error)
	// 自ビジネスの商品を含む注文（Cart除外、アクティブなSeller関連で判定）
	ListForSeller(ctx context.Context, username string) ([]OrderSummary, error)

	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	// チェックアウト確定：status/total/order_dateを同時に書く
	MarkCheckedOut(ctx context.Context, orderID int64, total int64, at time.Time) error
	Delete(ctx context.Context, orderID int64) error
}
