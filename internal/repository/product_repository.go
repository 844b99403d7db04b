package repository

import (
	"agora/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反
var ErrDuplicate = errors.New("duplicate key")

// 公開一覧の検索条件
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublished(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	ListByBusinessID(ctx context.Context, businessID int64) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (int64, error)
	// 更新行数を返す。0行は呼び出し側でエラーにしない。
	Update(ctx context.Context, p model.Product) (int64, error)
	Delete(ctx context.Context, id int64) error
}
