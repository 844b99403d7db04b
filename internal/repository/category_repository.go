package repository

import "context"

type CategoryRepository interface {
	ListAll(ctx context.Context) ([]string, error)
	ListByProductID(ctx context.Context, productID int64) ([]string, error)
	// タグ集合を丸ごと置き換える（delete-then-insert）。マージはしない。
	ReplaceForProduct(ctx context.Context, productID int64, tags []string) error
	DeleteForProduct(ctx context.Context, productID int64) error
}
