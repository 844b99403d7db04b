package repository

import (
	"agora/internal/domain/model"
	"context"
)

type ProductImageRepository interface {
	Create(ctx context.Context, img model.ProductImage) (int64, error)
	ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error)
	// sort_order最小の1枚（フィーチャー画像）
	FindFeatured(ctx context.Context, productID int64) (model.ProductImage, error)
	// 次に使うsort_order（0はフィーチャー用に予約）
	NextSortOrder(ctx context.Context, productID int64) (int, error)
	DeleteByProductID(ctx context.Context, productID int64) error
}
