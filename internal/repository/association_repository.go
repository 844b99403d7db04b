package repository

import (
	"agora/internal/domain/model"
	"context"
)

// ビジネス単位のロールは毎回この結合から引き直す。セッションにはキャッシュしない。
type AssociationRepository interface {
	Create(ctx context.Context, a model.BusinessAssociation) error
	// (username, business)ごとに1行。あれば role/is_active を更新。
	Upsert(ctx context.Context, a model.BusinessAssociation) error
	ListByBusinessID(ctx context.Context, businessID int64) ([]model.BusinessAssociation, error)

	// ユーザーのアクティブな関連を1件（新しい順）
	FindActiveForUser(ctx context.Context, username string) (model.BusinessAssociation, error)
	// 指定ロールのアクティブな関連があるか
	HasActiveRole(ctx context.Context, username string, businessID int64, role model.AssociationRole) (bool, error)
	// Sellerとして関連するビジネスID（無ければErrNotFound）
	SellerBusinessID(ctx context.Context, username string) (int64, error)
	// 商品の属するビジネスのアクティブなSellerか
	CanEditProduct(ctx context.Context, username string, productID int64) (bool, error)
	// 注文明細のどれかが自ビジネスの商品か（アクティブなSeller関連で判定）
	CanManageOrder(ctx context.Context, username string, orderID int64) (bool, error)
}
