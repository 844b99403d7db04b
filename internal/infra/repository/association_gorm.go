package repository

import (
	"context"
	"errors"

	"agora/internal/domain/model"
	repo "agora/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssociationGormRepository struct {
	db *gorm.DB
}

// DI
func NewAssociationGormRepository(db *gorm.DB) *AssociationGormRepository {
	return &AssociationGormRepository{db: db}
}

func (r *AssociationGormRepository) Create(ctx context.Context, a model.BusinessAssociation) error {
	return r.db.WithContext(ctx).Create(&a).Error
}

// (username, business)ごとに1行。既存行はrole/is_activeを上書き。
func (r *AssociationGormRepository) Upsert(ctx context.Context, a model.BusinessAssociation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "business_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role_name", "is_active", "updated_at"}),
		}).
		Create(&a).Error
}

func (r *AssociationGormRepository) ListByBusinessID(ctx context.Context, businessID int64) ([]model.BusinessAssociation, error) {
	var items []model.BusinessAssociation

	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *AssociationGormRepository) FindActiveForUser(ctx context.Context, username string) (model.BusinessAssociation, error) {
	var a model.BusinessAssociation

	err := r.db.WithContext(ctx).
		Where("username = ? AND is_active = ?", username, true).
		Order("id desc").
		First(&a).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.BusinessAssociation{}, repo.ErrNotFound
	}
	if err != nil {
		return model.BusinessAssociation{}, err
	}
	return a, nil
}

func (r *AssociationGormRepository) HasActiveRole(ctx context.Context, username string, businessID int64, role model.AssociationRole) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.BusinessAssociation{}).
		Where("username = ? AND business_id = ? AND role_name = ? AND is_active = ?",
			username, businessID, role, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AssociationGormRepository) SellerBusinessID(ctx context.Context, username string) (int64, error) {
	var a model.BusinessAssociation

	err := r.db.WithContext(ctx).
		Where("username = ? AND role_name = ? AND is_active = ?",
			username, model.RoleSeller, true).
		Order("id desc").
		First(&a).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, repo.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return a.BusinessID, nil
}

// 商品の属するビジネスのアクティブなSellerか
func (r *AssociationGormRepository) CanEditProduct(ctx context.Context, username string, productID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Table("products").
		Joins("join business_associations ba on ba.business_id = products.business_id").
		Where("products.id = ? AND ba.username = ? AND ba.role_name = ? AND ba.is_active = ?",
			productID, username, model.RoleSeller, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// 注文明細のどれかが自ビジネスの商品か
func (r *AssociationGormRepository) CanManageOrder(ctx context.Context, username string, orderID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("join products on products.id = order_items.product_id").
		Joins("join business_associations ba on ba.business_id = products.business_id").
		Where("order_items.order_id = ? AND ba.username = ? AND ba.role_name = ? AND ba.is_active = ?",
			orderID, username, model.RoleSeller, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
