package repository

import (
	"context"

	"agora/internal/domain/model"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) ListAll(ctx context.Context) ([]string, error) {
	var names []string

	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Order("category_name asc").
		Pluck("category_name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *CategoryGormRepository) ListByProductID(ctx context.Context, productID int64) ([]string, error) {
	var names []string

	err := r.db.WithContext(ctx).
		Model(&model.ProductCategory{}).
		Where("product_id = ?", productID).
		Order("category_name asc").
		Pluck("category_name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// 既存タグを消してから入れ直す
func (r *CategoryGormRepository) ReplaceForProduct(ctx context.Context, productID int64, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).
			Delete(&model.ProductCategory{}).Error; err != nil {
			return err
		}

		for _, tag := range tags {
			pc := model.ProductCategory{ProductID: productID, CategoryName: tag}
			if err := tx.Create(&pc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CategoryGormRepository) DeleteForProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductCategory{}).Error
}
