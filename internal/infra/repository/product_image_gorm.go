package repository

import (
	"context"
	"errors"

	"agora/internal/domain/model"
	repo "agora/internal/repository"

	"gorm.io/gorm"
)

type ProductImageGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductImageGormRepository(db *gorm.DB) *ProductImageGormRepository {
	return &ProductImageGormRepository{db: db}
}

func (r *ProductImageGormRepository) Create(ctx context.Context, img model.ProductImage) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&img).Error; err != nil {
		return 0, err
	}
	return img.ID, nil
}

func (r *ProductImageGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var imgs []model.ProductImage

	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order asc, image_id asc").
		Find(&imgs).Error
	if err != nil {
		return nil, err
	}
	return imgs, nil
}

// sort_order最小の1枚
func (r *ProductImageGormRepository) FindFeatured(ctx context.Context, productID int64) (model.ProductImage, error) {
	var img model.ProductImage

	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order asc, image_id asc").
		First(&img).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ProductImage{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ProductImage{}, err
	}
	return img, nil
}

func (r *ProductImageGormRepository) NextSortOrder(ctx context.Context, productID int64) (int, error) {
	var max *int

	err := r.db.WithContext(ctx).
		Model(&model.ProductImage{}).
		Where("product_id = ?", productID).
		Select("max(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *ProductImageGormRepository) DeleteByProductID(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.ProductImage{}).Error
}
