package repository

import (
	"context"
	"errors"
	"strings"

	"agora/internal/domain/model"
	repo "agora/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開中の商品一覧（検索＋カテゴリ絞り込み＋ページング）
func (r *ProductGormRepository) ListPublished(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Joins("join businesses on businesses.id = products.business_id").
		Where("products.is_available = ?", model.AvailabilityPublished).
		Where("businesses.status = ?", model.BusinessStatusActive)

	if q.Category != "" {
		base = base.Where(
			"products.id IN (SELECT product_id FROM product_categories WHERE category_name = ?)",
			q.Category,
		)
	}

	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		base = base.Where(
			"products.name ILIKE ? OR products.description ILIKE ? OR businesses.name ILIKE ? OR products.id IN (SELECT product_id FROM product_categories WHERE category_name ILIKE ?)",
			like, like, like, like,
		)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.Sort {
	case "price_asc":
		base = base.Order("products.price asc")
	case "price_desc":
		base = base.Order("products.price desc")
	default:
		base = base.Order("products.id desc")
	}

	var items []model.Product
	err := base.
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ビジネスの全商品（下書き含む、管理画面用）
func (r *ProductGormRepository) ListByBusinessID(ctx context.Context, businessID int64) ([]model.Product, error) {
	var items []model.Product

	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

// 更新行数を返す。画像だけ変わった更新は0行になり得る。
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":         p.Name,
			"description":  p.Description,
			"price":        p.Price,
			"quantity":     p.Quantity,
			"is_available": p.Availability,
		})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Product{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
