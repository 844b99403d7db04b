package repository

import (
	"context"
	"errors"
	"strings"

	"agora/internal/domain/model"
	repo "agora/internal/repository"

	"gorm.io/gorm"
)

type BusinessGormRepository struct {
	db *gorm.DB
}

// DI
func NewBusinessGormRepository(db *gorm.DB) *BusinessGormRepository {
	return &BusinessGormRepository{db: db}
}

func (r *BusinessGormRepository) Create(ctx context.Context, b model.Business) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, repo.ErrDuplicate
		}
		return 0, err
	}
	return b.ID, nil
}

func (r *BusinessGormRepository) Update(ctx context.Context, b model.Business) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Business{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"name":              b.Name,
			"location":          b.Location,
			"email":             b.Email,
			"phone":             b.Phone,
			"short_description": b.ShortDescription,
			"details":           b.Details,
		})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// 画像URLだけ更新（nilの項目は触らない）
func (r *BusinessGormRepository) UpdateImageURLs(ctx context.Context, businessID int64, logoURL, bannerURL *string) error {
	updates := map[string]any{}
	if logoURL != nil {
		updates["logo_url"] = *logoURL
	}
	if bannerURL != nil {
		updates["banner_url"] = *bannerURL
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.Business{}).
		Where("id = ?", businessID).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BusinessGormRepository) FindByID(ctx context.Context, id int64) (model.Business, error) {
	var b model.Business

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Business{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Business{}, err
	}
	return b, nil
}

func (r *BusinessGormRepository) List(ctx context.Context, q repo.BusinessListQuery) ([]model.Business, error) {
	query := r.db.WithContext(ctx).Model(&model.Business{})

	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + s + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ? OR short_description ILIKE ?", like, like, like)
	}

	var items []model.Business
	if err := query.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *BusinessGormRepository) UpdateStatus(ctx context.Context, businessID int64, status model.BusinessStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Business{}).
		Where("id = ?", businessID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
