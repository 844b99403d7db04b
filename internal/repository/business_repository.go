package repository

import (
	"agora/internal/domain/model"
	"context"
)

type BusinessListQuery struct {
	Status model.BusinessStatus // 空なら全件
	Q      string
}

type BusinessRepository interface {
	Create(ctx context.Context, b model.Business) (int64, error)
	Update(ctx context.Context, b model.Business) (int64, error)
	UpdateImageURLs(ctx context.Context, businessID int64, logoURL, bannerURL *string) error
	FindByID(ctx context.Context, id int64) (model.Business, error)
	List(ctx context.Context, q BusinessListQuery) ([]model.Business, error)
	UpdateStatus(ctx context.Context, businessID int64, status model.BusinessStatus) error
}
