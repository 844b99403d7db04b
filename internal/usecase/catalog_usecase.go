package usecase

import (
	"context"
	"net/http"
	"strings"

	"agora/internal/domain/model"
	repo "agora/internal/repository"
)

// 公開側のカタログ閲覧。書き込みは一切しない。
type CatalogUsecase struct {
	products   repo.ProductRepository
	imageRepo  repo.ProductImageRepository
	businesses repo.BusinessRepository
	categories repo.CategoryRepository
	authz      *AuthzService
}

func NewCatalogUsecase(
	products repo.ProductRepository,
	imageRepo repo.ProductImageRepository,
	businesses repo.BusinessRepository,
	categories repo.CategoryRepository,
	authz *AuthzService,
) *CatalogUsecase {
	return &CatalogUsecase{
		products:   products,
		imageRepo:  imageRepo,
		businesses: businesses,
		categories: categories,
		authz:      authz,
	}
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	Sort     string
}

// 一覧カード。ビューはこの構造をそのまま整形する。
type ProductCard struct {
	ID           int64  `json:"id"`
	BusinessID   int64  `json:"business_id"`
	BusinessName string `json:"business_name"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	InStock      bool   `json:"in_stock"`
	ImageURL     string `json:"image_url"`
	ThumbURL     string `json:"thumb_url"`
	BlurURL      string `json:"blur_url"`
}

type ProductListOutput struct {
	Items    []ProductCard `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Q        string        `json:"q,omitempty"`
	Category string        `json:"category,omitempty"`
}

type ProductDetailOutput struct {
	ProductCard
	Quantity     int64                `json:"quantity"`
	Availability string               `json:"availability"`
	Images       []model.ProductImage `json:"images"`
	Tags         []string             `json:"tags"`
}

type BusinessDetailOutput struct {
	model.Business
	Products []ProductCard `json:"products"`
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "search query too long")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.products.ListPublished(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cards := make([]ProductCard, 0, len(items))
	for _, p := range items {
		cards = append(cards, u.toCard(ctx, p))
	}

	return ProductListOutput{
		Items:    cards,
		Total:    total,
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		Category: in.Category,
	}, nil
}

// 商品詳細。下書きは所属ビジネスの関係者にしか見せない。
func (u *CatalogUsecase) GetProduct(ctx context.Context, productID int64, viewer string) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !p.IsPublished() && !u.authz.IsBusinessAssociate(ctx, viewer, p.BusinessID) {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	imgs, err := u.imageRepo.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	tags, err := u.categories.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductDetailOutput{
		ProductCard:  u.toCard(ctx, p),
		Quantity:     p.Quantity,
		Availability: string(p.Availability),
		Images:       imgs,
		Tags:         tags,
	}, nil
}

// アクティブなビジネス一覧
func (u *CatalogUsecase) ListBusinesses(ctx context.Context, q string) ([]model.Business, error) {
	items, err := u.businesses.List(ctx, repo.BusinessListQuery{
		Status: model.BusinessStatusActive,
		Q:      q,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// ビジネス詳細＋商品。pendingは関係者のみ、下書き商品も関係者のみ。
func (u *CatalogUsecase) GetBusiness(ctx context.Context, businessID int64, viewer string) (BusinessDetailOutput, error) {
	if businessID <= 0 {
		return BusinessDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid business id")
	}

	b, err := u.businesses.FindByID(ctx, businessID)
	if err == repo.ErrNotFound {
		return BusinessDetailOutput{}, NewHTTPError(http.StatusNotFound, "business not found")
	}
	if err != nil {
		return BusinessDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	associate := u.authz.IsBusinessAssociate(ctx, viewer, businessID)
	if !b.IsActive() && !associate {
		return BusinessDetailOutput{}, NewHTTPError(http.StatusNotFound, "business not found")
	}

	products, err := u.products.ListByBusinessID(ctx, businessID)
	if err != nil {
		return BusinessDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		if !p.IsPublished() && !associate {
			continue
		}
		cards = append(cards, u.toCard(ctx, p))
	}

	return BusinessDetailOutput{Business: b, Products: cards}, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]string, error) {
	tags, err := u.categories.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return tags, nil
}

func (u *CatalogUsecase) toCard(ctx context.Context, p model.Product) ProductCard {
	card := ProductCard{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		InStock:     p.IsInStock(),
	}

	if b, err := u.businesses.FindByID(ctx, p.BusinessID); err == nil {
		card.BusinessName = b.Name
	}
	if img, err := u.imageRepo.FindFeatured(ctx, p.ID); err == nil {
		card.ImageURL = img.ImageURL
		card.ThumbURL = img.ThumbURL
		card.BlurURL = img.BlurURL
	}
	return card
}
