package usecase

import (
	"context"
	"net/http"
	"strings"

	"agora/internal/domain/model"
	"agora/internal/infra/images"
	repo "agora/internal/repository"
)

// Seller向けの商品管理。公開側の閲覧はCatalogUsecaseが持つ。
type ProductUsecase struct {
	tx    repo.TransactionManager
	store *images.Store
	authz *AuthzService
}

func NewProductUsecase(tx repo.TransactionManager, store *images.Store, authz *AuthzService) *ProductUsecase {
	return &ProductUsecase{tx: tx, store: store, authz: authz}
}

type ProductInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        int64    `json:"price"`
	Quantity     int64    `json:"quantity"`
	Availability string   `json:"availability"`
	Tags         []string `json:"tags"`
}

type SellerProductOutput struct {
	model.Product
	Tags   []string             `json:"tags"`
	Images []model.ProductImage `json:"images"`
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "product name is required")
	}
	if in.Price <= 0 {
		return NewHTTPError(http.StatusBadRequest, "price must be greater than zero")
	}
	if in.Quantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "quantity cannot be negative")
	}
	switch model.Availability(in.Availability) {
	case model.AvailabilityDraft, model.AvailabilityPublished:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid availability")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// 自ビジネスの商品一覧（下書き含む）
func (u *ProductUsecase) ListMyProducts(ctx context.Context, username string) ([]SellerProductOutput, error) {
	businessID, err := u.authz.SellerBusinessID(ctx, username)
	if err != nil {
		return nil, err
	}

	var out []SellerProductOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		products, err := r.Products().ListByBusinessID(ctx, businessID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = make([]SellerProductOutput, 0, len(products))
		for _, p := range products {
			item, err := u.withDetails(ctx, r, p)
			if err != nil {
				return err
			}
			out = append(out, item)
		}
		return nil
	})
	return out, err
}

func (u *ProductUsecase) GetMyProduct(ctx context.Context, username string, productID int64) (SellerProductOutput, error) {
	if err := u.authz.RequireProductSeller(ctx, username, productID); err != nil {
		return SellerProductOutput{}, err
	}

	var out SellerProductOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out, err = u.withDetails(ctx, r, p)
		return err
	})
	return out, err
}

// 登録。商品本体とタグを同一Txで書く。
func (u *ProductUsecase) Create(ctx context.Context, username string, in ProductInput) (int64, error) {
	if err := validateProductInput(in); err != nil {
		return 0, err
	}
	businessID, err := u.authz.SellerBusinessID(ctx, username)
	if err != nil {
		return 0, err
	}

	var id int64
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		id, err = r.Products().Create(ctx, model.Product{
			BusinessID:   businessID,
			Name:         strings.TrimSpace(in.Name),
			Description:  in.Description,
			Price:        in.Price,
			Quantity:     in.Quantity,
			Availability: model.Availability(in.Availability),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if tags := normalizeTags(in.Tags); len(tags) > 0 {
			if err := r.Categories().ReplaceForProduct(ctx, id, tags); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
	return id, err
}

func (u *ProductUsecase) Update(ctx context.Context, username string, productID int64, in ProductInput) error {
	if err := validateProductInput(in); err != nil {
		return err
	}
	if err := u.authz.RequireProductSeller(ctx, username, productID); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p.Name = strings.TrimSpace(in.Name)
		p.Description = in.Description
		p.Price = in.Price
		p.Quantity = in.Quantity
		p.Availability = model.Availability(in.Availability)

		// 値が同じなら0行更新で返ることがあるので行数は見ない
		if _, err := r.Products().Update(ctx, p); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Categories().ReplaceForProduct(ctx, productID, normalizeTags(in.Tags)); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 削除。画像・タグ・本体を同一Txで消す。途中で失敗したら全部残る。
func (u *ProductUsecase) Delete(ctx context.Context, username string, productID int64) error {
	if err := u.authz.RequireProductSeller(ctx, username, productID); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Images().DeleteByProductID(ctx, productID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Categories().DeleteForProduct(ctx, productID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Products().Delete(ctx, productID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 画像アップロード。featuredはsort_order=0、galleryは末尾に追加。
func (u *ProductUsecase) UploadImage(ctx context.Context, username string, productID int64, data []byte, featured bool) (model.ProductImage, error) {
	if err := u.authz.RequireProductSeller(ctx, username, productID); err != nil {
		return model.ProductImage{}, err
	}

	role := "gallery"
	if featured {
		role = "featured"
	}
	variants, err := u.store.SaveProductImage(data, productID, role)
	if err != nil {
		return model.ProductImage{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	img := model.ProductImage{
		ProductID: productID,
		ImageURL:  variants.ImageURL,
		ThumbURL:  variants.ThumbURL,
		BlurURL:   variants.BlurURL,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if featured {
			img.SortOrder = 0
		} else {
			n, err := r.Images().NextSortOrder(ctx, productID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			img.SortOrder = n
		}
		id, err := r.Images().Create(ctx, img)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		img.ID = id
		return nil
	})
	return img, err
}

func (u *ProductUsecase) withDetails(ctx context.Context, r repo.TxRepos, p model.Product) (SellerProductOutput, error) {
	tags, err := r.Categories().ListByProductID(ctx, p.ID)
	if err != nil {
		return SellerProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	imgs, err := r.Images().ListByProductID(ctx, p.ID)
	if err != nil {
		return SellerProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return SellerProductOutput{Product: p, Tags: tags, Images: imgs}, nil
}
