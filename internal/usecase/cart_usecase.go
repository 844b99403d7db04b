package usecase

import (
	"context"
	"net/http"
	"time"

	"agora/internal/domain/model"
	repo "agora/internal/repository"
)

// カートは status=Cart の注文行。業務ロジックは全部トランザクション内で行う。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

type CartLine struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
	ImageURL     string `json:"image_url"`
}

type CartResponse struct {
	OrderID int64      `json:"order_id"`
	Items   []CartLine `json:"items"`
	Total   int64      `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得（無ければ作成）。重複カートはここで必ず修復する。
func (u *CartUsecase) GetCart(ctx context.Context, username string) (CartResponse, error) {
	if username == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getOrMergeCart(ctx, r, username)
		if err != nil {
			return err
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// AddToCart はカートに追加（同一商品は数量加算、価格は追加時点でスナップショット）。
func (u *CartUsecase) AddToCart(ctx context.Context, username string, in AddCartInput) (CartResponse, error) {
	if username == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getOrMergeCart(ctx, r, username)
		if err != nil {
			return err
		}

		// 公開中の商品だけカートに入れられる
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not available")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsPublished() {
			return NewHTTPError(http.StatusNotFound, "product not available")
		}

		// 既存行＋追加分が在庫を超えないこと
		var existingQty int64
		existing, err := r.OrderItems().FindByOrderAndProduct(ctx, cart.ID, in.ProductID)
		if err == nil {
			existingQty = existing.Quantity
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if existingQty+in.Quantity > p.Quantity {
			return NewHTTPError(http.StatusConflict, "not enough stock available")
		}

		if err := r.OrderItems().UpsertAdd(ctx, cart.ID, in.ProductID, in.Quantity, p.Price); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// 数量変更。0以下は削除として扱う。
func (u *CartUsecase) UpdateItem(ctx context.Context, username string, productID int64, quantity int64) (CartResponse, error) {
	if username == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	if quantity <= 0 {
		return u.RemoveItem(ctx, username, productID)
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getOrMergeCart(ctx, r, username)
		if err != nil {
			return err
		}

		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "product not available")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if quantity > p.Quantity {
			return NewHTTPError(http.StatusConflict, "not enough stock available")
		}

		if err := r.OrderItems().UpdateQuantity(ctx, cart.ID, productID, quantity); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "item not in cart")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, username string, productID int64) (CartResponse, error) {
	if username == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	var out CartResponse

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := getOrMergeCart(ctx, r, username)
		if err != nil {
			return err
		}

		if err := r.OrderItems().Delete(ctx, cart.ID, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "item not in cart")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out, err = buildCartResponse(ctx, r, cart.ID)
		return err
	})

	if err != nil {
		return CartResponse{}, err
	}
	return out, nil
}

// カート取得＋無ければ作成＋重複修復。
// 重複があれば最新カートへ明細を畳み込み（同一商品は数量合算）、残りは消す。
func getOrMergeCart(ctx context.Context, r repo.TxRepos, username string) (model.Order, error) {
	carts, err := r.Orders().ListCartsByBuyer(ctx, username)
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if len(carts) == 0 {
		cart, err := r.Orders().CreateCart(ctx, username, time.Now())
		if err != nil {
			return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return cart, nil
	}

	main := carts[0]

	for _, other := range carts[1:] {
		items, err := r.OrderItems().ListByOrderID(ctx, other.ID)
		if err != nil {
			return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		for _, it := range items {
			// スナップショット価格ごと移す
			if err := r.OrderItems().UpsertAdd(ctx, main.ID, it.ProductID, it.Quantity, it.ItemPrice); err != nil {
				return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.OrderItems().DeleteByOrderID(ctx, other.ID); err != nil {
			return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().Delete(ctx, other.ID); err != nil && err != repo.ErrNotFound {
			return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return main, nil
}

func buildCartResponse(ctx context.Context, r repo.TxRepos, orderID int64) (CartResponse, error) {
	lines, err := r.OrderItems().ListLines(ctx, orderID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartResponse{OrderID: orderID, Items: make([]CartLine, 0, len(lines))}
	for _, l := range lines {
		out.Items = append(out.Items, CartLine{
			ProductID:    l.ProductID,
			Name:         l.ProductName,
			BusinessName: l.BusinessName,
			Price:        l.ItemPrice,
			Quantity:     l.Quantity,
			Subtotal:     l.ItemPrice * l.Quantity,
			ImageURL:     l.ImageURL,
		})
		out.Total += l.ItemPrice * l.Quantity
	}
	return out, nil
}
