package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agora/internal/domain/model"
	repo "agora/internal/repository"
)

// 買い手側の注文ライフサイクル。チェックアウトは1トランザクションで
// 検証→在庫減算→ステータス遷移まで行い、途中で失敗したら全部戻す。
type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type OrderLineOutput struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
	ImageURL     string `json:"image_url"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	BuyerUsername string            `json:"buyer_username"`
	Status        string            `json:"status"`
	OrderDate     time.Time         `json:"order_date"`
	TotalAmount   int64             `json:"total_amount"`
	CanModify     bool              `json:"can_modify"`
	Items         []OrderLineOutput `json:"items"`
}

type OrderSummaryOutput struct {
	ID          int64     `json:"id"`
	Status      string    `json:"status"`
	OrderDate   time.Time `json:"order_date"`
	TotalAmount int64     `json:"total_amount"`
	ItemCount   int64     `json:"item_count"`
}

// Checkout はカートをPendingへ確定する。
// 事前条件：合計>0、全明細が公開中かつ在庫内。検証が全部通ってから減算する。
func (u *OrderUsecase) Checkout(ctx context.Context, username string, orderID int64) (OrderOutput, error) {
	if username == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.BuyerUsername != username {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if o.Status != model.OrderStatusCart {
			return checkoutError("order has already been checked out")
		}

		lines, err := r.OrderItems().ListLines(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var total int64
		for _, l := range lines {
			total += l.Quantity * l.ItemPrice
		}
		if total <= 0 {
			return checkoutError("cart is empty")
		}

		// 追加時だけでなく確定時にも再検証する（並行減少を拾う）
		for _, l := range lines {
			if l.Availability != model.AvailabilityPublished {
				return checkoutError("product %q is no longer available", l.ProductName)
			}
			if l.Quantity > l.Stock {
				return checkoutError("not enough stock for %q, only %d available", l.ProductName, l.Stock)
			}
		}

		// 在庫減算はatomicな条件付きUPDATE。失敗したらロールバックで全部戻る。
		for _, l := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return checkoutError("not enough stock for %q", l.ProductName)
			}
		}

		now := time.Now()
		if err := r.Orders().MarkCheckedOut(ctx, orderID, total, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(model.Order{
			ID:            orderID,
			BuyerUsername: username,
			Status:        model.OrderStatusPending,
			OrderDate:     now,
			TotalAmount:   total,
		}, lines)
		out.CanModify = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// Cart以外の自分の注文一覧
func (u *OrderUsecase) ListMyOrders(ctx context.Context, username string) ([]OrderSummaryOutput, error) {
	if username == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderSummaryOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rows, err := r.Orders().ListByBuyer(ctx, username)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderSummaryOutput, 0, len(rows))
		for _, row := range rows {
			outs = append(outs, toSummaryOutput(row))
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, username string, orderID int64) (OrderOutput, error) {
	if username == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		// 他人の注文は「存在しない扱い」にする
		if o.BuyerUsername != username || o.Status == model.OrderStatusCart {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		lines, err := r.OrderItems().ListLines(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		out.CanModify = o.Status == model.OrderStatusPending
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 所有者かつPendingのときだけtrue
func (u *OrderUsecase) CanModifyOrder(ctx context.Context, username string, orderID int64) (bool, error) {
	var can bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		can = o.BuyerUsername == username && o.Status == model.OrderStatusPending
		return nil
	})

	if err != nil {
		return false, err
	}
	return can, nil
}

// Pending中の明細編集。0以下は削除。Processing以降は拒否。
func (u *OrderUsecase) UpdatePendingItem(ctx context.Context, username string, orderID, productID, quantity int64) (OrderOutput, error) {
	if username == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 || productID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.BuyerUsername != username {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if o.Status != model.OrderStatusPending {
			return NewHTTPError(http.StatusForbidden, "order can no longer be modified")
		}

		if quantity <= 0 {
			if err := r.OrderItems().Delete(ctx, orderID, productID); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusNotFound, "item not in order")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		} else {
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

			if err := r.OrderItems().UpdateQuantity(ctx, orderID, productID, quantity); err != nil {
				if err == repo.ErrNotFound {
					return NewHTTPError(http.StatusNotFound, "item not in order")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		lines, err := r.OrderItems().ListLines(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, lines)
		out.CanModify = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, lines []repo.OrderLine) OrderOutput {
	items := make([]OrderLineOutput, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderLineOutput{
			ProductID:    l.ProductID,
			Name:         l.ProductName,
			BusinessName: l.BusinessName,
			Price:        l.ItemPrice,
			Quantity:     l.Quantity,
			Subtotal:     l.ItemPrice * l.Quantity,
			ImageURL:     l.ImageURL,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		BuyerUsername: o.BuyerUsername,
		Status:        string(o.Status),
		OrderDate:     o.OrderDate,
		TotalAmount:   o.TotalAmount,
		Items:         items,
	}
}

func toSummaryOutput(row repo.OrderSummary) OrderSummaryOutput {
	return OrderSummaryOutput{
		ID:          row.ID,
		Status:      string(row.Status),
		OrderDate:   row.OrderDate,
		TotalAmount: row.TotalAmount,
		ItemCount:   row.ItemCount,
	}
}

// チェックアウト前提条件の失敗（商品名入りの文言）
func checkoutError(format string, args ...any) error {
	return NewHTTPError(http.StatusConflict, fmt.Sprintf(format, args...))
}
