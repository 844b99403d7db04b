package usecase_test

import (
	"context"
	"testing"
	"time"

	"agora/internal/domain/model"
	"agora/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func seedCartWith(s *fakeState, username string, productID, qty, price int64) model.Order {
	cart := model.Order{ID: s.id(), BuyerUsername: username, Status: model.OrderStatusCart, OrderDate: time.Now()}
	s.orders[cart.ID] = cart
	s.items[cart.ID] = []model.OrderItem{
		{ID: s.id(), OrderID: cart.ID, ProductID: productID, Quantity: qty, ItemPrice: price},
	}
	return cart
}

func TestOrderUsecase_Checkout_Success(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	cart := seedCartWith(s, "buyer1", productID, 3, 1500)

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	out, err := uc.Checkout(context.Background(), "buyer1", cart.ID)
	assert.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusPending), out.Status)
	assert.Equal(t, int64(4500), out.TotalAmount)
	assert.True(t, out.CanModify)

	// 在庫は10→7
	assert.Equal(t, int64(7), s.products[productID].Quantity)
	// 注文はPendingへ
	assert.Equal(t, model.OrderStatusPending, s.orders[cart.ID].Status)
}

func TestOrderUsecase_Checkout_EmptyCart(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	cart := model.Order{ID: s.id(), BuyerUsername: "buyer1", Status: model.OrderStatusCart, OrderDate: time.Now()}
	s.orders[cart.ID] = cart

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	_, err := uc.Checkout(context.Background(), "buyer1", cart.ID)
	assertErrContains(t, err, "cart is empty")

	// 何も変わっていない
	assert.Equal(t, model.OrderStatusCart, s.orders[cart.ID].Status)
	assert.Equal(t, int64(10), s.products[productID].Quantity)
}

func TestOrderUsecase_Checkout_InsufficientStockRollsBack(t *testing.T) {
	s := newFakeState()
	businessID, productID := seedShop(s)

	// 2品目は在庫1しかない
	scarceID := s.id()
	s.products[scarceID] = model.Product{
		ID: scarceID, BusinessID: businessID, Name: "Rare Single Origin",
		Price: 3000, Quantity: 1, Availability: model.AvailabilityPublished,
	}

	cart := seedCartWith(s, "buyer1", productID, 2, 1500)
	s.items[cart.ID] = append(s.items[cart.ID],
		model.OrderItem{ID: s.id(), OrderID: cart.ID, ProductID: scarceID, Quantity: 5, ItemPrice: 3000})

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	_, err := uc.Checkout(context.Background(), "buyer1", cart.ID)
	assertErrContains(t, err, "Rare Single Origin")

	// どちらの在庫も減っていない
	assert.Equal(t, int64(10), s.products[productID].Quantity)
	assert.Equal(t, int64(1), s.products[scarceID].Quantity)
	assert.Equal(t, model.OrderStatusCart, s.orders[cart.ID].Status)
}

func TestOrderUsecase_Checkout_UnpublishedLineRejected(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	cart := seedCartWith(s, "buyer1", productID, 1, 1500)

	// カート追加後に下書きへ戻されたとする
	p := s.products[productID]
	p.Availability = model.AvailabilityDraft
	s.products[productID] = p

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	_, err := uc.Checkout(context.Background(), "buyer1", cart.ID)
	assertErrContains(t, err, "no longer available")
}

func TestOrderUsecase_Checkout_OthersOrderHidden(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	cart := seedCartWith(s, "buyer1", productID, 1, 1500)

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	_, err := uc.Checkout(context.Background(), "buyer2", cart.ID)
	assertErrContains(t, err, "order not found")
}

func TestOrderUsecase_Checkout_AlreadyCheckedOut(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	cart := seedCartWith(s, "buyer1", productID, 1, 1500)

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	_, err := uc.Checkout(context.Background(), "buyer1", cart.ID)
	assert.NoError(t, err)

	_, err = uc.Checkout(context.Background(), "buyer1", cart.ID)
	assertErrContains(t, err, "already been checked out")
}

func TestOrderUsecase_GetMyOrder_CartHidden(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	cart := seedCartWith(s, "buyer1", productID, 1, 1500)

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	_, err := uc.GetMyOrder(context.Background(), "buyer1", cart.ID)
	assertErrContains(t, err, "order not found")
}

func TestOrderUsecase_CanModifyOrder(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	// buyer1の注文を全ステータス分用意する
	byStatus := map[model.OrderStatus]int64{}
	for _, st := range []model.OrderStatus{
		model.OrderStatusCart,
		model.OrderStatusPending,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	} {
		o := model.Order{ID: s.id(), BuyerUsername: "buyer1", Status: st}
		s.orders[o.ID] = o
		byStatus[st] = o.ID
	}
	_ = productID

	cases := []struct {
		name     string
		username string
		orderID  int64
		want     bool
	}{
		{"owner pending", "buyer1", byStatus[model.OrderStatusPending], true},
		{"owner cart", "buyer1", byStatus[model.OrderStatusCart], false},
		{"owner processing", "buyer1", byStatus[model.OrderStatusProcessing], false},
		{"owner shipped", "buyer1", byStatus[model.OrderStatusShipped], false},
		{"owner delivered", "buyer1", byStatus[model.OrderStatusDelivered], false},
		{"owner cancelled", "buyer1", byStatus[model.OrderStatusCancelled], false},
		{"other user", "buyer2", byStatus[model.OrderStatusPending], false},
		{"missing order", "buyer1", 99999, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uc.CanModifyOrder(context.Background(), tc.username, tc.orderID)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOrderUsecase_UpdatePendingItem_ProcessingRejected(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	o := model.Order{ID: s.id(), BuyerUsername: "buyer1", Status: model.OrderStatusProcessing}
	s.orders[o.ID] = o
	s.items[o.ID] = []model.OrderItem{{ID: s.id(), OrderID: o.ID, ProductID: productID, Quantity: 1, ItemPrice: 1500}}

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	_, err := uc.UpdatePendingItem(context.Background(), "buyer1", o.ID, productID, 2)
	assertErrContains(t, err, "no longer be modified")
}

func TestOrderUsecase_UpdatePendingItem_ZeroRemovesLine(t *testing.T) {
	s := newFakeState()
	_, productID := seedShop(s)
	o := model.Order{ID: s.id(), BuyerUsername: "buyer1", Status: model.OrderStatusPending}
	s.orders[o.ID] = o
	s.items[o.ID] = []model.OrderItem{{ID: s.id(), OrderID: o.ID, ProductID: productID, Quantity: 2, ItemPrice: 1500}}

	uc := usecase.NewOrderUsecase(&fakeTx{s: s})

	out, err := uc.UpdatePendingItem(context.Background(), "buyer1", o.ID, productID, 0)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}
