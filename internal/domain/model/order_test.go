package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusProcessing},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderStatusPending, OrderStatusShipped},   // 飛び越し
		{OrderStatusPending, OrderStatusDelivered}, // 飛び越し
		{OrderStatusProcessing, OrderStatusPending}, // 後退
		{OrderStatusShipped, OrderStatusProcessing}, // 後退
		{OrderStatusDelivered, OrderStatusCancelled}, // 終端から
		{OrderStatusCancelled, OrderStatusPending},   // 終端から
		{OrderStatusCart, OrderStatusPending},        // Cartはチェックアウト経由のみ
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Processing", "Shipped", "Delivered", "Cancelled"} {
		assert.True(t, ValidOrderStatus(s))
	}
	// Cartは外から指定できない
	assert.False(t, ValidOrderStatus("Cart"))
	assert.False(t, ValidOrderStatus("pending"))
	assert.False(t, ValidOrderStatus(""))
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.False(t, OrderStatusCart.IsTerminal())
}

func TestProductIsInStock(t *testing.T) {
	assert.True(t, Product{Availability: AvailabilityPublished, Quantity: 1}.IsInStock())
	assert.False(t, Product{Availability: AvailabilityPublished, Quantity: 0}.IsInStock())
	// 下書きは在庫があっても買えない
	assert.False(t, Product{Availability: AvailabilityDraft, Quantity: 5}.IsInStock())
}
