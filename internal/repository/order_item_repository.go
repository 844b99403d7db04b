package repository

import (
	"agora/internal/domain/model"
	"context"
)

// 明細と表示用の商品情報をまとめたビュー
type OrderLine struct {
	model.OrderItem
	ProductName  string             `json:"product_name"`
	BusinessName string             `json:"business_name"`
	Stock        int64              `json:"-"`
	Availability model.Availability `json:"-"`
	ImageURL     string             `json:"image_url"`
}

type OrderItemRepository interface {
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	// 商品名・在庫・画像つきの明細（カート/注文画面用）
	ListLines(ctx context.Context, orderID int64) ([]OrderLine, error)
	FindByOrderAndProduct(ctx context.Context, orderID, productID int64) (model.OrderItem, error)

	// 同一商品は数量加算。新規行にはitemPriceをスナップショットとして保存。
	UpsertAdd(ctx context.Context, orderID, productID, addQty, itemPrice int64) error
	UpdateQuantity(ctx context.Context, orderID, productID, qty int64) error
	Delete(ctx context.Context, orderID, productID int64) error
	DeleteByOrderID(ctx context.Context, orderID int64) error
	// SUM(quantity * item_price)
	Total(ctx context.Context, orderID int64) (int64, error)
}
