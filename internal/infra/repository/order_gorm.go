package repository

import (
	"context"
	"errors"
	"time"

	"agora/internal/domain/model"
	repo "agora/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// Cart行を新しい順で全件。重複があり得るので複数返す。
func (r *OrderGormRepository) ListCartsByBuyer(ctx context.Context, username string) ([]model.Order, error) {
	var carts []model.Order

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("buyer_username = ? AND status = ?", username, model.OrderStatusCart).
		Order("order_date desc, order_id desc").
		Find(&carts).Error
	if err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *OrderGormRepository) CreateCart(ctx context.Context, username string, now time.Time) (model.Order, error) {
	cart := model.Order{
		BuyerUsername: username,
		Status:        model.OrderStatusCart,
		OrderDate:     now,
		TotalAmount:   0,
	}

	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return model.Order{}, err
	}
	return cart, nil
}

// Cart以外の注文を新しい順で（明細数つき）
func (r *OrderGormRepository) ListByBuyer(ctx context.Context, username string) ([]repo.OrderSummary, error) {
	var rows []repo.OrderSummary

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("orders.*, count(order_items.product_id) as item_count").
		Joins("left join order_items on order_items.order_id = orders.order_id").
		Where("orders.buyer_username = ? AND orders.status <> ?", username, model.OrderStatusCart).
		Group("orders.order_id").
		Order("orders.order_date desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// 自ビジネスの商品を含む注文（アクティブなSeller関連で判定、Cart除外）
func (r *OrderGormRepository) ListForSeller(ctx context.Context, username string) ([]repo.OrderSummary, error) {
	var rows []repo.OrderSummary

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("orders.*, count(distinct order_items.product_id) as item_count").
		Joins("join order_items on order_items.order_id = orders.order_id").
		Joins("join products on products.id = order_items.product_id").
		Joins("join business_associations ba on ba.business_id = products.business_id").
		Where("ba.username = ? AND ba.role_name = ? AND ba.is_active = ? AND orders.status <> ?",
			username, model.RoleSeller, true, model.OrderStatusCart).
		Group("orders.order_id").
		Order("orders.order_date desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Cart→Pending確定。total_amountを固定しorder_dateを打ち直す。
func (r *OrderGormRepository) MarkCheckedOut(ctx context.Context, orderID int64, total int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_id = ? AND status = ?", orderID, model.OrderStatusCart).
		Updates(map[string]any{
			"status":       model.OrderStatusPending,
			"total_amount": total,
			"order_date":   at,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) Delete(ctx context.Context, orderID int64) error {
	res := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&model.Order{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
