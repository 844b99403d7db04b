package repository

import (
	"context"
	"errors"

	"agora/internal/domain/model"
	repo "agora/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem

	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("product_id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// カート/注文画面用の明細ビュー。フィーチャー画像のサムネイルも引く。
func (r *OrderItemGormRepository) ListLines(ctx context.Context, orderID int64) ([]repo.OrderLine, error) {
	var lines []repo.OrderLine

	err := r.db.WithContext(ctx).
		Table("order_items").
		Select(`order_items.*,
			products.name as product_name,
			products.quantity as stock,
			products.is_available as availability,
			businesses.name as business_name,
			(SELECT pi.thumb_url FROM product_images pi
			 WHERE pi.product_id = products.id
			 ORDER BY pi.sort_order ASC, pi.image_id ASC LIMIT 1) as image_url`).
		Joins("join products on products.id = order_items.product_id").
		Joins("join businesses on businesses.id = products.business_id").
		Where("order_items.order_id = ?", orderID).
		Order("order_items.product_id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *OrderItemGormRepository) FindByOrderAndProduct(ctx context.Context, orderID, productID int64) (model.OrderItem, error) {
	var item model.OrderItem

	err := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderItem{}, err
	}
	return item, nil
}

// 同一商品は数量加算。新規行にはitem_priceをスナップショット。
func (r *OrderItemGormRepository) UpsertAdd(ctx context.Context, orderID, productID, addQty, itemPrice int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.OrderItem

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ? AND product_id = ?", orderID, productID).
			First(&item).Error

		if err == nil {
			res := tx.Model(&model.OrderItem{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity+addQty)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		newItem := model.OrderItem{
			OrderID:   orderID,
			ProductID: productID,
			Quantity:  addQty,
			ItemPrice: itemPrice,
		}
		return tx.Create(&newItem).Error
	})
}

func (r *OrderItemGormRepository) UpdateQuantity(ctx context.Context, orderID, productID, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderItemGormRepository) Delete(ctx context.Context, orderID, productID int64) error {
	res := r.db.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&model.OrderItem{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderItemGormRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&model.OrderItem{}).Error
}

func (r *OrderItemGormRepository) Total(ctx context.Context, orderID int64) (int64, error) {
	var total *int64

	err := r.db.WithContext(ctx).
		Model(&model.OrderItem{}).
		Where("order_id = ?", orderID).
		Select("sum(quantity * item_price)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
