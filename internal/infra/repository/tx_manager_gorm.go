package repository

import (
	"context"

	repo "agora/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders       repo.OrderRepository
	orderItems   repo.OrderItemRepository
	products     repo.ProductRepository
	inventory    repo.InventoryRepository
	images       repo.ProductImageRepository
	categories   repo.CategoryRepository
	businesses   repo.BusinessRepository
	associations repo.AssociationRepository
	audit        repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository             { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository     { return r.orderItems }
func (r *txReposGorm) Products() repo.ProductRepository         { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *txReposGorm) Images() repo.ProductImageRepository      { return r.images }
func (r *txReposGorm) Categories() repo.CategoryRepository      { return r.categories }
func (r *txReposGorm) Businesses() repo.BusinessRepository      { return r.businesses }
func (r *txReposGorm) Associations() repo.AssociationRepository { return r.associations }
func (r *txReposGorm) Audit() repo.AuditLogRepository           { return r.audit }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:       NewOrderGormRepository(tx),
			orderItems:   NewOrderItemGormRepository(tx),
			products:     NewProductGormRepository(tx),
			inventory:    NewInventoryGormRepository(tx),
			images:       NewProductImageGormRepository(tx),
			categories:   NewCategoryGormRepository(tx),
			businesses:   NewBusinessGormRepository(tx),
			associations: NewAssociationGormRepository(tx),
			audit:        NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
