package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
	"github.com/hectorisrael87/fundacion-sys/pkg/pagination"
)

// OrderFilter narrows payment order listings.
type OrderFilter struct {
	Estado     string
	QuoteID    *uuid.UUID
	SupplierID *uuid.UUID
	Page       int
	Limit      int
}

// PaymentOrderRepository is the data access layer for payment orders.
type PaymentOrderRepository interface {
	Create(ctx context.Context, op *model.PaymentOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentOrder, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.PaymentOrder, error)
	List(ctx context.Context, actor workflow.Actor, filter OrderFilter) ([]model.PaymentOrder, int64, error)
	ListByQuoteForUpdate(ctx context.Context, quoteID uuid.UUID) ([]model.PaymentOrder, error)
	Save(ctx context.Context, op *model.PaymentOrder) error
	Delete(ctx context.Context, op *model.PaymentOrder) error

	FindComplement(ctx context.Context, baseID uuid.UUID) (*model.PaymentOrder, error)
	CountComplements(ctx context.Context, baseID uuid.UUID) (int64, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type paymentOrderRepository struct {
	db *gorm.DB
}

func NewPaymentOrderRepository(db *gorm.DB) PaymentOrderRepository {
	return &paymentOrderRepository{db: db}
}

func (r *paymentOrderRepository) Create(ctx context.Context, op *model.PaymentOrder) error {
	return GetDB(ctx, r.db).Create(op).Error
}

func (r *paymentOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentOrder, error) {
	var op model.PaymentOrder
	err := GetDB(ctx, r.db).
		Preload("Items.Product").
		Preload("Quote").
		Preload("Supplier").
		Preload("PartialSource").
		Preload("CreatedBy").
		Preload("ReviewedBy").
		Preload("ApprovedBy").
		Preload("RejectedBy").
		First(&op, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// GetForUpdate locks the order row for the enclosing transaction and loads
// its items.
func (r *paymentOrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.PaymentOrder, error) {
	db := GetDB(ctx, r.db)

	var op model.PaymentOrder
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&op, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Items.Product").First(&op, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *paymentOrderRepository) List(ctx context.Context, actor workflow.Actor, filter OrderFilter) ([]model.PaymentOrder, int64, error) {
	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		q = q.Scopes(visibilityScope(actor))
		if filter.Estado != "" {
			q = q.Where("estado = ?", filter.Estado)
		}
		if filter.QuoteID != nil {
			q = q.Where("quote_id = ?", *filter.QuoteID)
		}
		if filter.SupplierID != nil {
			q = q.Where("supplier_id = ?", *filter.SupplierID)
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&model.PaymentOrder{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(filter.Page, filter.Limit)

	var orders []model.PaymentOrder
	if err := apply(db).
		Preload("Supplier").
		Preload("Quote").
		Preload("CreatedBy").
		Order("created_at DESC").
		Scopes(page.Scope()).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByQuoteForUpdate locks every order of a quote for the enclosing
// transaction. Used by the paired submission so no order can move while the
// quote advances.
func (r *paymentOrderRepository) ListByQuoteForUpdate(ctx context.Context, quoteID uuid.UUID) ([]model.PaymentOrder, error) {
	db := GetDB(ctx, r.db)

	var orders []model.PaymentOrder
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("quote_id = ?", quoteID).
		Order("created_at").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	for i := range orders {
		if err := db.Preload("Items.Product").First(&orders[i], "id = ?", orders[i].ID).Error; err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *paymentOrderRepository) Save(ctx context.Context, op *model.PaymentOrder) error {
	return GetDB(ctx, r.db).Save(op).Error
}

func (r *paymentOrderRepository) Delete(ctx context.Context, op *model.PaymentOrder) error {
	return GetDB(ctx, r.db).Select("Items").Delete(op).Error
}

func (r *paymentOrderRepository) FindComplement(ctx context.Context, baseID uuid.UUID) (*model.PaymentOrder, error) {
	var op model.PaymentOrder
	err := GetDB(ctx, r.db).First(&op, "partial_source_id = ?", baseID).Error
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *paymentOrderRepository) CountComplements(ctx context.Context, baseID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.PaymentOrder{}).Where("partial_source_id = ?", baseID).Count(&n).Error
	return n, err
}

func (r *paymentOrderRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.PaymentOrder{}).Where("supplier_id = ?", supplierID).Count(&n).Error
	return n, err
}

func (r *paymentOrderRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.PaymentOrderItem{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}
