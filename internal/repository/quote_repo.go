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

// QuoteFilter narrows quote listings.
type QuoteFilter struct {
	Estado string
	Page   int
	Limit  int
}

// QuoteRepository is the data access layer for the comparative quote
// aggregate and its children.
type QuoteRepository interface {
	Create(ctx context.Context, q *model.ComparativeQuote) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ComparativeQuote, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*model.ComparativeQuote, error)
	List(ctx context.Context, actor workflow.Actor, filter QuoteFilter) ([]model.ComparativeQuote, int64, error)
	Save(ctx context.Context, q *model.ComparativeQuote) error
	Delete(ctx context.Context, q *model.ComparativeQuote) error

	FindItem(ctx context.Context, quoteID, productID uuid.UUID) (*model.QuoteItem, error)
	GetItem(ctx context.Context, quoteID, itemID uuid.UUID) (*model.QuoteItem, error)
	SaveItem(ctx context.Context, item *model.QuoteItem) error
	DeleteItemWithPrices(ctx context.Context, item *model.QuoteItem) error

	GetSupplier(ctx context.Context, quoteID, quoteSupplierID uuid.UUID) (*model.QuoteSupplier, error)
	SaveSupplier(ctx context.Context, sup *model.QuoteSupplier) error
	DeleteSupplierWithPrices(ctx context.Context, sup *model.QuoteSupplier) error

	UpsertPrice(ctx context.Context, price *model.QuotePrice) error

	SaveAttachment(ctx context.Context, att *model.QuoteAttachment) error
	GetAttachment(ctx context.Context, quoteID, attID uuid.UUID) (*model.QuoteAttachment, error)
	DeleteAttachment(ctx context.Context, att *model.QuoteAttachment) error

	CountOrders(ctx context.Context, quoteID uuid.UUID) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

// visibilityScope applies the document read gate to a query: creators see
// only their own documents; reviewers/approvers see everything except other
// users' drafts; superusers see everything.
func visibilityScope(a workflow.Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if a.Superuser {
			return db
		}
		if a.Reviewer || a.Approver {
			return db.Where("estado <> ? OR created_by_id = ?", workflow.StatusDraft, a.ID)
		}
		return db.Where("created_by_id = ?", a.ID)
	}
}

func (r *quoteRepository) Create(ctx context.Context, q *model.ComparativeQuote) error {
	return GetDB(ctx, r.db).Create(q).Error
}

func (r *quoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ComparativeQuote, error) {
	var q model.ComparativeQuote
	err := GetDB(ctx, r.db).
		Preload("Items.Product").
		Preload("Suppliers.Supplier").
		Preload("Prices").
		Preload("Attachments").
		Preload("SelectedSupplier.Supplier").
		Preload("CreatedBy").
		Preload("ReviewedBy").
		Preload("ApprovedBy").
		Preload("RejectedBy").
		First(&q, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetForUpdate locks the quote row for the duration of the enclosing
// transaction, then loads the children. Used by every state transition to
// close the check/act race.
func (r *quoteRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.ComparativeQuote, error) {
	db := GetDB(ctx, r.db)

	var q model.ComparativeQuote
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := db.
		Preload("Items.Product").
		Preload("Suppliers.Supplier").
		Preload("Prices").
		First(&q, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepository) List(ctx context.Context, actor workflow.Actor, filter QuoteFilter) ([]model.ComparativeQuote, int64, error) {
	db := GetDB(ctx, r.db)

	query := db.Model(&model.ComparativeQuote{}).Scopes(visibilityScope(actor))
	if filter.Estado != "" {
		query = query.Where("estado = ?", filter.Estado)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.Normalize(filter.Page, filter.Limit)

	var quotes []model.ComparativeQuote
	fetch := db.Scopes(visibilityScope(actor), page.Scope()).
		Preload("CreatedBy").
		Preload("ReviewedBy").
		Preload("SelectedSupplier.Supplier")
	if filter.Estado != "" {
		fetch = fetch.Where("estado = ?", filter.Estado)
	}
	if err := fetch.Order("created_at DESC").Find(&quotes).Error; err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (r *quoteRepository) Save(ctx context.Context, q *model.ComparativeQuote) error {
	return GetDB(ctx, r.db).Save(q).Error
}

func (r *quoteRepository) Delete(ctx context.Context, q *model.ComparativeQuote) error {
	return GetDB(ctx, r.db).Select("Items", "Suppliers", "Prices", "Attachments").Delete(q).Error
}

func (r *quoteRepository) FindItem(ctx context.Context, quoteID, productID uuid.UUID) (*model.QuoteItem, error) {
	var item model.QuoteItem
	err := GetDB(ctx, r.db).First(&item, "quote_id = ? AND product_id = ?", quoteID, productID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *quoteRepository) GetItem(ctx context.Context, quoteID, itemID uuid.UUID) (*model.QuoteItem, error) {
	var item model.QuoteItem
	err := GetDB(ctx, r.db).Preload("Product").First(&item, "id = ? AND quote_id = ?", itemID, quoteID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *quoteRepository) SaveItem(ctx context.Context, item *model.QuoteItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

// DeleteItemWithPrices removes a line item and, in the same transaction, the
// price cells that reference its product so the matrix never holds orphans.
func (r *quoteRepository) DeleteItemWithPrices(ctx context.Context, item *model.QuoteItem) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("quote_id = ? AND product_id = ?", item.QuoteID, item.ProductID).
		Delete(&model.QuotePrice{}).Error; err != nil {
		return err
	}
	return db.Delete(item).Error
}

func (r *quoteRepository) GetSupplier(ctx context.Context, quoteID, quoteSupplierID uuid.UUID) (*model.QuoteSupplier, error) {
	var sup model.QuoteSupplier
	err := GetDB(ctx, r.db).Preload("Supplier").First(&sup, "id = ? AND quote_id = ?", quoteSupplierID, quoteID).Error
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (r *quoteRepository) SaveSupplier(ctx context.Context, sup *model.QuoteSupplier) error {
	return GetDB(ctx, r.db).Save(sup).Error
}

// DeleteSupplierWithPrices removes a candidate supplier and its price cells.
// Clearing the winner selection, when it pointed here, is the service's job.
func (r *quoteRepository) DeleteSupplierWithPrices(ctx context.Context, sup *model.QuoteSupplier) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("quote_id = ? AND supplier_id = ?", sup.QuoteID, sup.SupplierID).
		Delete(&model.QuotePrice{}).Error; err != nil {
		return err
	}
	return db.Delete(sup).Error
}

func (r *quoteRepository) UpsertPrice(ctx context.Context, price *model.QuotePrice) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quote_id"}, {Name: "supplier_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"precio_unit", "updated_at"}),
	}).Create(price).Error
}

func (r *quoteRepository) SaveAttachment(ctx context.Context, att *model.QuoteAttachment) error {
	return GetDB(ctx, r.db).Save(att).Error
}

func (r *quoteRepository) GetAttachment(ctx context.Context, quoteID, attID uuid.UUID) (*model.QuoteAttachment, error) {
	var att model.QuoteAttachment
	err := GetDB(ctx, r.db).First(&att, "id = ? AND quote_id = ?", attID, quoteID).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *quoteRepository) DeleteAttachment(ctx context.Context, att *model.QuoteAttachment) error {
	return GetDB(ctx, r.db).Delete(att).Error
}

func (r *quoteRepository) CountOrders(ctx context.Context, quoteID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.PaymentOrder{}).Where("quote_id = ?", quoteID).Count(&n).Error
	return n, err
}

func (r *quoteRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.QuoteItem{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (r *quoteRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.QuoteSupplier{}).Where("supplier_id = ?", supplierID).Count(&n).Error
	return n, err
}
