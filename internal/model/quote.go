package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

// ComparativeQuote (cuadro comparativo, "CC") compares supplier prices for a
// set of requested products and records the winning supplier decision.
// Its number is allocated once, inside the transaction that first persists it.
type ComparativeQuote struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`

	ItemCotizado string `gorm:"type:varchar(200);not null" json:"item_cotizado"`
	Proyecto     string `gorm:"type:varchar(200)" json:"proyecto"`
	ExpresadoEn  string `gorm:"type:varchar(50);not null;default:'Bolivianos'" json:"expresado_en"`

	Estado workflow.Status `gorm:"type:varchar(20);not null;default:'BORRADOR';index" json:"estado"`

	// Winner selection. The FK points at a QuoteSupplier row of this same
	// quote; deleting that supplier row clears the selection.
	SelectedSupplierID *uuid.UUID     `gorm:"type:uuid" json:"selected_supplier_id"`
	SelectedSupplier   *QuoteSupplier `gorm:"foreignKey:SelectedSupplierID" json:"selected_supplier,omitempty"`
	MotivoSeleccion    string         `gorm:"type:text" json:"motivo_seleccion"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID" json:"created_by_user,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	ReviewedBy   *User      `gorm:"foreignKey:ReviewedByID" json:"reviewed_by_user,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at"`

	ApprovedByID *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	ApprovedBy   *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by_user,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at"`

	RejectedByID *uuid.UUID `gorm:"type:uuid" json:"rejected_by"`
	RejectedBy   *User      `gorm:"foreignKey:RejectedByID" json:"rejected_by_user,omitempty"`
	RejectedAt   *time.Time `json:"rejected_at"`

	Items       []QuoteItem       `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Suppliers   []QuoteSupplier   `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"suppliers,omitempty"`
	Prices      []QuotePrice      `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"prices,omitempty"`
	Attachments []QuoteAttachment `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DocState projects the quote into the workflow engine's view of it.
func (q *ComparativeQuote) DocState() workflow.DocState {
	return workflow.DocState{Status: q.Estado, CreatedBy: q.CreatedByID}
}

// ApplyEffect persists a transition effect onto the quote's state and audit
// fields. Callers save the quote afterwards, inside their transaction.
func (q *ComparativeQuote) ApplyEffect(e workflow.Effect, actorID uuid.UUID, now time.Time) {
	q.Estado = e.NewStatus
	if e.StampReviewer {
		q.ReviewedByID = &actorID
		q.ReviewedAt = &now
	}
	if e.StampApprover {
		q.ApprovedByID = &actorID
		q.ApprovedAt = &now
	}
	if e.StampRejecter {
		q.RejectedByID = &actorID
		q.RejectedAt = &now
	}
	if e.ClearReviewer {
		q.ReviewedByID = nil
		q.ReviewedAt = nil
	}
	if e.ClearApprover {
		q.ApprovedByID = nil
		q.ApprovedAt = nil
	}
	if e.ClearRejecter {
		q.RejectedByID = nil
		q.RejectedAt = nil
	}
}

// QuoteItem is one requested product line. A product appears at most once per
// quote; adding it again accumulates the quantity instead of duplicating.
type QuoteItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_items_quote_product" json:"quote_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_items_quote_product" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Unidad   string          `gorm:"type:varchar(30);not null;default:'Und'" json:"unidad"`
	Cantidad decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cantidad"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteSupplier is one candidate supplier attached to a quote.
type QuoteSupplier struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_suppliers_quote_supplier" json:"quote_id"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_suppliers_quote_supplier" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	Detalle string `gorm:"type:varchar(250)" json:"detalle"`

	CreatedAt time.Time `json:"created_at"`
}

// QuotePrice is one populated cell of the supplier×product price matrix.
// Cells only exist for suppliers and products attached to the same quote;
// removing either side deletes its cells in the same transaction.
type QuotePrice struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_prices_cell" json:"quote_id"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_prices_cell" json:"supplier_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quote_prices_cell" json:"product_id"`

	PrecioUnit decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"precio_unit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuoteAttachment is an uploaded quotation document (metadata + storage path).
type QuoteAttachment struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuoteID  uuid.UUID `gorm:"type:uuid;not null;index" json:"quote_id"`
	Filename string    `gorm:"type:varchar(255);not null" json:"filename"`
	Path     string    `gorm:"type:varchar(500);not null" json:"path"`
	Size     int64     `gorm:"not null;default:0" json:"size"`

	UploadedByID uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}
