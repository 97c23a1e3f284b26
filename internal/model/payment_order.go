package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

// PaymentOrder (orden de pago, "OP") is a disbursement request generated from
// a comparative quote and addressed to one supplier. The owning quote cannot
// be deleted while orders reference it.
type PaymentOrder struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`

	QuoteID uuid.UUID         `gorm:"type:uuid;not null;index" json:"quote_id"`
	Quote   *ComparativeQuote `gorm:"foreignKey:QuoteID" json:"quote,omitempty"`

	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	Para      string `gorm:"type:varchar(200)" json:"para"`
	CargoPara string `gorm:"type:varchar(200)" json:"cargo_para"`
	De        string `gorm:"type:varchar(200)" json:"de"`
	CargoDe   string `gorm:"type:varchar(200)" json:"cargo_de"`

	FechaSolicitud  time.Time `gorm:"type:date;not null" json:"fecha_solicitud"`
	Proyecto        string    `gorm:"type:varchar(200)" json:"proyecto"`
	PartidaContable string    `gorm:"type:varchar(200)" json:"partida_contable"`
	ConFactura      string    `gorm:"type:varchar(50)" json:"con_factura"`
	Efectivo        string    `gorm:"type:varchar(50)" json:"efectivo"`
	Descripcion     string    `gorm:"type:text" json:"descripcion"`

	// Partial payment: when the payable amount differs from the item total,
	// MontoManual overrides it. An approved partial order may later derive
	// exactly one complement order for the remainder.
	EsParcial       bool             `gorm:"default:false" json:"es_parcial"`
	MontoManual     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"monto_manual"`
	PartialSourceID *uuid.UUID       `gorm:"type:uuid;index" json:"partial_source_id"`
	PartialSource   *PaymentOrder    `gorm:"foreignKey:PartialSourceID" json:"partial_source,omitempty"`

	Estado workflow.Status `gorm:"type:varchar(20);not null;default:'BORRADOR';index" json:"estado"`

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

	Items []PaymentOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DocState projects the order into the workflow engine's view of it.
func (o *PaymentOrder) DocState() workflow.DocState {
	return workflow.DocState{Status: o.Estado, CreatedBy: o.CreatedByID}
}

// ApplyEffect persists a transition effect onto the order's state and audit
// fields. Callers save the order afterwards, inside their transaction.
func (o *PaymentOrder) ApplyEffect(e workflow.Effect, actorID uuid.UUID, now time.Time) {
	o.Estado = e.NewStatus
	if e.StampReviewer {
		o.ReviewedByID = &actorID
		o.ReviewedAt = &now
	}
	if e.StampApprover {
		o.ApprovedByID = &actorID
		o.ApprovedAt = &now
	}
	if e.StampRejecter {
		o.RejectedByID = &actorID
		o.RejectedAt = &now
	}
	if e.ClearReviewer {
		o.ReviewedByID = nil
		o.ReviewedAt = nil
	}
	if e.ClearApprover {
		o.ApprovedByID = nil
		o.ApprovedAt = nil
	}
	if e.ClearRejecter {
		o.RejectedByID = nil
		o.RejectedAt = nil
	}
}

// ItemTotal sums cantidad × precio_unit over the loaded items.
func (o *PaymentOrder) ItemTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// EffectiveAmount is the amount payable: the manual override when present,
// the item total otherwise.
func (o *PaymentOrder) EffectiveAmount() decimal.Decimal {
	return workflow.EffectiveAmount(o.MontoManual, o.ItemTotal())
}

// Snapshot projects the order for the readiness / complement checks.
func (o *PaymentOrder) Snapshot() workflow.OrderSnapshot {
	return workflow.OrderSnapshot{
		Number:       o.Number,
		Status:       o.Estado,
		Description:  o.Descripcion,
		IsPartial:    o.EsParcial,
		ManualAmount: o.MontoManual,
	}
}

// PaymentOrderItem is one paid product line of an order.
type PaymentOrderItem struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`

	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Unidad     string          `gorm:"type:varchar(30)" json:"unidad"`
	Cantidad   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cantidad"`
	PrecioUnit decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"precio_unit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal is cantidad × precio_unit.
func (i PaymentOrderItem) Subtotal() decimal.Decimal {
	return i.Cantidad.Mul(i.PrecioUnit)
}
