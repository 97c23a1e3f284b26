package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
	"github.com/hectorisrael87/fundacion-sys/internal/repository"
	ws "github.com/hectorisrael87/fundacion-sys/internal/websocket"
	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
	"github.com/hectorisrael87/fundacion-sys/pkg/amountwords"
)

// UpdateOrderRequest edits the free-text header of a draft order. Empty
// strings leave the stored value alone except for Descripcion, which may be
// cleared.
type UpdateOrderRequest struct {
	Para            *string `json:"para"`
	CargoPara       *string `json:"cargo_para"`
	De              *string `json:"de"`
	CargoDe         *string `json:"cargo_de"`
	Proyecto        *string `json:"proyecto"`
	PartidaContable *string `json:"partida_contable"`
	ConFactura      *string `json:"con_factura"`
	Efectivo        *string `json:"efectivo"`
	Descripcion     *string `json:"descripcion"`
	EsParcial       *bool   `json:"es_parcial"`
	MontoManual     *string `json:"monto_manual"`
}

// ComplementResult reports the outcome of a complement request. When the
// complement already existed the call is not an error: Existing is true and
// Order points at the one that was found.
type ComplementResult struct {
	Order    *model.PaymentOrder `json:"order"`
	Existing bool                `json:"existing"`
}

// OrderPrintView is the payload the printable OP document is rendered from.
type OrderPrintView struct {
	Order         *model.PaymentOrder `json:"order"`
	ItemTotal     string              `json:"item_total"`
	Amount        string              `json:"amount"`
	AmountInWords string              `json:"amount_in_words"`
}

type PaymentOrderService interface {
	Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.PaymentOrder, error)
	List(ctx context.Context, actor workflow.Actor, filter repository.OrderFilter) ([]model.PaymentOrder, int64, error)
	Update(ctx context.Context, actor workflow.Actor, id uuid.UUID, req UpdateOrderRequest) (*model.PaymentOrder, error)
	Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
	ApplyTransition(ctx context.Context, actor workflow.Actor, id uuid.UUID, t workflow.Transition) error
	CreateComplement(ctx context.Context, actor workflow.Actor, baseID uuid.UUID) (*ComplementResult, error)
	PrintView(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*OrderPrintView, error)
}

type paymentOrderService struct {
	orders repository.PaymentOrderRepository
	seq    repository.SequenceRepository
	audits repository.AuditRepository
	txm    repository.TransactionManager
	hub    *ws.Hub
}

func NewPaymentOrderService(
	orders repository.PaymentOrderRepository,
	seq repository.SequenceRepository,
	audits repository.AuditRepository,
	txm repository.TransactionManager,
	hub *ws.Hub,
) PaymentOrderService {
	return &paymentOrderService{
		orders: orders,
		seq:    seq,
		audits: audits,
		txm:    txm,
		hub:    hub,
	}
}

func (s *paymentOrderService) Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.PaymentOrder, error) {
	op, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.CanView(actor, op.DocState()) {
		return nil, &workflow.PermissionError{Action: "view payment order", Reason: "document not visible to this user"}
	}
	return op, nil
}

func (s *paymentOrderService) List(ctx context.Context, actor workflow.Actor, filter repository.OrderFilter) ([]model.PaymentOrder, int64, error) {
	return s.orders.List(ctx, actor, filter)
}

func (s *paymentOrderService) Update(ctx context.Context, actor workflow.Actor, id uuid.UUID, req UpdateOrderRequest) (*model.PaymentOrder, error) {
	op, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Superuser && !actor.IsOwner(op.CreatedByID) {
		return nil, &workflow.PermissionError{Action: "edit payment order", Reason: "not the document's creator"}
	}
	if op.Estado != workflow.StatusDraft && !actor.Superuser {
		return nil, &workflow.PermissionError{Action: "edit payment order", Reason: fmt.Sprintf("order is %s and can no longer be edited", op.Estado.Label())}
	}

	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&op.Para, req.Para)
	setIf(&op.CargoPara, req.CargoPara)
	setIf(&op.De, req.De)
	setIf(&op.CargoDe, req.CargoDe)
	setIf(&op.Proyecto, req.Proyecto)
	setIf(&op.PartidaContable, req.PartidaContable)
	setIf(&op.ConFactura, req.ConFactura)
	setIf(&op.Efectivo, req.Efectivo)
	setIf(&op.Descripcion, req.Descripcion)

	if req.EsParcial != nil {
		op.EsParcial = *req.EsParcial
		if !op.EsParcial {
			op.MontoManual = nil
		}
	}
	if req.MontoManual != nil {
		if *req.MontoManual == "" {
			op.MontoManual = nil
		} else {
			amount, err := decimal.NewFromString(*req.MontoManual)
			if err != nil {
				return nil, fmt.Errorf("invalid manual amount: %w", err)
			}
			if !amount.IsPositive() {
				return nil, errors.New("manual amount must be greater than zero")
			}
			op.MontoManual = &amount
		}
	}

	if err := s.orders.Save(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to update payment order: %w", err)
	}
	return op, nil
}

// Delete removes a draft order. Orders that already derived a complement are
// protected.
func (s *paymentOrderService) Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		op, err := s.orders.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.Superuser && !actor.IsOwner(op.CreatedByID) {
			return &workflow.PermissionError{Action: "delete payment order", Reason: "not the document's creator"}
		}
		if op.Estado != workflow.StatusDraft && !actor.Superuser {
			return &workflow.PermissionError{Action: "delete payment order", Reason: "only draft orders can be deleted"}
		}

		n, err := s.orders.CountComplements(txCtx, op.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("order %s has a derived complement: %w", op.Number, workflow.ErrProtectedReference)
		}

		if err := s.orders.Delete(txCtx, op); err != nil {
			return fmt.Errorf("failed to delete payment order: %w", err)
		}
		return logAudit(txCtx, s.audits, actor, model.ActionDeleteOrder, op.ID.String(), op.Number, nil)
	})
}

// ApplyTransition advances a single payment order through the review track.
// Submission also runs the completeness gate; the paired quote submission in
// QuoteService is the usual entry point, this one covers orders submitted on
// their own after a rejection.
func (s *paymentOrderService) ApplyTransition(ctx context.Context, actor workflow.Actor, id uuid.UUID, t workflow.Transition) error {
	var event ws.DocumentEvent
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		op, err := s.orders.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		effect, err := workflow.Apply(op.DocState(), t, actor)
		if err != nil {
			return err
		}

		if t == workflow.TransitionSubmit {
			if reasons := workflow.CheckOrderCompleteness(op.Snapshot()); len(reasons) > 0 {
				return &workflow.ReadinessError{Reasons: reasons}
			}
		}

		op.ApplyEffect(effect, actor.ID, time.Now())
		if err := s.orders.Save(txCtx, op); err != nil {
			return fmt.Errorf("failed to save order transition: %w", err)
		}
		event = ws.DocumentEvent{Kind: "op", ID: op.ID.String(), Number: op.Number, Estado: string(op.Estado)}

		return logAudit(txCtx, s.audits, actor, model.ActionOrderTransition, op.ID.String(), op.Number,
			map[string]interface{}{"transition": string(t), "estado": string(op.Estado)})
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Notify(event)
	}
	return nil
}

// CreateComplement derives the remainder order of an approved partial
// payment. Asking twice is not a failure: the existing complement is
// returned with Existing set so the caller can redirect to it.
func (s *paymentOrderService) CreateComplement(ctx context.Context, actor workflow.Actor, baseID uuid.UUID) (*ComplementResult, error) {
	var result ComplementResult
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		base, err := s.orders.GetForUpdate(txCtx, baseID)
		if err != nil {
			return err
		}
		if !actor.Superuser && !actor.IsOwner(base.CreatedByID) {
			return &workflow.PermissionError{Action: "create complement", Reason: "not the document's creator"}
		}

		existing, err := s.orders.FindComplement(txCtx, base.ID)
		switch {
		case err == nil:
			result = ComplementResult{Order: existing, Existing: true}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			// fall through and create it
		default:
			return err
		}

		remaining, err := workflow.ComplementAmount(base.Snapshot(), base.ItemTotal())
		if err != nil {
			return err
		}

		number, err := s.seq.NextDocumentNumber(txCtx, model.DocTypePaymentOrder)
		if err != nil {
			return err
		}

		comp := &model.PaymentOrder{
			Number:          number,
			QuoteID:         base.QuoteID,
			SupplierID:      base.SupplierID,
			Para:            base.Para,
			CargoPara:       base.CargoPara,
			De:              actor.Username,
			CargoDe:         base.CargoDe,
			FechaSolicitud:  time.Now(),
			Proyecto:        base.Proyecto,
			PartidaContable: base.PartidaContable,
			ConFactura:      base.ConFactura,
			Efectivo:        base.Efectivo,
			Descripcion:     fmt.Sprintf("Complemento de %s", base.Number),
			// Not partial: the remainder settles the base order, so no
			// further complement can be derived from it.
			EsParcial:       false,
			MontoManual:     &remaining,
			PartialSourceID: &base.ID,
			Estado:          workflow.StatusDraft,
			CreatedByID:     actor.ID,
		}
		for _, it := range base.Items {
			comp.Items = append(comp.Items, model.PaymentOrderItem{
				ProductID:  it.ProductID,
				Unidad:     it.Unidad,
				Cantidad:   it.Cantidad,
				PrecioUnit: it.PrecioUnit,
			})
		}

		if err := s.orders.Create(txCtx, comp); err != nil {
			return fmt.Errorf("failed to create complement order: %w", err)
		}
		result = ComplementResult{Order: comp, Existing: false}

		return logAudit(txCtx, s.audits, actor, model.ActionCreateComplement, comp.ID.String(), comp.Number,
			map[string]interface{}{"base": base.Number, "amount": remaining.StringFixed(2)})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *paymentOrderService) PrintView(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*OrderPrintView, error) {
	op, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	amount := op.EffectiveAmount()
	return &OrderPrintView{
		Order:         op,
		ItemTotal:     op.ItemTotal().StringFixed(2),
		Amount:        amount.StringFixed(2),
		AmountInWords: amountwords.Spanish(amount),
	}, nil
}
