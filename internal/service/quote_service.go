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
)

// --- DTOs ---

type CreateQuoteRequest struct {
	ItemCotizado string `json:"item_cotizado" binding:"required"`
	Proyecto     string `json:"proyecto"`
	ExpresadoEn  string `json:"expresado_en"`
}

type UpdateQuoteHeaderRequest struct {
	ItemCotizado string `json:"item_cotizado" binding:"required"`
	Proyecto     string `json:"proyecto"`
	ExpresadoEn  string `json:"expresado_en"`
}

type QuoteItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Unidad    string `json:"unidad"`
	Cantidad  string `json:"cantidad" binding:"required"`
}

type QuoteSupplierRequest struct {
	SupplierID string `json:"supplier_id" binding:"required"`
	Detalle    string `json:"detalle"`
}

type PriceCellRequest struct {
	SupplierID string `json:"supplier_id" binding:"required"`
	ProductID  string `json:"product_id" binding:"required"`
	PrecioUnit string `json:"precio_unit" binding:"required"`
}

type SelectWinnerRequest struct {
	QuoteSupplierID string `json:"quote_supplier_id" binding:"required"`
	MotivoSeleccion string `json:"motivo_seleccion" binding:"required"`
}

// OrderAssignment maps one quote item to the supplier that will deliver it.
type OrderAssignment struct {
	ItemID     string `json:"item_id" binding:"required"`
	SupplierID string `json:"supplier_id" binding:"required"`
}

type GenerateOrdersRequest struct {
	Assignments []OrderAssignment `json:"assignments" binding:"required"`
}

// SupplierTotal is the comparison total of one candidate over the populated
// price cells.
type SupplierTotal struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Total        string `json:"total"`
}

// PriceMatrixCell is one (item, supplier) cell of the comparison sheet.
// Empty unit price means the supplier did not quote that item.
type PriceMatrixCell struct {
	SupplierID string `json:"supplier_id"`
	UnitPrice  string `json:"unit_price,omitempty"`
	Subtotal   string `json:"subtotal,omitempty"`
}

// PriceMatrixRow is one item row of the comparison sheet with a cell per
// candidate supplier, in the quote's supplier order.
type PriceMatrixRow struct {
	ItemID      string            `json:"item_id"`
	ProductName string            `json:"product_name"`
	Unidad      string            `json:"unidad"`
	Cantidad    string            `json:"cantidad"`
	Cells       []PriceMatrixCell `json:"cells"`
}

// QuotePrintView is the payload the printable comparison sheet is rendered
// from.
type QuotePrintView struct {
	Quote          *model.ComparativeQuote `json:"quote"`
	Matrix         []PriceMatrixRow        `json:"matrix"`
	SupplierTotals []SupplierTotal         `json:"supplier_totals"`
}

// --- Interface ---

type QuoteService interface {
	Create(ctx context.Context, actor workflow.Actor, req CreateQuoteRequest) (*model.ComparativeQuote, error)
	Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.ComparativeQuote, []SupplierTotal, error)
	PrintView(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*QuotePrintView, error)
	List(ctx context.Context, actor workflow.Actor, filter repository.QuoteFilter) ([]model.ComparativeQuote, int64, error)
	UpdateHeader(ctx context.Context, actor workflow.Actor, id uuid.UUID, req UpdateQuoteHeaderRequest) (*model.ComparativeQuote, error)
	Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error

	AddItem(ctx context.Context, actor workflow.Actor, id uuid.UUID, req QuoteItemRequest) error
	UpdateItem(ctx context.Context, actor workflow.Actor, id, itemID uuid.UUID, req QuoteItemRequest) error
	DeleteItem(ctx context.Context, actor workflow.Actor, id, itemID uuid.UUID) error

	AddSupplier(ctx context.Context, actor workflow.Actor, id uuid.UUID, req QuoteSupplierRequest) error
	UpdateSupplier(ctx context.Context, actor workflow.Actor, id, quoteSupplierID uuid.UUID, detalle string) error
	DeleteSupplier(ctx context.Context, actor workflow.Actor, id, quoteSupplierID uuid.UUID) error

	SetPrices(ctx context.Context, actor workflow.Actor, id uuid.UUID, cells []PriceCellRequest) error
	SelectWinner(ctx context.Context, actor workflow.Actor, id uuid.UUID, req SelectWinnerRequest) error
	GenerateOrders(ctx context.Context, actor workflow.Actor, id uuid.UUID, req GenerateOrdersRequest) ([]model.PaymentOrder, error)

	AddAttachment(ctx context.Context, actor workflow.Actor, id uuid.UUID, att *model.QuoteAttachment) error
	DeleteAttachment(ctx context.Context, actor workflow.Actor, id, attID uuid.UUID) (*model.QuoteAttachment, error)

	SubmitForReview(ctx context.Context, actor workflow.Actor, id uuid.UUID) error
	ApplyTransition(ctx context.Context, actor workflow.Actor, id uuid.UUID, t workflow.Transition) error
}

type quoteService struct {
	quotes   repository.QuoteRepository
	orders   repository.PaymentOrderRepository
	seq      repository.SequenceRepository
	audits   repository.AuditRepository
	txm      repository.TransactionManager
	defaults OrderDefaults
	hub      *ws.Hub
}

func NewQuoteService(
	quotes repository.QuoteRepository,
	orders repository.PaymentOrderRepository,
	seq repository.SequenceRepository,
	audits repository.AuditRepository,
	txm repository.TransactionManager,
	defaults OrderDefaults,
	hub *ws.Hub,
) QuoteService {
	return &quoteService{
		quotes:   quotes,
		orders:   orders,
		seq:      seq,
		audits:   audits,
		txm:      txm,
		defaults: defaults,
		hub:      hub,
	}
}

// --- Implementation ---

func (s *quoteService) Create(ctx context.Context, actor workflow.Actor, req CreateQuoteRequest) (*model.ComparativeQuote, error) {
	if !actor.CanCreate() {
		return nil, &workflow.PermissionError{Action: "create quote", Reason: "creator capability required"}
	}

	q := &model.ComparativeQuote{
		ItemCotizado: req.ItemCotizado,
		Proyecto:     req.Proyecto,
		ExpresadoEn:  req.ExpresadoEn,
		Estado:       workflow.StatusDraft,
		CreatedByID:  actor.ID,
	}
	if q.ExpresadoEn == "" {
		q.ExpresadoEn = "Bolivianos"
	}

	// The number is allocated inside the same transaction as the insert so a
	// rollback also rolls back the counter.
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.seq.NextDocumentNumber(txCtx, model.DocTypeQuote)
		if err != nil {
			return err
		}
		q.Number = number
		if err := s.quotes.Create(txCtx, q); err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}
		return s.logAction(txCtx, actor, model.ActionCreateQuote, q.ID.String(), q.Number, nil)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quoteService) Get(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.ComparativeQuote, []SupplierTotal, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !workflow.CanView(actor, q.DocState()) {
		return nil, nil, &workflow.PermissionError{Action: "view quote", Reason: "document not visible to this user"}
	}
	return q, supplierTotals(q), nil
}

// supplierTotals computes, per candidate supplier, the comparison total over
// the populated price cells.
func supplierTotals(q *model.ComparativeQuote) []SupplierTotal {
	prices := make(map[[2]uuid.UUID]decimal.Decimal, len(q.Prices))
	for _, p := range q.Prices {
		prices[[2]uuid.UUID{p.SupplierID, p.ProductID}] = p.PrecioUnit
	}

	totals := make([]SupplierTotal, 0, len(q.Suppliers))
	for _, sup := range q.Suppliers {
		total := decimal.Zero
		for _, it := range q.Items {
			if pu, ok := prices[[2]uuid.UUID{sup.SupplierID, it.ProductID}]; ok {
				total = total.Add(it.Cantidad.Mul(pu))
			}
		}
		name := ""
		if sup.Supplier != nil {
			name = sup.Supplier.NombreEmpresa
		}
		totals = append(totals, SupplierTotal{
			SupplierID:   sup.SupplierID.String(),
			SupplierName: name,
			Total:        total.StringFixed(2),
		})
	}
	return totals
}

func (s *quoteService) PrintView(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*QuotePrintView, error) {
	q, totals, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return &QuotePrintView{
		Quote:          q,
		Matrix:         priceMatrix(q),
		SupplierTotals: totals,
	}, nil
}

// priceMatrix lays the quote out as the comparison sheet: one row per item,
// one cell per candidate supplier.
func priceMatrix(q *model.ComparativeQuote) []PriceMatrixRow {
	prices := make(map[[2]uuid.UUID]decimal.Decimal, len(q.Prices))
	for _, p := range q.Prices {
		prices[[2]uuid.UUID{p.SupplierID, p.ProductID}] = p.PrecioUnit
	}

	rows := make([]PriceMatrixRow, 0, len(q.Items))
	for _, it := range q.Items {
		row := PriceMatrixRow{
			ItemID:   it.ID.String(),
			Unidad:   it.Unidad,
			Cantidad: it.Cantidad.StringFixed(2),
			Cells:    make([]PriceMatrixCell, 0, len(q.Suppliers)),
		}
		if it.Product != nil {
			row.ProductName = it.Product.Nombre
		}
		for _, sup := range q.Suppliers {
			cell := PriceMatrixCell{SupplierID: sup.SupplierID.String()}
			if pu, ok := prices[[2]uuid.UUID{sup.SupplierID, it.ProductID}]; ok {
				cell.UnitPrice = pu.StringFixed(2)
				cell.Subtotal = it.Cantidad.Mul(pu).StringFixed(2)
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *quoteService) List(ctx context.Context, actor workflow.Actor, filter repository.QuoteFilter) ([]model.ComparativeQuote, int64, error) {
	return s.quotes.List(ctx, actor, filter)
}

// editableQuote loads the quote and enforces the edit gate: owner, reviewer
// or superuser may edit; approved/rejected documents are frozen for everyone
// but superusers.
func (s *quoteService) editableQuote(ctx context.Context, actor workflow.Actor, id uuid.UUID) (*model.ComparativeQuote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Superuser && !actor.Reviewer && !actor.IsOwner(q.CreatedByID) {
		return nil, &workflow.PermissionError{Action: "edit quote", Reason: "not the document's creator"}
	}
	if !q.Estado.Editable() && !actor.Superuser {
		return nil, &workflow.PermissionError{Action: "edit quote", Reason: fmt.Sprintf("quote is %s and can no longer be edited", q.Estado.Label())}
	}
	return q, nil
}

func (s *quoteService) UpdateHeader(ctx context.Context, actor workflow.Actor, id uuid.UUID, req UpdateQuoteHeaderRequest) (*model.ComparativeQuote, error) {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	q.ItemCotizado = req.ItemCotizado
	q.Proyecto = req.Proyecto
	if req.ExpresadoEn != "" {
		q.ExpresadoEn = req.ExpresadoEn
	}
	if err := s.quotes.Save(ctx, q); err != nil {
		return nil, fmt.Errorf("failed to update quote header: %w", err)
	}
	return q, nil
}

// Delete removes a draft quote. Quotes with generated payment orders are
// protected and the deletion is refused without touching anything.
func (s *quoteService) Delete(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.quotes.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !actor.Superuser && !actor.IsOwner(q.CreatedByID) {
			return &workflow.PermissionError{Action: "delete quote", Reason: "not the document's creator"}
		}
		if q.Estado != workflow.StatusDraft && !actor.Superuser {
			return &workflow.PermissionError{Action: "delete quote", Reason: "only draft quotes can be deleted"}
		}

		n, err := s.quotes.CountOrders(txCtx, q.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("quote %s has %d payment orders: %w", q.Number, n, workflow.ErrProtectedReference)
		}

		if err := s.quotes.Delete(txCtx, q); err != nil {
			return fmt.Errorf("failed to delete quote: %w", err)
		}
		return s.logAction(txCtx, actor, model.ActionDeleteQuote, q.ID.String(), q.Number, nil)
	})
}

func (s *quoteService) AddItem(ctx context.Context, actor workflow.Actor, id uuid.UUID, req QuoteItemRequest) error {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	cantidad, err := decimal.NewFromString(req.Cantidad)
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	if !cantidad.IsPositive() {
		return errors.New("quantity must be greater than zero")
	}

	unidad := req.Unidad
	if unidad == "" {
		unidad = "Und"
	}

	// A product appears at most once per quote: adding it again accumulates
	// the quantity and takes the new unit.
	existing, err := s.quotes.FindItem(ctx, q.ID, productID)
	switch {
	case err == nil:
		existing.Cantidad = existing.Cantidad.Add(cantidad)
		existing.Unidad = unidad
		return s.quotes.SaveItem(ctx, existing)
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &model.QuoteItem{
			QuoteID:   q.ID,
			ProductID: productID,
			Unidad:    unidad,
			Cantidad:  cantidad,
		}
		return s.quotes.SaveItem(ctx, item)
	default:
		return err
	}
}

func (s *quoteService) UpdateItem(ctx context.Context, actor workflow.Actor, id, itemID uuid.UUID, req QuoteItemRequest) error {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return err
	}

	item, err := s.quotes.GetItem(ctx, q.ID, itemID)
	if err != nil {
		return err
	}
	cantidad, err := decimal.NewFromString(req.Cantidad)
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	if !cantidad.IsPositive() {
		return errors.New("quantity must be greater than zero")
	}

	item.Cantidad = cantidad
	if req.Unidad != "" {
		item.Unidad = req.Unidad
	}
	return s.quotes.SaveItem(ctx, item)
}

func (s *quoteService) DeleteItem(ctx context.Context, actor workflow.Actor, id, itemID uuid.UUID) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.editableQuote(txCtx, actor, id)
		if err != nil {
			return err
		}
		item, err := s.quotes.GetItem(txCtx, q.ID, itemID)
		if err != nil {
			return err
		}
		return s.quotes.DeleteItemWithPrices(txCtx, item)
	})
}

func (s *quoteService) AddSupplier(ctx context.Context, actor workflow.Actor, id uuid.UUID, req QuoteSupplierRequest) error {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return err
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return fmt.Errorf("invalid supplier id: %w", err)
	}
	for _, sup := range q.Suppliers {
		if sup.SupplierID == supplierID {
			return errors.New("supplier is already a candidate on this quote")
		}
	}

	return s.quotes.SaveSupplier(ctx, &model.QuoteSupplier{
		QuoteID:    q.ID,
		SupplierID: supplierID,
		Detalle:    req.Detalle,
	})
}

func (s *quoteService) UpdateSupplier(ctx context.Context, actor workflow.Actor, id, quoteSupplierID uuid.UUID, detalle string) error {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return err
	}
	sup, err := s.quotes.GetSupplier(ctx, q.ID, quoteSupplierID)
	if err != nil {
		return err
	}
	sup.Detalle = detalle
	return s.quotes.SaveSupplier(ctx, sup)
}

// DeleteSupplier removes a candidate supplier, its price cells, and — when it
// was the selected winner — the selection itself, atomically.
func (s *quoteService) DeleteSupplier(ctx context.Context, actor workflow.Actor, id, quoteSupplierID uuid.UUID) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.editableQuote(txCtx, actor, id)
		if err != nil {
			return err
		}
		sup, err := s.quotes.GetSupplier(txCtx, q.ID, quoteSupplierID)
		if err != nil {
			return err
		}

		if q.SelectedSupplierID != nil && *q.SelectedSupplierID == sup.ID {
			q.SelectedSupplierID = nil
			if err := s.quotes.Save(txCtx, q); err != nil {
				return err
			}
		}
		return s.quotes.DeleteSupplierWithPrices(txCtx, sup)
	})
}

// SetPrices upserts a batch of price matrix cells. Cells referencing
// suppliers or products not attached to the quote are refused.
func (s *quoteService) SetPrices(ctx context.Context, actor workflow.Actor, id uuid.UUID, cells []PriceCellRequest) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.editableQuote(txCtx, actor, id)
		if err != nil {
			return err
		}

		products := make(map[uuid.UUID]bool, len(q.Items))
		for _, it := range q.Items {
			products[it.ProductID] = true
		}
		suppliers := make(map[uuid.UUID]bool, len(q.Suppliers))
		for _, sup := range q.Suppliers {
			suppliers[sup.SupplierID] = true
		}

		for _, cell := range cells {
			supplierID, err := uuid.Parse(cell.SupplierID)
			if err != nil {
				return fmt.Errorf("invalid supplier id: %w", err)
			}
			productID, err := uuid.Parse(cell.ProductID)
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			if !suppliers[supplierID] {
				return fmt.Errorf("supplier %s is not a candidate on this quote", cell.SupplierID)
			}
			if !products[productID] {
				return fmt.Errorf("product %s is not an item on this quote", cell.ProductID)
			}

			precio, err := decimal.NewFromString(cell.PrecioUnit)
			if err != nil {
				return fmt.Errorf("invalid unit price: %w", err)
			}
			if precio.IsNegative() {
				return errors.New("unit price cannot be negative")
			}

			if err := s.quotes.UpsertPrice(txCtx, &model.QuotePrice{
				QuoteID:    q.ID,
				SupplierID: supplierID,
				ProductID:  productID,
				PrecioUnit: precio,
			}); err != nil {
				return fmt.Errorf("failed to save price cell: %w", err)
			}
		}
		return nil
	})
}

func (s *quoteService) SelectWinner(ctx context.Context, actor workflow.Actor, id uuid.UUID, req SelectWinnerRequest) error {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return err
	}

	quoteSupplierID, err := uuid.Parse(req.QuoteSupplierID)
	if err != nil {
		return fmt.Errorf("invalid quote supplier id: %w", err)
	}

	// The winner must be one of this quote's own candidates.
	found := false
	for _, sup := range q.Suppliers {
		if sup.ID == quoteSupplierID {
			found = true
			break
		}
	}
	if !found {
		return errors.New("selected supplier is not a candidate on this quote")
	}

	q.SelectedSupplierID = &quoteSupplierID
	q.MotivoSeleccion = req.MotivoSeleccion
	return s.quotes.Save(ctx, q)
}

// GenerateOrders creates one draft payment order per assigned supplier,
// copying the assigned items with their matrix prices. Assignments that
// reference missing price cells abort the generation naming every gap.
func (s *quoteService) GenerateOrders(ctx context.Context, actor workflow.Actor, id uuid.UUID, req GenerateOrdersRequest) ([]model.PaymentOrder, error) {
	if len(req.Assignments) == 0 {
		return nil, errors.New("no supplier assignments given")
	}

	var created []model.PaymentOrder
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.editableQuote(txCtx, actor, id)
		if err != nil {
			return err
		}

		items := make(map[uuid.UUID]model.QuoteItem, len(q.Items))
		for _, it := range q.Items {
			items[it.ID] = it
		}
		suppliers := make(map[uuid.UUID]model.QuoteSupplier, len(q.Suppliers))
		for _, sup := range q.Suppliers {
			suppliers[sup.SupplierID] = sup
		}
		prices := make(map[[2]uuid.UUID]decimal.Decimal, len(q.Prices))
		for _, p := range q.Prices {
			prices[[2]uuid.UUID{p.SupplierID, p.ProductID}] = p.PrecioUnit
		}

		// Group assigned items per supplier, validating as we go.
		perSupplier := make(map[uuid.UUID][]model.QuoteItem)
		var missing []string
		for _, a := range req.Assignments {
			itemID, err := uuid.Parse(a.ItemID)
			if err != nil {
				return fmt.Errorf("invalid item id: %w", err)
			}
			supplierID, err := uuid.Parse(a.SupplierID)
			if err != nil {
				return fmt.Errorf("invalid supplier id: %w", err)
			}

			it, ok := items[itemID]
			if !ok {
				return fmt.Errorf("item %s does not belong to this quote", a.ItemID)
			}
			if _, ok := suppliers[supplierID]; !ok {
				return fmt.Errorf("supplier %s is not a candidate on this quote", a.SupplierID)
			}
			if _, ok := prices[[2]uuid.UUID{supplierID, it.ProductID}]; !ok {
				name := a.ItemID
				if it.Product != nil {
					name = it.Product.Nombre
				}
				missing = append(missing, name)
				continue
			}
			perSupplier[supplierID] = append(perSupplier[supplierID], it)
		}
		if len(missing) > 0 {
			return fmt.Errorf("cannot generate orders, missing matrix prices for: %v", missing)
		}

		for supplierID, assigned := range perSupplier {
			number, err := s.seq.NextDocumentNumber(txCtx, model.DocTypePaymentOrder)
			if err != nil {
				return err
			}

			op := model.PaymentOrder{
				Number:          number,
				QuoteID:         q.ID,
				SupplierID:      supplierID,
				Para:            s.defaults.Para,
				CargoPara:       s.defaults.CargoPara,
				De:              actor.Username,
				FechaSolicitud:  time.Now(),
				Proyecto:        s.defaults.Proyecto,
				PartidaContable: s.defaults.PartidaContable,
				ConFactura:      s.defaults.ConFactura,
				Efectivo:        s.defaults.Efectivo,
				Descripcion:     fmt.Sprintf("Orden generada desde %s", q.Number),
				Estado:          workflow.StatusDraft,
				CreatedByID:     actor.ID,
			}
			for _, it := range assigned {
				op.Items = append(op.Items, model.PaymentOrderItem{
					ProductID:  it.ProductID,
					Unidad:     it.Unidad,
					Cantidad:   it.Cantidad,
					PrecioUnit: prices[[2]uuid.UUID{supplierID, it.ProductID}],
				})
			}

			if err := s.orders.Create(txCtx, &op); err != nil {
				return fmt.Errorf("failed to create payment order: %w", err)
			}
			created = append(created, op)
		}

		numbers := make([]string, 0, len(created))
		for _, op := range created {
			numbers = append(numbers, op.Number)
		}
		return s.logAction(txCtx, actor, model.ActionGenerateOrders, q.ID.String(), q.Number,
			map[string]interface{}{"orders": numbers})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *quoteService) AddAttachment(ctx context.Context, actor workflow.Actor, id uuid.UUID, att *model.QuoteAttachment) error {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return err
	}
	att.QuoteID = q.ID
	att.UploadedByID = actor.ID
	return s.quotes.SaveAttachment(ctx, att)
}

func (s *quoteService) DeleteAttachment(ctx context.Context, actor workflow.Actor, id, attID uuid.UUID) (*model.QuoteAttachment, error) {
	q, err := s.editableQuote(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	att, err := s.quotes.GetAttachment(ctx, q.ID, attID)
	if err != nil {
		return nil, err
	}
	if err := s.quotes.DeleteAttachment(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// SubmitForReview runs the readiness checklist and then advances the quote
// together with every draft/rejected payment order in one transaction: either
// everything reaches EN_REVISION or nothing changes.
func (s *quoteService) SubmitForReview(ctx context.Context, actor workflow.Actor, id uuid.UUID) error {
	var events []ws.DocumentEvent

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.quotes.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}

		quoteEffect, err := workflow.Apply(q.DocState(), workflow.TransitionSubmit, actor)
		if err != nil {
			return err
		}

		orders, err := s.orders.ListByQuoteForUpdate(txCtx, q.ID)
		if err != nil {
			return err
		}

		if err := workflow.CheckQuoteReadiness(quoteSnapshot(q, orders)); err != nil {
			return err
		}

		now := time.Now()

		// All legality checks run before any write.
		type pending struct {
			op     *model.PaymentOrder
			effect workflow.Effect
		}
		var advancing []pending
		for i := range orders {
			op := &orders[i]
			if op.Estado != workflow.StatusDraft && op.Estado != workflow.StatusRejected {
				continue
			}
			effect, err := workflow.Apply(op.DocState(), workflow.TransitionSubmit, actor)
			if err != nil {
				return fmt.Errorf("payment order %s: %w", op.Number, err)
			}
			advancing = append(advancing, pending{op: op, effect: effect})
		}

		for _, p := range advancing {
			p.op.ApplyEffect(p.effect, actor.ID, now)
			if err := s.orders.Save(txCtx, p.op); err != nil {
				return fmt.Errorf("failed to advance payment order %s: %w", p.op.Number, err)
			}
			events = append(events, ws.DocumentEvent{Kind: "op", ID: p.op.ID.String(), Number: p.op.Number, Estado: string(p.op.Estado)})
		}

		q.ApplyEffect(quoteEffect, actor.ID, now)
		if err := s.quotes.Save(txCtx, q); err != nil {
			return fmt.Errorf("failed to advance quote: %w", err)
		}
		events = append(events, ws.DocumentEvent{Kind: "cc", ID: q.ID.String(), Number: q.Number, Estado: string(q.Estado)})

		return s.logAction(txCtx, actor, model.ActionSubmitQuote, q.ID.String(), q.Number,
			map[string]interface{}{"orders_advanced": len(advancing)})
	})
	if err != nil {
		return err
	}

	s.notify(events)
	return nil
}

func quoteSnapshot(q *model.ComparativeQuote, orders []model.PaymentOrder) workflow.QuoteSnapshot {
	snap := workflow.QuoteSnapshot{
		WinnerSelected: q.SelectedSupplierID != nil,
		Rationale:      q.MotivoSeleccion,
	}
	for _, it := range q.Items {
		name := it.ProductID.String()
		if it.Product != nil {
			name = it.Product.Nombre
		}
		snap.Items = append(snap.Items, workflow.ItemRef{ProductID: it.ProductID, ProductName: name})
	}
	for _, sup := range q.Suppliers {
		name := sup.SupplierID.String()
		if sup.Supplier != nil {
			name = sup.Supplier.NombreEmpresa
		}
		snap.Suppliers = append(snap.Suppliers, workflow.SupplierRef{SupplierID: sup.SupplierID, SupplierName: name})
	}
	for _, p := range q.Prices {
		snap.Prices = append(snap.Prices, workflow.PriceRef{SupplierID: p.SupplierID, ProductID: p.ProductID})
	}
	for _, op := range orders {
		snap.Orders = append(snap.Orders, op.Snapshot())
	}
	return snap
}

// ApplyTransition performs a single review-track transition on the quote.
// Submission goes through SubmitForReview instead, because it is paired with
// the quote's payment orders.
func (s *quoteService) ApplyTransition(ctx context.Context, actor workflow.Actor, id uuid.UUID, t workflow.Transition) error {
	if t == workflow.TransitionSubmit {
		return s.SubmitForReview(ctx, actor, id)
	}

	var event ws.DocumentEvent
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q, err := s.quotes.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		effect, err := workflow.Apply(q.DocState(), t, actor)
		if err != nil {
			return err
		}

		q.ApplyEffect(effect, actor.ID, time.Now())
		if err := s.quotes.Save(txCtx, q); err != nil {
			return fmt.Errorf("failed to save quote transition: %w", err)
		}
		event = ws.DocumentEvent{Kind: "cc", ID: q.ID.String(), Number: q.Number, Estado: string(q.Estado)}

		return s.logAction(txCtx, actor, model.ActionQuoteTransition, q.ID.String(), q.Number,
			map[string]interface{}{"transition": string(t), "estado": string(q.Estado)})
	})
	if err != nil {
		return err
	}

	s.notify([]ws.DocumentEvent{event})
	return nil
}

func (s *quoteService) logAction(ctx context.Context, actor workflow.Actor, action, entityID, entityName string, details map[string]interface{}) error {
	return logAudit(ctx, s.audits, actor, action, entityID, entityName, details)
}

func (s *quoteService) notify(events []ws.DocumentEvent) {
	if s.hub == nil {
		return
	}
	for _, e := range events {
		s.hub.Notify(e)
	}
}
