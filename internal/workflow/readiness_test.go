package workflow

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// readySnapshot builds a snapshot that passes every check; tests break one
// condition at a time.
func readySnapshot() QuoteSnapshot {
	productID := uuid.New()
	supplierID := uuid.New()
	return QuoteSnapshot{
		Items:          []ItemRef{{ProductID: productID, ProductName: "Cemento"}},
		Suppliers:      []SupplierRef{{SupplierID: supplierID, SupplierName: "Ferretería Central"}},
		Prices:         []PriceRef{{SupplierID: supplierID, ProductID: productID}},
		WinnerSelected: true,
		Rationale:      "mejor precio",
		Orders: []OrderSnapshot{
			{Number: "OP-2026-000001", Status: StatusDraft, Description: "Compra de cemento"},
		},
	}
}

func TestCheckQuoteReadiness(t *testing.T) {
	t.Run("complete quote passes", func(t *testing.T) {
		if err := CheckQuoteReadiness(readySnapshot()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("all failures aggregated", func(t *testing.T) {
		err := CheckQuoteReadiness(QuoteSnapshot{})
		if !errors.Is(err, ErrReadinessFailed) {
			t.Fatalf("expected ErrReadinessFailed, got %v", err)
		}

		var rerr *ReadinessError
		if !errors.As(err, &rerr) {
			t.Fatalf("expected *ReadinessError, got %T", err)
		}
		if len(rerr.Reasons) != 4 {
			t.Fatalf("expected 4 reasons (items, suppliers, winner, orders), got %d: %v", len(rerr.Reasons), rerr.Reasons)
		}
	})

	t.Run("winner without rationale", func(t *testing.T) {
		q := readySnapshot()
		q.Rationale = ""
		err := CheckQuoteReadiness(q)

		var rerr *ReadinessError
		if !errors.As(err, &rerr) {
			t.Fatalf("expected *ReadinessError, got %v", err)
		}
		if len(rerr.Reasons) != 1 || !strings.Contains(rerr.Reasons[0], "rationale") {
			t.Fatalf("unexpected reasons %v", rerr.Reasons)
		}
	})

	t.Run("incomplete order collected", func(t *testing.T) {
		q := readySnapshot()
		q.Orders = append(q.Orders, OrderSnapshot{
			Number:    "OP-2026-000002",
			Status:    StatusDraft,
			IsPartial: true,
		})
		err := CheckQuoteReadiness(q)

		var rerr *ReadinessError
		if !errors.As(err, &rerr) {
			t.Fatalf("expected *ReadinessError, got %v", err)
		}
		if len(rerr.IncompleteOrders) != 1 || rerr.IncompleteOrders[0] != "OP-2026-000002" {
			t.Fatalf("unexpected incomplete orders %v", rerr.IncompleteOrders)
		}
		// description is empty + partial without amount
		if len(rerr.Reasons) != 2 {
			t.Fatalf("expected 2 reasons, got %v", rerr.Reasons)
		}
	})
}

func TestMissingPriceCellPreview(t *testing.T) {
	q := readySnapshot()

	// Seven products priced by nobody: the message names five and counts
	// the remaining two.
	q.Prices = nil
	q.Items = nil
	for i := 0; i < 7; i++ {
		q.Items = append(q.Items, ItemRef{ProductID: uuid.New(), ProductName: fmt.Sprintf("Producto %d", i+1)})
	}

	err := CheckQuoteReadiness(q)
	var rerr *ReadinessError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *ReadinessError, got %v", err)
	}

	var matrixReason string
	for _, r := range rerr.Reasons {
		if strings.Contains(r, "price matrix") {
			matrixReason = r
		}
	}
	if matrixReason == "" {
		t.Fatalf("no price matrix reason in %v", rerr.Reasons)
	}
	if !strings.Contains(matrixReason, "and 2 more") {
		t.Fatalf("expected capped preview with remainder count, got %q", matrixReason)
	}
	if strings.Contains(matrixReason, "Producto 6") {
		t.Fatalf("preview should stop at five cells, got %q", matrixReason)
	}
}

func TestCheckOrderCompleteness(t *testing.T) {
	t.Run("complete order", func(t *testing.T) {
		o := OrderSnapshot{Number: "OP-2026-000003", Description: "Pago de transporte"}
		if errs := CheckOrderCompleteness(o); len(errs) != 0 {
			t.Fatalf("unexpected problems %v", errs)
		}
	})

	t.Run("partial with valid amount", func(t *testing.T) {
		o := OrderSnapshot{Description: "Anticipo", IsPartial: true, ManualAmount: amount("150.00")}
		if errs := CheckOrderCompleteness(o); len(errs) != 0 {
			t.Fatalf("unexpected problems %v", errs)
		}
	})

	t.Run("partial with zero amount", func(t *testing.T) {
		o := OrderSnapshot{Description: "Anticipo", IsPartial: true, ManualAmount: amount("0")}
		errs := CheckOrderCompleteness(o)
		if len(errs) != 1 || !strings.Contains(errs[0], "greater than zero") {
			t.Fatalf("unexpected problems %v", errs)
		}
	})
}
