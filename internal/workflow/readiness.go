package workflow

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// missingCellPreview caps how many absent price cells are named in the
// readiness message; the remainder is reported as a count.
const missingCellPreview = 5

// QuoteSnapshot is the read-only projection of a comparative quote the
// readiness check evaluates. Services build it from the aggregate inside the
// submission transaction.
type QuoteSnapshot struct {
	Items     []ItemRef
	Suppliers []SupplierRef
	// Prices holds the populated cells of the supplier×product matrix.
	Prices         []PriceRef
	WinnerSelected bool
	Rationale      string
	Orders         []OrderSnapshot
}

type ItemRef struct {
	ProductID   uuid.UUID
	ProductName string
}

type SupplierRef struct {
	SupplierID   uuid.UUID
	SupplierName string
}

type PriceRef struct {
	SupplierID uuid.UUID
	ProductID  uuid.UUID
}

// OrderSnapshot is the slice of a payment order the completeness gate needs.
type OrderSnapshot struct {
	Number       string
	Status       Status
	Description  string
	IsPartial    bool
	ManualAmount *decimal.Decimal
}

// CheckQuoteReadiness evaluates the full submission checklist and returns a
// single aggregated error naming every unmet condition, or nil when the quote
// may enter review.
func CheckQuoteReadiness(q QuoteSnapshot) error {
	var reasons []string
	var incomplete []string

	if len(q.Items) == 0 {
		reasons = append(reasons, "the quote has no line items")
	}
	if len(q.Suppliers) == 0 {
		reasons = append(reasons, "the quote has no candidate suppliers")
	}

	if len(q.Items) > 0 && len(q.Suppliers) > 0 {
		if msg := missingPriceCells(q); msg != "" {
			reasons = append(reasons, msg)
		}
	}

	if !q.WinnerSelected {
		reasons = append(reasons, "no winning supplier has been selected")
	} else if q.Rationale == "" {
		reasons = append(reasons, "the supplier selection has no rationale")
	}

	if len(q.Orders) == 0 {
		reasons = append(reasons, "no payment orders have been generated from this quote")
	}
	for _, o := range q.Orders {
		if errs := CheckOrderCompleteness(o); len(errs) > 0 {
			incomplete = append(incomplete, o.Number)
			for _, e := range errs {
				reasons = append(reasons, fmt.Sprintf("payment order %s: %s", o.Number, e))
			}
		}
	}

	if len(reasons) == 0 {
		return nil
	}
	return &ReadinessError{Reasons: reasons, IncompleteOrders: incomplete}
}

// CheckOrderCompleteness returns the completeness problems of a single
// payment order. Used both by the quote submission gate and to tell the user
// which order to finish first.
func CheckOrderCompleteness(o OrderSnapshot) []string {
	var errs []string
	if o.Description == "" {
		errs = append(errs, "description is empty")
	}
	if o.IsPartial {
		if o.ManualAmount == nil {
			errs = append(errs, "partial payment without a manual amount")
		} else if !o.ManualAmount.IsPositive() {
			errs = append(errs, "partial payment amount must be greater than zero")
		}
	}
	return errs
}

func missingPriceCells(q QuoteSnapshot) string {
	type cell struct{ supplier, product uuid.UUID }
	have := make(map[cell]bool, len(q.Prices))
	for _, p := range q.Prices {
		have[cell{p.SupplierID, p.ProductID}] = true
	}

	var missing []string
	for _, s := range q.Suppliers {
		for _, it := range q.Items {
			if !have[cell{s.SupplierID, it.ProductID}] {
				missing = append(missing, fmt.Sprintf("%s / %s", s.SupplierName, it.ProductName))
			}
		}
	}
	if len(missing) == 0 {
		return ""
	}

	preview := missing
	rest := 0
	if len(missing) > missingCellPreview {
		preview = missing[:missingCellPreview]
		rest = len(missing) - missingCellPreview
	}
	msg := "the price matrix is incomplete, missing: "
	for i, m := range preview {
		if i > 0 {
			msg += ", "
		}
		msg += m
	}
	if rest > 0 {
		msg += fmt.Sprintf(" and %d more", rest)
	}
	return msg
}
