package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hectorisrael87/fundacion-sys/internal/workflow"
)

func TestPaymentOrderTotals(t *testing.T) {
	op := PaymentOrder{
		Items: []PaymentOrderItem{
			{Cantidad: decimal.RequireFromString("2"), PrecioUnit: decimal.RequireFromString("10.50")},
			{Cantidad: decimal.RequireFromString("1"), PrecioUnit: decimal.RequireFromString("4.00")},
		},
	}

	if got := op.ItemTotal(); !got.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("ItemTotal() = %s, want 25.00", got)
	}
	if got := op.EffectiveAmount(); !got.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("EffectiveAmount() without override = %s, want 25.00", got)
	}

	manual := decimal.RequireFromString("15.00")
	op.MontoManual = &manual
	if got := op.EffectiveAmount(); !got.Equal(manual) {
		t.Fatalf("EffectiveAmount() with override = %s, want 15.00", got)
	}
}

func TestPaymentOrderApplyEffect(t *testing.T) {
	reviewerID := uuid.New()
	now := time.Now()

	op := PaymentOrder{Estado: workflow.StatusPendingReview}
	op.ApplyEffect(workflow.Effect{NewStatus: workflow.StatusReviewed, StampReviewer: true}, reviewerID, now)

	if op.Estado != workflow.StatusReviewed {
		t.Fatalf("estado = %s, want %s", op.Estado, workflow.StatusReviewed)
	}
	if op.ReviewedByID == nil || *op.ReviewedByID != reviewerID || op.ReviewedAt == nil {
		t.Fatal("reviewer stamp not applied")
	}

	// Resubmission clears every audit pair.
	op.Estado = workflow.StatusRejected
	rejID := uuid.New()
	op.RejectedByID = &rejID
	op.RejectedAt = &now

	creatorID := uuid.New()
	op.ApplyEffect(workflow.Effect{
		NewStatus:     workflow.StatusPendingReview,
		ClearReviewer: true,
		ClearApprover: true,
		ClearRejecter: true,
	}, creatorID, now)

	if op.ReviewedByID != nil || op.RejectedByID != nil || op.ApprovedByID != nil {
		t.Fatal("audit fields not cleared on resubmission")
	}
	if op.Estado != workflow.StatusPendingReview {
		t.Fatalf("estado = %s, want %s", op.Estado, workflow.StatusPendingReview)
	}
}
