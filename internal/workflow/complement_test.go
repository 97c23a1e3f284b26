package workflow

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComplementAmount(t *testing.T) {
	itemTotal := decimal.RequireFromString("1000.00")

	t.Run("approved partial yields remainder", func(t *testing.T) {
		base := OrderSnapshot{Status: StatusApproved, IsPartial: true, ManualAmount: amount("600.00")}
		got, err := ComplementAmount(base, itemTotal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(decimal.RequireFromString("400.00")) {
			t.Fatalf("expected 400.00, got %s", got)
		}
	})

	t.Run("approved complement is terminal", func(t *testing.T) {
		// A complement is created non-partial with the remainder as its
		// manual amount. Even once approved, no second remainder can be
		// derived from it, so a partial payment settles in exactly one
		// complement.
		remaining := decimal.RequireFromString("400.00")
		complement := OrderSnapshot{Status: StatusApproved, IsPartial: false, ManualAmount: &remaining}
		if _, err := ComplementAmount(complement, itemTotal); !errors.Is(err, ErrComplementNotAllowed) {
			t.Fatalf("expected ErrComplementNotAllowed, got %v", err)
		}
	})

	t.Run("not partial", func(t *testing.T) {
		base := OrderSnapshot{Status: StatusApproved, ManualAmount: amount("600.00")}
		if _, err := ComplementAmount(base, itemTotal); !errors.Is(err, ErrComplementNotAllowed) {
			t.Fatalf("expected ErrComplementNotAllowed, got %v", err)
		}
	})

	t.Run("not approved", func(t *testing.T) {
		base := OrderSnapshot{Status: StatusReviewed, IsPartial: true, ManualAmount: amount("600.00")}
		if _, err := ComplementAmount(base, itemTotal); !errors.Is(err, ErrComplementNotAllowed) {
			t.Fatalf("expected ErrComplementNotAllowed, got %v", err)
		}
	})

	t.Run("no manual amount", func(t *testing.T) {
		base := OrderSnapshot{Status: StatusApproved, IsPartial: true}
		if _, err := ComplementAmount(base, itemTotal); !errors.Is(err, ErrComplementNotAllowed) {
			t.Fatalf("expected ErrComplementNotAllowed, got %v", err)
		}
	})

	t.Run("nothing remaining", func(t *testing.T) {
		base := OrderSnapshot{Status: StatusApproved, IsPartial: true, ManualAmount: amount("1000.00")}
		if _, err := ComplementAmount(base, itemTotal); !errors.Is(err, ErrComplementNotAllowed) {
			t.Fatalf("expected ErrComplementNotAllowed, got %v", err)
		}
	})

	t.Run("overpaid base", func(t *testing.T) {
		base := OrderSnapshot{Status: StatusApproved, IsPartial: true, ManualAmount: amount("1200.00")}
		if _, err := ComplementAmount(base, itemTotal); !errors.Is(err, ErrComplementNotAllowed) {
			t.Fatalf("expected ErrComplementNotAllowed, got %v", err)
		}
	})
}

func TestEffectiveAmount(t *testing.T) {
	itemTotal := decimal.RequireFromString("250.50")

	if got := EffectiveAmount(nil, itemTotal); !got.Equal(itemTotal) {
		t.Fatalf("expected item total, got %s", got)
	}
	if got := EffectiveAmount(amount("100.00"), itemTotal); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected manual amount, got %s", got)
	}
}
