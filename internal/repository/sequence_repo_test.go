package repository

import (
	"testing"

	"github.com/hectorisrael87/fundacion-sys/internal/model"
)

func TestFormatDocumentNumber(t *testing.T) {
	cases := []struct {
		docType string
		year    int
		n       int
		want    string
	}{
		{model.DocTypeQuote, 2026, 1, "CC-2026-000001"},
		{model.DocTypeQuote, 2026, 42, "CC-2026-000042"},
		{model.DocTypePaymentOrder, 2026, 999999, "OP-2026-999999"},
		{model.DocTypePaymentOrder, 2027, 1000000, "OP-2027-1000000"},
	}
	for _, c := range cases {
		if got := FormatDocumentNumber(c.docType, c.year, c.n); got != c.want {
			t.Errorf("FormatDocumentNumber(%s, %d, %d) = %s, want %s", c.docType, c.year, c.n, got, c.want)
		}
	}
}
