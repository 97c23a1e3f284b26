package amountwords

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSpanish(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "Cero 00/100"},
		{"1", "Uno 00/100"},
		{"16", "Dieciséis 00/100"},
		{"21", "Veintiuno 00/100"},
		{"35", "Treinta y cinco 00/100"},
		{"100", "Cien 00/100"},
		{"101", "Ciento uno 00/100"},
		{"500", "Quinientos 00/100"},
		{"1000", "Mil 00/100"},
		{"1500", "Mil quinientos 00/100"},
		{"3200", "Tres mil doscientos 00/100"},
		{"21000", "Veintiún mil 00/100"},
		{"31000", "Treinta y un mil 00/100"},
		{"1000000", "Un millón 00/100"},
		{"2500000", "Dos millones quinientos mil 00/100"},
		{"1234.56", "Mil doscientos treinta y cuatro 56/100"},
		{"0.05", "Cero 05/100"},
		{"-120.50", "Menos ciento veinte 50/100"},
	}
	for _, c := range cases {
		got := Spanish(decimal.RequireFromString(c.in))
		if got != c.want {
			t.Errorf("Spanish(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSpanishRounding(t *testing.T) {
	// Half cents round away from zero.
	got := Spanish(decimal.RequireFromString("10.005"))
	if got != "Diez 01/100" {
		t.Errorf("Spanish(10.005) = %q, want %q", got, "Diez 01/100")
	}
}
