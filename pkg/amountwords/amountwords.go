// Package amountwords renders monetary amounts as Spanish text for printed
// payment documents, in the customary accounting form
// "Tres mil doscientos 00/100".
package amountwords

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var units = []string{"", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve"}

var teens = []string{"diez", "once", "doce", "trece", "catorce", "quince",
	"dieciséis", "diecisiete", "dieciocho", "diecinueve"}

var twenties = []string{"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro",
	"veinticinco", "veintiséis", "veintisiete", "veintiocho", "veintinueve"}

var tens = []string{"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa"}

var hundreds = []string{"", "ciento", "doscientos", "trescientos", "cuatrocientos",
	"quinientos", "seiscientos", "setecientos", "ochocientos", "novecientos"}

// Spanish renders the amount in words with the cents as a NN/100 fraction.
// Amounts are rounded to two decimals, half away from zero. Negative values
// are rendered with a leading "Menos".
func Spanish(amount decimal.Decimal) string {
	amount = amount.Round(2)

	negative := amount.IsNegative()
	if negative {
		amount = amount.Abs()
	}

	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	words := integerWords(whole)
	if negative {
		words = "menos " + words
	}

	// Documents print the phrase with an initial capital.
	words = strings.ToUpper(words[:1]) + words[1:]
	return fmt.Sprintf("%s %02d/100", words, cents)
}

// integerWords spells n in Spanish, supporting values up to the billions,
// which is far beyond any disbursement the foundation issues.
func integerWords(n int64) string {
	if n == 0 {
		return "cero"
	}

	var parts []string

	if millions := n / 1_000_000; millions > 0 {
		if millions == 1 {
			parts = append(parts, "un millón")
		} else {
			parts = append(parts, apocope(integerWords(millions))+" millones")
		}
		n %= 1_000_000
	}

	if thousands := n / 1000; thousands > 0 {
		if thousands == 1 {
			parts = append(parts, "mil")
		} else {
			parts = append(parts, apocope(belowThousand(thousands))+" mil")
		}
		n %= 1000
	}

	if n > 0 {
		parts = append(parts, belowThousand(n))
	}

	return strings.Join(parts, " ")
}

func belowThousand(n int64) string {
	var parts []string

	if h := n / 100; h > 0 {
		if n == 100 {
			return "cien"
		}
		parts = append(parts, hundreds[h])
		n %= 100
	}

	switch {
	case n == 0:
	case n < 10:
		parts = append(parts, units[n])
	case n < 20:
		parts = append(parts, teens[n-10])
	case n < 30:
		parts = append(parts, twenties[n-20])
	default:
		t := tens[n/10]
		if u := n % 10; u > 0 {
			parts = append(parts, t+" y "+units[u])
		} else {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, " ")
}

// apocope shortens the trailing "uno" as Spanish requires before a masculine
// noun: "veintiuno mil" -> "veintiún mil", "treinta y uno mil" ->
// "treinta y un mil".
func apocope(s string) string {
	switch {
	case s == "uno":
		return "un"
	case strings.HasSuffix(s, "veintiuno"):
		return strings.TrimSuffix(s, "veintiuno") + "veintiún"
	case strings.HasSuffix(s, " y uno"):
		return strings.TrimSuffix(s, " y uno") + " y un"
	default:
		return s
	}
}
