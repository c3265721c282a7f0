package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney converts a raw statement amount into a decimal. It accepts
// plain decimal-point values ("4.50", "-1234.56") and Brazilian
// decimal-comma values ("4,50", "1.234,56"), with or without a leading
// currency marker ("R$ 1.234,56").
func ParseMoney(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")

	// A comma after the last dot marks the Brazilian form: dots are
	// thousands separators, the comma is the decimal mark.
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot > lastComma:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d, nil
}

// FormatBRL renders a decimal in the Brazilian convention used by the
// exported reports: dot for thousands, comma for cents.
func FormatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	parts := strings.SplitN(s, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
