// Package currencyutils provides order value parsing and amount formatting used throughout the application.
package currencyutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var (
	markerPattern = regexp.MustCompile(`[R$\s]`)
	junkPattern   = regexp.MustCompile(`[^\d.\-]`)
	numberPrefix  = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// ParseValue converts an arbitrary scalar into a decimal amount. It never fails:
// anything that cannot be read as a number yields zero.
//
// A comma is always the decimal separator when present, so "1.234,56" is
// 1234.56 and "1,234.56" is 1.23456. Without a comma, more than one period
// means periods are thousands separators.
func ParseValue(value any) decimal.Decimal {
	amount, _ := ParseValueStrict(value)
	return amount
}

// ParseValueStrict behaves like ParseValue and also reports whether the input
// held a number. Empty input is zero and counts as parseable.
func ParseValueStrict(value any) (decimal.Decimal, bool) {
	if value == nil {
		return decimal.Zero, true
	}

	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, true
		}
		return *v, true
	}

	str, err := cast.ToStringE(value)
	if err != nil {
		return decimal.Zero, false
	}

	standardized := StandardizeValue(str)
	if standardized == "" {
		return decimal.Zero, strings.TrimSpace(str) == "" || markerPattern.ReplaceAllString(str, "") == ""
	}

	prefix := numberPrefix.FindString(standardized)
	if prefix == "" {
		return decimal.Zero, false
	}
	if strings.HasSuffix(prefix, ".") {
		prefix = strings.TrimSuffix(prefix, ".")
	}
	if strings.HasPrefix(prefix, ".") || strings.HasPrefix(prefix, "-.") {
		prefix = strings.Replace(prefix, ".", "0.", 1)
	}

	amount, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// StandardizeValue applies the separator rules to a raw amount string and
// strips everything except digits, periods and minus signs.
// Returns strings like "1234.56" for "R$ 1.234,56".
func StandardizeValue(raw string) string {
	str := markerPattern.ReplaceAllString(strings.TrimSpace(raw), "")
	if str == "" {
		return ""
	}

	if strings.Contains(str, ",") {
		str = strings.ReplaceAll(str, ".", "")
		str = strings.Replace(str, ",", ".", 1)
	} else if strings.Count(str, ".") > 1 {
		str = strings.ReplaceAll(str, ".", "")
	}

	return junkPattern.ReplaceAllString(str, "")
}

// FormatAmount formats a decimal amount with two decimal places for display.
// BRL uses the Brazilian convention ("R$ 1.234,56"); other currencies keep a
// plain period decimal ("€1234.56", "USD 12.00").
func FormatAmount(amount decimal.Decimal, currency string) string {
	switch strings.ToUpper(currency) {
	case "BRL":
		return "R$ " + formatGrouped(amount, ".", ",")
	case "":
		return amount.StringFixed(2)
	case "EUR":
		return "€" + amount.StringFixed(2)
	case "USD":
		return "$" + amount.StringFixed(2)
	default:
		return currency + " " + amount.StringFixed(2)
	}
}

func formatGrouped(amount decimal.Decimal, thousands, decimalSep string) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.IsNegative() && !amount.Round(2).IsZero() {
		b.WriteString("-")
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousands)
		}
		b.WriteRune(digit)
	}
	b.WriteString(decimalSep)
	b.WriteString(fracPart)
	return b.String()
}
