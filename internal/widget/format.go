package widget

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatNumber groups thousands and keeps up to three fraction digits: 1,234.5
func FormatNumber(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatCurrency renders a dollar amount: $350,000
func FormatCurrency(v float64) string {
	return "$" + FormatNumber(v)
}

// FormatPercent renders a percentage with at most one decimal: 15%, 12.5%
func FormatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64) + "%"
}

// DigitsOnly drops every character that is not 0-9
func DigitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DecimalOnly keeps digits and the first decimal point
func DecimalOnly(raw string) string {
	var b strings.Builder
	dot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseAmount parses a filtered buffer. "" and "." are not numbers.
func parseAmount(raw string) (float64, bool) {
	if raw == "" || raw == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
