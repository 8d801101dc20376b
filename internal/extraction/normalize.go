package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateFormats to try, in order, when parsing statement dates. Day-first
// numeric forms take priority over month-first ones; an ambiguous value like
// 05/10/2024 therefore parses day-first. This ordering is part of the parser's
// contract with downstream consumers.
var dateFormats = []string{
	"02/01/2006", // DD/MM/YYYY
	"01/02/2006", // MM/DD/YYYY
	"2006-01-02", // ISO
	"02-01-2006", // DD-MM-YYYY
	"02/01/06",   // DD/MM/YY
	"01/02/06",   // MM/DD/YY
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// cleanText collapses runs of whitespace and trims the result.
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// normalizeCell lower-cases and whitespace-normalizes a table cell for
// keyword matching.
func normalizeCell(s string) string {
	return strings.ToLower(cleanText(s))
}

// ParseDate parses a raw date string against the ordered format list and
// returns the first match. It fails when the input is empty after cleaning or
// no format applies.
func ParseDate(raw string) (Date, error) {
	value := cleanText(raw)
	if value == "" {
		return Date{}, fmt.Errorf("empty date value")
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("unsupported date format: %q", value)
}

// amountCleanRe strips everything that is not part of a numeric amount:
// currency symbols, letters, stray punctuation.
var amountCleanRe = regexp.MustCompile(`[^0-9+\-.,]`)

// ParseAmount parses a currency amount such as "$1,234.56", "€45,00" or
// "(120.00)". A value enclosed in parentheses is negative. It returns nil for
// empty or non-numeric input; absence is not an error.
func ParseAmount(raw string) *decimal.Decimal {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	negative := strings.Contains(text, "(") && strings.Contains(text, ")")

	cleaned := amountCleanRe.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if negative && !strings.HasPrefix(cleaned, "-") {
		cleaned = "-" + cleaned
	}

	switch cleaned {
	case "", "+", "-", ".":
		return nil
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	return &d
}
