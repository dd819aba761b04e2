package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	shortDateRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	fullDateRe  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	yearRe      = regexp.MustCompile(`(\d{4})\s*$`)

	// Dot-grouped integer with no decimal part, e.g. "1.234" meaning 1234.
	groupedIntRe = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`)
)

// NormalizeAmount converts a monetary figure into the canonical form: a
// decimal string with exactly two fractional digits and no symbols or
// grouping separators. It accepts plain decimals ("45.00") and Brazilian
// grouped figures ("1.234,56"), with an optional currency prefix.
func NormalizeAmount(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "R$", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	// A comma means Brazilian notation: periods group thousands and the
	// comma is the decimal separator. Without a comma, a period followed by
	// exactly three-digit groups is still a grouping separator, not a
	// decimal point.
	switch {
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case groupedIntRe.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", raw, err)
	}

	return d.StringFixed(2), nil
}

// NormalizeDate renders a statement date as YYYY-MM-DD. It accepts
// DD/MM/YYYY, or DD/MM combined with the supplied year. Anything else,
// including impossible calendar dates, fails.
func NormalizeDate(raw string, year int) (string, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case fullDateRe.MatchString(raw):
		// keep the embedded year
	case shortDateRe.MatchString(raw):
		if year <= 0 {
			return "", fmt.Errorf("date %q needs a reference year", raw)
		}
		raw = fmt.Sprintf("%s/%d", raw, year)
	default:
		return "", fmt.Errorf("unrecognized date format: %q", raw)
	}

	t, err := time.Parse("02/01/2006", raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", raw, err)
	}

	return t.Format("2006-01-02"), nil
}

// YearFromStatementDate extracts the trailing four-digit year of a full
// statement date string, falling back to the current calendar year. It
// disambiguates the DD/MM-only dates of transaction rows.
func YearFromStatementDate(statementDate string) int {
	if m := yearRe.FindStringSubmatch(strings.TrimSpace(statementDate)); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			return year
		}
	}
	return time.Now().Year()
}
