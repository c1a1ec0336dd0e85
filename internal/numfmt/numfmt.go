// Package numfmt converts between Brazilian-punctuated numeric text
// ("1.234,56": "." groups thousands, "," separates decimals) and
// canonical numeric values.
//
// Parsing never fails loudly: malformed input yields an absent value
// (decimal.NullDecimal{Valid: false} or ok == false) and the caller
// decides whether that is an error.
package numfmt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Separators used by the display locale.
const (
	ThousandsSep = "."
	DecimalSep   = ","
)

var (
	canonicalNumber = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
	plainDecimal    = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?$`)
)

// ParseMoney decodes locale-punctuated money text. A leading "R$" and
// surrounding spaces are ignored. Text with a "." after the last ","
// ("1,234.56") uses the other convention and is absent.
func ParseMoney(text string) decimal.NullDecimal {
	s := trimCurrency(text)
	if s == "" {
		return decimal.NullDecimal{}
	}
	if c := strings.LastIndex(s, DecimalSep); c >= 0 && strings.LastIndex(s, ThousandsSep) > c {
		return decimal.NullDecimal{}
	}
	s = strings.ReplaceAll(s, ThousandsSep, "")
	s = strings.Replace(s, DecimalSep, ".", 1)
	return parseCanonical(s)
}

// ParseDecimal accepts either locale text or canonical text. Text that
// contains the locale decimal separator is read as locale text; anything
// else is read as a plain decimal ("172.5", "1e+06"), which is how
// spreadsheet cells and database columns report numbers.
func ParseDecimal(text string) decimal.NullDecimal {
	s := trimCurrency(text)
	if s == "" {
		return decimal.NullDecimal{}
	}
	if strings.Contains(s, DecimalSep) {
		return ParseMoney(s)
	}
	if !plainDecimal.MatchString(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// FormatMoney renders d with exactly two decimal places and grouped
// thousands, e.g. 1234.5 -> "1.234,50".
func FormatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	out := groupDigits(intPart) + DecimalSep + frac
	if neg && strings.Trim(out, "0.,") != "" {
		return "-" + out
	}
	return out
}

// FormatNullMoney renders an absent value as zero.
func FormatNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return FormatMoney(decimal.Zero)
	}
	return FormatMoney(d.Decimal)
}

// ParseIntegerGrouped decodes an integer written with thousands
// grouping ("12.345"). Both "." and "," are accepted as group marks.
func ParseIntegerGrouped(text string) (int64, bool) {
	s := strings.TrimSpace(text)
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	if s == "" || !isDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatIntegerGrouped groups the digits of n in blocks of three,
// e.g. 123456 -> "123.456".
func FormatIntegerGrouped(n int64) string {
	if n < 0 {
		return "-" + groupDigits(strconv.FormatInt(-n, 10))
	}
	return groupDigits(strconv.FormatInt(n, 10))
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseCanonical(s string) decimal.NullDecimal {
	if !canonicalNumber.MatchString(s) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func trimCurrency(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "R$")
	return strings.TrimSpace(s)
}

func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(ThousandsSep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
