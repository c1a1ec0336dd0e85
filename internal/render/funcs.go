package render

import (
	"database/sql"
	"fmt"
	"html/template"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
)

// funcs are the helpers available to document templates.
var funcs = template.FuncMap{
	"money":   money,
	"km":      km,
	"orEmpty": orEmpty,
	"phone":   numfmt.FormatPhone,
	"taxID":   numfmt.FormatTaxID,
	"cep":     numfmt.FormatCEP,
	"inc":     func(i int) int { return i + 1 },
}

// money renders a monetary value as "1.234,56". Absent values render
// as zero.
func money(v any) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return numfmt.FormatMoney(x)
	case decimal.NullDecimal:
		return numfmt.FormatNullMoney(x)
	case nil:
		return numfmt.FormatMoney(decimal.Zero)
	default:
		d := numfmt.ParseDecimal(fmt.Sprint(x))
		return numfmt.FormatNullMoney(d)
	}
}

// km renders a mileage with grouped digits, or "" when absent.
func km(v any) string {
	switch x := v.(type) {
	case sql.NullInt64:
		if !x.Valid {
			return ""
		}
		return numfmt.FormatIntegerGrouped(x.Int64)
	case int64:
		return numfmt.FormatIntegerGrouped(x)
	case int:
		return numfmt.FormatIntegerGrouped(int64(x))
	default:
		digits := numfmt.DigitsOnly(fmt.Sprint(v))
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return ""
		}
		return numfmt.FormatIntegerGrouped(n)
	}
}

// orEmpty renders absent values as "".
func orEmpty(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case sql.NullInt64:
		if !x.Valid {
			return ""
		}
		return strconv.FormatInt(x.Int64, 10)
	case decimal.NullDecimal:
		if !x.Valid {
			return ""
		}
		return x.Decimal.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
