// Package itemcodec flattens the line items of a work order into the
// single text column Detalhes_Itens and reads them back.
//
// Grammar (version 1):
//
//	items = item *( "; " item )
//	item  = pair *( " | " pair )
//	pair  = label ":" [ " " value ]
//	label = "Type" / "Ref" / "Desc" / "Qty" / "Val" / "Disc%" / "Total"
//
// Values are written with ';', '|' and '\' escaped by a backslash.
// Monetary values and the discount use '.' as the decimal mark; locale
// text ("1.234,56") is also accepted when reading. The labels "Tipo",
// "Qtd" and "Desc(%)" written by older files are read as aliases.
//
// When Val and Qty are readable, the stored Total is checked against
// them and Disc%. If the two differ by more than 0.01 the computed total
// is kept and the item is flagged with TotalMismatch. Without Val or Qty
// the stored Total is taken as is.
//
// Decoding never fails as a whole. A segment that is not a list of
// label/value pairs becomes an Opaque item holding the raw segment,
// and Encode writes such items back verbatim.
package itemcodec

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
)

// Version is the grammar version written by Encode.
const Version = 1

// Separators of the grammar.
const (
	ItemSep = "; "
	PairSep = " | "
)

// Labels written by Encode, in order.
const (
	LabelKind     = "Type"
	LabelRef      = "Ref"
	LabelDesc     = "Desc"
	LabelQty      = "Qty"
	LabelVal      = "Val"
	LabelDiscount = "Disc%"
	LabelTotal    = "Total"
)

var aliases = map[string]string{
	"Tipo":    LabelKind,
	"Qtd":     LabelQty,
	"Desc(%)": LabelDiscount,
}

var known = map[string]bool{
	LabelKind: true, LabelRef: true, LabelDesc: true, LabelQty: true,
	LabelVal: true, LabelDiscount: true, LabelTotal: true,
}

// Encode renders items as one text value. The order of items is kept.
func Encode(items []model.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Opaque {
			if raw := strings.TrimSpace(it.Raw); raw != "" {
				parts = append(parts, raw)
			}
			continue
		}
		parts = append(parts, encodeItem(it))
	}
	return strings.Join(parts, ItemSep)
}

func encodeItem(it model.LineItem) string {
	pairs := []string{
		pair(LabelKind, escape(string(it.Kind))),
		pair(LabelRef, escape(it.Reference)),
		pair(LabelDesc, escape(it.Description)),
		pair(LabelQty, fmt.Sprintf("%d", it.Quantity)),
		pair(LabelVal, it.UnitPrice.StringFixed(2)),
		pair(LabelDiscount, it.DiscountPercent.Round(2).String()),
		pair(LabelTotal, it.LineTotal.StringFixed(2)),
	}
	return strings.Join(pairs, PairSep)
}

func pair(label, value string) string {
	return label + ": " + value
}

// Decode reads text produced by Encode (or by older versions of the
// file) back into line items.
func Decode(text string) []model.LineItem {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var items []model.LineItem
	for _, segment := range splitUnescaped(text, ItemSep) {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		items = append(items, decodeItem(segment))
	}
	return items
}

func decodeItem(segment string) model.LineItem {
	fields, ok := parsePairs(segment)
	if !ok {
		return model.LineItem{Opaque: true, Raw: strings.TrimSpace(segment)}
	}

	price := numfmt.ParseDecimal(fields[LabelVal])
	it := model.LineItem{
		Kind:            model.ItemKind(fields[LabelKind]),
		Reference:       fields[LabelRef],
		Description:     fields[LabelDesc],
		Unit:            model.DefaultUnit,
		UnitPrice:       price.Decimal,
		DiscountPercent: decimalOrZero(strings.TrimSuffix(fields[LabelDiscount], "%")),
	}
	qty, qtyOK := numfmt.ParseIntegerGrouped(fields[LabelQty])
	if qtyOK {
		it.Quantity = int(qty)
	}

	total, present := fields[LabelTotal]
	switch {
	case !present:
		it.LineTotal = it.ComputeTotal()
	case !price.Valid || !qtyOK:
		// Nothing to check the stored total against.
		it.LineTotal = decimalOrZero(total)
	default:
		it.LineTotal = it.ComputeTotal()
		if decimalOrZero(total).Sub(it.LineTotal).Abs().GreaterThan(tolerance) {
			it.TotalMismatch = true
		}
	}
	return it
}

// tolerance is the largest accepted gap between a stored and a
// computed line total.
var tolerance = decimal.New(1, -2)

// parsePairs maps labels to unescaped values. It reports false when a
// pair has no label separator or when no known label is present.
func parsePairs(segment string) (map[string]string, bool) {
	fields := make(map[string]string)
	for _, p := range splitUnescaped(segment, PairSep) {
		label, value, found := strings.Cut(p, ":")
		if !found {
			return nil, false
		}
		label = strings.TrimSpace(label)
		if alias, ok := aliases[label]; ok {
			label = alias
		}
		if !known[label] {
			continue
		}
		fields[label] = unescape(strings.TrimSpace(value))
	}
	if len(fields) == 0 {
		return nil, false
	}
	return fields, true
}

func decimalOrZero(text string) decimal.Decimal {
	v := numfmt.ParseDecimal(text)
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
