package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// IDWidth is the fixed number of digits in a work order identifier.
const IDWidth = 6

// DefaultUnit is the unit assigned to every line item.
const DefaultUnit = "un"

// Date and time layouts used for the creation timestamp of a work order.
const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04:05"
)

// Client holds the customer fields of a work order. Phone, TaxID and
// PostalCode are stored digits-only; masks are applied for display.
// HouseNumber is free text ("S/N", "120A").
type Client struct {
	Name         string
	Address      string
	HouseNumber  string
	Neighborhood string
	City         string
	State        string
	PostalCode   string
	Phone        string
	TaxID        string
}

// Vehicle holds the vehicle fields of a work order.
type Vehicle struct {
	Plate   string
	Make    string
	Model   string
	Color   string
	Year    sql.NullInt64
	Mileage sql.NullInt64
	Fuel    FuelType
	Bay     Bay
}

// WorkOrder is one row of the persisted table.
type WorkOrder struct {
	// ID is the zero-padded identifier. It is immutable once assigned.
	ID string

	// Date and Time are set when the draft is created and never recomputed.
	Date string
	Time string

	Client  Client
	Vehicle Vehicle

	ReportedProblem  string
	DiagnosedProblem string
	PerformedService string

	// Items is the ordered financial detail of the order.
	Items []LineItem

	// Subtotal and Total are derived from Items, TravelFee and Discount.
	Subtotal  decimal.NullDecimal
	TravelFee decimal.NullDecimal
	Discount  decimal.NullDecimal
	Total     decimal.NullDecimal

	Responsible  string
	Status       Status
	PaymentTerms PaymentTerms
}

// LineItem is one billable entry of a work order.
type LineItem struct {
	Kind            ItemKind
	Reference       string
	Description     string
	Unit            string
	UnitPrice       decimal.Decimal
	Quantity        int
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal

	// Opaque marks a segment that could not be decoded. Raw keeps the
	// segment verbatim so that it survives a later save.
	Opaque bool
	Raw    string

	// TotalMismatch marks a decoded item whose stored total differed from
	// the computed one by more than a cent. LineTotal then holds the
	// computed value.
	TotalMismatch bool
}

var hundred = decimal.NewFromInt(100)

// ComputeTotal returns unit_price * quantity * (1 - discount/100),
// rounded to cents.
func (li LineItem) ComputeTotal() decimal.Decimal {
	gross := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	factor := decimal.NewFromInt(1).Sub(li.DiscountPercent.Div(hundred))
	return gross.Mul(factor).Round(2)
}

// ItemsSubtotal sums the line totals of items. Opaque items carry no
// total and contribute zero.
func ItemsSubtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.Opaque {
			continue
		}
		sum = sum.Add(it.LineTotal)
	}
	return sum
}

// OrZero returns the value of d, or zero when d is absent.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// Money wraps a present decimal value.
func Money(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// Int wraps a present integer value.
func Int(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

// HasTotalMismatch reports whether any item was read with a stored
// total that did not match its price, quantity and discount.
func (w WorkOrder) HasTotalMismatch() bool {
	for _, it := range w.Items {
		if it.TotalMismatch {
			return true
		}
	}
	return false
}

// HasOpaqueItems reports whether any item failed to decode.
func (w WorkOrder) HasOpaqueItems() bool {
	for _, it := range w.Items {
		if it.Opaque {
			return true
		}
	}
	return false
}
