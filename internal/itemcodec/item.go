package itemcodec

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
)

var (
	ErrKindRequired        = errors.New("item kind is required")
	ErrDescriptionRequired = errors.New("item description is required")
	ErrInvalidUnitPrice    = errors.New("unit price must be a positive value")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")
	ErrInvalidDiscount     = errors.New("discount must be between 0 and 100")
)

// NewLineItem validates the inputs of a line item and computes its
// total. Text is trimmed and the unit price is rounded to cents.
func NewLineItem(
	kind model.ItemKind,
	reference, description string,
	unitPrice decimal.Decimal,
	quantity int,
	discountPercent decimal.Decimal,
) (model.LineItem, error) {
	kind = model.ItemKind(strings.TrimSpace(string(kind)))
	description = strings.TrimSpace(description)

	switch {
	case kind == "":
		return model.LineItem{}, ErrKindRequired
	case description == "":
		return model.LineItem{}, ErrDescriptionRequired
	case !unitPrice.IsPositive():
		return model.LineItem{}, ErrInvalidUnitPrice
	case quantity <= 0:
		return model.LineItem{}, ErrInvalidQuantity
	case discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)):
		return model.LineItem{}, ErrInvalidDiscount
	}

	it := model.LineItem{
		Kind:            kind,
		Reference:       strings.TrimSpace(reference),
		Description:     description,
		Unit:            model.DefaultUnit,
		UnitPrice:       unitPrice.Round(2),
		Quantity:        quantity,
		DiscountPercent: discountPercent,
	}
	it.LineTotal = it.ComputeTotal()
	return it, nil
}

// ParseLineItem builds a line item from form text. The price accepts
// "50,00" as well as "50.00"; an empty discount means zero.
func ParseLineItem(kind, reference, description, unitPrice, quantity, discount string) (model.LineItem, error) {
	price := numfmt.ParseDecimal(unitPrice)
	if !price.Valid {
		return model.LineItem{}, ErrInvalidUnitPrice
	}

	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil {
		return model.LineItem{}, ErrInvalidQuantity
	}

	disc := decimal.Zero
	if s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(discount), "%")); s != "" {
		d := numfmt.ParseDecimal(s)
		if !d.Valid {
			return model.LineItem{}, ErrInvalidDiscount
		}
		disc = d.Decimal
	}

	return NewLineItem(model.ItemKind(kind), reference, description, price.Decimal, qty, disc)
}
