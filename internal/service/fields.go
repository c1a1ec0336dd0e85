package service

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/orderid"
)

// Fields is the flat form input, keyed by canonical column name.
// Missing keys read as empty. Derived columns (Total_Itens,
// Valor_Total_Final) and Detalhes_Itens are ignored.
type Fields map[string]string

func (f Fields) text(col string) string {
	return strings.TrimSpace(f[col])
}

func (f Fields) digits(col string) string {
	return numfmt.DigitsOnly(f[col])
}

func (f Fields) integer(col string) sql.NullInt64 {
	n, ok := numfmt.ParseIntegerGrouped(f[col])
	if !ok {
		return sql.NullInt64{}
	}
	return model.Int(n)
}

// mileage accepts any punctuation ("12.345 km").
func (f Fields) mileage() sql.NullInt64 {
	d := f.digits(model.ColMileage)
	if d == "" {
		return sql.NullInt64{}
	}
	n, err := strconv.ParseInt(d, 10, 64)
	if err != nil {
		return sql.NullInt64{}
	}
	return model.Int(n)
}

// money reads a fee or discount. Blank or malformed input is zero.
func (f Fields) money(col string) decimal.NullDecimal {
	d := numfmt.ParseDecimal(f[col])
	if !d.Valid {
		return model.Money(decimal.Zero)
	}
	return model.Money(d.Decimal.Round(2))
}

// Collect assembles a work order from form input and the current item
// list. Subtotal and final total are always recomputed from items,
// travel fee and discount.
func Collect(fields Fields, items []model.LineItem) model.WorkOrder {
	w := model.WorkOrder{
		ID:   orderid.Pad(fields.text(model.ColID)),
		Date: fields.text(model.ColDate),
		Time: fields.text(model.ColTime),
		Client: model.Client{
			Name:         fields.text(model.ColClientName),
			Address:      fields.text(model.ColClientAddress),
			HouseNumber:  fields.text(model.ColClientNumber),
			Neighborhood: fields.text(model.ColClientDistrict),
			City:         fields.text(model.ColClientCity),
			State:        strings.ToUpper(fields.text(model.ColClientState)),
			PostalCode:   fields.digits(model.ColClientPostalCode),
			Phone:        fields.digits(model.ColClientPhone),
			TaxID:        fields.digits(model.ColClientTaxID),
		},
		Vehicle: model.Vehicle{
			Plate:   strings.ToUpper(fields.text(model.ColPlate)),
			Make:    fields.text(model.ColMake),
			Model:   fields.text(model.ColModel),
			Color:   fields.text(model.ColColor),
			Year:    fields.integer(model.ColYear),
			Mileage: fields.mileage(),
			Fuel:    model.FuelType(fields.text(model.ColFuel)),
			Bay:     model.Bay(fields.text(model.ColBay)),
		},
		ReportedProblem:  fields.text(model.ColReportedProblem),
		DiagnosedProblem: fields.text(model.ColDiagnosedProblem),
		PerformedService: fields.text(model.ColPerformedService),
		Items:            append([]model.LineItem(nil), items...),
		TravelFee:        fields.money(model.ColTravelFee),
		Discount:         fields.money(model.ColDiscount),
		Responsible:      fields.text(model.ColResponsible),
		Status:           model.Status(fields.text(model.ColStatus)),
		PaymentTerms:     model.PaymentTerms(fields.text(model.ColPaymentTerms)),
	}
	return Recalculate(w)
}

// FieldsOf renders a work order back into form input, with masks and
// locale formatting applied for display.
func FieldsOf(w model.WorkOrder) Fields {
	return Fields{
		model.ColID:               w.ID,
		model.ColDate:             w.Date,
		model.ColTime:             w.Time,
		model.ColClientName:       w.Client.Name,
		model.ColClientAddress:    w.Client.Address,
		model.ColClientNumber:     w.Client.HouseNumber,
		model.ColClientDistrict:   w.Client.Neighborhood,
		model.ColClientCity:       w.Client.City,
		model.ColClientState:      w.Client.State,
		model.ColClientPostalCode: numfmt.FormatCEP(w.Client.PostalCode),
		model.ColClientPhone:      numfmt.FormatPhone(w.Client.Phone),
		model.ColClientTaxID:      numfmt.FormatTaxID(w.Client.TaxID),
		model.ColPlate:            w.Vehicle.Plate,
		model.ColMake:             w.Vehicle.Make,
		model.ColModel:            w.Vehicle.Model,
		model.ColColor:            w.Vehicle.Color,
		model.ColYear:             intText(w.Vehicle.Year, false),
		model.ColMileage:          intText(w.Vehicle.Mileage, true),
		model.ColFuel:             string(w.Vehicle.Fuel),
		model.ColBay:              string(w.Vehicle.Bay),
		model.ColReportedProblem:  w.ReportedProblem,
		model.ColDiagnosedProblem: w.DiagnosedProblem,
		model.ColPerformedService: w.PerformedService,
		model.ColSubtotal:         numfmt.FormatNullMoney(w.Subtotal),
		model.ColTravelFee:        numfmt.FormatNullMoney(w.TravelFee),
		model.ColDiscount:         numfmt.FormatNullMoney(w.Discount),
		model.ColTotal:            numfmt.FormatNullMoney(w.Total),
		model.ColResponsible:      w.Responsible,
		model.ColStatus:           string(w.Status),
		model.ColPaymentTerms:     string(w.PaymentTerms),
	}
}

func intText(n sql.NullInt64, grouped bool) string {
	if !n.Valid {
		return ""
	}
	if grouped {
		return numfmt.FormatIntegerGrouped(n.Int64)
	}
	return strconv.FormatInt(n.Int64, 10)
}

// Recalculate sets Subtotal from the items and Total from
// subtotal + travel fee - discount. Absent fee and discount count as zero.
func Recalculate(w model.WorkOrder) model.WorkOrder {
	subtotal := model.ItemsSubtotal(w.Items)
	w.Subtotal = model.Money(subtotal)
	if !w.TravelFee.Valid {
		w.TravelFee = model.Money(decimal.Zero)
	}
	if !w.Discount.Valid {
		w.Discount = model.Money(decimal.Zero)
	}
	w.Total = model.Money(subtotal.Add(w.TravelFee.Decimal).Sub(w.Discount.Decimal).Round(2))
	return w
}

// AddItem appends item and recomputes the totals.
func AddItem(w model.WorkOrder, item model.LineItem) model.WorkOrder {
	w.Items = append(append([]model.LineItem(nil), w.Items...), item)
	return Recalculate(w)
}

// RemoveItem drops the item at index and recomputes the totals.
func RemoveItem(w model.WorkOrder, index int) (model.WorkOrder, bool) {
	if index < 0 || index >= len(w.Items) {
		return w, false
	}
	items := make([]model.LineItem, 0, len(w.Items)-1)
	items = append(items, w.Items[:index]...)
	items = append(items, w.Items[index+1:]...)
	w.Items = items
	return Recalculate(w), true
}

// Validate checks the mandatory fields.
func Validate(w model.WorkOrder) error {
	switch {
	case strings.TrimSpace(w.ID) == "":
		return &MissingFieldError{Field: model.ColID}
	case strings.TrimSpace(w.Client.Name) == "":
		return &MissingFieldError{Field: model.ColClientName}
	case strings.TrimSpace(w.Vehicle.Plate) == "":
		return &MissingFieldError{Field: model.ColPlate}
	}
	return nil
}
