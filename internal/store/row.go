package store

import (
	"database/sql"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/itemcodec"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/orderid"
)

// Spreadsheets sometimes hand back whole numbers as "12345.0".
var wholeFloat = regexp.MustCompile(`^([0-9]+)\.0{1,2}$`)

// cells maps canonical column names to raw cell text for one row.
type cells map[string]string

func newCells(header, row []string) cells {
	c := make(cells, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		if i < len(row) {
			c[col] = row[i]
		} else {
			c[col] = ""
		}
	}
	return c
}

func (c cells) text(col string) string {
	return strings.TrimSpace(c[col])
}

func (c cells) integer(col string) sql.NullInt64 {
	return coerceInteger(c[col])
}

// houseNumber keeps the cell as text. Numeric cells written by older
// files come back as "120.0" and are read as "120".
func (c cells) houseNumber() string {
	s := c.text(model.ColClientNumber)
	if m := wholeFloat.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func (c cells) money(col string) decimal.NullDecimal {
	return coerceMoney(c[col])
}

func (c cells) blank() bool {
	for _, v := range c {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// coerceInteger reads an integer cell. Grouped text ("12.345") and
// whole floats ("12345.0") are accepted; anything else is absent.
func coerceInteger(text string) sql.NullInt64 {
	s := strings.TrimSpace(text)
	if m := wholeFloat.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	n, ok := numfmt.ParseIntegerGrouped(s)
	if !ok {
		return sql.NullInt64{}
	}
	return model.Int(n)
}

// coerceMoney reads a money cell written either as a number or as
// locale text, rounded to cents.
func coerceMoney(text string) decimal.NullDecimal {
	d := numfmt.ParseDecimal(text)
	if !d.Valid {
		return d
	}
	return model.Money(d.Decimal.Round(2))
}

// recordFromCells builds a work order from one row.
func recordFromCells(c cells) model.WorkOrder {
	return model.WorkOrder{
		ID:   orderid.Pad(c.text(model.ColID)),
		Date: c.text(model.ColDate),
		Time: c.text(model.ColTime),
		Client: model.Client{
			Name:         c.text(model.ColClientName),
			Address:      c.text(model.ColClientAddress),
			HouseNumber:  c.houseNumber(),
			Neighborhood: c.text(model.ColClientDistrict),
			City:         c.text(model.ColClientCity),
			State:        c.text(model.ColClientState),
			PostalCode:   c.text(model.ColClientPostalCode),
			Phone:        c.text(model.ColClientPhone),
			TaxID:        c.text(model.ColClientTaxID),
		},
		Vehicle: model.Vehicle{
			Plate:   c.text(model.ColPlate),
			Make:    c.text(model.ColMake),
			Model:   c.text(model.ColModel),
			Color:   c.text(model.ColColor),
			Year:    c.integer(model.ColYear),
			Mileage: c.integer(model.ColMileage),
			Fuel:    model.FuelType(c.text(model.ColFuel)),
			Bay:     model.Bay(c.text(model.ColBay)),
		},
		ReportedProblem:  c.text(model.ColReportedProblem),
		DiagnosedProblem: c.text(model.ColDiagnosedProblem),
		PerformedService: c.text(model.ColPerformedService),
		Items:            itemcodec.Decode(c[model.ColItems]),
		Subtotal:         c.money(model.ColSubtotal),
		TravelFee:        c.money(model.ColTravelFee),
		Discount:         c.money(model.ColDiscount),
		Total:            c.money(model.ColTotal),
		Responsible:      c.text(model.ColResponsible),
		Status:           model.Status(c.text(model.ColStatus)),
		PaymentTerms:     model.PaymentTerms(c.text(model.ColPaymentTerms)),
	}
}

// rowFromRecord renders a work order in canonical column order. Text
// is written as string, integers as int64, money as float64 rounded to
// cents, and absent values as nil.
func rowFromRecord(w model.WorkOrder) []any {
	values := map[string]any{
		model.ColID:               w.ID,
		model.ColDate:             w.Date,
		model.ColTime:             w.Time,
		model.ColClientName:       w.Client.Name,
		model.ColClientAddress:    w.Client.Address,
		model.ColClientNumber:     strings.TrimSpace(w.Client.HouseNumber),
		model.ColClientDistrict:   w.Client.Neighborhood,
		model.ColClientCity:       w.Client.City,
		model.ColClientState:      w.Client.State,
		model.ColClientPostalCode: w.Client.PostalCode,
		model.ColClientPhone:      w.Client.Phone,
		model.ColClientTaxID:      w.Client.TaxID,
		model.ColPlate:            w.Vehicle.Plate,
		model.ColMake:             w.Vehicle.Make,
		model.ColModel:            w.Vehicle.Model,
		model.ColColor:            w.Vehicle.Color,
		model.ColYear:             intCell(w.Vehicle.Year),
		model.ColMileage:          intCell(w.Vehicle.Mileage),
		model.ColFuel:             string(w.Vehicle.Fuel),
		model.ColBay:              string(w.Vehicle.Bay),
		model.ColReportedProblem:  w.ReportedProblem,
		model.ColDiagnosedProblem: w.DiagnosedProblem,
		model.ColPerformedService: w.PerformedService,
		model.ColItems:            itemcodec.Encode(w.Items),
		model.ColSubtotal:         moneyCell(w.Subtotal),
		model.ColTravelFee:        moneyCell(w.TravelFee),
		model.ColDiscount:         moneyCell(w.Discount),
		model.ColTotal:            moneyCell(w.Total),
		model.ColResponsible:      w.Responsible,
		model.ColStatus:           string(w.Status),
		model.ColPaymentTerms:     string(w.PaymentTerms),
	}

	row := make([]any, len(model.Columns))
	for i, col := range model.Columns {
		v := values[col]
		if s, ok := v.(string); ok && s == "" {
			v = nil
		}
		row[i] = v
	}
	return row
}

func intCell(n sql.NullInt64) any {
	if !n.Valid {
		return nil
	}
	return n.Int64
}

func moneyCell(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.Round(2).InexactFloat64()
}
