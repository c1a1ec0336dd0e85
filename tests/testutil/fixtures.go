package testutil

import (
	"github.com/shopspring/decimal"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
)

// BrakeJob returns a complete work order with two items: two brake pads
// at 50.00 and one hour of labor at 80.00 with 10% off.
func BrakeJob(id string) model.WorkOrder {
	items := []model.LineItem{
		{
			Kind:            model.ItemKindPart,
			Reference:       "PST-01",
			Description:     "Brake pad",
			Unit:            model.DefaultUnit,
			UnitPrice:       decimal.RequireFromString("50.00"),
			Quantity:        2,
			DiscountPercent: decimal.Zero,
			LineTotal:       decimal.RequireFromString("100.00"),
		},
		{
			Kind:            model.ItemKindLabor,
			Description:     "Labor",
			Unit:            model.DefaultUnit,
			UnitPrice:       decimal.RequireFromString("80.00"),
			Quantity:        1,
			DiscountPercent: decimal.NewFromInt(10),
			LineTotal:       decimal.RequireFromString("72.00"),
		},
	}

	return model.WorkOrder{
		ID:   id,
		Date: "16/10/2026",
		Time: "09:30:00",
		Client: model.Client{
			Name:         "Maria Souza",
			Address:      "Rua das Flores",
			HouseNumber:  "120",
			Neighborhood: "Centro",
			City:         "Campinas",
			State:        "SP",
			PostalCode:   "13010001",
			Phone:        "19987654321",
			TaxID:        "12345678909",
		},
		Vehicle: model.Vehicle{
			Plate:   "ABC1D23",
			Make:    "Fiat",
			Model:   "Uno",
			Color:   "Prata",
			Year:    model.Int(2015),
			Mileage: model.Int(123456),
			Fuel:    model.FuelFlex,
			Bay:     model.Bay1,
		},
		ReportedProblem:  "Ruído ao frear",
		DiagnosedProblem: "Pastilhas gastas",
		PerformedService: "Troca de pastilhas",
		Items:            items,
		Subtotal:         model.Money(decimal.RequireFromString("172.00")),
		TravelFee:        model.Money(decimal.Zero),
		Discount:         model.Money(decimal.Zero),
		Total:            model.Money(decimal.RequireFromString("172.00")),
		Responsible:      "João",
		Status:           model.StatusInProgress,
		PaymentTerms:     model.PaymentPix,
	}
}
