package items

import (
	"github.com/charmbracelet/huh"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/itemcodec"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
)

// entry holds the item form values on the heap for huh's Value pointers.
type entry struct {
	kind        string
	reference   string
	description string
	unitPrice   string
	quantity    string
	discount    string
}

func (e *entry) reset() {
	*e = entry{kind: string(model.ItemKindPart), quantity: "1", discount: "0"}
}

// parse validates the entry the same way on every field change and on
// submit, so the form cannot complete with an invalid item.
func (e *entry) parse() (model.LineItem, error) {
	return itemcodec.ParseLineItem(e.kind, e.reference, e.description, e.unitPrice, e.quantity, e.discount)
}

func buildEntryForm(e *entry, width int) *huh.Form {
	kinds := make([]huh.Option[string], len(model.ItemKinds))
	for i, k := range model.ItemKinds {
		kinds[i] = huh.NewOption(string(k), string(k))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tipo").
				Options(kinds...).
				Value(&e.kind),
			huh.NewInput().
				Title("Referência").
				Placeholder("código da peça (opcional)").
				Value(&e.reference),
			huh.NewInput().
				Title("Descrição").
				Value(&e.description),
			huh.NewInput().
				Title("Valor unitário (R$)").
				Placeholder("0,00").
				Value(&e.unitPrice),
			huh.NewInput().
				Title("Quantidade").
				Value(&e.quantity),
			huh.NewInput().
				Title("Desconto (%)").
				Value(&e.discount).
				Validate(func(string) error {
					_, err := e.parse()
					return err
				}),
		).Title("Novo item"),
	).WithWidth(width).WithShowHelp(false)
}
