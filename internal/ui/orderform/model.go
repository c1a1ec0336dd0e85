package orderform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/cep"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/service"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// SubmittedMsg is dispatched when the user completes the last group.
type SubmittedMsg struct {
	Fields service.Fields
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	values map[string]*string
}

func newBindings() *formBindings {
	fb := &formBindings{values: make(map[string]*string, len(model.Columns))}
	for _, col := range model.Columns {
		fb.values[col] = new(string)
	}
	return fb
}

func (fb *formBindings) load(f service.Fields) {
	for col, p := range fb.values {
		*p = f[col]
	}
}

func (fb *formBindings) fields() service.Fields {
	f := make(service.Fields, len(fb.values))
	for col, p := range fb.values {
		f[col] = *p
	}
	return f
}

// Model is the work order form. Items are edited in a separate view and
// are not part of the bound fields.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	id     string
	width  int
	height int
}

// New creates an empty order form.
func New(width, height int) Model {
	return Model{
		fb:     newBindings(),
		width:  width,
		height: height,
	}
}

// Start loads w into the form and builds it.
func (m *Model) Start(w model.WorkOrder) tea.Cmd {
	m.id = w.ID
	m.fb.load(service.FieldsOf(w))
	m.form = m.build()
	return m.form.Init()
}

// Restart rebuilds the form from the current bindings, e.g. after a
// completed submit was rejected.
func (m *Model) Restart() tea.Cmd {
	m.form = m.build()
	return m.form.Init()
}

// Active reports whether a form has been started.
func (m Model) Active() bool {
	return m.form != nil
}

// Fields returns the current input, including fields not yet submitted.
func (m Model) Fields() service.Fields {
	return m.fb.fields()
}

// PostalCode returns the CEP typed so far.
func (m Model) PostalCode() string {
	return *m.fb.values[model.ColClientPostalCode]
}

// ApplyAddress fills the address fields from a lookup result and rebuilds
// the form. A zero Address clears them.
func (m *Model) ApplyAddress(a cep.Address) tea.Cmd {
	*m.fb.values[model.ColClientAddress] = a.Street
	*m.fb.values[model.ColClientDistrict] = a.Neighborhood
	*m.fb.values[model.ColClientCity] = a.City
	*m.fb.values[model.ColClientState] = a.State
	if a.PostalCode != "" {
		*m.fb.values[model.ColClientPostalCode] = numfmt.FormatCEP(a.PostalCode)
	}
	if m.form == nil {
		return nil
	}
	m.form = m.build()
	return m.form.Init()
}

// Update forwards messages to the huh form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		fields := m.fb.fields()
		return m, func() tea.Msg { return SubmittedMsg{Fields: fields} }
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form under a title carrying the order number.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "Ordem de serviço " + m.id
	if d := *m.fb.values[model.ColDate]; d != "" {
		title += "  " + d + " " + *m.fb.values[model.ColTime]
	}

	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(theme.TitleStyle.Render(title) + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

func (m *Model) build() *huh.Form {
	v := m.fb.values
	return huh.NewForm(
		huh.NewGroup(
			m.input(model.ColClientName, "Nome do cliente", ""),
			m.input(model.ColClientPostalCode, "CEP", "00000-000 (ctrl+l busca o endereço)").
				Validate(validateOptionalCEP),
			m.input(model.ColClientAddress, "Endereço", ""),
			m.input(model.ColClientNumber, "Número", "S/N"),
			m.input(model.ColClientDistrict, "Bairro", ""),
			m.input(model.ColClientCity, "Cidade", ""),
			m.input(model.ColClientState, "UF", "SP").CharLimit(2),
			m.input(model.ColClientPhone, "Telefone", "(00) 00000-0000"),
			m.input(model.ColClientTaxID, "CPF/CNPJ", ""),
		).Title("Cliente"),
		huh.NewGroup(
			m.input(model.ColPlate, "Placa", "ABC1D23"),
			m.input(model.ColMake, "Marca", ""),
			m.input(model.ColModel, "Modelo", ""),
			m.input(model.ColColor, "Cor", ""),
			m.input(model.ColYear, "Ano", "").
				Validate(validateOptionalInteger("Ano")),
			m.input(model.ColMileage, "KM atual", ""),
			selectField("Combustível", v[model.ColFuel], options(model.FuelTypes)),
			selectField("Box", v[model.ColBay], options(model.Bays)),
		).Title("Veículo"),
		huh.NewGroup(
			huh.NewText().Title("Problema informado").Value(v[model.ColReportedProblem]),
			huh.NewText().Title("Problema constatado").Value(v[model.ColDiagnosedProblem]),
			huh.NewText().Title("Serviço executado").Value(v[model.ColPerformedService]),
		).Title("Serviço"),
		huh.NewGroup(
			m.input(model.ColTravelFee, "Deslocamento (R$)", "0,00").
				Validate(validateOptionalMoney("Deslocamento")),
			m.input(model.ColDiscount, "Desconto geral (R$)", "0,00").
				Validate(validateOptionalMoney("Desconto")),
			m.input(model.ColResponsible, "Responsável", ""),
			selectField("Situação", v[model.ColStatus], options(model.Statuses)),
			selectField("Pagamento", v[model.ColPaymentTerms], options(model.PaymentTermsOptions)),
		).Title("Fechamento"),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) input(col, title, placeholder string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(m.fb.values[col])
}

// options turns an option list into select entries headed by the
// "not selected" choice.
func options[T ~string](values []T) []string {
	out := make([]string, 0, len(values)+1)
	out = append(out, "")
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

// selectField keeps a value read from the table even if it is not one of
// the known options.
func selectField(title string, value *string, opts []string) *huh.Select[string] {
	known := false
	for _, o := range opts {
		if o == *value {
			known = true
			break
		}
	}
	if !known {
		opts = append(opts, *value)
	}

	entries := make([]huh.Option[string], len(opts))
	for i, o := range opts {
		label := o
		if o == "" {
			label = "(não informado)"
		}
		entries[i] = huh.NewOption(label, o)
	}
	return huh.NewSelect[string]().
		Title(title).
		Options(entries...).
		Value(value)
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-3, 10)
}

func validateOptionalInteger(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, ok := numfmt.ParseIntegerGrouped(s); !ok {
			return fmt.Errorf("%s deve ser um número inteiro", name)
		}
		return nil
	}
}

func validateOptionalMoney(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if !numfmt.ParseDecimal(s).Valid {
			return fmt.Errorf("%s: valor inválido", name)
		}
		return nil
	}
}

func validateOptionalCEP(s string) error {
	d := numfmt.DigitsOnly(s)
	if d == "" || len(d) == 8 {
		return nil
	}
	return fmt.Errorf("CEP deve ter 8 dígitos")
}
