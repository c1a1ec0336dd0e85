package settings

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
)

// SavedMsg carries the edited settings. Token is empty when the stored
// token should be kept; ClearToken asks for its removal.
type SavedMsg struct {
	Shop       model.ShopConfig
	Lookup     model.LookupConfig
	Token      string
	ClearToken bool
}

// CancelMsg is dispatched when the user leaves without saving.
type CancelMsg struct{}

// formBindings holds form values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	shop       model.ShopConfig
	lookup     model.LookupConfig
	timeout    string
	token      string
	clearToken bool
}

// Model edits the workshop header and the postal code lookup.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates an idle settings view.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start loads the current settings into a fresh form.
func (m *Model) Start(shop model.ShopConfig, lookup model.LookupConfig) tea.Cmd {
	*m.fb = formBindings{
		shop:    shop,
		lookup:  lookup,
		timeout: fmt.Sprint(lookup.TimeoutSec),
	}
	m.form = m.build()
	return m.form.Init()
}

// Update forwards messages to the form.
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
		out := m.result()
		m.form = nil
		return m, func() tea.Msg { return out }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

func (m Model) result() SavedMsg {
	lookup := m.fb.lookup
	lookup.BaseURL = strings.TrimSpace(lookup.BaseURL)
	if n, err := parsePositive(m.fb.timeout); err == nil {
		lookup.TimeoutSec = n
	}
	shop := m.fb.shop
	shop.Email = strings.TrimSpace(shop.Email)

	return SavedMsg{
		Shop:       shop,
		Lookup:     lookup,
		Token:      strings.TrimSpace(m.fb.token),
		ClearToken: m.fb.clearToken,
	}
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Padding(0, 2).
		Render(theme.TitleStyle.Render("Configuração") + "\n" + m.form.View())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nome da oficina").
				Value(&m.fb.shop.Name).
				Validate(validateRequired("Nome")),
			huh.NewInput().
				Title("Endereço").
				Value(&m.fb.shop.Address),
			huh.NewInput().
				Title("CNPJ").
				Value(&m.fb.shop.TaxID),
			huh.NewInput().
				Title("Telefone").
				Value(&m.fb.shop.Phone),
			huh.NewInput().
				Title("E-mail").
				Description("Remetente dos rascunhos de e-mail").
				Value(&m.fb.shop.Email).
				Validate(validateOptionalEmail),
		).Title("Oficina"),
		huh.NewGroup(
			huh.NewInput().
				Title("URL do serviço de CEP").
				Placeholder("https://viacep.com.br/ws").
				Value(&m.fb.lookup.BaseURL).
				Validate(validateURL),
			huh.NewInput().
				Title("Tempo limite (s)").
				Value(&m.fb.timeout).
				Validate(func(s string) error {
					_, err := parsePositive(s)
					return err
				}),
			huh.NewInput().
				Title("Token do serviço").
				Description("Guardado no chaveiro do sistema; vazio mantém o atual").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.token),
			huh.NewConfirm().
				Title("Remover token salvo?").
				Affirmative("Sim").
				Negative("Não").
				Value(&m.fb.clearToken),
		).Title("Consulta de CEP"),
	).WithWidth(min(max(m.width-4, 40), 100))
}

func parsePositive(s string) (int, error) {
	var n int
	if _, err := fmt.Sscan(strings.TrimSpace(s), &n); err != nil || n <= 0 {
		return 0, fmt.Errorf("informe um número de segundos maior que zero")
	}
	return n, nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s é obrigatório", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("URL inválida, use http(s)://host/caminho")
	}
	return nil
}

func validateOptionalEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("e-mail inválido")
	}
	return nil
}
