package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/cep"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/keys"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/numfmt"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/orderid"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/service"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/store"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/theme"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui"
	helpview "github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui/help"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui/items"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui/orderform"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui/orderlist"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui/prompt"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui/settings"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/watch"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewForm ViewState = iota
	ViewItems
	ViewList
	ViewPrompt
	ViewHelp
	ViewSettings
)

// AddressLookup resolves a postal code to an address.
type AddressLookup interface {
	Lookup(ctx context.Context, code string) (cep.Address, error)
}

// Deps are the collaborators of the terminal app.
type Deps struct {
	Service  *service.Service
	Renderer service.DocumentRenderer
	Lookup   AddressLookup
	Shop     model.ShopConfig

	// Watcher reports changes made to the table by other programs.
	// Optional.
	Watcher *watch.Poller

	// Config and ConfigPath enable the settings view. Optional.
	Config     *model.AppConfig
	ConfigPath string

	// Location names the table file, shown in the help overlay.
	Location string

	// Warning is shown on the status bar at startup, e.g. when the table
	// could not be read and an empty one is in use.
	Warning string

	Now func() time.Time
}

type level int

const (
	levelInfo level = iota
	levelWarning
	levelError
)

type statusLine struct {
	text  string
	level level
}

type pendingDelete struct {
	id    string
	token string
}

// Model is the root Bubble Tea model. It owns the order being edited:
// form fields live in the order form, items in draft.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	deps         Deps
	keys         *keys.KeyMap

	form       orderform.Model
	itemsView  items.Model
	listView   orderlist.Model
	helpView   helpview.Model
	promptView prompt.Model
	settings   settings.Model

	draft  model.WorkOrder
	loaded bool // draft was read from or written to the table

	searchText string
	pending    *pendingDelete
	lastDoc    string
	lastDocID  string

	status  statusLine
	initCmd tea.Cmd
	ready   bool
}

// New creates the root model and opens a fresh draft.
func New(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewForm,
		layout:      ui.NewLayout(80, 24),
		deps:        deps,
		keys:        k,
		form:        orderform.New(80, 21),
		itemsView:   items.New(k, 80, 21),
		listView:    orderlist.New(k, 80, 21),
		helpView:    helpview.New(k, deps.Location, 80, 21),
		promptView:  prompt.New(80),
		settings:    settings.New(80, 21),
	}
	m.initCmd = m.openDraft(deps.Service.NewDraft(), false)
	if deps.Warning != "" {
		m.setStatus(levelWarning, deps.Warning)
	}
	return m
}

// Init starts the order form and the table watcher.
func (m Model) Init() tea.Cmd {
	if m.deps.Watcher == nil {
		return m.initCmd
	}
	return tea.Batch(m.initCmd, m.deps.Watcher.Start())
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.form.SetSize(w, h)
		m.itemsView.SetSize(w, h)
		m.listView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.promptView.SetSize(w, h)
		m.settings.SetSize(w, h)
		// Forward to the active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.acceptsShortcuts() {
			if next, cmd, ok := m.handleShortcut(msg); ok {
				return next, cmd
			}
		}

	case orderform.SubmittedMsg:
		return m, m.saveCmd(service.Collect(msg.Fields, m.draft.Items))

	case orderform.CancelMsg:
		cmd := m.form.Restart()
		return m, cmd

	case savedMsg:
		return m.handleSaved(msg)

	case deletedMsg:
		return m.handleDeleted(msg)

	case publishedMsg:
		if msg.err != nil {
			m.setStatus(levelError, describe(msg.err))
			cmd := m.form.Restart()
			return m, cmd
		}
		m.lastDoc, m.lastDocID = msg.path, msg.id
		m.setStatus(levelInfo, "Documento gerado: "+msg.path+" (ctrl+e exporta e-mail)")
		cmd := m.reopen(msg.id)
		return m, cmd

	case lookupMsg:
		return m.handleLookup(msg)

	case watch.ChangedMsg:
		m.setStatus(levelWarning, "A tabela foi alterada por outro programa; ctrl+r recarrega antes de salvar")
		return m, m.deps.Watcher.WaitForNext()

	case watch.ErrorMsg:
		m.setStatus(levelWarning, "Não foi possível verificar a tabela: "+msg.Err.Error())
		return m, m.deps.Watcher.WaitForNext()

	case reloadedMsg:
		m.recheck()
		m.pending = nil
		if msg.err != nil {
			m.setStatus(levelError, describe(msg.err))
		} else {
			m.setStatus(levelInfo, "Tabela recarregada")
		}
		cmd := m.listView.SetOrders(m.deps.Service.List())
		return m, cmd

	case exportedMsg:
		if msg.err != nil {
			m.setStatus(levelError, "Falha ao exportar e-mail: "+msg.err.Error())
		} else {
			m.setStatus(levelInfo, "Rascunho de e-mail salvo em "+msg.path)
		}
		return m, nil

	case settings.SavedMsg:
		m.currentView = ViewForm
		return m, m.settingsCmd(msg)

	case settings.CancelMsg:
		m.currentView = ViewForm
		return m, nil

	case settingsSavedMsg:
		if msg.err != nil {
			m.setStatus(levelError, "Falha ao salvar configuração: "+msg.err.Error())
			return m, nil
		}
		*m.deps.Config = msg.cfg
		m.deps.Shop = msg.cfg.Shop
		m.deps.Lookup = msg.lookup
		m.setStatus(levelInfo, "Configuração salva; o cabeçalho dos documentos muda ao reiniciar")
		return m, nil

	case items.AddedMsg:
		m.draft = service.AddItem(m.draft, msg.Item)
		m.refreshItems()
		m.setStatus(levelInfo, "Item adicionado")
		return m, nil

	case items.RemoveMsg:
		if d, ok := service.RemoveItem(m.draft, msg.Index); ok {
			m.draft = d
			m.refreshItems()
			m.setStatus(levelInfo, "Item removido")
		}
		return m, nil

	case orderlist.SelectedMsg:
		return m.openByID(msg.ID)

	case prompt.SubmittedMsg:
		m.currentView = m.previousView
		return m.handlePrompt(msg)

	case prompt.CancelledMsg:
		m.currentView = m.previousView
		m.pending = nil
		m.setStatus(levelInfo, "Cancelado")
		return m, nil
	}

	return m.updateActiveView(msg)
}

// acceptsShortcuts is false while a text input owns every key.
func (m Model) acceptsShortcuts() bool {
	switch m.currentView {
	case ViewPrompt:
		return false
	case ViewItems:
		return !m.itemsView.Editing()
	case ViewList:
		return !m.listView.Filtering()
	case ViewSettings:
		return false
	}
	return true
}

func (m Model) handleShortcut(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return m, nil, true

	case key.Matches(msg, m.keys.Back) && m.currentView != ViewForm:
		m.currentView = ViewForm
		return m, nil, true

	case key.Matches(msg, m.keys.New):
		m.currentView = ViewForm
		cmd := m.openDraft(m.deps.Service.NewDraft(), false)
		m.setStatus(levelInfo, "Nova OS "+m.draft.ID)
		return m, cmd, true

	case key.Matches(msg, m.keys.Save):
		return m, m.saveCmd(m.current()), true

	case key.Matches(msg, m.keys.Print):
		if m.deps.Renderer == nil {
			m.setStatus(levelError, "Geração de documento indisponível")
			return m, nil, true
		}
		m.setStatus(levelInfo, "Salvando e gerando documento...")
		return m, m.publishCmd(m.current()), true

	case key.Matches(msg, m.keys.Search):
		cmd := m.ask(prompt.PurposeSearch, "Buscar OS", "Número da OS", "000001", m.searchText)
		return m, cmd, true

	case key.Matches(msg, m.keys.Delete):
		next, cmd := m.requestDelete()
		return next, cmd, true

	case key.Matches(msg, m.keys.Email):
		if m.lastDoc == "" || m.lastDocID != m.draft.ID {
			m.setStatus(levelWarning, "Gere o documento (ctrl+p) antes de exportar o e-mail")
			return m, nil, true
		}
		cmd := m.ask(prompt.PurposeEmailTo, "Exportar e-mail", "Destinatário(s), separados por vírgula", "cliente@exemplo.com", "")
		return m, cmd, true

	case key.Matches(msg, m.keys.Lookup):
		if m.deps.Lookup == nil {
			m.setStatus(levelError, "Consulta de CEP indisponível")
			return m, nil, true
		}
		code := numfmt.DigitsOnly(m.form.PostalCode())
		m.setStatus(levelInfo, "Consultando CEP "+numfmt.FormatCEP(code)+"...")
		return m, m.lookupCmd(code), true

	case key.Matches(msg, m.keys.Items):
		m.currentView = ViewItems
		m.refreshItems()
		return m, nil, true

	case key.Matches(msg, m.keys.List):
		m.currentView = ViewList
		cmd := m.listView.SetOrders(m.deps.Service.List())
		return m, cmd, true

	case key.Matches(msg, m.keys.Settings):
		if m.deps.Config == nil {
			m.setStatus(levelWarning, "Configuração indisponível")
			return m, nil, true
		}
		m.currentView = ViewSettings
		cmd := m.settings.Start(m.deps.Config.Shop, m.deps.Config.Lookup)
		return m, cmd, true

	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadCmd(), true
	}
	return m, nil, false
}

// current assembles the order being edited from the form and the items.
func (m Model) current() model.WorkOrder {
	return service.Collect(m.form.Fields(), m.draft.Items)
}

// openDraft makes w the order being edited.
func (m *Model) openDraft(w model.WorkOrder, loaded bool) tea.Cmd {
	m.draft = w
	m.loaded = loaded
	m.pending = nil
	m.refreshItems()
	return m.form.Start(w)
}

func (m *Model) refreshItems() {
	m.itemsView.SetItems(m.draft.Items, numfmt.FormatMoney(model.ItemsSubtotal(m.draft.Items)))
}

// reopen loads the stored version of id into the form.
func (m *Model) reopen(id string) tea.Cmd {
	stored, err := m.deps.Service.Search(id)
	if err != nil {
		return m.form.Restart()
	}
	return m.openDraft(stored, true)
}

func (m Model) openByID(id string) (tea.Model, tea.Cmd) {
	w, err := m.deps.Service.Search(id)
	if err != nil {
		m.setStatus(levelWarning, describe(err))
		return m, nil
	}
	m.currentView = ViewForm
	cmd := m.openDraft(w, true)
	msg := "OS " + w.ID + " carregada"
	switch {
	case w.HasOpaqueItems():
		m.setStatus(levelWarning, msg+"; há itens que não puderam ser lidos e serão mantidos como estão")
	case w.HasTotalMismatch():
		m.setStatus(levelWarning, msg+"; totais de itens divergentes foram recalculados")
	default:
		m.setStatus(levelInfo, msg)
	}
	return m, cmd
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(levelError, describe(msg.err))
		cmd := m.form.Restart()
		return m, cmd
	}
	m.recheck()
	verb := "atualizada"
	if msg.inserted {
		verb = "salva"
	}
	m.setStatus(levelInfo, fmt.Sprintf("OS %s %s", msg.order.ID, verb))
	cmd := m.reopen(msg.order.ID)
	return m, cmd
}

// requestDelete targets the loaded order, or the number typed in the
// search box when nothing is loaded.
func (m Model) requestDelete() (tea.Model, tea.Cmd) {
	id := orderid.Pad(m.searchText)
	if m.loaded {
		id = m.draft.ID
	}
	if id == "" {
		m.setStatus(levelWarning, "Nenhuma OS carregada nem número informado na busca")
		return m, nil
	}

	token, err := m.deps.Service.RequestDelete(id)
	if err != nil {
		m.setStatus(levelWarning, describe(err))
		return m, nil
	}
	m.pending = &pendingDelete{id: id, token: token}

	detail := fmt.Sprintf("Digite SIM para excluir a OS %s. A operação não pode ser desfeita.", id)
	cmd := m.ask(prompt.PurposeConfirmDelete, "Excluir OS", detail, "SIM", "")
	return m, cmd
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setStatus(levelError, describe(msg.err))
		return m, nil
	}
	m.recheck()
	m.setStatus(levelInfo, "OS "+msg.id+" excluída")
	m.searchText = ""
	formCmd := m.openDraft(m.deps.Service.NewDraft(), false)
	listCmd := m.listView.SetOrders(m.deps.Service.List())
	return m, tea.Batch(formCmd, listCmd)
}

func (m Model) handleLookup(msg lookupMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		m.setStatus(levelInfo, "Endereço preenchido pelo CEP")
		cmd := m.form.ApplyAddress(msg.address)
		return m, cmd
	case errors.Is(msg.err, cep.ErrNotFound), errors.Is(msg.err, cep.ErrInvalidCEP):
		m.setStatus(levelWarning, describe(msg.err))
		cmd := m.form.ApplyAddress(cep.Address{})
		return m, cmd
	default:
		log.Printf("app: cep lookup for %s failed: %v", msg.code, msg.err)
		m.setStatus(levelError, "Falha na consulta de CEP: "+msg.err.Error())
		return m, nil
	}
}

func (m Model) handlePrompt(msg prompt.SubmittedMsg) (tea.Model, tea.Cmd) {
	switch msg.Purpose {
	case prompt.PurposeSearch:
		m.searchText = msg.Value
		if msg.Value == "" {
			return m, nil
		}
		return m.openByID(msg.Value)

	case prompt.PurposeConfirmDelete:
		p := m.pending
		m.pending = nil
		if p == nil {
			return m, nil
		}
		if !strings.EqualFold(msg.Value, "sim") {
			m.setStatus(levelInfo, "Exclusão cancelada")
			return m, nil
		}
		return m, m.deleteCmd(p.id, p.token)

	case prompt.PurposeEmailTo:
		if msg.Value == "" {
			m.setStatus(levelWarning, "Informe ao menos um destinatário")
			return m, nil
		}
		return m, m.exportCmd(m.current(), msg.Value, m.lastDoc)
	}
	return m, nil
}

func (m *Model) ask(p prompt.Purpose, title, detail, placeholder, value string) tea.Cmd {
	m.previousView = m.currentView
	if m.previousView == ViewHelp {
		m.previousView = ViewForm
	}
	m.currentView = ViewPrompt
	return m.promptView.Start(p, title, detail, placeholder, value)
}

// recheck asks the watcher to compare the table again after we wrote it.
func (m Model) recheck() {
	if m.deps.Watcher != nil {
		m.deps.Watcher.Trigger()
	}
}

func (m *Model) setStatus(l level, text string) {
	m.status = statusLine{text: text, level: l}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewItems:
		m.itemsView, cmd = m.itemsView.Update(msg)
	case ViewList:
		m.listView, cmd = m.listView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewPrompt:
		m.promptView, cmd = m.promptView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	current := "OS " + m.draft.ID
	if !m.loaded {
		current += " (nova)"
	}
	if m.deps.Watcher != nil && m.deps.Watcher.Status().State == watch.StateChanged {
		current = "tabela alterada | " + current
	}
	header := m.layout.RenderHeader("Oficina - Ordens de Serviço", current)
	statusBar := m.layout.RenderStatusBar(m.renderStatus(), m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewForm:
		return m.form.View()
	case ViewItems:
		return m.itemsView.View()
	case ViewList:
		return m.listView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewPrompt:
		return m.promptView.View()
	case ViewSettings:
		return m.settings.View()
	default:
		return ""
	}
}

func (m Model) renderStatus() string {
	switch m.status.level {
	case levelError:
		return theme.ErrorStyle.Render(m.status.text)
	case levelWarning:
		return theme.WarningStyle.Render(m.status.text)
	default:
		return theme.InfoStyle.Render(m.status.text)
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "f1 close help | esc back"
	case ViewPrompt:
		return "enter confirm | esc cancel"
	case ViewSettings:
		return "enter next | shift+tab previous | ctrl+c quit"
	case ViewItems:
		if m.itemsView.Editing() {
			return "enter next | ctrl+c quit"
		}
		return "a add | x remove | esc back to form"
	case ViewList:
		return "enter open | / filter | esc back to form"
	default:
		return "ctrl+s save | ctrl+f search | ctrl+d delete | ctrl+p print | ctrl+t items | ctrl+o list | f1 help"
	}
}

var fieldLabels = map[string]string{
	model.ColID:         "número da OS",
	model.ColClientName: "nome do cliente",
	model.ColPlate:      "placa do veículo",
}

// describe turns service and store errors into status bar text.
func describe(err error) string {
	var missing *service.MissingFieldError
	var perr *store.PersistenceError

	switch {
	case errors.As(err, &missing):
		label := fieldLabels[missing.Field]
		if label == "" {
			label = missing.Field
		}
		return "Preencha o campo obrigatório: " + label
	case errors.Is(err, store.ErrNotFound):
		return "OS não encontrada"
	case errors.Is(err, store.ErrTableChanged):
		return "A tabela foi alterada por outro programa; ctrl+r recarrega antes de salvar"
	case errors.Is(err, service.ErrConfirmationRequired), errors.Is(err, service.ErrInvalidConfirmation):
		return "Exclusão não confirmada"
	case errors.Is(err, cep.ErrInvalidCEP):
		return "CEP inválido"
	case errors.Is(err, cep.ErrNotFound):
		return "CEP não encontrado"
	case errors.As(err, &perr):
		return fmt.Sprintf("Erro ao gravar %s: %v", perr.Path, perr.Err)
	default:
		return "Erro: " + err.Error()
	}
}
