package app

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/cep"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/credential"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/mailout"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/ui/settings"
)

// Timeout for a single table write or render.
const ioTimeout = 30 * time.Second

// savedMsg carries the result of saving the current order.
type savedMsg struct {
	order    model.WorkOrder
	inserted bool
	err      error
}

// deletedMsg carries the result of a confirmed deletion.
type deletedMsg struct {
	id  string
	err error
}

// publishedMsg carries the result of save-and-render.
type publishedMsg struct {
	id   string
	path string
	err  error
}

// lookupMsg carries a postal code lookup result.
type lookupMsg struct {
	code    string
	address cep.Address
	err     error
}

// reloadedMsg is sent after the table was read again.
type reloadedMsg struct {
	err error
}

// exportedMsg carries the path of a written e-mail draft.
type exportedMsg struct {
	path string
	err  error
}

// settingsSavedMsg carries the persisted settings and a lookup client
// built from them.
type settingsSavedMsg struct {
	cfg    model.AppConfig
	lookup *cep.Client
	err    error
}

func (m Model) saveCmd(w model.WorkOrder) tea.Cmd {
	svc := m.deps.Service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		saved, inserted, err := svc.Save(ctx, w)
		return savedMsg{order: saved, inserted: inserted, err: err}
	}
}

func (m Model) deleteCmd(id, token string) tea.Cmd {
	svc := m.deps.Service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return deletedMsg{id: id, err: svc.Delete(ctx, id, token)}
	}
}

func (m Model) publishCmd(w model.WorkOrder) tea.Cmd {
	svc := m.deps.Service
	r := m.deps.Renderer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		path, err := svc.Publish(ctx, w, r)
		return publishedMsg{id: w.ID, path: path, err: err}
	}
}

func (m Model) lookupCmd(code string) tea.Cmd {
	lookup := m.deps.Lookup
	return func() tea.Msg {
		addr, err := lookup.Lookup(context.Background(), code)
		return lookupMsg{code: code, address: addr, err: err}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	svc := m.deps.Service
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return reloadedMsg{err: svc.Reload(ctx)}
	}
}

func (m Model) exportCmd(w model.WorkOrder, to, docPath string) tea.Cmd {
	shop := m.deps.Shop
	now := m.deps.Now
	return func() tea.Msg {
		d, err := mailout.ForWorkOrder(w, shop, to, docPath, now())
		if err != nil {
			return exportedMsg{err: err}
		}
		path, err := mailout.WriteDraftFile(d, docPath)
		return exportedMsg{path: path, err: err}
	}
}

// settingsCmd stores the token in the keyring, writes the config file and
// builds a lookup client for the new settings.
func (m Model) settingsCmd(in settings.SavedMsg) tea.Cmd {
	cfg := *m.deps.Config
	path := m.deps.ConfigPath
	return func() tea.Msg {
		cfg.Shop = in.Shop
		cfg.Lookup = in.Lookup

		token := in.Token
		switch {
		case in.ClearToken:
			if err := credential.Delete(cfg.Lookup.TokenKey); err != nil {
				return settingsSavedMsg{err: err}
			}
			token = ""
		case token != "":
			if err := credential.Set(cfg.Lookup.TokenKey, token); err != nil {
				return settingsSavedMsg{err: err}
			}
		default:
			var err error
			if token, err = credential.Optional(cfg.Lookup.TokenKey); err != nil {
				log.Printf("app: reading cep token: %v", err)
			}
		}

		if err := model.SaveConfig(path, &cfg); err != nil {
			return settingsSavedMsg{err: err}
		}
		timeout := time.Duration(cfg.Lookup.TimeoutSec) * time.Second
		return settingsSavedMsg{cfg: cfg, lookup: cep.NewClient(cfg.Lookup.BaseURL, token, timeout)}
	}
}
