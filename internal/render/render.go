// Package render produces the printable work order document from an
// HTML template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
)

//go:embed templates/workorder.html.tmpl
var defaultTemplate embed.FS

const defaultTemplateName = "templates/workorder.html.tmpl"

// Data is what a document template receives.
type Data struct {
	Order model.WorkOrder
	Shop  model.ShopConfig
	// Logo is a data URL, empty when no logo is available.
	Logo template.URL
}

// Renderer writes work order documents into an output directory.
type Renderer struct {
	tmpl      *template.Template
	shop      model.ShopConfig
	logo      template.URL
	outputDir string
	now       func() time.Time
}

// New parses the configured template (or the built-in one) and loads
// the logo. A missing or unreadable logo is logged and left out.
func New(cfg model.RenderConfig, shop model.ShopConfig) (*Renderer, error) {
	tmpl, err := loadTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		tmpl:      tmpl,
		shop:      shop,
		outputDir: cfg.OutputDir,
		now:       time.Now,
	}
	if r.outputDir == "" {
		r.outputDir = os.TempDir()
	}

	if cfg.Logo != "" {
		encoded, err := EncodeLogo(cfg.Logo, cfg.LogoWidthPx)
		if err != nil {
			log.Printf("render: logo not embedded: %v", err)
		} else {
			r.logo = template.URL("data:image/png;base64," + encoded)
		}
	}

	return r, nil
}

func loadTemplate(path string) (*template.Template, error) {
	if path == "" {
		tmpl, err := template.New(filepath.Base(defaultTemplateName)).Funcs(funcs).ParseFS(defaultTemplate, defaultTemplateName)
		if err != nil {
			return nil, fmt.Errorf("parsing built-in template: %w", err)
		}
		return tmpl, nil
	}

	tmpl, err := template.New(filepath.Base(path)).Funcs(funcs).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", path, err)
	}
	return tmpl, nil
}

// Execute renders the document for w into buf.
func (r *Renderer) Execute(buf *bytes.Buffer, w model.WorkOrder) error {
	data := Data{Order: w, Shop: r.shop, Logo: r.logo}
	if err := r.tmpl.Execute(buf, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

// Render writes the document for w to a new file and returns its path.
// The work order needs an identifier, client name and plate.
func (r *Renderer) Render(w model.WorkOrder) (string, error) {
	if strings.TrimSpace(w.ID) == "" || strings.TrimSpace(w.Client.Name) == "" || strings.TrimSpace(w.Vehicle.Plate) == "" {
		return "", fmt.Errorf("work order id, client name and plate are required to print")
	}

	var buf bytes.Buffer
	if err := r.Execute(&buf, w); err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", r.outputDir, err)
	}
	path := filepath.Join(r.outputDir, FileName(w.ID, r.now()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// FileName returns OS_<id>_<yyyy-MM-dd>_<HH_mm_ss>.html, keeping only
// letters, digits and '_' from id.
func FileName(id string, at time.Time) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, id)
	return fmt.Sprintf("OS_%s_%s_%s.html", safe, at.Format("2006-01-02"), at.Format("15_04_05"))
}
