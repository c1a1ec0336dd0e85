package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Storage.Backend != model.BackendXLSX || cfg.Storage.Path != "Ordens_de_Servico.xlsx" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Sheet != "Ordens" || cfg.Storage.WatchIntervalSec != 5 {
		t.Errorf("sheet = %q, watch = %d", cfg.Storage.Sheet, cfg.Storage.WatchIntervalSec)
	}
	if cfg.Render.LogoWidthPx != 100 || cfg.Lookup.TimeoutSec != 5 {
		t.Errorf("render/lookup = %+v %+v", cfg.Render, cfg.Lookup)
	}
	if cfg.Lookup.BaseURL != "https://viacep.com.br/ws" {
		t.Errorf("base url = %q", cfg.Lookup.BaseURL)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		env         map[string]string
		wantBackend string
		wantPath    string
		wantShop    string
	}{
		{
			name:        "sqlite default path",
			body:        "storage:\n  backend: SQLite\n",
			wantBackend: model.BackendSQLite,
			wantPath:    "oficina.db",
			wantShop:    "Oficina",
		},
		{
			name:        "explicit path and shop",
			body:        "storage:\n  path: /data/os.xlsx\nshop:\n  name: Auto Center\n",
			wantBackend: model.BackendXLSX,
			wantPath:    "/data/os.xlsx",
			wantShop:    "Auto Center",
		},
		{
			name:        "environment overrides file",
			body:        "storage:\n  backend: xlsx\n",
			env:         map[string]string{"OFICINA_STORAGE_BACKEND": "sqlite", "OFICINA_SHOP_NAME": "Env"},
			wantBackend: model.BackendSQLite,
			wantPath:    "oficina.db",
			wantShop:    "Env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := model.LoadConfig(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Storage.Backend != tt.wantBackend || cfg.Storage.Path != tt.wantPath {
				t.Errorf("storage = %+v", cfg.Storage)
			}
			if cfg.Shop.Name != tt.wantShop {
				t.Errorf("shop name = %q, want %q", cfg.Shop.Name, tt.wantShop)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown backend", "storage:\n  backend: csv\n"},
		{"malformed yaml", "storage: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := model.LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := model.DefaultAppConfig()
	cfg.Storage.Backend = model.BackendSQLite
	cfg.Storage.Path = "/srv/oficina.db"
	cfg.Shop.Email = "contato@oficina.com.br"
	cfg.Render.LogoWidthPx = 140

	if err := model.SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Storage.Backend != model.BackendSQLite || got.Storage.Path != "/srv/oficina.db" {
		t.Errorf("storage = %+v", got.Storage)
	}
	if got.Shop.Email != "contato@oficina.com.br" || got.Render.LogoWidthPx != 140 {
		t.Errorf("shop/render = %+v %+v", got.Shop, got.Render)
	}
}
