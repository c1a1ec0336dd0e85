package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backend names.
const (
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

// StorageConfig selects where the work order table lives.
type StorageConfig struct {
	// Backend is "xlsx" (default) or "sqlite".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the table file. Defaults depend on the backend.
	Path string `mapstructure:"path" yaml:"path"`

	// Sheet is the worksheet name used by the xlsx backend.
	Sheet string `mapstructure:"sheet" yaml:"sheet"`

	// WatchIntervalSec is how often the table is checked for changes made
	// by other programs. 0 disables the check.
	WatchIntervalSec int `mapstructure:"watch_interval_sec" yaml:"watch_interval_sec"`
}

// ShopConfig is the workshop header printed on documents.
type ShopConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Address string `mapstructure:"address" yaml:"address"`
	TaxID   string `mapstructure:"tax_id" yaml:"tax_id"`
	Phone   string `mapstructure:"phone" yaml:"phone"`
	Email   string `mapstructure:"email" yaml:"email"`
}

// RenderConfig controls the document renderer.
type RenderConfig struct {
	Template    string `mapstructure:"template" yaml:"template"`
	Logo        string `mapstructure:"logo" yaml:"logo"`
	LogoWidthPx int    `mapstructure:"logo_width_px" yaml:"logo_width_px"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
}

// LookupConfig configures the postal code lookup.
type LookupConfig struct {
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// TokenKey names the keyring entry holding an optional provider token.
	TokenKey string `mapstructure:"token_key" yaml:"token_key"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Shop    ShopConfig    `mapstructure:"shop" yaml:"shop"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Lookup  LookupConfig  `mapstructure:"lookup" yaml:"lookup"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/oficina/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "oficina", "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend: BackendXLSX,
			Path:    "Ordens_de_Servico.xlsx",
			Sheet:   "Ordens",

			WatchIntervalSec: 5,
		},
		Shop: ShopConfig{
			Name: "Oficina",
		},
		Render: RenderConfig{
			Logo:        filepath.Join("resources", "logo.png"),
			LogoWidthPx: 100,
		},
		Lookup: LookupConfig{
			BaseURL:    "https://viacep.com.br/ws",
			TimeoutSec: 5,
			TokenKey:   "cep-token",
		},
		Log: LogConfig{
			File: "oficina.log",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Values can be overridden with OFICINA_* environment variables. If the
// file does not exist, the defaults (plus environment) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("oficina")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values, and so
	// AutomaticEnv knows which keys exist.
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.sheet", def.Storage.Sheet)
	v.SetDefault("storage.watch_interval_sec", def.Storage.WatchIntervalSec)
	v.SetDefault("shop.name", def.Shop.Name)
	v.SetDefault("shop.address", "")
	v.SetDefault("shop.tax_id", "")
	v.SetDefault("shop.phone", "")
	v.SetDefault("shop.email", "")
	v.SetDefault("render.template", "")
	v.SetDefault("render.logo", def.Render.Logo)
	v.SetDefault("render.logo_width_px", def.Render.LogoWidthPx)
	v.SetDefault("render.output_dir", "")
	v.SetDefault("lookup.base_url", def.Lookup.BaseURL)
	v.SetDefault("lookup.timeout_sec", def.Lookup.TimeoutSec)
	v.SetDefault("lookup.token_key", def.Lookup.TokenKey)
	v.SetDefault("log.file", def.Log.File)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case BackendXLSX, BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.WatchIntervalSec < 0 {
		cfg.Storage.WatchIntervalSec = 0
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultStoragePath(cfg.Storage.Backend)
	}
	if cfg.Render.LogoWidthPx <= 0 {
		cfg.Render.LogoWidthPx = def.Render.LogoWidthPx
	}
	if cfg.Lookup.TimeoutSec <= 0 {
		cfg.Lookup.TimeoutSec = def.Lookup.TimeoutSec
	}

	return cfg, nil
}

func defaultStoragePath(backend string) string {
	if backend == BackendSQLite {
		return "oficina.db"
	}
	return "Ordens_de_Servico.xlsx"
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("shop", cfg.Shop)
	v.Set("render", cfg.Render)
	v.Set("lookup", cfg.Lookup)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
