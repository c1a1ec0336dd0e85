package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"

	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/app"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/cep"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/credential"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/model"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/render"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/service"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/store"
	"github.com/SaYm0n/Gest-o-de-Ordens-de-Servi-o/internal/watch"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "oficina: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", model.DefaultConfigPath(), "configuration file")
	setToken := flag.String("set-cep-token", "", "store the CEP provider token in the system keyring and exit")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	if *setToken != "" {
		if err := credential.Set(cfg.Lookup.TokenKey, *setToken); err != nil {
			return err
		}
		fmt.Printf("token stored under %q\n", cfg.Lookup.TokenKey)
		return nil
	}

	logFile, err := tea.LogToFile(cfg.Log.File, "oficina")
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", cfg.Log.File, err)
	}
	defer logFile.Close()

	if _, err := os.Stat(*configPath); errors.Is(err, fs.ErrNotExist) {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			log.Printf("main: writing default config: %v", err)
		}
	}

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		return err
	}
	defer backend.Close()

	deps := app.Deps{
		Shop:       cfg.Shop,
		Config:     cfg,
		ConfigPath: *configPath,
		Location:   backend.Location(),
	}

	table, err := store.Open(context.Background(), backend)
	if err != nil {
		var perr *store.PersistenceError
		if !errors.As(err, &perr) {
			return err
		}
		log.Printf("main: %v", err)
		deps.Warning = fmt.Sprintf("Não foi possível ler %s; usando tabela vazia (salvar substitui o arquivo)", backend.Location())
	}
	deps.Service = service.New(table)

	watcher := watch.New(deps.Service, time.Duration(cfg.Storage.WatchIntervalSec)*time.Second)
	defer watcher.Stop()
	deps.Watcher = watcher

	if r, err := render.New(cfg.Render, cfg.Shop); err != nil {
		log.Printf("main: renderer unavailable: %v", err)
	} else {
		deps.Renderer = r
	}

	token, err := credential.Optional(cfg.Lookup.TokenKey)
	if err != nil {
		log.Printf("main: reading cep token: %v", err)
	}
	deps.Lookup = cep.NewClient(cfg.Lookup.BaseURL, token, time.Duration(cfg.Lookup.TimeoutSec)*time.Second)

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}

func openBackend(cfg model.StorageConfig) (store.Backend, error) {
	switch cfg.Backend {
	case model.BackendSQLite:
		return store.NewSQLiteBackend(cfg.Path)
	default:
		return store.NewXLSXBackend(cfg.Path, cfg.Sheet), nil
	}
}
