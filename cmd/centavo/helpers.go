package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/centavo-dev/centavo/internal/config"
	"github.com/centavo-dev/centavo/internal/engine"
	"github.com/centavo-dev/centavo/internal/ledger"
	"github.com/centavo-dev/centavo/internal/parser"
	"github.com/centavo-dev/centavo/internal/sheets"
)

// initLedger opens the local import ledger and brings its schema up to
// date.
func initLedger(ctx context.Context) (*ledger.Ledger, error) {
	path := viper.GetString("ledger.path")
	if path == "" {
		path = "$HOME/.local/share/centavo/ledger.db"
	}

	led, err := ledger.New(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}

	if err := led.Migrate(ctx); err != nil {
		_ = led.Close()
		return nil, fmt.Errorf("failed to run ledger migrations: %w", err)
	}

	return led, nil
}

// initStore builds the Google Sheets client from configuration.
func initStore(ctx context.Context) (*sheets.Client, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets configuration: %w", err)
	}

	client, err := sheets.NewClient(ctx, cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Google Sheets: %w", err)
	}
	return client, nil
}

// initEngine wires the full pipeline: store, ledger, and the parser
// registry with every built-in source.
func initEngine(ctx context.Context) (*engine.Engine, *ledger.Ledger, error) {
	store, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	led, err := initLedger(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open import ledger: %w", err)
	}

	return engine.New(store, led, parser.DefaultRegistry()), led, nil
}

// initOfflineEngine wires an engine with no store and no ledger, for
// commands that only read statement files.
func initOfflineEngine() *engine.Engine {
	return engine.New(nil, nil, parser.DefaultRegistry())
}

// saveConfig writes the current viper state back to the config file.
func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		configFile = filepath.Join(home, ".config", "centavo", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0o750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
