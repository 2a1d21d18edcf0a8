package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gridforge-labs/gridforge/internal/config"
	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/state"
)

// sheetNameForPath derives a sheet name from a file path.
func sheetNameForPath(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" {
		return "Sheet1"
	}
	return base
}

// formatRaw renders a typed value back to the raw-input form UpdateCell
// expects.
func formatRaw(v any) string {
	return document.FormatValue(v)
}

// getConfig returns the loaded configuration, or defaults when a command
// runs without the root's PersistentPreRunE (tests mostly).
func getConfig() *config.Config {
	if c := config.GetCurrentConfig(); c != nil {
		return c
	}
	return &config.Config{
		SessionPath:  config.DefaultSessionFile,
		Template:     config.DefaultTemplate,
		HistoryLimit: config.DefaultHistoryLimit,
		OutputFormat: config.DefaultOutput,
	}
}

// openSessionStore opens (and migrates) the session database for a command.
func openSessionStore(cmd *cobra.Command, cfg *config.Config) (*state.SQLiteStore, error) {
	if cfg.SessionPath != ":memory:" {
		dir := filepath.Dir(cfg.SessionPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create session directory: %w", err)
			}
		}
	}
	store := state.NewSQLiteStore(config.GetLogger(cmd.Context()))
	if err := store.Open(cfg.SessionPath); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
