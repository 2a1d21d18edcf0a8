// Package config provides configuration management for the gridforge CLI.
package config

// ImportConfig holds defaults for tabular imports.
type ImportConfig struct {
	HasHeader bool   `koanf:"has_header"`
	Delimiter string `koanf:"delimiter"`
}

// DelimiterRune returns the delimiter as the rune the CSV adapter takes,
// or 0 when unset so the adapter falls back to its own default.
func (c *ImportConfig) DelimiterRune() rune {
	return firstRune(c.Delimiter)
}

// ExportConfig holds defaults for tabular exports.
type ExportConfig struct {
	WriteHeader bool   `koanf:"write_header"`
	Delimiter   string `koanf:"delimiter"`
	Pretty      bool   `koanf:"pretty"`
}

// DelimiterRune returns the delimiter as the rune the CSV adapter takes,
// or 0 when unset so the adapter falls back to its own default.
func (c *ExportConfig) DelimiterRune() rune {
	return firstRune(c.Delimiter)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// EditorConfig holds settings for the interactive grid editor.
type EditorConfig struct {
	Watch        bool `koanf:"watch"`
	FrozenHeader bool `koanf:"frozen_header"`
}

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot  string        `koanf:"-"`
	SessionPath  string        `koanf:"session_path"`
	Template     string        `koanf:"template"`
	HistoryLimit int           `koanf:"history_limit"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Import       *ImportConfig `koanf:"import"`
	Export       *ExportConfig `koanf:"export"`
	Editor       *EditorConfig `koanf:"editor"`
}

// Default configuration values.
const (
	DefaultSessionFile  = ".gridforge/session.db"
	DefaultTemplate     = "blank"
	DefaultHistoryLimit = 100
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=csv
	DefaultDelimiter    = ","
)

// GetImportConfig returns the import config with defaults applied for any unset values.
func (c *Config) GetImportConfig() *ImportConfig {
	if c.Import == nil {
		return &ImportConfig{HasHeader: true, Delimiter: DefaultDelimiter}
	}
	imp := c.Import
	if imp.Delimiter == "" {
		imp.Delimiter = DefaultDelimiter
	}
	return imp
}

// GetExportConfig returns the export config with defaults applied for any unset values.
func (c *Config) GetExportConfig() *ExportConfig {
	if c.Export == nil {
		return &ExportConfig{WriteHeader: true, Delimiter: DefaultDelimiter}
	}
	exp := c.Export
	if exp.Delimiter == "" {
		exp.Delimiter = DefaultDelimiter
	}
	return exp
}

// GetEditorConfig returns the editor config, or defaults when unset.
func (c *Config) GetEditorConfig() *EditorConfig {
	if c.Editor == nil {
		return &EditorConfig{FrozenHeader: true}
	}
	return c.Editor
}
