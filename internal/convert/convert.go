// Package convert holds the import and export adapters. Adapters run off
// the engine's mutation path: an import produces complete, self-contained
// sheets that the caller hands to the engine in one atomic add, and an
// export reads a sheet snapshot without mutating anything.
package convert

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// Result is the outcome of an import or export run. Failures surface
// here rather than as partial document state.
type Result struct {
	Success bool              `json:"success"`
	Sheets  []*document.Sheet `json:"-"`
	Error   string            `json:"error,omitempty"`
}

// Failure builds an error result.
func Failure(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// ImportOptions controls how raw input is turned into a sheet.
type ImportOptions struct {
	// SheetName names the produced sheet (defaults to the format's choice).
	SheetName string
	// HasHeader treats the first row as column headers (CSV, XLSX).
	HasHeader bool
	// Delimiter is the CSV field delimiter (0 means comma).
	Delimiter rune
	// CarryStyles copies cell styling into the document (XLSX).
	CarryStyles bool
}

// ExportOptions controls sheet serialization.
type ExportOptions struct {
	// WriteHeader emits the column-name header row (CSV).
	WriteHeader bool
	// Delimiter is the CSV field delimiter (0 means comma).
	Delimiter rune
	// Pretty enables indented output (JSON).
	Pretty bool
	// Indent is the indent string for pretty output (defaults to two spaces).
	Indent string
	// CarryStyles writes cell styling (XLSX).
	CarryStyles bool
}

// Adapter converts between a serialized format and document sheets.
type Adapter interface {
	// Format returns the format key, e.g. "csv".
	Format() string

	// Import reads the input into one or more complete sheets.
	Import(r io.Reader, opts ImportOptions) Result

	// Export writes a snapshot of the sheet.
	Export(w io.Writer, sheet *document.Sheet, opts ExportOptions) Result
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(*slog.Logger) Adapter)
)

// Register adds an adapter factory to the registry. Called by adapter
// implementations in their init() functions.
func Register(format string, factory func(*slog.Logger) Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[format] = factory
}

// Get retrieves an adapter by format key.
func Get(format string, logger *slog.Logger) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[format]
	if !ok {
		return nil, false
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return factory(logger), true
}

// MustGet retrieves an adapter by format key and panics when the format
// is not registered. Requesting an unsupported format is a caller bug,
// not bad user data; CLI entry points validate formats before reaching
// this.
func MustGet(format string, logger *slog.Logger) Adapter {
	a, ok := Get(format, logger)
	if !ok {
		panic(fmt.Sprintf("convert: unsupported format %q (available: %v)", format, Formats()))
	}
	return a
}

// Formats returns all registered format keys, sorted.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	formats := make([]string, 0, len(registry))
	for f := range registry {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// IsRegistered checks whether a format key has an adapter.
func IsRegistered(format string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[format]
	return ok
}
