package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// FormatForPath infers the adapter format from a file extension.
func FormatForPath(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv", true
	case ".xlsx", ".xlsm":
		return "xlsx", true
	case ".json":
		return "json", true
	}
	return "", false
}

// ImportFile converts one file into sheets. The sheet is named after the
// file when the options carry no explicit name.
func ImportFile(path string, opts ImportOptions, logger *slog.Logger) Result {
	format, ok := FormatForPath(path)
	if !ok {
		return Failure("unsupported file type %q", filepath.Ext(path))
	}
	adapter, _ := Get(format, logger)

	f, err := os.Open(path) //nolint:gosec // G304: path comes from the invoking user
	if err != nil {
		return Failure("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	if opts.SheetName == "" {
		opts.SheetName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return adapter.Import(f, opts)
}

// ImportFiles converts several files concurrently, off the engine's
// mutation path. The returned sheets preserve input file order; the
// caller hands them to the engine in one atomic AddSheets call. A single
// failed file fails the whole batch.
func ImportFiles(ctx context.Context, paths []string, opts ImportOptions, logger *slog.Logger) ([]*document.Sheet, error) {
	results := make([]Result, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = ImportFile(path, opts, logger)
			if !results[i].Success {
				return fmt.Errorf("import %s: %s", path, results[i].Error)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sheets []*document.Sheet
	for _, res := range results {
		sheets = append(sheets, res.Sheets...)
	}
	return sheets, nil
}

// ExportFile writes a sheet snapshot to a file, picking the adapter from
// the extension.
func ExportFile(path string, sheet *document.Sheet, opts ExportOptions, logger *slog.Logger) Result {
	format, ok := FormatForPath(path)
	if !ok {
		return Failure("unsupported file type %q", filepath.Ext(path))
	}
	adapter, _ := Get(format, logger)

	f, err := os.Create(path) //nolint:gosec // G304: path comes from the invoking user
	if err != nil {
		return Failure("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	return adapter.Export(f, sheet, opts)
}
