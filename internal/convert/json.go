package convert

import (
	"encoding/json"
	"io"
	"log/slog"
	"sort"

	"github.com/gridforge-labs/gridforge/internal/document"
)

func init() {
	Register("json", func(logger *slog.Logger) Adapter {
		return &jsonAdapter{logger: logger}
	})
}

type jsonAdapter struct {
	logger *slog.Logger
}

func (a *jsonAdapter) Format() string { return "json" }

// Import reads an array of objects; keys become columns, values are kept
// with their native JSON types.
func (a *jsonAdapter) Import(r io.Reader, opts ImportOptions) Result {
	var objects []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&objects); err != nil {
		return Failure("malformed JSON: %v", err)
	}

	name := opts.SheetName
	if name == "" {
		name = "Imported"
	}
	sheet := document.NewSheet(name)

	// Column order: first appearance across the objects, with keys
	// inside a single object sorted for determinism.
	added := map[string]bool{}
	for _, obj := range objects {
		for _, key := range sortedKeys(obj) {
			if !added[key] {
				added[key] = true
				sheet.Columns = append(sheet.Columns, document.NewColumn(key, document.TypeText))
			}
		}
	}
	sheet.ReindexColumns()

	for _, obj := range objects {
		row := document.NewRow(sheet.Columns)
		for _, col := range sheet.Columns {
			if v, ok := obj[col.Name]; ok {
				row.Cells[col.ID].Value = normalizeJSONValue(v)
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	sheet.ReindexRows()

	a.logger.Debug("json imported", "sheet", sheet.Name, "rows", len(sheet.Rows))
	return Result{Success: true, Sheets: []*document.Sheet{sheet}}
}

// Export writes one object per row keyed by column name, with optional
// pretty-printing and configurable indent.
func (a *jsonAdapter) Export(w io.Writer, sheet *document.Sheet, opts ExportOptions) Result {
	if sheet == nil {
		return Failure("no sheet to export")
	}
	objects := make([]map[string]any, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		obj := make(map[string]any, len(sheet.Columns))
		for _, col := range sheet.Columns {
			var v any
			if cell := row.Cells[col.ID]; cell != nil {
				v = exportValue(cell.Value)
			}
			obj[col.Name] = v
		}
		objects = append(objects, obj)
	}

	enc := json.NewEncoder(w)
	if opts.Pretty {
		indent := opts.Indent
		if indent == "" {
			indent = "  "
		}
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(objects); err != nil {
		return Failure("encode JSON: %v", err)
	}
	a.logger.Debug("json exported", "sheet", sheet.Name, "rows", len(sheet.Rows))
	return Result{Success: true}
}

// normalizeJSONValue maps decoded JSON values onto document value types.
func normalizeJSONValue(v any) any {
	switch t := v.(type) {
	case nil, bool, float64, string:
		return t
	default:
		// Arrays and nested objects are stored as their JSON text.
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// exportValue renders a stored value for JSON: dates serialize through
// the canonical date format, everything else keeps its native type.
func exportValue(v any) any {
	switch v.(type) {
	case nil, bool, float64, string, int:
		return v
	default:
		return document.FormatValue(v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
