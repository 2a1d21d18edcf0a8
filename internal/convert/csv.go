package convert

import (
	"encoding/csv"
	"io"
	"log/slog"

	"github.com/gridforge-labs/gridforge/internal/document"
)

func init() {
	Register("csv", func(logger *slog.Logger) Adapter {
		return &csvAdapter{logger: logger}
	})
}

type csvAdapter struct {
	logger *slog.Logger
}

func (a *csvAdapter) Format() string { return "csv" }

// Import reads delimited text into one sheet. Each value is type-sniffed
// (numeric string to number, true/false to boolean, else text). Without a
// header row, columns are auto-named by spreadsheet letter.
func (a *csvAdapter) Import(r io.Reader, opts ImportOptions) Result {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Failure("malformed CSV: %v", err)
	}
	if len(records) == 0 {
		return Failure("CSV input is empty")
	}

	name := opts.SheetName
	if name == "" {
		name = "Imported"
	}
	sheet := document.NewSheet(name)

	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	dataStart := 0
	for i := 0; i < width; i++ {
		colName := document.ColumnLetter(i)
		if opts.HasHeader && i < len(records[0]) && records[0][i] != "" {
			colName = records[0][i]
		}
		sheet.Columns = append(sheet.Columns, document.NewColumn(colName, document.TypeText))
	}
	if opts.HasHeader {
		dataStart = 1
	}
	sheet.ReindexColumns()

	for _, rec := range records[dataStart:] {
		row := document.NewRow(sheet.Columns)
		for i, col := range sheet.Columns {
			if i < len(rec) {
				row.Cells[col.ID].Value = document.SniffValue(rec[i])
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	sheet.ReindexRows()

	a.logger.Debug("csv imported", "sheet", sheet.Name, "columns", len(sheet.Columns), "rows", len(sheet.Rows))
	return Result{Success: true, Sheets: []*document.Sheet{sheet}}
}

// Export writes an optional header row then one line per data row, dates
// as YYYY-MM-DD and booleans as literal true/false.
func (a *csvAdapter) Export(w io.Writer, sheet *document.Sheet, opts ExportOptions) Result {
	if sheet == nil {
		return Failure("no sheet to export")
	}
	writer := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}

	if opts.WriteHeader {
		header := make([]string, len(sheet.Columns))
		for i, col := range sheet.Columns {
			header[i] = col.Name
		}
		if err := writer.Write(header); err != nil {
			return Failure("write CSV header: %v", err)
		}
	}

	record := make([]string, len(sheet.Columns))
	for _, row := range sheet.Rows {
		for i, col := range sheet.Columns {
			record[i] = ""
			if cell := row.Cells[col.ID]; cell != nil {
				record[i] = document.FormatValue(document.CoerceToType(cell.Value, col.Type))
			}
		}
		if err := writer.Write(record); err != nil {
			return Failure("write CSV row %d: %v", row.Index, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return Failure("flush CSV output: %v", err)
	}
	a.logger.Debug("csv exported", "sheet", sheet.Name, "rows", len(sheet.Rows))
	return Result{Success: true}
}
