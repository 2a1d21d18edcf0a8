package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/search"
	"github.com/gridforge-labs/gridforge/internal/validate"
)

// renderSheet writes a sheet in the requested format. Hidden rows and
// hidden columns are skipped.
func renderSheet(w io.Writer, sheet *document.Sheet, format string) error {
	cols := make([]*document.Column, 0, len(sheet.Columns))
	for _, c := range sheet.Columns {
		if !c.Hidden {
			cols = append(cols, c)
		}
	}

	switch format {
	case "json":
		return renderSheetJSON(w, sheet, cols)
	case "csv":
		return renderSheetCSV(w, sheet, cols)
	case "md", "markdown":
		return renderSheetMarkdown(w, sheet, cols)
	default:
		return renderSheetTable(w, sheet, cols)
	}
}

func visibleRows(sheet *document.Sheet) []*document.Row {
	rows := make([]*document.Row, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		if !r.Hidden {
			rows = append(rows, r)
		}
	}
	return rows
}

func cellText(row *document.Row, col *document.Column) string {
	cell := row.Cells[col.ID]
	if cell == nil {
		return ""
	}
	return document.FormatValue(document.CoerceToType(cell.Value, col.Type))
}

func renderSheetTable(w io.Writer, sheet *document.Sheet, cols []*document.Column) error {
	rows := visibleRows(sheet)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols)+1)
	headerRow[0] = "#"
	for i, col := range cols {
		headerRow[i+1] = col.Name
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(cols)+1)
		tr[0] = row.Index + 1
		for i, col := range cols {
			tr[i+1] = cellText(row, col)
		}
		t.AppendRow(tr)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderSheetCSV(w io.Writer, sheet *document.Sheet, cols []*document.Column) error {
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = escapeCSV(col.Name)
	}
	_, _ = fmt.Fprintln(w, strings.Join(names, ","))

	for _, row := range visibleRows(sheet) {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = escapeCSV(cellText(row, col))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderSheetMarkdown(w io.Writer, sheet *document.Sheet, cols []*document.Column) error {
	names := make([]string, len(cols))
	seps := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(names, " | "))
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range visibleRows(sheet) {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = cellText(row, col)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func renderSheetJSON(w io.Writer, sheet *document.Sheet, cols []*document.Column) error {
	records := make([]map[string]any, 0, len(sheet.Rows))
	for _, row := range visibleRows(sheet) {
		record := make(map[string]any, len(cols))
		for _, col := range cols {
			var v any
			if cell := row.Cells[col.ID]; cell != nil {
				v = document.CoerceToType(cell.Value, col.Type)
			}
			record[col.Name] = v
		}
		records = append(records, record)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// renderIssues writes validation issues as a table, or JSON when requested.
func renderIssues(w io.Writer, sheet *document.Sheet, result validate.Result, format string) error {
	issues := append(append([]validate.Issue{}, result.Errors...), result.Warnings...)

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	}

	if len(issues) == 0 {
		_, _ = fmt.Fprintf(w, "%s: OK\n", sheet.Name)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Severity", "Cell", "Message"})
	for _, issue := range issues {
		t.AppendRow(table.Row{string(issue.Severity), issueCellRef(sheet, issue), issue.Message})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "%s: %d error(s), %d warning(s)\n",
		sheet.Name, len(result.Errors), len(result.Warnings))
	return nil
}

// issueCellRef renders an issue's location as an A1-style reference.
func issueCellRef(sheet *document.Sheet, issue validate.Issue) string {
	colLetter, rowNum := "?", "?"
	for _, col := range sheet.Columns {
		if col.ID == issue.ColumnID {
			colLetter = document.ColumnLetter(col.Index)
			break
		}
	}
	for _, row := range sheet.Rows {
		if row.ID == issue.RowID {
			rowNum = fmt.Sprintf("%d", row.Index+1)
			break
		}
	}
	return colLetter + rowNum
}

// renderMatches writes search matches as a table, or JSON when requested.
func renderMatches(w io.Writer, matches []search.Match, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		_, _ = fmt.Fprintln(w, "No matches.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Sheet", "Row", "Column", "Value", "In"})
	for _, m := range matches {
		where := "value"
		if m.InFormula {
			where = "formula"
		}
		t.AppendRow(table.Row{m.SheetName, m.RowIndex + 1, m.ColumnName, m.Value, where})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d matches)\n", len(matches))
	return nil
}
