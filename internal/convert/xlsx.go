package convert

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gridforge-labs/gridforge/internal/document"
)

func init() {
	Register("xlsx", func(logger *slog.Logger) Adapter {
		return &xlsxAdapter{logger: logger}
	})
}

type xlsxAdapter struct {
	logger *slog.Logger
}

func (a *xlsxAdapter) Format() string { return "xlsx" }

// Import reads every workbook sheet. The first data row becomes the
// column headers; native cell types map to document types (numeric to
// number, boolean to boolean, date to date, string and error to text).
// Styling is carried into the cells when opts.CarryStyles is set.
func (a *xlsxAdapter) Import(r io.Reader, opts ImportOptions) Result {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Failure("malformed XLSX: %v", err)
	}
	defer func() { _ = f.Close() }()

	var sheets []*document.Sheet
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return Failure("read sheet %q: %v", sheetName, err)
		}
		if len(rows) == 0 {
			continue
		}

		sheet := document.NewSheet(sheetName)
		width := 0
		for _, rec := range rows {
			if len(rec) > width {
				width = len(rec)
			}
		}
		for i := 0; i < width; i++ {
			name := document.ColumnLetter(i)
			if i < len(rows[0]) && rows[0][i] != "" {
				name = rows[0][i]
			}
			sheet.Columns = append(sheet.Columns, document.NewColumn(name, document.TypeText))
		}
		sheet.ReindexColumns()

		for rowIdx, rec := range rows[1:] {
			row := document.NewRow(sheet.Columns)
			for i, col := range sheet.Columns {
				if i >= len(rec) {
					continue
				}
				cellName, _ := excelize.CoordinatesToCellName(i+1, rowIdx+2)
				cell := row.Cells[col.ID]
				cell.Value = a.importValue(f, sheetName, cellName, rec[i])
				if opts.CarryStyles {
					if style := a.importStyle(f, sheetName, cellName); style != nil {
						cell.Style = style
					}
				}
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		sheet.ReindexRows()
		sheets = append(sheets, sheet)
	}

	if len(sheets) == 0 {
		return Failure("workbook has no data")
	}
	if opts.SheetName != "" && len(sheets) == 1 {
		sheets[0].Name = opts.SheetName
	}
	a.logger.Debug("xlsx imported", "sheets", len(sheets))
	return Result{Success: true, Sheets: sheets}
}

// importValue maps a native cell onto a document value.
func (a *xlsxAdapter) importValue(f *excelize.File, sheetName, cellName, text string) any {
	if text == "" {
		return nil
	}
	typ, err := f.GetCellType(sheetName, cellName)
	if err == nil {
		switch typ {
		case excelize.CellTypeBool:
			return text == "TRUE" || text == "1" || strings.EqualFold(text, "true")
		case excelize.CellTypeDate:
			if t, ok := document.ParseDate(text); ok {
				return t
			}
			return text
		case excelize.CellTypeNumber:
			if n, err := strconv.ParseFloat(text, 64); err == nil {
				return n
			}
			return text
		case excelize.CellTypeError:
			return text
		}
	}
	// Unstyled numeric cells report an unset type; sniff them.
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return n
	}
	return text
}

// importStyle carries presentational attributes into the document.
func (a *xlsxAdapter) importStyle(f *excelize.File, sheetName, cellName string) *document.Style {
	styleID, err := f.GetCellStyle(sheetName, cellName)
	if err != nil || styleID == 0 {
		return nil
	}
	raw, err := f.GetStyle(styleID)
	if err != nil || raw == nil {
		return nil
	}
	style := &document.Style{}
	has := false
	if raw.Font != nil {
		style.Bold = raw.Font.Bold
		style.Italic = raw.Font.Italic
		style.Underline = raw.Font.Underline != ""
		style.Strikethrough = raw.Font.Strike
		style.FontColor = raw.Font.Color
		has = has || raw.Font.Bold || raw.Font.Italic || style.Underline || raw.Font.Strike || raw.Font.Color != ""
	}
	if raw.Fill.Type == "pattern" && len(raw.Fill.Color) > 0 && raw.Fill.Color[0] != "" {
		style.FillColor = raw.Fill.Color[0]
		has = true
	}
	if raw.Alignment != nil && raw.Alignment.Horizontal != "" {
		style.Align = raw.Alignment.Horizontal
		has = true
	}
	if raw.CustomNumFmt != nil && *raw.CustomNumFmt != "" {
		style.NumberFormat = *raw.CustomNumFmt
		has = true
	}
	if !has {
		return nil
	}
	return style
}

// Export writes the sheet as a workbook: a bold, shaded, centered header
// row followed by the data rows. The sheet name is sanitized to Excel's
// rules before use.
func (a *xlsxAdapter) Export(w io.Writer, sheet *document.Sheet, opts ExportOptions) Result {
	if sheet == nil {
		return Failure("no sheet to export")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := SanitizeSheetName(sheet.Name)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return Failure("name sheet: %v", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return Failure("build header style: %v", err)
	}

	for i, col := range sheet.Columns {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cellName, col.Name); err != nil {
			return Failure("write header cell %s: %v", cellName, err)
		}
	}
	if len(sheet.Columns) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
		_ = f.SetCellStyle(name, first, last, headerStyle)
	}

	for rowIdx, row := range sheet.Rows {
		for colIdx, col := range sheet.Columns {
			cell := row.Cells[col.ID]
			if cell == nil || cell.Value == nil {
				continue
			}
			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(name, cellName, cell.Value); err != nil {
				return Failure("write cell %s: %v", cellName, err)
			}
			if opts.CarryStyles && cell.Style != nil {
				if styleID, err := a.exportStyle(f, cell.Style); err == nil {
					_ = f.SetCellStyle(name, cellName, cellName, styleID)
				}
			}
		}
	}

	if err := f.Write(w); err != nil {
		return Failure("write workbook: %v", err)
	}
	a.logger.Debug("xlsx exported", "sheet", name, "rows", len(sheet.Rows))
	return Result{Success: true}
}

// exportStyle mirrors the import style mapping in reverse.
func (a *xlsxAdapter) exportStyle(f *excelize.File, style *document.Style) (int, error) {
	xs := &excelize.Style{}
	if style.Bold || style.Italic || style.Underline || style.Strikethrough || style.FontColor != "" {
		font := &excelize.Font{
			Bold:   style.Bold,
			Italic: style.Italic,
			Strike: style.Strikethrough,
			Color:  style.FontColor,
		}
		if style.Underline {
			font.Underline = "single"
		}
		xs.Font = font
	}
	if style.FillColor != "" {
		xs.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{style.FillColor}}
	}
	if style.Align != "" {
		xs.Alignment = &excelize.Alignment{Horizontal: style.Align}
	}
	if style.NumberFormat != "" {
		xs.CustomNumFmt = &style.NumberFormat
	}
	return f.NewStyle(xs)
}

// maxSheetNameLen is Excel's hard limit on sheet names.
const maxSheetNameLen = 31

// SanitizeSheetName replaces the characters Excel forbids in sheet names
// and truncates to the 31-character limit.
func SanitizeSheetName(name string) string {
	if name == "" {
		return "Sheet1"
	}
	replacer := strings.NewReplacer(
		":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
	)
	name = replacer.Replace(name)
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}
