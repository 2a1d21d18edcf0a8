package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/keymap"
	"github.com/gridforge-labs/gridforge/internal/validate"
)

const rowNumberWidth = 5

var (
	styleTabActive = lipgloss.NewStyle().Bold(true).
			Background(lipgloss.Color("236")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	styleTab       = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Padding(0, 1)
	styleHeader    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	styleRowNumber = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleSelected  = lipgloss.NewStyle().Reverse(true)
	styleInvalid   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	styleFormula   = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	styleStatus    = lipgloss.NewStyle().Faint(true)
	styleDirty     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// columnWidth returns a column's render width including the cell separator.
func columnWidth(col *document.Column) int {
	w := col.Width
	if w <= 0 {
		w = 12
	}
	if w < 4 {
		w = 4
	}
	return w + 1
}

// View renders the tab bar, grid, and status line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeHelp {
		return m.viewHelp()
	}

	sheet := m.sheet()
	if sheet == nil {
		return "No sheets. Press ctrl+q to quit.\n"
	}

	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteByte('\n')
	b.WriteString(m.viewGrid(sheet))
	b.WriteString(m.viewStatus(sheet))
	return b.String()
}

func (m *Model) viewTabs() string {
	parts := make([]string, 0, len(m.eng.Sheets()))
	for i, s := range m.eng.Sheets() {
		if i == m.sheetIdx {
			parts = append(parts, styleTabActive.Render(s.Name))
		} else {
			parts = append(parts, styleTab.Render(s.Name))
		}
	}
	return strings.Join(parts, "")
}

func (m *Model) viewGrid(sheet *document.Sheet) string {
	rows := m.visibleRows()
	colCount := m.visibleColumnCount()
	lastCol := m.offsetC + colCount
	if lastCol > len(sheet.Columns) {
		lastCol = len(sheet.Columns)
	}

	var b strings.Builder

	// header
	b.WriteString(strings.Repeat(" ", rowNumberWidth))
	for i := m.offsetC; i < lastCol; i++ {
		col := sheet.Columns[i]
		w := columnWidth(col) - 1
		label := fmt.Sprintf("%s (%s)", col.Name, document.ColumnLetter(col.Index))
		b.WriteString(styleHeader.Render(pad(label, w)))
		b.WriteByte(' ')
	}
	b.WriteByte('\n')

	// body
	bodyRows := m.gridHeight()
	end := m.offsetR + bodyRows
	if end > len(rows) {
		end = len(rows)
	}
	for r := m.offsetR; r < end; r++ {
		row := rows[r]
		b.WriteString(styleRowNumber.Render(pad(fmt.Sprintf("%d", row.Index+1), rowNumberWidth-1)))
		b.WriteByte(' ')
		for c := m.offsetC; c < lastCol; c++ {
			col := sheet.Columns[c]
			w := columnWidth(col) - 1
			b.WriteString(m.renderCell(row, col, w, r == m.cursorR && c == m.cursorC))
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	for i := end - m.offsetR; i < bodyRows; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) renderCell(row *document.Row, col *document.Column, width int, selected bool) string {
	cell := row.Cells[col.ID]

	if selected && m.mode == modeEdit {
		m.input.Width = width
		return styleSelected.Render(pad(m.input.View(), width))
	}

	text := ""
	style := lipgloss.NewStyle()
	if cell != nil {
		text = document.FormatValue(document.CoerceToType(cell.Value, col.Type))
		if cell.Formula != "" {
			style = styleFormula
		}
		if res := validate.Cell(cell, col); !res.Valid {
			style = styleInvalid
		}
	}
	if selected {
		style = styleSelected
	}
	return style.Render(pad(text, width))
}

func (m *Model) viewStatus(sheet *document.Sheet) string {
	if m.mode == modeSearch || m.mode == modeFilter {
		return m.input.View()
	}

	pos := ""
	if row, col, _ := m.currentCell(); col != nil {
		pos = fmt.Sprintf("%s%d", document.ColumnLetter(col.Index), row.Index+1)
	}
	dirty := ""
	if m.eng.Dirty() {
		dirty = styleDirty.Render(" [+]")
	}
	left := fmt.Sprintf("%s  %s%s", sheet.Name, pos, dirty)
	right := fmt.Sprintf("undo:%d redo:%d  ? help", m.eng.UndoDepth(), m.eng.RedoDepth())
	if m.status != "" {
		right = m.status
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return styleStatus.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")

	var last keymap.Category
	for _, e := range m.keys.Entries() {
		if e.Category != last {
			if last != "" {
				b.WriteByte('\n')
			}
			b.WriteString(styleHeader.Render(strings.ToUpper(string(e.Category))))
			b.WriteByte('\n')
			last = e.Category
		}
		h := e.Binding.Help()
		b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
	}
	b.WriteString("\n")
	b.WriteString(styleStatus.Render("press any key to return"))
	b.WriteByte('\n')
	return b.String()
}

// pad truncates or right-pads s to exactly width display characters.
func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) > width {
		if width > 1 {
			return string(runes[:width-1]) + "…"
		}
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
