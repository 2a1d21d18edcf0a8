package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridforge-labs/gridforge/internal/convert"
	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/filter"
	"github.com/gridforge-labs/gridforge/internal/search"
)

// Update routes messages to the active mode's handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil

	case fileChangedMsg:
		m.reloadFromDisk()
		return m, m.watcher.next()

	case watchErrMsg:
		m.status = fmt.Sprintf("watch error: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeGrid:
			return m.updateGrid(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateInput(msg)
		}
	}
	return m, nil
}

func (m *Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	sheet := m.sheet()

	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		if m.watcher != nil {
			m.watcher.stop()
		}
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.mode = modeHelp
		return m, nil

	case key.Matches(msg, k.Save):
		m.save()
		return m, nil

	case key.Matches(msg, k.Reload):
		m.reloadFromDisk()
		return m, nil
	}

	if sheet == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Up):
		m.cursorR--
	case key.Matches(msg, k.Down):
		m.cursorR++
	case key.Matches(msg, k.Left):
		m.cursorC--
	case key.Matches(msg, k.Right):
		m.cursorC++
	case key.Matches(msg, k.PageUp):
		m.cursorR -= m.gridHeight()
	case key.Matches(msg, k.PageDown):
		m.cursorR += m.gridHeight()
	case key.Matches(msg, k.Home):
		m.cursorC = 0
	case key.Matches(msg, k.End):
		m.cursorC = len(sheet.Columns) - 1
	case key.Matches(msg, k.NextSheet):
		if m.sheetIdx < len(m.eng.Sheets())-1 {
			m.sheetIdx++
			m.cursorR, m.cursorC, m.offsetR, m.offsetC = 0, 0, 0, 0
		}
	case key.Matches(msg, k.PrevSheet):
		if m.sheetIdx > 0 {
			m.sheetIdx--
			m.cursorR, m.cursorC, m.offsetR, m.offsetC = 0, 0, 0, 0
		}

	case key.Matches(msg, k.Edit):
		m.beginEdit()
	case key.Matches(msg, k.Clear):
		if row, col, _ := m.currentCell(); row != nil {
			m.eng.UpdateCell(sheet.ID, row.ID, col.ID, "")
		}
	case key.Matches(msg, k.Undo):
		if m.eng.Undo() {
			m.status = "undo"
		} else {
			m.status = "nothing to undo"
		}
	case key.Matches(msg, k.Redo):
		if m.eng.Redo() {
			m.status = "redo"
		} else {
			m.status = "nothing to redo"
		}

	case key.Matches(msg, k.AddRow):
		afterID := ""
		if row, _, _ := m.currentCell(); row != nil {
			afterID = row.ID
		}
		m.eng.AddRow(sheet.ID, afterID)
		m.cursorR++
	case key.Matches(msg, k.DeleteRow):
		if row, _, _ := m.currentCell(); row != nil {
			m.eng.DeleteRow(sheet.ID, row.ID)
		}
	case key.Matches(msg, k.DupRow):
		if row, _, _ := m.currentCell(); row != nil {
			m.eng.DuplicateRow(sheet.ID, row.ID)
			m.cursorR++
		}
	case key.Matches(msg, k.AddCol):
		afterID := ""
		if _, col, _ := m.currentCell(); col != nil {
			afterID = col.ID
		}
		m.eng.AddColumn(sheet.ID, afterID)
		m.cursorC++
	case key.Matches(msg, k.DeleteCol):
		if _, col, _ := m.currentCell(); col != nil {
			m.eng.DeleteColumn(sheet.ID, col.ID)
		}

	case key.Matches(msg, k.Search):
		m.beginPrompt(modeSearch, "search: ")
	case key.Matches(msg, k.Filter):
		m.beginPrompt(modeFilter, "filter (column op value): ")
	case key.Matches(msg, k.ClearFilters):
		m.eng.ClearFilters(sheet.ID)
		m.status = "filters cleared"
	}

	m.clampCursor()
	return m, nil
}

func (m *Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	// Any other key leaves the help view.
	m.mode = modeGrid
	return m, nil
}

// updateInput handles the edit, search, and filter prompts.
func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.AllowedWhileEditing(msg) {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.mode = modeGrid
			m.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			value := m.input.Value()
			prev := m.mode
			m.mode = modeGrid
			m.input.Blur()
			switch prev {
			case modeEdit:
				m.commitEdit(value)
			case modeSearch:
				m.jumpToMatch(value)
			case modeFilter:
				m.applyFilterExpr(value)
			}
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			m.save()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// beginEdit opens the cell editor pre-filled with the cell's formula, or
// its stored value when it has none.
func (m *Model) beginEdit() {
	_, _, cell := m.currentCell()
	initial := ""
	if cell != nil {
		if cell.Formula != "" {
			initial = cell.Formula
		} else {
			initial = document.FormatValue(cell.Value)
		}
	}
	m.input.Prompt = ""
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
	m.mode = modeEdit
}

func (m *Model) beginPrompt(target mode, prompt string) {
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.input.Focus()
	m.mode = target
}

func (m *Model) commitEdit(value string) {
	sheet := m.sheet()
	row, col, _ := m.currentCell()
	if sheet == nil || row == nil {
		return
	}
	m.eng.UpdateCell(sheet.ID, row.ID, col.ID, value)
}

// jumpToMatch moves the cursor to the first match in the active sheet.
func (m *Model) jumpToMatch(query string) {
	sheet := m.sheet()
	if sheet == nil || query == "" {
		return
	}
	matches := search.InSheet(sheet, query, search.Options{})
	if len(matches) == 0 {
		m.status = fmt.Sprintf("no matches for %q", query)
		return
	}
	match := matches[0]
	rows := m.visibleRows()
	for i, r := range rows {
		if r.ID == match.RowID {
			m.cursorR = i
			break
		}
	}
	for i, c := range sheet.Columns {
		if c.ID == match.ColumnID {
			m.cursorC = i
			break
		}
	}
	m.clampCursor()
	m.status = fmt.Sprintf("%d match(es) for %q", len(matches), query)
}

// applyFilterExpr parses "column op value" and applies it as the sheet's
// single filter. An empty expression clears all filters.
func (m *Model) applyFilterExpr(expr string) {
	sheet := m.sheet()
	if sheet == nil {
		return
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		m.eng.ClearFilters(sheet.ID)
		m.status = "filters cleared"
		return
	}
	cfg, err := filter.ParseExpr(sheet, expr)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.eng.FilterSheet(sheet.ID, []document.FilterConfig{cfg})
	m.cursorR = 0
	m.offsetR = 0
	m.status = fmt.Sprintf("%d row(s) visible", len(m.visibleRows()))
	m.clampCursor()
}

// save writes the active sheet back to the backing file.
func (m *Model) save() {
	if m.filePath == "" {
		m.status = "no backing file; use export"
		return
	}
	sheet := m.sheet()
	if sheet == nil {
		return
	}
	if m.watcher != nil {
		m.watcher.suppress()
	}
	res := convert.ExportFile(m.filePath, sheet, convert.ExportOptions{WriteHeader: true}, m.logger)
	if !res.Success {
		m.status = fmt.Sprintf("save failed: %s", res.Error)
		return
	}
	m.eng.MarkSaved()
	m.status = fmt.Sprintf("saved %s", m.filePath)
}

// reloadFromDisk reimports the backing file, replacing the document.
func (m *Model) reloadFromDisk() {
	if m.filePath == "" {
		return
	}
	res := convert.ImportFile(m.filePath, convert.ImportOptions{HasHeader: true}, m.logger)
	if !res.Success {
		m.status = fmt.Sprintf("reload failed: %s", res.Error)
		return
	}
	m.eng.ReplaceSheets(res.Sheets)
	m.sheetIdx = 0
	m.clampCursor()
	m.status = fmt.Sprintf("reloaded %s", m.filePath)
}
