package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/engine"
)

func testModel(t *testing.T) (*Model, *document.Sheet) {
	t.Helper()
	sheet := document.NewSheet("items")
	name := document.NewColumn("Name", document.TypeText)
	value := document.NewColumn("Value", document.TypeNumber)
	sheet.Columns = []*document.Column{name, value}
	sheet.ReindexColumns()
	for _, rec := range [][2]any{
		{"Sword", 50.0},
		{"Shield", 30.0},
		{"Potion", 25.0},
	} {
		row := document.NewRow(sheet.Columns)
		row.Cells[name.ID].Value = rec[0]
		row.Cells[value.ID].Value = rec[1]
		sheet.Rows = append(sheet.Rows, row)
	}
	sheet.ReindexRows()

	eng := engine.New(engine.Config{})
	eng.ReplaceSheets([]*document.Sheet{sheet})
	return New(Options{Engine: eng}), sheet
}

func press(m *Model, msg tea.KeyMsg) *Model {
	next, _ := m.Update(msg)
	return next.(*Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorNavigation(t *testing.T) {
	m, _ := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursorR)
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.cursorC)

	// The cursor clamps at the grid edges.
	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.cursorC)
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursorR)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 1, m.cursorC)
	m = press(m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.cursorC)

	// vi-style keys work too.
	m = press(m, runes("j"))
	assert.Equal(t, 1, m.cursorR)
	m = press(m, runes("k"))
	assert.Equal(t, 0, m.cursorR)
}

func TestEditCommit(t *testing.T) {
	m, sheet := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Sword", m.input.Value(), "prefilled with the cell value")

	// Replace the text and commit.
	m.input.SetValue("Axe")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeGrid, m.mode)
	assert.Equal(t, "Axe", sheet.Rows[0].Cells[sheet.Columns[0].ID].Value)
	assert.True(t, m.eng.Dirty())
}

func TestEditCancelLeavesCellUntouched(t *testing.T) {
	m, sheet := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("scratch")
	m = press(m, tea.KeyMsg{Type: tea.KeyEscape})

	assert.Equal(t, modeGrid, m.mode)
	assert.Equal(t, "Sword", sheet.Rows[0].Cells[sheet.Columns[0].ID].Value)
	assert.False(t, m.eng.Dirty())
}

func TestEditFormulaPrefill(t *testing.T) {
	m, sheet := testModel(t)
	cell := sheet.Rows[0].Cells[sheet.Columns[1].ID]
	cell.Formula = "=B2+B3"

	m.cursorC = 1
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "=B2+B3", m.input.Value(), "formula source, not the value")
}

func TestTypingGoesToInputNotShortcuts(t *testing.T) {
	m, _ := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("")
	m = press(m, runes("j"))
	// "j" is Down in grid mode but plain text while editing.
	assert.Equal(t, "j", m.input.Value())
	assert.Equal(t, 0, m.cursorR)
}

func TestClearCell(t *testing.T) {
	m, sheet := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyDelete})
	assert.Nil(t, sheet.Rows[0].Cells[sheet.Columns[0].ID].Value)

	// Clearing is undoable like any other edit.
	require.True(t, m.eng.Undo())
	assert.Equal(t, "Sword", sheet.Rows[0].Cells[sheet.Columns[0].ID].Value)
}

func TestFilterPromptHidesRows(t *testing.T) {
	m, sheet := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	require.Equal(t, modeFilter, m.mode)
	m.input.SetValue("Value>28")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Len(t, m.visibleRows(), 2)
	assert.True(t, sheet.Rows[2].Hidden, "Potion filtered out")
	assert.Equal(t, "2 row(s) visible", m.status)

	// An empty expression clears the filter.
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.visibleRows(), 3)
}

func TestFilterBadExpressionReportsError(t *testing.T) {
	m, _ := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	m.input.SetValue("Rarity=Epic")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, `unknown column "Rarity"`, m.status)
	assert.Len(t, m.visibleRows(), 3)
}

func TestSearchJumpsToMatch(t *testing.T) {
	m, _ := testModel(t)

	m = press(m, runes("/"))
	require.Equal(t, modeSearch, m.mode)
	m.input.SetValue("Potion")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, 2, m.cursorR)
	assert.Equal(t, 0, m.cursorC)
	assert.Contains(t, m.status, "1 match(es)")

	m = press(m, runes("/"))
	m.input.SetValue("no such thing")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.status, "no matches")
}

func TestSheetSwitching(t *testing.T) {
	m, _ := testModel(t)
	extra := document.NewSheet("extra")
	m.eng.AddSheet(extra)

	m = press(m, runes("]"))
	assert.Equal(t, 1, m.sheetIdx)
	m = press(m, runes("]"))
	assert.Equal(t, 1, m.sheetIdx, "clamped at the last sheet")
	m = press(m, runes("["))
	assert.Equal(t, 0, m.sheetIdx)
}

func TestRowCommands(t *testing.T) {
	m, sheet := testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.Len(t, sheet.Rows, 4)
	assert.Equal(t, 1, m.cursorR, "cursor follows the inserted row")

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.Len(t, sheet.Rows, 3)

	m.cursorR = 0
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlJ})
	assert.Len(t, sheet.Rows, 4)
	nameCol := sheet.Columns[0]
	assert.Equal(t, "Sword", sheet.Rows[1].Cells[nameCol.ID].Value)
}

func TestHelpMode(t *testing.T) {
	m, _ := testModel(t)

	m = press(m, runes("?"))
	assert.Equal(t, modeHelp, m.mode)
	out := m.View()
	assert.Contains(t, out, "NAVIGATION")

	m = press(m, runes("x"))
	assert.Equal(t, modeGrid, m.mode)
}

func TestViewRendersGrid(t *testing.T) {
	m, _ := testModel(t)
	m.width, m.height = 100, 20

	out := m.View()
	assert.Contains(t, out, "items")
	assert.Contains(t, out, "Name (A)")
	assert.Contains(t, out, "Sword")
	assert.Contains(t, out, "A1")

	lines := strings.Split(out, "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
}

func TestQuit(t *testing.T) {
	m, _ := testModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
