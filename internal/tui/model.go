// Package tui implements the interactive grid editor built on Bubble Tea.
package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/engine"
	"github.com/gridforge-labs/gridforge/internal/keymap"
)

// mode is the editor's input mode. Grid mode dispatches shortcuts; the
// other modes route keystrokes to the text input.
type mode int

const (
	modeGrid mode = iota
	modeEdit
	modeSearch
	modeFilter
	modeHelp
)

// Options configures a new editor model.
type Options struct {
	Engine   *engine.Engine
	FilePath string // backing file, empty for unsaved documents
	Watch    bool   // reload when the backing file changes on disk
	Logger   *slog.Logger
}

// Model is the Bubble Tea model for the grid editor.
type Model struct {
	eng      *engine.Engine
	keys     keymap.KeyMap
	logger   *slog.Logger
	filePath string

	sheetIdx int
	cursorR  int // row index within visible rows
	cursorC  int // column index
	offsetR  int // first visible row
	offsetC  int // first visible column

	mode   mode
	input  textinput.Model
	status string

	width  int
	height int

	watcher  *fileWatcher
	quitting bool
}

// New builds an editor model over an engine that already holds sheets.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 0

	m := &Model{
		eng:      opts.Engine,
		keys:     keymap.Default(),
		logger:   logger,
		filePath: opts.FilePath,
		input:    input,
		width:    80,
		height:   24,
	}
	if opts.Watch && opts.FilePath != "" {
		m.watcher = newFileWatcher(opts.FilePath, logger)
	}
	return m
}

// Init starts the file watcher when one is configured.
func (m *Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.start()
	}
	return nil
}

// sheet returns the active sheet, or nil when the document is empty.
func (m *Model) sheet() *document.Sheet {
	sheets := m.eng.Sheets()
	if len(sheets) == 0 {
		return nil
	}
	if m.sheetIdx >= len(sheets) {
		m.sheetIdx = len(sheets) - 1
	}
	return sheets[m.sheetIdx]
}

// visibleRows returns the active sheet's rows with filtered-out rows removed.
func (m *Model) visibleRows() []*document.Row {
	sheet := m.sheet()
	if sheet == nil {
		return nil
	}
	rows := make([]*document.Row, 0, len(sheet.Rows))
	for _, r := range sheet.Rows {
		if !r.Hidden {
			rows = append(rows, r)
		}
	}
	return rows
}

// currentCell returns the row, column, and cell under the cursor.
// Cell may be nil for a blank position.
func (m *Model) currentCell() (*document.Row, *document.Column, *document.Cell) {
	sheet := m.sheet()
	if sheet == nil {
		return nil, nil, nil
	}
	rows := m.visibleRows()
	if m.cursorR >= len(rows) || m.cursorC >= len(sheet.Columns) {
		return nil, nil, nil
	}
	row := rows[m.cursorR]
	col := sheet.Columns[m.cursorC]
	return row, col, row.Cells[col.ID]
}

// clampCursor keeps the cursor inside the visible grid after mutations.
func (m *Model) clampCursor() {
	sheet := m.sheet()
	if sheet == nil {
		m.cursorR, m.cursorC = 0, 0
		return
	}
	rows := m.visibleRows()
	if m.cursorR >= len(rows) {
		m.cursorR = len(rows) - 1
	}
	if m.cursorR < 0 {
		m.cursorR = 0
	}
	if m.cursorC >= len(sheet.Columns) {
		m.cursorC = len(sheet.Columns) - 1
	}
	if m.cursorC < 0 {
		m.cursorC = 0
	}
	m.ensureVisible()
}

// ensureVisible scrolls the viewport so the cursor stays on screen.
func (m *Model) ensureVisible() {
	bodyRows := m.gridHeight()
	if m.cursorR < m.offsetR {
		m.offsetR = m.cursorR
	}
	if bodyRows > 0 && m.cursorR >= m.offsetR+bodyRows {
		m.offsetR = m.cursorR - bodyRows + 1
	}
	if m.cursorC < m.offsetC {
		m.offsetC = m.cursorC
	}
	cols := m.visibleColumnCount()
	if cols > 0 && m.cursorC >= m.offsetC+cols {
		m.offsetC = m.cursorC - cols + 1
	}
}

// gridHeight is the number of data rows that fit on screen.
func (m *Model) gridHeight() int {
	// window minus tab bar, header row, and status bar
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// visibleColumnCount estimates how many columns fit from the current offset.
func (m *Model) visibleColumnCount() int {
	sheet := m.sheet()
	if sheet == nil {
		return 0
	}
	remaining := m.width - rowNumberWidth
	count := 0
	for i := m.offsetC; i < len(sheet.Columns); i++ {
		w := columnWidth(sheet.Columns[i])
		if remaining < w && count > 0 {
			break
		}
		remaining -= w
		count++
	}
	if count == 0 {
		count = 1
	}
	return count
}
