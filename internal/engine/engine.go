// Package engine is the single point of structural and content change for
// a document. It applies named commands to the sheet graph, records
// reversible diffs on a bounded linear history stack, and exposes undo
// and redo. Filtering and searching are delegated to their own packages
// and never enter the history.
//
// The engine is synchronous and assumes one logical actor issuing
// commands in sequence; every command computes the full next state before
// returning, so observers never see a half-applied mutation.
package engine

import (
	"log/slog"

	"github.com/gridforge-labs/gridforge/internal/document"
	"github.com/gridforge-labs/gridforge/internal/filter"
	"github.com/gridforge-labs/gridforge/internal/formula"
)

// Engine owns all document state behind its command surface.
type Engine struct {
	logger  *slog.Logger
	sheets  []*document.Sheet
	history *historyStack
	dirty   bool
}

// Config holds engine configuration.
type Config struct {
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// HistoryLimit bounds the undo stack (0 means DefaultHistoryLimit).
	HistoryLimit int
}

// New creates an engine with no sheets.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		logger:  logger,
		history: newHistoryStack(cfg.HistoryLimit),
	}
}

// --- Document access ---

// Sheets returns the sheets in document order.
func (e *Engine) Sheets() []*document.Sheet {
	return e.sheets
}

// Sheet returns the sheet with the given id, or nil.
func (e *Engine) Sheet(sheetID string) *document.Sheet {
	for _, s := range e.sheets {
		if s.ID == sheetID {
			return s
		}
	}
	return nil
}

// SheetByName returns the first sheet with the given name, or nil.
func (e *Engine) SheetByName(name string) *document.Sheet {
	for _, s := range e.sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Dirty reports whether the document has unsaved changes.
func (e *Engine) Dirty() bool { return e.dirty }

// MarkSaved clears the unsaved-changes flag after a successful save.
func (e *Engine) MarkSaved() { e.dirty = false }

// UndoDepth returns how many commands can currently be undone.
func (e *Engine) UndoDepth() int { return e.history.depth() }

// RedoDepth returns how many commands can currently be redone.
func (e *Engine) RedoDepth() int { return e.history.redoable() }

// --- Sheet commands ---

// AddSheet atomically adds a complete, self-contained sheet to the
// document, as handed over by an import adapter or template. The
// addition is undoable.
func (e *Engine) AddSheet(sheet *document.Sheet) {
	if sheet == nil {
		return
	}
	e.sheets = append(e.sheets, sheet)
	e.record(&historyEntry{
		Kind:       KindSheet,
		Action:     ActionAdd,
		SheetID:    sheet.ID,
		AfterSheet: sheet.Clone(),
		SheetIndex: len(e.sheets) - 1,
	})
	e.logger.Debug("sheet added", "sheet_id", sheet.ID, "name", sheet.Name,
		"columns", len(sheet.Columns), "rows", len(sheet.Rows))
}

// AddSheets adds several imported sheets as one atomic handoff.
func (e *Engine) AddSheets(sheets []*document.Sheet) {
	for _, s := range sheets {
		e.AddSheet(s)
	}
}

// ReplaceSheets swaps the whole document for a freshly loaded one, for
// example after the backing file changed on disk. History is cleared and
// the document is considered clean.
func (e *Engine) ReplaceSheets(sheets []*document.Sheet) {
	e.sheets = sheets
	e.history = newHistoryStack(e.history.limit)
	e.dirty = false
	e.logger.Debug("document replaced", "sheets", len(sheets))
}

// DeleteSheet removes a sheet and prunes every history entry that
// references it; the deletion itself is therefore not undoable.
func (e *Engine) DeleteSheet(sheetID string) {
	idx := -1
	for i, s := range e.sheets {
		if s.ID == sheetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.logger.Debug("delete sheet ignored, unknown id", "sheet_id", sheetID)
		return
	}
	e.sheets = append(e.sheets[:idx], e.sheets[idx+1:]...)
	e.history.pruneSheet(sheetID)
	e.dirty = true
	e.logger.Debug("sheet deleted", "sheet_id", sheetID)
}

// --- Cell commands ---

// UpdateCell applies raw user input to a cell. Input beginning with "="
// is stored as the cell's formula with its value set to the resolver's
// result; any other input clears the formula and is stored literally
// (coercion to the column type happens at display time only). Unknown
// ids are silently ignored and push no history.
func (e *Engine) UpdateCell(sheetID, rowID, columnID, rawInput string) {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		e.logger.Debug("update cell ignored, unknown sheet", "sheet_id", sheetID)
		return
	}
	row := sheet.Row(rowID)
	if row == nil {
		e.logger.Debug("update cell ignored, unknown row", "row_id", rowID)
		return
	}
	col := sheet.Column(columnID)
	if col == nil {
		e.logger.Debug("update cell ignored, unknown column", "column_id", columnID)
		return
	}
	cell := row.Cells[columnID]
	if cell == nil {
		cell = document.NewBlankCell(rowID, col)
		row.Cells[columnID] = cell
	}

	before := document.CloneCell(cell)

	// Copy-on-write: the live row gets a fresh cell so the snapshot in
	// history never shares state with it.
	next := document.CloneCell(cell)
	if formula.IsFormula(rawInput) {
		next.Formula = rawInput
		next.Value = formula.Evaluate(sheet, rawInput)
	} else {
		next.Formula = ""
		if rawInput == "" {
			next.Value = nil
		} else {
			next.Value = rawInput
		}
	}
	row.Cells[columnID] = next
	sheet.Touch()

	e.record(&historyEntry{
		Kind:       KindCell,
		Action:     ActionUpdate,
		SheetID:    sheetID,
		BeforeCell: before,
		AfterCell:  document.CloneCell(next),
	})
	e.logger.Debug("cell updated", "sheet_id", sheetID, "cell_id", next.ID)
}

// --- Row commands ---

// AddRow inserts a new row with blank cells at the end of the sheet, or
// immediately after the anchor row when afterRowID is given. Returns the
// new row, or nil when ids do not resolve.
func (e *Engine) AddRow(sheetID, afterRowID string) *document.Row {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return nil
	}
	pos := len(sheet.Rows)
	if afterRowID != "" {
		anchor := sheet.Row(afterRowID)
		if anchor == nil {
			e.logger.Debug("add row ignored, unknown anchor", "row_id", afterRowID)
			return nil
		}
		pos = anchor.Index + 1
	}

	row := document.NewRow(sheet.Columns)
	e.insertRow(sheet, row, pos)

	e.record(&historyEntry{
		Kind:     KindRow,
		Action:   ActionAdd,
		SheetID:  sheetID,
		AfterRow: document.CloneRow(row),
		RowIndex: pos,
	})
	e.logger.Debug("row added", "sheet_id", sheetID, "row_id", row.ID, "index", pos)
	return row
}

// DeleteRow removes a row, capturing it in full for exact restoration.
func (e *Engine) DeleteRow(sheetID, rowID string) {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return
	}
	row := sheet.Row(rowID)
	if row == nil {
		e.logger.Debug("delete row ignored, unknown id", "row_id", rowID)
		return
	}
	idx := row.Index
	snapshot := document.CloneRow(row)

	sheet.Rows = append(sheet.Rows[:idx], sheet.Rows[idx+1:]...)
	sheet.ReindexRows()
	sheet.Touch()

	e.record(&historyEntry{
		Kind:      KindRow,
		Action:    ActionDelete,
		SheetID:   sheetID,
		BeforeRow: snapshot,
		RowIndex:  idx,
	})
	e.logger.Debug("row deleted", "sheet_id", sheetID, "row_id", rowID, "index", idx)
}

// DuplicateRow inserts a deep copy of the row directly after its source,
// with a fresh row id and freshly derived cell ids.
func (e *Engine) DuplicateRow(sheetID, rowID string) *document.Row {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return nil
	}
	src := sheet.Row(rowID)
	if src == nil {
		e.logger.Debug("duplicate row ignored, unknown id", "row_id", rowID)
		return nil
	}

	dup := document.CloneRow(src)
	dup.ID = document.NewID()
	dup.Hidden = false
	cells := make(map[string]*document.Cell, len(dup.Cells))
	for colID, cell := range dup.Cells {
		cell.RowID = dup.ID
		cell.ID = document.CellID(dup.ID, colID)
		cells[colID] = cell
	}
	dup.Cells = cells

	pos := src.Index + 1
	e.insertRow(sheet, dup, pos)

	e.record(&historyEntry{
		Kind:     KindRow,
		Action:   ActionAdd,
		SheetID:  sheetID,
		AfterRow: document.CloneRow(dup),
		RowIndex: pos,
	})
	e.logger.Debug("row duplicated", "sheet_id", sheetID, "source_row_id", rowID, "row_id", dup.ID)
	return dup
}

// insertRow places a row at pos and restores the index invariant.
func (e *Engine) insertRow(sheet *document.Sheet, row *document.Row, pos int) {
	sheet.Rows = append(sheet.Rows, nil)
	copy(sheet.Rows[pos+1:], sheet.Rows[pos:])
	sheet.Rows[pos] = row
	sheet.ReindexRows()
	sheet.Touch()
}

// --- Column commands ---

// AddColumn inserts a new text column at the end of the sheet, or
// immediately after the anchor column when afterColumnID is given. The
// column is auto-named after its spreadsheet letter and every row
// receives a blank cell for it.
func (e *Engine) AddColumn(sheetID, afterColumnID string) *document.Column {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return nil
	}
	pos := len(sheet.Columns)
	if afterColumnID != "" {
		anchor := sheet.Column(afterColumnID)
		if anchor == nil {
			e.logger.Debug("add column ignored, unknown anchor", "column_id", afterColumnID)
			return nil
		}
		pos = anchor.Index + 1
	}

	col := document.NewColumn(document.ColumnLetter(pos), document.TypeText)
	e.insertColumn(sheet, col, pos)

	e.record(&historyEntry{
		Kind:        KindColumn,
		Action:      ActionAdd,
		SheetID:     sheetID,
		AfterColumn: document.CloneColumn(col),
		ColumnIndex: pos,
	})
	e.logger.Debug("column added", "sheet_id", sheetID, "column_id", col.ID, "index", pos)
	return col
}

// insertColumn places a column at pos, gives every row a blank cell for
// it, and restores the index invariant.
func (e *Engine) insertColumn(sheet *document.Sheet, col *document.Column, pos int) {
	sheet.Columns = append(sheet.Columns, nil)
	copy(sheet.Columns[pos+1:], sheet.Columns[pos:])
	sheet.Columns[pos] = col
	sheet.ReindexColumns()
	for _, row := range sheet.Rows {
		if _, ok := row.Cells[col.ID]; !ok {
			row.Cells[col.ID] = document.NewBlankCell(row.ID, col)
		}
	}
	sheet.Touch()
}

// DeleteColumn removes a column and its cell from every row, capturing
// everything needed for exact restoration.
func (e *Engine) DeleteColumn(sheetID, columnID string) {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return
	}
	col := sheet.Column(columnID)
	if col == nil {
		e.logger.Debug("delete column ignored, unknown id", "column_id", columnID)
		return
	}
	idx := col.Index
	snapshot := document.CloneColumn(col)
	removed := make(map[string]*document.Cell, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if cell, ok := row.Cells[columnID]; ok {
			removed[row.ID] = document.CloneCell(cell)
			delete(row.Cells, columnID)
		}
	}

	sheet.Columns = append(sheet.Columns[:idx], sheet.Columns[idx+1:]...)
	sheet.ReindexColumns()
	sheet.Touch()

	e.record(&historyEntry{
		Kind:         KindColumn,
		Action:       ActionDelete,
		SheetID:      sheetID,
		BeforeColumn: snapshot,
		ColumnIndex:  idx,
		RemovedCells: removed,
	})
	e.logger.Debug("column deleted", "sheet_id", sheetID, "column_id", columnID, "index", idx)
}

// ColumnPatch is a partial column update; nil fields are left untouched.
type ColumnPatch struct {
	Name       *string
	Type       *document.ColumnType
	Width      *int
	Frozen     *bool
	Hidden     *bool
	Options    *[]string
	Validation **document.Rule
}

// UpdateColumn merges a patch into the column without touching unrelated
// fields.
func (e *Engine) UpdateColumn(sheetID, columnID string, patch ColumnPatch) {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return
	}
	col := sheet.Column(columnID)
	if col == nil {
		e.logger.Debug("update column ignored, unknown id", "column_id", columnID)
		return
	}
	before := document.CloneColumn(col)

	if patch.Name != nil {
		col.Name = *patch.Name
	}
	if patch.Type != nil {
		col.Type = *patch.Type
	}
	if patch.Width != nil {
		col.Width = *patch.Width
	}
	if patch.Frozen != nil {
		col.Frozen = *patch.Frozen
	}
	if patch.Hidden != nil {
		col.Hidden = *patch.Hidden
	}
	if patch.Options != nil {
		col.Options = append([]string(nil), (*patch.Options)...)
	}
	if patch.Validation != nil {
		col.Validation = *patch.Validation
	}
	sheet.Touch()

	e.record(&historyEntry{
		Kind:         KindColumn,
		Action:       ActionUpdate,
		SheetID:      sheetID,
		BeforeColumn: before,
		AfterColumn:  document.CloneColumn(col),
		ColumnIndex:  col.Index,
	})
	e.logger.Debug("column updated", "sheet_id", sheetID, "column_id", columnID)
}

// --- Filtering (view-level, never recorded) ---

// FilterSheet stores filter configs on the sheet and recomputes row
// visibility. Not part of undo history.
func (e *Engine) FilterSheet(sheetID string, configs []document.FilterConfig) {
	filter.Apply(e.Sheet(sheetID), configs)
}

// ClearFilters removes the sheet's filters and unhides all rows.
func (e *Engine) ClearFilters(sheetID string) {
	filter.Clear(e.Sheet(sheetID))
}

// --- Undo / redo ---

// Undo reverts the most recent recorded command. At the bottom of the
// stack it is a no-op and returns false.
func (e *Engine) Undo() bool {
	entry := e.history.current()
	if entry == nil {
		return false
	}
	e.applyInverse(entry)
	e.history.undoStep()
	e.dirty = true
	e.logger.Debug("undo", "kind", entry.Kind, "action", entry.Action, "sheet_id", entry.SheetID)
	return true
}

// Redo re-applies the next undone command. At the tail it is a no-op and
// returns false.
func (e *Engine) Redo() bool {
	entry := e.history.next()
	if entry == nil {
		return false
	}
	e.applyForward(entry)
	e.history.redoStep()
	e.dirty = true
	e.logger.Debug("redo", "kind", entry.Kind, "action", entry.Action, "sheet_id", entry.SheetID)
	return true
}

// record appends a diff and marks the document dirty.
func (e *Engine) record(entry *historyEntry) {
	e.history.push(entry)
	e.dirty = true
}
