package engine

import "github.com/gridforge-labs/gridforge/internal/document"

// applyForward re-applies a history entry (redo direction).
func (e *Engine) applyForward(entry *historyEntry) {
	switch entry.Kind {
	case KindCell:
		e.restoreCell(entry.SheetID, entry.AfterCell)
	case KindRow:
		switch entry.Action {
		case ActionAdd:
			e.restoreRow(entry.SheetID, entry.AfterRow, entry.RowIndex)
		case ActionDelete:
			e.removeRow(entry.SheetID, entry.BeforeRow.ID)
		}
	case KindColumn:
		switch entry.Action {
		case ActionAdd:
			e.restoreColumn(entry.SheetID, entry.AfterColumn, entry.ColumnIndex, nil)
		case ActionDelete:
			e.removeColumn(entry.SheetID, entry.BeforeColumn.ID)
		case ActionUpdate:
			e.replaceColumn(entry.SheetID, entry.AfterColumn)
		}
	case KindSheet:
		if entry.Action == ActionAdd {
			e.restoreSheet(entry.AfterSheet, entry.SheetIndex)
		}
	}
}

// applyInverse reverts a history entry (undo direction).
func (e *Engine) applyInverse(entry *historyEntry) {
	switch entry.Kind {
	case KindCell:
		e.restoreCell(entry.SheetID, entry.BeforeCell)
	case KindRow:
		switch entry.Action {
		case ActionAdd:
			e.removeRow(entry.SheetID, entry.AfterRow.ID)
		case ActionDelete:
			e.restoreRow(entry.SheetID, entry.BeforeRow, entry.RowIndex)
		}
	case KindColumn:
		switch entry.Action {
		case ActionAdd:
			e.removeColumn(entry.SheetID, entry.AfterColumn.ID)
		case ActionDelete:
			e.restoreColumn(entry.SheetID, entry.BeforeColumn, entry.ColumnIndex, entry.RemovedCells)
		case ActionUpdate:
			e.replaceColumn(entry.SheetID, entry.BeforeColumn)
		}
	case KindSheet:
		if entry.Action == ActionAdd {
			e.removeSheet(entry.SheetID)
		}
	}
}

// restoreCell puts a snapshot back into its row. Stale references are
// tolerated silently, matching the engine's no-op policy.
func (e *Engine) restoreCell(sheetID string, snapshot *document.Cell) {
	sheet := e.Sheet(sheetID)
	if sheet == nil || snapshot == nil {
		return
	}
	row := sheet.Row(snapshot.RowID)
	if row == nil {
		return
	}
	row.Cells[snapshot.ColumnID] = document.CloneCell(snapshot)
	sheet.Touch()
}

func (e *Engine) restoreRow(sheetID string, snapshot *document.Row, index int) {
	sheet := e.Sheet(sheetID)
	if sheet == nil || snapshot == nil {
		return
	}
	row := document.CloneRow(snapshot)
	if index > len(sheet.Rows) {
		index = len(sheet.Rows)
	}
	e.insertRow(sheet, row, index)
}

func (e *Engine) removeRow(sheetID, rowID string) {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return
	}
	row := sheet.Row(rowID)
	if row == nil {
		return
	}
	sheet.Rows = append(sheet.Rows[:row.Index], sheet.Rows[row.Index+1:]...)
	sheet.ReindexRows()
	sheet.Touch()
}

// restoreColumn re-inserts a column snapshot. When cells is non-nil the
// captured per-row cells are restored; otherwise rows get blank cells.
func (e *Engine) restoreColumn(sheetID string, snapshot *document.Column, index int, cells map[string]*document.Cell) {
	sheet := e.Sheet(sheetID)
	if sheet == nil || snapshot == nil {
		return
	}
	col := document.CloneColumn(snapshot)
	if index > len(sheet.Columns) {
		index = len(sheet.Columns)
	}
	e.insertColumn(sheet, col, index)
	for rowID, cell := range cells {
		if row := sheet.Row(rowID); row != nil {
			row.Cells[col.ID] = document.CloneCell(cell)
		}
	}
}

func (e *Engine) removeColumn(sheetID, columnID string) {
	sheet := e.Sheet(sheetID)
	if sheet == nil {
		return
	}
	col := sheet.Column(columnID)
	if col == nil {
		return
	}
	for _, row := range sheet.Rows {
		delete(row.Cells, columnID)
	}
	sheet.Columns = append(sheet.Columns[:col.Index], sheet.Columns[col.Index+1:]...)
	sheet.ReindexColumns()
	sheet.Touch()
}

func (e *Engine) replaceColumn(sheetID string, snapshot *document.Column) {
	sheet := e.Sheet(sheetID)
	if sheet == nil || snapshot == nil {
		return
	}
	for i, c := range sheet.Columns {
		if c.ID == snapshot.ID {
			restored := document.CloneColumn(snapshot)
			restored.Index = i
			sheet.Columns[i] = restored
			sheet.Touch()
			return
		}
	}
}

func (e *Engine) restoreSheet(snapshot *document.Sheet, index int) {
	if snapshot == nil || e.Sheet(snapshot.ID) != nil {
		return
	}
	sheet := snapshot.Clone()
	if index > len(e.sheets) {
		index = len(e.sheets)
	}
	e.sheets = append(e.sheets, nil)
	copy(e.sheets[index+1:], e.sheets[index:])
	e.sheets[index] = sheet
}

func (e *Engine) removeSheet(sheetID string) {
	for i, s := range e.sheets {
		if s.ID == sheetID {
			e.sheets = append(e.sheets[:i], e.sheets[i+1:]...)
			return
		}
	}
}
