package engine

import "github.com/gridforge-labs/gridforge/internal/document"

// EntityKind says what kind of entity a history entry touched.
type EntityKind string

const (
	KindCell   EntityKind = "cell"
	KindRow    EntityKind = "row"
	KindColumn EntityKind = "column"
	KindSheet  EntityKind = "sheet"
)

// Action says what happened to the entity.
type Action string

const (
	ActionUpdate Action = "update"
	ActionAdd    Action = "add"
	ActionDelete Action = "delete"
)

// historyEntry is one reversible diff. Before/After hold deep-copied
// entity snapshots (nil for the missing side of an add or delete) plus
// enough placement context to restore structure exactly.
type historyEntry struct {
	Kind    EntityKind
	Action  Action
	SheetID string

	// Cell diffs.
	BeforeCell *document.Cell
	AfterCell  *document.Cell

	// Row diffs. RowIndex is the row's position at the time of the action.
	BeforeRow *document.Row
	AfterRow  *document.Row
	RowIndex  int

	// Column diffs. ColumnIndex is the column's position at the time of
	// the action; RemovedCells holds the per-row cells a column delete
	// took with it, keyed by row id.
	BeforeColumn *document.Column
	AfterColumn  *document.Column
	ColumnIndex  int
	RemovedCells map[string]*document.Cell

	// Sheet diffs (atomic import handoff).
	AfterSheet *document.Sheet
	SheetIndex int
}

// DefaultHistoryLimit bounds the undo stack when the engine config does
// not override it.
const DefaultHistoryLimit = 100

// historyStack is a linear, non-branching undo stack with a cursor. The
// cursor sits on the most recently applied entry; -1 means nothing to
// undo.
type historyStack struct {
	entries []*historyEntry
	cursor  int
	limit   int
}

func newHistoryStack(limit int) *historyStack {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &historyStack{cursor: -1, limit: limit}
}

// push appends an entry, discarding any redoable future first and
// evicting the oldest entry when the stack is full so relative
// undo/redo depth from the current point is preserved.
func (h *historyStack) push(e *historyEntry) {
	// Standard linear-undo branch truncation.
	if h.cursor < len(h.entries)-1 {
		h.entries = h.entries[:h.cursor+1]
	}
	h.entries = append(h.entries, e)
	if len(h.entries) > h.limit {
		h.entries = h.entries[1:]
	}
	h.cursor = len(h.entries) - 1
}

// current returns the entry at the cursor, or nil at the bottom.
func (h *historyStack) current() *historyEntry {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return nil
	}
	return h.entries[h.cursor]
}

// next returns the entry just past the cursor, or nil at the tail.
func (h *historyStack) next() *historyEntry {
	if h.cursor+1 >= len(h.entries) {
		return nil
	}
	return h.entries[h.cursor+1]
}

func (h *historyStack) undoStep() { h.cursor-- }
func (h *historyStack) redoStep() { h.cursor++ }

// depth is how many entries can currently be undone.
func (h *historyStack) depth() int { return h.cursor + 1 }

// redoable is how many entries can currently be redone.
func (h *historyStack) redoable() int { return len(h.entries) - 1 - h.cursor }

// pruneSheet drops every entry referencing the given sheet, keeping the
// cursor on the same logical position among the survivors.
func (h *historyStack) pruneSheet(sheetID string) {
	kept := h.entries[:0]
	cursor := h.cursor
	for i, e := range h.entries {
		if e.SheetID == sheetID {
			if i <= h.cursor {
				cursor--
			}
			continue
		}
		kept = append(kept, e)
	}
	h.entries = kept
	h.cursor = cursor
}
