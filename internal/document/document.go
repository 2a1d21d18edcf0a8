// Package document defines the sheet entity graph: sheets, columns, rows
// and cells, plus the structural helpers the mutation engine relies on.
// Values are one of nil, string, float64, bool or time.Time.
package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
)

// ColumnType declares how a column's cells are interpreted and validated.
type ColumnType string

const (
	TypeText        ColumnType = "text"
	TypeNumber      ColumnType = "number"
	TypeBoolean     ColumnType = "boolean"
	TypeDate        ColumnType = "date"
	TypeFormula     ColumnType = "formula"
	TypeSelect      ColumnType = "select"
	TypeMultiSelect ColumnType = "multiselect"
)

// FilterOperator names a filter predicate.
type FilterOperator string

const (
	FilterEquals      FilterOperator = "equals"
	FilterContains    FilterOperator = "contains"
	FilterGreaterThan FilterOperator = "greaterThan"
	FilterLessThan    FilterOperator = "lessThan"
)

// FilterConfig is one predicate over a column. A sheet's active filter is
// the conjunction of all of its FilterConfigs.
type FilterConfig struct {
	ColumnID string         `json:"columnId"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}

// Rule is an optional per-cell constraint, independent of the type check.
type Rule struct {
	Required bool     `json:"required,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// Style carries presentational attributes round-tripped by the XLSX adapter.
// The engine never interprets it.
type Style struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	FontColor     string `json:"fontColor,omitempty"`
	FillColor     string `json:"fillColor,omitempty"`
	Align         string `json:"align,omitempty"`
	NumberFormat  string `json:"numberFormat,omitempty"`
}

// Column is a typed field definition shared by every row in a sheet.
type Column struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	Width      int        `json:"width"`
	Index      int        `json:"index"`
	Frozen     bool       `json:"frozen,omitempty"`
	Hidden     bool       `json:"hidden,omitempty"`
	Validation *Rule      `json:"validation,omitempty"`
	Options    []string   `json:"options,omitempty"`
}

// Cell is the value at a row-column intersection. Its ID is always
// derivable as "{rowId}:{columnId}".
type Cell struct {
	ID         string     `json:"id"`
	RowID      string     `json:"rowId"`
	ColumnID   string     `json:"columnId"`
	Value      any        `json:"value"`
	Type       ColumnType `json:"type"`
	Formula    string     `json:"formula,omitempty"`
	Style      *Style     `json:"style,omitempty"`
	Validation *Rule      `json:"validation,omitempty"`
}

// Row is one record, holding exactly one cell per column.
// Hidden is derived by the filter engine and is never durable truth.
type Row struct {
	ID     string           `json:"id"`
	Index  int              `json:"index"`
	Cells  map[string]*Cell `json:"cells"`
	Height int              `json:"height,omitempty"`
	Hidden bool             `json:"hidden,omitempty"`
}

// Sheet is one named table of columns and rows. It owns its columns and
// rows exclusively; Filters is present only while a filter is active.
type Sheet struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Columns   []*Column      `json:"columns"`
	Rows      []*Row         `json:"rows"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Filters   []FilterConfig `json:"filters,omitempty"`
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.New().String()
}

// CellID derives a cell's identity from its row and column ids.
func CellID(rowID, columnID string) string {
	return fmt.Sprintf("%s:%s", rowID, columnID)
}

// NewSheet creates an empty sheet with the given name.
func NewSheet(name string) *Sheet {
	now := time.Now().UTC()
	return &Sheet{
		ID:        NewID(),
		Name:      name,
		Columns:   []*Column{},
		Rows:      []*Row{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewColumn creates a column definition. Index is assigned on insertion.
func NewColumn(name string, typ ColumnType) *Column {
	return &Column{
		ID:    NewID(),
		Name:  name,
		Type:  typ,
		Width: DefaultColumnWidth,
	}
}

// DefaultColumnWidth is the initial width of a freshly created column.
const DefaultColumnWidth = 120

// NewBlankCell creates an empty cell for the given row/column pair,
// typed after the owning column.
func NewBlankCell(rowID string, col *Column) *Cell {
	return &Cell{
		ID:       CellID(rowID, col.ID),
		RowID:    rowID,
		ColumnID: col.ID,
		Value:    nil,
		Type:     col.Type,
	}
}

// NewRow creates a row with one blank cell per column.
// Index is assigned on insertion.
func NewRow(columns []*Column) *Row {
	id := NewID()
	cells := make(map[string]*Cell, len(columns))
	for _, col := range columns {
		cells[col.ID] = NewBlankCell(id, col)
	}
	return &Row{ID: id, Cells: cells}
}

// Column returns the column with the given id, or nil.
func (s *Sheet) Column(columnID string) *Column {
	for _, c := range s.Columns {
		if c.ID == columnID {
			return c
		}
	}
	return nil
}

// ColumnAt returns the column at the given position, or nil when out of range.
func (s *Sheet) ColumnAt(index int) *Column {
	if index < 0 || index >= len(s.Columns) {
		return nil
	}
	return s.Columns[index]
}

// Row returns the row with the given id, or nil.
func (s *Sheet) Row(rowID string) *Row {
	for _, r := range s.Rows {
		if r.ID == rowID {
			return r
		}
	}
	return nil
}

// RowAt returns the row at the given position, or nil when out of range.
func (s *Sheet) RowAt(index int) *Row {
	if index < 0 || index >= len(s.Rows) {
		return nil
	}
	return s.Rows[index]
}

// Cell returns the cell addressed by row and column ids, or nil.
func (s *Sheet) Cell(rowID, columnID string) *Cell {
	row := s.Row(rowID)
	if row == nil {
		return nil
	}
	return row.Cells[columnID]
}

// ReindexColumns restores the dense 0..n-1 Index invariant after a
// structural mutation.
func (s *Sheet) ReindexColumns() {
	for i, c := range s.Columns {
		c.Index = i
	}
}

// ReindexRows restores the dense 0..n-1 Index invariant after a
// structural mutation.
func (s *Sheet) ReindexRows() {
	for i, r := range s.Rows {
		r.Index = i
	}
}

// Touch updates the modification timestamp.
func (s *Sheet) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy of the sheet. Snapshots handed to the history
// stack or to export adapters must never share cells with the live sheet.
func (s *Sheet) Clone() *Sheet {
	var out Sheet
	if err := deepcopy.Copy(&out, s); err != nil {
		// The sheet graph contains only plain data; a copy failure here
		// means the model itself is broken.
		panic(fmt.Sprintf("document: clone sheet %s: %v", s.ID, err))
	}
	return &out
}

// CloneRow returns a deep copy of a row.
func CloneRow(r *Row) *Row {
	var out Row
	if err := deepcopy.Copy(&out, r); err != nil {
		panic(fmt.Sprintf("document: clone row %s: %v", r.ID, err))
	}
	return &out
}

// CloneColumn returns a deep copy of a column definition.
func CloneColumn(c *Column) *Column {
	var out Column
	if err := deepcopy.Copy(&out, c); err != nil {
		panic(fmt.Sprintf("document: clone column %s: %v", c.ID, err))
	}
	return &out
}

// CloneCell returns a deep copy of a cell.
func CloneCell(c *Cell) *Cell {
	var out Cell
	if err := deepcopy.Copy(&out, c); err != nil {
		panic(fmt.Sprintf("document: clone cell %s: %v", c.ID, err))
	}
	return &out
}
