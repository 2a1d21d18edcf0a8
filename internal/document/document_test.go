package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRowHasBlankCellPerColumn(t *testing.T) {
	cols := []*Column{
		NewColumn("Name", TypeText),
		NewColumn("HP", TypeNumber),
	}
	row := NewRow(cols)

	require.Len(t, row.Cells, 2)
	for _, col := range cols {
		cell := row.Cells[col.ID]
		require.NotNil(t, cell)
		assert.Equal(t, CellID(row.ID, col.ID), cell.ID)
		assert.Equal(t, row.ID, cell.RowID)
		assert.Equal(t, col.Type, cell.Type)
		assert.Nil(t, cell.Value)
	}
}

func TestReindexAfterRemoval(t *testing.T) {
	sheet := NewSheet("test")
	for _, name := range []string{"A", "B", "C"} {
		col := NewColumn(name, TypeText)
		sheet.Columns = append(sheet.Columns, col)
	}
	sheet.ReindexColumns()
	for i := 0; i < 3; i++ {
		sheet.Rows = append(sheet.Rows, NewRow(sheet.Columns))
	}
	sheet.ReindexRows()

	sheet.Rows = append(sheet.Rows[:1], sheet.Rows[2:]...)
	sheet.ReindexRows()
	for i, r := range sheet.Rows {
		assert.Equal(t, i, r.Index)
	}

	sheet.Columns = sheet.Columns[1:]
	sheet.ReindexColumns()
	for i, c := range sheet.Columns {
		assert.Equal(t, i, c.Index)
	}
}

func TestCloneIsDeep(t *testing.T) {
	sheet := NewSheet("orig")
	col := NewColumn("Name", TypeText)
	sheet.Columns = append(sheet.Columns, col)
	sheet.ReindexColumns()
	row := NewRow(sheet.Columns)
	row.Cells[col.ID].Value = "before"
	sheet.Rows = append(sheet.Rows, row)
	sheet.ReindexRows()

	clone := sheet.Clone()
	require.Equal(t, "before", clone.Rows[0].Cells[col.ID].Value)

	// Mutating the original must not leak into the clone.
	row.Cells[col.ID].Value = "after"
	assert.Equal(t, "before", clone.Rows[0].Cells[col.ID].Value)

	clone.Rows[0].Cells[col.ID].Value = "clone-edit"
	assert.Equal(t, "after", row.Cells[col.ID].Value)
}

func TestSheetLookups(t *testing.T) {
	sheet := NewSheet("s")
	col := NewColumn("A", TypeText)
	sheet.Columns = append(sheet.Columns, col)
	sheet.ReindexColumns()
	row := NewRow(sheet.Columns)
	sheet.Rows = append(sheet.Rows, row)
	sheet.ReindexRows()

	assert.Same(t, col, sheet.Column(col.ID))
	assert.Nil(t, sheet.Column("missing"))
	assert.Same(t, col, sheet.ColumnAt(0))
	assert.Nil(t, sheet.ColumnAt(1))
	assert.Same(t, row, sheet.Row(row.ID))
	assert.Nil(t, sheet.Row("missing"))
	assert.Same(t, row, sheet.RowAt(0))
	assert.Nil(t, sheet.RowAt(-1))
	assert.NotNil(t, sheet.Cell(row.ID, col.ID))
	assert.Nil(t, sheet.Cell("missing", col.ID))
}

func TestColumnLetters(t *testing.T) {
	tests := []struct {
		index  int
		letter string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.letter, ColumnLetter(tt.index), "index %d", tt.index)
		assert.Equal(t, tt.index, LetterToIndex(tt.letter), "letter %s", tt.letter)
	}

	assert.Equal(t, -1, LetterToIndex(""))
	assert.Equal(t, -1, LetterToIndex("A1"))
}
