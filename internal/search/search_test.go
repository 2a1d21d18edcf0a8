package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge-labs/gridforge/internal/document"
)

func lootSheet() *document.Sheet {
	sheet := document.NewSheet("loot")
	name := document.NewColumn("Name", document.TypeText)
	value := document.NewColumn("Value", document.TypeNumber)
	sheet.Columns = []*document.Column{name, value}
	sheet.ReindexColumns()

	for _, rec := range []struct {
		name  string
		value any
	}{
		{"Iron Sword", 50.0},
		{"Iron Shield", 40.0},
		{"Mithril Dagger", 120.0},
	} {
		row := document.NewRow(sheet.Columns)
		row.Cells[name.ID].Value = rec.name
		row.Cells[value.ID].Value = rec.value
		sheet.Rows = append(sheet.Rows, row)
	}
	sheet.ReindexRows()
	return sheet
}

func TestInSheetLiteral(t *testing.T) {
	sheet := lootSheet()

	matches := InSheet(sheet, "iron", Options{})
	require.Len(t, matches, 2)
	assert.Equal(t, "Iron Sword", matches[0].Value)
	assert.Equal(t, "Name", matches[0].ColumnName)
	assert.Equal(t, 0, matches[0].RowIndex)
	assert.Equal(t, sheet.Name, matches[0].SheetName)

	// Case-sensitive search misses the lowercase query.
	assert.Empty(t, InSheet(sheet, "iron", Options{MatchCase: true}))
	assert.Len(t, InSheet(sheet, "Iron", Options{MatchCase: true}), 2)
}

func TestInSheetWholeCell(t *testing.T) {
	sheet := lootSheet()
	assert.Empty(t, InSheet(sheet, "Iron", Options{MatchWholeCell: true}))
	assert.Len(t, InSheet(sheet, "Iron Sword", Options{MatchWholeCell: true}), 1)
}

func TestInSheetNumericValues(t *testing.T) {
	sheet := lootSheet()
	// Values are matched against their display text.
	matches := InSheet(sheet, "120", Options{})
	require.Len(t, matches, 1)
	assert.Equal(t, "Mithril Dagger", document.FormatValue(sheet.Rows[2].Cells[sheet.Columns[0].ID].Value))
	assert.Equal(t, "120", matches[0].Value)
}

func TestInSheetRegex(t *testing.T) {
	sheet := lootSheet()

	matches := InSheet(sheet, "^Iron S(word|hield)$", Options{UseRegex: true})
	assert.Len(t, matches, 2)

	// Literal mode escapes regex metacharacters.
	assert.Empty(t, InSheet(sheet, "Iron S(word|hield)", Options{}))

	// An invalid pattern degrades to a literal search rather than erroring.
	row := document.NewRow(sheet.Columns)
	row.Cells[sheet.Columns[0].ID].Value = "broken(paren"
	sheet.Rows = append(sheet.Rows, row)
	sheet.ReindexRows()
	matches = InSheet(sheet, "broken(paren", Options{UseRegex: true})
	require.Len(t, matches, 1)
	assert.Equal(t, "broken(paren", matches[0].Value)
}

func TestInSheetFormulas(t *testing.T) {
	sheet := lootSheet()
	cell := sheet.Rows[0].Cells[sheet.Columns[1].ID]
	cell.Formula = "=B2+10"

	// Formula source is only scanned when asked.
	assert.Empty(t, InSheet(sheet, "B2", Options{}))

	matches := InSheet(sheet, "B2", Options{SearchFormulas: true})
	require.Len(t, matches, 1)
	assert.True(t, matches[0].InFormula)
	assert.Equal(t, "=B2+10", matches[0].Value)

	// A cell whose value already matched contributes only the value match.
	cell.Value = "B2 result"
	matches = InSheet(sheet, "B2", Options{SearchFormulas: true})
	require.Len(t, matches, 1)
	assert.False(t, matches[0].InFormula)
}

func TestInSheets(t *testing.T) {
	a := lootSheet()
	b := lootSheet()
	b.Name = "armory"

	matches := InSheets([]*document.Sheet{a, b}, "Mithril", Options{})
	require.Len(t, matches, 2)
	assert.Equal(t, "loot", matches[0].SheetName)
	assert.Equal(t, "armory", matches[1].SheetName)

	assert.Empty(t, InSheets(nil, "Mithril", Options{}))
	assert.Empty(t, InSheet(a, "", Options{}))
}

func TestReplaceInCellText(t *testing.T) {
	col := document.NewColumn("Name", document.TypeText)
	row := document.NewRow([]*document.Column{col})
	cell := row.Cells[col.ID]
	cell.Value = "Iron Sword"

	got := ReplaceInCell(cell, "Iron", "Steel", Options{})
	assert.Equal(t, "Steel Sword", got)
	// The cell itself is never mutated.
	assert.Equal(t, "Iron Sword", cell.Value)
}

func TestReplaceInCellCoercesNumber(t *testing.T) {
	col := document.NewColumn("Value", document.TypeNumber)
	row := document.NewRow([]*document.Column{col})
	cell := row.Cells[col.ID]
	cell.Value = 50.0

	got := ReplaceInCell(cell, "50", "75", Options{})
	assert.Equal(t, 75.0, got)

	// A replacement that stops parsing stays a string.
	got = ReplaceInCell(cell, "50", "lots", Options{})
	assert.Equal(t, "lots", got)
}

func TestReplaceInCellCoercesBoolean(t *testing.T) {
	col := document.NewColumn("Stackable", document.TypeBoolean)
	row := document.NewRow([]*document.Column{col})
	cell := row.Cells[col.ID]
	cell.Value = false

	got := ReplaceInCell(cell, "false", "TRUE", Options{})
	assert.Equal(t, true, got)
}

func TestReplaceDollarIsLiteralOutsideRegex(t *testing.T) {
	col := document.NewColumn("Name", document.TypeText)
	row := document.NewRow([]*document.Column{col})
	cell := row.Cells[col.ID]
	cell.Value = "price: 10"

	got := ReplaceInCell(cell, "10", "$15", Options{})
	assert.Equal(t, "price: $15", got)
}

func TestReplaceInText(t *testing.T) {
	assert.Equal(t, "=C1+C2", ReplaceInText("=B1+B2", "B", "C", Options{}))
	// Regex group references work in regex mode.
	assert.Equal(t, "=B1+B2!", ReplaceInText("=B1+B2", `(B\d)$`, "$1!", Options{UseRegex: true}))
}

func TestCountMatches(t *testing.T) {
	assert.Equal(t, 2, CountMatches("abcabc", "abc", Options{}))
	assert.Equal(t, 2, CountMatches("ABCabc", "abc", Options{}))
	assert.Equal(t, 1, CountMatches("ABCabc", "abc", Options{MatchCase: true}))
	assert.Equal(t, 0, CountMatches("", "abc", Options{}))
	assert.Equal(t, 0, CountMatches("abc", "", Options{}))
}
