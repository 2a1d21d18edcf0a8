package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge-labs/gridforge/internal/document"
)

func floatPtr(f float64) *float64 { return &f }

func TestValueTypeEmptyAlwaysValid(t *testing.T) {
	for _, typ := range []document.ColumnType{
		document.TypeText, document.TypeNumber, document.TypeBoolean,
		document.TypeDate, document.TypeSelect, document.TypeMultiSelect,
	} {
		assert.True(t, ValueType(nil, typ, nil).Valid, string(typ))
		assert.True(t, ValueType("", typ, nil).Valid, string(typ))
		assert.True(t, ValueType("   ", typ, nil).Valid, string(typ))
	}
}

func TestValueTypeNumber(t *testing.T) {
	assert.True(t, ValueType(42.0, document.TypeNumber, nil).Valid)
	assert.True(t, ValueType("3.14", document.TypeNumber, nil).Valid)
	assert.True(t, ValueType(" -7 ", document.TypeNumber, nil).Valid)

	r := ValueType("banana", document.TypeNumber, nil)
	require.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, `"banana" is not a number`, r.Errors[0].Message)
	assert.Equal(t, SeverityError, r.Errors[0].Severity)
}

func TestValueTypeBoolean(t *testing.T) {
	assert.True(t, ValueType(true, document.TypeBoolean, nil).Valid)
	for _, s := range []string{"true", "FALSE", "1", "0", "yes", "No", "y"} {
		assert.True(t, ValueType(s, document.TypeBoolean, nil).Valid, s)
	}
	assert.False(t, ValueType("maybe", document.TypeBoolean, nil).Valid)
}

func TestValueTypeDate(t *testing.T) {
	assert.True(t, ValueType(time.Now(), document.TypeDate, nil).Valid)
	assert.True(t, ValueType("2025-03-14", document.TypeDate, nil).Valid)
	assert.False(t, ValueType("not a date", document.TypeDate, nil).Valid)
}

func TestValueTypeSelect(t *testing.T) {
	options := []string{"Common", "Rare", "Epic"}

	assert.True(t, ValueType("Rare", document.TypeSelect, options).Valid)
	// Whitespace around the value is tolerated, casing is not.
	assert.True(t, ValueType(" Rare ", document.TypeSelect, options).Valid)
	r := ValueType("rare", document.TypeSelect, options)
	require.False(t, r.Valid)
	assert.Equal(t, `"rare" is not one of the allowed options [Common, Rare, Epic]`, r.Errors[0].Message)

	// No declared options means anything goes.
	assert.True(t, ValueType("whatever", document.TypeSelect, nil).Valid)
}

func TestValueTypeMultiSelect(t *testing.T) {
	options := []string{"fire", "ice", "poison"}

	assert.True(t, ValueType("fire, ice", document.TypeMultiSelect, options).Valid)
	// Empty segments are skipped.
	assert.True(t, ValueType("fire,, ice,", document.TypeMultiSelect, options).Valid)

	r := ValueType("fire, lava, acid", document.TypeMultiSelect, options)
	require.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, `values [lava, acid] are not among the allowed options [fire, ice, poison]`, r.Errors[0].Message)
}

func TestRule(t *testing.T) {
	assert.True(t, Rule("anything", nil).Valid)

	required := &document.Rule{Required: true}
	assert.False(t, Rule(nil, required).Valid)
	assert.False(t, Rule("  ", required).Valid)
	assert.True(t, Rule("x", required).Valid)

	ranged := &document.Rule{Min: floatPtr(1), Max: floatPtr(10)}
	assert.True(t, Rule(5.0, ranged).Valid)
	assert.True(t, Rule("10", ranged).Valid)
	// Empty values skip range checks entirely.
	assert.True(t, Rule(nil, ranged).Valid)

	r := Rule(0.0, ranged)
	require.False(t, r.Valid)
	assert.Equal(t, "0 is below the minimum 1", r.Errors[0].Message)

	r = Rule(11.0, ranged)
	require.False(t, r.Valid)
	assert.Equal(t, "11 is above the maximum 10", r.Errors[0].Message)

	r = Rule("abc", ranged)
	require.False(t, r.Valid)
	assert.Equal(t, `"abc" is not numeric, cannot check range`, r.Errors[0].Message)
}

func TestCellStampsIdentity(t *testing.T) {
	col := document.NewColumn("HP", document.TypeNumber)
	col.Validation = &document.Rule{Min: floatPtr(1)}
	row := document.NewRow([]*document.Column{col})
	cell := row.Cells[col.ID]
	cell.Value = "zero"

	r := Cell(cell, col)
	require.False(t, r.Valid)
	// Type failure plus range failure on a non-numeric value.
	require.Len(t, r.Errors, 2)
	for _, issue := range r.Errors {
		assert.Equal(t, row.ID, issue.RowID)
		assert.Equal(t, col.ID, issue.ColumnID)
	}
}

func TestCellAppliesCellLevelRule(t *testing.T) {
	col := document.NewColumn("Name", document.TypeText)
	row := document.NewRow([]*document.Column{col})
	cell := row.Cells[col.ID]
	cell.Validation = &document.Rule{Required: true}

	r := Cell(cell, col)
	require.False(t, r.Valid)
	assert.Equal(t, "value is required", r.Errors[0].Message)
}

func TestSheetMergesAllRows(t *testing.T) {
	sheet := document.NewSheet("enemies")
	name := document.NewColumn("Name", document.TypeText)
	name.Validation = &document.Rule{Required: true}
	hp := document.NewColumn("HP", document.TypeNumber)
	sheet.Columns = []*document.Column{name, hp}
	sheet.ReindexColumns()

	good := document.NewRow(sheet.Columns)
	good.Cells[name.ID].Value = "Slime"
	good.Cells[hp.ID].Value = 10.0

	bad := document.NewRow(sheet.Columns)
	bad.Cells[hp.ID].Value = "lots"

	sheet.Rows = []*document.Row{good, bad}
	sheet.ReindexRows()

	r := Sheet(sheet)
	require.False(t, r.Valid)
	// Missing required name plus non-numeric HP.
	assert.Len(t, r.Errors, 2)
	assert.Empty(t, r.Warnings)

	assert.True(t, Sheet(nil).Valid)
}

func TestMerge(t *testing.T) {
	r := Result{Valid: true}
	r.Merge(Result{Valid: true, Warnings: []Issue{{Message: "w", Severity: SeverityWarning}}})
	assert.True(t, r.Valid)
	r.Merge(Result{Valid: false, Errors: []Issue{{Message: "e", Severity: SeverityError}}})
	assert.False(t, r.Valid)
	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Warnings, 1)
}
