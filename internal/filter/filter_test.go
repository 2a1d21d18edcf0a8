package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge-labs/gridforge/internal/document"
)

func itemsSheet() *document.Sheet {
	sheet := document.NewSheet("items")
	name := document.NewColumn("Name", document.TypeText)
	value := document.NewColumn("Value", document.TypeNumber)
	stack := document.NewColumn("Stackable", document.TypeBoolean)
	sheet.Columns = []*document.Column{name, value, stack}
	sheet.ReindexColumns()

	for _, rec := range []struct {
		name  string
		value any
		stack any
	}{
		{"Iron Sword", 50.0, false},
		{"Health Potion", 25.0, true},
		{"Wooden Shield", "30", false},
	} {
		row := document.NewRow(sheet.Columns)
		row.Cells[name.ID].Value = rec.name
		row.Cells[value.ID].Value = rec.value
		row.Cells[stack.ID].Value = rec.stack
		sheet.Rows = append(sheet.Rows, row)
	}
	sheet.ReindexRows()
	return sheet
}

func hiddenNames(sheet *document.Sheet) []string {
	var names []string
	nameCol := sheet.Columns[0]
	for _, row := range sheet.Rows {
		if row.Hidden {
			names = append(names, document.FormatValue(row.Cells[nameCol.ID].Value))
		}
	}
	return names
}

func TestApplyContains(t *testing.T) {
	sheet := itemsSheet()
	Apply(sheet, []document.FilterConfig{{
		ColumnID: sheet.Columns[0].ID,
		Operator: document.FilterContains,
		Value:    "SWORD",
	}})
	// Contains is case-insensitive.
	assert.Equal(t, []string{"Health Potion", "Wooden Shield"}, hiddenNames(sheet))
	assert.Len(t, sheet.Filters, 1)
}

func TestApplyEqualsNumericCrossType(t *testing.T) {
	sheet := itemsSheet()
	// "30" stored as a string still equals the number 30.
	Apply(sheet, []document.FilterConfig{{
		ColumnID: sheet.Columns[1].ID,
		Operator: document.FilterEquals,
		Value:    30.0,
	}})
	assert.Equal(t, []string{"Iron Sword", "Health Potion"}, hiddenNames(sheet))
}

func TestApplyGreaterLessThan(t *testing.T) {
	sheet := itemsSheet()
	valueCol := sheet.Columns[1]

	Apply(sheet, []document.FilterConfig{{
		ColumnID: valueCol.ID, Operator: document.FilterGreaterThan, Value: "29",
	}})
	assert.Equal(t, []string{"Health Potion"}, hiddenNames(sheet))

	Apply(sheet, []document.FilterConfig{{
		ColumnID: valueCol.ID, Operator: document.FilterLessThan, Value: 30.0,
	}})
	assert.Equal(t, []string{"Iron Sword", "Wooden Shield"}, hiddenNames(sheet))
}

func TestApplyConjunction(t *testing.T) {
	sheet := itemsSheet()
	Apply(sheet, []document.FilterConfig{
		{ColumnID: sheet.Columns[1].ID, Operator: document.FilterGreaterThan, Value: 20.0},
		{ColumnID: sheet.Columns[0].ID, Operator: document.FilterContains, Value: "e"},
	})
	// All three pass the value filter; only Iron Sword has no "e".
	assert.Equal(t, []string{"Iron Sword"}, hiddenNames(sheet))
}

func TestApplyEmptyConfigsClears(t *testing.T) {
	sheet := itemsSheet()
	Apply(sheet, []document.FilterConfig{{
		ColumnID: sheet.Columns[0].ID, Operator: document.FilterContains, Value: "Sword",
	}})
	require.NotEmpty(t, hiddenNames(sheet))

	Apply(sheet, nil)
	assert.Empty(t, hiddenNames(sheet))
	assert.Nil(t, sheet.Filters)
}

func TestClear(t *testing.T) {
	sheet := itemsSheet()
	Apply(sheet, []document.FilterConfig{{
		ColumnID: sheet.Columns[2].ID, Operator: document.FilterEquals, Value: true,
	}})
	require.Equal(t, []string{"Iron Sword", "Wooden Shield"}, hiddenNames(sheet))

	Clear(sheet)
	assert.Empty(t, hiddenNames(sheet))
	assert.Nil(t, sheet.Filters)

	Clear(nil) // must not panic
}

func TestMissingCellNeverMatches(t *testing.T) {
	sheet := itemsSheet()
	Apply(sheet, []document.FilterConfig{{
		ColumnID: "no-such-column", Operator: document.FilterEquals, Value: "x",
	}})
	assert.Len(t, hiddenNames(sheet), 3)
}

func TestParseExpr(t *testing.T) {
	sheet := itemsSheet()

	cfg, err := ParseExpr(sheet, "Value>20")
	require.NoError(t, err)
	assert.Equal(t, sheet.Columns[1].ID, cfg.ColumnID)
	assert.Equal(t, document.FilterGreaterThan, cfg.Operator)
	assert.Equal(t, "20", cfg.Value)

	// Column names match case-insensitively, values keep their spelling.
	cfg, err = ParseExpr(sheet, "name ~ Sword")
	require.NoError(t, err)
	assert.Equal(t, sheet.Columns[0].ID, cfg.ColumnID)
	assert.Equal(t, document.FilterContains, cfg.Operator)
	assert.Equal(t, "Sword", cfg.Value)

	_, err = ParseExpr(sheet, "Rarity=Epic")
	require.EqualError(t, err, `unknown column "Rarity"`)

	_, err = ParseExpr(sheet, "just words")
	require.EqualError(t, err, "expected column op value, e.g. Name~sword")
}

func TestParseExprList(t *testing.T) {
	sheet := itemsSheet()

	configs, err := ParseExprList(sheet, "Value>20, Name~o")
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, document.FilterGreaterThan, configs[0].Operator)
	assert.Equal(t, document.FilterContains, configs[1].Operator)

	configs, err = ParseExprList(sheet, " , ")
	require.NoError(t, err)
	assert.Empty(t, configs)

	_, err = ParseExprList(sheet, "Value>20, Bogus=1")
	require.Error(t, err)
}
