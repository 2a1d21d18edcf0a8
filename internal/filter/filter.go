// Package filter computes row visibility from a conjunction of column
// predicates. Filtering is a view-level operation: it never participates
// in undo history, and a row's hidden flag is always recomputable from
// the sheet's filter configs and current cell values.
package filter

import (
	"strconv"
	"strings"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// Apply stores the filter configs on the sheet and recomputes every
// row's hidden flag as the logical AND of all predicates. An empty
// config set behaves like Clear.
func Apply(sheet *document.Sheet, configs []document.FilterConfig) {
	if sheet == nil {
		return
	}
	if len(configs) == 0 {
		Clear(sheet)
		return
	}
	sheet.Filters = configs
	for _, row := range sheet.Rows {
		row.Hidden = !matchesAll(row, configs)
	}
}

// Clear removes the sheet's filter configs and unhides every row.
func Clear(sheet *document.Sheet) {
	if sheet == nil {
		return
	}
	sheet.Filters = nil
	for _, row := range sheet.Rows {
		row.Hidden = false
	}
}

func matchesAll(row *document.Row, configs []document.FilterConfig) bool {
	for _, cfg := range configs {
		cell := row.Cells[cfg.ColumnID]
		if !matches(cell, cfg) {
			return false
		}
	}
	return true
}

func matches(cell *document.Cell, cfg document.FilterConfig) bool {
	var value any
	if cell != nil {
		value = cell.Value
	}
	switch cfg.Operator {
	case document.FilterEquals:
		return equals(value, cfg.Value)
	case document.FilterContains:
		needle := strings.ToLower(document.FormatValue(cfg.Value))
		return strings.Contains(strings.ToLower(document.FormatValue(value)), needle)
	case document.FilterGreaterThan:
		a, aok := asNumber(value)
		b, bok := asNumber(cfg.Value)
		return aok && bok && a > b
	case document.FilterLessThan:
		a, aok := asNumber(value)
		b, bok := asNumber(cfg.Value)
		return aok && bok && a < b
	default:
		return false
	}
}

// equals is type-aware: numbers compare numerically even when one side
// arrived as a string, booleans as booleans, everything else as text.
func equals(a, b any) bool {
	if af, aok := asNumber(a); aok {
		if bf, bok := asNumber(b); bok {
			return af == bf
		}
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			return ab == bb
		}
	}
	return document.FormatValue(a) == document.FormatValue(b)
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
