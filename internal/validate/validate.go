// Package validate classifies cells, rows and sheets as valid against
// their column types and rules. Everything here is a pure function: no
// store access, no side effects, safe to call as often as needed. Callers
// that want to persist results must do so from an explicit action, never
// from a render path.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// Severity of a single finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding, carrying enough identity to point the
// user at the offending cell.
type Issue struct {
	RowID    string   `json:"rowId,omitempty"`
	ColumnID string   `json:"columnId,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result aggregates findings. Valid is true when Errors is empty;
// warnings alone do not invalidate.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func okResult() Result {
	return Result{Valid: true}
}

func (r *Result) add(issue Issue) {
	switch issue.Severity {
	case SeverityWarning:
		r.Warnings = append(r.Warnings, issue)
	default:
		r.Errors = append(r.Errors, issue)
		r.Valid = false
	}
}

// Merge folds another result into r.
func (r *Result) Merge(other Result) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if !other.Valid {
		r.Valid = false
	}
}

// ValueType checks a value against a declared column type. Empty values
// are always valid at the type level regardless of the declared type;
// options is the value universe for select and multiselect columns.
func ValueType(value any, typ document.ColumnType, options []string) Result {
	r := okResult()
	text := document.FormatValue(value)
	if value == nil || strings.TrimSpace(text) == "" {
		return r
	}

	switch typ {
	case document.TypeNumber:
		if !isFiniteNumber(value, text) {
			r.add(Issue{
				Message:  fmt.Sprintf("%q is not a number", text),
				Severity: SeverityError,
			})
		}
	case document.TypeBoolean:
		if _, isBool := value.(bool); !isBool {
			if _, ok := document.ParseBool(text); !ok {
				r.add(Issue{
					Message:  fmt.Sprintf("%q is not a boolean (expected true/false, 1/0, yes/no or y/n)", text),
					Severity: SeverityError,
				})
			}
		}
	case document.TypeDate:
		if !isDate(value, text) {
			r.add(Issue{
				Message:  fmt.Sprintf("%q is not a valid date", text),
				Severity: SeverityError,
			})
		}
	case document.TypeSelect:
		if len(options) == 0 {
			return r
		}
		if !containsExact(options, strings.TrimSpace(text)) {
			r.add(Issue{
				Message:  fmt.Sprintf("%q is not one of the allowed options [%s]", strings.TrimSpace(text), strings.Join(options, ", ")),
				Severity: SeverityError,
			})
		}
	case document.TypeMultiSelect:
		if len(options) == 0 {
			return r
		}
		var bad []string
		for _, part := range strings.Split(text, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !containsExact(options, part) {
				bad = append(bad, part)
			}
		}
		if len(bad) > 0 {
			r.add(Issue{
				Message:  fmt.Sprintf("values [%s] are not among the allowed options [%s]", strings.Join(bad, ", "), strings.Join(options, ", ")),
				Severity: SeverityError,
			})
		}
	case document.TypeText, document.TypeFormula:
		// Always valid at the type level.
	}
	return r
}

// Rule checks a value against an explicit per-cell rule, independently of
// the type check.
func Rule(value any, rule *document.Rule) Result {
	r := okResult()
	if rule == nil {
		return r
	}
	text := document.FormatValue(value)
	empty := value == nil || strings.TrimSpace(text) == ""

	if rule.Required && empty {
		r.add(Issue{Message: "value is required", Severity: SeverityError})
	}
	if empty {
		return r
	}
	if rule.Min != nil || rule.Max != nil {
		f, ok := asNumber(value, text)
		if !ok {
			r.add(Issue{
				Message:  fmt.Sprintf("%q is not numeric, cannot check range", text),
				Severity: SeverityError,
			})
			return r
		}
		if rule.Min != nil && f < *rule.Min {
			r.add(Issue{
				Message:  fmt.Sprintf("%v is below the minimum %v", f, *rule.Min),
				Severity: SeverityError,
			})
		}
		if rule.Max != nil && f > *rule.Max {
			r.add(Issue{
				Message:  fmt.Sprintf("%v is above the maximum %v", f, *rule.Max),
				Severity: SeverityError,
			})
		}
	}
	return r
}

// Cell validates one cell against its column definition: the type check
// plus the column rule and any cell-level rule.
func Cell(cell *document.Cell, col *document.Column) Result {
	r := okResult()
	if cell == nil || col == nil {
		return r
	}

	tr := ValueType(cell.Value, col.Type, col.Options)
	stamp(&tr, cell.RowID, cell.ColumnID)
	r.Merge(tr)

	for _, rule := range []*document.Rule{col.Validation, cell.Validation} {
		rr := Rule(cell.Value, rule)
		stamp(&rr, cell.RowID, cell.ColumnID)
		r.Merge(rr)
	}
	return r
}

// Row validates every cell of a row against the sheet's column definitions.
func Row(row *document.Row, columns []*document.Column) Result {
	r := okResult()
	if row == nil {
		return r
	}
	for _, col := range columns {
		r.Merge(Cell(row.Cells[col.ID], col))
	}
	return r
}

// Sheet validates every row of a sheet.
func Sheet(sheet *document.Sheet) Result {
	r := okResult()
	if sheet == nil {
		return r
	}
	for _, row := range sheet.Rows {
		r.Merge(Row(row, sheet.Columns))
	}
	return r
}

// stamp fills row/column identity on issues that do not carry one yet.
func stamp(r *Result, rowID, columnID string) {
	for i := range r.Errors {
		if r.Errors[i].RowID == "" {
			r.Errors[i].RowID = rowID
			r.Errors[i].ColumnID = columnID
		}
	}
	for i := range r.Warnings {
		if r.Warnings[i].RowID == "" {
			r.Warnings[i].RowID = rowID
			r.Warnings[i].ColumnID = columnID
		}
	}
}

func containsExact(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

func isFiniteNumber(value any, text string) bool {
	switch t := value.(type) {
	case float64:
		return !math.IsNaN(t) && !math.IsInf(t, 0)
	case int:
		return true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func asNumber(value any, text string) (float64, bool) {
	switch t := value.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDate(value any, text string) bool {
	if _, isTime := value.(time.Time); isTime {
		return true
	}
	_, ok := document.ParseDate(text)
	return ok
}
