// Package search locates and rewrites matching cell content across one or
// many sheets. Searching never mutates the document; a replacement is a
// pure candidate value that callers commit through the mutation engine so
// each replace stays individually undoable.
package search

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// Options control pattern matching.
type Options struct {
	// MatchCase makes matching case-sensitive. Off by default.
	MatchCase bool
	// MatchWholeCell anchors the pattern to the full cell text.
	MatchWholeCell bool
	// SearchFormulas also scans raw formula source, but a cell
	// contributes at most one match: the formula is only consulted when
	// the stored value did not already match.
	SearchFormulas bool
	// UseRegex treats the search text as a regular expression. An
	// invalid pattern falls back to literal-escaped matching.
	UseRegex bool
}

// Match is one hit, naming the cell it was found in.
type Match struct {
	SheetID    string `json:"sheetId"`
	SheetName  string `json:"sheetName"`
	RowID      string `json:"rowId"`
	RowIndex   int    `json:"rowIndex"`
	ColumnID   string `json:"columnId"`
	ColumnName string `json:"columnName"`
	Value      string `json:"value"`
	InFormula  bool   `json:"inFormula,omitempty"`
}

// compile builds the matcher pattern. Non-regex input is always escaped
// before compilation so user text can never alter pattern semantics;
// invalid regex input degrades to a literal-escaped pattern.
func compile(text string, opts Options) *regexp.Regexp {
	expr := text
	if opts.UseRegex {
		if _, err := regexp.Compile(expr); err != nil {
			expr = regexp.QuoteMeta(text)
		}
	} else {
		expr = regexp.QuoteMeta(text)
	}
	if opts.MatchWholeCell {
		expr = "^(?:" + expr + ")$"
	}
	if !opts.MatchCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		// Reachable only when the quoted literal still fails, e.g. an
		// invalid flag combination; fall back to never-matching.
		return regexp.MustCompile(`\x00{2}`)
	}
	return re
}

// InSheet returns all matches in the sheet, ordered by row then column.
func InSheet(sheet *document.Sheet, text string, opts Options) []Match {
	if sheet == nil || text == "" {
		return nil
	}
	re := compile(text, opts)

	var matches []Match
	for _, row := range sheet.Rows {
		for _, col := range sheet.Columns {
			cell := row.Cells[col.ID]
			if cell == nil {
				continue
			}
			value := document.FormatValue(cell.Value)
			if value != "" && re.MatchString(value) {
				matches = append(matches, Match{
					SheetID:    sheet.ID,
					SheetName:  sheet.Name,
					RowID:      row.ID,
					RowIndex:   row.Index,
					ColumnID:   col.ID,
					ColumnName: col.Name,
					Value:      value,
				})
				continue
			}
			if opts.SearchFormulas && cell.Formula != "" && re.MatchString(cell.Formula) {
				matches = append(matches, Match{
					SheetID:    sheet.ID,
					SheetName:  sheet.Name,
					RowID:      row.ID,
					RowIndex:   row.Index,
					ColumnID:   col.ID,
					ColumnName: col.Name,
					Value:      cell.Formula,
					InFormula:  true,
				})
			}
		}
	}
	return matches
}

// InSheets concatenates per-sheet results preserving sheet order.
func InSheets(sheets []*document.Sheet, text string, opts Options) []Match {
	var matches []Match
	for _, sheet := range sheets {
		matches = append(matches, InSheet(sheet, text, opts)...)
	}
	return matches
}

// ReplaceInCell substitutes matches in the cell's text and returns the
// candidate value coerced back toward the cell's declared type: numbers
// are re-parsed as floats, booleans recognize true/false case-insensitively,
// and anything unparsable keeps the replaced string. The document itself
// is untouched.
func ReplaceInCell(cell *document.Cell, searchText, replaceText string, opts Options) any {
	if cell == nil {
		return nil
	}
	text := document.FormatValue(cell.Value)
	re := compile(searchText, opts)
	// Outside regex mode the replacement is literal text, so $ must not
	// be treated as a group reference.
	if !opts.UseRegex {
		replaceText = strings.ReplaceAll(replaceText, "$", "$$")
	}
	replaced := re.ReplaceAllString(text, replaceText)

	switch cell.Type {
	case document.TypeNumber:
		if f, err := strconv.ParseFloat(strings.TrimSpace(replaced), 64); err == nil {
			return f
		}
	case document.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(replaced)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return replaced
}

// ReplaceInText substitutes matches in a plain string, typically a
// formula, without any type coercion.
func ReplaceInText(text, searchText, replaceText string, opts Options) string {
	re := compile(searchText, opts)
	if !opts.UseRegex {
		replaceText = strings.ReplaceAll(replaceText, "$", "$$")
	}
	return re.ReplaceAllString(text, replaceText)
}

// CountMatches returns the occurrence count of searchText in text,
// independent of any sheet structure. Used for UI feedback.
func CountMatches(text, searchText string, opts Options) int {
	if text == "" || searchText == "" {
		return 0
	}
	re := compile(searchText, opts)
	return len(re.FindAllStringIndex(text, -1))
}
