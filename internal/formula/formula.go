// Package formula evaluates "="-prefixed cell content against the stored
// values of other cells in the same sheet. Evaluation is single-pass: a
// reference reads the referenced cell's current value, never its formula,
// and nothing is recomputed transitively.
//
// Supported constructs: numeric literals, quoted string literals, A1-style
// cell references, the arithmetic operators + - * / and the string
// concatenation operator &.
package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gridforge-labs/gridforge/internal/document"
)

// Spreadsheet-style inline error markers, stored in place of a value when
// evaluation fails. The formula source text is always preserved so the
// user can correct it.
const (
	ErrRef   = "#REF!"
	ErrValue = "#VALUE!"
	ErrDiv0  = "#DIV/0!"
	ErrBad   = "#ERROR!"
)

// IsFormula reports whether raw cell input is a formula.
func IsFormula(raw string) bool {
	return strings.HasPrefix(raw, "=")
}

// IsErrorMarker reports whether a value is one of the inline error markers.
func IsErrorMarker(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch s {
	case ErrRef, ErrValue, ErrDiv0, ErrBad:
		return true
	}
	return false
}

// Evaluate resolves a formula against the sheet and returns the literal
// result value. Malformed expressions and missing references yield an
// inline error marker string, never an error return.
func Evaluate(sheet *document.Sheet, raw string) any {
	src := strings.TrimPrefix(raw, "=")
	if strings.TrimSpace(src) == "" {
		return ErrBad
	}
	p := &parser{src: src, sheet: sheet}
	v := p.parseExpr()
	p.skipSpace()
	if p.err != "" {
		return p.err
	}
	if p.pos != len(p.src) {
		return ErrBad
	}
	return v
}

// parser is a single-pass recursive-descent evaluator with the usual
// precedence: & binds loosest, then + -, then * /.
type parser struct {
	src   string
	pos   int
	sheet *document.Sheet
	err   string
}

func (p *parser) fail(marker string) any {
	if p.err == "" {
		p.err = marker
	}
	return nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseExpr handles the & concatenation level.
func (p *parser) parseExpr() any {
	left := p.parseAdditive()
	for p.err == "" {
		p.skipSpace()
		if p.peek() != '&' {
			break
		}
		p.pos++
		right := p.parseAdditive()
		if p.err != "" {
			break
		}
		left = toText(left) + toText(right)
	}
	return left
}

func (p *parser) parseAdditive() any {
	left := p.parseMultiplicative()
	for p.err == "" {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			break
		}
		p.pos++
		right := p.parseMultiplicative()
		if p.err != "" {
			break
		}
		a, aok := toNumber(left)
		b, bok := toNumber(right)
		if !aok || !bok {
			return p.fail(ErrValue)
		}
		if op == '+' {
			left = a + b
		} else {
			left = a - b
		}
	}
	return left
}

func (p *parser) parseMultiplicative() any {
	left := p.parseOperand()
	for p.err == "" {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		right := p.parseOperand()
		if p.err != "" {
			break
		}
		a, aok := toNumber(left)
		b, bok := toNumber(right)
		if !aok || !bok {
			return p.fail(ErrValue)
		}
		if op == '*' {
			left = a * b
		} else {
			if b == 0 {
				return p.fail(ErrDiv0)
			}
			left = a / b
		}
	}
	return left
}

func (p *parser) parseOperand() any {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v := p.parseExpr()
		p.skipSpace()
		if p.peek() != ')' {
			return p.fail(ErrBad)
		}
		p.pos++
		return v
	case c == '"':
		return p.parseString()
	case c == '-':
		p.pos++
		v := p.parseOperand()
		n, ok := toNumber(v)
		if !ok {
			return p.fail(ErrValue)
		}
		return -n
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z':
		return p.parseReference()
	default:
		return p.fail(ErrBad)
	}
}

func (p *parser) parseString() any {
	p.pos++ // opening quote
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '"' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return p.fail(ErrBad)
	}
	s := p.src[start:p.pos]
	p.pos++ // closing quote
	return s
}

func (p *parser) parseNumber() any {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		p.pos++
	}
	f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return p.fail(ErrBad)
	}
	return f
}

// parseReference resolves an A1-style reference to the referenced cell's
// current stored value. A reference to a missing cell is #REF!.
func (p *parser) parseReference() any {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			break
		}
		p.pos++
	}
	letters := p.src[start:p.pos]
	digitStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if digitStart == p.pos {
		return p.fail(ErrBad)
	}
	rowNum, err := strconv.Atoi(p.src[digitStart:p.pos])
	if err != nil || rowNum < 1 {
		return p.fail(ErrBad)
	}

	colIdx := document.LetterToIndex(letters)
	if colIdx < 0 {
		return p.fail(ErrRef)
	}
	col := p.sheet.ColumnAt(colIdx)
	row := p.sheet.RowAt(rowNum - 1)
	if col == nil || row == nil {
		return p.fail(ErrRef)
	}
	cell := row.Cells[col.ID]
	if cell == nil {
		return p.fail(ErrRef)
	}
	return cell.Value
}

// toNumber coerces an operand for arithmetic. Empty cells count as zero,
// matching how spreadsheets treat blank operands.
func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, true
	case float64:
		return t, true
	case int:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
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

// toText coerces an operand for the & concatenation operator.
func toText(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
