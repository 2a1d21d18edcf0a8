package document

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date rendering used across export and display.
const DateLayout = "2006-01-02"

// dateLayouts are the input formats accepted when parsing date values.
var dateLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
}

// FormatValue renders a stored value for display and export: dates as
// YYYY-MM-DD, booleans as literal true/false, numbers without a trailing
// fraction when integral, nil as the empty string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case time.Time:
		return t.Format(DateLayout)
	default:
		return ""
	}
}

// ParseDate parses a date string against the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseBool recognizes the boolean spellings accepted by the validator.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	}
	return false, false
}

// SniffValue type-sniffs a raw text value the way the CSV importer does:
// numeric strings become float64, literal true/false become bool,
// everything else stays text.
func SniffValue(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// CoerceToType coerces a stored value toward a column's declared type for
// display. Only raw text is reinterpreted; typed values pass through, and
// unparsable input is kept as the literal string supplied.
func CoerceToType(v any, typ ColumnType) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch typ {
	case TypeNumber:
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	case TypeBoolean:
		if b, ok := ParseBool(s); ok {
			return b
		}
	case TypeDate:
		if t, ok := ParseDate(s); ok {
			return t
		}
	}
	if s == "" {
		return nil
	}
	return s
}
