package document

import "strings"

// ColumnLetter converts a zero-based column index to its spreadsheet
// letter name: 0 -> "A", 25 -> "Z", 26 -> "AA".
func ColumnLetter(index int) string {
	if index < 0 {
		return ""
	}
	var b strings.Builder
	n := index
	for {
		rem := n % 26
		b.WriteByte(byte('A' + rem))
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	// Digits were emitted least-significant first.
	s := []byte(b.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}

// LetterToIndex converts a spreadsheet column name to its zero-based
// index: "A" -> 0, "Z" -> 25, "AA" -> 26. Returns -1 for invalid input.
func LetterToIndex(letters string) int {
	if letters == "" {
		return -1
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c < 'A' || c > 'Z' {
			return -1
		}
		n = n*26 + int(c-'A') + 1
	}
	return n - 1
}
