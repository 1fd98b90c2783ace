package ast

import "fmt"

// Location points at a position inside a values document.
// Line and Column are 1-based; zero means unknown.
type Location struct {
	File   string // Path to the values document
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String returns "file:line:column", or "<unknown>" when no file is set.
func (l Location) String() string {
	if l.File == "" {
		if l.Line > 0 {
			return fmt.Sprintf("<input>:%d:%d", l.Line, l.Column)
		}
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid returns true if the location has at least a line number.
func (l Location) IsValid() bool {
	return l.Line > 0
}
