package errors

import (
	"fmt"
	"strings"
)

// ExtractContext renders the lines around a 1-based line of text with line
// numbers and a marker on the target line.
func ExtractContext(text string, line, column, contextLines int) string {
	if line <= 0 {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	target := line - 1
	if target >= len(lines) {
		return ""
	}

	start := max(target-contextLines, 0)
	end := min(target+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", end+1))

	for i := start; i <= end; i++ {
		prefix := "  "
		if i == target {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))

		if i == target && column > 0 {
			sb.WriteString(fmt.Sprintf("   %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", column-1)))
		}
	}

	return sb.String()
}

// WithContext attaches surrounding lines of text to err and returns it.
func WithContext(err *Error, text string, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(text, err.Location.Line, err.Location.Column, contextLines)
	}
	return err
}
