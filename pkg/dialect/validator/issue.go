package validator

import (
	"fmt"
	"slices"
	"strings"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue codes.
const (
	CodeUnexpectedList        = "E_UNEXPECTED_LIST"
	CodeUnresolvedInclude     = "E_UNRESOLVED_INCLUDE"
	CodeIncludeFileNotFound   = "E_INCLUDE_FILE_NOT_FOUND"
	CodeUnusedInclude         = "I_UNUSED_INCLUDE"
	CodeDocumentNotResolvable = "E_RESOLVE"
)

// Issue is one finding of a validation pass. Line is 1-based; 0 means the
// finding has no position in the document.
type Issue struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Path       string   `json:"path,omitempty"`
	Line       int      `json:"line"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// String formats the issue as "line: [code] message (path)".
func (i Issue) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d: [%s] %s", i.Line, i.Code, i.Message)
	if i.Path != "" {
		fmt.Fprintf(&sb, " (%s)", i.Path)
	}
	if i.Suggestion != "" {
		sb.WriteString("\n  Suggestion: ")
		sb.WriteString(i.Suggestion)
	}
	return sb.String()
}

// Report collects the issues of one document.
type Report struct {
	Document string  `json:"document,omitempty"`
	Issues   []Issue `json:"issues"`
}

// HasErrors reports whether any issue has error severity.
func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.Issues, func(i Issue) bool { return i.Severity == SeverityError })
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// ByCode returns the issues carrying code.
func (r *Report) ByCode(code string) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Code == code {
			out = append(out, i)
		}
	}
	return out
}

func (r *Report) sort() {
	slices.SortStableFunc(r.Issues, func(a, b Issue) int { return a.Line - b.Line })
}
