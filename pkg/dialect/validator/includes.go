package validator

import (
	"strings"

	dialectErrors "helm-apps/dialect/pkg/dialect/errors"
	"helm-apps/dialect/pkg/dialect/include"
	"helm-apps/dialect/pkg/dialect/scope"
	"helm-apps/dialect/pkg/dialect/symbols"
)

// ValidateIncludes reports include usages that no local or file-sourced
// profile defines, local profiles nothing uses, and include files that
// do not exist. exp may be nil when the file pre-pass was not run; file
// definitions and missing files are then unknown.
func ValidateIncludes(text string, exp *include.Expansion) []Issue {
	var fileDefs []include.Definition
	if exp != nil {
		fileDefs = exp.Definitions
	}
	analysis := symbols.AnalyzeIncludes(text, fileDefs)
	idx := scope.Scan(text)
	known := analysis.DefinedNames()

	var issues []Issue
	for _, u := range analysis.Unresolved {
		suggestion := dialectErrors.SuggestName(u.Name, known)
		if suggestion == "" {
			suggestion = dialectErrors.SuggestDefineProfile(u.Name)
		}
		issues = append(issues, Issue{
			Code:       CodeUnresolvedInclude,
			Message:    "Unresolved include profile: " + u.Name,
			Path:       ValuesPath(idx.Path(u.Line)),
			Line:       u.Line + 1,
			Severity:   SeverityWarning,
			Suggestion: suggestion,
		})
	}

	for _, d := range analysis.Unused {
		issues = append(issues, Issue{
			Code:     CodeUnusedInclude,
			Message:  "Unused include profile: " + d.Name,
			Path:     ValuesPath(idx.Path(d.Line)),
			Line:     d.Line + 1,
			Severity: SeverityInfo,
		})
	}

	if exp != nil {
		seen := make(map[string]bool)
		for _, missing := range exp.MissingFiles {
			if seen[missing.RawPath] {
				continue
			}
			seen[missing.RawPath] = true
			line := directiveLine(idx, missing.RawPath)
			issue := Issue{
				Code:     CodeIncludeFileNotFound,
				Message:  "Include file not found: " + missing.RawPath,
				Line:     line + 1,
				Severity: SeverityWarning,
			}
			if line >= 0 {
				issue.Path = ValuesPath(idx.Path(line))
			}
			if len(missing.Tried) > 0 {
				issue.Suggestion = "Tried " + strings.Join(missing.Tried, ", ")
			}
			issues = append(issues, issue)
		}
	}

	return issues
}

// directiveLine finds the line of the document that names raw in a file
// include directive, or -1 when the directive lives in an included file.
func directiveLine(idx *scope.Index, raw string) int {
	for i := 0; i < idx.Len(); i++ {
		ln := idx.Line(i)
		var value string
		switch ln.Kind {
		case scope.LineKey:
			if ln.Key.Key != include.IncludeFromFileKey && ln.Key.Key != include.IncludeFilesKey {
				continue
			}
			value = ln.Key.Tail
		case scope.LineListItem:
			parent, ok := idx.ParentKey(i)
			if !ok || parent.Key != include.IncludeFilesKey {
				continue
			}
			value = ln.Item.Value
		default:
			continue
		}
		if strings.Contains(value, raw) {
			return i
		}
	}
	return -1
}
