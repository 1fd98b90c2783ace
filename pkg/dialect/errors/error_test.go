package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"helm-apps/dialect/pkg/dialect/ast"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "cycle",
			err:      NewCycle("Include cycle detected", []string{"a", "b", "a"}),
			contains: []string{"[cycle]", "Include cycle detected: a -> b -> a"},
		},
		{
			name: "with location and suggestion",
			err: &Error{
				Type:       ErrorTypeStructural,
				Message:    "Key must be inside <group>.<app> scope",
				Location:   ast.Location{File: "values.yaml", Line: 3, Column: 5},
				Suggestion: "Place the cursor on an app child key",
			},
			contains: []string{"[structural]", "values.yaml:3:5", "suggestion: Place the cursor"},
		},
		{
			name:     "with cause",
			err:      Wrap(ErrorTypeIO, fs.ErrPermission, "failed to read %s", "a.yaml"),
			contains: []string{"[io] failed to read a.yaml", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want substring %q", msg, want)
				}
			}
		})
	}
}

func TestIsType(t *testing.T) {
	cycle := NewCycle("File include cycle detected", []string{"a.yaml", "a.yaml"})
	wrapped := fmt.Errorf("resolve: %w", cycle)

	if !IsType(wrapped, ErrorTypeCycle) {
		t.Error("IsType(wrapped cycle, cycle) = false, want true")
	}
	if IsType(wrapped, ErrorTypeConflict) {
		t.Error("IsType(wrapped cycle, conflict) = true, want false")
	}
	if IsType(stderrors.New("plain"), ErrorTypeCycle) {
		t.Error("IsType(plain) = true, want false")
	}

	list := NewErrorList()
	list.AddError(ErrorTypeConflict, "already contains key", ast.Location{})
	if !IsType(list.ToError(), ErrorTypeConflict) {
		t.Error("IsType(list, conflict) = false, want true")
	}
}

func TestUnwrap(t *testing.T) {
	err := Wrap(ErrorTypeIO, fs.ErrPermission, "failed to read %s", "x")
	if !stderrors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is(err, fs.ErrPermission) = false, want true")
	}
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.ToError() != nil {
		t.Fatal("ToError() on empty list should be nil")
	}

	list.AddError(ErrorTypeStructural, "one", ast.Location{})
	list.AddError(ErrorTypeCycle, "two", ast.Location{})

	if list.Count() != 2 {
		t.Errorf("Count() = %d, want 2", list.Count())
	}
	if got := len(list.ByType(ErrorTypeCycle)); got != 1 {
		t.Errorf("ByType(cycle) = %d errors, want 1", got)
	}
	if !strings.Contains(list.Error(), "found 2 error(s)") {
		t.Errorf("Error() = %q", list.Error())
	}
}

func TestSuggestName(t *testing.T) {
	tests := []struct {
		name    string
		unknown string
		known   []string
		want    string
	}{
		{"close match", "bse", []string{"base", "probes"}, "Did you mean 'base'?"},
		{"no candidates", "x", nil, ""},
		{"too far", "completely-different", []string{"base"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestName(tt.unknown, tt.known); got != tt.want {
				t.Errorf("SuggestName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractContext(t *testing.T) {
	text := "a:\n  b: 1\n  c: 2\n"
	got := ExtractContext(text, 2, 3, 1)
	if !strings.Contains(got, "-> 2 |   b: 1") {
		t.Errorf("ExtractContext() = %q", got)
	}
	if ExtractContext(text, 0, 0, 1) != "" {
		t.Error("ExtractContext(line 0) should be empty")
	}
}
