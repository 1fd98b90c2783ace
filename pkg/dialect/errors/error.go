package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"helm-apps/dialect/pkg/dialect/ast"
)

// ErrorType categorizes failures raised by the dialect engine.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // Document is not valid YAML
	ErrorTypeStructural ErrorType = "structural" // Cursor or tree shape does not fit the operation
	ErrorTypeCycle      ErrorType = "cycle"      // Profile or file include cycle
	ErrorTypeConflict   ErrorType = "conflict"   // Refactor target already defines the key
	ErrorTypeIO         ErrorType = "io"         // File I/O error other than not-found
)

// Error is a typed engine error with an optional location and include chain.
type Error struct {
	Type       ErrorType    // Category of error
	Message    string       // Error message
	Location   ast.Location // Source location (optional)
	Chain      []string     // Include chain for cycle errors
	Context    string       // Surrounding lines (optional)
	Suggestion string       // Suggested fix (optional)
	Cause      error        // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s", e.Type, e.Message))

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("\n  --> %s", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("\n  |\n")
		sb.WriteString(strings.TrimRight(e.Context, "\n"))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\n  = suggestion: %s", e.Suggestion))
	}

	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given type.
func New(errType ErrorType, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given type around cause.
func Wrap(errType ErrorType, cause error, format string, args ...any) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// NewCycle creates a cycle error. The message names the chain "a -> b -> a".
func NewCycle(prefix string, chain []string) *Error {
	c := make([]string, len(chain))
	copy(c, chain)
	return &Error{
		Type:    ErrorTypeCycle,
		Message: fmt.Sprintf("%s: %s", prefix, strings.Join(c, " -> ")),
		Chain:   c,
	}
}

// IsType reports whether err, or any error it wraps, is an *Error of errType.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == errType
	}
	var list *ErrorList
	if stderrors.As(err, &list) {
		return list.HasErrorType(errType)
	}
	return false
}

// ErrorList accumulates errors instead of failing on the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error.
func (el *ErrorList) AddError(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// HasErrors returns true if the list is not empty.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	if el.Count() == 1 {
		return el.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d error(s):\n", el.Count()))
	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ToError returns nil for an empty list, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all errors of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the list contains an error of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
