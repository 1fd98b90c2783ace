// Package errors provides the typed errors raised by the dialect engine.
//
// # Error Types
//
// ErrorTypeSyntax: the document is not valid YAML
//
// ErrorTypeStructural: a refactor was invoked outside a valid scope, a new
// key is malformed, or a requested group or app does not exist
//
// ErrorTypeCycle: a profile include cycle or a file include cycle; Chain
// holds the full path, for example [a b a]
//
// ErrorTypeConflict: an include profile already defines the extracted key
//
// ErrorTypeIO: a file could not be read for a reason other than not-found
//
// Missing include files are not errors. They are reported as data by the
// include package so resolution can continue.
//
// # Basic Usage
//
//	err := errors.New(errors.ErrorTypeStructural, "App not found at %s.%s", group, app)
//
//	if errors.IsType(err, errors.ErrorTypeCycle) {
//	    // abort the whole resolution
//	}
//
// # Suggestions
//
// SuggestName uses Levenshtein distance to point at a similarly named
// include profile:
//
//	errors.SuggestName("bse", []string{"base", "probes"})
//	// Returns: "Did you mean 'base'?"
package errors
