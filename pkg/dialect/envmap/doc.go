// Package envmap selects environment-specific branches of resolved values.
//
// An environment map is a mapping with a _default key or at least one key
// that looks like a regular expression:
//
//	replicas:
//	  _default: 1
//	  prod: 3
//	  ^stage-.*$: 2
//
// Selection order is literal key, first matching pattern in declaration
// order, then _default. A map with no matching branch keeps its keys.
// Patterns use RE2 syntax and are unanchored unless written with ^ or $;
// a pattern that does not compile never matches.
package envmap
