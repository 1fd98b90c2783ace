// Package ast defines the value tree produced by parsing a helm-apps values
// document.
//
// Value is a closed variant: Null, Bool, Number, String, Sequence or
// Mapping. Code that walks a tree switches on Value.Kind instead of probing
// dynamic types. Mapping keeps key declaration order, which include lists
// and regex environment keys depend on.
//
// Trees are owned values. Clone produces an independent deep copy, and the
// merge and resolution code in sibling packages never mutates its inputs.
package ast
