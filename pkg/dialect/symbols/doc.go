// Package symbols classifies dialect symbols in a single document.
//
// Two kinds of symbols exist. An include symbol is a profile name: it is
// defined by a key at global._includes.<name> and used by every _include
// value naming it (scalar, inline list or dash list). An app symbol is an
// application key: it is defined by a child of a top-level group other than
// global and used by the matching key of global.releases.<release>.
//
// Recognition is purely textual and goes through the scope index, so keys
// inside block scalars never count.
package symbols
