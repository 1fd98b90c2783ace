// Package scope is the structural indexer for values documents.
//
// It reads indentation-structured text line by line, without a grammar
// level parse, and answers "which keys enclose this line" and "where does
// this key's block end". Block scalars (a key whose value is |, |-, >, ...)
// are opaque: their body lines are never read as keys.
//
// Every edit operation (extract-to-include, rename, quick fixes) and the
// symbol index locate text through this package, so a key inside a block
// scalar is never mistaken for structure.
//
//	idx := scope.Scan(text)
//	path := idx.Path(line)       // ["apps-stateless", "api", "resources"]
//	end := idx.BlockEnd(line)    // first line after the key's block
package scope
