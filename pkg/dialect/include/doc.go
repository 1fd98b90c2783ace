// Package include resolves profile references in values documents.
//
// Resolution runs in two stages. The file pre-pass (Expander) applies
// _include_from_file and _include_files, reading fragments relative to the
// file that holds the directive; missing files are reported, not fatal, and
// a file that includes itself through any chain is a cycle error. The
// profile pass (Resolver) then replaces every _include list with the deep
// merge of the named profiles from global._includes, followed by the local
// body.
//
// Merge rules: mappings merge recursively, _include lists concatenate, every
// other value is replaced by the later side.
//
//	exp, err := include.ExpandFileIncludes(ctx, tree, "values.yaml", include.OSReader{})
//	app, err := include.NewResolver(exp.Registry()).ResolveEntity(exp.Tree, "apps-stateless", "api")
package include
