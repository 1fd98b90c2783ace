// Package parser turns values document text into ast trees.
//
// Parsing goes through the yaml.v3 node API so mapping key order survives.
// The result feeds read-only resolution (includes, environment maps); it is
// never serialized back over the original text. Anchors and aliases are
// expanded, "<<" merge keys fill missing keys, and multi-document streams
// only yield their first document.
//
// Basic usage:
//
//	tree, err := parser.NewParser().WithMaxFileSize(1 << 20).ParseFile("values.yaml")
//	if err != nil {
//	    return err
//	}
//
// Encode renders a tree back to YAML for previews.
package parser
