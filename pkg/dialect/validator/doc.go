// Package validator checks values documents against the dialect's
// conventions.
//
// The list policy rejects native YAML lists outside the places where the
// library renders them verbatim: include lists, include profile bodies,
// envYAML and configFilesYAML content, extraFields and a few known
// list-bearing fields. Include checks report unresolved and unused include
// profiles and missing include files.
//
// # Basic Usage
//
//	exp, err := include.ExpandFileIncludes(ctx, tree, path, include.OSReader{})
//	if err != nil {
//	    return err
//	}
//	report := validator.NewValidator(validator.Options{}, logger).Validate(validator.Document{
//	    Path:      path,
//	    Text:      text,
//	    Expansion: exp,
//	})
//	for _, issue := range report.Issues {
//	    fmt.Println(issue)
//	}
package validator
