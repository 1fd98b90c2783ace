// Package dialect is the entry point to the helm-apps values dialect
// engine. It ties the read-only pipeline together:
//
//	engine := dialect.New(dialect.WithLogger(logger.Slog()))
//	doc, err := engine.LoadDocument(ctx, "values.yaml")
//	if err != nil {
//	    return err
//	}
//	values, err := engine.PreviewEntity(ctx, doc, "apps-stateless", "api", "production")
//
// Editing operations work on raw text and live in the refactor package;
// occurrence search lives in symbols and workspace.
package dialect
