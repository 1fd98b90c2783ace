package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"helm-apps/dialect/pkg/cli"
	"helm-apps/dialect/pkg/dialect/ast"
	"helm-apps/dialect/pkg/dialect/parser"
)

var resolveFlags struct {
	env    string
	format string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <values> [group app]",
	Short: "Print effective values",
	Long: `Print the effective values of a document or of one application.

With a group and an app, the application's _include profiles are applied
(nested profiles included) and its environment maps are reduced to the
branch of the active environment. Without them, every _include of the
document is applied.

The active environment is --env, else global.env of the document, else
dialect.env of the configuration.

Examples:
  # Preview one application in production
  happctl resolve values.yaml apps-stateless api --env prod

  # Resolve the whole document as JSON
  happctl resolve values.yaml --format json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return cli.NewConfigError("args", fmt.Sprintf("expected <values> or <values> <group> <app>, got %d arguments", len(args)))
		}
		return nil
	},
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFlags.env, "env", "e", "", "active environment")
	resolveCmd.Flags().StringVar(&resolveFlags.format, "format", "yaml", "output format: yaml, json")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := cli.ParseFormat(resolveFlags.format)
	if err != nil {
		return err
	}

	doc, err := current.engine.LoadDocument(ctx, args[0])
	if err != nil {
		return cli.NewCommandError("resolve", err)
	}

	env := resolveFlags.env
	if env == "" {
		env = current.cfg.Dialect.Env
	}

	var resolved ast.Value
	if len(args) == 3 {
		resolved, err = current.engine.PreviewEntity(ctx, doc, args[1], args[2], env)
	} else {
		resolved, err = current.engine.ResolveDocument(ctx, doc, env)
	}
	if err != nil {
		return cli.NewCommandError("resolve", err)
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), resolved.Interface())
	}
	data, err := parser.Encode(resolved)
	if err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
