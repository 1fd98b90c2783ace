package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"helm-apps/dialect/pkg/cli"
	"helm-apps/dialect/pkg/dialect/scope"
	"helm-apps/dialect/pkg/dialect/symbols"
)

var graphFlags struct {
	dependents string
	format     string
}

var graphCmd = &cobra.Command{
	Use:   "graph <values>",
	Short: "Show the include dependency graph",
	Long: `Show the apps of every renderable group with the profiles they include,
the profiles defined under global._includes (file profiles included) and the
include files the document names.

Examples:
  happctl graph values.yaml
  happctl graph values.yaml --dependents base`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

var outlineFlags struct {
	format string
}

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Print the document outline",
	Long: `Print the outline of a values document: top-level sections, global keys
and include profiles, apps and their fields. Lines are 1-based.`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(outlineCmd)

	graphCmd.Flags().StringVar(&graphFlags.dependents, "dependents", "", "only list the apps including this profile")
	graphCmd.Flags().StringVar(&graphFlags.format, "format", "text", "output format: text, json, yaml")
	outlineCmd.Flags().StringVar(&outlineFlags.format, "format", "text", "output format: text, json, yaml")
}

type graphResult symbols.Graph

func (r graphResult) TextLines() []string {
	var lines []string
	for _, app := range r.Apps {
		line := app.Group + "." + app.App
		if len(app.Includes) > 0 {
			line += " -> " + strings.Join(app.Includes, ", ")
		}
		lines = append(lines, line)
	}
	if len(r.Includes) > 0 {
		lines = append(lines, "profiles: "+strings.Join(r.Includes, ", "))
	}
	if len(r.IncludeFiles) > 0 {
		lines = append(lines, "files: "+strings.Join(r.IncludeFiles, ", "))
	}
	return lines
}

func runGraph(cmd *cobra.Command, args []string) error {
	doc, err := current.engine.LoadDocument(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("graph", err)
	}

	graph := symbols.BuildDependencyGraph(doc.Expansion.Tree, doc.Text)
	if graphFlags.dependents != "" {
		graph.Apps = graph.Dependents(graphFlags.dependents)
		if graph.Apps == nil {
			graph.Apps = []symbols.AppNode{}
		}
	}
	return writeResult(cmd, graphFlags.format, graphResult(graph))
}

type outlineResult []scope.Symbol

func (r outlineResult) TextLines() []string {
	var lines []string
	var walk func(items []scope.Symbol, depth int)
	walk = func(items []scope.Symbol, depth int) {
		for _, s := range items {
			lines = append(lines, fmt.Sprintf("%s%s (%s) %d-%d", strings.Repeat("  ", depth), s.Name, s.Kind, s.Line+1, s.EndLine+1))
			walk(s.Children, depth+1)
		}
	}
	walk(r, 0)
	return lines
}

func runOutline(cmd *cobra.Command, args []string) error {
	_, text, err := current.readDocument(args[0])
	if err != nil {
		return err
	}
	outline := scope.Outline(text)
	if outline == nil {
		outline = []scope.Symbol{}
	}
	return writeResult(cmd, outlineFlags.format, outlineResult(outline))
}
