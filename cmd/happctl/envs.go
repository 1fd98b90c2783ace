package main

import (
	"github.com/spf13/cobra"

	"helm-apps/dialect/pkg/cli"
	"helm-apps/dialect/pkg/dialect/envmap"
)

var envsFlags struct {
	format string
}

var envsCmd = &cobra.Command{
	Use:   "envs <values>",
	Short: "List the environments a document mentions",
	Long: `List the environment keys used by the environment maps of a document,
after file includes are expanded. Literal names and regex patterns are
listed separately; _default is never listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnvs,
}

func init() {
	rootCmd.AddCommand(envsCmd)

	envsCmd.Flags().StringVar(&envsFlags.format, "format", "text", "output format: text, json, yaml")
}

// envsResult is the output of envs.
type envsResult struct {
	Document string   `json:"document" yaml:"document"`
	Active   string   `json:"active,omitempty" yaml:"active,omitempty"`
	Literals []string `json:"literals" yaml:"literals"`
	Regexes  []string `json:"regexes" yaml:"regexes"`
}

func (r envsResult) TextLines() []string {
	var lines []string
	if r.Active != "" {
		lines = append(lines, "active: "+r.Active)
	}
	lines = append(lines, r.Literals...)
	for _, re := range r.Regexes {
		lines = append(lines, re+" (regex)")
	}
	return lines
}

func runEnvs(cmd *cobra.Command, args []string) error {
	doc, err := current.engine.LoadDocument(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("envs", err)
	}

	envs := current.engine.Environments(doc)
	return writeResult(cmd, envsFlags.format, envsResult{
		Document: doc.Path,
		Active:   envmap.ActiveEnv(doc.Expansion.Tree, current.cfg.Dialect.Env),
		Literals: envs.Literals,
		Regexes:  envs.Regexes,
	})
}
