/*
Package cli provides command-line utilities for happctl.

Output Formatting:

Results are printed as text, JSON or YAML:

	format, err := cli.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), result)

Text output uses the TextLines method when a result has one.

Exit Codes:

Commands return errors; main maps them with ExitCode. WithExitCode attaches
an explicit code, ConfigError maps to ExitUsage.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
