// Package commands implements the halstead CLI commands.
package commands

import (
	"github.com/spf13/cobra"
)

// Persistent flag names.
const (
	flagConfig = "config"
	flagQuiet  = "quiet"
)

// NewRootCommand builds the halstead command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "halstead",
		Short: "Halstead software-science metrics over scope trees",
		Long: `halstead evaluates the twelve Halstead metrics over a hierarchy of scopes.

Leaves (files) carry four base counts: distinct and total operators and
operands. Directories and projects receive the sum of their children's counts
and derive vocabulary, length, volume, difficulty, effort, time and bugs.

Commands:
  eval       Evaluate scope tree documents and render a report
  schema     List the metric definitions
  validate   Check a scope tree document against its JSON Schema
  mcp        Start the MCP server on stdio
  version    Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (default: halstead.yaml in ., ./config, $HOME/.config/halstead)")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress status lines")

	rootCmd.AddCommand(
		NewEvalCommand(),
		NewSchemaCommand(),
		NewValidateCommand(),
		NewMCPCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}

// stringFlag returns the value of a flag that may be declared on a parent.
func stringFlag(cmd *cobra.Command, name string) string {
	f := cmd.Flag(name)
	if f == nil {
		return ""
	}

	return f.Value.String()
}

// boolFlag returns the value of a boolean flag that may be declared on a parent.
func boolFlag(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)

	return f != nil && f.Value.String() == "true"
}
