package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
	"github.com/Sumatoshi-tech/halstead/pkg/mcp"
	"github.com/Sumatoshi-tech/halstead/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes two tools:
  - halstead_evaluate: evaluate a scope tree document (json, yaml or toml)
  - halstead_schema:   list the metric definitions

Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := newInvocation(cmd, observability.ModeMCP, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer inv.close()

			schema, err := halstead.NewSchema(halstead.WithWorkDurationSeconds(inv.cfg.Schema.WorkDurationSeconds))
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:      inv.logger,
				Metrics:     inv.red,
				Evaluations: inv.evaluations,
				Tracer:      inv.providers.Tracer,
				Schema:      schema,
			})

			inv.logger.Info("mcp server starting", "tools", srv.ListToolNames())

			return srv.Run(cmd.Context())
		},
	}
}
