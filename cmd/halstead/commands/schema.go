package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
	"github.com/Sumatoshi-tech/halstead/pkg/report"
)

// ErrUnknownSchemaFormat is returned for a schema format other than table or json.
var ErrUnknownSchemaFormat = fmt.Errorf("%w: schema supports table and json", report.ErrUnknownFormat)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "List the Halstead metric definitions",
		Long: `List the twelve Halstead metrics in evaluation order with their key,
label, value kind, class, aggregation and dependencies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer := report.NewRenderer(halstead.Default())

			switch format {
			case string(report.FormatTable):
				return renderer.SchemaTable(cmd.OutOrStdout())
			case string(report.FormatJSON):
				return renderer.SchemaJSON(cmd.OutOrStdout())
			default:
				return fmt.Errorf("%w: %q", ErrUnknownSchemaFormat, format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatTable), "output format: table or json")

	return cmd
}
