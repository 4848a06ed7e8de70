package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/halstead/pkg/scopetree"
)

// ErrValidationFailed is returned when a document violates the scope tree schema.
var ErrValidationFailed = errors.New("scope tree validation failed")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var printSchema bool

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Validate a scope tree document against its JSON Schema",
		Long: `Validate a scope tree document against the embedded JSON Schema.

The format follows the file extension; "-" reads JSON from standard input.

Examples:
  halstead validate project.yaml
  halstead validate - < tree.json
  halstead validate --print-schema`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				_, err := cmd.OutOrStdout().Write(scopetree.DocumentSchema())

				return err
			}

			if len(args) != 1 {
				return fmt.Errorf("validate: expected one file argument, got %d", len(args))
			}

			return runValidate(cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "print the embedded JSON Schema and exit")

	return cmd
}

func runValidate(cmd *cobra.Command, path string) error {
	data, format, err := readDocument(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	result, err := scopetree.Validate(data, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	label := displayName(path)

	if result.Valid() {
		if !boolFlag(cmd, flagQuiet) {
			color.New(color.FgGreen).Fprintf(out, "scope tree is valid (%s)\n", label)
		}

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "scope tree validation failed (%s)\n", label)
	fmt.Fprintf(out, "\nErrors:\n")

	for _, v := range result.Violations {
		color.New(color.FgRed).Fprintf(out, "  - %s: %s\n", v.Field, v.Description)
	}

	return fmt.Errorf("%w: %s: %d violation(s)", ErrValidationFailed, label, len(result.Violations))
}

func readDocument(stdin io.Reader, path string) ([]byte, scopetree.Format, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return data, scopetree.FormatJSON, nil
	}

	format, err := scopetree.FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read scope document: %w", err)
	}

	return data, format, nil
}
