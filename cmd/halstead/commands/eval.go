package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
	"github.com/Sumatoshi-tech/halstead/pkg/observability"
	"github.com/Sumatoshi-tech/halstead/pkg/report"
	"github.com/Sumatoshi-tech/halstead/pkg/scopetree"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

const opEval = "cli.eval"

// ErrRepeatedStdin is returned when "-" appears more than once in the arguments.
var ErrRepeatedStdin = errors.New("standard input can only be read once")

type evalOptions struct {
	format              string
	output              string
	telemetryFile       string
	workDurationSeconds float64
	timeout             time.Duration
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval [files...]",
		Short: "Evaluate scope tree documents and render a report",
		Long: `Evaluate one or more scope tree documents.

Each file is decoded by its extension (.json, .yaml, .yml, .toml); "-" reads
JSON from standard input. Files are evaluated concurrently and rendered in
argument order. Any invalid input fails the command and names the scope and
metric at fault.

Examples:
  halstead eval project.json
  halstead eval --format prom a.yaml b.toml
  cat tree.json | halstead eval -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: table, json, yaml, prom, html (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().Float64Var(&opts.workDurationSeconds, "work-duration-seconds", 0, "seconds per reported time unit (default from config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort evaluation after this duration (default from config)")
	cmd.Flags().StringVar(&opts.telemetryFile, "telemetry-file", "", "write the run's own metrics in Prometheus text format to this file")

	return cmd
}

func runEval(cmd *cobra.Command, args []string, opts *evalOptions) (retErr error) {
	inv, err := newInvocation(cmd, observability.ModeCLI, cmd.ErrOrStderr(), opts.telemetryFile != "")
	if err != nil {
		return err
	}
	defer inv.close()

	ctx, span := inv.providers.Tracer.Start(cmd.Context(), opEval)
	defer span.End()

	start := time.Now()
	done := inv.red.TrackInflight(ctx, opEval)

	defer func() {
		done()

		status := observability.StatusOK
		if retErr != nil {
			status = observability.StatusError
		}

		inv.red.RecordRequest(ctx, opEval, status, time.Since(start))

		if opts.telemetryFile != "" {
			retErr = errors.Join(retErr, writeTelemetry(opts.telemetryFile, inv))
		}
	}()

	format, schema, timeout, err := resolveEvalSettings(cmd, opts, inv)
	if err != nil {
		return err
	}

	if err := checkStdinOnce(args); err != nil {
		return err
	}

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	evaluator := halstead.NewEvaluator(schema,
		halstead.WithLogger(inv.logger),
		halstead.WithTracer(inv.providers.Tracer),
		halstead.WithRecorder(inv.evaluations),
	)

	inv.logger.DebugContext(ctx, "eval started", "files", len(args), "format", format)

	results, err := evaluateFiles(ctx, cmd.InOrStdin(), args, schema, evaluator, inv.cfg.Evaluation.MaxParallelFiles)
	if err != nil {
		if !boolFlag(cmd, flagQuiet) {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "evaluation failed: %d of %d inputs rejected\n",
				countErrors(err), len(args))
		}

		return err
	}

	if err := writeReport(cmd.OutOrStdout(), opts.output, format, schema, results); err != nil {
		return err
	}

	if !boolFlag(cmd, flagQuiet) {
		color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "evaluated %d input(s), %d scope(s)\n",
			len(results), countScopes(results))
	}

	return nil
}

func resolveEvalSettings(
	cmd *cobra.Command, opts *evalOptions, inv *invocation,
) (report.Format, *halstead.Schema, time.Duration, error) {
	formatName := inv.cfg.Output.Format
	if cmd.Flags().Changed("format") {
		formatName = opts.format
	}

	format, err := report.ParseFormat(formatName)
	if err != nil {
		return "", nil, 0, err
	}

	workDuration := inv.cfg.Schema.WorkDurationSeconds
	if cmd.Flags().Changed("work-duration-seconds") {
		workDuration = opts.workDurationSeconds
	}

	schema, err := halstead.NewSchema(halstead.WithWorkDurationSeconds(workDuration))
	if err != nil {
		return "", nil, 0, err
	}

	timeout := inv.cfg.Evaluation.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = opts.timeout
	}

	return format, schema, timeout, nil
}

// evaluateFiles decodes and evaluates every path with at most parallel
// workers. Results keep the order of paths; all failures are joined.
func evaluateFiles(
	ctx context.Context,
	stdin io.Reader,
	paths []string,
	schema *halstead.Schema,
	evaluator *halstead.Evaluator,
	parallel int,
) ([]report.Result, error) {
	results := make([]report.Result, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))

	for i, path := range paths {
		g.Go(func() error {
			root, err := loadTree(stdin, path, schema)
			if err == nil {
				err = evaluator.EvaluateTree(gctx, root)
			}

			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", displayName(path), err)

				return nil
			}

			results[i] = report.Result{Source: displayName(path), Root: root}

			return nil
		})
	}

	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return results, nil
}

// checkStdinOnce rejects argument lists that name standard input twice.
func checkStdinOnce(paths []string) error {
	seen := false

	for _, path := range paths {
		if path != stdinPath {
			continue
		}

		if seen {
			return fmt.Errorf("%w: %q given more than once", ErrRepeatedStdin, stdinPath)
		}

		seen = true
	}

	return nil
}

func loadTree(stdin io.Reader, path string, schema *halstead.Schema) (*halstead.Scope, error) {
	if path == stdinPath {
		return scopetree.Decode(stdin, scopetree.FormatJSON, schema)
	}

	return scopetree.DecodeFile(path, schema)
}

func displayName(path string) string {
	if path == stdinPath {
		return "stdin"
	}

	return path
}

func writeReport(stdout io.Writer, output string, format report.Format, schema *halstead.Schema, results []report.Result) error {
	renderer := report.NewRenderer(schema)

	if output == "" {
		return renderer.Render(stdout, format, results)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	renderErr := renderer.Render(f, format, results)
	closeErr := f.Close()

	return errors.Join(renderErr, closeErr)
}

func writeTelemetry(path string, inv *invocation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create telemetry file: %w", err)
	}

	writeErr := observability.WriteMetrics(f, inv.registry)
	closeErr := f.Close()

	return errors.Join(writeErr, closeErr)
}

func countScopes(results []report.Result) int {
	total := 0

	for _, res := range results {
		total += len(report.Flatten(res.Root))
	}

	return total
}

func countErrors(err error) int {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return len(joined.Unwrap())
	}

	return 1
}
