package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
	"github.com/Sumatoshi-tech/halstead/pkg/observability"
	"github.com/Sumatoshi-tech/halstead/pkg/scopetree"
)

// Tool name constants.
const (
	ToolNameEvaluate = "halstead_evaluate"
	ToolNameSchema   = "halstead_schema"
)

// MaxTreeInputBytes is the maximum accepted size of an inline tree document (4 MiB).
const MaxTreeInputBytes = 4 << 20

// Sentinel errors for tool input validation.
var (
	// ErrEmptyTree indicates the tree parameter is empty.
	ErrEmptyTree = errors.New("tree parameter is required and must not be empty")
	// ErrTreeTooLarge indicates the tree input exceeds the size limit.
	ErrTreeTooLarge = errors.New("tree input exceeds maximum size")
)

// EvaluateInput is the input schema for the halstead_evaluate tool.
type EvaluateInput struct {
	Tree                string  `json:"tree"                            jsonschema:"scope tree document: {id, kind, values, children}"`
	Format              string  `json:"format,omitempty"                jsonschema:"document format: json (default), yaml or toml"`
	WorkDurationSeconds float64 `json:"work_duration_seconds,omitempty" jsonschema:"seconds per reported time unit (default 60)"`
}

// SchemaInput is the input schema for the halstead_schema tool.
type SchemaInput struct{}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func validateEvaluateInput(input EvaluateInput) error {
	if strings.TrimSpace(input.Tree) == "" {
		return ErrEmptyTree
	}

	if len(input.Tree) > MaxTreeInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTreeTooLarge, len(input.Tree), MaxTreeInputBytes)
	}

	return nil
}

func (s *Server) schemaFor(input EvaluateInput) (*halstead.Schema, error) {
	if input.WorkDurationSeconds == 0 {
		return s.schema, nil
	}

	return halstead.NewSchema(halstead.WithWorkDurationSeconds(input.WorkDurationSeconds))
}

func (s *Server) handleEvaluate(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input EvaluateInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateEvaluateInput(input); err != nil {
		return errorResult(err)
	}

	format := scopetree.FormatJSON

	if input.Format != "" {
		parsed, err := scopetree.ParseFormat(input.Format)
		if err != nil {
			return errorResult(err)
		}

		format = parsed
	}

	schema, err := s.schemaFor(input)
	if err != nil {
		return errorResult(err)
	}

	root, err := scopetree.Decode(strings.NewReader(input.Tree), format, schema)
	if err != nil {
		return errorResult(err)
	}

	logger := observability.WithRunID(s.logger, observability.NewRunID())
	evaluator := halstead.NewEvaluator(schema,
		halstead.WithLogger(logger),
		halstead.WithTracer(s.evaluatorTracer()),
		halstead.WithRecorder(s.evaluations),
	)

	if err := evaluator.EvaluateTree(ctx, root); err != nil {
		logger.WarnContext(ctx, "evaluation rejected", "tool", ToolNameEvaluate, "error", err)

		return errorResult(err)
	}

	return jsonResult(scopetree.FromScope(root))
}

func (s *Server) handleSchema(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ SchemaInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return jsonResult(s.schema.Definitions())
}
