package halstead

import (
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/Sumatoshi-tech/halstead/pkg/halstead"

// Evaluator computes derived metrics on single scopes and on scope trees.
// It keeps no state between calls and may be used concurrently on disjoint trees.
type Evaluator struct {
	schema   *Schema
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder Recorder
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for per-scope debug records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the tracer that spans each tree evaluation.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Evaluator) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithRecorder sets the sink for evaluation outcome metrics.
func WithRecorder(recorder Recorder) Option {
	return func(e *Evaluator) {
		e.recorder = recorder
	}
}

// NewEvaluator creates an evaluator bound to schema. A nil schema means Default().
func NewEvaluator(schema *Schema, opts ...Option) *Evaluator {
	if schema == nil {
		schema = Default()
	}

	e := &Evaluator{
		schema: schema,
		logger: slog.New(slog.DiscardHandler),
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Schema returns the schema the evaluator computes with.
func (e *Evaluator) Schema() *Schema {
	return e.schema
}

// Evaluate fills in every derived metric of scope from its base metrics.
// Missing base metrics are treated as 0 and written back. The value map is
// only modified when the whole computation succeeds, so repeated calls give
// identical maps.
func (e *Evaluator) Evaluate(scope *Scope) error {
	if scope == nil {
		return ErrNilScope
	}

	values, err := e.compute(scope.ID, scope.Values)
	if err != nil {
		return err
	}

	commit(scope, values)

	return nil
}

// compute returns a fresh map with all twelve metrics computed from the base values of in.
func (e *Evaluator) compute(scopeID string, in Values) (Values, error) {
	out := make(Values, len(e.schema.order))

	for _, id := range e.schema.base {
		value := in[id]

		err := checkBase(scopeID, id, value)
		if err != nil {
			return nil, err
		}

		out[id] = value
	}

	for _, id := range e.schema.derived {
		value := formulas[id].compute(out, e.schema.params)
		if !isFinite(value) {
			return nil, &InvalidInputError{ScopeID: scopeID, Metric: id, Value: value, Reason: "result is not finite"}
		}

		out[id] = value
	}

	return out, nil
}

func checkBase(scopeID string, id MetricID, value float64) error {
	switch {
	case math.IsNaN(value):
		return &InvalidInputError{ScopeID: scopeID, Metric: id, Value: value, Reason: "not a number"}
	case math.IsInf(value, 0):
		return &InvalidInputError{ScopeID: scopeID, Metric: id, Value: value, Reason: "infinite"}
	case value < 0:
		return &InvalidInputError{ScopeID: scopeID, Metric: id, Value: value, Reason: "negative"}
	default:
		return nil
	}
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// commit writes computed values into the scope, keeping unrelated host keys.
func commit(scope *Scope, values Values) {
	if scope.Values == nil {
		scope.Values = make(Values, len(values))
	}

	for id, value := range values {
		scope.Values[id] = value
	}
}
