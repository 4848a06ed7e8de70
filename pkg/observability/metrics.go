package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "halstead.requests.total"
	metricRequestDuration  = "halstead.request.duration.seconds"
	metricErrorsTotal      = "halstead.errors.total"
	metricInflightRequests = "halstead.inflight.requests"

	metricScopesEvaluated = "halstead.scopes.evaluated"
	metricEvaluations     = "halstead.evaluations.total"
	metricInvalidInputs   = "halstead.invalid_inputs"

	attrOp      = "op"
	attrStatus  = "status"
	attrOutcome = "outcome"

	// StatusOK marks a request that completed without error.
	StatusOK = "ok"
	// StatusError marks a request that returned an error.
	StatusError = "error"

	// outcomeInvalidInput mirrors the tree evaluator's invalid input outcome label.
	outcomeInvalidInput = "invalid_input"
)

// durationBucketBoundaries spans 1ms to 60s: a single tree evaluation is
// usually sub-millisecond, decoding a large project file can take seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics
// of CLI commands and MCP tool calls.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
	}, nil
}

// RecordRequest records a completed request. A nil receiver is a no-op.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	if rm == nil {
		return func() {}
	}

	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// EvaluationMetrics counts tree evaluations and the scopes they touched.
// It satisfies the halstead evaluator's Recorder interface.
type EvaluationMetrics struct {
	scopesEvaluated metric.Int64Counter
	evaluations     metric.Int64Counter
	invalidInputs   metric.Int64Counter
}

// NewEvaluationMetrics creates the evaluation instruments from the given meter.
func NewEvaluationMetrics(mt metric.Meter) (*EvaluationMetrics, error) {
	scopes, err := mt.Int64Counter(metricScopesEvaluated,
		metric.WithDescription("Scopes whose derived metrics were committed"),
		metric.WithUnit("{scope}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricScopesEvaluated, err)
	}

	evals, err := mt.Int64Counter(metricEvaluations,
		metric.WithDescription("Tree evaluations by outcome"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricEvaluations, err)
	}

	invalid, err := mt.Int64Counter(metricInvalidInputs,
		metric.WithDescription("Tree evaluations rejected for invalid base values"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInvalidInputs, err)
	}

	return &EvaluationMetrics{
		scopesEvaluated: scopes,
		evaluations:     evals,
		invalidInputs:   invalid,
	}, nil
}

// RecordEvaluation records one tree evaluation. A nil receiver is a no-op.
func (em *EvaluationMetrics) RecordEvaluation(ctx context.Context, scopes int, outcome string) {
	if em == nil {
		return
	}

	em.evaluations.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))

	if scopes > 0 {
		em.scopesEvaluated.Add(ctx, int64(scopes))
	}

	if outcome == outcomeInvalidInput {
		em.invalidInputs.Add(ctx, 1)
	}
}
