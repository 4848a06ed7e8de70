package halstead

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidInput marks a base value that is negative, NaN or infinite,
	// or a derived value that would not be finite.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCancelled is returned when tree evaluation was cancelled by the caller.
	ErrCancelled = errors.New("evaluation cancelled")
	// ErrUnknownMetric is returned for a key outside the closed metric set.
	ErrUnknownMetric = errors.New("unknown halstead metric")
	// ErrInvalidWorkDuration is returned for a non-positive work-duration unit.
	ErrInvalidWorkDuration = errors.New("work duration seconds must be positive and finite")
	// ErrCyclicSchema is returned when metric dependencies do not form a DAG.
	ErrCyclicSchema = errors.New("metric dependencies are cyclic")
	// ErrNilScope is returned when evaluation is asked to process a nil scope.
	ErrNilScope = errors.New("scope is nil")
	// ErrSharedScope is returned when the same scope is reached twice during a tree walk.
	ErrSharedScope = errors.New("scope appears more than once in the tree")
)

// InvalidInputError names the scope and metric that made an evaluation fail.
type InvalidInputError struct {
	ScopeID string
	Metric  MetricID
	Value   float64
	Reason  string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: scope %q, %s = %v (%s)", ErrInvalidInput, e.ScopeID, e.Metric, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
