// Package halstead computes Halstead complexity measures from per-scope operand
// and operator counts and aggregates them through a tree of analysis scopes.
package halstead

import (
	"fmt"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/halstead/pkg/toposort"
)

// catalogue lists every metric in registration order: base first, then derived.
var catalogue = []Definition{
	baseDefinition(TotalOperands, "Total operands"),
	baseDefinition(DistinctOperands, "Distinct operands"),
	baseDefinition(TotalOperators, "Total operators"),
	baseDefinition(DistinctOperators, "Distinct operators"),
	derivedDefinition(Vocabulary, "Vocabulary", KindIntegerCount),
	derivedDefinition(Length, "Length", KindIntegerCount),
	derivedDefinition(CalculatedLength, "Calculated length", KindReal),
	derivedDefinition(Volume, "Volume", KindReal),
	derivedDefinition(Difficulty, "Difficulty", KindReal),
	derivedDefinition(Effort, "Effort", KindReal),
	derivedDefinition(Time, "Time to program", KindWorkDuration),
	derivedDefinition(Bugs, "Estimated bugs", KindReal),
}

func baseDefinition(id MetricID, label string) Definition {
	return Definition{
		ID:           id,
		Name:         id.ShortName(),
		Label:        label,
		Domain:       Domain,
		Dependencies: []MetricID{},
		Kind:         KindIntegerCount,
		Class:        ClassBase,
		Aggregation:  AggregationSumOfChildren,
		Direction:    DirectionWorst,
		Qualitative:  true,
	}
}

func derivedDefinition(id MetricID, label string, kind ValueKind) Definition {
	return Definition{
		ID:           id,
		Name:         id.ShortName(),
		Label:        label,
		Domain:       Domain,
		Dependencies: slices.Clone(formulas[id].deps),
		Kind:         kind,
		Class:        ClassDerived,
		Aggregation:  AggregationNone,
		Direction:    DirectionWorst,
		Qualitative:  true,
	}
}

// Schema is the immutable registry of the twelve metrics.
// It is safe to share between goroutines.
type Schema struct {
	defs    map[MetricID]Definition
	names   map[string]MetricID
	order   []MetricID
	base    []MetricID
	derived []MetricID
	params  formulaParams
}

// SchemaOption configures NewSchema.
type SchemaOption func(*formulaParams)

// WithWorkDurationSeconds sets how many seconds one reported unit of Time stands for.
// The default is 60, so Time is reported in minutes.
func WithWorkDurationSeconds(seconds float64) SchemaOption {
	return func(p *formulaParams) {
		p.workDurationSeconds = seconds
	}
}

var defaultSchema = mustSchema()

// Default returns the shared schema with Time reported in minutes.
func Default() *Schema {
	return defaultSchema
}

func mustSchema() *Schema {
	s, err := NewSchema()
	if err != nil {
		panic(err)
	}

	return s
}

// NewSchema builds a schema and derives its evaluation order from the dependency graph.
func NewSchema(opts ...SchemaOption) (*Schema, error) {
	params := formulaParams{workDurationSeconds: DefaultWorkDurationSeconds}
	for _, opt := range opts {
		opt(&params)
	}

	if params.workDurationSeconds <= 0 || math.IsInf(params.workDurationSeconds, 0) || math.IsNaN(params.workDurationSeconds) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkDuration, params.workDurationSeconds)
	}

	graph := toposort.NewGraph()
	defs := make(map[MetricID]Definition, len(catalogue))
	names := make(map[string]MetricID, 2*len(catalogue))

	for _, def := range catalogue {
		graph.AddNode(string(def.ID))
		defs[def.ID] = def
		names[string(def.ID)] = def.ID
		names[def.Name] = def.ID
	}

	for _, def := range catalogue {
		for _, dep := range def.Dependencies {
			graph.AddEdge(string(dep), string(def.ID))
		}
	}

	sorted, err := graph.Sorted()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCyclicSchema, err)
	}

	s := &Schema{
		defs:   defs,
		names:  names,
		order:  make([]MetricID, 0, len(sorted)),
		params: params,
	}

	for _, name := range sorted {
		id := MetricID(name)
		s.order = append(s.order, id)

		if defs[id].Class == ClassBase {
			s.base = append(s.base, id)
		} else {
			s.derived = append(s.derived, id)
		}
	}

	return s, nil
}

// AllMetrics returns the twelve keys in topological order: base metrics first,
// then derived metrics after everything they depend on.
func (s *Schema) AllMetrics() []MetricID {
	return slices.Clone(s.order)
}

// BaseMetrics returns the externally supplied metrics in schema order.
func (s *Schema) BaseMetrics() []MetricID {
	return slices.Clone(s.base)
}

// DerivedMetrics returns the computed metrics in evaluation order.
func (s *Schema) DerivedMetrics() []MetricID {
	return slices.Clone(s.derived)
}

// Definitions returns every definition in schema order.
func (s *Schema) Definitions() []Definition {
	out := make([]Definition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.Definition(id))
	}

	return out
}

// Definition returns the definition of id. It panics if id is not one of the twelve keys.
func (s *Schema) Definition(id MetricID) Definition {
	def := s.mustGet(id)
	def.Dependencies = slices.Clone(def.Dependencies)

	return def
}

// Kind returns the value kind of id. It panics on an unknown id.
func (s *Schema) Kind(id MetricID) ValueKind {
	return s.mustGet(id).Kind
}

// Class returns whether id is base or derived. It panics on an unknown id.
func (s *Schema) Class(id MetricID) Class {
	return s.mustGet(id).Class
}

// Dependencies returns the metrics id is computed from; empty for base metrics.
// It panics on an unknown id.
func (s *Schema) Dependencies(id MetricID) []MetricID {
	return slices.Clone(s.mustGet(id).Dependencies)
}

// Aggregation returns how parents obtain id from their children. It panics on an unknown id.
func (s *Schema) Aggregation(id MetricID) Aggregation {
	return s.mustGet(id).Aggregation
}

// WorkDurationSeconds returns the number of seconds per reported unit of Time.
func (s *Schema) WorkDurationSeconds() float64 {
	return s.params.workDurationSeconds
}

// Lookup resolves a key ("halstead_volume") or short name ("volume") supplied by a host.
func (s *Schema) Lookup(name string) (Definition, error) {
	id, ok := s.names[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}

	return s.Definition(id), nil
}

// Has reports whether id is one of the twelve keys.
func (s *Schema) Has(id MetricID) bool {
	_, ok := s.defs[id]

	return ok
}

func (s *Schema) mustGet(id MetricID) Definition {
	def, ok := s.defs[id]
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrUnknownMetric, id))
	}

	return def
}
