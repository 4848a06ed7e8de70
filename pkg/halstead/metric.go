package halstead

import (
	"fmt"
)

// MetricID is the stable key of a Halstead metric. Hosts persist it unchanged.
type MetricID string

// The twelve Halstead metric keys.
const (
	TotalOperands     MetricID = "halstead_total_operands"
	DistinctOperands  MetricID = "halstead_distinct_operands"
	TotalOperators    MetricID = "halstead_total_operators"
	DistinctOperators MetricID = "halstead_distinct_operators"
	Vocabulary        MetricID = "halstead_vocabulary"
	Length            MetricID = "halstead_length"
	CalculatedLength  MetricID = "halstead_calculated_length"
	Volume            MetricID = "halstead_volume"
	Difficulty        MetricID = "halstead_difficulty"
	Effort            MetricID = "halstead_effort"
	Time              MetricID = "halstead_time"
	Bugs              MetricID = "halstead_bugs"
)

// keyPrefix is shared by every metric key.
const keyPrefix = "halstead_"

// Domain is the reporting domain every Halstead metric belongs to.
const Domain = "Halstead"

// ShortName returns the key without the "halstead_" prefix.
func (id MetricID) ShortName() string {
	return string(id)[len(keyPrefix):]
}

// ValueKind tells the host how to interpret a stored value.
type ValueKind int

// Value kinds.
const (
	KindIntegerCount ValueKind = iota
	KindReal
	// KindWorkDuration is a scalar the host reads as work-duration units (minutes by default).
	KindWorkDuration
)

var valueKindNames = [...]string{"integer-count", "real", "work-duration"}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindNames) {
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}

	return valueKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k ValueKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Class separates externally supplied metrics from computed ones.
type Class int

// Metric classes.
const (
	ClassBase Class = iota
	ClassDerived
)

func (c Class) String() string {
	switch c {
	case ClassBase:
		return "base"
	case ClassDerived:
		return "derived"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Aggregation is the rule that produces a parent value from its children.
type Aggregation int

// Aggregation rules.
const (
	// AggregationNone means parents recompute the metric from their own values.
	AggregationNone Aggregation = iota
	// AggregationSumOfChildren sums the children, treating absent values as 0.
	AggregationSumOfChildren
)

func (a Aggregation) String() string {
	switch a {
	case AggregationNone:
		return "none"
	case AggregationSumOfChildren:
		return "sum-of-children"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Aggregation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Direction tells reporting which way a value gets worse.
type Direction int

// Directions.
const (
	DirectionWorst Direction = -1
	DirectionNone  Direction = 0
	DirectionBest  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionWorst:
		return "worst"
	case DirectionNone:
		return "none"
	case DirectionBest:
		return "best"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Definition describes one metric of the schema.
type Definition struct {
	ID           MetricID    `json:"key"          yaml:"key"`
	Name         string      `json:"name"         yaml:"name"`
	Label        string      `json:"label"        yaml:"label"`
	Domain       string      `json:"domain"       yaml:"domain"`
	Dependencies []MetricID  `json:"dependencies" yaml:"dependencies"`
	Kind         ValueKind   `json:"kind"         yaml:"kind"`
	Class        Class       `json:"class"        yaml:"class"`
	Aggregation  Aggregation `json:"aggregation"  yaml:"aggregation"`
	Direction    Direction   `json:"direction"    yaml:"direction"`
	Qualitative  bool        `json:"qualitative"  yaml:"qualitative"`
}

// Values maps metric keys to their numeric value on one scope.
type Values map[MetricID]float64

// Clone returns an independent copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}

	return out
}
