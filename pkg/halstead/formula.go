package halstead

import "math"

// Halstead formula constants.
const (
	// TimeConstant is the Stroud number: seconds of effort per elementary mental discrimination.
	TimeConstant = 18.0
	// BugConstant is the divisor of the delivered bugs estimate.
	BugConstant = 3000.0
	// BugExponent is the exponent applied to effort in the delivered bugs estimate.
	BugExponent = 2.0 / 3.0
	// DifficultyDivisor halves the distinct operator count in the difficulty formula.
	DifficultyDivisor = 2.0
	// DefaultWorkDurationSeconds makes Time a count of minutes.
	DefaultWorkDurationSeconds = 60.0
)

// formulaParams are the schema-level constants a formula may read.
type formulaParams struct {
	workDurationSeconds float64
}

// formula computes one derived metric from values already present on the same scope.
type formula struct {
	deps    []MetricID
	compute func(v Values, p formulaParams) float64
}

// formulas is the closed table of derived metrics.
// Every term that would take ln(0) or divide by zero collapses to 0 on its own.
var formulas = map[MetricID]formula{
	Vocabulary: {
		deps: []MetricID{DistinctOperands, DistinctOperators},
		compute: func(v Values, _ formulaParams) float64 {
			return v[DistinctOperands] + v[DistinctOperators]
		},
	},
	Length: {
		deps: []MetricID{TotalOperands, TotalOperators},
		compute: func(v Values, _ formulaParams) float64 {
			return v[TotalOperands] + v[TotalOperators]
		},
	},
	CalculatedLength: {
		deps: []MetricID{DistinctOperands, DistinctOperators},
		compute: func(v Values, _ formulaParams) float64 {
			return xLogX(v[DistinctOperands]) + xLogX(v[DistinctOperators])
		},
	},
	Volume: {
		deps: []MetricID{Vocabulary, Length},
		compute: func(v Values, _ formulaParams) float64 {
			if v[Vocabulary] == 0 {
				return 0
			}

			return v[Length] * math.Log(v[Vocabulary])
		},
	},
	Difficulty: {
		deps: []MetricID{DistinctOperators, TotalOperands, DistinctOperands},
		compute: func(v Values, _ formulaParams) float64 {
			// Only the operand term is guarded; it drops out when n1 is 0.
			value := v[DistinctOperators] / DifficultyDivisor
			if v[DistinctOperands] != 0 {
				value += v[TotalOperands] / v[DistinctOperands]
			}

			return value
		},
	},
	Effort: {
		deps: []MetricID{Volume, Difficulty},
		compute: func(v Values, _ formulaParams) float64 {
			return v[Volume] * v[Difficulty]
		},
	},
	Time: {
		deps: []MetricID{Effort},
		compute: func(v Values, p formulaParams) float64 {
			return v[Effort] / (TimeConstant * p.workDurationSeconds)
		},
	},
	Bugs: {
		deps: []MetricID{Effort},
		compute: func(v Values, _ formulaParams) float64 {
			return math.Pow(v[Effort], BugExponent) / BugConstant
		},
	},
}

// xLogX is x·ln(x) with the x = 0 term defined as 0.
func xLogX(x float64) float64 {
	if x == 0 {
		return 0
	}

	return x * math.Log(x)
}
