package halstead_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

func TestSchema_AllMetricsOrder(t *testing.T) {
	t.Parallel()

	want := []halstead.MetricID{
		"halstead_total_operands",
		"halstead_distinct_operands",
		"halstead_total_operators",
		"halstead_distinct_operators",
		"halstead_vocabulary",
		"halstead_length",
		"halstead_calculated_length",
		"halstead_volume",
		"halstead_difficulty",
		"halstead_effort",
		"halstead_time",
		"halstead_bugs",
	}

	assert.Equal(t, want, halstead.Default().AllMetrics())
}

func TestSchema_OrderRespectsDependencies(t *testing.T) {
	t.Parallel()

	schema := halstead.Default()
	position := make(map[halstead.MetricID]int)

	for i, id := range schema.AllMetrics() {
		position[id] = i
	}

	for _, id := range schema.AllMetrics() {
		for _, dep := range schema.Dependencies(id) {
			assert.Less(t, position[dep], position[id], "%s must precede %s", dep, id)
		}
	}
}

func TestSchema_Kinds(t *testing.T) {
	t.Parallel()

	schema := halstead.Default()

	tests := map[halstead.MetricID]halstead.ValueKind{
		halstead.TotalOperands:     halstead.KindIntegerCount,
		halstead.DistinctOperands:  halstead.KindIntegerCount,
		halstead.TotalOperators:    halstead.KindIntegerCount,
		halstead.DistinctOperators: halstead.KindIntegerCount,
		halstead.Vocabulary:        halstead.KindIntegerCount,
		halstead.Length:            halstead.KindIntegerCount,
		halstead.CalculatedLength:  halstead.KindReal,
		halstead.Volume:            halstead.KindReal,
		halstead.Difficulty:        halstead.KindReal,
		halstead.Effort:            halstead.KindReal,
		halstead.Time:              halstead.KindWorkDuration,
		halstead.Bugs:              halstead.KindReal,
	}

	for id, kind := range tests {
		assert.Equal(t, kind, schema.Kind(id), id)
	}
}

func TestSchema_ClassAndAggregation(t *testing.T) {
	t.Parallel()

	schema := halstead.Default()

	assert.Len(t, schema.BaseMetrics(), 4)
	assert.Len(t, schema.DerivedMetrics(), 8)

	for _, id := range schema.BaseMetrics() {
		assert.Equal(t, halstead.ClassBase, schema.Class(id))
		assert.Equal(t, halstead.AggregationSumOfChildren, schema.Aggregation(id))
		assert.Empty(t, schema.Dependencies(id))
	}

	for _, id := range schema.DerivedMetrics() {
		assert.Equal(t, halstead.ClassDerived, schema.Class(id))
		assert.Equal(t, halstead.AggregationNone, schema.Aggregation(id))
		assert.NotEmpty(t, schema.Dependencies(id))
	}
}

func TestSchema_Dependencies(t *testing.T) {
	t.Parallel()

	schema := halstead.Default()

	tests := map[halstead.MetricID][]halstead.MetricID{
		halstead.Vocabulary:       {halstead.DistinctOperands, halstead.DistinctOperators},
		halstead.Length:           {halstead.TotalOperands, halstead.TotalOperators},
		halstead.CalculatedLength: {halstead.DistinctOperands, halstead.DistinctOperators},
		halstead.Volume:           {halstead.Vocabulary, halstead.Length},
		halstead.Difficulty:       {halstead.DistinctOperators, halstead.TotalOperands, halstead.DistinctOperands},
		halstead.Effort:           {halstead.Volume, halstead.Difficulty},
		halstead.Time:             {halstead.Effort},
		halstead.Bugs:             {halstead.Effort},
	}

	for id, deps := range tests {
		assert.ElementsMatch(t, deps, schema.Dependencies(id), id)
	}
}

func TestSchema_DependenciesReturnsCopy(t *testing.T) {
	t.Parallel()

	schema := halstead.Default()

	deps := schema.Dependencies(halstead.Effort)
	deps[0] = halstead.Bugs

	assert.Equal(t, halstead.Volume, schema.Dependencies(halstead.Effort)[0])
}

func TestSchema_UnknownMetricPanics(t *testing.T) {
	t.Parallel()

	schema := halstead.Default()

	assert.Panics(t, func() { schema.Kind("halstead_unknown") })
	assert.Panics(t, func() { schema.Class("volume") })
	assert.Panics(t, func() { schema.Dependencies("") })
	assert.Panics(t, func() { schema.Aggregation("halstead_loc") })
}

func TestSchema_Lookup(t *testing.T) {
	t.Parallel()

	schema := halstead.Default()

	def, err := schema.Lookup("halstead_time")
	require.NoError(t, err)
	assert.Equal(t, halstead.Time, def.ID)
	assert.Equal(t, "Time to program", def.Label)
	assert.Equal(t, "time", def.Name)

	def, err = schema.Lookup("distinct_operators")
	require.NoError(t, err)
	assert.Equal(t, halstead.DistinctOperators, def.ID)

	_, err = schema.Lookup("halstead_maintainability")
	require.ErrorIs(t, err, halstead.ErrUnknownMetric)
}

func TestSchema_DefinitionMetadata(t *testing.T) {
	t.Parallel()

	for _, def := range halstead.Default().Definitions() {
		assert.Equal(t, halstead.Domain, def.Domain)
		assert.Equal(t, halstead.DirectionWorst, def.Direction)
		assert.True(t, def.Qualitative)
		assert.NotEmpty(t, def.Label)
		assert.Equal(t, "halstead_"+def.Name, string(def.ID))
	}
}

func TestNewSchema_WorkDuration(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 60.0, halstead.Default().WorkDurationSeconds(), 0)

	schema, err := halstead.NewSchema(halstead.WithWorkDurationSeconds(1))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, schema.WorkDurationSeconds(), 0)
	assert.Equal(t, halstead.Default().AllMetrics(), schema.AllMetrics())

	for _, bad := range []float64{0, -60} {
		_, err = halstead.NewSchema(halstead.WithWorkDurationSeconds(bad))
		require.ErrorIs(t, err, halstead.ErrInvalidWorkDuration)
	}
}

func TestEnumStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "integer-count", halstead.KindIntegerCount.String())
	assert.Equal(t, "real", halstead.KindReal.String())
	assert.Equal(t, "work-duration", halstead.KindWorkDuration.String())
	assert.Equal(t, "base", halstead.ClassBase.String())
	assert.Equal(t, "derived", halstead.ClassDerived.String())
	assert.Equal(t, "sum-of-children", halstead.AggregationSumOfChildren.String())
	assert.Equal(t, "none", halstead.AggregationNone.String())
	assert.Equal(t, "worst", halstead.DirectionWorst.String())

	text, err := halstead.KindWorkDuration.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "work-duration", string(text))
}
