package halstead_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/halstead/pkg/halstead"
)

func TestScope_WalkIsPostOrder(t *testing.T) {
	t.Parallel()

	root, _, _ := twoLeafTree()

	var visited []string

	err := root.Walk(func(s *halstead.Scope) error {
		visited = append(visited, s.ID)

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"pkg/a.go", "pkg/b.go", "pkg"}, visited)
}

func TestScope_WalkStopsOnError(t *testing.T) {
	t.Parallel()

	root, _, _ := twoLeafTree()
	stop := errors.New("stop")

	count := 0
	err := root.Walk(func(*halstead.Scope) error {
		count++

		return stop
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}

func TestScope_Find(t *testing.T) {
	t.Parallel()

	root, _, l2 := twoLeafTree()

	assert.Same(t, l2, root.Find("pkg/b.go"))
	assert.Same(t, root, root.Find("pkg"))
	assert.Nil(t, root.Find("missing"))
}

func TestCounts_Values(t *testing.T) {
	t.Parallel()

	values := halstead.Counts{DistinctOperands: 1, DistinctOperators: 2, TotalOperands: 3, TotalOperators: 4}.Values()

	assert.Equal(t, halstead.Values{
		halstead.DistinctOperands:  1,
		halstead.DistinctOperators: 2,
		halstead.TotalOperands:     3,
		halstead.TotalOperators:    4,
	}, values)
}
