package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerMeanOfFewSamples(t *testing.T) {
	tr := NewTracker[float64](4)
	tr.Observe(1)
	tr.Observe(2)
	tr.Observe(3)
	require.Equal(t, 2.0, tr.Mean())
	require.Equal(t, 3, tr.Count())
}

func TestTrackerEvictsOldestWhenFull(t *testing.T) {
	tr := NewTracker[float64](2)
	tr.Observe(10)
	tr.Observe(20)
	tr.Observe(30) // evicts 10
	require.Equal(t, 25.0, tr.Mean())
	require.Equal(t, 2, tr.Count())
}

func TestTrackerMeanOfEmptyIsZero(t *testing.T) {
	tr := NewTracker[float64](4)
	require.Equal(t, 0.0, tr.Mean())
}
