package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAveragerReadsZeroBeforeObserve(t *testing.T) {
	a := NewAverager()
	require.Equal(t, float64(0), a.Read())
	a.Observe(10)
	a.Observe(20)
	require.Equal(t, float64(15), a.Read())
}

func TestCounterAddAndInc(t *testing.T) {
	c := NewCounter()
	c.Inc()
	c.Add(4)
	require.Equal(t, int64(5), c.Read())
}

func TestRegistryGetMissingCounter(t *testing.T) {
	r := NewRegistry()
	_, err := r.GetCounter("missing")
	require.Error(t, err)

	r.NewCounter("galaxies_committed")
	got, err := r.GetCounter("galaxies_committed")
	require.NoError(t, err)
	got.Add(3)
	require.Equal(t, int64(3), got.Read())
}
