package galaxy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayAppendAndAt(t *testing.T) {
	a := NewArray(2)
	i0 := a.Append(Record{GalaxyNr: 0, Type: TypeCentral})
	i1 := a.Append(Record{GalaxyNr: 1, Type: TypeSatellite})

	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, 2, a.Len())
	require.Equal(t, int64(1), a.At(1).GalaxyNr)
}

func TestArrayTruncateKeepsCapacity(t *testing.T) {
	a := NewArray(4)
	a.Append(Record{})
	a.Append(Record{})
	a.Truncate()
	require.Equal(t, 0, a.Len())
	a.Append(Record{GalaxyNr: 9})
	require.Equal(t, int64(9), a.At(0).GalaxyNr)
}

func TestIsMerged(t *testing.T) {
	r := Record{MergeType: MergeNone}
	require.False(t, r.IsMerged())
	r.MergeType = MergeMajor
	require.True(t, r.IsMerged())
}
