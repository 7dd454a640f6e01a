package galindex

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeBasic(t *testing.T) {
	idx, err := Compose(5, 2, 1, 1000, 1_000_000)
	require.NoError(t, err)
	require.Equal(t, int64(5+2*1000+1*1_000_000), idx)
}

func TestComposeRejectsNegativeComponents(t *testing.T) {
	_, err := Compose(-1, 0, 0, 10, 10)
	require.Error(t, err)
}

func TestComposeDetectsMultiplicationOverflow(t *testing.T) {
	// fileNr has no multiplier above it to range-check, so an oversized
	// fileNr*file_mulfac is the only way to reach a pure multiplication
	// overflow without first tripping the component-range check below.
	_, err := Compose(0, 0, math.MaxInt64, 1, 2)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestComposeDetectsAdditionOverflow(t *testing.T) {
	_, err := Compose(1, 0, 1, 2, math.MaxInt64)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestComposeOverflowScenarioSix(t *testing.T) {
	// spec.md §8 scenario 6: forest_mulfac=10, GalaxyNr=11. GalaxyNr alone
	// already spills into forestNr's digit — no arithmetic step overflows
	// int64, but the composition is fatal all the same.
	_, err := Compose(11, 0, 0, 10, 1000)
	require.ErrorIs(t, err, ErrComponentRange)
}

func TestComposeRejectsForestNrSpillingIntoFileDigit(t *testing.T) {
	// forestNr(5) >= file_mulfac(20)/forest_mulfac(10) == 2: forestNr
	// would collide with fileNr's digit even though nothing overflows.
	_, err := Compose(0, 5, 0, 10, 20)
	require.ErrorIs(t, err, ErrComponentRange)
}
