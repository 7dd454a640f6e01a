// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package galindex composes the globally unique GalaxyIndex spec.md §6
// names: GalaxyIndex = GalaxyNr + forest_mulfac*original_treenr +
// file_mulfac*original_filenr, with every multiplication and the final
// addition range-checked against int64 overflow, and each component
// range-checked against its multiplier so the packed digits cannot
// collide even when no individual step overflows.
package galindex

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrOverflow is the fatal error spec.md §6 requires: any multiplication
// or addition in the composition overflows 64 bits.
var ErrOverflow = errors.New("galindex: composition overflows int64")

// ErrComponentRange is the fatal error spec.md §6 Scenario #6 requires: a
// component is large enough to spill into the digit above it in the
// composition, making the result ambiguous even though the arithmetic
// itself does not overflow int64 (e.g. GalaxyNr >= forest_mulfac).
var ErrComponentRange = errors.New("galindex: component out of range for its multiplier")

// Compose builds a GalaxyIndex from its forest-local components.
// galaxyNr, forestNr, fileNr must be non-negative; forestMulfac and
// fileMulfac are configured run parameters (config.Parameters'
// ForestMulFac/FileMulFac). galaxyNr must be strictly less than
// forestMulfac, and forestNr strictly less than fileMulfac/forestMulfac,
// or the packed digits collide and GalaxyIndex stops being unique
// (spec.md §6 Scenario #6, Testable Property #5).
func Compose(galaxyNr, forestNr, fileNr, forestMulfac, fileMulfac int64) (int64, error) {
	if galaxyNr < 0 || forestNr < 0 || fileNr < 0 {
		return 0, fmt.Errorf("galindex: negative component (galaxyNr=%d forestNr=%d fileNr=%d)", galaxyNr, forestNr, fileNr)
	}
	if galaxyNr >= forestMulfac {
		return 0, fmt.Errorf("%w: galaxyNr(%d) >= forest_mulfac(%d)", ErrComponentRange, galaxyNr, forestMulfac)
	}
	if forestMulfac > 0 && forestNr >= fileMulfac/forestMulfac {
		return 0, fmt.Errorf("%w: forestNr(%d) >= file_mulfac/forest_mulfac(%d)", ErrComponentRange, forestNr, fileMulfac/forestMulfac)
	}

	forestTerm, overflow := mulOverflows(forestMulfac, forestNr)
	if overflow {
		return 0, fmt.Errorf("%w: forest_mulfac(%d)*forestNr(%d)", ErrOverflow, forestMulfac, forestNr)
	}

	fileTerm, overflow := mulOverflows(fileMulfac, fileNr)
	if overflow {
		return 0, fmt.Errorf("%w: file_mulfac(%d)*fileNr(%d)", ErrOverflow, fileMulfac, fileNr)
	}

	sum, overflow := addOverflows(galaxyNr, forestTerm)
	if overflow {
		return 0, fmt.Errorf("%w: galaxyNr(%d)+forestTerm(%d)", ErrOverflow, galaxyNr, forestTerm)
	}

	sum, overflow = addOverflows(sum, fileTerm)
	if overflow {
		return 0, fmt.Errorf("%w: +fileTerm(%d)", ErrOverflow, fileTerm)
	}

	return sum, nil
}

// mulOverflows returns a*b and whether the multiplication overflowed
// int64, using bits.Mul64 on the unsigned magnitudes since a
// and b are guaranteed non-negative by Compose's caller contract.
func mulOverflows(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(1)<<63-1 {
		return 0, true
	}
	return int64(lo), false
}

// addOverflows returns a+b and whether the addition overflowed int64.
func addOverflows(a, b int64) (int64, bool) {
	sum := a + b
	if sum < a || sum < b {
		return 0, true
	}
	return sum, false
}
