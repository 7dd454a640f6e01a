// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tree

import (
	"fmt"

	"github.com/galform/engine/galaxy"
)

// AssignFOFCentral finds the unique Type==0 galaxy in buf and points
// every other galaxy's CentralGal at its index (spec.md §4.I's
// FOF-global central assignment, run after join on every FOF member). A
// FOF with no central is legal only when every galaxy in it is an
// inherited orphan; more than one central is fatal.
func AssignFOFCentral(buf *galaxy.Array) error {
	central := -1
	for i := 0; i < buf.Len(); i++ {
		if buf.At(i).Type == galaxy.TypeCentral {
			if central != -1 {
				return fmt.Errorf("%w: indices %d and %d", ErrMultipleCentrals, central, i)
			}
			central = i
		}
	}

	if central == -1 {
		for i := 0; i < buf.Len(); i++ {
			if buf.At(i).Type != galaxy.TypeOrphan {
				return fmt.Errorf("tree: FOF group has no central but contains a non-orphan galaxy at index %d", i)
			}
		}
		return nil
	}

	for i := 0; i < buf.Len(); i++ {
		buf.At(i).CentralGal = central
	}
	return nil
}
