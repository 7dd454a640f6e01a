// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tree

import "errors"

// ErrMultipleCentrals is the fatal invariant violation spec.md §4.I
// names: a FOF group produced more than one Type==0 galaxy after join.
var ErrMultipleCentrals = errors.New("tree: multiple centrals in one FOF group")

// ErrMultipleCentralsInHalo is the per-halo variant of the same check,
// run before FOF-global assignment (spec.md §4.I step 4).
var ErrMultipleCentralsInHalo = errors.New("tree: multiple Type<=1 galaxies carried into one halo")
