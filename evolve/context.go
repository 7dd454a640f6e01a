package evolve

import (
	"fmt"

	"github.com/galform/engine/galaxy"
	"github.com/galform/engine/merge"
)

// RunParams are the subset of run-level parameters (spec.md §6) that a
// phase invocation may read but never mutate.
type RunParams struct {
	Steps int     // STEPS: sub-timesteps per snapshot interval
	G     float64 // gravitational constant in simulation units
}

// Context is passed by reference to every phase invocation. Read-only
// fields are set once per FOF group before the HALO phase; mutable-by-
// driver fields change as the driver advances through sub-timesteps.
type Context struct {
	// Read-only for the duration of one FOF group's evolution.
	HaloNr     int
	Redshift   float64
	HaloAge    float64
	Centralgal int
	Params     RunParams
	Galaxies   *galaxy.Array
	Queue      *merge.Queue
	Diag       *Diagnostics

	// Mutable by the driver between/within phase invocations.
	Step           int
	Time           float64
	DT             float64
	CurrentGalaxy  int // meaningful only during PhaseGalaxy
	CurrentPhase   Phase
}

// ErrContextInvalid is a caller-contract violation: the central galaxy
// named by centralgal does not satisfy the preconditions spec.md §4.F
// requires before a FOF group's pipeline may start. Fatal to the
// enclosing forest evolution (spec.md §7).
var ErrContextInvalid = fmt.Errorf("evolve: invalid evolution context")

// Validate checks the preconditions spec.md §4.F requires before pipeline
// start: a non-null galaxy array, 0 <= centralgal < ngal, and the central
// galaxy has Type == central and HaloNr == the context's halo.
func (c *Context) Validate() error {
	if c.Galaxies == nil {
		return fmt.Errorf("%w: nil galaxy array", ErrContextInvalid)
	}
	n := c.Galaxies.Len()
	if c.Centralgal < 0 || c.Centralgal >= n {
		return fmt.Errorf("%w: centralgal %d out of range [0,%d)", ErrContextInvalid, c.Centralgal, n)
	}
	central := c.Galaxies.At(c.Centralgal)
	if central.Type != galaxy.TypeCentral {
		return fmt.Errorf("%w: centralgal %d has Type %d, want central", ErrContextInvalid, c.Centralgal, central.Type)
	}
	if central.HaloNr != c.HaloNr {
		return fmt.Errorf("%w: centralgal %d HaloNr %d != context HaloNr %d", ErrContextInvalid, c.Centralgal, central.HaloNr, c.HaloNr)
	}
	return nil
}
