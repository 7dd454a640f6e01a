// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cosmology provides the default, spec-conformant implementation
// of the external cosmology collaborator (spec.md §6): flat-ΛCDM virial
// overdensity relations and a monotonic Age[snap] lookup table. It
// satisfies tree.Cosmology and evolve.AgeProvider so the engine is
// runnable end-to-end without an externally supplied plugin.
package cosmology

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/galform/engine/tree"
)

// Params are the flat-ΛCDM parameters the virial relations need, plus
// the simulation's unit system (gravitational constant and Hubble
// constant in those units).
type Params struct {
	Omega0    float64 // matter density parameter at z=0
	OmegaLambda float64
	Hubble    float64 // H0 in simulation units
	G         float64 // gravitational constant in simulation units

	// Age is a monotonically decreasing table of age at each snapshot
	// (spec.md §6's Age[snap]); index i is the age at snapshot i, so
	// Age[earlier] - Age[later] is the positive interval the evolution
	// driver splits into sub-timesteps.
	Age []float64

	// Redshift is the matching per-snapshot redshift table, used by the
	// overdensity relation; must be the same length as Age.
	Redshift []float64
}

// ErrMismatchedTables is a caller-contract violation: Age and Redshift
// must describe the same snapshots.
var ErrMismatchedTables = fmt.Errorf("cosmology: Age and Redshift tables have different lengths")

// Validate checks the invariants Age and the virial relations rely on: a
// non-empty, monotonically decreasing Age table of the same length as
// Redshift.
func (p Params) Validate() error {
	if len(p.Age) != len(p.Redshift) {
		return ErrMismatchedTables
	}
	if len(p.Age) == 0 {
		return fmt.Errorf("cosmology: empty Age table")
	}
	sorted := make([]float64, len(p.Age))
	copy(sorted, p.Age)
	floats.Sort(sorted)
	floats.Reverse(sorted)
	if !floats.Equal(sorted, p.Age) {
		return fmt.Errorf("cosmology: Age table is not monotonically decreasing")
	}
	return nil
}

// Cosmology is the default implementation, closing over Params.
type Cosmology struct {
	params Params
}

// New validates params and returns a Cosmology, or an error if the Age
// table is malformed.
func New(params Params) (*Cosmology, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Cosmology{params: params}, nil
}

// Age returns the cosmic age at snapNum, satisfying evolve.AgeProvider.
// Out-of-range snapshots clamp to the nearest table end rather than
// panicking, matching spec.md §7's "unknown option" handling (logged
// once upstream, never a crash here).
func (c *Cosmology) Age(snapNum int) float64 {
	if snapNum < 0 {
		return c.params.Age[0]
	}
	if snapNum >= len(c.params.Age) {
		return c.params.Age[len(c.params.Age)-1]
	}
	return c.params.Age[snapNum]
}

// redshiftAt returns the redshift at a halo's snapshot, using the same
// clamping rule as Age.
func (c *Cosmology) redshiftAt(snapNum int) float64 {
	if snapNum < 0 {
		return c.params.Redshift[0]
	}
	if snapNum >= len(c.params.Redshift) {
		return c.params.Redshift[len(c.params.Redshift)-1]
	}
	return c.params.Redshift[snapNum]
}

// overdensity returns the flat-LCDM virial overdensity Delta_c(z) via the
// Bryan & Norman (1998) fitting formula, the standard closure used to
// turn a halo's particle count into a physical virial mass/radius/velocity.
func (c *Cosmology) overdensity(z float64) float64 {
	omegaZ := c.params.Omega0 * math.Pow(1+z, 3) /
		(c.params.Omega0*math.Pow(1+z, 3) + c.params.OmegaLambda)
	x := omegaZ - 1
	return 18*math.Pi*math.Pi + 82*x - 39*x*x
}

// hubbleAt returns H(z) for a flat LCDM cosmology.
func (c *Cosmology) hubbleAt(z float64) float64 {
	return c.params.Hubble * math.Sqrt(c.params.Omega0*math.Pow(1+z, 3)+c.params.OmegaLambda)
}

// virialVelocityFromVmax treats the halo's maximum circular velocity as
// the virial velocity proxy, the common approximation when no separate
// virial radius measurement is available from the tree file.
func (c *Cosmology) virialVelocityFromVmax(vmax float64) float64 {
	return vmax
}

// VirialVelocity implements tree.Cosmology.
func (c *Cosmology) VirialVelocity(halo *tree.Halo) float64 {
	return c.virialVelocityFromVmax(halo.Vmax)
}

// VirialRadius implements tree.Cosmology. Combining the virial theorem
// (Mvir = Vvir^2 * Rvir / G) with the overdensity definition
// (Mvir = (4/3) pi Delta_c(z) rho_crit(z) Rvir^3, rho_crit = 3H^2/8*pi*G)
// gives Rvir = Vvir / (H(z) * sqrt(Delta_c(z)/2)).
func (c *Cosmology) VirialRadius(halo *tree.Halo) float64 {
	vvir := c.VirialVelocity(halo)
	if vvir <= 0 {
		return 0
	}
	z := c.redshiftAt(halo.SnapNum)
	h := c.hubbleAt(z)
	delta := c.overdensity(z)
	if h <= 0 || delta <= 0 {
		return 0
	}
	return vvir / (h * math.Sqrt(delta/2))
}

// VirialMass implements tree.Cosmology: Mvir = Vvir^2 * Rvir / G follows
// directly once VirialRadius is fixed above.
func (c *Cosmology) VirialMass(halo *tree.Halo) float64 {
	if halo.Len <= 0 {
		return 0
	}
	vvir := c.VirialVelocity(halo)
	rvir := c.VirialRadius(halo)
	if vvir <= 0 || rvir <= 0 {
		return 0
	}
	return vvir * vvir * rvir / c.params.G
}
