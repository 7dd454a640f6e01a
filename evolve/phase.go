// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package evolve implements the phased physics pipeline and the driver
// that runs it per FOF group (spec.md §4.E, §4.F, §4.G, §4.J): the
// ordered step registry, the per-group runtime context passed to every
// phase invocation, per-halo diagnostics, and the four-phase /
// sub-timestep evolution loop itself.
package evolve

// Phase is one of the four well-defined points in a halo's evolution at
// which pipeline steps may run.
type Phase int

const (
	PhaseHalo Phase = 1 << iota
	PhaseGalaxy
	PhasePost
	PhaseFinal
)

func (p Phase) String() string {
	switch p {
	case PhaseHalo:
		return "HALO"
	case PhaseGalaxy:
		return "GALAXY"
	case PhasePost:
		return "POST"
	case PhaseFinal:
		return "FINAL"
	default:
		return "UNKNOWN"
	}
}

// allPhases enumerates every phase, in the fixed dispatch order
// spec.md §4.J's driver loop requires: HALO once, then GALAXY/POST
// alternating across sub-timesteps, then FINAL once. ExecutePhase is
// called once per occurrence by the driver; no code in this package
// iterates this slice.
var allPhases = [...]Phase{PhaseHalo, PhaseGalaxy, PhasePost, PhaseFinal}
