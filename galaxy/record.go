// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package galaxy defines the structural carrier of one galaxy at one
// snapshot (spec.md §3 "Galaxy record") and the growable array that holds
// one snapshot's worth of them (spec.md §4.C).
package galaxy

import "github.com/galform/engine/property"

// Type is the galaxy's structural role within its FOF group.
type Type int

const (
	TypeCentral  Type = 0 // central of its FOF group
	TypeSatellite Type = 1 // satellite, still has its own resolved subhalo
	TypeOrphan   Type = 2 // no resolved subhalo; will merge or disrupt
	TypeMerged   Type = 3 // merged/retired; never reaches a pipeline phase
)

// MergeType classifies why a galaxy was marked for removal this step.
type MergeType int

const (
	MergeNone MergeType = iota
	MergeMinor
	MergeMajor
	MergeDiskInstability
	MergeDisrupted
)

// InfiniteMergeTime is the sentinel for "will not merge within this run".
const InfiniteMergeTime = 999.9

// Record is one galaxy at one snapshot. Core attributes named by spec.md
// §3 are plain struct fields — per SPEC_FULL.md §6's adopted redesign
// flag, the property store is the sole home for extension fields; there
// is no second mirrored copy of any field here to fall out of sync.
type Record struct {
	// Identity.
	SnapNum            int
	Type               Type
	GalaxyNr           int64 // forest-local counter
	GalaxyIndex        int64 // globally unique, see galindex.Compose
	CentralGalaxyIndex int64
	HaloNr             int
	MostBoundID        int64
	CentralGal         int // index into the current galaxy array

	// Halo-derived at this snapshot.
	Pos        [3]float64
	Vel        [3]float64
	Len        int
	Mvir       float64
	DeltaMvir  float64
	CentralMvir float64
	Rvir       float64
	Vvir       float64
	Vmax       float64

	// Merger state.
	MergeType        MergeType
	MergeIntoID      int
	MergeIntoSnapNum int
	MergTime         float64 // remaining dynamical-friction time; InfiniteMergeTime = infinite

	// Infall snapshot, captured the moment this galaxy becomes a satellite.
	InfallMvir float64
	InfallVvir float64
	InfallVmax float64

	// Time step.
	DT float64

	// Property store: the extensible, physics-module-owned tail.
	Props property.Store
}

// IsMerged reports whether the galaxy has been absorbed into another and
// must be skipped by every subsequent GALAXY-phase invocation this
// sub-timestep (spec.md invariant 4) and excluded from output (invariant
// 3).
func (r *Record) IsMerged() bool { return r.MergeType != MergeNone || r.Type == TypeMerged }
