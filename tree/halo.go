// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tree implements the merger-tree traversal driver (spec.md
// §4.H) and the join/carry-forward logic (spec.md §4.I) that build,
// snapshot by snapshot, the set of galaxies evolved at each halo.
package tree

// HaloFlag is the FOF-group coordination marker spec.md §3 names on the
// halo auxiliary record, tracked with three states rather than a bare
// bool so a group reachable from more than one entry halo is still
// evolved exactly once (spec.md §4.H).
type HaloFlag int

const (
	HaloUnvisited HaloFlag = iota
	HaloScheduled
	HaloProcessed
)

// Halo is the external, read-only tree-topology record spec.md §3
// defines: an integer index into a dense array, plus four links that
// thread the forest together.
type Halo struct {
	Len      int
	Pos      [3]float64
	Vel      [3]float64
	Vmax     float64
	VelDisp  float64
	SnapNum  int
	MostBoundID int64
	Spin     [3]float64

	FirstProgenitor      int // -1 if none
	NextProgenitor       int // -1 if none
	FirstHaloInFOFgroup  int // itself if this halo is the FOF head
	NextHaloInFOFgroup   int // -1 if last in chain
}

// IsFOFHead reports whether haloNr is the designated head of its own FOF
// group.
func IsFOFHead(halos []Halo, haloNr int) bool {
	return halos[haloNr].FirstHaloInFOFgroup == haloNr
}

// Aux is the halo auxiliary record (spec.md §3's "Halo auxiliary
// record"), one per halo, mutated by the core during traversal and join.
type Aux struct {
	DoneFlag      bool
	HaloFlag      HaloFlag
	NGalaxies     int
	FirstGalaxy   int // index into the previous snapshot's galaxy array
	OutputSnapN   int // per-galaxy output-snapshot assignment, written by I/O prep
}
