// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tree

import (
	"fmt"

	"github.com/galform/engine/evolve"
	"github.com/galform/engine/galaxy"
	"github.com/galform/engine/property"
)

// EvolveFunc runs the four-phase pipeline over one FOF group's working
// buffer and commits survivors to snapOutput (spec.md §4.J, implemented
// by evolve.Driver.Evolve). Threaded through as a function value rather
// than a *evolve.Driver field so Constructor can be exercised with a
// stub in tests without constructing a real pipeline registry.
type EvolveFunc func(halo evolve.HaloInfo, buf *galaxy.Array, centralgal int, redshift float64, params evolve.RunParams, snapOutput *galaxy.Array) (*evolve.CommitResult, error)

// Constructor drives the depth-first forest traversal (spec.md §4.H):
// for every halo it walks unfinished progenitors first, then builds and
// evolves each FOF group exactly once via the HaloFlag state machine.
type Constructor struct {
	Halos []Halo
	Aux   []Aux

	PrevGalaxies *galaxy.Array // previous snapshot's committed output, read-only
	SnapOutput   *galaxy.Array // this snapshot's output, appended to by Evolve

	Cosmo  Cosmology
	Seeder Seeder
	Evolve EvolveFunc

	Redshift float64
	Params   evolve.RunParams
	G        float64
	Schema   *property.Schema // deep-copy target for carried-forward galaxies' Props
}

// Construct implements spec.md §4.H's entry point. When it returns
// successfully, every galaxy that should exist at this halo's snapshot
// for any halo in FOFgroup(haloNr) has been committed to SnapOutput.
func (c *Constructor) Construct(haloNr int) error {
	if c.Aux[haloNr].DoneFlag {
		return nil
	}
	c.Aux[haloNr].DoneFlag = true

	for p := c.Halos[haloNr].FirstProgenitor; p != -1; p = c.Halos[p].NextProgenitor {
		if !c.Aux[p].DoneFlag {
			if err := c.Construct(p); err != nil {
				return err
			}
		}
	}

	fof := c.Halos[haloNr].FirstHaloInFOFgroup

	if c.Aux[fof].HaloFlag == HaloUnvisited {
		c.Aux[fof].HaloFlag = HaloScheduled
		for h := fof; h != -1; h = c.Halos[h].NextHaloInFOFgroup {
			for p := c.Halos[h].FirstProgenitor; p != -1; p = c.Halos[p].NextProgenitor {
				if !c.Aux[p].DoneFlag {
					if err := c.Construct(p); err != nil {
						return err
					}
				}
			}
		}
	}

	if c.Aux[fof].HaloFlag != HaloScheduled {
		return nil
	}
	c.Aux[fof].HaloFlag = HaloProcessed

	return c.evolveFOFGroup(fof)
}

// evolveFOFGroup joins every member of the FOF group headed by fofHead
// into one temporary buffer, assigns the FOF-global central, runs the
// pipeline, and records the per-halo FirstGalaxy/NGalaxies ranges the
// next snapshot's Join will need (spec.md §3's halo auxiliary record).
func (c *Constructor) evolveFOFGroup(fofHead int) error {
	buf := galaxy.NewArray(8)

	members := make([]int, 0, 4)
	for h := fofHead; h != -1; h = c.Halos[h].NextHaloInFOFgroup {
		members = append(members, h)
		if err := Join(c.Halos, c.Aux, h, fofHead, c.PrevGalaxies, buf, c.Cosmo, c.Seeder, JoinParams{G: c.G, Schema: c.Schema}); err != nil {
			return fmt.Errorf("tree: construct halo %d: %w", h, err)
		}
	}

	if err := AssignFOFCentral(buf); err != nil {
		return fmt.Errorf("tree: construct FOF %d: %w", fofHead, err)
	}

	centralgal := -1
	for i := 0; i < buf.Len(); i++ {
		if buf.At(i).Type == galaxy.TypeCentral {
			centralgal = i
			break
		}
	}
	if centralgal == -1 {
		// FOF group of inherited orphans only: nothing to evolve, but
		// their galaxies still need to be committed and accounted for.
		return c.commitOrphansOnly(fofHead, members, buf)
	}

	haloInfo := evolve.HaloInfo{HaloNr: fofHead, SnapNum: c.Halos[fofHead].SnapNum}
	result, err := c.Evolve(haloInfo, buf, centralgal, c.Redshift, c.Params, c.SnapOutput)
	if err != nil {
		return fmt.Errorf("tree: evolve FOF %d: %w", fofHead, err)
	}

	c.assignPerHaloRanges(members, buf, result.FirstGalaxy)
	return nil
}

// commitOrphansOnly handles the FOF-has-no-central edge case: there is
// no pipeline to run, but the inherited orphans must still land in the
// snapshot output so later snapshots can carry them further forward.
func (c *Constructor) commitOrphansOnly(fofHead int, members []int, buf *galaxy.Array) error {
	first := c.SnapOutput.Len()
	for i := 0; i < buf.Len(); i++ {
		g := *buf.At(i)
		g.SnapNum = c.Halos[fofHead].SnapNum
		c.SnapOutput.Append(g)
	}
	c.assignPerHaloRanges(members, buf, first)
	return nil
}

// assignPerHaloRanges walks buf in Join-call order (contiguous per
// member halo, per spec.md §4.I) and records each halo's slice of the
// just-committed output range into Aux, so the next snapshot's
// firstOccupied/Join can scan per-progenitor galaxy counts again.
func (c *Constructor) assignPerHaloRanges(members []int, buf *galaxy.Array, firstCommitted int) {
	outIdx := firstCommitted
	bufIdx := 0
	for _, h := range members {
		first := outIdx
		n := 0
		for bufIdx < buf.Len() && buf.At(bufIdx).HaloNr == h {
			if !buf.At(bufIdx).IsMerged() {
				n++
				outIdx++
			}
			bufIdx++
		}
		c.Aux[h].FirstGalaxy = first
		c.Aux[h].NGalaxies = n
	}
}
