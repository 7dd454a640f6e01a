// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tree

import (
	"fmt"
	"math"

	"github.com/galform/engine/galaxy"
	"github.com/galform/engine/property"
)

//go:generate go run go.uber.org/mock/mockgen -source=join.go -destination=mock_cosmology_test.go -package=tree

// Cosmology is the external cosmology collaborator (spec.md §6): pure
// functions of a halo plus run parameters. Join uses it to recompute a
// carried-forward central's virial properties at its new halo.
type Cosmology interface {
	VirialMass(halo *Halo) float64
	VirialRadius(halo *Halo) float64
	VirialVelocity(halo *Halo) float64
}

// Seeder is the external initializer (spec.md §4.I step 3) that builds a
// brand-new central galaxy when no progenitor branch supplies one.
type Seeder interface {
	Seed(haloNr int, halo *Halo) galaxy.Record
}

// JoinParams carries the gravitational constant the dynamical-friction
// formula in spec.md §4.I needs, threaded through rather than hard-coded
// so runs in different unit systems stay correct, and the property
// schema a carried-forward galaxy's Props store must be deep-copied
// against.
type JoinParams struct {
	G      float64
	Schema *property.Schema
}

// firstOccupied scans halo.FirstProgenitor -> NextProgenitor -> ... and
// returns the index of the progenitor with the largest Len that has at
// least one galaxy in prevGalaxies (spec.md §4.I step 1). Ties go to the
// earliest progenitor in chain order (strict '>' comparison). If no
// progenitor has galaxies, it returns halo.FirstProgenitor unchanged
// (spec.md §9 open question 2 and 3: this tie-break and default are
// specified exactly as observed, not guessed).
func firstOccupied(halos []Halo, aux []Aux, halo *Halo, prevGalaxies *galaxy.Array) int {
	best := -1
	bestLen := -1
	for p := halo.FirstProgenitor; p != -1; p = halos[p].NextProgenitor {
		if countGalaxiesForHalo(aux, p, prevGalaxies) == 0 {
			continue
		}
		if halos[p].Len > bestLen {
			bestLen = halos[p].Len
			best = p
		}
	}
	if best == -1 {
		return halo.FirstProgenitor
	}
	return best
}

// countGalaxiesForHalo reports how many galaxies in prevGalaxies belong
// to progenitor p, using aux[p].FirstGalaxy/NGalaxies as the contiguous
// range the traversal driver assigned when p was committed.
func countGalaxiesForHalo(aux []Aux, p int, prevGalaxies *galaxy.Array) int {
	if p == -1 {
		return 0
	}
	return aux[p].NGalaxies
}

// Join populates outBuffer with the galaxies of haloNr at the current
// snapshot, derived from progenitors in prevGalaxies (spec.md §4.I).
// fofHead is the FOF-group head halo index; haloNr == fofHead means this
// halo is the group's designated central halo.
func Join(
	halos []Halo,
	aux []Aux,
	haloNr int,
	fofHead int,
	prevGalaxies *galaxy.Array,
	outBuffer *galaxy.Array,
	cosmo Cosmology,
	seeder Seeder,
	params JoinParams,
) error {
	halo := &halos[haloNr]
	fof := &halos[fofHead]
	occupied := firstOccupied(halos, aux, halo, prevGalaxies)

	copiedAny := false
	centralsInHalo := 0

	for p := halo.FirstProgenitor; p != -1; p = halos[p].NextProgenitor {
		first := aux[p].FirstGalaxy
		n := aux[p].NGalaxies
		for i := first; i < first+n; i++ {
			src := prevGalaxies.At(i)
			g := *src
			g.Props = property.Store{}
			if src.Props.Allocated() && params.Schema != nil {
				property.DeepCopy(&g.Props, &src.Props, params.Schema)
			}
			g.HaloNr = haloNr
			g.DT = -1

			if p == occupied {
				switch g.Type {
				case galaxy.TypeCentral:
					oldMvir := g.Mvir
					oldVvir := g.Vvir
					oldVmax := g.Vmax

					g.Pos = halo.Pos
					g.Vel = halo.Vel
					g.Len = halo.Len
					g.Vmax = halo.Vmax

					g.Mvir = cosmo.VirialMass(halo)
					g.Rvir = cosmo.VirialRadius(halo)
					g.Vvir = cosmo.VirialVelocity(halo)
					g.DeltaMvir = g.Mvir - oldMvir

					if haloNr == fofHead {
						g.Type = galaxy.TypeCentral
						g.MergTime = galaxy.InfiniteMergeTime
					} else {
						g.InfallMvir = oldMvir
						g.InfallVvir = oldVvir
						g.InfallVmax = oldVmax
						g.MergTime = dynamicalFrictionTime(fof, halo, g.Mvir, cosmo, params.G)
						g.Type = galaxy.TypeSatellite
					}
				default:
					g.Type = galaxy.TypeOrphan
					g.MergTime = 0
				}
			} else {
				if g.Type == galaxy.TypeCentral {
					g.InfallMvir = g.Mvir
					g.InfallVvir = g.Vvir
					g.InfallVmax = g.Vmax
				}
				g.Type = galaxy.TypeOrphan
				g.MergTime = 0
			}

			if g.Type == galaxy.TypeCentral || g.Type == galaxy.TypeSatellite {
				centralsInHalo++
				if centralsInHalo > 1 {
					return fmt.Errorf("%w: halo %d", ErrMultipleCentralsInHalo, haloNr)
				}
			}

			outBuffer.Append(g)
			copiedAny = true
		}
	}

	if !copiedAny && haloNr == fofHead {
		outBuffer.Append(seeder.Seed(haloNr, halo))
	}

	return nil
}

// dynamicalFrictionTime computes spec.md §4.I's merging-time formula:
//
//	MergTime = 2 * 1.17 * Rvir(fof)^2 * Vvir(fof) / (ln(1 + Len(fof)/Len(halo)) * G * Mvir(halo))
//
// The Coulomb-log factor or the satellite mass can legitimately be
// non-positive/zero at the boundary of the simulation's resolution; per
// spec.md §7's "numerical degenerate" error kind, that is clamped to the
// infinite sentinel rather than propagated as an error.
func dynamicalFrictionTime(fof, halo *Halo, satMass float64, cosmo Cosmology, g float64) float64 {
	if halo.Len == 0 || satMass <= 0 {
		return galaxy.InfiniteMergeTime
	}
	coulomb := math.Log(1.0 + float64(fof.Len)/float64(halo.Len))
	if coulomb <= 0 {
		return galaxy.InfiniteMergeTime
	}

	rvir := cosmo.VirialRadius(fof)
	vvir := cosmo.VirialVelocity(fof)
	return 2 * 1.17 * rvir * rvir * vvir / (coulomb * g * satMass)
}
