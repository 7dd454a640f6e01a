// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command galform-demo is a minimal in-memory fixture that drives
// tree.Construct end to end with an empty pipeline, demonstrating
// spec.md §8's scenario 1 (single isolated halo seeds a galaxy) and
// scenario 2 (linear carry-forward preserves identity). It is not a
// general-purpose CLI — the real tree-file decoders, MPI distribution,
// and physics modules are external collaborators out of scope here.
package main

import (
	"fmt"
	"os"

	"github.com/luxfi/log"

	"github.com/galform/engine/config"
	"github.com/galform/engine/cosmology"
	"github.com/galform/engine/evolve"
	"github.com/galform/engine/galaxy"
	"github.com/galform/engine/merge"
	"github.com/galform/engine/property"
	"github.com/galform/engine/tree"
)

// coldGasID is the only extension property this demo declares, to
// exercise Props allocation and the carried-forward deep copy end to end.
const coldGasID = 0

// seeder implements tree.Seeder by asking the cosmology collaborator for
// this halo's virial properties and starting a brand-new central.
type seeder struct {
	cosmo  *cosmology.Cosmology
	schema *property.Schema
}

func (s seeder) Seed(haloNr int, halo *tree.Halo) galaxy.Record {
	g := galaxy.Record{
		Type:     galaxy.TypeCentral,
		HaloNr:   haloNr,
		SnapNum:  halo.SnapNum,
		Pos:      halo.Pos,
		Vel:      halo.Vel,
		Len:      halo.Len,
		Vmax:     halo.Vmax,
		Mvir:     s.cosmo.VirialMass(halo),
		Rvir:     s.cosmo.VirialRadius(halo),
		Vvir:     s.cosmo.VirialVelocity(halo),
		MergTime: galaxy.InfiniteMergeTime,
	}
	g.Props.Allocate(s.schema)
	g.Props.SetF32(coldGasID, float32(halo.Vmax)) //nolint:errcheck
	return g
}

// noopMergerHandler never runs in this demo (no GALAXY-phase module ever
// enqueues an event in an empty pipeline) but Driver requires a handler.
func noopMergerHandler(ev merge.Event, ctx *evolve.Context, enqueueNext func(merge.Event) error) error {
	return nil
}

func main() {
	logger := log.NewNoOpLogger()

	cosmo, err := cosmology.New(cosmology.Params{
		Omega0:      0.3,
		OmegaLambda: 0.7,
		Hubble:      100,
		G:           43007.1,
		Age:         []float64{13.8, 10.2},
		Redshift:    []float64{1.0, 0.0},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "cosmology:", err)
		os.Exit(1)
	}

	params := config.DefaultParameters()
	params.Steps = 1
	params.Age = cosmo2Age(cosmo, 2)

	schema, err := property.NewSchema([]property.Meta{
		{ID: coldGasID, Name: "ColdGas", Type: property.TypeF32},
	}, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "schema:", err)
		os.Exit(1)
	}

	driver := &evolve.Driver{
		Registry: evolve.NewRegistry(logger), // empty pipeline
		Handler:  noopMergerHandler,
		Age:      cosmo,
		Schema:   schema,
		Log:      logger,
	}

	runParams := evolve.RunParams{Steps: params.Steps, G: params.G}

	// Snapshot 0: one isolated halo, FOF head, no progenitor.
	halos0 := []tree.Halo{{FirstProgenitor: -1, NextProgenitor: -1, FirstHaloInFOFgroup: 0, NextHaloInFOFgroup: -1, SnapNum: 0, Len: 100, Vmax: 150}}
	aux0 := []tree.Aux{{}}
	snap0 := galaxy.NewArray(1)

	c0 := &tree.Constructor{
		Halos: halos0, Aux: aux0,
		PrevGalaxies: galaxy.NewArray(0),
		SnapOutput:   snap0,
		Cosmo:        cosmo,
		Seeder:       seeder{cosmo: cosmo, schema: schema},
		Evolve:       driver.Evolve,
		Redshift:     1.0,
		Params:       runParams,
		G:            params.G,
		Schema:       schema,
	}
	if err := c0.Construct(0); err != nil {
		fmt.Fprintln(os.Stderr, "construct snapshot 0:", err)
		os.Exit(1)
	}
	printSnapshot(0, snap0)

	// Snapshot 1: a single halo whose sole progenitor is halo 0.
	halos1 := []tree.Halo{
		halos0[0],
		{FirstProgenitor: 0, NextProgenitor: -1, FirstHaloInFOFgroup: 1, NextHaloInFOFgroup: -1, SnapNum: 1, Len: 110, Vmax: 160},
	}
	aux1 := []tree.Aux{aux0[0], {}}
	snap1 := galaxy.NewArray(1)

	c1 := &tree.Constructor{
		Halos: halos1, Aux: aux1,
		PrevGalaxies: snap0,
		SnapOutput:   snap1,
		Cosmo:        cosmo,
		Seeder:       seeder{cosmo: cosmo, schema: schema},
		Evolve:       driver.Evolve,
		Redshift:     0.0,
		Params:       runParams,
		G:            params.G,
		Schema:       schema,
	}
	if err := c1.Construct(1); err != nil {
		fmt.Fprintln(os.Stderr, "construct snapshot 1:", err)
		os.Exit(1)
	}
	printSnapshot(1, snap1)
}

func cosmo2Age(c *cosmology.Cosmology, nSnaps int) []float64 {
	ages := make([]float64, nSnaps)
	for i := range ages {
		ages[i] = c.Age(i)
	}
	return ages
}

func printSnapshot(snapNum int, galaxies *galaxy.Array) {
	fmt.Printf("snapshot %d: %d galaxies\n", snapNum, galaxies.Len())
	for i := 0; i < galaxies.Len(); i++ {
		g := galaxies.At(i)
		fmt.Printf("  galaxy %d: Type=%d HaloNr=%d GalaxyNr=%d CentralGal=%d MergTime=%.1f ColdGas=%.2f\n",
			i, g.Type, g.HaloNr, g.GalaxyNr, g.CentralGal, g.MergTime, g.Props.GetF32(coldGasID, 0))
	}
}
