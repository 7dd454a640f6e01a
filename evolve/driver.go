package evolve

import (
	"fmt"
	"time"

	"github.com/galform/engine/galaxy"
	"github.com/galform/engine/merge"
	"github.com/galform/engine/property"
	"github.com/luxfi/log"
)

// AgeProvider is the external cosmology collaborator's Age[snap] table
// (spec.md §6): a pure function of snapshot number to cosmic age.
type AgeProvider interface {
	Age(snapNum int) float64
}

// HaloInfo is the minimal halo identity the driver needs: enough to
// stamp committed galaxies and compute sub-timestep ages, without
// depending on the tree package's richer Halo type (which depends on
// evolve to invoke Evolve — keeping this package import-free of tree
// avoids the cycle).
type HaloInfo struct {
	HaloNr  int
	SnapNum int
}

// MergerHandler applies one deferred merger event: it mutates the
// central and satellite galaxies named by the event (absorbing mass,
// setting the satellite's MergeType) and may schedule further events via
// enqueueNext — but only for the *next* sub-timestep, never the current
// one (spec.md §4.J step 3c).
type MergerHandler func(ev merge.Event, ctx *Context, enqueueNext func(merge.Event) error) error

// BackPatch records that a galaxy already committed at an earlier
// snapshot must have its mergeIntoID/mergeIntoSnapNum rewritten once it
// merges at a later snapshot — SPEC_FULL.md §5's adopted "older driver"
// behaviour. Applying the patch to prior-snapshot storage is the output
// writer's job (spec.md §1's out-of-scope I/O boundary); the engine only
// produces the list.
type BackPatch struct {
	PriorSnapshot    int
	PriorIndex       int
	MergeIntoID      int
	MergeIntoSnapNum int
}

// CommitResult summarizes one FOF group's committed output.
type CommitResult struct {
	FirstGalaxy int // index into snapOutput where this group's galaxies begin
	NGalaxies   int
	BackPatch   []BackPatch
	Elapsed     time.Duration
	GalaxiesPerSecond float64
}

// Driver orchestrates the four-phase execution for one FOF group and
// commits survivors (spec.md §4.J).
type Driver struct {
	Registry *Registry
	Handler  MergerHandler
	Age      AgeProvider
	Schema   *property.Schema // used to deep-copy each survivor's property store on commit
	Log      log.Logger
	Now      func() time.Time // injected for deterministic tests; defaults to time.Now
}

func (d *Driver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Driver) logger() log.Logger {
	if d.Log != nil {
		return d.Log
	}
	return log.NewNoOpLogger()
}

// Evolve runs HALO once, STEPS sub-timesteps of GALAXY/merge-drain/POST,
// then FINAL once, and commits every surviving (not IsMerged) galaxy in
// fof to snapOutput.
func (d *Driver) Evolve(
	halo HaloInfo,
	fof *galaxy.Array,
	centralgal int,
	redshift float64,
	params RunParams,
	snapOutput *galaxy.Array,
) (*CommitResult, error) {
	diag := NewDiagnostics(halo.HaloNr, d.now())
	queue := merge.NewQueue(fof.Len() * 2)
	nextQueue := merge.NewQueue(fof.Len() * 2)

	ctx := &Context{
		HaloNr:     halo.HaloNr,
		Redshift:   redshift,
		Centralgal: centralgal,
		Params:     params,
		Galaxies:   fof,
		Queue:      queue,
		Diag:       diag,
	}

	if err := ctx.Validate(); err != nil {
		d.logger().Error("evolution context invalid, aborting FOF group",
			"haloNr", halo.HaloNr, "error", err)
		return nil, fmt.Errorf("evolve: halo %d: %w", halo.HaloNr, err)
	}
	if err := diag.RecordEvent(EventPipelineStarted); err != nil {
		return nil, err
	}

	haloAge := d.Age.Age(halo.SnapNum)
	ctx.HaloAge = haloAge

	if err := d.runHalo(ctx, diag); err != nil {
		return nil, err
	}

	for step := 0; step < params.Steps; step++ {
		// queue starts each step holding only the events the previous
		// step's handler scheduled via enqueueNext.
		if err := d.runGalaxyStep(ctx, diag, step, params, haloAge, fof); err != nil {
			return nil, err
		}

		nextQueue.Reset()
		if err := d.drainMergers(ctx, queue, nextQueue, step); err != nil {
			return nil, err
		}
		queue, nextQueue = nextQueue, queue
		ctx.Queue = queue

		if err := d.runPost(ctx, diag, step, fof.Len()); err != nil {
			return nil, err
		}
	}

	if err := d.runFinal(ctx, diag); err != nil {
		return nil, err
	}

	result := d.commit(halo, fof, snapOutput)
	if err := diag.RecordEvent(EventPipelineCompleted); err != nil {
		return nil, err
	}
	result.Elapsed, result.GalaxiesPerSecond = diag.Finalize(d.now(), result.NGalaxies)
	return result, nil
}

func (d *Driver) runHalo(ctx *Context, diag *Diagnostics) error {
	diag.StartPhase(PhaseHalo, d.now())
	if err := diag.RecordEvent(EventPhaseStarted); err != nil {
		return err
	}
	err := d.Registry.ExecutePhase(ctx, PhaseHalo)
	endErr := diag.EndPhase(PhaseHalo, d.now(), ctx.Galaxies.Len())
	if err != nil {
		return err
	}
	if endErr != nil {
		return endErr
	}
	return diag.RecordEvent(EventPhaseCompleted)
}

func (d *Driver) runGalaxyStep(ctx *Context, diag *Diagnostics, step int, params RunParams, haloAge float64, fof *galaxy.Array) error {
	diag.StartPhase(PhaseGalaxy, d.now())
	processed := 0
	for i := 0; i < fof.Len(); i++ {
		g := fof.At(i)
		if g.IsMerged() {
			continue
		}
		dT := d.Age.Age(g.SnapNum) - haloAge
		t := d.Age.Age(g.SnapNum) - (float64(step)+0.5)*(dT/float64(params.Steps))

		ctx.Step = step
		ctx.DT = dT / float64(params.Steps)
		ctx.Time = t
		ctx.CurrentGalaxy = i

		if err := d.Registry.ExecutePhase(ctx, PhaseGalaxy); err != nil {
			diag.EndPhase(PhaseGalaxy, d.now(), processed) //nolint:errcheck
			return err
		}
		processed++
	}
	return diag.EndPhase(PhaseGalaxy, d.now(), processed)
}

func (d *Driver) drainMergers(ctx *Context, queue, nextQueue *merge.Queue, step int) error {
	enqueueNext := func(ev merge.Event) error {
		ev.QueuedAtStep = step + 1
		return nextQueue.Enqueue(ev)
	}
	return queue.Drain(func(ev merge.Event) error {
		satellite := ctx.Galaxies.At(ev.SatelliteIndex)
		beforeType := satellite.MergeType
		if err := d.Handler(ev, ctx, enqueueNext); err != nil {
			return fmt.Errorf("merge handler: %w", err)
		}
		if satellite.MergeType != beforeType {
			ctx.Diag.RecordMergerProcessed(satellite.MergeType)
		}
		return nil
	})
}

func (d *Driver) runPost(ctx *Context, diag *Diagnostics, step, nGal int) error {
	diag.StartPhase(PhasePost, d.now())
	err := d.Registry.ExecutePhase(ctx, PhasePost)
	endErr := diag.EndPhase(PhasePost, d.now(), nGal)
	if err != nil {
		return err
	}
	return endErr
}

func (d *Driver) runFinal(ctx *Context, diag *Diagnostics) error {
	diag.StartPhase(PhaseFinal, d.now())
	err := d.Registry.ExecutePhase(ctx, PhaseFinal)
	endErr := diag.EndPhase(PhaseFinal, d.now(), ctx.Galaxies.Len())
	if err != nil {
		return err
	}
	return endErr
}

// commit copies every surviving galaxy into snapOutput. Merged galaxies
// are not output at this snapshot (spec.md invariant 3) but, per the
// older-driver behaviour this engine adopts, the earlier snapshot's
// record of them needs patching so a reader can resolve the merge
// target — the engine only produces that list here.
func (d *Driver) commit(halo HaloInfo, fof *galaxy.Array, snapOutput *galaxy.Array) *CommitResult {
	result := &CommitResult{FirstGalaxy: snapOutput.Len()}
	for i := 0; i < fof.Len(); i++ {
		g := fof.At(i)
		if g.IsMerged() {
			result.BackPatch = append(result.BackPatch, BackPatch{
				PriorSnapshot:    g.SnapNum,
				PriorIndex:       i,
				MergeIntoID:      g.MergeIntoID,
				MergeIntoSnapNum: g.MergeIntoSnapNum,
			})
			continue
		}
		copied := *g
		copied.Props = property.Store{}
		if g.Props.Allocated() {
			property.DeepCopy(&copied.Props, &g.Props, d.Schema)
		}
		copied.SnapNum = halo.SnapNum
		snapOutput.Append(copied)
		result.NGalaxies++
	}
	return result
}
