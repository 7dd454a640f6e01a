package evolve

import (
	"errors"
	"fmt"
	"time"

	"github.com/galform/engine/galaxy"
	"github.com/galform/engine/metrics"
)

// EventType enumerates the core infrastructure events Diagnostics tallies
// (spec.md §4.G). Unknown event types are rejected by RecordEvent.
type EventType int

const (
	EventPipelineStarted EventType = iota
	EventPipelineCompleted
	EventPhaseStarted
	EventPhaseCompleted
	EventGalaxyCreated
	EventGalaxyCopied
	EventGalaxyMerged
	EventModuleActivated
	EventModuleDeactivated
	eventTypeCount
)

// ErrUnknownEventType is returned by RecordEvent for an EventType outside
// the recognised set.
var ErrUnknownEventType = errors.New("evolve: unknown diagnostic event type")

// ErrPhaseNotStarted is returned by EndPhase when the named phase has no
// matching StartPhase on the stack.
var ErrPhaseNotStarted = errors.New("evolve: end_phase called without a matching start_phase")

// Diagnostics records per-halo phase timings, event counts, and merger
// tallies for one FOF group's evolution (spec.md §4.G).
type Diagnostics struct {
	HaloNr int

	started time.Time
	ended   time.Time

	phaseOpenedAt map[Phase]time.Time
	phaseTotal    map[Phase]time.Duration
	phaseCount    map[Phase]int // StepCount(phase): start/end pairs completed
	phaseGalaxies map[Phase]int

	events map[EventType]int

	mergerDetected  map[galaxy.MergeType]int
	mergerProcessed map[galaxy.MergeType]int

	galaxiesPerSecond metrics.Averager
}

// NewDiagnostics returns a Diagnostics ready to record one halo's
// evolution, with its wall-clock start stamped.
func NewDiagnostics(haloNr int, now time.Time) *Diagnostics {
	return &Diagnostics{
		HaloNr:            haloNr,
		started:           now,
		phaseOpenedAt:     make(map[Phase]time.Time),
		phaseTotal:        make(map[Phase]time.Duration),
		phaseCount:        make(map[Phase]int),
		phaseGalaxies:     make(map[Phase]int),
		events:            make(map[EventType]int),
		mergerDetected:    make(map[galaxy.MergeType]int),
		mergerProcessed:   make(map[galaxy.MergeType]int),
		galaxiesPerSecond: metrics.NewAverager(),
	}
}

// StartPhase opens a timing span for phase. Must be paired with EndPhase
// before the next StartPhase of the same phase.
func (d *Diagnostics) StartPhase(phase Phase, now time.Time) {
	d.phaseOpenedAt[phase] = now
}

// EndPhase closes the timing span opened by StartPhase, accumulates the
// elapsed time and invocation count, and records galaxyCount galaxies
// processed during the span. Returns ErrPhaseNotStarted if phase was not
// open.
func (d *Diagnostics) EndPhase(phase Phase, now time.Time, galaxyCount int) error {
	opened, ok := d.phaseOpenedAt[phase]
	if !ok {
		return fmt.Errorf("%w: phase %s", ErrPhaseNotStarted, phase)
	}
	delete(d.phaseOpenedAt, phase)
	d.phaseTotal[phase] += now.Sub(opened)
	d.phaseCount[phase]++
	d.phaseGalaxies[phase] += galaxyCount
	return nil
}

// StepCount returns the number of completed start/end pairs for phase.
func (d *Diagnostics) StepCount(phase Phase) int { return d.phaseCount[phase] }

// PhaseGalaxyCount returns the cumulative galaxy count recorded across
// every completed span of phase.
func (d *Diagnostics) PhaseGalaxyCount(phase Phase) int { return d.phaseGalaxies[phase] }

// PhaseDuration returns the cumulative time spent in phase.
func (d *Diagnostics) PhaseDuration(phase Phase) time.Duration { return d.phaseTotal[phase] }

// RecordEvent tallies one occurrence of a core infrastructure event.
func (d *Diagnostics) RecordEvent(t EventType) error {
	if t < 0 || t >= eventTypeCount {
		return fmt.Errorf("%w: %d", ErrUnknownEventType, t)
	}
	d.events[t]++
	return nil
}

// EventCount returns how many times t has been recorded.
func (d *Diagnostics) EventCount(t EventType) int { return d.events[t] }

// RecordMergerDetected tallies a merger discovered during the GALAXY
// phase, split by merge type.
func (d *Diagnostics) RecordMergerDetected(t galaxy.MergeType) { d.mergerDetected[t]++ }

// RecordMergerProcessed tallies a merger applied during POST's queue
// drain, split by merge type.
func (d *Diagnostics) RecordMergerProcessed(t galaxy.MergeType) { d.mergerProcessed[t]++ }

// MergerDetected returns the detected tally for merge type t.
func (d *Diagnostics) MergerDetected(t galaxy.MergeType) int { return d.mergerDetected[t] }

// MergerProcessed returns the processed tally for merge type t.
func (d *Diagnostics) MergerProcessed(t galaxy.MergeType) int { return d.mergerProcessed[t] }

// Finalize stamps the end time, folds the run's total galaxies committed
// into the galaxies/second averager, and returns elapsed time and rate.
// Division by a near-zero elapsed time is guarded: the rate is reported
// as zero rather than +Inf or NaN (spec.md §7's numerical-degenerate
// recovery).
func (d *Diagnostics) Finalize(now time.Time, galaxiesCommitted int) (elapsed time.Duration, galaxiesPerSecond float64) {
	d.ended = now
	elapsed = d.ended.Sub(d.started)
	if elapsed <= 0 {
		return elapsed, 0
	}
	rate := float64(galaxiesCommitted) / elapsed.Seconds()
	d.galaxiesPerSecond.Observe(rate)
	return elapsed, rate
}
