package evolve

import (
	"fmt"

	"github.com/luxfi/log"
)

// Step declares one physics step bound into the pipeline: which phases
// it participates in, whether it is currently enabled, and the module it
// dispatches to.
type Step struct {
	Type    string // type tag from a closed set of module-type identifiers
	Name    string // human-readable step name
	Module  Module
	Enabled bool
	Phases  Phase // bitset over {HALO, GALAXY, POST, FINAL}

	halo   HaloPhase
	galaxy GalaxyPhase
	post   PostPhase
	final  FinalPhase
}

// NewStep builds a Step, discovering which phase interfaces Module
// implements once at construction time rather than on every dispatch.
func NewStep(stepType, name string, module Module, phases Phase, enabled bool) Step {
	s := Step{Type: stepType, Name: name, Module: module, Phases: phases, Enabled: enabled}
	s.halo, _ = module.(HaloPhase)
	s.galaxy, _ = module.(GalaxyPhase)
	s.post, _ = module.(PostPhase)
	s.final, _ = module.(FinalPhase)
	return s
}

// Registry is an ordered list of steps. Empty registries are legal — the
// engine then runs end-to-end in "physics-free" mode (spec.md §4.E).
type Registry struct {
	steps []Step
	log   log.Logger
}

// NewRegistry returns a Registry that will run steps in the given order.
func NewRegistry(logger log.Logger, steps ...Step) *Registry {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Registry{steps: steps, log: logger}
}

// Len returns the number of registered steps, enabled or not.
func (r *Registry) Len() int { return len(r.steps) }

// ExecutePhase invokes each enabled step whose bitset includes phase, in
// declared order. A step returning a non-nil error aborts the phase; the
// error propagates to the evolution driver, which aborts evolution of
// the current FOF group (spec.md §4.E's contract).
func (r *Registry) ExecutePhase(ctx *Context, phase Phase) error {
	ctx.CurrentPhase = phase
	for _, step := range r.steps {
		if !step.Enabled || step.Phases&phase == 0 {
			continue
		}
		var err error
		switch phase {
		case PhaseHalo:
			if step.halo == nil {
				continue
			}
			err = step.halo.OnHalo(ctx)
		case PhaseGalaxy:
			if step.galaxy == nil {
				continue
			}
			err = step.galaxy.OnGalaxy(ctx)
		case PhasePost:
			if step.post == nil {
				continue
			}
			err = step.post.OnPost(ctx)
		case PhaseFinal:
			if step.final == nil {
				continue
			}
			err = step.final.OnFinal(ctx)
		default:
			return fmt.Errorf("%w: unknown phase %d", ErrContextInvalid, phase)
		}
		if err != nil {
			r.log.Error("pipeline step failed",
				"step", step.Name,
				"phase", phase.String(),
				"haloNr", ctx.HaloNr,
				"error", err,
			)
			return fmt.Errorf("step %q phase %s: %w", step.Name, phase, err)
		}
	}
	return nil
}
