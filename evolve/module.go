package evolve

// Module is the capability interface a physics step binds to. Per
// spec.md §9's redesign note, this replaces the source's manual vtable
// of per-module function pointers: a module implements whichever of the
// four phase interfaces below it needs, and the registry discovers
// which ones via a type assertion at step-build time rather than at
// every dispatch.
//
// All four methods are optional in the sense that a module need not
// implement every phase interface — ModuleType is the only method every
// module must provide.
type Module interface {
	// ModuleType is a short, stable tag from the module's own closed set
	// (e.g. "cooling", "starformation", "mergers") — used only for
	// diagnostics and logging, never for dispatch.
	ModuleType() string
}

// HaloPhase is implemented by modules that act once per halo evolution,
// before the sub-timestep loop.
type HaloPhase interface {
	Module
	OnHalo(ctx *Context) error
}

// GalaxyPhase is implemented by modules that act once per non-retired
// galaxy, per sub-timestep.
type GalaxyPhase interface {
	Module
	OnGalaxy(ctx *Context) error
}

// PostPhase is implemented by modules that act once per sub-timestep,
// after all galaxies and after the merger queue has been drained.
type PostPhase interface {
	Module
	OnPost(ctx *Context) error
}

// FinalPhase is implemented by modules that act once per halo evolution,
// after the sub-timestep loop.
type FinalPhase interface {
	Module
	OnFinal(ctx *Context) error
}
