// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the engine's run-level Parameters (spec.md §6)
// and loads them from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/galform/engine/utils/wrappers"
)

// Error variables for parameter validation.
var (
	ErrParametersInvalid   = errors.New("invalid run parameters")
	ErrInvalidSteps        = errors.New("STEPS must be >= 1")
	ErrInvalidG            = errors.New("G must be > 0")
	ErrEmptyAgeTable       = errors.New("Age table must not be empty")
	ErrOutputSnapsMismatch = errors.New("NumSnapOutputs must equal len(ListOutputSnaps)")
)

// Parameters holds the run-level options spec.md §6 names: STEPS, G,
// the Age[snap] table, and the output-snapshot schedule.
type Parameters struct {
	Steps           int       `yaml:"steps"`
	G               float64   `yaml:"g"`
	Age             []float64 `yaml:"age"`
	ListOutputSnaps []int     `yaml:"list_output_snaps"`
	NumSnapOutputs  int       `yaml:"num_snap_outputs"`
	MaxMCMCSnap     int       `yaml:"max_mcmc_snap,omitempty"` // optional; 0 means unset
	ForestMulFac    int64     `yaml:"forest_mulfac"`
	FileMulFac      int64     `yaml:"file_mulfac"`
}

// DefaultParameters returns the engine's historical defaults: STEPS=10,
// matching spec.md §4.J's note that STEPS has historically been 10, and
// no output-snapshot restriction until ListOutputSnaps is populated.
func DefaultParameters() Parameters {
	return Parameters{
		Steps:        10,
		G:            43007.1,
		ForestMulFac: 1_000_000,
		FileMulFac:   1_000_000_000,
	}
}

// Valid reports whether p satisfies the constraints the core relies on
// before a run starts. Every violation is collected and reported
// together rather than stopping at the first, so a caller fixing a
// malformed parameter file sees every problem in one pass.
func (p Parameters) Valid() error {
	var errs wrappers.Errs
	if p.Steps < 1 {
		errs.Add(fmt.Errorf("%w: %w", ErrParametersInvalid, ErrInvalidSteps))
	}
	if p.G <= 0 {
		errs.Add(fmt.Errorf("%w: %w", ErrParametersInvalid, ErrInvalidG))
	}
	if len(p.Age) == 0 {
		errs.Add(fmt.Errorf("%w: %w", ErrParametersInvalid, ErrEmptyAgeTable))
	}
	if p.NumSnapOutputs != len(p.ListOutputSnaps) {
		errs.Add(fmt.Errorf("%w: %w", ErrParametersInvalid, ErrOutputSnapsMismatch))
	}
	return errs.Err()
}

// Validate is an alias for Valid, kept for callers used to the
// error-returning method name the teacher's config package exposes.
func (p Parameters) Validate() error {
	return p.Valid()
}

// IsOutputSnap reports whether snapNum is one of the configured output
// snapshots.
func (p Parameters) IsOutputSnap(snapNum int) bool {
	for _, s := range p.ListOutputSnaps {
		if s == snapNum {
			return true
		}
	}
	return false
}

// LoadParameters reads and validates a YAML parameter file at path,
// starting from DefaultParameters so an incomplete file still produces a
// runnable configuration.
func LoadParameters(path string) (Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Parameters{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	p := DefaultParameters()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Parameters{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := p.Valid(); err != nil {
		return Parameters{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return p, nil
}
