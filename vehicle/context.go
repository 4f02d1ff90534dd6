// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package vehicle is the core of the simulation: the piece graph, the
// welded-group builder, the separation detector, and the per-frame driver
// that ties machines and the plumbing solver together. It depends on
// rigidworld, machine, and plumbing as opaque collaborators and knows
// nothing about rendering, assets, or scripting.
package vehicle

import (
	"fmt"

	"github.com/galvanizedlogic/vehiclecore/simconfig"
	"github.com/galvanizedlogic/vehiclecore/telemetry"
	"github.com/rs/zerolog"
)

// Context replaces the process-wide singletons (logger, asset manager, an
// "osp" context) the original implementation reaches for: a single value
// threaded into every vehicle constructor, per §9's design note.
type Context struct {
	Log       zerolog.Logger
	Telemetry *telemetry.Registry
	Config    *simconfig.Config
}

// NewContext builds a Context from its three parts. A nil Telemetry or
// Config is replaced by a working default so callers that don't care about
// metrics or tuning still get a usable Context.
func NewContext(log zerolog.Logger, reg *telemetry.Registry, cfg *simconfig.Config) *Context {
	if reg == nil {
		reg = telemetry.NewRegistry()
	}
	if cfg == nil {
		cfg = simconfig.Default()
	}
	return &Context{Log: log, Telemetry: reg, Config: cfg}
}

// FatalError reports an invariant violation the caller cannot recover from
// locally: a malformed piece graph, a welded-group rebuild that cannot
// reconcile its inputs, a plumbing configuration that does not converge.
// Per §9's design note it is raised by panicking at the point of detection
// and recovered at a single boundary (Recover) back into a plain error.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string { return fmt.Sprintf("vehicle: %s: %v", e.Op, e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// fail panics with a *FatalError tagged with op. Used by inner-loop code
// that detects a condition §7 classifies as "invariant violation at
// runtime" or "malformed input" — conditions a caller cannot sensibly
// continue past.
func fail(op string, err error) { panic(&FatalError{Op: op, Err: err}) }

func failf(op, format string, args ...any) { fail(op, fmt.Errorf(format, args...)) }

// Recover turns a panicking *FatalError into a returned error, leaving any
// other panic value to propagate. Every exported entry point that calls
// fail internally (directly or transitively) defers Recover(&err) exactly
// once, at its own boundary — see RebuildWeldedGroups, Vehicle.Tick, and
// vehiclefile's Load and Save.
func Recover(errp *error) {
	if r := recover(); r != nil {
		if fe, ok := r.(*FatalError); ok {
			*errp = fe
			return
		}
		panic(r)
	}
}
