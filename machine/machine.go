// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package machine provides the uniform lifecycle and extension surface for
// part behavior: the Machine interface, a string-keyed kind registry, the
// symmetric wire multimap, and a handful of reference machine kinds that
// exercise the plumbing solver.
package machine

import "github.com/galvanizedlogic/vehiclecore/plumbing"

// Machine is the callback contract every machine kind implements. A part
// forwards each tick to its declared and attached machines in the order
// described by the vehicle core specification.
type Machine interface {
	ID() string
	Kind() string

	PreUpdate(dt float64)
	Update(dt float64)
	EditorUpdate(dt float64)
	PhysicsUpdate(dt float64)
}

// Describer is implemented by machine kinds that can re-derive their own
// init table from current state. A part's prototype supplies a declared
// machine's init data, so only a saver handling an attached machine (whose
// init table has no prototype to fall back to) needs this.
type Describer interface {
	Machine
	Describe() Init
}

// Plumber is implemented by machine kinds that take part in the fluid
// network. Not every machine exposes plumbing (a pure control machine may
// not), so this is an optional capability callers type-assert for.
type Plumber interface {
	Machine
	Plumbing() *plumbing.PlumbingMachine
}

// Signaller is implemented by machine kinds that react to wire signals
// from other machines.
type Signaller interface {
	Machine
	Signal(from Machine, value float64)
}

// Init is the decoded, kind-specific initialization data for a machine, as
// loaded from a vehicle file's per-machine table. Factories type-assert or
// re-decode the fields they understand; unrecognized fields are ignored.
type Init map[string]any

// Factory constructs a Machine of one kind from its id and init data.
type Factory func(id string, init Init) (Machine, error)

var registry = map[string]Factory{}

// Register associates a kind name (the vehicle file's "script name") with
// a factory. Registering the same kind twice replaces the prior factory;
// this module registers tank/engine/valve/pump at init time in their own
// files.
func Register(kind string, f Factory) {
	registry[kind] = f
}

// New constructs a machine of the named kind. It returns an error if no
// factory is registered for kind.
func New(kind, id string, init Init) (Machine, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return f(id, init)
}

// UnknownKindError reports a vehicle file referencing a machine kind with
// no registered factory — a malformed-input error per the error handling
// design (unknown part prototype is the Piece-level analogue).
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return "machine: unknown kind " + e.Kind
}
