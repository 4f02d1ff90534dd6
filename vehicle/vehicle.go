// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

import (
	"fmt"

	"github.com/galvanizedlogic/vehiclecore/machine"
	"github.com/galvanizedlogic/vehiclecore/plumbing"
	"github.com/google/uuid"
)

// Vehicle owns a forest of Pieces rooted at Root, the Parts that name
// them, the fluid network, and the wire graph. ID is a runtime-only
// correlation handle for diagnostics and logging — distinct from the
// dense integer ids the save format assigns — since a vehicle's identity
// before it is ever saved still needs to be nameable in a log line.
type Vehicle struct {
	Context *Context
	ID      uuid.UUID

	Parts  []*Part
	Pieces []*Piece // insertion order; Root is always Pieces[0].
	Root   *Piece

	Plumbing *plumbing.Plumbing
	Wires    *machine.WireSet

	Packed bool

	// GroupNames is the save format's array of editor group labels,
	// round-tripped but otherwise inert (§6.1, SUPPLEMENTED FEATURES).
	GroupNames []string

	groups []*WeldedGroup
}

// New returns an empty, packed Vehicle carrying ctx. Use AddPiece to
// populate it, starting with the root piece (attachedTo == nil).
func New(ctx *Context) *Vehicle {
	return &Vehicle{
		Context:  ctx,
		ID:       uuid.New(),
		Plumbing: plumbing.New(),
		Wires:    machine.NewWireSet(),
		Packed:   true,
	}
}

// AddPiece inserts p into the vehicle, attached to attachedTo (nil for the
// vehicle's root piece). It rejects a second root, an attachment to a
// piece outside this vehicle, and an attachment that would create a
// cycle, per §4.1's add_piece contract.
func (v *Vehicle) AddPiece(p *Piece, attachedTo *Piece) error {
	if attachedTo == nil {
		if v.Root != nil {
			return fmt.Errorf("vehicle: cannot add a second root piece (existing root id %d, new piece id %d)", v.Root.ID, p.ID)
		}
		v.Root = p
		v.Pieces = append(v.Pieces, p)
		return nil
	}

	if !v.owns(attachedTo) {
		return fmt.Errorf("vehicle: piece %d attaches to piece %d, which is not in this vehicle", p.ID, attachedTo.ID)
	}
	for cur := attachedTo; cur != nil; cur = cur.AttachedTo {
		if cur == p {
			return fmt.Errorf("vehicle: attaching piece %d to piece %d would create a cycle", p.ID, attachedTo.ID)
		}
	}

	p.AttachedTo = attachedTo
	v.Pieces = append(v.Pieces, p)
	return nil
}

func (v *Vehicle) owns(p *Piece) bool {
	for _, q := range v.Pieces {
		if q == p {
			return true
		}
	}
	return false
}

// BreakLink clears p's attached_to, per §4.1's break_link contract. It
// does not itself run a separation sweep; call Separate to partition the
// vehicle after breaking one or more links, per the contract's note that
// "a separation sweep is triggered by the caller".
func (v *Vehicle) BreakLink(p *Piece) error {
	if p == v.Root {
		return fmt.Errorf("vehicle: cannot break the root piece's link")
	}
	if !v.owns(p) {
		return fmt.Errorf("vehicle: piece %d is not in this vehicle", p.ID)
	}
	p.AttachedTo = nil
	return nil
}

// Iter yields every piece exactly once, in insertion order.
func (v *Vehicle) Iter() []*Piece { return v.Pieces }

// PlumbingMachines collects the PlumbingMachine footprint of every machine
// across every part, for callers (the editor layout queries on
// plumbing.Plumbing) that need the vehicle's full set of machine
// footprints rather than its fluid network.
func (v *Vehicle) PlumbingMachines() []*plumbing.PlumbingMachine {
	var out []*plumbing.PlumbingMachine
	for _, pt := range v.Parts {
		for _, m := range pt.GetAllMachines() {
			if pl, ok := m.(machine.Plumber); ok {
				out = append(out, pl.Plumbing())
			}
		}
	}
	return out
}

// WalkFrom yields pieces reachable from start in depth-first order,
// deterministic by insertion order among a piece's children, per §4.1.
func (v *Vehicle) WalkFrom(start *Piece) []*Piece {
	children := make(map[*Piece][]*Piece, len(v.Pieces))
	for _, p := range v.Pieces {
		if p.AttachedTo != nil {
			children[p.AttachedTo] = append(children[p.AttachedTo], p)
		}
	}

	var out []*Piece
	var visit func(*Piece)
	visit = func(p *Piece) {
		out = append(out, p)
		for _, c := range children[p] {
			visit(c)
		}
	}
	visit(start)
	return out
}
