// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

import (
	"fmt"

	"github.com/galvanizedlogic/vehiclecore/machine"
)

// Part is a logical unit instantiated from a part prototype: a named set
// of Pieces, a set of declared machines keyed by id, and an ordered list
// of machines attached at load time.
type Part struct {
	ID      int
	GroupID int
	Proto   string

	pieces   map[string]*Piece
	declared map[string]machine.Machine
	attached []machine.Machine
}

// NewPart returns an empty Part. GroupID defaults to -1 per §6.1's "default
// −1" for an ungrouped part.
func NewPart(id int, proto string) *Part {
	return &Part{
		ID:       id,
		GroupID:  -1,
		Proto:    proto,
		pieces:   map[string]*Piece{},
		declared: map[string]machine.Machine{},
	}
}

// AddPiece registers a named piece node of this part's prototype.
func (pt *Part) AddPiece(name string, p *Piece) {
	pt.pieces[name] = p
	p.Part = pt
}

// GetPiece returns the named piece node. A missing node is a malformed
// prototype reference and is fatal, per §7.
func (pt *Part) GetPiece(name string) *Piece {
	p, ok := pt.pieces[name]
	if !ok {
		failf("Part.GetPiece", "part %d has no piece node %q", pt.ID, name)
	}
	return p
}

// DeclareMachine registers a machine keyed by its own id, as loaded from
// the part's prototype.
func (pt *Part) DeclareMachine(m machine.Machine) {
	pt.declared[m.ID()] = m
}

// AttachMachine appends a machine attached at load time (a pipe's
// "from_attached_machine" target, or an explicit [[attached_machine]]
// table). Attached machines are addressed by the synthetic id
// "_attached_{i}" in GetAllMachines, matching Part::get_all_machines.
func (pt *Part) AttachMachine(m machine.Machine) {
	pt.attached = append(pt.attached, m)
}

// GetMachine looks up a machine by id across both declared and attached
// machines, returning false if none matches.
func (pt *Part) GetMachine(id string) (machine.Machine, bool) {
	if m, ok := pt.declared[id]; ok {
		return m, true
	}
	for i, m := range pt.attached {
		if attachedMachineID(i) == id {
			return m, true
		}
	}
	return nil, false
}

// GetAllMachines returns every machine this part hosts, declared machines
// keyed by their own id and attached machines keyed by their synthetic
// "_attached_{i}" id.
func (pt *Part) GetAllMachines() map[string]machine.Machine {
	out := make(map[string]machine.Machine, len(pt.declared)+len(pt.attached))
	for id, m := range pt.declared {
		out[id] = m
	}
	for i, m := range pt.attached {
		out[attachedMachineID(i)] = m
	}
	return out
}

func attachedMachineID(i int) string { return fmt.Sprintf("_attached_%d", i) }

// DeclaredMachines returns this part's declared machines keyed by their own
// id, for callers (the saver) that need to tell a declared machine apart
// from an attached one.
func (pt *Part) DeclaredMachines() map[string]machine.Machine {
	out := make(map[string]machine.Machine, len(pt.declared))
	for id, m := range pt.declared {
		out[id] = m
	}
	return out
}

// AttachedMachines returns this part's attached machines in insertion
// order, for callers (the saver) that need to re-emit the synthetic
// "_attached_{i}" ids in a stable order.
func (pt *Part) AttachedMachines() []machine.Machine {
	out := make([]machine.Machine, len(pt.attached))
	copy(out, pt.attached)
	return out
}

// PreUpdate forwards to every declared machine (map iteration order,
// documented as unspecified) then every attached machine (insertion
// order), per §4.4.
func (pt *Part) PreUpdate(dt float64) { pt.forEach(func(m machine.Machine) { m.PreUpdate(dt) }) }

// Update forwards to declared then attached machines, per §4.4.
func (pt *Part) Update(dt float64) { pt.forEach(func(m machine.Machine) { m.Update(dt) }) }

// EditorUpdate forwards to declared then attached machines, per §4.4.
func (pt *Part) EditorUpdate(dt float64) {
	pt.forEach(func(m machine.Machine) { m.EditorUpdate(dt) })
}

// PhysicsUpdate forwards to declared then attached machines, per §4.4.
func (pt *Part) PhysicsUpdate(dt float64) {
	pt.forEach(func(m machine.Machine) { m.PhysicsUpdate(dt) })
}

func (pt *Part) forEach(f func(machine.Machine)) {
	for _, m := range pt.declared {
		f(m)
	}
	for _, m := range pt.attached {
		f(m)
	}
}
