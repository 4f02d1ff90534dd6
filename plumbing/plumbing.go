// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

import "fmt"

// Resolver turns a pending endpoint's (machine key, port id) pair into a
// concrete FluidPort. Plumbing stays free of any knowledge of how machine
// keys map to machines; the vehicle package supplies the mapping.
type Resolver func(PendingEndpoint) (*FluidPort, error)

// Plumbing is the fluid network of a vehicle: every pipe, resolved or
// pending. It has no notion of pieces, parts, or welded groups; it only
// knows pipes and the ports they join.
type Plumbing struct {
	Pipes []*Pipe
}

// New returns an empty Plumbing.
func New() *Plumbing {
	return &Plumbing{}
}

// AddPipe appends a pipe, assigning it the next index.
func (pl *Plumbing) AddPipe(p *Pipe) {
	p.Index = len(pl.Pipes)
	pl.Pipes = append(pl.Pipes, p)
}

// Init resolves every pipe's pending endpoints using resolve, clearing the
// pending fields on success. It is an error for any pipe to remain
// unresolved once Init returns nil.
func (pl *Plumbing) Init(resolve Resolver) error {
	for _, p := range pl.Pipes {
		if p.PendingA != nil {
			port, err := resolve(*p.PendingA)
			if err != nil {
				return fmt.Errorf("plumbing: resolving pipe %d endpoint A: %w", p.Index, err)
			}
			p.A = port
			p.PendingA = nil
		}
		if p.PendingB != nil {
			port, err := resolve(*p.PendingB)
			if err != nil {
				return fmt.Errorf("plumbing: resolving pipe %d endpoint B: %w", p.Index, err)
			}
			p.B = port
			p.PendingB = nil
		}
		if !p.Resolved() {
			return fmt.Errorf("plumbing: pipe %d did not resolve to two ports", p.Index)
		}
	}
	return nil
}

// Tick advances the fluid network by dt seconds using flowMultiplier. A
// caller with no configured multiplier of its own should pass
// DefaultFlowMultiplier explicitly; zero here means zero, not "use the
// default", so a configuration that deliberately disables flow is honored.
// maxReducerIterations bounds forced-path reduction; a caller with no
// tuned value of its own should pass MaxReducerIterations.
func (pl *Plumbing) Tick(dt, flowMultiplier float64, maxReducerIterations int) (TickResult, error) {
	return Tick(pl.Pipes, dt, flowMultiplier, maxReducerIterations)
}

// PipeConnectedTo returns every pipe with a resolved endpoint at port;
// pending endpoints carry no *FluidPort yet and are never matched.
// Grounded on VehiclePlumbing::getConnectedPipe.
func (pl *Plumbing) PipeConnectedTo(port *FluidPort) []*Pipe {
	var out []*Pipe
	for _, p := range pl.Pipes {
		if p.A == port || p.B == port {
			out = append(out, p)
		}
	}
	return out
}

// Bounds returns the minimum bounding rectangle, in editor grid cells,
// enclosing the footprint of every machine in machines that has plumbing.
// It returns ok false when none do. Grounded on
// VehiclePlumbing::get_plumbing_bounds, which accumulates min/max over
// each PlumbingMachine's editor_position and get_size(true); used by the
// editor to size the plumbing canvas.
func Bounds(machines []*PlumbingMachine) (minX, minY, maxX, maxY int, ok bool) {
	first := true
	for _, pm := range machines {
		if !pm.HasPlumbing() {
			continue
		}
		x0, y0 := pm.EditorPositionX, pm.EditorPositionY
		w, h := pm.Size(true)
		x1, y1 := x0+w, y0+h
		if first {
			minX, minY, maxX, maxY = x0, y0, x1, y1
			first = false
			continue
		}
		if x0 < minX {
			minX = x0
		}
		if y0 < minY {
			minY = y0
		}
		if x1 > maxX {
			maxX = x1
		}
		if y1 > maxY {
			maxY = y1
		}
	}
	return minX, minY, maxX, maxY, !first
}

// FindFreeSpace returns a placement for the bottom of the editor canvas,
// below every existing machine footprint, per
// VehiclePlumbing::find_free_space: rather than scanning the grid for an
// interior gap, a newly dropped machine is simply appended beneath
// whatever is already laid out.
func FindFreeSpace(machines []*PlumbingMachine) (x, y int, ok bool) {
	minX, _, _, maxY, ok := Bounds(machines)
	if !ok {
		return 0, 0, false
	}
	return minX, maxY, true
}
