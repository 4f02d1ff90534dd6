// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

// PendingEndpoint identifies a not-yet-resolved pipe endpoint as loaded
// from a vehicle file: a machine lookup key (interpreted by whatever
// resolver the caller supplies to Plumbing.Init) plus a port id on that
// machine.
type PendingEndpoint struct {
	MachineKey string
	PortID     string
}

// Pipe is an undirected connector between two ports with a direction
// convention (A -> B). Waypoints are 2D integer grid routing points for the
// editor only; they have no effect on the solver. Flow is the last amount
// of fluid mass that moved through this pipe, signed by travel direction.
//
// On load a Pipe holds pending (machine key, port id) pairs instead of
// resolved ports; Plumbing.Init resolves them and clears the pending
// fields, see testable property 3 in the vehicle core specification.
type Pipe struct {
	Index int

	A, B *FluidPort

	PendingA, PendingB *PendingEndpoint

	Waypoints [][2]int
	Flow      float64
	Surface   float64
}

// NewPipe returns a Pipe with default surface 1 and zero flow, matching
// the original implementation's Pipe() constructor.
func NewPipe(index int) *Pipe {
	return &Pipe{Index: index, Surface: 1.0}
}

// Invert swaps a pipe's endpoints and reverses its waypoint list. Used by
// the editor when a user redraws a pipe in the opposite direction.
func (p *Pipe) Invert() {
	p.A, p.B = p.B, p.A
	for i, j := 0, len(p.Waypoints)-1; i < j; i, j = i+1, j-1 {
		p.Waypoints[i], p.Waypoints[j] = p.Waypoints[j], p.Waypoints[i]
	}
}

// Resolved reports whether both endpoints have been resolved to concrete
// ports and no pending endpoint remains.
func (p *Pipe) Resolved() bool {
	return p.A != nil && p.B != nil && p.PendingA == nil && p.PendingB == nil
}
