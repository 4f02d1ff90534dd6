// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

// FlowPath is an ordered sequence of pipe indices tracing a feasible route
// from one real port to another. Backwards indicates the path was found
// traversing a pipe's B->A direction instead of its A->B convention.
// DeltaP is end pressure minus (start pressure minus accumulated drops);
// only paths with DeltaP < 0 are retained as candidates.
type FlowPath struct {
	Pipes     []int
	Backwards bool
	DeltaP    float64
}

// startEnd returns the path's direction-aware start and end ports: the
// real port fluid is drawn from and the real port it is delivered to.
func (fp FlowPath) startEnd(pipes []*Pipe) (start, end *FluidPort) {
	first := pipes[fp.Pipes[0]]
	last := pipes[fp.Pipes[len(fp.Pipes)-1]]
	if fp.Backwards {
		return first.B, last.A
	}
	return first.A, last.B
}
