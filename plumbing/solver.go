// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

import (
	"fmt"

	"github.com/gammazero/deque"
)

// DefaultFlowMultiplier scales a path's pressure delta into a mass to move
// per tick. The original implementation documents this as arbitrary,
// chosen to approximate real rocket propellant flow rates; it is exposed
// as a tunable on Tick rather than hard coded.
const DefaultFlowMultiplier = 0.000002

// MaxReducerIterations bounds forced-path reduction (§4.5.3). A solver
// that has not converged after this many sweeps indicates a malformed
// plumbing graph and is treated as fatal, not as a slow but safe retry.
const MaxReducerIterations = 100

// TickResult reports what a single Tick call did, for callers (the vehicle
// frame driver, tests) that want to inspect or report on it beyond just the
// retained paths.
type TickResult struct {
	Paths             []FlowPath
	MassMoved         float64
	ReducerIterations int
}

// Tick resets every pipe's Flow, enumerates candidate paths, reduces them
// to a mutually compatible forced set, and executes flow along what
// remains. maxReducerIterations bounds the forced-path reduction sweep
// (§4.5.3); callers with no tuned value of their own should pass
// MaxReducerIterations.
func Tick(pipes []*Pipe, dt, flowMultiplier float64, maxReducerIterations int) (TickResult, error) {
	for _, p := range pipes {
		p.Flow = 0
	}
	candidates, err := FindAllPaths(pipes)
	if err != nil {
		return TickResult{}, err
	}
	reduced, iterations, err := reduceToForced(candidates, pipes, maxReducerIterations)
	if err != nil {
		return TickResult{}, err
	}
	massMoved, err := executeFlows(pipes, reduced, dt, flowMultiplier)
	if err != nil {
		return TickResult{}, err
	}
	return TickResult{Paths: reduced, MassMoved: massMoved, ReducerIterations: iterations}, nil
}

// FindAllPaths enumerates every feasible flow path in pipes: for each pipe
// touching a real port on either side, a tree search is seeded travelling
// away from that real port, following flow-machine internal wiring until
// another real port is reached.
func FindAllPaths(pipes []*Pipe) ([]FlowPath, error) {
	var out []FlowPath
	for i, p := range pipes {
		if p.A != nil && !p.A.IsFlowPort {
			if err := findPathsFrom(pipes, i, false, &out); err != nil {
				return nil, err
			}
		}
		if p.B != nil && !p.B.IsFlowPort {
			if err := findPathsFrom(pipes, i, true, &out); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// findPathsFrom runs the tree search described in §4.5.1 starting at pipe
// start, travelling backwards or forwards along the a->b convention.
func findPathsFrom(pipes []*Pipe, start int, backwards bool, out *[]FlowPath) error {
	open := deque.New[[]int]()
	open.PushBack([]int{start})

	for open.Len() > 0 {
		chain := open.PopFront()
		work := chain[len(chain)-1]
		p := pipes[work]

		var next *FluidPort
		if backwards {
			next = p.A
		} else {
			next = p.B
		}
		if next == nil {
			return fmt.Errorf("plumbing: pipe %d is missing an endpoint during path search", work)
		}

		if next.IsFlowPort {
			connected := next.Machine.ConnectedPorts(next.ID)
			for qi, q := range pipes {
				var near *FluidPort
				if backwards {
					near = q.B
				} else {
					near = q.A
				}
				if near == nil {
					continue
				}
				for _, c := range connected {
					if near == c {
						extended := make([]int, len(chain)+1)
						copy(extended, chain)
						extended[len(chain)] = qi
						open.PushBack(extended)
						break
					}
				}
			}
			continue
		}

		deltaP, err := calculateDeltaP(pipes, chain, backwards)
		if err != nil {
			return err
		}
		if deltaP < 0 {
			*out = append(*out, FlowPath{Pipes: chain, Backwards: backwards, DeltaP: deltaP})
		}
	}
	return nil
}

// calculateDeltaP implements §4.5.2: walk the intermediate flow machines
// accumulating their pressure drop against the starting pressure, then
// compare against the end pressure.
func calculateDeltaP(pipes []*Pipe, path []int, backwards bool) (float64, error) {
	first := pipes[path[0]]
	last := pipes[path[len(path)-1]]

	var start, end *FluidPort
	if backwards {
		start, end = first.B, last.A
	} else {
		start, end = first.A, last.B
	}
	startP := start.Machine.Pressure(start.ID)
	endP := end.Machine.Pressure(end.ID)

	pDrop := 0.0
	for i := 0; i < len(path)-1; i++ {
		// Junction ports sit on the same flow machine: the pipe reached
		// first in traversal order touches it on the side facing the
		// path's start, the next pipe on the side facing its end. Forward
		// that is (.b, .a); travelling backwards it is (.a, .b).
		var inPort, outPort *FluidPort
		if backwards {
			inPort, outPort = pipes[path[i]].A, pipes[path[i+1]].B
		} else {
			inPort, outPort = pipes[path[i]].B, pipes[path[i+1]].A
		}
		if inPort.Machine != outPort.Machine {
			return 0, fmt.Errorf("plumbing: mismatched flow machine between pipes %d and %d", path[i], path[i+1])
		}
		if !inPort.IsFlowPort || !outPort.IsFlowPort {
			return 0, fmt.Errorf("plumbing: expected flow ports between pipes %d and %d", path[i], path[i+1])
		}
		curP := startP - pDrop
		pDrop += inPort.Machine.PressureDrop(inPort.ID, outPort.ID, curP)
	}

	return endP - (startP - pDrop), nil
}

// findForcedPaths returns the indices of candidates that are simultaneously
// the sole remaining candidate for their source (no other candidate draws
// from the same real port) and the sole remaining candidate for their
// destination (no other candidate delivers to the same real port). Such a
// path has no competing use of either real port it touches and so must
// execute.
func findForcedPaths(paths []FlowPath, pipes []*Pipe) []int {
	startCount := map[*FluidPort]int{}
	endCount := map[*FluidPort]int{}
	starts := make([]*FluidPort, len(paths))
	ends := make([]*FluidPort, len(paths))

	for i, p := range paths {
		start, end := p.startEnd(pipes)
		starts[i], ends[i] = start, end
		startCount[start]++
		endCount[end]++
	}

	var forced []int
	for i := range paths {
		if startCount[starts[i]] == 1 && endCount[ends[i]] == 1 {
			forced = append(forced, i)
		}
	}
	return forced
}

// pathsCompatible reports whether a and b can both execute this tick. Two
// paths are incompatible when they share a pipe index but diverge at the
// next step, i.e. they would route the same pipe's fluid two different
// ways.
func pathsCompatible(a, b FlowPath) bool {
	posInB := make(map[int]int, len(b.Pipes))
	for i, pipe := range b.Pipes {
		posInB[pipe] = i
	}
	for i, pipe := range a.Pipes {
		j, ok := posInB[pipe]
		if !ok {
			continue
		}
		aHasNext := i+1 < len(a.Pipes)
		bHasNext := j+1 < len(b.Pipes)
		if aHasNext != bHasNext {
			return false
		}
		if aHasNext && a.Pipes[i+1] != b.Pipes[j+1] {
			return false
		}
	}
	return true
}

// reduceToForced repeatedly removes paths incompatible with the current
// forced set until a sweep removes nothing, per §4.5.3. It returns the
// number of sweeps needed to converge (0 if the input was already stable),
// for callers that want to report on how close the configuration runs to
// maxIterations.
func reduceToForced(paths []FlowPath, pipes []*Pipe, maxIterations int) ([]FlowPath, int, error) {
	for iter := 0; ; iter++ {
		if iter > maxIterations {
			return nil, iter, fmt.Errorf("plumbing: forced-path reduction did not converge after %d iterations", maxIterations)
		}

		forced := findForcedPaths(paths, pipes)
		forcedSet := make(map[int]bool, len(forced))
		for _, i := range forced {
			forcedSet[i] = true
		}

		removed := make(map[int]bool)
		for i := range paths {
			if forcedSet[i] {
				continue
			}
			for _, f := range forced {
				if !pathsCompatible(paths[i], paths[f]) {
					removed[i] = true
					break
				}
			}
		}
		if len(removed) == 0 {
			return paths, iter, nil
		}

		kept := make([]FlowPath, 0, len(paths)-len(removed))
		for i, p := range paths {
			if !removed[i] {
				kept = append(kept, p)
			}
		}
		paths = kept
	}
}

// executeFlows moves fluid along every retained path, per §4.5.4, and
// returns the total fluid mass (gas+liquid) moved across all of them.
func executeFlows(pipes []*Pipe, paths []FlowPath, dt, flowMultiplier float64) (float64, error) {
	var massMoved float64
	for _, path := range paths {
		toMove := -path.DeltaP * flowMultiplier * dt
		if toMove == 0 {
			continue
		}

		start, end := path.startEnd(pipes)
		if start.IsFlowPort || end.IsFlowPort {
			return massMoved, fmt.Errorf("plumbing: a retained path starts or ends in a flow port")
		}

		buffer := start.Machine.OutFlow(start.ID, toMove, true)
		flow := buffer.GetTotalGasMass() + buffer.GetTotalLiquidMass()
		massMoved += flow

		delta := -flow
		if path.Backwards {
			delta = flow
		}
		for _, idx := range path.Pipes {
			pipes[idx].Flow += delta
		}

		end.Machine.InFlow(end.ID, buffer, true)
	}
	return massMoved, nil
}
