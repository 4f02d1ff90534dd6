// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

import (
	"math"
	"testing"
)

// fakeTank is a real-port FluidMachine with a fixed pressure and a
// recording OutFlow/InFlow implementation, enough to exercise the solver
// without a full machine package.
type fakeTank struct {
	pressure float64
	outCalls []float64
	inCalls  []*StoredFluids
}

func (t *fakeTank) OutFlow(portID string, mass float64, doIt bool) *StoredFluids {
	if doIt {
		t.outCalls = append(t.outCalls, mass)
	}
	return &StoredFluids{Gas: map[Species]float64{"test": math.Abs(mass)}}
}

func (t *fakeTank) InFlow(portID string, fluids *StoredFluids, doIt bool) {
	if doIt {
		t.inCalls = append(t.inCalls, fluids)
	}
}

func (t *fakeTank) Pressure(portID string) float64 { return t.pressure }

func (t *fakeTank) PressureDrop(inPort, outPort string, pIn float64) float64 { return 0 }

func (t *fakeTank) ConnectedPorts(portID string) []*FluidPort { return nil }

// fakeValve is a flow-machine with a constant pressure drop, connecting
// its two named ports to each other.
type fakeValve struct {
	drop  float64
	in    *FluidPort
	out   *FluidPort
}

func (v *fakeValve) OutFlow(portID string, mass float64, doIt bool) *StoredFluids { return nil }
func (v *fakeValve) InFlow(portID string, fluids *StoredFluids, doIt bool)        {}
func (v *fakeValve) Pressure(portID string) float64                              { return 0 }
func (v *fakeValve) PressureDrop(inPort, outPort string, pIn float64) float64     { return v.drop }

func (v *fakeValve) ConnectedPorts(portID string) []*FluidPort {
	if v.in != nil && portID == v.in.ID {
		return []*FluidPort{v.out}
	}
	if v.out != nil && portID == v.out.ID {
		return []*FluidPort{v.in}
	}
	return nil
}

func TestFindAllPathsStraightPipe(t *testing.T) {
	pIn := &fakeTank{pressure: 100}
	pOut := &fakeTank{pressure: 50}
	portIn := &FluidPort{ID: "out", Machine: pIn}
	portOut := &FluidPort{ID: "in", Machine: pOut}

	pipe := NewPipe(0)
	pipe.A, pipe.B = portIn, portOut
	pipes := []*Pipe{pipe}

	paths, err := FindAllPaths(pipes)
	if err != nil {
		t.Fatalf("FindAllPaths: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if paths[0].Backwards {
		t.Error("got backwards path, want forward")
	}
	if got, want := paths[0].DeltaP, -50.0; got != want {
		t.Errorf("got DeltaP %v, want %v", got, want)
	}

	result, err := Tick(pipes, 1, DefaultFlowMultiplier, MaxReducerIterations)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(result.Paths) != 1 {
		t.Fatalf("got %d retained paths, want 1", len(result.Paths))
	}
	if len(pIn.outCalls) != 1 {
		t.Fatalf("got %d OutFlow calls, want 1", len(pIn.outCalls))
	}
	wantMove := 50.0 * DefaultFlowMultiplier
	if got := pIn.outCalls[0]; math.Abs(got-wantMove) > 1e-12 {
		t.Errorf("got to_move %v, want %v", got, wantMove)
	}
}

func TestFindAllPathsValveThrough(t *testing.T) {
	pIn := &fakeTank{pressure: 100}
	pOut := &fakeTank{pressure: 0}

	valve := &fakeValve{drop: 10}
	valveIn := &FluidPort{ID: "vin", Machine: valve, IsFlowPort: true}
	valveOut := &FluidPort{ID: "vout", Machine: valve, IsFlowPort: true}
	valve.in, valve.out = valveIn, valveOut

	portSource := &FluidPort{ID: "out", Machine: pIn}
	portSink := &FluidPort{ID: "in", Machine: pOut}

	pipe1 := NewPipe(0)
	pipe1.A, pipe1.B = portSource, valveIn
	pipe2 := NewPipe(1)
	pipe2.A, pipe2.B = valveOut, portSink
	pipes := []*Pipe{pipe1, pipe2}

	paths, err := FindAllPaths(pipes)
	if err != nil {
		t.Fatalf("FindAllPaths: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if got, want := paths[0].DeltaP, -90.0; got != want {
		t.Errorf("got DeltaP %v, want %v", got, want)
	}
	if len(paths[0].Pipes) != 2 {
		t.Fatalf("got path length %d, want 2", len(paths[0].Pipes))
	}
}

// fakeJunction is a three-port flow machine with no pressure drop whose
// single inlet connects to either of two outlets, modeling a manifold that
// can route to one of two downstream sinks but not both.
type fakeJunction struct {
	in, outA, outB *FluidPort
}

func (j *fakeJunction) OutFlow(portID string, mass float64, doIt bool) *StoredFluids { return nil }
func (j *fakeJunction) InFlow(portID string, fluids *StoredFluids, doIt bool)        {}
func (j *fakeJunction) Pressure(portID string) float64                              { return 0 }
func (j *fakeJunction) PressureDrop(inPort, outPort string, pIn float64) float64     { return 0 }

func (j *fakeJunction) ConnectedPorts(portID string) []*FluidPort {
	switch portID {
	case j.in.ID:
		return []*FluidPort{j.outA, j.outB}
	case j.outA.ID:
		return []*FluidPort{j.in}
	case j.outB.ID:
		return []*FluidPort{j.in}
	}
	return nil
}

// TestReduceToForcedSharedPipe exercises §4.5.3's forcing rule directly on
// hand-built candidates (bypassing FindAllPaths/pressures, which cannot
// express this shape: see the analysis this scenario is grounded on below).
//
// Three candidates share two trunk pipes:
//
//	F = s1 -> d1            (pipes 0,1,2)
//	X = s2 -> d2, via trunk (pipes 3,1,4)   -- shares pipe 1 with F
//	Z = s2 -> d2z, via alt  (pipes 3,5,6)   -- shares pipe 3 with X
//
// Round 1: F is the only candidate whose start (s1) and end (d1) are each
// unique across all three, so it alone is forced. X shares pipe 1 with F but
// diverges at the next pipe (d1 vs d2), so X is incompatible with the forced
// set and is removed. Z shares no pipe with F, so it survives round 1
// unaffected. Round 2: with X gone, Z's start (s2) is now unique too, so Z
// becomes forced on the second sweep, and the reducer converges with
// {F, Z} retained — the removal of a non-forced path, and the two-sweep
// convergence, both get exercised.
func TestReduceToForcedSharedPipe(t *testing.T) {
	portS1 := &FluidPort{ID: "s1"}
	portD1 := &FluidPort{ID: "d1"}
	portS2 := &FluidPort{ID: "s2"}
	portD2 := &FluidPort{ID: "d2"}
	portD2z := &FluidPort{ID: "d2z"}

	pipes := []*Pipe{
		{Index: 0, A: portS1},
		{Index: 1}, // trunk shared by F and X
		{Index: 2, B: portD1},
		{Index: 3, A: portS2},
		{Index: 4, B: portD2},
		{Index: 5}, // alternate trunk, used only by Z
		{Index: 6, B: portD2z},
	}

	f := FlowPath{Pipes: []int{0, 1, 2}}
	x := FlowPath{Pipes: []int{3, 1, 4}}
	z := FlowPath{Pipes: []int{3, 5, 6}}

	reduced, _, err := reduceToForced([]FlowPath{f, x, z}, pipes, MaxReducerIterations)
	if err != nil {
		t.Fatalf("reduceToForced: %v", err)
	}
	if len(reduced) != 2 {
		t.Fatalf("got %d retained paths, want 2", len(reduced))
	}
	for _, p := range reduced {
		start, end := p.startEnd(pipes)
		switch {
		case start == portS1 && end == portD1:
		case start == portS2 && end == portD2z:
		default:
			t.Errorf("unexpected retained path start=%v end=%v", start, end)
		}
	}
}

func TestPathsCompatibleDivergence(t *testing.T) {
	a := FlowPath{Pipes: []int{0, 1, 2}}
	b := FlowPath{Pipes: []int{5, 1, 9}}
	if pathsCompatible(a, b) {
		t.Error("expected incompatible: shared pipe 1 diverges to 2 vs 9")
	}

	c := FlowPath{Pipes: []int{5, 1, 2}}
	if !pathsCompatible(a, c) {
		t.Error("expected compatible: shared pipe 1 agrees on successor 2")
	}
}

func TestPathsCompatibleEndOfPath(t *testing.T) {
	a := FlowPath{Pipes: []int{0, 1}}
	b := FlowPath{Pipes: []int{5, 1, 2}}
	if pathsCompatible(a, b) {
		t.Error("expected incompatible: a ends at shared pipe, b continues past it")
	}
}
