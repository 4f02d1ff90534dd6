// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package machine

import (
	"testing"

	"github.com/galvanizedlogic/vehiclecore/plumbing"
)

func TestTankOutFlowPreviewDoesNotMutate(t *testing.T) {
	m, err := New("tank", "t1", Init{"species": "lox", "liquid_mass": 100.0})
	if err != nil {
		t.Fatal(err)
	}
	tank := m.(*Tank)

	preview := tank.OutFlow("out", 40, false)
	if got := preview.Liquid["lox"]; got != 40 {
		t.Errorf("preview got %v, want 40", got)
	}
	if got := tank.fluids.Liquid["lox"]; got != 100 {
		t.Errorf("preview mutated tank mass to %v, want unchanged 100", got)
	}

	actual := tank.OutFlow("out", 40, true)
	if got := actual.Liquid["lox"]; got != 40 {
		t.Errorf("committed got %v, want 40", got)
	}
	if got := tank.fluids.Liquid["lox"]; got != 60 {
		t.Errorf("committed tank mass %v, want 60", got)
	}
}

func TestTankOutFlowClampsToAvailable(t *testing.T) {
	m, _ := New("tank", "t1", Init{"species": "he", "gas_mass": 10.0})
	tank := m.(*Tank)

	out := tank.OutFlow("out", 1000, true)
	if got := out.Gas["he"]; got != 10 {
		t.Errorf("got %v, want 10 (clamped to available mass)", got)
	}
	if got := tank.fluids.Gas["he"]; got != 0 {
		t.Errorf("tank should be drained to 0, got %v", got)
	}
}

func TestTankInFlowAccumulates(t *testing.T) {
	m, _ := New("tank", "t1", nil)
	tank := m.(*Tank)

	delta := plumbing.NewStoredFluids()
	delta.Gas["he"] = 5
	tank.InFlow("out", delta, true)
	if got := tank.fluids.Gas["he"]; got != 5 {
		t.Errorf("got %v, want 5", got)
	}
}

func TestTankConnectedPortsIsNil(t *testing.T) {
	m, _ := New("tank", "t1", nil)
	tank := m.(*Tank)
	if got := tank.ConnectedPorts("out"); got != nil {
		t.Errorf("tank is a real port, want nil connected ports, got %v", got)
	}
}
