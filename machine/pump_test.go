// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package machine

import "testing"

func TestPumpAllowsNegativePressureDelta(t *testing.T) {
	m, err := New("pump", "p1", Init{"pressure_delta": -15.0})
	if err != nil {
		t.Fatal(err)
	}
	p := m.(*Pump)
	if got := p.PressureDrop("in", "out", 50); got != -15.0 {
		t.Errorf("got %v, want -15 (a boost, not a drop)", got)
	}
}

func TestPumpConnectedPortsIsOpposite(t *testing.T) {
	m, _ := New("pump", "p1", nil)
	p := m.(*Pump)
	conn := p.ConnectedPorts(p.in.ID)
	if len(conn) != 1 || conn[0] != p.out {
		t.Errorf("got %v, want [out]", conn)
	}
}
