// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package machine

import "github.com/galvanizedlogic/vehiclecore/plumbing"

func init() {
	Register("tank", newTank)
}

// Tank is a real-port reservoir: a StoredFluids-backed machine with one
// real port that other machines draw from or deliver to. Pressure is a
// configurable constant, approximating a pressurized tank's near-uniform
// ullage pressure over a tick.
type Tank struct {
	id       string
	port     *plumbing.FluidPort
	plumbing *plumbing.PlumbingMachine
	fluids   *plumbing.StoredFluids
	pressure float64
}

// tankEditorSize is the tank's fixed editor-grid footprint, in cells. A
// reservoir is drawn larger than a through-device to stand out on the
// plumbing canvas.
const tankEditorSizeX, tankEditorSizeY = 2, 2

func newTank(id string, init Init) (Machine, error) {
	t := &Tank{
		id:       id,
		fluids:   plumbing.NewStoredFluids(),
		pressure: floatField(init, "pressure", 100),
	}
	t.port = &plumbing.FluidPort{ID: "out", Machine: t, IsFlowPort: false}
	t.plumbing = &plumbing.PlumbingMachine{
		Ports:           []*plumbing.FluidPort{t.port},
		EditorPositionX: intField(init, "plumbing_pos_x", 0),
		EditorPositionY: intField(init, "plumbing_pos_y", 0),
		EditorRotation:  intField(init, "plumbing_rot", 0),
		EditorSizeX:     tankEditorSizeX,
		EditorSizeY:     tankEditorSizeY,
	}

	if species, mass := stringField(init, "species", ""), floatField(init, "gas_mass", 0); species != "" && mass > 0 {
		t.fluids.Gas[plumbing.Species(species)] = mass
	}
	if species, mass := stringField(init, "species", ""), floatField(init, "liquid_mass", 0); species != "" && mass > 0 {
		t.fluids.Liquid[plumbing.Species(species)] = mass
	}
	return t, nil
}

func (t *Tank) ID() string   { return t.id }
func (t *Tank) Kind() string { return "tank" }

// Describe returns the init data needed to reconstruct this tank's
// configured pressure. Stored fluid masses are runtime state, not
// configuration, and are not round-tripped through it.
func (t *Tank) Describe() Init { return Init{"pressure": t.pressure} }

func (t *Tank) PreUpdate(dt float64)     {}
func (t *Tank) Update(dt float64)        {}
func (t *Tank) EditorUpdate(dt float64)  {}
func (t *Tank) PhysicsUpdate(dt float64) {}

func (t *Tank) Plumbing() *plumbing.PlumbingMachine { return t.plumbing }

// Port returns the tank's single real port, for wiring test fixtures.
func (t *Tank) Port() *plumbing.FluidPort { return t.port }

func (t *Tank) OutFlow(portID string, mass float64, doIt bool) *plumbing.StoredFluids {
	out := plumbing.NewStoredFluids()
	remaining := mass
	for sp, have := range t.fluids.Gas {
		take := remaining
		if have < take {
			take = have
		}
		out.Gas[sp] = take
		if doIt {
			t.fluids.Gas[sp] = have - take
		}
		remaining -= take
		if remaining <= 0 {
			break
		}
	}
	for sp, have := range t.fluids.Liquid {
		if remaining <= 0 {
			break
		}
		take := remaining
		if have < take {
			take = have
		}
		out.Liquid[sp] = take
		if doIt {
			t.fluids.Liquid[sp] = have - take
		}
		remaining -= take
	}
	return out
}

func (t *Tank) InFlow(portID string, fluids *plumbing.StoredFluids, doIt bool) {
	if doIt {
		t.fluids.Modify(fluids)
	}
}

func (t *Tank) Pressure(portID string) float64 { return t.pressure }

func (t *Tank) PressureDrop(inPort, outPort string, pIn float64) float64 { return 0 }

func (t *Tank) ConnectedPorts(portID string) []*plumbing.FluidPort { return nil }

func floatField(init Init, key string, def float64) float64 {
	if init == nil {
		return def
	}
	if v, ok := init[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return def
}

func stringField(init Init, key, def string) string {
	if init == nil {
		return def
	}
	if v, ok := init[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func intField(init Init, key string, def int) int {
	if init == nil {
		return def
	}
	if v, ok := init[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return def
}
