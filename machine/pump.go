// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package machine

import "github.com/galvanizedlogic/vehiclecore/plumbing"

func init() {
	Register("pump", newPump)
}

// Pump is a two-flow-port through-device with a configurable pressure
// delta that may be negative — a negative delta models the pump adding
// pressure rather than dropping it, letting property tests construct
// plumbing graphs where the forced-path reducer must choose between
// competing routes.
type Pump struct {
	id      string
	in, out *plumbing.FluidPort
	plumb   *plumbing.PlumbingMachine
	delta   float64
}

// pumpEditorSize is the pump's fixed editor-grid footprint, in cells.
const pumpEditorSizeX, pumpEditorSizeY = 1, 1

func newPump(id string, init Init) (Machine, error) {
	p := &Pump{delta: floatField(init, "pressure_delta", 0)}
	p.id = id
	p.in = &plumbing.FluidPort{ID: "in", Machine: p, IsFlowPort: true}
	p.out = &plumbing.FluidPort{ID: "out", Machine: p, IsFlowPort: true}
	p.plumb = &plumbing.PlumbingMachine{
		Ports:           []*plumbing.FluidPort{p.in, p.out},
		EditorPositionX: intField(init, "plumbing_pos_x", 0),
		EditorPositionY: intField(init, "plumbing_pos_y", 0),
		EditorRotation:  intField(init, "plumbing_rot", 0),
		EditorSizeX:     pumpEditorSizeX,
		EditorSizeY:     pumpEditorSizeY,
	}
	return p, nil
}

func (p *Pump) ID() string   { return p.id }
func (p *Pump) Kind() string { return "pump" }

// Describe returns the init data needed to reconstruct this pump's
// configured pressure delta.
func (p *Pump) Describe() Init { return Init{"pressure_delta": p.delta} }

func (p *Pump) PreUpdate(dt float64)     {}
func (p *Pump) Update(dt float64)        {}
func (p *Pump) EditorUpdate(dt float64)  {}
func (p *Pump) PhysicsUpdate(dt float64) {}

func (p *Pump) Plumbing() *plumbing.PlumbingMachine { return p.plumb }

func (p *Pump) InPort() *plumbing.FluidPort  { return p.in }
func (p *Pump) OutPort() *plumbing.FluidPort { return p.out }

func (p *Pump) OutFlow(portID string, mass float64, doIt bool) *plumbing.StoredFluids {
	return nil
}

func (p *Pump) InFlow(portID string, fluids *plumbing.StoredFluids, doIt bool) {}

func (p *Pump) Pressure(portID string) float64 { return 0 }

func (p *Pump) PressureDrop(inPort, outPort string, pIn float64) float64 { return p.delta }

func (p *Pump) ConnectedPorts(portID string) []*plumbing.FluidPort {
	switch portID {
	case p.in.ID:
		return []*plumbing.FluidPort{p.out}
	case p.out.ID:
		return []*plumbing.FluidPort{p.in}
	}
	return nil
}
