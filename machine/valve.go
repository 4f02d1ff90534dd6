// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package machine

import "github.com/galvanizedlogic/vehiclecore/plumbing"

func init() {
	Register("valve", newValve)
}

// Valve is a two-flow-port through-device with a configurable, constant
// pressure drop. get_connected_ports always returns the port opposite the
// one queried, matching the scenario described for S4 in the vehicle core
// specification.
type Valve struct {
	id       string
	in, out  *plumbing.FluidPort
	plumbing *plumbing.PlumbingMachine
	drop     float64
}

// valveEditorSize is the valve's fixed editor-grid footprint, in cells.
const valveEditorSizeX, valveEditorSizeY = 1, 1

func newValve(id string, init Init) (Machine, error) {
	v := &Valve{drop: floatField(init, "pressure_drop", 0)}
	v.id = id
	v.in = &plumbing.FluidPort{ID: "in", Machine: v, IsFlowPort: true}
	v.out = &plumbing.FluidPort{ID: "out", Machine: v, IsFlowPort: true}
	v.plumbing = &plumbing.PlumbingMachine{
		Ports:           []*plumbing.FluidPort{v.in, v.out},
		EditorPositionX: intField(init, "plumbing_pos_x", 0),
		EditorPositionY: intField(init, "plumbing_pos_y", 0),
		EditorRotation:  intField(init, "plumbing_rot", 0),
		EditorSizeX:     valveEditorSizeX,
		EditorSizeY:     valveEditorSizeY,
	}
	return v, nil
}

func (v *Valve) ID() string   { return v.id }
func (v *Valve) Kind() string { return "valve" }

// Describe returns the init data needed to reconstruct this valve's
// configured pressure drop.
func (v *Valve) Describe() Init { return Init{"pressure_drop": v.drop} }

func (v *Valve) PreUpdate(dt float64)     {}
func (v *Valve) Update(dt float64)        {}
func (v *Valve) EditorUpdate(dt float64)  {}
func (v *Valve) PhysicsUpdate(dt float64) {}

func (v *Valve) Plumbing() *plumbing.PlumbingMachine { return v.plumbing }

// InPort and OutPort expose the valve's two flow ports for wiring test
// fixtures and vehicle file resolution.
func (v *Valve) InPort() *plumbing.FluidPort  { return v.in }
func (v *Valve) OutPort() *plumbing.FluidPort { return v.out }

func (v *Valve) OutFlow(portID string, mass float64, doIt bool) *plumbing.StoredFluids {
	return nil
}

func (v *Valve) InFlow(portID string, fluids *plumbing.StoredFluids, doIt bool) {}

func (v *Valve) Pressure(portID string) float64 { return 0 }

func (v *Valve) PressureDrop(inPort, outPort string, pIn float64) float64 { return v.drop }

func (v *Valve) ConnectedPorts(portID string) []*plumbing.FluidPort {
	switch portID {
	case v.in.ID:
		return []*plumbing.FluidPort{v.out}
	case v.out.ID:
		return []*plumbing.FluidPort{v.in}
	}
	return nil
}
