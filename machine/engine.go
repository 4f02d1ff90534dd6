// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package machine

import "github.com/galvanizedlogic/vehiclecore/plumbing"

func init() {
	Register("engine", newEngine)
}

// Engine is a real-port consumer: it drains fuel through its single real
// port and has no output port of its own. Its pressure is effectively a
// vacuum (zero), so plumbing paths flow toward it.
type Engine struct {
	id       string
	port     *plumbing.FluidPort
	plumbing *plumbing.PlumbingMachine
	consumed *plumbing.StoredFluids
}

// engineEditorSize is the engine's fixed editor-grid footprint, in cells.
const engineEditorSizeX, engineEditorSizeY = 2, 2

func newEngine(id string, init Init) (Machine, error) {
	e := &Engine{id: id, consumed: plumbing.NewStoredFluids()}
	e.port = &plumbing.FluidPort{ID: "in", Machine: e, IsFlowPort: false}
	e.plumbing = &plumbing.PlumbingMachine{
		Ports:           []*plumbing.FluidPort{e.port},
		EditorPositionX: intField(init, "plumbing_pos_x", 0),
		EditorPositionY: intField(init, "plumbing_pos_y", 0),
		EditorRotation:  intField(init, "plumbing_rot", 0),
		EditorSizeX:     engineEditorSizeX,
		EditorSizeY:     engineEditorSizeY,
	}
	return e, nil
}

func (e *Engine) ID() string   { return e.id }
func (e *Engine) Kind() string { return "engine" }

func (e *Engine) PreUpdate(dt float64)     {}
func (e *Engine) Update(dt float64)        {}
func (e *Engine) EditorUpdate(dt float64)  {}
func (e *Engine) PhysicsUpdate(dt float64) {}

func (e *Engine) Plumbing() *plumbing.PlumbingMachine { return e.plumbing }

func (e *Engine) Port() *plumbing.FluidPort { return e.port }

// TotalConsumed returns the cumulative fuel mass received by the engine,
// useful for test assertions and telemetry.
func (e *Engine) TotalConsumed() float64 {
	return e.consumed.GetTotalGasMass() + e.consumed.GetTotalLiquidMass()
}

func (e *Engine) OutFlow(portID string, mass float64, doIt bool) *plumbing.StoredFluids {
	return plumbing.NewStoredFluids()
}

func (e *Engine) InFlow(portID string, fluids *plumbing.StoredFluids, doIt bool) {
	if doIt {
		e.consumed.Modify(fluids)
	}
}

func (e *Engine) Pressure(portID string) float64 { return 0 }

func (e *Engine) PressureDrop(inPort, outPort string, pIn float64) float64 { return 0 }

func (e *Engine) ConnectedPorts(portID string) []*plumbing.FluidPort { return nil }
