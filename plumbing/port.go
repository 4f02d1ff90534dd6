// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

// FluidMachine is the fluid interface a machine implements to take part in
// plumbing. A real machine (a reservoir) only needs OutFlow/InFlow/Pressure
// to be meaningful; a flow machine (a through-device) additionally needs
// PressureDrop and ConnectedPorts to describe its internal wiring.
type FluidMachine interface {
	// OutFlow removes up to mass of fluid through port. With doIt false
	// this previews the removal without mutating machine state.
	OutFlow(portID string, mass float64, doIt bool) *StoredFluids

	// InFlow injects fluids through port.
	InFlow(portID string, fluids *StoredFluids, doIt bool)

	// Pressure returns the pressure at a real port.
	Pressure(portID string) float64

	// PressureDrop returns the (non-negative) pressure drop across a flow
	// machine between inPort and outPort, given the inlet pressure pIn.
	PressureDrop(inPort, outPort string, pIn float64) float64

	// ConnectedPorts returns the ports reachable through the device from
	// the given port, i.e. the internal wiring of a flow machine.
	ConnectedPorts(portID string) []*FluidPort
}

// FluidPort is an endpoint through which fluid enters or leaves a machine.
// A flow port is an inlet/outlet of a through-device; a real port is a
// reservoir boundary where fluid is actually created or destroyed.
type FluidPort struct {
	ID         string
	Machine    FluidMachine
	IsFlowPort bool
}

// PlumbingMachine is a machine's view into the fluid network: its ports
// plus the editor-grid layout metadata used to lay pipes out visually.
// It carries no physical behavior of its own; OutFlow/InFlow/Pressure/
// PressureDrop/ConnectedPorts are implemented by the owning FluidMachine.
type PlumbingMachine struct {
	Ports []*FluidPort

	EditorPositionX, EditorPositionY int
	EditorRotation                   int
	EditorSizeX, EditorSizeY         int
}

// HasPlumbing reports whether this machine exposes any fluid ports at all.
// Machines with no ports (most control/signal-only machines) are skipped
// by plumbing layout queries.
func (pm *PlumbingMachine) HasPlumbing() bool {
	return pm != nil && len(pm.Ports) > 0
}

// PortByID returns the named port, or nil if this machine has none with
// that id.
func (pm *PlumbingMachine) PortByID(id string) *FluidPort {
	if pm == nil {
		return nil
	}
	for _, p := range pm.Ports {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Size returns the editor-grid footprint of this machine, expanded by one
// cell in each direction when expand is true (used to keep pipes from
// crowding machine edges during auto-layout).
func (pm *PlumbingMachine) Size(expand bool) (w, h int) {
	w, h = pm.EditorSizeX, pm.EditorSizeY
	if expand {
		w, h = w+2, h+2
	}
	return w, h
}
