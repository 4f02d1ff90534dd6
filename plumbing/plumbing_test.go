// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

import "testing"

func TestBoundsIgnoresMachinesWithoutPlumbing(t *testing.T) {
	noPlumbing := &PlumbingMachine{}
	_, _, _, _, ok := Bounds([]*PlumbingMachine{noPlumbing})
	if ok {
		t.Fatal("got ok true for a machine with no ports, want false")
	}
}

func TestBoundsAccumulatesMachineFootprints(t *testing.T) {
	a := &PlumbingMachine{
		Ports:           []*FluidPort{{ID: "p"}},
		EditorPositionX: 2,
		EditorPositionY: 3,
		EditorSizeX:     2,
		EditorSizeY:     2,
	}
	b := &PlumbingMachine{
		Ports:           []*FluidPort{{ID: "p"}},
		EditorPositionX: -1,
		EditorPositionY: 5,
		EditorSizeX:     1,
		EditorSizeY:     1,
	}

	minX, minY, maxX, maxY, ok := Bounds([]*PlumbingMachine{a, b})
	if !ok {
		t.Fatal("got ok false, want true")
	}
	// a's expanded footprint is [2,3]-[6,7]; b's is [-1,5]-[2,8].
	if minX != -1 || minY != 3 || maxX != 6 || maxY != 8 {
		t.Errorf("got bounds (%d,%d)-(%d,%d), want (-1,3)-(6,8)", minX, minY, maxX, maxY)
	}
}

func TestFindFreeSpaceReturnsBelowBounds(t *testing.T) {
	a := &PlumbingMachine{
		Ports:           []*FluidPort{{ID: "p"}},
		EditorPositionX: 0,
		EditorPositionY: 0,
		EditorSizeX:     2,
		EditorSizeY:     2,
	}

	x, y, ok := FindFreeSpace([]*PlumbingMachine{a})
	if !ok {
		t.Fatal("got ok false, want true")
	}
	// a's expanded footprint is [0,0]-[4,4] (size 2, expanded by 1 each side).
	if x != 0 || y != 4 {
		t.Errorf("got free space (%d,%d), want (0,4)", x, y)
	}
}

func TestFindFreeSpaceEmptyVehicle(t *testing.T) {
	x, y, ok := FindFreeSpace(nil)
	if ok {
		t.Fatal("got ok true for no machines, want false")
	}
	if x != 0 || y != 0 {
		t.Errorf("got (%d,%d), want (0,0)", x, y)
	}
}
