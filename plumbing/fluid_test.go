// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

import "testing"

func TestStoredFluidsModify(t *testing.T) {
	f := NewStoredFluids()
	f.Modify(&StoredFluids{Gas: map[Species]float64{"he": 10}})
	if got := f.GetTotalGasMass(); got != 10 {
		t.Errorf("got gas mass %v, want 10", got)
	}

	f.Modify(&StoredFluids{Gas: map[Species]float64{"he": -25}})
	if got := f.Gas["he"]; got != 0 {
		t.Errorf("got clamped gas mass %v, want 0", got)
	}
}

func TestStoredFluidsModifyNil(t *testing.T) {
	f := NewStoredFluids()
	f.Modify(nil)
	if got := f.GetTotalGasMass() + f.GetTotalLiquidMass(); got != 0 {
		t.Errorf("got %v, want 0 after nil modify", got)
	}
}

func TestStoredFluidsTotals(t *testing.T) {
	f := &StoredFluids{
		Gas:    map[Species]float64{"he": 1, "n2": 2},
		Liquid: map[Species]float64{"lox": 4},
	}
	if got := f.GetTotalGasMass(); got != 3 {
		t.Errorf("got gas total %v, want 3", got)
	}
	if got := f.GetTotalLiquidMass(); got != 4 {
		t.Errorf("got liquid total %v, want 4", got)
	}
}
