// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package plumbing

// Species names a fluid kind, e.g. "lox", "kerosene", "he". The solver does
// not interpret species names; it only moves whatever a machine hands it.
type Species string

// StoredFluids is a bag of fluid masses, kept separately as gas and liquid
// for each species. It is the unit of currency the solver moves between
// real ports: out_flow produces a StoredFluids, in_flow consumes one.
type StoredFluids struct {
	Gas    map[Species]float64
	Liquid map[Species]float64
}

// NewStoredFluids returns an empty fluid bag.
func NewStoredFluids() *StoredFluids {
	return &StoredFluids{Gas: map[Species]float64{}, Liquid: map[Species]float64{}}
}

// Modify adds delta's masses into f, clamping every resulting species mass
// at zero. delta entries may be negative (removal); the clamp prevents a
// bag from going negative regardless of how much is subtracted.
func (f *StoredFluids) Modify(delta *StoredFluids) {
	if delta == nil {
		return
	}
	for sp, m := range delta.Gas {
		f.Gas[sp] = clamp0(f.Gas[sp] + m)
	}
	for sp, m := range delta.Liquid {
		f.Liquid[sp] = clamp0(f.Liquid[sp] + m)
	}
}

// GetTotalGasMass sums every species' gas mass.
func (f *StoredFluids) GetTotalGasMass() float64 {
	total := 0.0
	for _, m := range f.Gas {
		total += m
	}
	return total
}

// GetTotalLiquidMass sums every species' liquid mass.
func (f *StoredFluids) GetTotalLiquidMass() float64 {
	total := 0.0
	for _, m := range f.Liquid {
		total += m
	}
	return total
}

func clamp0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
