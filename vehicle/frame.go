// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

import (
	"github.com/galvanizedlogic/vehiclecore/plumbing"
	"github.com/galvanizedlogic/vehiclecore/rigidworld"
)

// Tick advances the vehicle by one simulation frame, sequencing
// subsystems in the fixed order §5 mandates: every part's PreUpdate, one
// plumbing tick, substeps physics steps of substepSeconds each, every
// part's PhysicsUpdate, then every part's Update. It mirrors the
// teacher's engine.cycle loop (eng.go), which runs Update, steps the
// physics mover, then renders — rendering has no analogue here.
func (v *Vehicle) Tick(dt float64, world rigidworld.World, substeps int, substepSeconds float64) (err error) {
	defer Recover(&err)

	for _, pt := range v.Parts {
		pt.PreUpdate(dt)
	}

	flowMultiplier := plumbing.DefaultFlowMultiplier
	maxReducerIterations := plumbing.MaxReducerIterations
	if v.Context != nil && v.Context.Config != nil {
		flowMultiplier = v.Context.Config.FlowMultiplier
		maxReducerIterations = v.Context.Config.ReducerMaxIterations
	}
	result, perr := v.Plumbing.Tick(dt, flowMultiplier, maxReducerIterations)
	if perr != nil {
		return perr
	}
	if v.Context != nil && v.Context.Telemetry != nil {
		v.Context.Telemetry.PlumbingTicksTotal.Inc()
		v.Context.Telemetry.PlumbingRetainedPaths.Set(float64(len(result.Paths)))
		v.Context.Telemetry.PlumbingReducerIterations.Observe(float64(result.ReducerIterations))
		v.Context.Telemetry.PlumbingFluidMassMoved.Add(result.MassMoved)
	}

	if world != nil {
		for i := 0; i < substeps; i++ {
			world.Step(substepSeconds)
		}
	}

	for _, pt := range v.Parts {
		pt.PhysicsUpdate(dt)
	}
	for _, pt := range v.Parts {
		pt.Update(dt)
	}

	return nil
}
