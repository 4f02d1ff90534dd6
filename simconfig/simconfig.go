// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package simconfig holds the vehicle core's tunable simulation constants,
// loaded from an optional YAML file the same way the teacher engine decodes
// its shader YAML in load/shd.go: a plain struct decoded with yaml.v3, with
// defaults applied for anything the file omits.
package simconfig

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the vehicle core reads instead of hard coding.
type Config struct {
	// FlowMultiplier scales a plumbing path's pressure delta into a mass
	// to move per tick (§4.5.4's FLOW_MULTIPLIER). Unit: arbitrary,
	// calibrated by feel rather than a physical derivation.
	FlowMultiplier float64 `yaml:"flow_multiplier"`

	// ReducerMaxIterations bounds the plumbing forced-path reduction sweep
	// (§4.5.3). Non-convergence beyond this is fatal.
	ReducerMaxIterations int `yaml:"reducer_max_iterations"`

	// Gravity is the rigid-body world's gravity acceleration, m/s^2,
	// passed straight to rigidworld.World.SetGravity.
	Gravity float64 `yaml:"gravity"`

	// PhysicsSubsteps is the number of fixed physics steps to run per
	// simulation frame (§5's "physics substep(s)").
	PhysicsSubsteps int `yaml:"physics_substeps"`

	// PhysicsSubstepSeconds is the fixed timestep of one physics substep.
	PhysicsSubstepSeconds float64 `yaml:"physics_substep_seconds"`
}

// Default returns the tunables this module ships with absent a config
// file: FlowMultiplier matches plumbing.DefaultFlowMultiplier, the reducer
// budget matches plumbing.MaxReducerIterations, and physics runs one
// 1/60s substep per frame under Earth-like gravity.
func Default() *Config {
	return &Config{
		FlowMultiplier:        0.000002,
		ReducerMaxIterations:  100,
		Gravity:               9.80665,
		PhysicsSubsteps:       1,
		PhysicsSubstepSeconds: 1.0 / 60.0,
	}
}

// Load reads and decodes a YAML config file, starting from Default and
// overwriting only the fields the file sets (missing fields keep their
// default). A missing file is not an error; Default is returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
