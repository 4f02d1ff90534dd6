// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package machine defines the Machine interface that vehicle parts
// implement, the string-keyed factory registry used to build machines
// from vehicle file data, and a handful of reference machine kinds
// (tank, engine, valve, pump) that exercise the plumbing package's
// FluidMachine contract.
package machine
