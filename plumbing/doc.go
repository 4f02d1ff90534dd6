// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package plumbing finds and executes fluid flow across a graph of pipes
// connecting machine ports. Ports are either real (a reservoir boundary
// where fluid is created or destroyed) or flow (a through connection inside
// a passive device such as a valve). Each tick the solver enumerates every
// feasible path from a real port to a real port, computes the pressure drop
// along each path, reduces the candidate set to a mutually compatible
// "forced" subset, and moves fluid along whatever remains.
//
// Package plumbing has no knowledge of vehicles, parts, or pieces: it only
// knows about FluidMachine implementations and the pipes wiring their ports
// together. This keeps it usable from tests and from the vehicle package
// without an import cycle back to machine behavior.
//
// Package plumbing is provided as part of the vehiclecore simulation.
package plumbing

// doc.go collects package level documentation. The algorithms below port
// the flow solver described in:
//   universe/vehicle/plumbing/VehiclePlumbing.cpp (original source)
//     find_all_possible_paths     -> FindAllPaths
//     find_all_possible_paths_from -> findPathsFrom
//     calculate_delta_p           -> calculateDeltaP
//     find_forced_paths           -> findForcedPaths
//     remove_paths_not_compatible_with_forced / reduce_to_forced_paths -> reduceToForced
//     execute_flows               -> executeFlows
