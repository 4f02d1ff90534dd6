// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package rigidworld describes the boundary between the vehicle core and
// an external rigid-body physics engine: colliders and their mass
// properties, the compound-shape math used to fold a welded group's
// pieces into one rigid body, and the opaque World/Body the vehicle core
// drives but does not implement.
//
// The real broadphase, narrowphase, and constraint solver are out of
// scope here; a production World implementation lives elsewhere and only
// needs to satisfy the interfaces in body.go.
package rigidworld
