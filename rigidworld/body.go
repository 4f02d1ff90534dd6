// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rigidworld

import "github.com/galvanizedlogic/vehiclecore/math/lin"

// Body is a single rigid body contained within the physics world. A welded
// group owns exactly one Body: the group's compound collider and mass
// properties, built by the welded-group builder from its pieces'
// individual Colliders.
//
// Body deliberately exposes only what the vehicle core needs to drive and
// query a welded group; narrow-phase collision, constraint solving, and
// contact resolution are the physics world's concern and are not
// represented here.
type Body interface {
	World() *lin.T         // Current world location and orientation.
	SetWorld(world *lin.T) // Teleport the body, bypassing physics.

	Speed() (x, y, z float64) // Current linear velocity.
	Whirl() (x, y, z float64) // Current angular velocity.
	SetSpeed(x, y, z float64) // Replace linear velocity, e.g. after a split.
	SetWhirl(x, y, z float64) // Replace angular velocity, e.g. after a split.
	Push(x, y, z float64)     // Add to linear velocity (impulse / mass).
	Turn(x, y, z float64)     // Add to angular velocity.

	// SetMaterial assigns mass and the local inertia tensor diagonal
	// computed from a welded group's compound collider.
	SetMaterial(mass float64, inertia *lin.V3)

	// Dispose removes this body from the world it belongs to. Called when
	// a welded group is rebuilt or a vehicle is destroyed.
	Dispose()
}

// World is the opaque rigid-body simulation the vehicle core drives but
// does not implement. A concrete World owns broadphase, narrowphase, and
// constraint solving; the vehicle core only ever creates bodies in it and
// steps it forward, exactly as described by the external collaborator
// boundary for rigid-body physics.
type World interface {
	// NewBody creates a Body with the given compound collider, initially
	// unpositioned and with zero mass (static) until SetMaterial is called.
	NewBody(shape Collider) Body

	// Step advances the simulation by dt seconds, applying gravity and any
	// queued forces and resolving collisions between the world's bodies.
	Step(dt float64)

	// SetGravity sets the world's gravity acceleration, applied uniformly
	// to every body with nonzero mass.
	SetGravity(gravity float64)
}
