// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rigidworld

import (
	"math"

	"github.com/galvanizedlogic/vehiclecore/math/lin"
)

// Collider is a mass-bearing collision primitive attached to a piece, given
// in the piece's local space centered at its origin. The physics world
// uses a Collider's Volume and Inertia when folding a piece into a welded
// group's compound rigid body; it does not otherwise interpret a
// Collider's shape, since collision narrow-phase is the opaque world's job.
type Collider interface {
	Type() int       // Type returns the collider kind.
	Volume() float64 // Volume, for mass = density*volume.

	// Inertia computes the local-frame inertia tensor diagonal for a given
	// mass, writing the result into and returning inertia.
	Inertia(mass float64, inertia *lin.V3) *lin.V3
}

// Enumerate the collider kinds handled here. CompoundCollider folds several
// of the primitive kinds together into the one shape a welded group's Body
// is actually created with.
const (
	SphereCollider = iota
	BoxCollider
	CompoundCollider
)

// box is a collider primitive: an axis aligned box centered at the origin,
// defined by half-lengths along each axis.
type box struct {
	Hx, Hy, Hz float64
}

// NewBox returns a box collider. Negative inputs are made positive.
func NewBox(hx, hy, hz float64) Collider { return &box{math.Abs(hx), math.Abs(hy), math.Abs(hz)} }

func (b *box) Type() int       { return BoxCollider }
func (b *box) Volume() float64 { return b.Hx * 2 * b.Hy * 2 * b.Hz * 2 }

func (b *box) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	lx2, ly2, lz2 := 4.0*b.Hx*b.Hx, 4.0*b.Hy*b.Hy, 4.0*b.Hz*b.Hz
	inertia.SetS(mass/12.0*(ly2+lz2), mass/12.0*(lx2+lz2), mass/12.0*(lx2+ly2))
	return inertia
}

// sphere is a collider primitive: a ball of the given radius centered at
// the origin.
type sphere struct {
	R float64
}

// NewSphere returns a sphere collider. A negative radius is made positive.
func NewSphere(radius float64) Collider { return &sphere{math.Abs(radius)} }

func (s *sphere) Type() int       { return SphereCollider }
func (s *sphere) Volume() float64 { return 4.0 / 3.0 * s.R * s.R * s.R * math.Pi }

func (s *sphere) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	elem := 0.4 * mass * s.R * s.R
	inertia.SetS(elem, elem, elem)
	return inertia
}
