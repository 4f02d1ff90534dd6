// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehicle

import (
	"github.com/galvanizedlogic/vehiclecore/math/lin"
	"github.com/galvanizedlogic/vehiclecore/rigidworld"
)

// fakeBody and fakeWorld are minimal, in-memory stand-ins for the opaque
// rigid-body engine, used only by this package's tests: no collision, no
// integration, just enough state to assert the welded-group builder wires
// things up correctly.
type fakeBody struct {
	world           *lin.T
	lx, ly, lz      float64
	ax, ay, az      float64
	mass            float64
	inertia         *lin.V3
	shape           rigidworld.Collider
	disposed        bool
}

func newFakeBody(shape rigidworld.Collider) *fakeBody {
	return &fakeBody{world: lin.NewT().SetI(), shape: shape}
}

func (b *fakeBody) World() *lin.T         { return b.world }
func (b *fakeBody) SetWorld(t *lin.T)     { b.world = t }
func (b *fakeBody) Speed() (x, y, z float64) { return b.lx, b.ly, b.lz }
func (b *fakeBody) Whirl() (x, y, z float64) { return b.ax, b.ay, b.az }
func (b *fakeBody) SetSpeed(x, y, z float64) { b.lx, b.ly, b.lz = x, y, z }
func (b *fakeBody) SetWhirl(x, y, z float64) { b.ax, b.ay, b.az = x, y, z }
func (b *fakeBody) Push(x, y, z float64)     { b.lx, b.ly, b.lz = b.lx+x, b.ly+y, b.lz+z }
func (b *fakeBody) Turn(x, y, z float64)     { b.ax, b.ay, b.az = b.ax+x, b.ay+y, b.az+z }
func (b *fakeBody) SetMaterial(mass float64, inertia *lin.V3) {
	b.mass, b.inertia = mass, inertia
}
func (b *fakeBody) Dispose() { b.disposed = true }

type fakeWorld struct {
	bodies  []*fakeBody
	gravity float64
	steps   int
}

func newFakeWorld() *fakeWorld { return &fakeWorld{} }

func (w *fakeWorld) NewBody(shape rigidworld.Collider) rigidworld.Body {
	b := newFakeBody(shape)
	w.bodies = append(w.bodies, b)
	return b
}
func (w *fakeWorld) Step(dt float64)          { w.steps++ }
func (w *fakeWorld) SetGravity(gravity float64) { w.gravity = gravity }
