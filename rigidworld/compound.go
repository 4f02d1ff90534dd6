// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rigidworld

import (
	"errors"
	"math"

	"github.com/galvanizedlogic/vehiclecore/math/lin"
)

var (
	errNoChildren = errors.New("rigidworld: welded group has no pieces to compound")
	errZeroMass   = errors.New("rigidworld: welded group has zero total mass")
)

// Child describes one piece's contribution to a welded group's compound
// body: its collider, mass, and the transform locating it relative to the
// group's arbitrary reference frame (usually the root piece's frame).
type Child struct {
	Collider Collider
	Mass     float64
	Local    *lin.T
}

// PrincipalAxes is the result of folding a welded group's pieces into a
// single rigid body: the combined mass, the transform from the group's
// reference frame to the body's principal axis frame (origin at the
// center of mass, axes aligned with the inertia tensor's eigenvectors),
// and the diagonal inertia in that frame.
type PrincipalAxes struct {
	Mass      float64
	Principal *lin.T
	Inertia   *lin.V3
}

// ComputePrincipalAxes folds children into a single compound rigid body,
// mirroring the source's create_new_welded_group: accumulate a combined
// inertia tensor about the center of mass, then diagonalize it so the body
// simulates with a simple diagonal inertia instead of a full tensor.
//
// children must be non-empty and every child's Mass must be positive; a
// welded group with zero total mass has no meaningful center of mass.
func ComputePrincipalAxes(children []Child) (*PrincipalAxes, error) {
	if len(children) == 0 {
		return nil, errNoChildren
	}

	totalMass := 0.0
	com := lin.NewV3()
	for _, c := range children {
		totalMass += c.Mass
		com.X += c.Mass * c.Local.Loc.X
		com.Y += c.Mass * c.Local.Loc.Y
		com.Z += c.Mass * c.Local.Loc.Z
	}
	if totalMass <= 0 {
		return nil, errZeroMass
	}
	com.Scale(com, 1.0/totalMass)

	accum := lin.NewM3()
	localInertia := lin.NewV3()
	rotM := lin.NewM3()
	rotated := lin.NewM3()
	offset := lin.NewV3()

	for _, c := range children {
		c.Collider.Inertia(c.Mass, localInertia)
		rotM.SetQ(c.Local.Rot)

		// Rotate the child's diagonal local inertia into the group frame:
		// I' = R * diag(I) * R^T.
		rotateInertia(rotM, localInertia, rotated)

		offset.Sub(c.Local.Loc, com)
		addParallelAxis(rotated, offset, c.Mass)

		accum.Add(accum, rotated)
	}

	eigenvectors, eigenvalues := jacobiEigenSymmetric3(accum)

	principal := lin.NewT()
	principal.Loc.Set(com)
	principal.Rot.SetM(eigenvectors)

	return &PrincipalAxes{
		Mass:      totalMass,
		Principal: principal,
		Inertia:   eigenvalues,
	}, nil
}

// compound is the Collider a welded group's Body is actually created with:
// the children folded together by ComputePrincipalAxes, already expressed
// in the principal axis frame. Its Inertia ignores the mass argument and
// returns the tensor ComputePrincipalAxes already computed for the group's
// real mass, since a compound shape's inertia cannot be rescaled from a
// unit mass the way a primitive's can.
type compound struct {
	children []Child
	inertia  *lin.V3
}

// NewCompoundCollider returns the Collider for a welded group's Body,
// built from the group's members and the principal axis decomposition
// ComputePrincipalAxes already produced for them.
func NewCompoundCollider(children []Child, axes *PrincipalAxes) Collider {
	return &compound{children: children, inertia: axes.Inertia}
}

func (c *compound) Type() int { return CompoundCollider }

func (c *compound) Volume() float64 {
	total := 0.0
	for _, child := range c.children {
		total += child.Collider.Volume()
	}
	return total
}

func (c *compound) Inertia(mass float64, inertia *lin.V3) *lin.V3 {
	inertia.Set(c.inertia)
	return inertia
}

// rotateInertia computes R * diag(d) * R^T, writing the result into out.
func rotateInertia(r *lin.M3, d *lin.V3, out *lin.M3) {
	// R * diag(d) scales each column of R by the matching diagonal entry.
	rd := lin.NewM3().SetS(
		r.Xx*d.X, r.Xy*d.Y, r.Xz*d.Z,
		r.Yx*d.X, r.Yy*d.Y, r.Yz*d.Z,
		r.Zx*d.X, r.Zy*d.Y, r.Zz*d.Z,
	)
	rt := lin.NewM3().Transpose(r)
	out.Mult(rd, rt)
}

// addParallelAxis adds m*(|r|^2*I - r⊗r) to tensor, the parallel axis
// theorem term for a point mass offset from the reference origin by r.
func addParallelAxis(tensor *lin.M3, r *lin.V3, m float64) {
	r2 := r.Dot(r)
	tensor.Xx += m * (r2 - r.X*r.X)
	tensor.Yy += m * (r2 - r.Y*r.Y)
	tensor.Zz += m * (r2 - r.Z*r.Z)
	tensor.Xy += m * (-r.X * r.Y)
	tensor.Xz += m * (-r.X * r.Z)
	tensor.Yz += m * (-r.Y * r.Z)
	tensor.Yx = tensor.Xy
	tensor.Zx = tensor.Xz
	tensor.Zy = tensor.Yz
}

// jacobiEigenSymmetric3 diagonalizes a symmetric 3x3 matrix using the
// classical cyclic Jacobi rotation method, returning the eigenvectors (as
// a rotation matrix whose columns are the eigenvectors) and the
// eigenvalues in the matching order. This mirrors the diagonalization
// Bullet physics performs when computing a compound shape's principal
// axis transform.
func jacobiEigenSymmetric3(a *lin.M3) (*lin.M3, *lin.V3) {
	m := [3][3]float64{
		{a.Xx, a.Xy, a.Xz},
		{a.Yx, a.Yy, a.Yz},
		{a.Zx, a.Zy, a.Zz},
	}
	v := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	for sweep := 0; sweep < 50; sweep++ {
		off := math.Abs(m[0][1]) + math.Abs(m[0][2]) + math.Abs(m[1][2])
		if off < 1e-12 {
			break
		}
		for p := 0; p < 2; p++ {
			for q := p + 1; q < 3; q++ {
				if math.Abs(m[p][q]) < 1e-15 {
					continue
				}
				theta := (m[q][q] - m[p][p]) / (2 * m[p][q])
				t := sign(theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c

				mpp, mqq, mpq := m[p][p], m[q][q], m[p][q]
				m[p][p] = c*c*mpp - 2*s*c*mpq + s*s*mqq
				m[q][q] = s*s*mpp + 2*s*c*mpq + c*c*mqq
				m[p][q], m[q][p] = 0, 0

				for i := 0; i < 3; i++ {
					if i != p && i != q {
						mip, miq := m[i][p], m[i][q]
						m[i][p] = c*mip - s*miq
						m[p][i] = m[i][p]
						m[i][q] = s*mip + c*miq
						m[q][i] = m[i][q]
					}
					vip, viq := v[i][p], v[i][q]
					v[i][p] = c*vip - s*viq
					v[i][q] = s*vip + c*viq
				}
			}
		}
	}

	vecs := lin.NewM3().SetS(
		v[0][0], v[0][1], v[0][2],
		v[1][0], v[1][1], v[1][2],
		v[2][0], v[2][1], v[2][2],
	)
	vals := lin.NewV3S(m[0][0], m[1][1], m[2][2])
	return vecs, vals
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
