// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package vehiclefile

import "github.com/galvanizedlogic/vehiclecore/math/lin"

// transformFromMatrix decodes a flat, row-major 4x4 matrix (§6.1's
// "transform" field) into a lin.T: the translation lives in the bottom
// row (indices 12-14), the rotation in the top-left 3x3 block.
func transformFromMatrix(flat []float64) *lin.T {
	m4 := lin.NewM4()
	m4.Xx, m4.Xy, m4.Xz, m4.Xw = flat[0], flat[1], flat[2], flat[3]
	m4.Yx, m4.Yy, m4.Yz, m4.Yw = flat[4], flat[5], flat[6], flat[7]
	m4.Zx, m4.Zy, m4.Zz, m4.Zw = flat[8], flat[9], flat[10], flat[11]
	m4.Wx, m4.Wy, m4.Wz, m4.Ww = flat[12], flat[13], flat[14], flat[15]

	m3 := lin.NewM3().SetM4(m4)
	t := lin.NewT()
	t.Rot.SetM(m3)
	t.Loc.SetS(m4.Wx, m4.Wy, m4.Wz)
	return t
}

// matrixFromTransform encodes t back into a flat, row-major 4x4 matrix.
func matrixFromTransform(t *lin.T) []float64 {
	m3 := lin.NewM3().SetQ(t.Rot)
	return []float64{
		m3.Xx, m3.Xy, m3.Xz, 0,
		m3.Yx, m3.Yy, m3.Yz, 0,
		m3.Zx, m3.Zy, m3.Zz, 0,
		t.Loc.X, t.Loc.Y, t.Loc.Z, 1,
	}
}

func vecFromFile(v *fileVec3) *lin.V3 {
	if v == nil {
		return nil
	}
	return lin.NewV3().SetS(v.X, v.Y, v.Z)
}

func fileFromVec(v *lin.V3) *fileVec3 {
	if v == nil {
		return nil
	}
	return &fileVec3{X: v.X, Y: v.Y, Z: v.Z}
}

func quatFromFile(q *fileQuat) *lin.Q {
	if q == nil {
		return nil
	}
	return lin.NewQ().SetS(q.X, q.Y, q.Z, q.W)
}

func fileFromQuat(q *lin.Q) *fileQuat {
	if q == nil {
		return nil
	}
	return &fileQuat{X: q.X, Y: q.Y, Z: q.Z, W: q.W}
}

func waypointsFromFlat(flat []int) [][2]int {
	out := make([][2]int, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		out = append(out, [2]int{flat[i], flat[i+1]})
	}
	return out
}

func flatFromWaypoints(wps [][2]int) []int {
	out := make([]int, 0, len(wps)*2)
	for _, wp := range wps {
		out = append(out, wp[0], wp[1])
	}
	return out
}
