// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// euler.go converts between quaternions and Tait-Bryan angles in the
// X-Z-Y rotation order used for joint constraint boxes. The order is
// deliberate: clamping X first means a symmetric limit on X survives
// any amount of twist applied about Y last.

import "math"

// SetEulerXZY updates q to be the rotation formed by composing the
// given Tait-Bryan angles in X, Z, Y order, equivalent to
//
//	angleAxis(ax, x̂) * angleAxis(az, ẑ) * angleAxis(ay, ŷ)
//
// but computed directly from the half angle sines and cosines.
// The updated quaternion q is returned.
func (q *Q) SetEulerXZY(ax, az, ay float64) *Q {
	sx, cx := math.Sincos(ax * 0.5)
	sz, cz := math.Sincos(az * 0.5)
	sy, cy := math.Sincos(ay * 0.5)
	q.W = cx*cz*cy + sx*sz*sy
	q.X = sx*cz*cy - cx*sz*sy
	q.Y = cx*cz*sy - sx*sz*cy
	q.Z = cx*sz*cy + sx*cz*sy
	return q
}

// EulerXZY returns the Tait-Bryan X-Z-Y decomposition of quaternion q.
// It is the inverse of SetEulerXZY on the principal branch
// az ∈ [-π/2, π/2]. The asin argument is clamped and each atan2 pair is
// checked against zero so a gimbal-locked decomposition degrades to a
// zero angle instead of an arbitrary one.
func (q *Q) EulerXZY() (ax, az, ay float64) {
	az = math.Asin(Clamp(2*(q.W*q.Z-q.X*q.Y), -1, 1))
	sx := 2 * (q.W*q.X + q.Y*q.Z)
	cx := 1 - 2*(q.X*q.X+q.Z*q.Z)
	if math.Abs(sx) > EpsilonSqr || math.Abs(cx) > EpsilonSqr {
		ax = math.Atan2(sx, cx)
	}
	sy := 2 * (q.W*q.Y + q.X*q.Z)
	cy := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	if math.Abs(sy) > EpsilonSqr || math.Abs(cy) > EpsilonSqr {
		ay = math.Atan2(sy, cy)
	}
	return ax, az, ay
}
