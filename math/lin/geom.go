// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// geom.go holds the robust geometric helpers the solver leans on.
// These are total functions: degenerate geometry substitutes a canonical
// axis and logs a dev error instead of surfacing NaN or an error value.

import (
	"log"
	"math"
)

// Normal updates n to be a unit vector orthogonal to vector a, preferring
// the normal of the plane spanned by a and b. If a and b are parallel the
// cross product is retried against the z axis, then the y axis. The y and
// z axes are themselves orthogonal so one of the retries must succeed for
// any usable a. Near zero-length inputs are a design error: n is set to
// the y axis and the problem is logged.
// The updated vector n is returned. Vector n may alias a or b.
func Normal(n, a, b *V3) *V3 {
	if a.LenSqr() < EpsilonSqr || b.LenSqr() < EpsilonSqr {
		log.Printf("Dev error. lin.Normal: degenerate input axis")
		return n.SetS(0, 1, 0)
	}
	ax, ay, az := a.X, a.Y, a.Z // preserve a in case n aliases it.
	n.Cross(a, b)
	if n.LenSqr() < EpsilonSqr {
		n.SetS(ay, -ax, 0) // a × ẑ
	}
	if n.LenSqr() < EpsilonSqr {
		n.SetS(-az, 0, ax) // a × ŷ
	}
	return n.Unit()
}

// OrientedAngle returns the signed angle in radians carrying unit vector a
// onto unit vector b, where the sign is relative to the given reference
// axis: positive for a counter-clockwise rotation looking down the axis.
// The acos argument is clamped against float slop. All inputs unchanged.
func OrientedAngle(a, b, axis *V3) float64 {
	angle := math.Acos(Clamp(a.Dot(b), -1, 1))
	var c V3
	c.Cross(a, b)
	if axis.Dot(&c) < 0 {
		return -angle
	}
	return angle
}

// RotationBetween updates q to be the minimal rotation carrying the
// direction of vector from onto the direction of vector to. The inputs
// need not be unit length. Aligned inputs produce identity. Antipodal
// inputs resolve through Normal's fallback chain, producing a π turn
// about a deterministic orthogonal axis.
// The updated quaternion q is returned.
func RotationBetween(q *Q, from, to *V3) *Q {
	var c V3
	c.Cross(from, to)
	if c.LenSqr() < EpsilonSqr && from.Dot(to) > 0 {
		return q.SetS(0, 0, 0, 1) // already aligned.
	}
	var f, t, axis V3
	f.Set(from).Unit()
	t.Set(to).Unit()
	Normal(&axis, &f, &t)
	angle := OrientedAngle(&f, &t, &axis)
	return q.SetAa(axis.X, axis.Y, axis.Z, angle)
}
