// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package lin provides the linear math needed by a real-time inverse
// kinematics solver: 3 element vectors, quaternions, 3x3 rotation matrices,
// Tait-Bryan angle conversions, and a few robust geometric helpers.
// All scalars are float64. Accumulated quaternion composition over long
// bone chains drifts visibly in float32, so single precision is not offered.
//
// Package lin is provided as part of the ik inverse kinematics library.
package lin

// Design Notes:
//
// 1) This library is called from per-frame solver loops where performance
//    is key. Some general guidelines, verified with benchmarks in the
//    vu/math/lin package this code descends from:
//     - avoid instantiating new structures
//     - use pointers to structures
//     - prefer multiply over divide
//
// 2) Geometric helpers are total functions. Degenerate geometry is absorbed
//    by substituting a canonical axis and logging a dev error rather than
//    returning an error or NaN. Solver iteration must never stall on a
//    malformed intermediate value.

import "math"

// Various linear math constants.
const (

	// PI and its commonly needed variants.
	PI     float64 = math.Pi
	PIx2   float64 = PI * 2
	HalfPi float64 = PIx2 * 0.25
	DegRad float64 = PIx2 / 360.0 // X degrees * DegRad = Y radians
	RadDeg float64 = 360.0 / PIx2 // Y radians * RadDeg = X degrees

	// Epsilon is used to distinguish when a float is close enough to a
	// number for the purposes of comparing test expectations.
	Epsilon float64 = 0.000001

	// EpsilonSqr guards squared lengths and other second order terms
	// against floating point slop. Used by the geometric helpers and the
	// solver to detect degenerate directions.
	EpsilonSqr float64 = 1e-14
)

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * DegRad }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * RadDeg }

// AeqZ (~=) almost-equals returns true if the difference between x and zero
// is so small that it doesn't matter.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Aeq (~=) almost-equals returns true if the difference between a and b is
// so small that it doesn't matter.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Clamp returns a scalar value (one of: s, lb, ub) guaranteed to be within
// the range given by lower bound lb and upper bound ub.
func Clamp(s, lb, ub float64) float64 {
	switch {
	case s < lb:
		return lb
	case s > ub:
		return ub
	}
	return s
}
