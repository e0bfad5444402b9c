// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ik

// bone.go defines a single rigid segment of a kinematic chain along with
// its joint constraint. Bones know nothing about their position in space:
// position is derived by the solver from the chain root and the composed
// bone rotations.

import (
	"fmt"

	"github.com/gazed/ik/math/lin"
)

// Length caches a bone length alongside its square. The analytic joint
// solver consumes both on every sweep and the square saves repeated
// roots on its hot path. L2 is always L*L and L is never negative.
type Length struct {
	L  float64 // segment length.
	L2 float64 // segment length squared.
}

// NewLength returns the paired length cache for the given length.
func NewLength(l float64) Length { return Length{L: l, L2: l * l} }

// Constraints bound how far a joint is allowed to rotate.
type Constraints struct {

	// Flexibility is the fraction of the ideal per-iteration rotation
	// applied at this joint: 0 is fully locked, 1 is free. Default 1.
	Flexibility float64 `yaml:"flexibility"`

	// MinAngles and MaxAngles bound the Tait-Bryan X-Z-Y decomposition
	// of the joint's local rotation, per axis, in radians.
	// Defaults are -π..π on each axis, meaning unconstrained.
	MinAngles lin.V3 `yaml:"min"`
	MaxAngles lin.V3 `yaml:"max"`
}

// NewConstraints returns constraints that leave a joint completely free.
func NewConstraints() Constraints {
	return Constraints{
		Flexibility: 1,
		MinAngles:   lin.V3{X: -lin.PI, Y: -lin.PI, Z: -lin.PI},
		MaxAngles:   lin.V3{X: lin.PI, Y: lin.PI, Z: lin.PI},
	}
}

// Bone is a rigid segment between two joints. A bone at rest points along
// the canonical bone axis ŷ = (0,1,0); its local rotation carries that
// axis onto the bone's actual direction relative to its parent bone.
type Bone struct {
	length   Length      // fixed segment length.
	rotation lin.Q       // local rotation relative to the parent bone.
	global   lin.Q       // cached world orientation. See note below.
	limits   Constraints // joint rotation constraint.
}

// The global orientation is a cache written by the solver's forward pass.
// It is stale between a backward pass and the forward pass that follows
// and must not be trusted until the forward pass completes.

// newBone creates a bone of the given length whose local rotation is the
// normalized localOrientation. A non-positive length has no geometric
// meaning and is reported as an error.
func newBone(length float64, localOrientation *lin.Q) (*Bone, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrBoneLength, length)
	}
	b := &Bone{length: NewLength(length), limits: NewConstraints()}
	b.rotation.Set(localOrientation).Unit()
	b.global.SetS(0, 0, 0, 1)
	return b, nil
}

// Length returns the bone's fixed segment length.
func (b *Bone) Length() float64 { return b.length.L }

// Length2 returns the bone's segment length squared.
func (b *Bone) Length2() float64 { return b.length.L2 }

// Rotation returns the bone's local rotation relative to its parent.
func (b *Bone) Rotation() *lin.Q { return &b.rotation }

// SetRotation sets the bone's local rotation relative to its parent.
func (b *Bone) SetRotation(q *lin.Q) { b.rotation.Set(q).Unit() }

// GlobalOrientation returns the bone's cached world orientation.
// Valid only after a forward pass.
func (b *Bone) GlobalOrientation() *lin.Q { return &b.global }

// SetGlobalOrientation overwrites the bone's cached world orientation.
// Called by the solver's forward pass.
func (b *Bone) SetGlobalOrientation(q *lin.Q) { b.global.Set(q) }

// Constraints returns the bone's joint constraint.
func (b *Bone) Constraints() Constraints { return b.limits }

// SetConstraints replaces the bone's joint constraint.
func (b *Bone) SetConstraints(c Constraints) { b.limits = c }

// ApplyConstraint updates dst to be rotation q projected onto the bone's
// allowed Euler angle box: q is decomposed in X-Z-Y order, each angle is
// clamped to its bounds, and the clamped angles are recomposed. With the
// default constraints the projection preserves the rotation. The updated
// and renormalized quaternion dst is returned. Quaternion dst may be
// used as the input parameter q.
func (b *Bone) ApplyConstraint(dst, q *lin.Q) *lin.Q {
	ax, az, ay := q.EulerXZY()
	ax = lin.Clamp(ax, b.limits.MinAngles.X, b.limits.MaxAngles.X)
	az = lin.Clamp(az, b.limits.MinAngles.Z, b.limits.MaxAngles.Z)
	ay = lin.Clamp(ay, b.limits.MinAngles.Y, b.limits.MaxAngles.Y)
	return dst.SetEulerXZY(ax, az, ay).Unit()
}

// pose is an ordered bone sequence: a snapshot of local rotations that,
// together with a root position, determines every joint position.
// Index 0 is the root-most bone. Bones are owned exclusively by their pose.
type pose struct {
	bones []*Bone
}
