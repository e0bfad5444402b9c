// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ik

// solver.go holds the iterative chain solver. Each solve step is a
// backward pass that rewrites bone rotations from the tip toward the
// root, followed by a forward pass that recomputes joint positions and
// cached world orientations from the root outward. The backward pass is
// analytic: every interior joint is treated as a two arm "binary joint"
// and solved with a closed form triangle solution, so a single sweep
// already lands the tip on reachable targets for short chains.

import (
	"log"
	"math"

	"github.com/gazed/ik/math/lin"
)

// livePose indexes the pose the solver iterates on. The pose sequence is
// an extension point for future pose blending; only the live pose is
// consulted today.
const livePose = 0

// boneAxis returns the canonical rest direction of every bone.
// Changing this axis invalidates the entire test suite.
func boneAxis(v *lin.V3) *lin.V3 { return v.SetS(0, 1, 0) }

// solver owns the live pose and the derived joint positions.
type solver struct {
	poses  []pose   // poses[livePose] is iterated on.
	joints []lin.V3 // derived joint positions, len(joints) == bone count+1.
	target lin.V3   // world position the chain tip is pulled toward.
	cum    lin.Q    // backward pass scratch: accumulated root side rotation.
}

// newSolver returns a solver with an empty chain rooted at the origin.
func newSolver() *solver {
	s := &solver{poses: []pose{{}}}
	s.joints = append(s.joints, lin.V3{})
	s.cum.SetS(0, 0, 0, 1)
	return s
}

// bones returns the live pose's bone chain.
func (s *solver) bones() []*Bone { return s.poses[livePose].bones }

// addBone appends a bone with the given length and local orientation to
// the live pose, along with a placeholder joint. The placeholder is not
// positioned: joint positions are stale until the next forward pass
// (or completeChain) runs.
func (s *solver) addBone(length float64, localOrientation *lin.Q) error {
	b, err := newBone(length, localOrientation)
	if err != nil {
		return err
	}
	s.poses[livePose].bones = append(s.poses[livePose].bones, b)
	s.joints = append(s.joints, s.joints[len(s.joints)-1])
	return nil
}

// completeChain establishes the joint positions and cached world
// orientations for the current local rotations by running one
// forward pass.
func (s *solver) completeChain() { s.iterateFront() }

// overrideRootPosition translates the entire joint sequence so that the
// chain root lands on p. No rotation changes, so the chain shape is
// preserved exactly.
func (s *solver) overrideRootPosition(p *lin.V3) {
	var delta lin.V3
	delta.Sub(p, &s.joints[0])
	for i := range s.joints {
		s.joints[i].Add(&s.joints[i], &delta)
	}
}

// setTargetPosition records the world position the tip is pulled toward.
func (s *solver) setTargetPosition(t *lin.V3) { s.target.Set(t) }

// setConstraint moves constraint c onto bone index. Returns false,
// changing nothing, when the index is out of range.
func (s *solver) setConstraint(index int, c Constraints) bool {
	bones := s.bones()
	if index < 0 || index >= len(bones) {
		log.Printf("Dev error. solver.setConstraint: no bone %d", index)
		return false
	}
	bones[index].SetConstraints(c)
	return true
}

// root returns the position of joint 0: the fixed end of the chain.
func (s *solver) root() *lin.V3 { return &s.joints[0] }

// tip returns the position of the free end of the chain.
// Equals the root position for an empty chain.
func (s *solver) tip() *lin.V3 { return &s.joints[len(s.joints)-1] }

// iterateFront is the forward kinematics pass. Starting at the root it
// composes local rotations outward, refreshing each bone's cached world
// orientation and each derived joint position. After iterateFront every
// joint satisfies joints[i+1] = joints[i] + global(i)·ŷ·length(i).
func (s *solver) iterateFront() {
	var rot lin.Q
	var dir lin.V3
	rot.SetS(0, 0, 0, 1)
	for i, b := range s.bones() {
		rot.Mult(&b.rotation, &rot).Unit()
		b.SetGlobalOrientation(&rot)
		boneAxis(&dir).MultQ(&dir, &rot).Scale(&dir, b.length.L)
		s.joints[i+1].Add(&s.joints[i], &dir)
	}
}

// iterateBack is the inverse kinematics pass. It overwrites bone local
// rotations to reduce the tip to target error, sweeping from the tip
// most joint toward the root. Each interior joint is solved analytically
// by solveBinaryJoint; the remaining root side error is absorbed by a
// final constrained lookAt. Bone world orientations and joint positions
// are left stale: run iterateFront to refresh them.
func (s *solver) iterateBack() {
	bones := s.bones()
	n := len(bones)
	if n == 0 {
		return
	}
	s.cum.SetS(0, 0, 0, 1)

	// work relative to the chain root: the sweep never moves joint 0.
	var localTarget, chainTip lin.V3
	localTarget.Sub(&s.target, &s.joints[0])
	chainTip.Sub(&s.joints[n], &s.joints[0])

	for i := n - 1; i >= 1; i-- {
		// where joint i sits once the sweep's accumulated root side
		// rotation is applied to it.
		var joint, arm lin.V3
		joint.Sub(&s.joints[i], &s.joints[0])
		joint.MultQ(&joint, &s.cum)
		arm.Sub(&chainTip, &joint)

		// a vanished arm on either side of the joint cannot produce a
		// usable working plane and the step cannot improve anything.
		if joint.LenSqr() < lin.EpsilonSqr || arm.LenSqr() < lin.EpsilonSqr {
			continue
		}
		chainTip = s.solveBinaryJoint(i, &joint, &arm, &localTarget)
	}
	s.lookAt(&chainTip, &localTarget)

	// Bone 0 has no parent, so its local rotation is its global rotation:
	// re-apply the prior global orientation that the sweep folded into
	// the accumulated rotation to keep successive sweeps consistent.
	b0 := bones[0]
	b0.rotation.Mult(&b0.global, &s.cum).Unit()
}

// solveBinaryJoint solves the two arm subproblem at bone index i.
// root is the vector from the chain root to the joint in the sweep's
// current frame, tip the vector from the joint to the current chain tip
// in that frame, and target the vector from the chain root to the solve
// target. The new local rotation is written to bone i (constraint
// projected) and the accumulated root side rotation absorbs the root arm
// correction (projected through the root bone's constraint so the sweep
// never walks outside the feasible region). Returns the new chain tip
// position relative to the chain root.
func (s *solver) solveBinaryJoint(i int, root, tip, target *lin.V3) lin.V3 {
	bones := s.bones()
	b := bones[i]

	// orthonormal working basis: y along the root arm, the x-y plane
	// containing both the root arm and the target.
	var x, y, z, tdir lin.V3
	y.Set(root).Unit()
	tdir.Set(target).Unit()
	lin.Normal(&z, &y, &tdir)
	x.Cross(&z, &y).Unit()

	lroot := NewLength(root.Len())
	ltip := NewLength(tip.Len())

	// project the target onto the working plane. A negative x component
	// is floating point slop: the basis was built so the target lies on
	// the positive x half of the plane.
	chordX, chordY := target.Dot(&x), target.Dot(&y)
	if chordX < 0 {
		chordX = 0
	}
	aroot, ajoint := calculateAngles(lroot, ltip, chordX, chordY)

	// rotate the root arm about z to meet the required chord angle.
	var rootRot lin.Q
	rootRot.SetAa(z.X, z.Y, z.Z, lin.HalfPi-aroot)
	var newRootDir lin.V3
	newRootDir.MultQ(&y, &rootRot)

	// the tip arm direction the triangle solution calls for, expressed
	// directly in the working basis.
	sin, cos := math.Sincos(aroot - ajoint)
	var newTipDir, ty lin.V3
	newTipDir.Scale(&x, cos)
	ty.Scale(&y, sin)
	newTipDir.Add(&newTipDir, &ty)

	// fold the root correction into the accumulated rotation, kept legal
	// at every step by the root bone's constraint.
	s.cum.Mult(&s.cum, &rootRot)
	bones[0].ApplyConstraint(&s.cum, &s.cum)
	s.cum.Unit()

	// ideal tip arm rotation, attenuated by the joint's flexibility.
	var curTip lin.V3
	curTip.Set(tip).Unit().MultQ(&curTip, &rootRot)
	var ideal, tipRot lin.Q
	lin.RotationBetween(&ideal, &curTip, &newTipDir)
	tipRot.ScaleAngle(&ideal, b.limits.Flexibility)
	newTipDir.MultQ(&curTip, &tipRot)

	// rebuild bone i's local rotation from the new parent and child
	// world orientations, then project it onto the joint's constraint.
	parent := bones[i-1]
	var parentGlobal, childGlobal, pinv lin.Q
	parentGlobal.Mult(&parent.global, &s.cum)
	childGlobal.Mult(&b.global, &s.cum)
	childGlobal.Mult(&childGlobal, &tipRot)
	pinv.Inv(parentGlobal.Unit())
	b.rotation.Mult(&childGlobal, &pinv)
	b.ApplyConstraint(&b.rotation, b.rotation.Unit())

	// new chain tip for the remainder of the sweep.
	var out, rootArm lin.V3
	out.Scale(&newTipDir, ltip.L)
	rootArm.Scale(&newRootDir, lroot.L)
	return *out.Add(&out, &rootArm)
}

// calculateAngles is the closed form planar two bone solution. Given the
// two arm lengths and the chord from the chain root to the target in the
// working plane, it returns the angle between the x axis and the root
// arm (aroot) and the angle between the root arm axis and the continuing
// tip direction (ajoint). See
// https://www.learnaboutrobots.com/inverseKinematics.htm
// The chord is clamped to the triangle inequality and every acos
// argument is clamped to [-1, 1] to survive floating point excursions.
func calculateAngles(root, tip Length, chordX, chordY float64) (aroot, ajoint float64) {
	clen := lin.Clamp(math.Sqrt(chordX*chordX+chordY*chordY),
		math.Abs(root.L-tip.L), root.L+tip.L)
	lbsq := clen * clen

	var achord float64
	switch {
	case chordX > lin.EpsilonSqr:
		achord = math.Atan2(chordY, chordX)
	case chordY > 0:
		achord = lin.HalfPi
	case chordY < 0:
		achord = -lin.HalfPi
	}

	if lbsq > lin.EpsilonSqr {
		aroot = achord + math.Acos(lin.Clamp(
			(root.L2-tip.L2+lbsq)/(2*root.L*clen), -1, 1))
	}

	// π-correction: acos yields the interior triangle angle; the solver
	// wants the angle between the root arm axis and the tip direction.
	ajoint = lin.PI - math.Acos(lin.Clamp(
		(root.L2+tip.L2-lbsq)/(2*root.L*tip.L), -1, 1))
	return aroot, ajoint
}

// lookAt aligns the swept chain with the target direction: the minimal
// rotation carrying direction onto target is folded into the accumulated
// root side rotation, projected through the root bone's constraint. When
// the constraint forbids full alignment the result is the legal
// projection, not the target. A near zero target direction changes
// nothing.
func (s *solver) lookAt(direction, target *lin.V3) {
	if target.LenSqr() <= lin.EpsilonSqr {
		return
	}
	var from, to lin.V3
	from.Set(direction).Unit()
	to.Set(target).Unit()
	var rot lin.Q
	lin.RotationBetween(&rot, &from, &to)
	s.cum.Mult(&s.cum, &rot)
	s.bones()[0].ApplyConstraint(&s.cum, &s.cum)
	s.cum.Unit()
}
