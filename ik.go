// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package ik solves real-time inverse kinematics for a single unbranched
// chain of rigid bones: given a target position, repeated solve steps
// rotate each joint so the chain's free end reaches, or best
// approximates, the target while respecting per-joint rotation
// constraints. Expected use is a host application, eg: a game engine
// animation layer or a robot arm visualizer, driving one Rig per chain
// each frame:
//
//	rig := ik.NewRig()
//	rig.AddBone(1, lin.NewQI())
//	rig.AddBone(1, lin.NewQI())
//	rig.CompleteChain()
//	rig.SetTargetPosition(0, 1, 1)
//	used := rig.UpdateChainPosition(10)
//
// The solver is single threaded and purely cooperative with its caller:
// no operation blocks or spawns. Distinct Rig instances share no state,
// so a host may run many of them in parallel on different goroutines.
//
// Package ik is a companion library to the vu (virtual universe) 3D engine.
package ik

import (
	"errors"

	"github.com/gazed/ik/math/lin"
)

// Numerical tolerances. EpsilonCore guards the geometric kernel against
// degenerate directions. EpsilonUser is the precision contract for tip
// convergence: UpdateChainPosition stops iterating once the squared tip
// to target distance drops below it.
const (
	EpsilonCore = lin.EpsilonSqr
	EpsilonUser = 1e-7
)

// ErrBoneLength is returned when adding a bone whose length is not
// strictly positive.
var ErrBoneLength = errors.New("ik: bone length must be positive")

// Rig owns a single kinematic chain and its solver. Build the chain once
// with AddBone and CompleteChain, then move the target and call
// UpdateChainPosition each frame. Rotations for the host skeleton are
// read back with GetDeltaRotations.
type Rig struct {
	sol *solver
}

// NewRig creates an empty rig: no bones, root and target at the origin.
// Initial root and target positions can be set with attribute options.
func NewRig(attrs ...Attr) *Rig {
	r := &Rig{sol: newSolver()}
	r.configure(attrs)
	return r
}

// Reset discards the chain, returning the rig to its post NewRig state.
// The attribute options the rig was created with are not replayed.
func (r *Rig) Reset() { r.sol = newSolver() }

func (r *Rig) configure(attrs []Attr) {
	cfg := &Config{}
	for _, attr := range attrs {
		attr(cfg)
	}
	r.SetRootPosition(cfg.rx, cfg.ry, cfg.rz)
	r.SetTargetPosition(cfg.tx, cfg.ty, cfg.tz)
}

// SetRootPosition translates the chain so that joint 0 lands on x, y, z.
// The chain shape is preserved: every joint shifts by the same delta and
// no rotation changes.
func (r *Rig) SetRootPosition(x, y, z float64) {
	r.sol.overrideRootPosition(lin.NewV3S(x, y, z))
}

// GetRootPosition returns the position of joint 0, the fixed chain end.
func (r *Rig) GetRootPosition() (x, y, z float64) { return r.sol.root().GetS() }

// SetTargetPosition sets the world position the chain tip is pulled
// toward on subsequent solve steps.
func (r *Rig) SetTargetPosition(x, y, z float64) {
	r.sol.setTargetPosition(lin.NewV3S(x, y, z))
}

// GetTargetPosition returns the current solve target.
func (r *Rig) GetTargetPosition() (x, y, z float64) { return r.sol.target.GetS() }

// GetTipPosition returns the position of the free end of the chain.
// Stale between solve passes in the same way as GetJoints.
func (r *Rig) GetTipPosition() (x, y, z float64) { return r.sol.tip().GetS() }

// AddBone appends a bone of the given length to the free end of the
// chain. The bone's rest direction ŷ is rotated by localRotation
// relative to its parent bone. Joint positions are stale until
// CompleteChain or the next solve step. Returns ErrBoneLength for a
// non-positive length.
func (r *Rig) AddBone(length float64, localRotation *lin.Q) error {
	return r.sol.addBone(length, localRotation)
}

// CompleteChain recomputes joint positions and cached bone world
// orientations from the current local rotations. Call once after the
// last AddBone and before reading joint positions.
func (r *Rig) CompleteChain() { r.sol.completeChain() }

// ChainSize returns the number of bones in the chain.
func (r *Rig) ChainSize() int { return len(r.sol.bones()) }

// GetBoneLength returns the length of bone index, or 0 when no such
// bone exists.
func (r *Rig) GetBoneLength(index int) float64 {
	bones := r.sol.bones()
	if index < 0 || index >= len(bones) {
		return 0
	}
	return bones[index].Length()
}

// SetConstraint moves constraint c onto bone index, returning true on
// success. An out of range index changes nothing and returns false.
func (r *Rig) SetConstraint(index int, c Constraints) bool {
	return r.sol.setConstraint(index, c)
}

// GetJoints returns a copy of the world joint positions. There is always
// one more joint than bones; joint 0 is the chain root. Positions are
// current after CompleteChain or a completed solve step.
func (r *Rig) GetJoints() []lin.V3 {
	joints := make([]lin.V3, len(r.sol.joints))
	copy(joints, r.sol.joints)
	return joints
}

// UpdateChainPosition runs up to n solve steps, where one step is a
// backward pass rewriting bone rotations toward the target followed by a
// forward pass refreshing joint positions. Iteration stops early once
// the squared tip to target distance drops below EpsilonUser. Returns
// the number of steps actually run: 0 means the chain was already on
// target, n means the budget ran out first.
func (r *Rig) UpdateChainPosition(n int) int {
	for i := 0; i < n; i++ {
		if r.sol.tip().DistSqr(&r.sol.target) < EpsilonUser {
			return i
		}
		r.sol.iterateBack()
		r.sol.iterateFront()
	}
	return n
}

// GetDeltaRotations returns each bone's rotation expressed in its
// parent's global frame: the rotations a host applies to its own
// skeleton hierarchy to reproduce the solved chain. Valid after
// CompleteChain or a completed solve step.
func (r *Rig) GetDeltaRotations() []lin.Q {
	bones := r.sol.bones()
	deltas := make([]lin.Q, len(bones))
	var prevInv lin.Q
	prevInv.SetS(0, 0, 0, 1)
	for i, b := range bones {
		deltas[i].Mult(&b.global, &prevInv).Unit()
		prevInv.Inv(&b.global)
	}
	return deltas
}
