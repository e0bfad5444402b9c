// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ik_test

// ik_test.go exercises the Rig facade the way a host application would:
// through the public API only. The delta rotation contract is verified
// with an independent quaternion implementation (gonum) recomposing the
// chain the way a host skeleton hierarchy would.

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/num/quat"

	"github.com/gazed/ik"
	"github.com/gazed/ik/math/lin"
)

func TestNewRigDefaults(t *testing.T) {
	rig := ik.NewRig()
	x, y, z := rig.GetRootPosition()
	require.Equal(t, [3]float64{0, 0, 0}, [3]float64{x, y, z})
	x, y, z = rig.GetTargetPosition()
	require.Equal(t, [3]float64{0, 0, 0}, [3]float64{x, y, z})
	x, y, z = rig.GetTipPosition()
	require.Equal(t, [3]float64{0, 0, 0}, [3]float64{x, y, z})
	require.Equal(t, 0, rig.ChainSize())
	require.Len(t, rig.GetJoints(), 1)
}

func TestNewRigAttrs(t *testing.T) {
	rig := ik.NewRig(ik.Root(1, 2, 3), ik.Target(4, 5, 6))
	x, y, z := rig.GetRootPosition()
	require.Equal(t, [3]float64{1, 2, 3}, [3]float64{x, y, z})
	x, y, z = rig.GetTargetPosition()
	require.Equal(t, [3]float64{4, 5, 6}, [3]float64{x, y, z})
}

func TestAddBone(t *testing.T) {
	rig := ik.NewRig()
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.NoError(t, rig.AddBone(2, lin.NewQI()))
	require.Equal(t, 2, rig.ChainSize())
	require.Len(t, rig.GetJoints(), 3)
	require.Equal(t, 1.0, rig.GetBoneLength(0))
	require.Equal(t, 2.0, rig.GetBoneLength(1))
	require.Equal(t, 0.0, rig.GetBoneLength(2))
	require.Equal(t, 0.0, rig.GetBoneLength(-1))
}

func TestAddBoneBadLength(t *testing.T) {
	rig := ik.NewRig()
	require.ErrorIs(t, rig.AddBone(0, lin.NewQI()), ik.ErrBoneLength)
	require.ErrorIs(t, rig.AddBone(-1, lin.NewQI()), ik.ErrBoneLength)
	require.Equal(t, 0, rig.ChainSize())
}

func TestCompleteChain(t *testing.T) {
	rig := ik.NewRig(ik.Root(0, 1, 0))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()
	x, y, z := rig.GetTipPosition()
	require.InDelta(t, 0, x, 1e-12)
	require.InDelta(t, 3, y, 1e-12)
	require.InDelta(t, 0, z, 1e-12)

	joints := rig.GetJoints()
	require.Len(t, joints, 3)
	require.True(t, joints[1].Aeq(lin.NewV3S(0, 2, 0)))
}

func TestSetRootPositionPreservesShape(t *testing.T) {
	rig := ik.NewRig()
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()
	rig.SetRootPosition(5, 5, 5)
	x, y, z := rig.GetTipPosition()
	require.InDelta(t, 5, x, 1e-12)
	require.InDelta(t, 6, y, 1e-12)
	require.InDelta(t, 5, z, 1e-12)
}

func TestSetConstraintRange(t *testing.T) {
	rig := ik.NewRig()
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.True(t, rig.SetConstraint(0, ik.NewConstraints()))
	require.False(t, rig.SetConstraint(1, ik.NewConstraints()))
	require.False(t, rig.SetConstraint(-1, ik.NewConstraints()))
}

func TestUpdateAlreadyOnTarget(t *testing.T) {
	rig := ik.NewRig(ik.Target(0, 2, 0))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()
	require.Equal(t, 0, rig.UpdateChainPosition(10))
}

func TestUpdateConverges(t *testing.T) {
	rig := ik.NewRig(ik.Target(0, 1, 1))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()

	used := rig.UpdateChainPosition(10)
	require.Greater(t, used, 0)
	require.Less(t, used, 10)

	x, y, z := rig.GetTipPosition()
	tx, ty, tz := rig.GetTargetPosition()
	dsq := (x-tx)*(x-tx) + (y-ty)*(y-ty) + (z-tz)*(z-tz)
	require.Less(t, dsq, ik.EpsilonUser)
}

// TestUpdateUnreachable: the tip parks on the workspace boundary, which
// never satisfies the convergence test, so the whole budget is spent.
func TestUpdateUnreachable(t *testing.T) {
	rig := ik.NewRig(ik.Target(0, 0, 10))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()

	require.Equal(t, 5, rig.UpdateChainPosition(5))
	x, y, z := rig.GetTipPosition()
	require.True(t, scalar.EqualWithinAbs(x, 0, 1e-7), "x %f", x)
	require.True(t, scalar.EqualWithinAbs(y, 0, 1e-7), "y %f", y)
	require.True(t, scalar.EqualWithinAbs(z, 2, 1e-7), "z %f", z)
}

func TestUpdateZeroBudget(t *testing.T) {
	rig := ik.NewRig(ik.Target(0, 1, 1))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()
	require.Equal(t, 0, rig.UpdateChainPosition(0))
}

func TestReset(t *testing.T) {
	rig := ik.NewRig(ik.Root(1, 1, 1), ik.Target(2, 2, 2))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.Reset()
	require.Equal(t, 0, rig.ChainSize())
	x, y, z := rig.GetRootPosition()
	require.Equal(t, [3]float64{0, 0, 0}, [3]float64{x, y, z})
	x, y, z = rig.GetTargetPosition()
	require.Equal(t, [3]float64{0, 0, 0}, [3]float64{x, y, z})
}

// quatOf converts a lin quaternion to gonum's representation.
func quatOf(q *lin.Q) quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

// rotate applies unit quaternion q to vector v via q·v·q⁻¹.
func rotate(q quat.Number, x, y, z float64) (float64, float64, float64) {
	v := quat.Number{Imag: x, Jmag: y, Kmag: z}
	r := quat.Mul(quat.Mul(q, v), quat.Conj(q))
	return r.Imag, r.Jmag, r.Kmag
}

// TestDeltaRotations: recomposing the per-bone delta rotations down a
// parent child hierarchy, the way a host skeleton would, must reproduce
// the solved tip position. The recomposition deliberately uses an
// independent quaternion implementation.
func TestDeltaRotations(t *testing.T) {
	rig := ik.NewRig(ik.Root(0, 1, 0), ik.Target(4, 6, 4))
	require.NoError(t, rig.AddBone(2, lin.NewQI()))
	require.NoError(t, rig.AddBone(2, lin.NewQI()))
	require.NoError(t, rig.AddBone(2, lin.NewQI()))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()
	rig.UpdateChainPosition(10)

	deltas := rig.GetDeltaRotations()
	require.Len(t, deltas, rig.ChainSize())

	px, py, pz := rig.GetRootPosition()
	rot := quat.Number{Real: 1}
	for i := range deltas {
		rot = quat.Mul(rot, quatOf(&deltas[i]))
		dx, dy, dz := rotate(rot, 0, 1, 0)
		l := rig.GetBoneLength(i)
		px, py, pz = px+dx*l, py+dy*l, pz+dz*l
	}

	tx, ty, tz := rig.GetTipPosition()
	require.True(t, scalar.EqualWithinAbs(px, tx, 1e-9), "x %f vs %f", px, tx)
	require.True(t, scalar.EqualWithinAbs(py, ty, 1e-9), "y %f vs %f", py, ty)
	require.True(t, scalar.EqualWithinAbs(pz, tz, 1e-9), "z %f vs %f", pz, tz)
}

// TestDeltaRotationsIdentity: a straight chain that has not solved
// anything yet reports identity deltas.
func TestDeltaRotationsIdentity(t *testing.T) {
	rig := ik.NewRig()
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	require.NoError(t, rig.AddBone(1, lin.NewQI()))
	rig.CompleteChain()
	for i, d := range rig.GetDeltaRotations() {
		require.True(t, d.Aeq(lin.QI), "delta %d: %v", i, d)
	}
}

func TestTolerances(t *testing.T) {
	require.Equal(t, 1e-14, ik.EpsilonCore)
	require.Equal(t, 1e-7, ik.EpsilonUser)
}

// TestParallelRigs: independent rigs share no state and may be solved
// concurrently by a host.
func TestParallelRigs(t *testing.T) {
	done := make(chan [3]float64)
	for i := 0; i < 4; i++ {
		go func() {
			rig := ik.NewRig(ik.Target(0, 1, 1))
			_ = rig.AddBone(1, lin.NewQI())
			_ = rig.AddBone(1, lin.NewQI())
			rig.CompleteChain()
			rig.UpdateChainPosition(10)
			x, y, z := rig.GetTipPosition()
			done <- [3]float64{x, y, z}
		}()
	}
	for i := 0; i < 4; i++ {
		tip := <-done
		require.InDelta(t, 0, tip[0], 1e-7)
		require.InDelta(t, 1, tip[1], 1e-7)
		require.InDelta(t, 1, tip[2], 1e-7)
	}
}
