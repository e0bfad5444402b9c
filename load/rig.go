// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package load reads rig descriptions: small YAML documents describing a
// kinematic chain as a root position and a sequence of joint positions,
// with optional per-bone constraints and an optional initial target.
// The description format exists so editors and tools can pass chains
// around as data instead of code:
//
//	joints:
//	  - [0, 1, 0]
//	  - [0, 1, -2]
//	  - [0, 3, -2]
//	constraints:
//	  - bone: 1
//	    flexibility: 0.5
//	target: [4, 6, 4]
//
// Package load is provided as part of the ik inverse kinematics library.
package load

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gazed/ik"
	"github.com/gazed/ik/math/lin"
)

// rigDesc maps the YAML rig description to data structures.
// The first joints entry is the chain root.
type rigDesc struct {
	Joints      [][]float64      `yaml:"joints"`
	Constraints []constraintDesc `yaml:"constraints"`
	Target      []float64        `yaml:"target"`
}

// constraintDesc attaches a joint constraint to a bone by index.
// Omitted fields keep their unconstrained defaults.
type constraintDesc struct {
	Bone        int        `yaml:"bone"`
	Flexibility *float64   `yaml:"flexibility"`
	Min         *[]float64 `yaml:"min"`
	Max         *[]float64 `yaml:"max"`
}

// Rig reads a YAML rig description and returns a populated ik.Rig with
// its joint positions established. Each pair of successive joint
// positions becomes one bone; the bone's local rotation is derived so
// that forward kinematics reproduces the described joint positions
// exactly (up to an arbitrary twist about the bone axis, which the
// description cannot express).
func Rig(r io.Reader) (*ik.Rig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load.Rig: %w", err)
	}
	desc := &rigDesc{}
	if err := yaml.Unmarshal(data, desc); err != nil {
		return nil, fmt.Errorf("load.Rig: invalid rig description: %w", err)
	}
	if len(desc.Joints) < 2 {
		return nil, fmt.Errorf("load.Rig: need at least 2 joints, have %d", len(desc.Joints))
	}

	points := make([]lin.V3, len(desc.Joints))
	for i, j := range desc.Joints {
		if err := vec3(&points[i], j); err != nil {
			return nil, fmt.Errorf("load.Rig: joint %d: %w", i, err)
		}
	}

	rig := ik.NewRig(ik.Root(points[0].GetS()))
	if err := buildChain(rig, points); err != nil {
		return nil, err
	}
	for _, c := range desc.Constraints {
		limits := ik.NewConstraints()
		if c.Flexibility != nil {
			limits.Flexibility = lin.Clamp(*c.Flexibility, 0, 1)
		}
		if c.Min != nil {
			if err := vec3(&limits.MinAngles, *c.Min); err != nil {
				return nil, fmt.Errorf("load.Rig: constraint bone %d: %w", c.Bone, err)
			}
		}
		if c.Max != nil {
			if err := vec3(&limits.MaxAngles, *c.Max); err != nil {
				return nil, fmt.Errorf("load.Rig: constraint bone %d: %w", c.Bone, err)
			}
		}
		if !rig.SetConstraint(c.Bone, limits) {
			return nil, fmt.Errorf("load.Rig: constraint bone %d: no such bone", c.Bone)
		}
	}
	if desc.Target != nil {
		var t lin.V3
		if err := vec3(&t, desc.Target); err != nil {
			return nil, fmt.Errorf("load.Rig: target: %w", err)
		}
		rig.SetTargetPosition(t.GetS())
	}
	rig.CompleteChain()
	return rig, nil
}

// buildChain converts successive joint positions into bones. Each bone's
// world orientation is the minimal rotation carrying the canonical bone
// axis ŷ onto the bone's direction; the local rotation handed to AddBone
// is that world orientation expressed in the parent's frame.
func buildChain(rig *ik.Rig, points []lin.V3) error {
	var prevInv lin.Q
	prevInv.SetS(0, 0, 0, 1)
	axis := lin.NewV3S(0, 1, 0)
	for i := 1; i < len(points); i++ {
		var dir lin.V3
		dir.Sub(&points[i], &points[i-1])
		length := dir.Len()
		if length*length < lin.EpsilonSqr {
			return fmt.Errorf("load.Rig: joints %d and %d coincide", i-1, i)
		}
		var global, local lin.Q
		lin.RotationBetween(&global, axis, &dir)
		local.Mult(&global, &prevInv).Unit()
		if err := rig.AddBone(length, &local); err != nil {
			return fmt.Errorf("load.Rig: bone %d: %w", i-1, err)
		}
		prevInv.Inv(&global)
	}
	return nil
}

// vec3 fills v from a 3 element YAML sequence.
func vec3(v *lin.V3, s []float64) error {
	if len(s) != 3 {
		return fmt.Errorf("expecting 3 elements, have %d", len(s))
	}
	v.SetS(s[0], s[1], s[2])
	return nil
}
