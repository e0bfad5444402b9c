// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package main demonstrates the ik library without a host engine:
// a three bone chain is pulled toward a target and the joint positions
// are printed after each solve step. Run with:
//
//	go run github.com/gazed/ik/eg
package main

import (
	"fmt"

	"github.com/gazed/ik"
	"github.com/gazed/ik/math/lin"
)

func main() {
	rig := ik.NewRig(ik.Target(1.5, 1.5, 0))
	for i := 0; i < 3; i++ {
		if err := rig.AddBone(1, lin.NewQI()); err != nil {
			fmt.Println(err)
			return
		}
	}
	rig.CompleteChain()

	fmt.Println("start:", joints(rig))
	for step := 1; step <= 5; step++ {
		if rig.UpdateChainPosition(1) == 0 {
			fmt.Println("on target after", step-1, "steps")
			break
		}
		fmt.Printf("step %d: %s\n", step, joints(rig))
	}
	x, y, z := rig.GetTipPosition()
	fmt.Printf("tip: (%.4f, %.4f, %.4f)\n", x, y, z)
}

// joints formats the rig's joint positions for printing.
func joints(rig *ik.Rig) string {
	s := ""
	for _, j := range rig.GetJoints() {
		s += fmt.Sprintf("(%.2f, %.2f, %.2f) ", j.X, j.Y, j.Z)
	}
	return s
}
