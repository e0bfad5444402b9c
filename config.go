// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ik

// config.go reduces the NewRig API footprint using functional options.
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis

// Config holds chain attributes that can be set before the host starts
// driving solve steps.
type Config struct {
	rx, ry, rz float64 // chain root position.
	tx, ty, tz float64 // solve target position.
}

// Attr defines optional rig attributes used to configure a new Rig.
//
//	rig := ik.NewRig(
//	   ik.Root(0, 1, 0),
//	   ik.Target(4, 6, 4),
//	)
type Attr func(*Config) // type for attribute overrides

// Root sets the initial chain root position. For use in NewRig().
func Root(x, y, z float64) Attr {
	return func(c *Config) { c.rx, c.ry, c.rz = x, y, z }
}

// Target sets the initial solve target position. For use in NewRig().
func Target(x, y, z float64) Attr {
	return func(c *Config) { c.tx, c.ty, c.tz = x, y, z }
}
