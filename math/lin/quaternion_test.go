// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

import "testing"

func TestInverseQ(t *testing.T) {
	q, qi, want := &Q{0.2, 0.4, 0.5, 0.7}, &Q{}, &Q{-0.2, -0.4, -0.5, 0.7}
	if !qi.Inv(q).Eq(want) {
		t.Errorf(format, qi.Dump(), want.Dump())
	}
	if !q.Mult(q, qi).Unit().Aeq(QI) {
		t.Errorf(format, q.Dump(), QI.Dump())
	}
}

func TestNormalizeQ(t *testing.T) {
	q, want := &Q{1, 2, 3, 4}, &Q{0.1825742, 0.3651484, 0.5477226, 0.7302967}
	if !q.Unit().Aeq(want) {
		t.Errorf(format, q.Dump(), want.Dump())
	}
	q, want = &Q{0, 0, 0, 0}, &Q{0, 0, 0, 0}
	if !q.Unit().Eq(want) { // zero length quaternions are not normalized.
		t.Errorf(format, q.Dump(), want.Dump())
	}
}

func TestMultiplyQ(t *testing.T) {
	q, want := &Q{1, 2, 3, 4}, &Q{8, 16, 24, 2}
	if !q.Mult(q, q).Eq(want) {
		t.Errorf(format, q.Dump(), want.Dump())
	}
}

// TestMultiplyOrderQ pins the composition convention: Mult(r, s) applies
// rotation r first, then rotation s.
func TestMultiplyOrderQ(t *testing.T) {
	first := NewQ().SetAa(1, 0, 0, HalfPi)  // carries y to z.
	second := NewQ().SetAa(0, 0, 1, HalfPi) // carries y to -x, leaves z alone.
	v := &V3{0, 1, 0}

	// first then second: y to z, and second leaves z alone.
	q, want := NewQ().Mult(first, second), &V3{0, 0, 1}
	if got := NewV3().MultQ(v, q); !got.Aeq(want) {
		t.Errorf(format, got.Dump(), want.Dump())
	}

	// second then first: y to -x, and first leaves -x alone.
	q.Mult(second, first)
	want = &V3{-1, 0, 0}
	if got := NewV3().MultQ(v, q); !got.Aeq(want) {
		t.Errorf(format, got.Dump(), want.Dump())
	}
}

func TestDotLenQ(t *testing.T) {
	q := &Q{0.1825742, 0.3651484, 0.5477226, 0.7302967}
	if !Aeq(q.Len(), 1) || !Aeq(q.Dot(q), 1) {
		t.Errorf("Len is %+2.7f", q.Len())
	}
}

func TestDefaultAxisAngleQ(t *testing.T) {
	q, v, angle, want := &Q{0, 0, 0, 1}, &V3{}, 0.0, &V3{1, 0, 0}
	if v.X, v.Y, v.Z, angle = q.Aa(); !v.Aeq(want) || !Aeq(Deg(angle), 0) {
		t.Errorf("Got axis %s and angle %+2.7f", v.Dump(), Deg(angle))
	}
}

func TestAxisAngleQ(t *testing.T) {
	q, v, angle := NewQ().SetAa(0, 0.7071068, 0.7071068, Rad(90)), &V3{}, 0.0
	want := &V3{0, 0.7071068, 0.7071068}
	if v.X, v.Y, v.Z, angle = q.Aa(); !v.Aeq(want) || !Aeq(Deg(angle), 90) {
		t.Errorf("Got axis %s and angle %+2.7f", v.Dump(), Deg(angle))
	}

	// the axis does not need to be unit length on input.
	q2 := NewQ().SetAa(0, 2, 2, Rad(90))
	if !q2.Aeq(q) {
		t.Errorf(format, q2.Dump(), q.Dump())
	}
}

func TestAxisAngleOverflowQ(t *testing.T) {
	q := &Q{0, 0, 0, 1.0000000000000004} // w drifted past 1 by composition.
	if _, _, _, angle := q.Aa(); angle != 0 {
		t.Errorf("Angle is %+2.7f", angle)
	}
}

func TestScaleAngleQ(t *testing.T) {
	q := NewQ().SetAa(0, 0, 1, Rad(90))
	want := NewQ().SetAa(0, 0, 1, Rad(45))
	if !q.ScaleAngle(q, 0.5).Aeq(want) {
		t.Errorf(format, q.Dump(), want.Dump())
	}

	// zero flexibility collapses any rotation to identity.
	q.SetAa(1, 2, 3, 1.234)
	if !q.ScaleAngle(q, 0).Aeq(QI) {
		t.Errorf(format, q.Dump(), QI.Dump())
	}
}
