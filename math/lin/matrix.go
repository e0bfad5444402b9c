// SPDX-FileCopyrightText : © 2025 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// Matrix functions deal with the 3x3 rotation matrices needed by hosts
// that consume solver output in matrix form. Rotations inside the solver
// itself are tracked using quaternions; M3 exists for the boundary.
//
// This matrix implementation uses explicitly indexed, Row-Major, matrix
// members as follows:
//
//	[Xx, Xy, Xz]  X-Axis
//	[Yx, Yy, Yz]  Y-Axis
//	[Zx, Zy, Zz]  Z-Axis
//
// A vector point (x, y, z) multiplied as a column vector with matrix m is:
//
//	x' = x*Xx + y*Xy + z*Xz
//	y' = x*Yx + y*Yy + z*Yz
//	z' = x*Zx + y*Zy + z*Zz

// M3 is a 3x3 matrix where the matrix elements are individually addressable.
type M3 struct {
	Xx, Xy, Xz float64 // indices 0, 1, 2  [00, 01, 02]  X-Axis
	Yx, Yy, Yz float64 // indices 3, 4, 5  [10, 11, 12]  Y-Axis
	Zx, Zy, Zz float64 // indices 6, 7, 8  [20, 21, 22]  Z-Axis
}

// M3I provides a reference identity matrix that can be used
// in calculations. It should never be changed.
var M3I = &M3{
	Xx: 1, Xy: 0, Xz: 0,
	Yx: 0, Yy: 1, Yz: 0,
	Zx: 0, Zy: 0, Zz: 1,
}

// Eq (==) returns true if all the elements in matrix m have the same value
// as the corresponding elements in matrix a.
func (m *M3) Eq(a *M3) bool {
	return true &&
		m.Xx == a.Xx && m.Xy == a.Xy && m.Xz == a.Xz &&
		m.Yx == a.Yx && m.Yy == a.Yy && m.Yz == a.Yz &&
		m.Zx == a.Zx && m.Zy == a.Zy && m.Zz == a.Zz
}

// Aeq (~=) almost equals returns true if all the elements in matrix m have
// essentially the same value as the corresponding elements in matrix a.
// Used where equals is unlikely to return true due to float precision.
func (m *M3) Aeq(a *M3) bool {
	return true &&
		Aeq(m.Xx, a.Xx) && Aeq(m.Xy, a.Xy) && Aeq(m.Xz, a.Xz) &&
		Aeq(m.Yx, a.Yx) && Aeq(m.Yy, a.Yy) && Aeq(m.Yz, a.Yz) &&
		Aeq(m.Zx, a.Zx) && Aeq(m.Zy, a.Zy) && Aeq(m.Zz, a.Zz)
}

// SetS (=) explicitly sets the matrix scalar values using the given scalars.
// The updated matrix m is returned.
//
//	Xx, Xy, Xz is the X Axis.
//	Yx, Yy, Yz is the Y Axis.
//	Zx, Zy, Zz is the Z Axis.
func (m *M3) SetS(Xx, Xy, Xz, Yx, Yy, Yz, Zx, Zy, Zz float64) *M3 {
	m.Xx, m.Xy, m.Xz = Xx, Xy, Xz
	m.Yx, m.Yy, m.Yz = Yx, Yy, Yz
	m.Zx, m.Zy, m.Zz = Zx, Zy, Zz
	return m
}

// Set (=) assigns all the scalar values from matrix a to the
// corresponding scalar values in matrix m.
// The source matrix a is unchanged. The updated matrix m is returned.
func (m *M3) Set(a *M3) *M3 {
	m.Xx, m.Xy, m.Xz = a.Xx, a.Xy, a.Xz
	m.Yx, m.Yy, m.Yz = a.Yx, a.Yy, a.Yz
	m.Zx, m.Zy, m.Zz = a.Zx, a.Zy, a.Zz
	return m
}

// Transpose updates m to be the reflection of matrix a over its diagonal.
// This essentially changes row-major order to column-major order
// or vice-versa.
//
//	[ Xx Xy Xz ]    [ Xx Yx Zx ]
//	[ Yx Yy Yz ] => [ Xy Yy Zy ]
//	[ Zx Zy Zz ]    [ Xz Yz Zz ]
//
// The input matrix a is not changed. Matrix m may be used as the input
// parameter. The updated matrix m is returned.
func (m *M3) Transpose(a *M3) *M3 {
	tXy, tXz, tYz := a.Xy, a.Xz, a.Yz
	m.Xx, m.Xy, m.Xz = a.Xx, a.Yx, a.Zx
	m.Yx, m.Yy, m.Yz = tXy, a.Yy, a.Zy
	m.Zx, m.Zy, m.Zz = tXz, tYz, a.Zz
	return m
}

// Mult updates matrix m to be the multiplication of input matrices l, r.
//
//	[ lXx lXy lXz ] [ rXx rXy rXz ]    [ mXx mXy mXz ]
//	[ lYx lYy lYz ]x[ rYx rYy rYz ] => [ mYx mYy mYz ]
//	[ lZx lZy lZz ] [ rZx rZy rZz ]    [ mZx mZy mZz ]
//
// It is safe to use the calling matrix m as one or both of the parameters.
// The updated matrix m is returned.
func (m *M3) Mult(l, r *M3) *M3 {
	xx := l.Xx*r.Xx + l.Xy*r.Yx + l.Xz*r.Zx
	xy := l.Xx*r.Xy + l.Xy*r.Yy + l.Xz*r.Zy
	xz := l.Xx*r.Xz + l.Xy*r.Yz + l.Xz*r.Zz
	yx := l.Yx*r.Xx + l.Yy*r.Yx + l.Yz*r.Zx
	yy := l.Yx*r.Xy + l.Yy*r.Yy + l.Yz*r.Zy
	yz := l.Yx*r.Xz + l.Yy*r.Yz + l.Yz*r.Zz
	zx := l.Zx*r.Xx + l.Zy*r.Yx + l.Zz*r.Zx
	zy := l.Zx*r.Xy + l.Zy*r.Yy + l.Zz*r.Zy
	zz := l.Zx*r.Xz + l.Zy*r.Yz + l.Zz*r.Zz
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// MultLtR multiplies the transpose of matrix l on the left of matrix r
// and stores the result in m. This saves a method call when calculating
// inverse rotations and basis transfers.
//
//	[ lXx lYx lZx ] [ rXx rXy rXz ]    [ mXx mXy mXz ]
//	[ lXy lYy lZy ]x[ rYx rYy rYz ] => [ mYx mYy mYz ]
//	[ lXz lYz lZz ] [ rZx rZy rZz ]    [ mZx mZy mZz ]
//
// It is safe to use the calling matrix m as one or both of the parameters.
// The updated matrix m is returned.
func (m *M3) MultLtR(lt, r *M3) *M3 {
	xx := lt.Xx*r.Xx + lt.Yx*r.Yx + lt.Zx*r.Zx
	xy := lt.Xx*r.Xy + lt.Yx*r.Yy + lt.Zx*r.Zy
	xz := lt.Xx*r.Xz + lt.Yx*r.Yz + lt.Zx*r.Zz
	yx := lt.Xy*r.Xx + lt.Yy*r.Yx + lt.Zy*r.Zx
	yy := lt.Xy*r.Xy + lt.Yy*r.Yy + lt.Zy*r.Zy
	yz := lt.Xy*r.Xz + lt.Yy*r.Yz + lt.Zy*r.Zz
	zx := lt.Xz*r.Xx + lt.Yz*r.Yx + lt.Zz*r.Zx
	zy := lt.Xz*r.Xy + lt.Yz*r.Yy + lt.Zz*r.Zy
	zz := lt.Xz*r.Xz + lt.Yz*r.Yz + lt.Zz*r.Zz
	m.Xx, m.Xy, m.Xz = xx, xy, xz
	m.Yx, m.Yy, m.Yz = yx, yy, yz
	m.Zx, m.Zy, m.Zz = zx, zy, zz
	return m
}

// TransferM updates m to be the rotation matrix that carries the base
// coordinate system onto the target coordinate system, where both are
// given as orthonormal bases with their axes stored as rows. For each
// axis k of base, m multiplied with base axis k gives target axis k.
// The updated matrix m is returned.
func (m *M3) TransferM(base, target *M3) *M3 {
	return m.MultLtR(target, base)
}

// SetQ converts a quaternion rotation representation to a matrix
// rotation representation. SetQ updates matrix m to be the rotation
// matrix representing the rotation described by unit-quaternion q.
//
//	                     [ mXx mXy mXz ]
//	[ qx qy qz qw ] =>   [ mYx mYy mYz ]
//	                     [ mZx mZy mZz ]
//
// The parameter q is unchanged. The updated matrix m is returned.
func (m *M3) SetQ(q *Q) *M3 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	m.Xx, m.Xy, m.Xz = 1-2*(yy+zz), 2*(xy-wz), 2*(xz+wy)
	m.Yx, m.Yy, m.Yz = 2*(xy+wz), 1-2*(xx+zz), 2*(yz-wx)
	m.Zx, m.Zy, m.Zz = 2*(xz-wy), 2*(yz+wx), 1-2*(xx+yy)
	return m
}

// matrix operations
// ============================================================================
// convenience functions for allocating matrices. Nothing else should allocate.

// NewM3 creates a new, all zero, 3x3 matrix.
func NewM3() *M3 { return &M3{} }

// NewM3I creates a new 3x3 identity matrix.
func NewM3I() *M3 { return (&M3{}).Set(M3I) }
