package math3d

import "math"

// Mat4 is a 4x4 matrix stored column by column: element (row, col) is at
// index row+4*col and the translation occupies m[12], m[13] and m[14].
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Scale(V3(1, 1, 1))
}

// Translate returns a translation by v.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale returns a scaling along each axis by the components of v.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// UniformScale returns a scaling by s along every axis.
func UniformScale(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX returns a counter-clockwise rotation about the X axis.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a counter-clockwise rotation about the Z (height) axis.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// ViewBasis returns the matrix taking world points into the frame spanned
// by right, up and forward with its origin at eye. The basis must be
// orthonormal.
func ViewBasis(eye, right, up, forward Vec3) Mat4 {
	return Mat4{
		right.X, up.X, forward.X, 0,
		right.Y, up.Y, forward.Y, 0,
		right.Z, up.Z, forward.Z, 0,
		-right.Dot(eye), -up.Dot(eye), -forward.Dot(eye), 1,
	}
}

// Projection returns the clip transform of a view space with x right, y up
// and z forward. After the divide by w = z, x is scaled by sx, y is sheared
// by -shear·z then scaled by sy, and depth is 0 at near rising towards 1
// at infinity.
func Projection(sx, sy, shear, near float64) Mat4 {
	return Mat4{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, -sy * shear, 1, 1,
		0, 0, -near, 0,
	}
}

// Mul returns the product a·b, which applies b first.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[row+4*col] = a[row]*b[4*col] + a[row+4]*b[4*col+1] +
				a[row+8]*b[4*col+2] + a[row+12]*b[4*col+3]
		}
	}
	return m
}

// MulVec3 transforms v as a point (w = 1), dividing by the resulting w
// unless it is zero.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	h := m.MulVec4(v.Vec4(1))
	if p, ok := h.Divide(); ok {
		return p
	}
	return h.Vec3()
}

// MulVec3Dir transforms v as a direction (w = 0).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(v.Vec4(0)).Vec3()
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Inverse returns the inverse of an affine matrix, one whose bottom row is
// (0, 0, 0, 1). A singular matrix yields the identity.
func (m Mat4) Inverse() Mat4 {
	// Columns of the linear part.
	a := V3(m[0], m[1], m[2])
	b := V3(m[4], m[5], m[6])
	c := V3(m[8], m[9], m[10])

	det := a.Dot(b.Cross(c))
	if det == 0 {
		return Identity()
	}
	// Rows of the inverse linear part.
	r0 := b.Cross(c).Scale(1 / det)
	r1 := c.Cross(a).Scale(1 / det)
	r2 := a.Cross(b).Scale(1 / det)

	t := V3(m[12], m[13], m[14])
	return Mat4{
		r0.X, r1.X, r2.X, 0,
		r0.Y, r1.Y, r2.Y, 0,
		r0.Z, r1.Z, r2.Z, 0,
		-r0.Dot(t), -r1.Dot(t), -r2.Dot(t), 1,
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+4*col]
}
