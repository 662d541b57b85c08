package math3d

// Vec4 is a homogeneous point. The renderer uses it for clip-space
// positions handed to GPU backends.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// Vec4 extends a with the homogeneous coordinate w.
func (a Vec3) Vec4(w float64) Vec4 {
	return Vec4{a.X, a.Y, a.Z, w}
}

// Vec3 drops W.
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Divide performs the perspective divide. ok is false when W is zero.
func (v Vec4) Divide() (Vec3, bool) {
	if v.W == 0 {
		return Vec3{}, false
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}, true
}

// Float32 narrows the components for packing into vertex buffers.
func (v Vec4) Float32() [4]float32 {
	return [4]float32{float32(v.X), float32(v.Y), float32(v.Z), float32(v.W)}
}
