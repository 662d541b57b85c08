package render

import (
	"math"

	"github.com/taigrr/pfhor/pkg/math3d"
	"github.com/taigrr/pfhor/pkg/world"
)

// DefaultNear is the distance of the near clip plane in map units.
const DefaultNear = 4.0

// View is everything needed to project one frame: where the eye is, where
// it looks and the size of the viewport. View space has x to the right, y
// up and z forward.
type View struct {
	// Viewer
	Eye     math3d.Vec3
	Polygon int
	Facing  float64 // Yaw in radians, 0 looks along +X
	Pitch   float64 // Vertical look in radians, applied as a y-shear

	// Projection
	HFov   float64
	VFov   float64
	Width  int
	Height int
	Near   float64

	world    math3d.Mat4
	inverse  math3d.Mat4
	clip     math3d.Mat4
	fx, fy   float64
	cx, cy   float64
	tanPitch float64
}

// NewView builds the view of player on a width x height viewport.
func NewView(p world.Player, width, height int) *View {
	v := &View{
		Eye:     p.Eye(),
		Polygon: p.Polygon,
		Facing:  p.Facing,
		Pitch:   p.Pitch,
		HFov:    p.HFov,
		VFov:    p.VFov,
		Width:   width,
		Height:  height,
		Near:    DefaultNear,
	}
	v.Update()
	return v
}

// Update recomputes the cached matrices after a field was changed.
func (v *View) Update() {
	sin, cos := math.Sincos(v.Facing)
	forward := math3d.V3(cos, sin, 0)
	right := math3d.V3(sin, -cos, 0)
	v.world = math3d.ViewBasis(v.Eye, right, math3d.Up(), forward)
	v.inverse = v.world.Inverse()

	v.cx = float64(v.Width) / 2
	v.cy = float64(v.Height) / 2
	v.fx = v.cx / math.Tan(v.HFov/2)
	v.fy = v.cy / math.Tan(v.VFov/2)
	v.tanPitch = math.Tan(v.Pitch)
	v.clip = math3d.Projection(v.fx/v.cx, v.fy/v.cy, v.tanPitch, v.Near)
}

// Matrix returns the world to view transform.
func (v *View) Matrix() math3d.Mat4 {
	return v.world
}

// Clip returns the view to clip space transform used by GPU backends.
// After the perspective divide x and y land in [-1, 1] exactly where
// ToScreen puts them, with y up, and depth is zero at the near plane.
func (v *View) Clip() math3d.Mat4 {
	return v.clip
}

// WorldToView transforms a world point into view space.
func (v *View) WorldToView(p math3d.Vec3) math3d.Vec3 {
	return v.world.MulVec3(p)
}

// ViewToWorld transforms a view-space point back into the world.
func (v *View) ViewToWorld(p math3d.Vec3) math3d.Vec3 {
	return v.inverse.MulVec3(p)
}

// Focal returns the horizontal and vertical focal lengths in pixels.
func (v *View) Focal() (fx, fy float64) {
	return v.fx, v.fy
}

// TanPitch returns the tangent of the pitch shear.
func (v *View) TanPitch() float64 {
	return v.tanPitch
}

// Project maps projected coordinates (x/z, y/z) to pixels.
func (v *View) Project(px, py float64) (float64, float64) {
	return v.cx + v.fx*px, v.cy - v.fy*(py-v.tanPitch)
}

// ToScreen projects a view-space point onto the screen. ok is false for
// points at or behind the eye plane.
func (v *View) ToScreen(p math3d.Vec3) (x, y float64, ok bool) {
	if p.Z <= 0 {
		return 0, 0, false
	}
	x, y = v.Project(p.X/p.Z, p.Y/p.Z)
	return x, y, true
}

// ScreenToRay returns the unit view-space direction through pixel (px, py).
func (v *View) ScreenToRay(px, py float64) math3d.Vec3 {
	x := (px - v.cx) / v.fx
	y := (v.cy-py)/v.fy + v.tanPitch
	return math3d.V3(x, y, 1).Normalize()
}

// ScreenToWorldRay returns the world-space origin and unit direction of the
// ray through pixel (px, py).
func (v *View) ScreenToWorldRay(px, py float64) (origin, dir math3d.Vec3) {
	return v.Eye, v.inverse.MulVec3Dir(v.ScreenToRay(px, py))
}

// ClipArea3D returns the clip volume of the whole viewport.
func (v *View) ClipArea3D() ClipArea3D {
	tx := math.Tan(v.HFov / 2)
	ty := math.Tan(v.VFov / 2)
	return NewClipArea3D(-tx, tx, v.tanPitch-ty, v.tanPitch+ty, v.Near)
}
