package render

import (
	"math"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// slideOffset returns how far a sliding texture has scrolled after ticks,
// in map units.
func slideOffset(t mapdata.TransferMode, ticks int) float64 {
	switch t {
	case mapdata.HorizontalSlide:
		return float64(ticks) * mapdata.WorldUnit / 64
	case mapdata.FastHorizontalSlide:
		return float64(ticks) * mapdata.WorldUnit / 32
	}
	return 0
}

// wallTexCoord maps a world point on the wall a→b to texture repeats. u
// runs along the wall from a and v runs down from top.
func wallTexCoord(a, b math3d.Vec2, top float64, q math3d.Vec3, tex mapdata.SurfaceTexture, ticks int) math3d.Vec2 {
	dir := b.Sub(a).Normalize()
	along := q.XY().Sub(a).Dot(dir)
	u := along + tex.Offset.X + slideOffset(tex.Transfer, ticks)
	v := top - q.Z + tex.Offset.Y
	return math3d.V2(u/mapdata.WorldUnit, v/mapdata.WorldUnit)
}

// horizontalTexCoord maps a world point on a floor or ceiling to texture
// repeats, aligned to the map grid.
func horizontalTexCoord(q math3d.Vec3, tex mapdata.SurfaceTexture, ticks int) math3d.Vec2 {
	u := q.X + tex.Offset.X + slideOffset(tex.Transfer, ticks)
	v := q.Y + tex.Offset.Y
	return math3d.V2(u/mapdata.WorldUnit, v/mapdata.WorldUnit)
}

// landscapeTexCoord maps a view-space point onto a cylinder around the
// viewer: u follows the world heading, v the elevation within the
// vertical field of view.
func landscapeTexCoord(v *View, p math3d.Vec3) math3d.Vec2 {
	if p.Z <= 0 {
		return math3d.Vec2{}
	}
	heading := v.Facing - math.Atan2(p.X, p.Z)
	u := heading / (2 * math.Pi)
	ty := math.Tan(v.VFov / 2)
	return math3d.V2(u, 0.5-0.5*(p.Y/p.Z)/ty)
}

// landscapeAt is landscapeTexCoord for the ray through pixel (px, py).
func landscapeAt(v *View, px, py float64) (float64, float64) {
	heading := v.Facing - math.Atan((px-v.cx)/v.fx)
	u := heading / (2 * math.Pi)
	elevation := (v.cy-py)/v.fy + v.tanPitch
	return u, 0.5 - 0.5*elevation/math.Tan(v.VFov/2)
}
