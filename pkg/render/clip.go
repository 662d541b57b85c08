// Package render turns a world into draw lists by portal traversal and
// rasterizes them, either in software into a framebuffer or as batched
// vertex data for a GPU device.
package render

import (
	"math"

	"github.com/taigrr/pfhor/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	len := p.Normal.Len()
	if len == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / len)
	p.D /= len
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// ClipArea is a wedge in the view's horizontal (x, z) plane bounded by two
// rays from the eye.
type ClipArea struct {
	Left  math3d.Vec2
	Right math3d.Vec2
}

// NewClipArea builds a wedge from two rays in any order. The ray that lies
// counter-clockwise of the other (further to the viewer's left) becomes the
// left edge.
func NewClipArea(a, b math3d.Vec2) ClipArea {
	if a.Cross(b) > 0 {
		return ClipArea{Left: b, Right: a}
	}
	return ClipArea{Left: a, Right: b}
}

// distances returns the signed distances of p inside the right and left
// edges. Both are non-negative inside the wedge.
func (c ClipArea) distances(p math3d.Vec2) (float64, float64) {
	return c.Right.Cross(p), p.Cross(c.Left)
}

// Contains reports whether p lies inside the wedge.
func (c ClipArea) Contains(p math3d.Vec2) bool {
	r, l := c.distances(p)
	return r >= 0 && l >= 0
}

// ClipSegment clips a→b to the wedge. ok is false when nothing is left.
func (c ClipArea) ClipSegment(a, b math3d.Vec2) (math3d.Vec2, math3d.Vec2, bool) {
	for edge := range 2 {
		ra, la := c.distances(a)
		rb, lb := c.distances(b)
		da, db := ra, rb
		if edge == 1 {
			da, db = la, lb
		}
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			a = a.Lerp(b, da/(da-db))
		case db < 0:
			b = a.Lerp(b, da/(da-db))
		}
	}
	return a, b, true
}

// ClipArea3D is a convex clip volume in view space (x right, y up, z
// forward) given as inward-facing planes. The zero value clips nothing.
type ClipArea3D struct {
	Planes []Plane

	// Bounds of the volume in projected (x/z, y/z) space.
	MinX, MaxX float64
	MinY, MaxY float64
	Near       float64
}

// NewClipArea3D builds the volume of points with projected coordinates in
// [minX, maxX] x [minY, maxY] and depth at least near.
func NewClipArea3D(minX, maxX, minY, maxY, near float64) ClipArea3D {
	c := ClipArea3D{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY, Near: near}
	c.Planes = []Plane{
		{Normal: math3d.V3(1, 0, -minX)},
		{Normal: math3d.V3(-1, 0, maxX)},
		{Normal: math3d.V3(0, 1, -minY)},
		{Normal: math3d.V3(0, -1, maxY)},
		{Normal: math3d.V3(0, 0, 1), D: -near},
	}
	for i := range c.Planes {
		c.Planes[i].Normalize()
	}
	return c
}

// nearSlack absorbs the rounding of crossing points that ClipPolygon puts
// on the near plane.
const nearSlack = 1e-6

// ClipArea3DFromPolygon derives the tightest volume of the NewClipArea3D
// form that contains poly. Vertices behind the near plane are ignored; if
// none remain the result is empty and clips everything.
func ClipArea3DFromPolygon(poly []math3d.Vec3, near float64) ClipArea3D {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		if p.Z < near-nearSlack*max(1, near) {
			continue
		}
		z := max(p.Z, near)
		x, y := p.X/z, p.Y/z
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	if minX > maxX {
		return NewClipArea3D(0, 0, 0, 0, near)
	}
	return NewClipArea3D(minX, maxX, minY, maxY, near)
}

// Empty reports whether the volume has no projected area.
func (c ClipArea3D) Empty() bool {
	return c.MinX >= c.MaxX || c.MinY >= c.MaxY
}

// Horizontal returns the wedge of the volume in the (x, z) plane.
func (c ClipArea3D) Horizontal() ClipArea {
	return NewClipArea(math3d.V2(c.MinX, 1), math3d.V2(c.MaxX, 1))
}

// ClipPolygon clips a convex polygon against every plane in turn. A polygon
// entirely inside is returned as is, without copying; one entirely outside
// any plane yields nil.
func (c ClipArea3D) ClipPolygon(poly []math3d.Vec3) []math3d.Vec3 {
	if len(poly) < 3 {
		return nil
	}

	inside := true
	for _, pl := range c.Planes {
		allOut := true
		for _, v := range poly {
			d := pl.DistanceToPoint(v)
			if d < 0 {
				inside = false
			}
			if d > 0 {
				allOut = false
			}
		}
		if allOut {
			return nil
		}
	}
	if inside {
		return poly
	}

	out := poly
	for _, pl := range c.Planes {
		out = ClipPolygonByPlane(out, pl)
		if out == nil {
			return nil
		}
	}
	return out
}

// ClipPolygonByPlane is one Sutherland–Hodgman pass: it keeps vertices on
// the positive side of pl and inserts the crossing point on every edge that
// changes side. Results with fewer than three vertices are nil.
func ClipPolygonByPlane(poly []math3d.Vec3, pl Plane) []math3d.Vec3 {
	n := len(poly)
	out := make([]math3d.Vec3, 0, n+2)
	for i := range n {
		cur, next := poly[i], poly[(i+1)%n]
		dc, dn := pl.DistanceToPoint(cur), pl.DistanceToPoint(next)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc > 0 && dn < 0) || (dc < 0 && dn > 0) {
			out = append(out, cur.Lerp(next, dc/(dc-dn)))
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

// ScreenRect is a half-open pixel rectangle [X0, X1) x [Y0, Y1).
type ScreenRect struct {
	X0, Y0, X1, Y1 int
}

// Empty reports whether r covers no pixels.
func (r ScreenRect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// Intersect returns the overlap of r and o.
func (r ScreenRect) Intersect(o ScreenRect) ScreenRect {
	return ScreenRect{
		X0: max(r.X0, o.X0), Y0: max(r.Y0, o.Y0),
		X1: min(r.X1, o.X1), Y1: min(r.Y1, o.Y1),
	}
}

// ScreenRect returns the pixels the volume covers in view v: all of them
// for the zero volume, none for an empty one.
func (c ClipArea3D) ScreenRect(v *View) ScreenRect {
	full := ScreenRect{X1: v.Width, Y1: v.Height}
	if c.Planes == nil {
		return full
	}
	if c.Empty() {
		return ScreenRect{}
	}
	x0, y0 := v.Project(c.MinX, c.MaxY)
	x1, y1 := v.Project(c.MaxX, c.MinY)
	r := ScreenRect{
		X0: int(math.Floor(x0)), Y0: int(math.Floor(y0)),
		X1: int(math.Ceil(x1)), Y1: int(math.Ceil(y1)),
	}
	return r.Intersect(full)
}
