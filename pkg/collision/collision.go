// Package collision provides the stateless geometric tests used by player
// movement and picking: directional wall crossings, point-in-polygon, and
// ray intersections against segments and horizontal planes.
package collision

import (
	"github.com/taigrr/pfhor/pkg/math3d"
)

// Segment is a directed 2D segment from A to B.
type Segment struct {
	A, B math3d.Vec2
}

// Seg creates a segment from two points.
func Seg(a, b math3d.Vec2) Segment {
	return Segment{A: a, B: b}
}

// Dir returns B - A.
func (s Segment) Dir() math3d.Vec2 {
	return s.B.Sub(s.A)
}

// Reverse returns the segment running from B to A.
func (s Segment) Reverse() Segment {
	return Segment{A: s.B, B: s.A}
}

// Collision describes where a moving segment crossed a wall.
// T is the fraction along the moving segment.
type Collision struct {
	T     float64
	Point math3d.Vec2
}

// SegmentIntersect tests whether moving crosses the oriented wall target.
//
// The inside of target is its left-hand side (counter-clockwise polygons
// keep their interior there). A hit is reported only when moving starts
// strictly inside and ends on or beyond the wall line, and the crossing
// point projects onto target's extent. Moving the other way never collides,
// which is what lets movement continue into a neighbouring polygon from the
// original start point. A zero-length target never collides.
func SegmentIntersect(moving, target Segment) (Collision, bool) {
	wall := target.Dir()
	normal := wall.Perp()

	d0 := moving.A.Sub(target.A).Dot(normal)
	d1 := moving.B.Sub(target.A).Dot(normal)
	if d0 <= 0 || d1 > 0 {
		return Collision{}, false
	}

	t := d0 / (d0 - d1)
	hit := moving.A.Lerp(moving.B, t)

	along := hit.Sub(target.A).Dot(wall)
	if along < 0 || along > wall.LenSq() {
		return Collision{}, false
	}
	return Collision{T: t, Point: hit}, true
}

// Closer returns whichever collision happens first. Either may be nil.
func Closer(a, b *Collision) *Collision {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.T < a.T:
		return b
	default:
		return a
	}
}

// PointInPolygon casts a horizontal ray from p towards -X and counts edge
// crossings. It reports true only for exactly one crossing, which is correct
// for convex polygons (every map polygon is convex, see mapdata.Validate)
// but not for concave ones.
func PointInPolygon(p math3d.Vec2, vertices []math3d.Vec2) bool {
	crossings := 0
	n := len(vertices)
	for i := range n {
		a := vertices[i]
		b := vertices[(i+1)%n]
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue
		}
		x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < p.X {
			crossings++
		}
	}
	return crossings == 1
}

// RaySegmentIntersect2D intersects the ray origin + t*dir (t > 0) with seg.
func RaySegmentIntersect2D(origin, dir math3d.Vec2, seg Segment) (float64, math3d.Vec2, bool) {
	edge := seg.Dir()
	denom := dir.Cross(edge)
	if denom == 0 {
		return 0, math3d.Vec2{}, false
	}
	rel := seg.A.Sub(origin)
	t := rel.Cross(edge) / denom
	s := rel.Cross(dir) / denom
	if t <= 0 || s < 0 || s > 1 {
		return 0, math3d.Vec2{}, false
	}
	return t, origin.Add(dir.Scale(t)), true
}

// RayPlaneIntersect3D intersects the ray origin + t*dir (t > 0) with the
// plane through point with the given normal.
func RayPlaneIntersect3D(origin, dir, point, normal math3d.Vec3) (float64, math3d.Vec3, bool) {
	denom := dir.Dot(normal)
	if denom == 0 {
		return 0, math3d.Vec3{}, false
	}
	t := point.Sub(origin).Dot(normal) / denom
	if t <= 0 {
		return 0, math3d.Vec3{}, false
	}
	return t, origin.Add(dir.Scale(t)), true
}

// SegmentPlaneIntersect3D intersects the segment start→end with the
// horizontal plane z = height. Segments parallel to the plane never hit.
func SegmentPlaneIntersect3D(start, end math3d.Vec3, height float64) (float64, math3d.Vec3, bool) {
	dir := end.Sub(start)
	if dir.Z == 0 {
		return 0, math3d.Vec3{}, false
	}
	t, p, ok := RayPlaneIntersect3D(start, dir, math3d.V3(0, 0, height), math3d.Up())
	if !ok || t > 1 {
		return 0, math3d.Vec3{}, false
	}
	return t, p, true
}
