package world

import (
	"github.com/taigrr/pfhor/pkg/collision"
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// Hit is the first surface a segment meets.
type Hit struct {
	Surface mapdata.Surface
	Point   math3d.Vec3
	// T is the fraction along the segment.
	T float64
}

// IntersectLineSegment follows the segment start→end from polygon through
// the polygon graph and returns the first surface it meets. Floors and
// ceilings are tested first, then walls. A wall hit above or below a
// portal's gap reports the wall slice there; a hit inside the gap continues
// in the neighbouring polygon. ok is false when the segment ends before
// meeting anything.
func (w *World) IntersectLineSegment(polygon int, start, end math3d.Vec3) (Hit, bool) {
	visited := make(map[int]bool)
	motion := collision.Seg(start.XY(), end.XY())

	for depth := 0; depth < MaxTraversalDepth; depth++ {
		visited[polygon] = true
		p := w.m.Polygon(polygon)
		verts := w.m.PolygonVertices(polygon)

		if start.Z > end.Z {
			if t, pt, ok := collision.SegmentPlaneIntersect3D(start, end, p.FloorHeight); ok && collision.PointInPolygon(pt.XY(), verts) {
				return Hit{Surface: mapdata.FloorSurface(polygon), Point: pt, T: t}, true
			}
		}
		if start.Z < end.Z {
			if t, pt, ok := collision.SegmentPlaneIntersect3D(start, end, p.CeilingHeight); ok && collision.PointInPolygon(pt.XY(), verts) {
				return Hit{Surface: mapdata.CeilingSurface(polygon), Point: pt, T: t}, true
			}
		}

		next := mapdata.None
		for i := range p.Walls() {
			a, b := w.m.WallEndpoints(polygon, i)
			c, ok := collision.SegmentIntersect(motion, collision.Seg(a, b))
			if !ok {
				continue
			}
			pt := c.Point.Vec3(math3d.Lerp(start.Z, end.Z, c.T))

			neighbour := w.m.Portal(polygon, i)
			if neighbour == mapdata.None {
				return Hit{Surface: mapdata.WallSurface(polygon, i, mapdata.Primary), Point: pt, T: c.T}, true
			}
			bottom, top, _ := w.m.PortalGap(polygon, i)
			for _, s := range w.m.WallSlices(polygon, i) {
				if s.Slot == mapdata.Transparent {
					continue
				}
				if pt.Z >= s.Bottom && pt.Z <= s.Top && (pt.Z > top || pt.Z < bottom) {
					return Hit{Surface: mapdata.WallSurface(polygon, i, s.Slot), Point: pt, T: c.T}, true
				}
			}
			next = neighbour
			break
		}

		if next == mapdata.None || visited[next] {
			return Hit{}, false
		}
		polygon = next
	}
	return Hit{}, false
}
