package world

import (
	"github.com/sirupsen/logrus"

	"github.com/taigrr/pfhor/pkg/collision"
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// MovePlayer moves from old towards new starting in polygon. Walls are
// crossed with the directional test, so a move leaves a polygon through
// the nearest wall it exits by. Crossing a portal continues the search in
// the neighbour from the original start point, so one call may chain
// through several polygons. Crossing a wall with nothing behind it rejects
// the move (ok is false) and the caller keeps the old position.
func (w *World) MovePlayer(old, new math3d.Vec2, polygon int) (math3d.Vec2, int, bool) {
	motion := collision.Seg(old, new)
	visited := make(map[int]bool)

	for depth := 0; depth < MaxTraversalDepth; depth++ {
		visited[polygon] = true

		var nearest *collision.Collision
		wall := mapdata.None
		for i := range w.m.Polygon(polygon).Walls() {
			a, b := w.m.WallEndpoints(polygon, i)
			hit, ok := collision.SegmentIntersect(motion, collision.Seg(a, b))
			if !ok {
				continue
			}
			if c := collision.Closer(nearest, &hit); c == &hit {
				nearest = &hit
				wall = i
			}
		}
		if nearest == nil {
			return new, polygon, true
		}

		next := w.m.Portal(polygon, wall)
		if next == mapdata.None {
			return math3d.Vec2{}, polygon, false
		}
		if visited[next] {
			logger().WithFields(logrus.Fields{"polygon": polygon, "next": next}).Warn("movement revisited a polygon")
			return math3d.Vec2{}, polygon, false
		}
		polygon = next
	}

	logger().WithField("depth", MaxTraversalDepth).Warn("movement exceeded traversal depth")
	return math3d.Vec2{}, polygon, false
}
