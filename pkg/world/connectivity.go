package world

import (
	"github.com/sirupsen/logrus"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// AlignedSurface is a surface reached by a connected-surface search,
// together with the texture offset that continues the start surface's
// texture across it.
type AlignedSurface struct {
	Surface mapdata.Surface
	Offset  math3d.Vec2
}

// wallNode is a wall surface on the work queue with the vertical band it
// covers.
type wallNode struct {
	surface mapdata.Surface
	slice   mapdata.WallSlice
	offset  math3d.Vec2
}

// ConnectedSurfaces returns every surface reachable from start through
// surfaces accepted by match (nil accepts all), start included.
//
// Floors and ceilings spread to neighbouring polygons whose floor or
// ceiling sits at the same height. Walls spread around their endpoints,
// across portals where needed, to wall slices that overlap them
// vertically; offsets accumulate the length of the walls walked and the
// difference between slice tops so the texture runs on unbroken.
func (w *World) ConnectedSurfaces(start mapdata.Surface, match func(mapdata.Surface) bool) []AlignedSurface {
	if match == nil {
		match = func(mapdata.Surface) bool { return true }
	}
	if start.IsWall() {
		return w.connectedWalls(start, match)
	}
	return w.connectedHorizontal(start, match)
}

func (w *World) connectedHorizontal(start mapdata.Surface, match func(mapdata.Surface) bool) []AlignedSurface {
	height := func(polygon int) float64 {
		p := w.m.Polygon(polygon)
		if start.Slot == mapdata.Ceiling {
			return p.CeilingHeight
		}
		return p.FloorHeight
	}
	surface := func(polygon int) mapdata.Surface {
		if start.Slot == mapdata.Ceiling {
			return mapdata.CeilingSurface(polygon)
		}
		return mapdata.FloorSurface(polygon)
	}

	tex, _ := w.m.SurfaceTexture(start)
	want := height(start.Polygon)
	visited := map[int]bool{start.Polygon: true}
	queue := []int{start.Polygon}
	var out []AlignedSurface

	for len(queue) > 0 {
		polygon := queue[0]
		queue = queue[1:]
		out = append(out, AlignedSurface{Surface: surface(polygon), Offset: tex.Offset})

		for wall := range w.m.Polygon(polygon).Walls() {
			next := w.m.Portal(polygon, wall)
			if next == mapdata.None || visited[next] {
				continue
			}
			if height(next) != want || !match(surface(next)) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return out
}

func (w *World) sliceOf(s mapdata.Surface) (mapdata.WallSlice, bool) {
	for _, sl := range w.m.WallSlices(s.Polygon, s.Wall) {
		if sl.Slot == s.Slot {
			return sl, true
		}
	}
	return mapdata.WallSlice{}, false
}

func (w *World) wallLength(polygon, wall int) float64 {
	a, b := w.m.WallEndpoints(polygon, wall)
	return a.Distance(b)
}

// lineWall returns the wall index of line in polygon.
func (w *World) lineWall(polygon, line int) int {
	for i, l := range w.m.Polygon(polygon).Lines {
		if l == line {
			return i
		}
	}
	return mapdata.None
}

// aroundEndpoint lists the walls met when rotating around one endpoint of
// wall. Forward walks to the wall that starts where wall ends; backward to
// the wall that ends where wall starts. Portals whose gap overlaps the band
// are passed through into the neighbouring polygon.
func (w *World) aroundEndpoint(polygon, wall int, band mapdata.WallSlice, forward bool) [][2]int {
	var out [][2]int
	step := func(p, i int) int {
		n := w.m.Polygon(p).Walls()
		if forward {
			return (i + 1) % n
		}
		return (i + n - 1) % n
	}

	p, i := polygon, step(polygon, wall)
	for range len(w.m.Polygons) {
		if p == polygon && i == wall {
			break
		}
		out = append(out, [2]int{p, i})

		bottom, top, next := w.m.PortalGap(p, i)
		if next == mapdata.None || !band.Overlaps(bottom, top) {
			break
		}
		j := w.lineWall(next, w.m.Polygon(p).Lines[i])
		if j == mapdata.None {
			break
		}
		p, i = next, step(next, j)
	}
	return out
}

func (w *World) connectedWalls(start mapdata.Surface, match func(mapdata.Surface) bool) []AlignedSurface {
	slice, ok := w.sliceOf(start)
	if !ok {
		return nil
	}
	tex, ok := w.m.SurfaceTexture(start)
	if !ok {
		return nil
	}

	visited := map[mapdata.Surface]bool{start: true}
	queue := []wallNode{{surface: start, slice: slice, offset: tex.Offset}}
	var out []AlignedSurface

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, AlignedSurface{Surface: cur.surface, Offset: cur.offset})

		for _, forward := range []bool{true, false} {
			for _, pw := range w.aroundEndpoint(cur.surface.Polygon, cur.surface.Wall, cur.slice, forward) {
				if _, ok := w.m.WallSide(pw[0], pw[1]); !ok {
					continue
				}
				for _, sl := range w.m.WallSlices(pw[0], pw[1]) {
					s := mapdata.WallSurface(pw[0], pw[1], sl.Slot)
					if visited[s] || sl.Slot == mapdata.Transparent || !sl.Overlaps(cur.slice.Bottom, cur.slice.Top) || !match(s) {
						continue
					}
					visited[s] = true

					off := cur.offset
					if forward {
						off.X += w.wallLength(cur.surface.Polygon, cur.surface.Wall)
					} else {
						off.X -= w.wallLength(pw[0], pw[1])
					}
					off.Y += cur.slice.Top - sl.Top
					queue = append(queue, wallNode{surface: s, slice: sl, offset: off})
				}
			}
		}
	}
	logger().WithFields(logrus.Fields{"start": start.String(), "found": len(out)}).Debug("connected walls")
	return out
}

// PaintConnected returns a copy of the map in which every surface connected
// to start (see ConnectedSurfaces) carries texture, with wall offsets
// aligned to start. The world itself is not modified; pass the result to
// ReplaceMap to apply it.
func (w *World) PaintConnected(start mapdata.Surface, texture mapdata.ShapeDescriptor, match func(mapdata.Surface) bool) *mapdata.Map {
	m := w.m
	for _, s := range w.ConnectedSurfaces(start, match) {
		m = m.WithSurfaceTexture(s.Surface, texture)
		if s.Surface.IsWall() {
			m = m.WithSurfaceOffset(s.Surface, s.Offset.X, s.Offset.Y)
		}
	}
	return m
}

// SameTexture returns a match function accepting surfaces that carry the
// same texture as s.
func (w *World) SameTexture(s mapdata.Surface) func(mapdata.Surface) bool {
	want, ok := w.m.SurfaceTexture(s)
	return func(o mapdata.Surface) bool {
		got, gok := w.m.SurfaceTexture(o)
		return ok && gok && got.Texture == want.Texture
	}
}
