package models

import (
	"slices"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
	"github.com/taigrr/pfhor/pkg/world"
)

// FromWorld builds the level geometry of w at its current tick: every
// floor and ceiling, every wall slice and the surface of each liquid.
// Positions stay in map units, Z up. Texture coordinates repeat once per
// world unit.
func FromWorld(w *world.World) *Mesh {
	m := w.Map()
	mesh := NewMesh(m.Name)
	for i := range m.Polygons {
		addPolygon(mesh, w, i)
	}
	mesh.CalculateBounds()
	logger().WithField("polygons", len(m.Polygons)).
		WithField("triangles", mesh.TriangleCount()).
		Debug("built level mesh")
	return mesh
}

func addPolygon(mesh *Mesh, w *world.World, polygon int) {
	m := w.Map()
	p := m.Polygon(polygon)
	verts := m.PolygonVertices(polygon)
	if p.CeilingHeight <= p.FloorHeight {
		return
	}

	floor := horizontal(verts, p.FloorHeight, p.Floor, math3d.Up())
	mesh.addFan(floor, mesh.materialFor(p.Floor), mapdata.FloorSurface(polygon))

	ceiling := horizontal(verts, p.CeilingHeight, p.Ceiling, math3d.Up().Negate())
	slices.Reverse(ceiling)
	mesh.addFan(ceiling, mesh.materialFor(p.Ceiling), mapdata.CeilingSurface(polygon))

	if info, ok := w.MediaInfo(polygon); ok && p.FloorHeight < info.Height && info.Height < p.CeilingHeight {
		tex := mapdata.SurfaceTexture{Texture: info.Texture, Offset: info.Offset, Transfer: info.Transfer, Light: info.Light}
		liquid := horizontal(verts, info.Height, tex, math3d.Up())
		mesh.addFan(liquid, mesh.materialFor(tex), mapdata.FloorSurface(polygon))
	}

	for wall := range p.Walls() {
		side, hasSide := m.WallSide(polygon, wall)
		a, b := m.WallEndpoints(polygon, wall)
		for _, slice := range m.WallSlices(polygon, wall) {
			tex := mapdata.Blank(mapdata.None)
			if hasSide {
				tex = side.Slot(slice.Slot)
			}
			quad := wallQuad(a, b, slice, p.CeilingHeight, tex)
			mesh.addFan(quad, mesh.materialFor(tex), mapdata.WallSurface(polygon, wall, slice.Slot))
		}
	}
}

// horizontal lifts a polygon outline to height with grid-aligned texture
// coordinates.
func horizontal(verts []math3d.Vec2, height float64, tex mapdata.SurfaceTexture, normal math3d.Vec3) []MeshVertex {
	out := make([]MeshVertex, len(verts))
	for i, v := range verts {
		out[i] = MeshVertex{
			Position: v.Vec3(height),
			Normal:   normal,
			UV: math3d.V2(
				(v.X+tex.Offset.X)/mapdata.WorldUnit,
				(v.Y+tex.Offset.Y)/mapdata.WorldUnit,
			),
		}
	}
	return out
}

// wallQuad returns the band of wall a→b between slice.Bottom and
// slice.Top, wound to face into the polygon on its left. v runs down from
// the ceiling so stacked slices line up.
func wallQuad(a, b math3d.Vec2, slice mapdata.WallSlice, ceiling float64, tex mapdata.SurfaceTexture) []MeshVertex {
	normal := b.Sub(a).Perp().Normalize().Vec3(0)
	length := a.Distance(b)
	u0 := tex.Offset.X / mapdata.WorldUnit
	u1 := (length + tex.Offset.X) / mapdata.WorldUnit
	vTop := (ceiling - slice.Top + tex.Offset.Y) / mapdata.WorldUnit
	vBottom := (ceiling - slice.Bottom + tex.Offset.Y) / mapdata.WorldUnit
	return []MeshVertex{
		{Position: a.Vec3(slice.Bottom), Normal: normal, UV: math3d.V2(u0, vBottom)},
		{Position: a.Vec3(slice.Top), Normal: normal, UV: math3d.V2(u0, vTop)},
		{Position: b.Vec3(slice.Top), Normal: normal, UV: math3d.V2(u1, vTop)},
		{Position: b.Vec3(slice.Bottom), Normal: normal, UV: math3d.V2(u1, vBottom)},
	}
}
