package mapdata

import (
	"fmt"

	"github.com/taigrr/pfhor/pkg/math3d"
)

// Map is the static level geometry.
type Map struct {
	Name     string        `json:"name,omitempty" yaml:"name,omitempty"`
	Points   []math3d.Vec2 `json:"points" yaml:"points"`
	Lines    []Line        `json:"lines" yaml:"lines"`
	Sides    []Side        `json:"sides" yaml:"sides"`
	Polygons []Polygon     `json:"polygons" yaml:"polygons"`
	Lights   []Light       `json:"lights" yaml:"lights"`
	Liquids  []Media       `json:"media" yaml:"media"`
	Start    Start         `json:"start" yaml:"start"`
}

// Start is where the player enters the level.
type Start struct {
	Polygon  int         `json:"polygon" yaml:"polygon"`
	Position math3d.Vec2 `json:"position" yaml:"position"`
	Facing   float64     `json:"facing" yaml:"facing"`
}

// IndexError is the panic value for an out-of-range record reference. It
// signals a corrupt map, never a condition to recover from while rendering.
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("mapdata: %s index %d out of range [0,%d)", e.Kind, e.Index, e.Len)
}

func check(kind string, i, n int) {
	if i < 0 || i >= n {
		panic(&IndexError{Kind: kind, Index: i, Len: n})
	}
}

// Point returns point i.
func (m *Map) Point(i int) math3d.Vec2 {
	check("point", i, len(m.Points))
	return m.Points[i]
}

// Line returns line i.
func (m *Map) Line(i int) Line {
	check("line", i, len(m.Lines))
	return m.Lines[i]
}

// Side returns side i.
func (m *Map) Side(i int) Side {
	check("side", i, len(m.Sides))
	return m.Sides[i]
}

// Polygon returns polygon i.
func (m *Map) Polygon(i int) Polygon {
	check("polygon", i, len(m.Polygons))
	return m.Polygons[i]
}

// Light returns light i.
func (m *Map) Light(i int) Light {
	check("light", i, len(m.Lights))
	return m.Lights[i]
}

// Media returns liquid i.
func (m *Map) Media(i int) Media {
	check("media", i, len(m.Liquids))
	return m.Liquids[i]
}

// Portal returns the polygon on the other side of wall in polygon, or None.
func (m *Map) Portal(polygon, wall int) int {
	p := m.Polygon(polygon)
	check("wall", wall, p.Walls())
	l := m.Line(p.Lines[wall])
	switch polygon {
	case l.FrontPoly:
		return l.BackPoly
	case l.BackPoly:
		return l.FrontPoly
	default:
		return None
	}
}

// WallEndpoints returns the start and end of wall in polygon, in the
// polygon's winding order.
func (m *Map) WallEndpoints(polygon, wall int) (math3d.Vec2, math3d.Vec2) {
	p := m.Polygon(polygon)
	n := p.Walls()
	check("wall", wall, n)
	return m.Point(p.Endpoints[wall]), m.Point(p.Endpoints[(wall+1)%n])
}

// WallSide returns the side decorating wall in polygon.
func (m *Map) WallSide(polygon, wall int) (Side, bool) {
	p := m.Polygon(polygon)
	check("wall", wall, p.Walls())
	if p.Sides[wall] == None {
		return Side{}, false
	}
	return m.Side(p.Sides[wall]), true
}

// PolygonVertices returns the corners of polygon in winding order.
func (m *Map) PolygonVertices(polygon int) []math3d.Vec2 {
	p := m.Polygon(polygon)
	verts := make([]math3d.Vec2, len(p.Endpoints))
	for i, e := range p.Endpoints {
		verts[i] = m.Point(e)
	}
	return verts
}

// Center returns the vertex average of polygon.
func (m *Map) Center(polygon int) math3d.Vec2 {
	var c math3d.Vec2
	verts := m.PolygonVertices(polygon)
	for _, v := range verts {
		c = c.Add(v)
	}
	if len(verts) == 0 {
		return c
	}
	return c.Scale(1 / float64(len(verts)))
}

// SurfaceTexture returns the texture slot s refers to. Walls without a side
// report false.
func (m *Map) SurfaceTexture(s Surface) (SurfaceTexture, bool) {
	p := m.Polygon(s.Polygon)
	if !s.IsWall() {
		if s.Slot == Ceiling {
			return p.Ceiling, true
		}
		return p.Floor, true
	}
	side, ok := m.WallSide(s.Polygon, s.Wall)
	if !ok {
		return SurfaceTexture{}, false
	}
	return side.Slot(s.Slot), true
}
