package mapdata

import (
	"github.com/taigrr/pfhor/pkg/math3d"
)

// Room describes one polygon for a Builder.
type Room struct {
	// Vertices in counter-clockwise order.
	Vertices []math3d.Vec2
	Floor    float64
	Ceiling  float64

	FloorTexture   SurfaceTexture
	CeilingTexture SurfaceTexture
	WallTexture    SurfaceTexture
	Media          int
}

// Builder assembles a Map from rooms, sharing points and lines between
// rooms that touch along an edge. Rooms sharing an edge become portals.
type Builder struct {
	m      Map
	points map[math3d.Vec2]int
	lines  map[[2]int]int
}

// NewBuilder starts an empty map.
func NewBuilder(name string) *Builder {
	return &Builder{
		m:      Map{Name: name},
		points: make(map[math3d.Vec2]int),
		lines:  make(map[[2]int]int),
	}
}

// Light adds a light and returns its index.
func (b *Builder) Light(l Light) int {
	b.m.Lights = append(b.m.Lights, l)
	return len(b.m.Lights) - 1
}

// Media adds a liquid and returns its index.
func (b *Builder) Media(md Media) int {
	b.m.Liquids = append(b.m.Liquids, md)
	return len(b.m.Liquids) - 1
}

// Start sets the player start.
func (b *Builder) Start(polygon int, pos math3d.Vec2, facing float64) {
	b.m.Start = Start{Polygon: polygon, Position: pos, Facing: facing}
}

func (b *Builder) point(p math3d.Vec2) int {
	if i, ok := b.points[p]; ok {
		return i
	}
	b.m.Points = append(b.m.Points, p)
	b.points[p] = len(b.m.Points) - 1
	return len(b.m.Points) - 1
}

// Room adds a polygon and returns its index. Every wall gets a side
// textured with r.WallTexture.
func (b *Builder) Room(r Room) int {
	idx := len(b.m.Polygons)
	n := len(r.Vertices)
	p := Polygon{
		Endpoints:     make([]int, n),
		Lines:         make([]int, n),
		Sides:         make([]int, n),
		FloorHeight:   r.Floor,
		CeilingHeight: r.Ceiling,
		Floor:         r.FloorTexture,
		Ceiling:       r.CeilingTexture,
		Media:         r.Media,
	}
	for i, v := range r.Vertices {
		p.Endpoints[i] = b.point(v)
	}

	for w := range n {
		a, c := p.Endpoints[w], p.Endpoints[(w+1)%n]
		key := [2]int{min(a, c), max(a, c)}
		side := len(b.m.Sides)
		li, shared := b.lines[key]
		if shared {
			b.m.Lines[li].BackPoly = idx
			b.m.Lines[li].BackSide = side
		} else {
			b.m.Lines = append(b.m.Lines, Line{
				Begin: a, End: c,
				FrontPoly: idx, BackPoly: None,
				FrontSide: side, BackSide: None,
			})
			li = len(b.m.Lines) - 1
			b.lines[key] = li
		}
		p.Lines[w] = li
		p.Sides[w] = side
		b.m.Sides = append(b.m.Sides, Side{
			Polygon:     idx,
			Line:        li,
			Primary:     r.WallTexture,
			Secondary:   r.WallTexture,
			Transparent: Blank(r.WallTexture.Light),
		})
	}
	b.m.Polygons = append(b.m.Polygons, p)
	return idx
}

// Side returns the side of wall in polygon for editing before Build.
func (b *Builder) Side(polygon, wall int) *Side {
	return &b.m.Sides[b.m.Polygons[polygon].Sides[wall]]
}

// Build assigns side types from the final heights, validates and returns
// the map.
func (b *Builder) Build() (*Map, error) {
	m := b.m
	for i := range m.Sides {
		m.Sides[i].Type = sideType(&m, m.Sides[i])
	}
	if err := Validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func sideType(m *Map, s Side) SideType {
	l := m.Lines[s.Line]
	other := l.FrontPoly
	if other == s.Polygon {
		other = l.BackPoly
	}
	if other == None {
		return Full
	}
	cur, next := m.Polygons[s.Polygon], m.Polygons[other]
	above := next.CeilingHeight < cur.CeilingHeight
	below := next.FloorHeight > cur.FloorHeight
	switch {
	case above && below:
		return Split
	case above:
		return High
	case below:
		return Low
	default:
		return Full
	}
}
