package mapdata

import "slices"

// WithFloor returns p with a new floor texture.
func (p Polygon) WithFloor(t SurfaceTexture) Polygon {
	p.Floor = t
	return p
}

// WithCeiling returns p with a new ceiling texture.
func (p Polygon) WithCeiling(t SurfaceTexture) Polygon {
	p.Ceiling = t
	return p
}

// WithHeights returns p with new floor and ceiling heights.
func (p Polygon) WithHeights(floor, ceiling float64) Polygon {
	p.FloorHeight = floor
	p.CeilingHeight = ceiling
	return p
}

// WithTexture returns s with slot replaced. Horizontal slots are ignored.
func (s Side) WithTexture(slot Slot, t SurfaceTexture) Side {
	switch slot {
	case Primary:
		s.Primary = t
	case Secondary:
		s.Secondary = t
	case Transparent:
		s.Transparent = t
	}
	return s
}

// WithPolygon returns a copy of m with polygon i replaced.
func (m *Map) WithPolygon(i int, p Polygon) *Map {
	check("polygon", i, len(m.Polygons))
	c := *m
	c.Polygons = slices.Clone(m.Polygons)
	c.Polygons[i] = p
	return &c
}

// WithSide returns a copy of m with side i replaced.
func (m *Map) WithSide(i int, s Side) *Map {
	check("side", i, len(m.Sides))
	c := *m
	c.Sides = slices.Clone(m.Sides)
	c.Sides[i] = s
	return &c
}

// WithSurfaceTexture returns a copy of m with the texture of surface s
// replaced by tex. Offsets, transfer mode and light are kept. Walls without
// a side return m unchanged.
func (m *Map) WithSurfaceTexture(s Surface, tex ShapeDescriptor) *Map {
	p := m.Polygon(s.Polygon)
	if !s.IsWall() {
		if s.Slot == Ceiling {
			c := p.Ceiling
			c.Texture = tex
			return m.WithPolygon(s.Polygon, p.WithCeiling(c))
		}
		f := p.Floor
		f.Texture = tex
		return m.WithPolygon(s.Polygon, p.WithFloor(f))
	}

	side, ok := m.WallSide(s.Polygon, s.Wall)
	if !ok {
		return m
	}
	t := side.Slot(s.Slot)
	t.Texture = tex
	return m.WithSide(p.Sides[s.Wall], side.WithTexture(s.Slot, t))
}

// WithSurfaceOffset returns a copy of m with the texture offset of surface
// s replaced.
func (m *Map) WithSurfaceOffset(s Surface, x, y float64) *Map {
	p := m.Polygon(s.Polygon)
	if !s.IsWall() {
		if s.Slot == Ceiling {
			c := p.Ceiling
			c.Offset.X, c.Offset.Y = x, y
			return m.WithPolygon(s.Polygon, p.WithCeiling(c))
		}
		f := p.Floor
		f.Offset.X, f.Offset.Y = x, y
		return m.WithPolygon(s.Polygon, p.WithFloor(f))
	}

	side, ok := m.WallSide(s.Polygon, s.Wall)
	if !ok {
		return m
	}
	t := side.Slot(s.Slot)
	t.Offset.X, t.Offset.Y = x, y
	return m.WithSide(p.Sides[s.Wall], side.WithTexture(s.Slot, t))
}
