package mapdata

// WallSlice is a textured vertical band of a wall.
type WallSlice struct {
	Slot   Slot
	Bottom float64
	Top    float64
}

// Overlaps reports whether s and o share more than a single height.
func (s WallSlice) Overlaps(bottom, top float64) bool {
	return s.Bottom < top && bottom < s.Top
}

// PortalGap returns the open span shared by polygon and its neighbour
// across wall. It is empty (bottom >= top) when the rooms do not overlap
// vertically.
func (m *Map) PortalGap(polygon, wall int) (bottom, top float64, neighbour int) {
	cur := m.Polygon(polygon)
	neighbour = m.Portal(polygon, wall)
	if neighbour == None {
		return cur.FloorHeight, cur.FloorHeight, None
	}
	next := m.Polygon(neighbour)
	return max(cur.FloorHeight, next.FloorHeight), min(cur.CeilingHeight, next.CeilingHeight), neighbour
}

// WallSlices returns the visible bands of wall as seen from polygon, top
// down. A solid wall is a single primary band from floor to ceiling. A
// portal has a band above the gap when the neighbour's ceiling is lower, a
// band below it when the neighbour's floor is higher, and a transparent band
// across the gap when the side carries a transparent texture. Heights are
// read from the current polygons on every call.
func (m *Map) WallSlices(polygon, wall int) []WallSlice {
	cur := m.Polygon(polygon)
	neighbour := m.Portal(polygon, wall)
	if neighbour == None {
		if cur.CeilingHeight <= cur.FloorHeight {
			return nil
		}
		return []WallSlice{{Slot: Primary, Bottom: cur.FloorHeight, Top: cur.CeilingHeight}}
	}

	next := m.Polygon(neighbour)
	side, _ := m.WallSide(polygon, wall)
	var out []WallSlice

	hasAbove := next.CeilingHeight < cur.CeilingHeight
	if hasAbove {
		out = append(out, WallSlice{
			Slot:   Primary,
			Bottom: max(next.CeilingHeight, cur.FloorHeight),
			Top:    cur.CeilingHeight,
		})
	}
	if next.FloorHeight > cur.FloorHeight {
		out = append(out, WallSlice{
			Slot:   side.BelowSlot(hasAbove),
			Bottom: cur.FloorHeight,
			Top:    min(next.FloorHeight, cur.CeilingHeight),
		})
	}
	bottom := max(cur.FloorHeight, next.FloorHeight)
	top := min(cur.CeilingHeight, next.CeilingHeight)
	if side.Transparent.Texture.Valid() && bottom < top {
		out = append(out, WallSlice{Slot: Transparent, Bottom: bottom, Top: top})
	}
	return out
}
