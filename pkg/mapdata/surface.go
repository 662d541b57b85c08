package mapdata

import "fmt"

// SurfaceKind distinguishes wall and horizontal surfaces.
type SurfaceKind int

const (
	WallSurfaceKind SurfaceKind = iota
	HorizontalSurfaceKind
)

// Slot names a texture slot of a surface.
type Slot int

const (
	Primary Slot = iota
	Secondary
	Transparent
	Floor
	Ceiling
)

func (s Slot) String() string {
	switch s {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Transparent:
		return "transparent"
	case Floor:
		return "floor"
	case Ceiling:
		return "ceiling"
	default:
		return "unknown"
	}
}

// Surface locates a textured surface. Wall is only meaningful for wall
// surfaces. Surfaces are comparable and can be used as map keys.
type Surface struct {
	Kind    SurfaceKind
	Polygon int
	Wall    int
	Slot    Slot
}

// WallSurface locates slot of wall in polygon.
func WallSurface(polygon, wall int, slot Slot) Surface {
	return Surface{Kind: WallSurfaceKind, Polygon: polygon, Wall: wall, Slot: slot}
}

// FloorSurface locates the floor of polygon.
func FloorSurface(polygon int) Surface {
	return Surface{Kind: HorizontalSurfaceKind, Polygon: polygon, Wall: None, Slot: Floor}
}

// CeilingSurface locates the ceiling of polygon.
func CeilingSurface(polygon int) Surface {
	return Surface{Kind: HorizontalSurfaceKind, Polygon: polygon, Wall: None, Slot: Ceiling}
}

// IsWall reports whether s is a wall surface.
func (s Surface) IsWall() bool {
	return s.Kind == WallSurfaceKind
}

func (s Surface) String() string {
	if s.IsWall() {
		return fmt.Sprintf("polygon %d wall %d %s", s.Polygon, s.Wall, s.Slot)
	}
	return fmt.Sprintf("polygon %d %s", s.Polygon, s.Slot)
}
