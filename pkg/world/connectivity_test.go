package world

import (
	"testing"

	"github.com/taigrr/pfhor/pkg/mapdata"
)

func surfaces(found []AlignedSurface) map[mapdata.Surface]AlignedSurface {
	out := make(map[mapdata.Surface]AlignedSurface, len(found))
	for _, s := range found {
		out[s.Surface] = s
	}
	return out
}

func TestConnectedWallsInSquare(t *testing.T) {
	w := squareWorld(t)
	found := surfaces(w.ConnectedSurfaces(mapdata.WallSurface(0, 0, mapdata.Primary), nil))
	if len(found) != 4 {
		t.Fatalf("found %d surfaces, want 4", len(found))
	}
	wantX := map[int]float64{0: 0, 1: wu, 2: 2 * wu, 3: -wu}
	for wall, x := range wantX {
		s, ok := found[mapdata.WallSurface(0, wall, mapdata.Primary)]
		if !ok {
			t.Errorf("wall %d missing", wall)
			continue
		}
		if s.Offset.X != x || s.Offset.Y != 0 {
			t.Errorf("wall %d offset %v, want (%g,0)", wall, s.Offset, x)
		}
	}
}

func TestConnectedWallsAcrossPortal(t *testing.T) {
	// Two rooms side by side share the wall x=1; the south walls of both
	// rooms form one continuous surface through the portal.
	w := rowWorld(t, 2, nil)
	found := surfaces(w.ConnectedSurfaces(mapdata.WallSurface(0, 0, mapdata.Primary), nil))
	s, ok := found[mapdata.WallSurface(1, 0, mapdata.Primary)]
	if !ok {
		t.Fatalf("south wall of room 1 not connected: %v", found)
	}
	if s.Offset.X != wu {
		t.Errorf("offset = %v, want %g", s.Offset, float64(wu))
	}
	// Outer walls: 3 per room.
	if len(found) != 6 {
		t.Errorf("found %d surfaces, want 6", len(found))
	}
}

func TestConnectedWallsVerticalOffset(t *testing.T) {
	// Room 1 floor is raised: the lower slice of the shared wall runs from
	// 0 to 0.5 and its top differs from the room 0 south wall by 1.5.
	w := rowWorld(t, 2, []float64{0, 0.5 * wu})
	found := surfaces(w.ConnectedSurfaces(mapdata.WallSurface(0, 0, mapdata.Primary), nil))
	s, ok := found[mapdata.WallSurface(0, 1, mapdata.Primary)]
	if !ok {
		t.Fatalf("step wall not connected: %v", found)
	}
	if s.Offset.Y != 1.5*wu {
		t.Errorf("offset = %v, want y %g", s.Offset, 1.5*wu)
	}
}

func TestConnectedHorizontal(t *testing.T) {
	flat := rowWorld(t, 3, nil)
	if got := len(flat.ConnectedSurfaces(mapdata.FloorSurface(0), nil)); got != 3 {
		t.Errorf("flat floors = %d, want 3", got)
	}
	stepped := rowWorld(t, 3, []float64{0, 0, 0.25 * wu})
	if got := len(stepped.ConnectedSurfaces(mapdata.FloorSurface(0), nil)); got != 2 {
		t.Errorf("stepped floors = %d, want 2", got)
	}
	if got := len(stepped.ConnectedSurfaces(mapdata.CeilingSurface(2), nil)); got != 3 {
		t.Errorf("ceilings = %d, want 3", got)
	}
	only := func(s mapdata.Surface) bool { return s.Polygon != 1 }
	if got := len(flat.ConnectedSurfaces(mapdata.FloorSurface(0), only)); got != 1 {
		t.Errorf("filtered floors = %d, want 1", got)
	}
}

func TestPaintConnected(t *testing.T) {
	w := squareWorld(t)
	start := mapdata.WallSurface(0, 2, mapdata.Primary)
	paint := mapdata.NewShapeDescriptor(9, 1, 4)
	before := w.Map()

	m := w.PaintConnected(start, paint, w.SameTexture(start))
	for wall := range 4 {
		tex, _ := m.SurfaceTexture(mapdata.WallSurface(0, wall, mapdata.Primary))
		if tex.Texture != paint {
			t.Errorf("wall %d texture %v, want %v", wall, tex.Texture, paint)
		}
	}
	if tex, _ := before.SurfaceTexture(start); tex.Texture == paint {
		t.Error("PaintConnected modified the world's map")
	}
	if w.Map() != before {
		t.Error("PaintConnected replaced the world's map")
	}
}
