package render

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
	"github.com/taigrr/pfhor/pkg/world"
)

const wu = mapdata.WorldUnit

var wallTexture = mapdata.NewShapeDescriptor(1, 0, 0)

func v2(x, y float64) math3d.Vec2 {
	return math3d.V2(x*wu, y*wu)
}

// captureBackend keeps a copy of every entry it is given.
type captureBackend struct {
	entries []DrawEntry
	draws   int
	frames  int
	err     error
}

func (c *captureBackend) BeginFrame(*View) {
	c.frames++
	c.entries = c.entries[:0]
}

func (c *captureBackend) Draw(entries []DrawEntry) {
	c.draws++
	c.entries = append(c.entries, entries...)
}

func (c *captureBackend) EndFrame() error { return c.err }

func (c *captureBackend) count(kind EntryKind) int {
	n := 0
	for _, e := range c.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func room(verts []math3d.Vec2, floor, ceiling float64) mapdata.Room {
	return mapdata.Room{
		Vertices:       verts,
		Floor:          floor,
		Ceiling:        ceiling,
		FloorTexture:   mapdata.Blank(mapdata.None),
		CeilingTexture: mapdata.Blank(mapdata.None),
		WallTexture:    mapdata.SurfaceTexture{Texture: wallTexture, Light: mapdata.None},
		Media:          mapdata.None,
	}
}

func buildWorld(t testing.TB, rooms ...mapdata.Room) *world.World {
	t.Helper()
	b := mapdata.NewBuilder("test")
	for _, r := range rooms {
		b.Room(r)
	}
	b.Start(0, v2(0.5, 0.5), 0)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return world.New(m, rand.New(rand.NewSource(1)))
}

func square(x0, y0 float64) []math3d.Vec2 {
	return []math3d.Vec2{v2(x0, y0), v2(x0+1, y0), v2(x0+1, y0+1), v2(x0, y0+1)}
}

func playerView(w *world.World, width, height int) *View {
	p := w.NewPlayer(math.Pi/2, math.Pi/2)
	return NewView(p, width, height)
}

func TestRenderSquareRoom(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu))
	be := &captureBackend{}
	r := NewRenderer(w, be, Options{})

	stats, err := r.RenderFrame(playerView(w, 64, 64))
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if got := be.count(WallEntry); got != 4 {
		t.Errorf("wall entries = %d, want 4", got)
	}
	if got := be.count(HorizontalEntry); got != 2 {
		t.Errorf("horizontal entries = %d, want 2", got)
	}
	if stats.Portals != 0 || stats.Polygons != 1 || stats.Entries != 6 {
		t.Errorf("stats = %+v", stats)
	}
	var floor, ceiling bool
	for _, e := range be.entries {
		switch e.Surface {
		case mapdata.FloorSurface(0):
			floor = true
		case mapdata.CeilingSurface(0):
			ceiling = true
		}
	}
	if !floor || !ceiling {
		t.Errorf("floor %v ceiling %v, want both", floor, ceiling)
	}
}

func TestRenderWallBehindViewerIsEmpty(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu))
	be := &captureBackend{}
	if _, err := NewRenderer(w, be, Options{}).RenderFrame(playerView(w, 64, 64)); err != nil {
		t.Fatal(err)
	}
	for _, e := range be.entries {
		// Wall 3 runs from (0,1) to (0,0), straight behind a viewer
		// facing +X.
		if e.Surface == mapdata.WallSurface(0, 3, mapdata.Primary) && e.Drawable() {
			t.Errorf("wall behind the viewer has %d vertices", len(e.Vertices))
		}
		if e.Surface == mapdata.WallSurface(0, 1, mapdata.Primary) && !e.Drawable() {
			t.Error("wall ahead of the viewer is empty")
		}
	}
}

func TestRenderTwoRoomsLowerCeiling(t *testing.T) {
	w := buildWorld(t,
		room(square(0, 0), 0, 2*wu),
		room(square(1, 0), 0, wu),
	)
	be := &captureBackend{}
	stats, err := NewRenderer(w, be, Options{}).RenderFrame(playerView(w, 64, 64))
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if stats.Portals != 1 || stats.Polygons != 2 {
		t.Errorf("stats = %+v, want one portal into a second polygon", stats)
	}

	above := -1
	firstRoom2 := -1
	room2Drawable := false
	for i, e := range be.entries {
		if e.Surface == mapdata.WallSurface(0, 1, mapdata.Primary) {
			above = i
			if e.Bottom != wu || e.Top != 2*wu {
				t.Errorf("above-portal slice spans %v..%v, want %v..%v", e.Bottom, e.Top, wu, 2*wu)
			}
			if !e.Drawable() {
				t.Error("above-portal slice is empty")
			}
		}
		if e.Surface.Polygon == 1 {
			if firstRoom2 < 0 {
				firstRoom2 = i
			}
			room2Drawable = room2Drawable || e.Drawable()
		}
	}
	if above < 0 {
		t.Fatal("no above-portal entry")
	}
	if firstRoom2 < 0 || !room2Drawable {
		t.Fatal("no visible entries from the second room")
	}
	if firstRoom2 > above {
		t.Errorf("second room drawn at %d after the portal slice at %d", firstRoom2, above)
	}
	// Room 1: 4 walls, floor, ceiling. Room 2: 3 front-facing walls,
	// floor, ceiling.
	if len(be.entries) != 11 {
		t.Errorf("entries = %d, want 11", len(be.entries))
	}
}

func TestRenderEntriesStayInsidePortal(t *testing.T) {
	w := buildWorld(t,
		room(square(0, 0), 0, 2*wu),
		room(square(1, 0), 0, wu),
	)
	be := &captureBackend{}
	v := playerView(w, 64, 64)
	if _, err := NewRenderer(w, be, Options{}).RenderFrame(v); err != nil {
		t.Fatal(err)
	}
	// Everything in room 2 is seen below the lower ceiling at x = 1.
	gapEdge := v.WorldToView(math3d.V3(wu, 0.5*wu, w.Map().Polygon(1).CeilingHeight))
	limit := gapEdge.Y / gapEdge.Z
	for _, e := range be.entries {
		if e.Surface.Polygon != 1 {
			continue
		}
		for _, vert := range e.Vertices {
			if vert.Pos.Y/vert.Pos.Z > limit+1e-9 {
				t.Errorf("%v vertex %v above the portal", e.Surface, vert.Pos)
			}
		}
	}
}

func TestRenderMaxPortalDepth(t *testing.T) {
	var rooms []mapdata.Room
	for i := range 5 {
		rooms = append(rooms, room(square(float64(i), 0), 0, wu))
	}
	w := buildWorld(t, rooms...)
	be := &captureBackend{}

	stats, err := NewRenderer(w, be, Options{MaxPortalDepth: 2}).RenderFrame(playerView(w, 64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Portals != 2 || stats.Polygons != 3 {
		t.Errorf("stats = %+v, want 2 portals and 3 polygons", stats)
	}

	stats, err = NewRenderer(w, be, Options{}).RenderFrame(playerView(w, 64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Polygons != 5 {
		t.Errorf("unlimited depth visited %d polygons, want 5", stats.Polygons)
	}
}

func TestRenderThroughPortalInsideNearDistance(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu), room(square(1, 0), 0, wu))
	for _, d := range []float64{100, 8, 3, 1} {
		t.Run(fmt.Sprintf("%g units", d), func(t *testing.T) {
			p := w.NewPlayer(math.Pi/2, math.Pi/2)
			p.Position = math3d.V2(wu-d, 0.5*wu)
			be := &captureBackend{}
			stats, err := NewRenderer(w, be, Options{}).RenderFrame(NewView(p, 64, 64))
			if err != nil {
				t.Fatal(err)
			}
			if stats.Polygons != 2 || stats.Portals != 1 {
				t.Errorf("stats = %+v, want the second room visited", stats)
			}
			drawable := 0
			for _, e := range be.entries {
				if e.Surface.Polygon == 1 && e.Drawable() {
					drawable++
				}
			}
			if drawable == 0 {
				t.Error("nothing drawn from the second room")
			}
		})
	}
}

func TestRenderPortalBehindViewerNotEntered(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu), room(square(1, 0), 0, wu))
	p := w.NewPlayer(math.Pi/2, math.Pi/2)
	p.Position = math3d.V2(wu-1, 0.5*wu)
	p.Facing = math.Pi
	stats, err := NewRenderer(w, &captureBackend{}, Options{}).RenderFrame(NewView(p, 64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Polygons != 1 {
		t.Errorf("stats = %+v, want only the viewer's room", stats)
	}
}

func TestRenderLoopedMapTerminates(t *testing.T) {
	w := buildWorld(t,
		room(square(0, 0), 0, wu),
		room(square(1, 0), 0, wu),
		room(square(2, 0), 0, wu),
	)
	// Send room 1's east portal back into room 0.
	m := w.Map()
	for i := range m.Polygon(1).Walls() {
		if m.Portal(1, i) != 2 {
			continue
		}
		l := &m.Lines[m.Polygon(1).Lines[i]]
		if l.FrontPoly == 2 {
			l.FrontPoly = 0
		} else {
			l.BackPoly = 0
		}
	}

	for _, depth := range []int{0, 1000} {
		stats, err := NewRenderer(w, &captureBackend{}, Options{MaxPortalDepth: depth}).RenderFrame(playerView(w, 64, 64))
		if err != nil {
			t.Fatal(err)
		}
		if stats.Polygons != 2 || stats.Portals != 1 {
			t.Errorf("depth %d: stats = %+v, want rooms 0 and 1 once each", depth, stats)
		}
	}
}

func TestRenderFlushThreshold(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu))
	be := &captureBackend{}
	stats, err := NewRenderer(w, be, Options{FlushThreshold: 2}).RenderFrame(playerView(w, 64, 64))
	if err != nil {
		t.Fatal(err)
	}
	if be.draws != 3 || stats.Flushes != 3 {
		t.Errorf("draws = %d, flushes = %d, want 3", be.draws, stats.Flushes)
	}
	if len(be.entries) != 6 {
		t.Errorf("entries = %d, want 6", len(be.entries))
	}
}

func TestRenderBackendError(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu))
	want := errors.New("boom")
	_, err := NewRenderer(w, &captureBackend{err: want}, Options{}).RenderFrame(playerView(w, 8, 8))
	if !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
	if _, err := NewRenderer(w, nil, Options{}).RenderFrame(playerView(w, 8, 8)); !errors.Is(err, ErrNoBackend) {
		t.Errorf("err = %v, want ErrNoBackend", err)
	}
}

func TestRenderHidesFloorFromBelow(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu))
	v := playerView(w, 16, 16)
	v.Eye.Z = -10
	v.Update()
	be := &captureBackend{}
	if _, err := NewRenderer(w, be, Options{}).RenderFrame(v); err != nil {
		t.Fatal(err)
	}
	for _, e := range be.entries {
		if e.Surface == mapdata.FloorSurface(0) {
			t.Error("floor emitted for an eye below it")
		}
	}
}

func TestWallTexCoords(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu))
	be := &captureBackend{}
	if _, err := NewRenderer(w, be, Options{}).RenderFrame(playerView(w, 64, 64)); err != nil {
		t.Fatal(err)
	}
	for _, e := range be.entries {
		if e.Surface != mapdata.WallSurface(0, 1, mapdata.Primary) {
			continue
		}
		for _, vert := range e.Vertices {
			q := playerView(w, 64, 64).ViewToWorld(vert.Pos)
			// Wall 1 runs from (1,0) to (1,1): u follows Y, v drops from the
			// ceiling.
			wantU := q.Y / wu
			wantV := (wu - q.Z) / wu
			if math.Abs(vert.Tex.X-wantU) > 1e-9 || math.Abs(vert.Tex.Y-wantV) > 1e-9 {
				t.Errorf("tex at %v = %v, want (%v, %v)", q, vert.Tex, wantU, wantV)
			}
		}
		return
	}
	t.Fatal("wall 1 not drawn")
}

func TestSlideOffset(t *testing.T) {
	tests := []struct {
		mode mapdata.TransferMode
		want float64
	}{
		{mapdata.Normal, 0},
		{mapdata.HorizontalSlide, 16 * wu / 64},
		{mapdata.FastHorizontalSlide, 16 * wu / 32},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			if got := slideOffset(tc.mode, 16); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLandscapeTexCoord(t *testing.T) {
	v := testView(64, 64, 0)
	got := landscapeTexCoord(v, math3d.V3(0, 0, 10))
	if got.X != 0 || got.Y != 0.5 {
		t.Errorf("straight ahead = %v, want (0, 0.5)", got)
	}
	u, vv := landscapeAt(v, 32, 32)
	if u != 0 || vv != 0.5 {
		t.Errorf("centre pixel = (%v, %v), want (0, 0.5)", u, vv)
	}
}

func TestPick(t *testing.T) {
	w := buildWorld(t, room(square(0, 0), 0, wu))
	r := NewRenderer(w, &captureBackend{}, Options{})

	v := playerView(w, 64, 64)
	hit, ok := r.Pick(v, 32, 32)
	if !ok || hit.Surface != mapdata.WallSurface(0, 1, mapdata.Primary) {
		t.Errorf("centre pick = %+v, %v; want wall 1", hit, ok)
	}

	v.Pitch = -1.2
	v.Update()
	hit, ok = r.Pick(v, 32, 32)
	if !ok || hit.Surface != mapdata.FloorSurface(0) {
		t.Errorf("downward pick = %+v, %v; want floor", hit, ok)
	}
}

func TestDemoRenders(t *testing.T) {
	w := world.New(mapdata.Demo(), rand.New(rand.NewSource(1)))
	be := &captureBackend{}
	stats, err := NewRenderer(w, be, Options{}).RenderFrame(playerView(w, 80, 60))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries == 0 || stats.Polygons == 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func BenchmarkRenderDemo(b *testing.B) {
	w := world.New(mapdata.Demo(), rand.New(rand.NewSource(1)))
	be := &captureBackend{}
	r := NewRenderer(w, be, Options{})
	v := playerView(w, 160, 100)
	for b.Loop() {
		_, _ = r.RenderFrame(v)
	}
}
