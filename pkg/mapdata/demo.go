package mapdata

import (
	"math"

	"github.com/taigrr/pfhor/pkg/lights"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// Texture collections used by the built-in level.
const (
	WallCollection      = 17
	FloorCollection     = 18
	LiquidCollection    = 19
	LandscapeCollection = 27
)

func wu(x, y float64) math3d.Vec2 {
	return math3d.V2(x*WorldUnit, y*WorldUnit)
}

func tex(collection, bitmap, light int) SurfaceTexture {
	return SurfaceTexture{Texture: NewShapeDescriptor(collection, 0, bitmap), Light: light}
}

// Demo builds the built-in level: a hub room, a low strobe-lit corridor to
// the east and a tall flickering hall to the north with a tidal pool and a
// landscape window on its far wall.
func Demo() *Map {
	b := NewBuilder("demo")

	hubLight := b.Light(Light{Tag: 0, Spec: lights.NormalLight(1, true)})
	strobe := b.Light(Light{Tag: 1, Spec: lights.StrobeLight()})
	tide := b.Light(Light{Tag: 2, Spec: lights.TideLight(10 * TicksPerSecond)})
	flicker := b.Light(Light{Tag: 3, Spec: lights.FlickerLight()})

	pool := b.Media(Media{
		Type:      Water,
		Direction: math.Pi / 4,
		Magnitude: 8,
		Low:       -0.75 * WorldUnit,
		High:      0.25 * WorldUnit,
		Light:     tide,
		Texture:   NewShapeDescriptor(LiquidCollection, 0, 0),
	})

	hub := b.Room(Room{
		Vertices:       []math3d.Vec2{wu(0, 0), wu(4, 0), wu(4, 1), wu(4, 3), wu(4, 4), wu(0, 4)},
		Floor:          0,
		Ceiling:        2 * WorldUnit,
		FloorTexture:   tex(FloorCollection, 0, hubLight),
		CeilingTexture: tex(FloorCollection, 1, hubLight),
		WallTexture:    tex(WallCollection, 0, hubLight),
		Media:          None,
	})
	b.Room(Room{
		Vertices:       []math3d.Vec2{wu(4, 1), wu(7, 1), wu(7, 3), wu(4, 3)},
		Floor:          0.25 * WorldUnit,
		Ceiling:        1.5 * WorldUnit,
		FloorTexture:   tex(FloorCollection, 2, strobe),
		CeilingTexture: tex(FloorCollection, 3, strobe),
		WallTexture:    tex(WallCollection, 1, strobe),
		Media:          None,
	})
	hall := b.Room(Room{
		Vertices:       []math3d.Vec2{wu(0, 4), wu(4, 4), wu(4, 7), wu(0, 7)},
		Floor:          -0.5 * WorldUnit,
		Ceiling:        3 * WorldUnit,
		FloorTexture:   tex(FloorCollection, 4, flicker),
		CeilingTexture: tex(FloorCollection, 5, flicker),
		WallTexture:    tex(WallCollection, 2, flicker),
		Media:          pool,
	})

	// The far wall of the hall opens onto the sky.
	window := b.Side(hall, 2)
	window.Primary = SurfaceTexture{
		Texture:  NewShapeDescriptor(LandscapeCollection, 0, 0),
		Transfer: Landscape,
		Light:    flicker,
	}
	// A sliding panel on the hall's west wall.
	panel := b.Side(hall, 3)
	panel.Primary.Transfer = HorizontalSlide

	b.Start(hub, wu(2, 2), math.Pi/2)

	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
