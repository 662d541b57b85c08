package render

import (
	"math"
	"testing"

	"github.com/taigrr/pfhor/pkg/math3d"
	"github.com/taigrr/pfhor/pkg/world"
)

func testView(w, h int, pitch float64) *View {
	p := world.Player{
		Pitch: pitch,
		HFov:  math.Pi / 2,
		VFov:  math.Pi / 2,
	}
	return NewView(p, w, h)
}

func vecNear(a, b math3d.Vec3, eps float64) bool {
	return a.Distance(b) < eps
}

func TestViewAxes(t *testing.T) {
	p := world.Player{
		Position: math3d.V2(100, 200),
		Height:   50,
		Facing:   math.Pi / 2, // looking along +Y
		HFov:     math.Pi / 2,
		VFov:     math.Pi / 2,
	}
	v := NewView(p, 64, 64)

	tests := []struct {
		name  string
		world math3d.Vec3
		view  math3d.Vec3
	}{
		{"eye", math3d.V3(100, 200, 50), math3d.V3(0, 0, 0)},
		{"forward", math3d.V3(100, 210, 50), math3d.V3(0, 0, 10)},
		{"right", math3d.V3(110, 200, 50), math3d.V3(10, 0, 0)},
		{"up", math3d.V3(100, 200, 60), math3d.V3(0, 10, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := v.WorldToView(tc.world)
			if !vecNear(got, tc.view, 1e-9) {
				t.Errorf("WorldToView(%v) = %v, want %v", tc.world, got, tc.view)
			}
			back := v.ViewToWorld(got)
			if !vecNear(back, tc.world, 1e-9) {
				t.Errorf("ViewToWorld(%v) = %v, want %v", got, back, tc.world)
			}
		})
	}
}

func TestToScreen(t *testing.T) {
	v := testView(100, 50, 0)
	x, y, ok := v.ToScreen(math3d.V3(0, 0, 10))
	if !ok || x != 50 || y != 25 {
		t.Errorf("centre = %v, %v, %v", x, y, ok)
	}
	if _, _, ok := v.ToScreen(math3d.V3(0, 0, -1)); ok {
		t.Error("point behind the eye projected")
	}
	// Up on screen is smaller y.
	_, yUp, _ := v.ToScreen(math3d.V3(0, 1, 10))
	if yUp >= 25 {
		t.Errorf("point above the eye at y=%v", yUp)
	}
}

func TestProjectionRoundTripCollinear(t *testing.T) {
	for _, pitch := range []float64{0, 0.3, -0.7} {
		v := testView(320, 200, pitch)
		for _, px := range []float64{0, 17.5, 160, 319} {
			for _, py := range []float64{0, 99.5, 150, 199} {
				ray := v.ScreenToRay(px, py)
				if math.Abs(ray.Len()-1) > 1e-9 {
					t.Fatalf("ray %v not unit length", ray)
				}
				for _, d := range []float64{1, 37, 1000} {
					x, y, ok := v.ToScreen(ray.Scale(d))
					if !ok || math.Abs(x-px) > 1e-6 || math.Abs(y-py) > 1e-6 {
						t.Errorf("pitch %v: (%v, %v) at depth %v back to (%v, %v)", pitch, px, py, d, x, y)
					}
				}
			}
		}
	}
}

func TestScreenToWorldRay(t *testing.T) {
	p := world.Player{Height: 10, Facing: math.Pi, HFov: math.Pi / 2, VFov: math.Pi / 2}
	v := NewView(p, 10, 10)
	origin, dir := v.ScreenToWorldRay(5, 5)
	if origin != math3d.V3(0, 0, 10) {
		t.Errorf("origin = %v", origin)
	}
	if !vecNear(dir, math3d.V3(-1, 0, 0), 1e-9) {
		t.Errorf("centre ray = %v, want -X", dir)
	}
}

func TestPitchShearsVertically(t *testing.T) {
	level := testView(10, 10, 0)
	up := testView(10, 10, 0.4)
	_, y0, _ := level.ToScreen(math3d.V3(0, 0, 10))
	_, y1, _ := up.ToScreen(math3d.V3(0, 0, 10))
	if y1 <= y0 {
		t.Errorf("looking up moved the horizon from %v to %v, want down the screen", y0, y1)
	}
	c := up.ClipArea3D()
	mid := (c.MinY + c.MaxY) / 2
	if math.Abs(mid-math.Tan(0.4)) > 1e-9 {
		t.Errorf("clip volume centred on %v, want tan(pitch)", mid)
	}
}

func BenchmarkWorldToView(b *testing.B) {
	v := testView(320, 200, 0.1)
	p := math3d.V3(100, 200, 300)
	for b.Loop() {
		_ = v.WorldToView(p)
	}
}
