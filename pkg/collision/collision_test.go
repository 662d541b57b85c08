package collision

import (
	"math"
	"testing"

	"github.com/taigrr/pfhor/pkg/math3d"
)

// wall along +X: the inside (left) is +Y.
var wall = Seg(math3d.V2(0, 0), math3d.V2(1024, 0))

func TestSegmentIntersectDirectional(t *testing.T) {
	out := Seg(math3d.V2(512, 100), math3d.V2(512, -100))

	c, ok := SegmentIntersect(out, wall)
	if !ok {
		t.Fatal("expected a hit when leaving the inside")
	}
	if math.Abs(c.T-0.5) > 1e-9 {
		t.Errorf("T = %v, want 0.5", c.T)
	}
	if math.Abs(c.Point.X-512) > 1e-9 || math.Abs(c.Point.Y) > 1e-9 {
		t.Errorf("Point = %v, want (512, 0)", c.Point)
	}

	if _, ok := SegmentIntersect(out.Reverse(), wall); ok {
		t.Error("swapping the moving endpoints should not report a hit")
	}
}

func TestSegmentIntersectCases(t *testing.T) {
	tests := []struct {
		name   string
		moving Segment
		hit    bool
	}{
		{"stops on the line", Seg(math3d.V2(10, 10), math3d.V2(10, 0)), true},
		{"starts on the line", Seg(math3d.V2(10, 0), math3d.V2(10, -10)), false},
		{"stays inside", Seg(math3d.V2(10, 10), math3d.V2(900, 20)), false},
		{"passes beyond the end", Seg(math3d.V2(2000, 10), math3d.V2(2000, -10)), false},
		{"hits the endpoint", Seg(math3d.V2(1024, 10), math3d.V2(1024, -10)), true},
		{"parallel outside", Seg(math3d.V2(0, -5), math3d.V2(100, -5)), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := SegmentIntersect(tc.moving, wall)
			if ok != tc.hit {
				t.Errorf("hit = %v, want %v", ok, tc.hit)
			}
		})
	}
}

func TestSegmentIntersectZeroLengthTarget(t *testing.T) {
	p := math3d.V2(5, 5)
	if _, ok := SegmentIntersect(Seg(math3d.V2(5, 10), math3d.V2(5, 0)), Seg(p, p)); ok {
		t.Error("zero-length wall must never collide")
	}
}

func TestCloser(t *testing.T) {
	a := &Collision{T: 0.7}
	b := &Collision{T: 0.2}
	if Closer(nil, nil) != nil {
		t.Error("Closer(nil, nil) should be nil")
	}
	if Closer(a, nil) != a || Closer(nil, b) != b {
		t.Error("Closer should return the non-nil argument")
	}
	if Closer(a, b) != b || Closer(b, a) != b {
		t.Error("Closer should return the smaller T")
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []math3d.Vec2{
		math3d.V2(0, 0), math3d.V2(1024, 0), math3d.V2(1024, 1024), math3d.V2(0, 1024),
	}
	tests := []struct {
		name string
		p    math3d.Vec2
		want bool
	}{
		{"centre", math3d.V2(512, 512), true},
		{"left", math3d.V2(-1, 512), false},
		{"right", math3d.V2(2000, 512), false},
		{"above", math3d.V2(512, 1500), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PointInPolygon(tc.p, square); got != tc.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestRaySegmentIntersect2D(t *testing.T) {
	seg := Seg(math3d.V2(10, -5), math3d.V2(10, 5))

	tt, p, ok := RaySegmentIntersect2D(math3d.V2(0, 0), math3d.V2(1, 0), seg)
	if !ok || math.Abs(tt-10) > 1e-9 || math.Abs(p.X-10) > 1e-9 {
		t.Errorf("got t=%v p=%v ok=%v, want t=10", tt, p, ok)
	}
	if _, _, ok := RaySegmentIntersect2D(math3d.V2(0, 0), math3d.V2(-1, 0), seg); ok {
		t.Error("ray pointing away should miss")
	}
	if _, _, ok := RaySegmentIntersect2D(math3d.V2(0, 0), math3d.V2(0, 1), seg); ok {
		t.Error("parallel ray should miss")
	}
}

func TestRayPlaneIntersect3D(t *testing.T) {
	_, p, ok := RayPlaneIntersect3D(math3d.V3(0, 0, 10), math3d.V3(1, 0, -1), math3d.V3(0, 0, 0), math3d.Up())
	if !ok || math.Abs(p.X-10) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("got %v ok=%v, want (10, 0, 0)", p, ok)
	}
	if _, _, ok := RayPlaneIntersect3D(math3d.V3(0, 0, 10), math3d.V3(1, 0, 1), math3d.Vec3{}, math3d.Up()); ok {
		t.Error("ray moving away from the plane should miss")
	}
	if _, _, ok := RayPlaneIntersect3D(math3d.V3(0, 0, 10), math3d.V3(1, 0, 0), math3d.Vec3{}, math3d.Up()); ok {
		t.Error("ray parallel to the plane should miss")
	}
}

func TestSegmentPlaneIntersect3D(t *testing.T) {
	start := math3d.V3(0, 0, 512)
	end := math3d.V3(0, 0, -512)
	tt, p, ok := SegmentPlaneIntersect3D(start, end, 0)
	if !ok || math.Abs(tt-0.5) > 1e-9 || p.Z != 0 {
		t.Errorf("got t=%v p=%v ok=%v", tt, p, ok)
	}
	if _, _, ok := SegmentPlaneIntersect3D(start, end, -1024); ok {
		t.Error("plane beyond the segment end should miss")
	}
	if _, _, ok := SegmentPlaneIntersect3D(start, math3d.V3(100, 0, 512), 0); ok {
		t.Error("horizontal segment should miss")
	}
}

func BenchmarkSegmentIntersect(b *testing.B) {
	moving := Seg(math3d.V2(512, 100), math3d.V2(512, -100))
	for b.Loop() {
		_, _ = SegmentIntersect(moving, wall)
	}
}
