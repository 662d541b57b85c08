package world

import (
	"testing"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

func TestIntersectLineSegment(t *testing.T) {
	square := squareWorld(t)
	demo := demoWorld()
	eye := 0.6 * wu

	tests := []struct {
		name       string
		w          *World
		polygon    int
		start, end math3d.Vec3
		want       mapdata.Surface
	}{
		{"floor", square, 0, v(0.5, 0.5).Vec3(eye), v(0.6, 0.5).Vec3(-wu), mapdata.FloorSurface(0)},
		{"ceiling", square, 0, v(0.5, 0.5).Vec3(eye), v(0.5, 0.6).Vec3(2 * wu), mapdata.CeilingSurface(0)},
		{"solid wall", square, 0, v(0.5, 0.5).Vec3(eye), v(3, 0.5).Vec3(eye), mapdata.WallSurface(0, 1, mapdata.Primary)},
		{"above portal", demo, 0, v(2, 2).Vec3(1.8 * wu), v(8, 2).Vec3(1.8 * wu), mapdata.WallSurface(0, 2, mapdata.Primary)},
		{"below portal", demo, 0, v(2, 2).Vec3(0.1 * wu), v(8, 2).Vec3(0.1 * wu), mapdata.WallSurface(0, 2, mapdata.Secondary)},
		{"through portal", demo, 0, v(2, 2).Vec3(0.8 * wu), v(8, 2).Vec3(0.8 * wu), mapdata.WallSurface(1, 1, mapdata.Primary)},
		{"neighbour floor", demo, 0, v(2, 2).Vec3(0.8 * wu), v(6, 2).Vec3(0), mapdata.FloorSurface(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := tt.w.IntersectLineSegment(tt.polygon, tt.start, tt.end)
			if !ok {
				t.Fatal("no hit")
			}
			if hit.Surface != tt.want {
				t.Errorf("hit %v, want %v", hit.Surface, tt.want)
			}
			if hit.T <= 0 || hit.T > 1 {
				t.Errorf("T = %g", hit.T)
			}
		})
	}
}

func TestIntersectLineSegmentMiss(t *testing.T) {
	w := squareWorld(t)
	if hit, ok := w.IntersectLineSegment(0, v(0.25, 0.5).Vec3(wu/2), v(0.75, 0.5).Vec3(wu/2)); ok {
		t.Errorf("short segment hit %v", hit.Surface)
	}
}
