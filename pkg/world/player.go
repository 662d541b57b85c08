package world

import (
	"math"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// EyeHeight is how far above the floor the player's eye sits.
const EyeHeight = 0.6 * mapdata.WorldUnit

// Player is the viewer. Polygon is authoritative: it is carried from frame
// to frame by movement and never recomputed from Position.
type Player struct {
	Position math3d.Vec2
	Polygon  int
	// Height is the absolute eye height.
	Height float64
	Facing float64
	Pitch  float64
	HFov   float64
	VFov   float64
}

// NewPlayer places a player at the map's start with the given fields of
// view in radians.
func (w *World) NewPlayer(hfov, vfov float64) Player {
	s := w.m.Start
	return Player{
		Position: s.Position,
		Polygon:  s.Polygon,
		Height:   w.m.Polygon(s.Polygon).FloorHeight + EyeHeight,
		Facing:   s.Facing,
		HFov:     hfov,
		VFov:     vfov,
	}
}

// Forward returns the unit facing direction on the map.
func (p Player) Forward() math3d.Vec2 {
	return math3d.FromAngle(p.Facing)
}

// Eye returns the eye position in world space.
func (p Player) Eye() math3d.Vec3 {
	return p.Position.Vec3(p.Height)
}

// Turn returns p rotated by yaw and tilted by pitch, with the tilt limited
// to just short of straight up or down.
func (p Player) Turn(yaw, pitch float64) Player {
	p.Facing = math3d.WrapAngle(p.Facing + yaw)
	limit := math.Pi/2 - 0.05
	p.Pitch = math3d.Clamp(p.Pitch+pitch, -limit, limit)
	return p
}

// StepPlayer moves p by delta. When the full move is blocked it slides
// along whichever axis is still free; when everything is blocked p is
// returned unchanged and ok is false. The eye height follows the floor of
// the polygon the player ends up in.
func (w *World) StepPlayer(p Player, delta math3d.Vec2) (Player, bool) {
	if delta == (math3d.Vec2{}) {
		return p, true
	}
	tries := []math3d.Vec2{delta, {X: delta.X}, {Y: delta.Y}}
	for _, d := range tries {
		if d == (math3d.Vec2{}) {
			continue
		}
		pos, polygon, ok := w.MovePlayer(p.Position, p.Position.Add(d), p.Polygon)
		if !ok {
			continue
		}
		p.Position = pos
		p.Polygon = polygon
		p.Height = w.m.Polygon(polygon).FloorHeight + EyeHeight
		return p, true
	}
	return p, false
}
