package render

import (
	"math"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
	"github.com/taigrr/pfhor/pkg/world"
)

// Automap colors
var (
	AutomapWall   = RGB(0, 200, 0)
	AutomapStep   = RGB(200, 200, 0)
	AutomapPortal = RGB(0, 80, 0)
	AutomapSeen   = ColorWhite
	AutomapPlayer = ColorRed
)

// Automap draws a top-down map centred on the player with the facing
// direction pointing up. Parts of lines inside the horizontal field of view
// are drawn in AutomapSeen.
type Automap struct {
	fb *Framebuffer
	// Scale is in pixels per world unit.
	Scale float64
}

// NewAutomap creates an automap drawing into fb.
func NewAutomap(fb *Framebuffer) *Automap {
	return &Automap{fb: fb, Scale: 8}
}

// Draw renders m around p.
func (a *Automap) Draw(m *mapdata.Map, p world.Player) {
	a.fb.Clear(ColorBlack)

	sin, cos := math.Sincos(p.Facing)
	forward := math3d.V2(cos, sin)
	right := math3d.V2(sin, -cos)
	toView := func(q math3d.Vec2) math3d.Vec2 {
		rel := q.Sub(p.Position)
		return math3d.V2(rel.Dot(right), rel.Dot(forward))
	}
	t := math.Tan(p.HFov / 2)
	fov := NewClipArea(math3d.V2(-t, 1), math3d.V2(t, 1))

	for _, l := range m.Lines {
		c := AutomapWall
		if l.Portal() {
			front, back := m.Polygon(l.FrontPoly), m.Polygon(l.BackPoly)
			c = AutomapPortal
			if front.FloorHeight != back.FloorHeight || front.CeilingHeight != back.CeilingHeight {
				c = AutomapStep
			}
		}
		va, vb := toView(m.Point(l.Begin)), toView(m.Point(l.End))
		a.line(va, vb, c)
		if ca, cb, ok := fov.ClipSegment(va, vb); ok && !l.Portal() {
			a.line(ca, cb, AutomapSeen)
		}
	}

	cx, cy := a.fb.Width/2, a.fb.Height/2
	a.fb.DrawRect(cx-1, cy-1, 3, 3, AutomapPlayer)
	a.fb.DrawLine(cx, cy, cx, cy-4, AutomapPlayer)
}

// line draws a segment given in view (x right, y forward) map units.
func (a *Automap) line(p, q math3d.Vec2, c uint32) {
	x0, y0 := a.toScreen(p)
	x1, y1 := a.toScreen(q)
	a.fb.DrawLine(x0, y0, x1, y1, c)
}

func (a *Automap) toScreen(p math3d.Vec2) (int, int) {
	s := a.Scale / mapdata.WorldUnit
	x := float64(a.fb.Width/2) + p.X*s
	y := float64(a.fb.Height/2) - p.Y*s
	return int(math.Round(x)), int(math.Round(y))
}
