package mapdata

import (
	"errors"
	"fmt"
)

// ErrInvalidMap is wrapped by every validation failure.
var ErrInvalidMap = errors.New("invalid map")

type validator struct {
	m    *Map
	errs []error
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidMap}, args...)...))
}

func (v *validator) index(what string, i, n int, optional bool) bool {
	if optional && i == None {
		return true
	}
	if i < 0 || i >= n {
		v.fail("%s %d out of range [0,%d)", what, i, n)
		return false
	}
	return true
}

// Validate checks the structural invariants the renderer and the movement
// code rely on: aligned polygon tables, in-range references, consistent
// line/side back references, non-degenerate lines and convex
// counter-clockwise polygons with the ceiling at or above the floor. It
// returns every problem found joined into one error.
func Validate(m *Map) error {
	v := &validator{m: m}
	v.lines()
	v.sides()
	v.polygons()
	v.media()
	if len(m.Polygons) > 0 {
		v.index("start polygon", m.Start.Polygon, len(m.Polygons), false)
	}
	return errors.Join(v.errs...)
}

func (v *validator) lines() {
	m := v.m
	for i, l := range m.Lines {
		okB := v.index(fmt.Sprintf("line %d: begin point", i), l.Begin, len(m.Points), false)
		okE := v.index(fmt.Sprintf("line %d: end point", i), l.End, len(m.Points), false)
		v.index(fmt.Sprintf("line %d: front polygon", i), l.FrontPoly, len(m.Polygons), true)
		v.index(fmt.Sprintf("line %d: back polygon", i), l.BackPoly, len(m.Polygons), true)
		v.index(fmt.Sprintf("line %d: front side", i), l.FrontSide, len(m.Sides), true)
		v.index(fmt.Sprintf("line %d: back side", i), l.BackSide, len(m.Sides), true)
		if okB && okE && m.Points[l.Begin] == m.Points[l.End] {
			v.fail("line %d has zero length", i)
		}
		if l.FrontPoly == None && l.BackPoly == None {
			v.fail("line %d borders no polygon", i)
		}
	}
}

func (v *validator) texture(what string, t SurfaceTexture) {
	v.index(what+" light", t.Light, len(v.m.Lights), true)
}

func (v *validator) sides() {
	m := v.m
	for i, s := range m.Sides {
		v.index(fmt.Sprintf("side %d: polygon", i), s.Polygon, len(m.Polygons), false)
		v.texture(fmt.Sprintf("side %d: primary", i), s.Primary)
		v.texture(fmt.Sprintf("side %d: secondary", i), s.Secondary)
		v.texture(fmt.Sprintf("side %d: transparent", i), s.Transparent)
		if !v.index(fmt.Sprintf("side %d: line", i), s.Line, len(m.Lines), false) {
			continue
		}
		l := m.Lines[s.Line]
		switch {
		case l.FrontSide == i:
			if l.FrontPoly != s.Polygon {
				v.fail("side %d: front of line %d but owned by polygon %d, line front is %d", i, s.Line, s.Polygon, l.FrontPoly)
			}
		case l.BackSide == i:
			if l.BackPoly != s.Polygon {
				v.fail("side %d: back of line %d but owned by polygon %d, line back is %d", i, s.Line, s.Polygon, l.BackPoly)
			}
		default:
			v.fail("side %d: line %d does not reference it", i, s.Line)
		}
	}
}

func (v *validator) polygons() {
	m := v.m
	for i, p := range m.Polygons {
		n := len(p.Endpoints)
		if len(p.Lines) != n || len(p.Sides) != n {
			v.fail("polygon %d: endpoint/line/side counts differ (%d/%d/%d)", i, n, len(p.Lines), len(p.Sides))
			continue
		}
		if n < 3 {
			v.fail("polygon %d has %d vertices", i, n)
			continue
		}
		if p.CeilingHeight < p.FloorHeight {
			v.fail("polygon %d: ceiling %g below floor %g", i, p.CeilingHeight, p.FloorHeight)
		}
		v.texture(fmt.Sprintf("polygon %d: floor", i), p.Floor)
		v.texture(fmt.Sprintf("polygon %d: ceiling", i), p.Ceiling)
		v.index(fmt.Sprintf("polygon %d: media", i), p.Media, len(m.Liquids), true)

		ok := true
		for w := range n {
			ok = v.index(fmt.Sprintf("polygon %d wall %d: endpoint", i, w), p.Endpoints[w], len(m.Points), false) && ok
			ok = v.index(fmt.Sprintf("polygon %d wall %d: line", i, w), p.Lines[w], len(m.Lines), false) && ok
			ok = v.index(fmt.Sprintf("polygon %d wall %d: side", i, w), p.Sides[w], len(m.Sides), true) && ok
		}
		if !ok {
			continue
		}
		v.walls(i, p)
		v.convex(i, p)
	}
}

func (v *validator) walls(i int, p Polygon) {
	m := v.m
	n := len(p.Endpoints)
	for w := range n {
		a, b := p.Endpoints[w], p.Endpoints[(w+1)%n]
		l := m.Lines[p.Lines[w]]
		if !(l.Begin == a && l.End == b) && !(l.Begin == b && l.End == a) {
			v.fail("polygon %d wall %d: line %d does not join points %d and %d", i, w, p.Lines[w], a, b)
		}
		if l.FrontPoly != i && l.BackPoly != i {
			v.fail("polygon %d wall %d: line %d does not border it", i, w, p.Lines[w])
		}
		if s := p.Sides[w]; s != None {
			if side := m.Sides[s]; side.Polygon != i || side.Line != p.Lines[w] {
				v.fail("polygon %d wall %d: side %d belongs to polygon %d line %d", i, w, s, side.Polygon, side.Line)
			}
		}
	}
}

// convex requires every corner to turn left (collinear corners allowed)
// and a positive area.
func (v *validator) convex(i int, p Polygon) {
	m := v.m
	n := len(p.Endpoints)
	area := 0.0
	for w := range n {
		a := m.Points[p.Endpoints[w]]
		b := m.Points[p.Endpoints[(w+1)%n]]
		c := m.Points[p.Endpoints[(w+2)%n]]
		if b.Sub(a).Cross(c.Sub(b)) < 0 {
			v.fail("polygon %d is not convex and counter-clockwise at point %d", i, p.Endpoints[(w+1)%n])
			return
		}
		area += a.Cross(b)
	}
	if area <= 0 {
		v.fail("polygon %d has no area", i)
	}
}

func (v *validator) media() {
	for i, md := range v.m.Liquids {
		v.index(fmt.Sprintf("media %d: light", i), md.Light, len(v.m.Lights), true)
		if md.High < md.Low {
			v.fail("media %d: high %g below low %g", i, md.High, md.Low)
		}
	}
}
