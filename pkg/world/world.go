// Package world owns a level's geometry together with its animated light
// state and answers the queries the renderer and the movement code need:
// light intensities, liquid heights, floor/ceiling substitution, player
// movement, raycasts and connected-surface searches.
package world

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/taigrr/pfhor/pkg/lights"
	"github.com/taigrr/pfhor/pkg/mapdata"
)

// MaxTraversalDepth caps how many polygons movement and raycasts may chain
// through in one query.
const MaxTraversalDepth = 64

// World is a level plus its running simulation state. It is owned by the
// frame loop and not safe for concurrent use.
type World struct {
	m      *mapdata.Map
	lights []*lights.State
	ticks  int
	rng    lights.Source
}

// New creates a world for m. rng drives light jitter and flicker; nil
// selects an unseeded source.
func New(m *mapdata.Map, rng lights.Source) *World {
	w := &World{m: m, rng: rng}
	w.resetLights()
	return w
}

func (w *World) resetLights() {
	w.lights = make([]*lights.State, len(w.m.Lights))
	for i, l := range w.m.Lights {
		w.lights[i] = lights.New(l.Spec, w.rng)
	}
}

// Map returns the current geometry.
func (w *World) Map() *mapdata.Map {
	return w.m
}

// Ticks returns the elapsed simulation time in ticks.
func (w *World) Ticks() int {
	return w.ticks
}

// ReplaceMap swaps in edited geometry between frames. Light animation
// carries over unless the light table itself changed.
func (w *World) ReplaceMap(m *mapdata.Map) {
	old := w.m
	w.m = m
	if !slices.Equal(old.Lights, m.Lights) {
		logger().WithFields(logrus.Fields{"old": len(old.Lights), "new": len(m.Lights)}).Debug("light table changed, resetting light state")
		w.resetLights()
	}
}

// AdvanceTicks moves the clock and every light forward by n ticks.
func (w *World) AdvanceTicks(n int) {
	if n <= 0 {
		return
	}
	w.ticks += n
	for _, l := range w.lights {
		l.AdvanceTicks(n)
	}
}

// LightIntensity returns the brightness of light i in [0, 1]. None is
// full brightness.
func (w *World) LightIntensity(i int) float64 {
	if i == mapdata.None {
		return 1
	}
	w.m.Light(i)
	return w.lights[i].Intensity()
}

// LightState returns the animation state of light i.
func (w *World) LightState(i int) *lights.State {
	w.m.Light(i)
	return w.lights[i]
}

// SetLightActive switches every light carrying tag and returns how many
// lights matched.
func (w *World) SetLightActive(tag int, active bool) int {
	n := 0
	for i, l := range w.m.Lights {
		if l.Tag != tag {
			continue
		}
		w.lights[i].SetActive(active)
		n++
	}
	logger().WithFields(logrus.Fields{"tag": tag, "active": active, "lights": n}).Debug("light switch")
	return n
}

// ToggleLight flips every light carrying tag.
func (w *World) ToggleLight(tag int) int {
	n := 0
	for i, l := range w.m.Lights {
		if l.Tag != tag {
			continue
		}
		w.lights[i].SetActive(!w.lights[i].Active())
		n++
	}
	return n
}

// Polygon returns polygon i.
func (w *World) Polygon(i int) mapdata.Polygon {
	return w.m.Polygon(i)
}

// Side returns side i.
func (w *World) Side(i int) mapdata.Side {
	return w.m.Side(i)
}

// Portal returns the neighbour of polygon across wall, or mapdata.None.
func (w *World) Portal(polygon, wall int) int {
	return w.m.Portal(polygon, wall)
}
