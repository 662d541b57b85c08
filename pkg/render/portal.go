package render

import (
	"errors"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
	"github.com/taigrr/pfhor/pkg/world"
)

const (
	// DefaultMaxPortalDepth bounds how many portals deep a frame recurses.
	DefaultMaxPortalDepth = 32
	// DefaultPickDistance is how far Pick looks, in map units.
	DefaultPickDistance = 64 * mapdata.WorldUnit
)

// ErrNoBackend is returned when a frame is rendered without a backend.
var ErrNoBackend = errors.New("render: no backend")

// Options tune a Renderer. Zero fields take their defaults.
type Options struct {
	FlushThreshold int
	MaxPortalDepth int
	PickDistance   float64
}

func (o Options) withDefaults() Options {
	if o.FlushThreshold < 1 {
		o.FlushThreshold = DefaultFlushThreshold
	}
	if o.MaxPortalDepth < 1 {
		o.MaxPortalDepth = DefaultMaxPortalDepth
	}
	if o.PickDistance <= 0 {
		o.PickDistance = DefaultPickDistance
	}
	return o
}

// Renderer draws a world by walking its polygons through portals, starting
// from the viewer's polygon. Everything seen through a portal is emitted
// before the wall slices framing it, so entries arrive back to front.
type Renderer struct {
	world   *world.World
	backend Backend
	opts    Options

	// Per frame
	view      *View
	m         *mapdata.Map
	list      *DrawList
	stats     Stats
	onPath    map[int]bool
	submerged bool
	ticks     int
}

// NewRenderer creates a renderer drawing w into backend.
func NewRenderer(w *world.World, backend Backend, opts Options) *Renderer {
	return &Renderer{
		world:   w,
		backend: backend,
		opts:    opts.withDefaults(),
		onPath:  make(map[int]bool),
	}
}

// SetBackend swaps the backend used by later frames.
func (r *Renderer) SetBackend(b Backend) {
	r.backend = b
}

// RenderFrame draws one frame of v.
func (r *Renderer) RenderFrame(v *View) (Stats, error) {
	if r.backend == nil {
		return Stats{}, ErrNoBackend
	}

	r.view = v
	r.m = r.world.Map()
	r.stats = Stats{}
	r.list = NewDrawList(r.backend, r.opts.FlushThreshold, &r.stats)
	clear(r.onPath)
	r.submerged = r.world.Submerged(v.Polygon, v.Eye.Z)
	r.ticks = r.world.Ticks()

	r.backend.BeginFrame(v)
	r.renderPolygon(v.Polygon, v.ClipArea3D(), 0)
	r.list.Flush()
	err := r.backend.EndFrame()

	logger().WithFields(logrus.Fields{
		"polygons": r.stats.Polygons,
		"portals":  r.stats.Portals,
		"entries":  r.stats.Entries,
	}).Trace("frame rendered")
	return r.stats, err
}

func (r *Renderer) renderPolygon(polygon int, clip ClipArea3D, depth int) {
	r.stats.Polygons++
	r.onPath[polygon] = true
	defer delete(r.onPath, polygon)

	eye := r.view.Eye.XY()
	p := r.m.Polygon(polygon)
	horizontal := clip.Horizontal()

	for wall := range p.Walls() {
		a, b := r.m.WallEndpoints(polygon, wall)
		if b.Sub(a).Perp().Dot(eye.Sub(a)) <= 0 {
			continue
		}

		va, vb := r.view.WorldToView(a.Vec3(0)), r.view.WorldToView(b.Vec3(0))
		_, _, visible := horizontal.ClipSegment(math3d.V2(va.X, va.Z), math3d.V2(vb.X, vb.Z))

		if visible {
			r.throughPortal(polygon, wall, a, b, clip, depth)
		}
		r.emitWall(polygon, wall, a, b, clip, visible)
	}

	floor, ceiling := r.world.PolygonFloorCeiling(polygon, r.view.Eye.Z, r.submerged)
	if r.view.Eye.Z > floor.Height {
		r.emitHorizontal(polygon, mapdata.FloorSurface(polygon), floor, clip)
	}
	if r.view.Eye.Z < ceiling.Height {
		r.emitHorizontal(polygon, mapdata.CeilingSurface(polygon), ceiling, clip)
	}
}

// throughPortal recurses into the neighbour across wall when the shared
// gap is visible through clip.
func (r *Renderer) throughPortal(polygon, wall int, a, b math3d.Vec2, clip ClipArea3D, depth int) {
	bottom, top, next := r.m.PortalGap(polygon, wall)
	if next == mapdata.None || bottom >= top {
		return
	}
	if r.onPath[next] {
		return
	}
	if depth >= r.opts.MaxPortalDepth {
		logger().WithField("polygon", next).Debug("portal depth limit reached")
		return
	}

	gap := clip.ClipPolygon(r.toView(wallQuad(a, b, bottom, top)))
	inner := ClipArea3DFromPolygon(gap, r.view.Near)
	if inner.Empty() {
		// Closer than the near plane the opening itself is clipped away
		// while still filling the view.
		if !r.eyeInOpening(a, b, bottom, top) {
			return
		}
		inner = clip
	}
	r.stats.Portals++
	r.renderPolygon(next, inner, depth+1)
}

// eyeInOpening reports whether the eye stands within the near distance of
// the opening a→b, inside its span and between bottom and top, with some of
// the opening ahead of it.
func (r *Renderer) eyeInOpening(a, b math3d.Vec2, bottom, top float64) bool {
	eye := r.view.Eye
	if eye.Z < bottom || eye.Z > top {
		return false
	}
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return false
	}
	rel := eye.XY().Sub(a)
	if t := rel.Dot(d) / l2; t < 0 || t > 1 {
		return false
	}
	if d.Perp().Dot(rel)/math.Sqrt(l2) > r.view.Near {
		return false
	}
	return r.view.WorldToView(a.Vec3(eye.Z)).Z > 0 || r.view.WorldToView(b.Vec3(eye.Z)).Z > 0
}

func (r *Renderer) emitWall(polygon, wall int, a, b math3d.Vec2, clip ClipArea3D, visible bool) {
	side, _ := r.m.WallSide(polygon, wall)
	for _, s := range r.m.WallSlices(polygon, wall) {
		tex := side.Slot(s.Slot)
		e := DrawEntry{
			Kind:        WallEntry,
			Texture:     tex.Texture,
			Brightness:  r.world.LightIntensity(tex.Light),
			Transfer:    tex.Transfer,
			Transparent: s.Slot == mapdata.Transparent,
			Surface:     mapdata.WallSurface(polygon, wall, s.Slot),
			Bottom:      s.Bottom,
			Top:         s.Top,
		}
		if visible {
			poly := clip.ClipPolygon(r.toView(wallQuad(a, b, s.Bottom, s.Top)))
			e.Vertices = r.vertices(poly, tex, func(q math3d.Vec3) math3d.Vec2 {
				return wallTexCoord(a, b, s.Top, q, tex, r.ticks)
			})
			e.Clip, e.Scissored = clip.ScreenRect(r.view), true
		}
		r.list.Add(e)
	}
}

func (r *Renderer) emitHorizontal(polygon int, s mapdata.Surface, hs world.HorizontalSurface, clip ClipArea3D) {
	verts := r.m.PolygonVertices(polygon)
	world3 := make([]math3d.Vec3, len(verts))
	for i, p := range verts {
		world3[i] = p.Vec3(hs.Height)
	}
	poly := clip.ClipPolygon(r.toView(world3))
	tex := hs.Texture
	r.list.Add(DrawEntry{
		Kind:       HorizontalEntry,
		Texture:    tex.Texture,
		Brightness: r.world.LightIntensity(tex.Light),
		Transfer:   tex.Transfer,
		Clip:       clip.ScreenRect(r.view),
		Scissored:  true,
		Surface:    s,
		Bottom:     hs.Height,
		Top:        hs.Height,
		Vertices: r.vertices(poly, tex, func(q math3d.Vec3) math3d.Vec2 {
			return horizontalTexCoord(q, tex, r.ticks)
		}),
	})
}

// vertices attaches texture coordinates to a clipped view-space polygon.
func (r *Renderer) vertices(poly []math3d.Vec3, tex mapdata.SurfaceTexture, coord func(math3d.Vec3) math3d.Vec2) []Vertex {
	if len(poly) < 3 {
		return nil
	}
	out := make([]Vertex, len(poly))
	for i, p := range poly {
		out[i].Pos = p
		if tex.Transfer == mapdata.Landscape {
			out[i].Tex = landscapeTexCoord(r.view, p)
		} else {
			out[i].Tex = coord(r.view.ViewToWorld(p))
		}
	}
	return out
}

func (r *Renderer) toView(poly []math3d.Vec3) []math3d.Vec3 {
	for i, p := range poly {
		poly[i] = r.view.WorldToView(p)
	}
	return poly
}

// wallQuad returns the world-space rectangle of wall a→b between bottom
// and top.
func wallQuad(a, b math3d.Vec2, bottom, top float64) []math3d.Vec3 {
	return []math3d.Vec3{
		a.Vec3(top), b.Vec3(top), b.Vec3(bottom), a.Vec3(bottom),
	}
}

// Pick returns the surface under pixel (px, py) of v.
func (r *Renderer) Pick(v *View, px, py float64) (world.Hit, bool) {
	origin, dir := v.ScreenToWorldRay(px, py)
	end := origin.Add(dir.Scale(r.opts.PickDistance))
	return r.world.IntersectLineSegment(v.Polygon, origin, end)
}
