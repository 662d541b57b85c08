package render

import (
	"math"

	"github.com/taigrr/pfhor/pkg/mapdata"
)

// MinerLight brightens surfaces near the viewer, fading to nothing at
// Distance map units.
type MinerLight struct {
	Intensity float64
	Distance  float64
}

// At returns the extra brightness at depth z.
func (m MinerLight) At(z float64) float64 {
	if m.Distance <= 0 {
		return 0
	}
	return max(0, m.Intensity*(1-z/m.Distance))
}

// DepthFade darkens surfaces with distance: nothing up to Start map units
// of depth, then linearly more until Amount is lost at End and beyond.
type DepthFade struct {
	Start  float64
	End    float64
	Amount float64
}

// DefaultDepthFade is the fade backends start with.
var DefaultDepthFade = DepthFade{
	Start:  2 * mapdata.WorldUnit,
	End:    24 * mapdata.WorldUnit,
	Amount: 0.5,
}

// At returns the brightness lost at depth z.
func (f DepthFade) At(z float64) float64 {
	switch {
	case f.Amount <= 0 || z <= f.Start:
		return 0
	case z >= f.End:
		return f.Amount
	}
	return f.Amount * (z - f.Start) / (f.End - f.Start)
}

// RasterStats tracks what the software backend did with its entries.
type RasterStats struct {
	Entries int // Entries received
	Skipped int // Entries dropped for missing or unusable textures
	Pixels  int // Pixels written
}

// SoftwareBackend rasterizes draw entries into a Framebuffer, scanning
// walls by columns and floors and ceilings by rows so that depth is
// constant or linear along each span.
type SoftwareBackend struct {
	Miner      MinerLight
	Fade       DepthFade
	Background uint32
	Stats      RasterStats

	fb       *Framebuffer
	textures TextureSource
	view     *View
	warned   map[mapdata.ShapeDescriptor]bool
	noise    uint32
	scratch  []screenVertex
}

// NewSoftwareBackend creates a backend drawing into fb with textures from
// src.
func NewSoftwareBackend(fb *Framebuffer, src TextureSource) *SoftwareBackend {
	return &SoftwareBackend{
		Fade:       DefaultDepthFade,
		Background: ColorBlack,
		fb:         fb,
		textures:   src,
		warned:     make(map[mapdata.ShapeDescriptor]bool),
		noise:      0x9e3779b9,
	}
}

// Framebuffer returns the target framebuffer.
func (b *SoftwareBackend) Framebuffer() *Framebuffer {
	return b.fb
}

// BeginFrame clears the framebuffer.
func (b *SoftwareBackend) BeginFrame(v *View) {
	b.view = v
	b.Stats = RasterStats{}
	b.fb.Clear(b.Background)
}

// Draw rasterizes entries in order.
func (b *SoftwareBackend) Draw(entries []DrawEntry) {
	for i := range entries {
		b.Stats.Entries++
		b.drawEntry(&entries[i])
	}
}

// EndFrame finishes the frame. The software backend never fails.
func (b *SoftwareBackend) EndFrame() error {
	return nil
}

// screenVertex is a projected vertex. a is the scan axis and s the span
// axis; the remaining fields are interpolated linearly in screen space.
type screenVertex struct {
	a, s       float64
	iz, uz, vz float64
}

func (v screenVertex) lerp(o screenVertex, t float64) screenVertex {
	return screenVertex{
		a:  v.a + (o.a-v.a)*t,
		s:  v.s + (o.s-v.s)*t,
		iz: v.iz + (o.iz-v.iz)*t,
		uz: v.uz + (o.uz-v.uz)*t,
		vz: v.vz + (o.vz-v.vz)*t,
	}
}

// spanShader shades the pixel (x, y) at depth z with texture coordinate
// (u, v) and reports the color and whether to write it.
type spanShader func(x, y int, z, u, v float64) (uint32, bool)

func (b *SoftwareBackend) drawEntry(e *DrawEntry) {
	if !e.Drawable() || b.textures == nil || b.view == nil {
		return
	}
	bm := b.textures.Bitmap(e.Texture)
	st := b.textures.ShadingTables(e.Texture)
	if bm == nil || st == nil || len(st.Levels) == 0 || len(bm.Pixels) == 0 {
		b.Stats.Skipped++
		return
	}
	if e.Transfer == mapdata.Landscape && !bm.PowerOfTwo() {
		if !b.warned[e.Texture] {
			b.warned[e.Texture] = true
			logger().WithField("texture", e.Texture.String()).Warn("landscape bitmap is not a power of two, skipping")
		}
		b.Stats.Skipped++
		return
	}

	rect := ScreenRect{X1: b.fb.Width, Y1: b.fb.Height}
	if e.Scissored {
		rect = e.Clip.Intersect(rect)
	}
	if rect.Empty() {
		return
	}

	columns := e.Kind == WallEntry
	verts := b.scratch[:0]
	for _, v := range e.Vertices {
		if v.Pos.Z <= 0 {
			return
		}
		x, y, _ := b.view.ToScreen(v.Pos)
		iz := 1 / v.Pos.Z
		sv := screenVertex{a: x, s: y, iz: iz, uz: v.Tex.X * iz, vz: v.Tex.Y * iz}
		if !columns {
			sv.a, sv.s = y, x
		}
		verts = append(verts, sv)
	}
	b.scratch = verts

	b.fillSpans(verts, rect, columns, b.shader(e, bm, st))
}

func (b *SoftwareBackend) shader(e *DrawEntry, bm *Bitmap, st *ShadingTables) spanShader {
	top := len(st.Levels) - 1
	switch e.Transfer {
	case mapdata.Landscape:
		return func(x, y int, _, _, _ float64) (uint32, bool) {
			u, v := landscapeAt(b.view, float64(x)+0.5, float64(y)+0.5)
			return st.Shade(top, bm.Sample(u, v)), true
		}
	case mapdata.Static:
		return func(_, _ int, z, _, _ float64) (uint32, bool) {
			return st.Shade(b.level(st, e.Brightness, z), uint8(b.nextNoise())), true
		}
	}
	return func(_, _ int, z, u, v float64) (uint32, bool) {
		texel := bm.Sample(u, v)
		if e.Transparent && texel == 0 {
			return 0, false
		}
		return st.Shade(b.level(st, e.Brightness, z), texel), true
	}
}

// level picks the shading table for a surface of the given brightness
// seen at depth z.
func (b *SoftwareBackend) level(st *ShadingTables, brightness, z float64) int {
	return st.Level(brightness + b.Miner.At(z) - b.Fade.At(z))
}

// fillSpans walks the convex polygon verts one scan line at a time inside
// rect. With columns set a scan line is a pixel column, otherwise a row.
func (b *SoftwareBackend) fillSpans(verts []screenVertex, rect ScreenRect, columns bool, shade spanShader) {
	lineMin, lineMax, spanMin, spanMax := rect.Y0, rect.Y1, rect.X0, rect.X1
	if columns {
		lineMin, lineMax, spanMin, spanMax = rect.X0, rect.X1, rect.Y0, rect.Y1
	}

	aMin, aMax := math.Inf(1), math.Inf(-1)
	for _, v := range verts {
		aMin, aMax = min(aMin, v.a), max(aMax, v.a)
	}
	first := max(lineMin, int(math.Ceil(aMin-0.5)))
	last := min(lineMax, int(math.Ceil(aMax-0.5)))

	n := len(verts)
	for line := first; line < last; line++ {
		center := float64(line) + 0.5
		var lo, hi screenVertex
		found := false
		for i := range n {
			v0, v1 := verts[i], verts[(i+1)%n]
			if !((v0.a <= center && center < v1.a) || (v1.a <= center && center < v0.a)) {
				continue
			}
			p := v0.lerp(v1, (center-v0.a)/(v1.a-v0.a))
			switch {
			case !found:
				lo, hi, found = p, p, true
			case p.s < lo.s:
				lo = p
			case p.s > hi.s:
				hi = p
			}
		}
		if !found {
			continue
		}

		start := max(spanMin, int(math.Ceil(lo.s-0.5)))
		end := min(spanMax, int(math.Ceil(hi.s-0.5)))
		width := hi.s - lo.s
		for px := start; px < end; px++ {
			t := 0.0
			if width > 0 {
				t = (float64(px) + 0.5 - lo.s) / width
			}
			iz := lo.iz + (hi.iz-lo.iz)*t
			if iz <= 0 {
				continue
			}
			z := 1 / iz
			u := (lo.uz + (hi.uz-lo.uz)*t) * z
			v := (lo.vz + (hi.vz-lo.vz)*t) * z

			x, y := px, line
			if columns {
				x, y = line, px
			}
			c, ok := shade(x, y, z, u, v)
			if !ok {
				continue
			}
			b.fb.Pixels[y*b.fb.Width+x] = c
			b.Stats.Pixels++
		}
	}
}

// nextNoise steps the xorshift generator used by static surfaces.
func (b *SoftwareBackend) nextNoise() uint32 {
	x := b.noise
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	b.noise = x
	return x
}
