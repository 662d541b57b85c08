package world

import (
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// MediaInfo is the current state of a polygon's liquid.
type MediaInfo struct {
	Type     mapdata.MediaType
	Height   float64
	Offset   math3d.Vec2
	Texture  mapdata.ShapeDescriptor
	Transfer mapdata.TransferMode
	Light    int
}

// MediaInfo returns the liquid in polygon. Its height moves between Low
// and High with its light's intensity, and its texture drifts along the
// current by Magnitude map units per tick.
func (w *World) MediaInfo(polygon int) (MediaInfo, bool) {
	p := w.m.Polygon(polygon)
	if p.Media == mapdata.None {
		return MediaInfo{}, false
	}
	md := w.m.Media(p.Media)
	drift := math3d.FromAngle(md.Direction).Scale(md.Magnitude * float64(w.ticks))
	return MediaInfo{
		Type:     md.Type,
		Height:   math3d.Lerp(md.Low, md.High, w.LightIntensity(md.Light)),
		Offset:   md.Origin.Add(drift),
		Texture:  md.Texture,
		Transfer: md.Transfer,
		Light:    md.Light,
	}, true
}

// Submerged reports whether height is below the liquid surface in polygon.
func (w *World) Submerged(polygon int, height float64) bool {
	info, ok := w.MediaInfo(polygon)
	return ok && height < info.Height
}

// HorizontalSurface is a floor or ceiling as it should be drawn.
type HorizontalSurface struct {
	Height  float64
	Texture mapdata.SurfaceTexture
	// Liquid is set when the surface is a liquid standing in for the
	// polygon's own floor or ceiling.
	Liquid bool
}

// PolygonFloorCeiling returns the floor and ceiling of polygon as seen from
// playerHeight. A liquid surface between the floor and the viewer replaces
// the floor; when submerged, one between the viewer and the ceiling
// replaces the ceiling.
func (w *World) PolygonFloorCeiling(polygon int, playerHeight float64, submerged bool) (floor, ceiling HorizontalSurface) {
	p := w.m.Polygon(polygon)
	floor = HorizontalSurface{Height: p.FloorHeight, Texture: p.Floor}
	ceiling = HorizontalSurface{Height: p.CeilingHeight, Texture: p.Ceiling}

	info, ok := w.MediaInfo(polygon)
	if !ok {
		return floor, ceiling
	}
	liquid := HorizontalSurface{
		Height: info.Height,
		Texture: mapdata.SurfaceTexture{
			Texture:  info.Texture,
			Offset:   info.Offset,
			Transfer: info.Transfer,
			Light:    info.Light,
		},
		Liquid: true,
	}
	switch {
	case !submerged && p.FloorHeight < info.Height && info.Height < playerHeight:
		floor = liquid
	case submerged && playerHeight < info.Height && info.Height < p.CeilingHeight:
		ceiling = liquid
	}
	return floor, ceiling
}
