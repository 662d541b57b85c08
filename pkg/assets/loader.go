package assets

import (
	"context"
	"errors"
	"slices"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/render"
)

// ErrNotFound is returned by loaders that have no bitmap for a descriptor.
var ErrNotFound = errors.New("bitmap not found")

// Loader produces the bitmap for a shape descriptor. Implementations must
// be safe for concurrent use.
type Loader interface {
	LoadBitmap(ctx context.Context, d mapdata.ShapeDescriptor) (*render.Bitmap, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, d mapdata.ShapeDescriptor) (*render.Bitmap, error)

// LoadBitmap calls f.
func (f LoaderFunc) LoadBitmap(ctx context.Context, d mapdata.ShapeDescriptor) (*render.Bitmap, error) {
	return f(ctx, d)
}

// Descriptors lists every distinct texture m refers to, in ascending order.
func Descriptors(m *mapdata.Map) []mapdata.ShapeDescriptor {
	seen := make(map[mapdata.ShapeDescriptor]bool)
	add := func(d mapdata.ShapeDescriptor) {
		if d.Valid() {
			seen[d] = true
		}
	}
	for _, s := range m.Sides {
		add(s.Primary.Texture)
		add(s.Secondary.Texture)
		add(s.Transparent.Texture)
	}
	for _, p := range m.Polygons {
		add(p.Floor.Texture)
		add(p.Ceiling.Texture)
	}
	for _, l := range m.Liquids {
		add(l.Texture)
	}
	out := make([]mapdata.ShapeDescriptor, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}
