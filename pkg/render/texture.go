package render

import (
	"image"
	"image/color"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// Bitmap is a palettized texture. Texel 0 is see-through on transparent
// surfaces.
type Bitmap struct {
	Width  int
	Height int
	Pixels []uint8
	// ColumnMajor stores pixels column by column (x*Height + y), the
	// layout wall textures are usually kept in.
	ColumnMajor bool
}

// NewBitmap creates an empty bitmap with the given dimensions.
func NewBitmap(width, height int, columnMajor bool) *Bitmap {
	return &Bitmap{
		Width:       width,
		Height:      height,
		Pixels:      make([]uint8, width*height),
		ColumnMajor: columnMajor,
	}
}

// PowerOfTwo reports whether both dimensions are powers of two.
func (b *Bitmap) PowerOfTwo() bool {
	return math3d.IsPowerOfTwo(b.Width) && math3d.IsPowerOfTwo(b.Height)
}

// SetPixel sets a texel, ignoring coordinates outside the bitmap.
func (b *Bitmap) SetPixel(x, y int, c uint8) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	b.Pixels[b.offset(x, y)] = c
}

// At returns the texel at (x, y), wrapping coordinates outside the bitmap.
func (b *Bitmap) At(x, y int) uint8 {
	x = wrapIndex(x, b.Width)
	y = wrapIndex(y, b.Height)
	return b.Pixels[b.offset(x, y)]
}

// Sample returns the texel at texture coordinate (u, v) measured in
// repeats of the bitmap.
func (b *Bitmap) Sample(u, v float64) uint8 {
	return b.At(floorInt(u*float64(b.Width)), floorInt(v*float64(b.Height)))
}

func (b *Bitmap) offset(x, y int) int {
	if b.ColumnMajor {
		return x*b.Height + y
	}
	return y*b.Width + x
}

// wrapIndex wraps i into [0, size), by mask when size is a power of two.
func wrapIndex(i, size int) int {
	if math3d.IsPowerOfTwo(size) {
		return i & (size - 1)
	}
	i %= size
	if i < 0 {
		i += size
	}
	return i
}

func floorInt(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}

// BitmapFromImage quantizes img to pal.
func BitmapFromImage(img image.Image, pal color.Palette, columnMajor bool) *Bitmap {
	bounds := img.Bounds()
	b := NewBitmap(bounds.Dx(), bounds.Dy(), columnMajor)
	for y := range b.Height {
		for x := range b.Width {
			b.SetPixel(x, y, uint8(pal.Index(img.At(bounds.Min.X+x, bounds.Min.Y+y))))
		}
	}
	return b
}

// NewCheckerBitmap creates a procedural checkerboard bitmap.
func NewCheckerBitmap(width, height, checkSize int, c1, c2 uint8) *Bitmap {
	b := NewBitmap(width, height, false)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				b.SetPixel(x, y, c1)
			} else {
				b.SetPixel(x, y, c2)
			}
		}
	}
	return b
}

// ShadingTables maps palette indices to packed colors, one table per light
// level from darkest to brightest.
type ShadingTables struct {
	Levels [][256]uint32
}

// NewShadingTables builds levels tables from pal, scaling each color from
// black up to full intensity.
func NewShadingTables(pal color.Palette, levels int) *ShadingTables {
	levels = max(levels, 2)
	s := &ShadingTables{Levels: make([][256]uint32, levels)}
	for l := range levels {
		intensity := float64(l) / float64(levels-1)
		for i, c := range pal {
			if i >= 256 {
				break
			}
			r, g, b, a := c.RGBA()
			s.Levels[l][i] = Pack(
				uint8(float64(r>>8)*intensity),
				uint8(float64(g>>8)*intensity),
				uint8(float64(b>>8)*intensity),
				uint8(a>>8),
			)
		}
	}
	return s
}

// Level returns the table index for a light intensity in [0,1].
func (s *ShadingTables) Level(intensity float64) int {
	n := len(s.Levels)
	return math3d.Clamp(int(intensity*float64(n-1)), 0, n-1)
}

// Shade returns the color of palette index c at the given level.
func (s *ShadingTables) Shade(level int, c uint8) uint32 {
	return s.Levels[level][c]
}

// TextureSource supplies bitmaps and shading tables. Either may be nil
// while the texture is still loading; the entry is then skipped.
type TextureSource interface {
	Bitmap(d mapdata.ShapeDescriptor) *Bitmap
	ShadingTables(d mapdata.ShapeDescriptor) *ShadingTables
}
