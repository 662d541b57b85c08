package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Pack packs a color as 0xRRGGBBAA.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

// Unpack splits a packed 0xRRGGBBAA color.
func Unpack(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8), A: uint8(c)}
}

// Framebuffer is the software backend's render target: Width x Height
// packed pixels, row-major. On a terminal each cell shows two rows (▀), so
// the height is twice the number of terminal rows. Framebuffer implements
// image.Image.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

var _ image.Image = (*Framebuffer)(nil)

// NewFramebuffer creates a transparent framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize changes the dimensions, reusing the pixel storage when it is big
// enough. Contents are undefined afterwards.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width, fb.Height = max(width, 0), max(height, 0)
	n := fb.Width * fb.Height
	if cap(fb.Pixels) < n {
		fb.Pixels = make([]uint32, n)
	}
	fb.Pixels = fb.Pixels[:n]
}

func (fb *Framebuffer) inside(x, y int) bool {
	return uint(x) < uint(fb.Width) && uint(y) < uint(fb.Height)
}

// Clear fills the framebuffer with c.
func (fb *Framebuffer) Clear(c uint32) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for filled := 1; filled < len(fb.Pixels); filled *= 2 {
		copy(fb.Pixels[filled:], fb.Pixels[:filled])
	}
}

// SetPixel writes c at (x, y). Writes outside the framebuffer are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c uint32) {
	if fb.inside(x, y) {
		fb.Pixels[y*fb.Width+x] = c
	}
}

// GetPixel returns the pixel at (x, y), or transparent black outside the
// framebuffer.
func (fb *Framebuffer) GetPixel(x, y int) uint32 {
	if !fb.inside(x, y) {
		return 0
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws the segment from (x0, y0) to (x1, y1), both ends included.
// Segments lying entirely beyond one edge are skipped.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c uint32) {
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
		(x0 >= fb.Width && x1 >= fb.Width) || (y0 >= fb.Height && y1 >= fb.Height) {
		return
	}
	dx, sx := x1-x0, 1
	if dx < 0 {
		dx, sx = -dx, -1
	}
	dy, sy := y0-y1, 1
	if dy > 0 {
		dy, sy = -dy, -1
	}
	// Bresenham with err = dx + dy tracking both axes.
	for err := dx + dy; ; {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		if e2 := 2 * err; e2 >= dy {
			err += dy
			x0 += sx
			if e2 <= dx {
				err += dx
				y0 += sy
			}
		} else {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect fills the w x h rectangle at (x, y), clipped to the framebuffer.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c uint32) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	for py := y0; py < y1; py++ {
		row := fb.Pixels[py*fb.Width+x0 : py*fb.Width+x1]
		for i := range row {
			row[i] = c
		}
	}
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// At implements image.Image.
func (fb *Framebuffer) At(x, y int) color.Color {
	return Unpack(fb.GetPixel(x, y))
}

// ToImage copies the framebuffer into an image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, c := range fb.Pixels {
		p := img.Pix[4*i : 4*i+4 : 4*i+4]
		p[0], p[1], p[2], p[3] = uint8(c>>24), uint8(c>>16), uint8(c>>8), uint8(c)
	}
	return img
}

// SavePNG writes the framebuffer to path as a PNG.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
