package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ with fg = top pixel, bg = bottom pixel
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: packedToColor(fb.GetPixel(x, topY)),
					Bg: packedToColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// packedToColor converts a packed pixel to a terminal color.
func packedToColor(c uint32) color.Color {
	if c&0xff == 0 {
		return nil // Transparent = no color
	}
	return Unpack(c)
}

// Colors for convenience
var (
	ColorBlack   = Pack(0, 0, 0, 255)
	ColorWhite   = Pack(255, 255, 255, 255)
	ColorRed     = Pack(255, 0, 0, 255)
	ColorGreen   = Pack(0, 255, 0, 255)
	ColorYellow  = Pack(255, 255, 0, 255)
	ColorCyan    = Pack(0, 255, 255, 255)
	ColorMagenta = Pack(255, 0, 255, 255)
	ColorGray    = Pack(128, 128, 128, 255)
)

// RGB creates an opaque packed color.
func RGB(r, g, b uint8) uint32 {
	return Pack(r, g, b, 255)
}
