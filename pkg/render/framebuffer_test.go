package render

import (
	"image/color"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestPackUnpack(t *testing.T) {
	c := Pack(1, 2, 3, 4)
	if c != 0x01020304 {
		t.Errorf("Pack = %08x", c)
	}
	if got := Unpack(c); got != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("Unpack = %v", got)
	}
}

func TestFramebufferPixels(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(ColorGray)
	fb.SetPixel(3, 2, ColorRed)
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)
	if fb.GetPixel(3, 2) != ColorRed || fb.GetPixel(0, 0) != ColorGray {
		t.Error("pixels not stored")
	}
	if fb.GetPixel(10, 10) != 0 {
		t.Error("out of bounds pixel not transparent")
	}
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(5, 5)
	fb.DrawLine(0, 0, 4, 4, ColorWhite)
	for i := range 5 {
		if fb.GetPixel(i, i) != ColorWhite {
			t.Errorf("diagonal pixel %d not set", i)
		}
	}
	if fb.GetPixel(1, 0) != 0 {
		t.Error("pixel off the line set")
	}
}

func TestFramebufferResize(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Resize(2, 2)
	if len(fb.Pixels) != 4 || cap(fb.Pixels) != 16 {
		t.Errorf("shrink reallocated: len %d cap %d", len(fb.Pixels), cap(fb.Pixels))
	}
	fb.Resize(8, 8)
	if len(fb.Pixels) != 64 {
		t.Errorf("grow len = %d", len(fb.Pixels))
	}
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Clear(ColorCyan)
	img := fb.ToImage()
	if img.RGBAAt(1, 1) != Unpack(ColorCyan) {
		t.Errorf("image pixel = %v", img.RGBAAt(1, 1))
	}
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "frame.png")); err != nil {
		t.Fatal(err)
	}
	if err := fb.SavePNG(filepath.Join(t.TempDir(), "missing", "frame.png")); err == nil {
		t.Error("saving into a missing directory succeeded")
	}
}

func TestFramebufferDrawToScreen(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(0, 1, ColorGreen)
	scr := uv.NewScreenBuffer(2, 2)
	fb.Draw(scr, uv.Rect(0, 0, 2, 2))

	cell := scr.CellAt(0, 0)
	if cell == nil || cell.Content != "▀" {
		t.Fatalf("cell = %+v", cell)
	}
	if cell.Style.Fg != Unpack(ColorRed) || cell.Style.Bg != Unpack(ColorGreen) {
		t.Errorf("style = %+v", cell.Style)
	}
	if c := scr.CellAt(1, 1); c == nil || c.Style.Fg != nil {
		t.Errorf("transparent pixel coloured: %+v", c)
	}
}
