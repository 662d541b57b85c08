package render

import (
	"image"
	"image/color"
	"testing"
)

func TestBitmapLayouts(t *testing.T) {
	for _, columnMajor := range []bool{false, true} {
		b := NewBitmap(4, 2, columnMajor)
		b.SetPixel(3, 1, 7)
		b.SetPixel(1, 0, 5)
		if b.At(3, 1) != 7 || b.At(1, 0) != 5 || b.At(0, 0) != 0 {
			t.Errorf("columnMajor=%v: texels lost", columnMajor)
		}
		want := 1*4 + 3
		if columnMajor {
			want = 3*2 + 1
		}
		if b.Pixels[want] != 7 {
			t.Errorf("columnMajor=%v: texel (3,1) not at offset %d", columnMajor, want)
		}
	}
}

func TestBitmapWrap(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"power of two", 4, 4},
		{"odd", 3, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBitmap(tc.width, tc.height, false)
			b.SetPixel(1, 2, 9)
			for _, d := range []int{-2, -1, 1, 3} {
				x, y := 1+d*tc.width, 2+d*tc.height
				if got := b.At(x, y); got != 9 {
					t.Errorf("At(%d, %d) = %d, want 9", x, y, got)
				}
			}
		})
	}
}

func TestBitmapSample(t *testing.T) {
	b := NewBitmap(4, 4, false)
	b.SetPixel(2, 1, 3)
	if got := b.Sample(0.6, 0.3); got != 3 {
		t.Errorf("Sample = %d, want 3", got)
	}
	if got := b.Sample(-0.4, -0.7); got != 3 {
		t.Errorf("Sample of negative repeat = %d, want 3", got)
	}
}

func TestBitmapFromImage(t *testing.T) {
	pal := color.Palette{color.RGBA{0, 0, 0, 255}, color.RGBA{250, 250, 250, 255}}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{240, 240, 240, 255})
	b := BitmapFromImage(img, pal, true)
	if b.At(1, 1) != 1 || b.At(0, 0) != 0 {
		t.Errorf("quantized pixels = %v", b.Pixels)
	}
}

func TestShadingTables(t *testing.T) {
	pal := color.Palette{color.RGBA{200, 100, 50, 255}}
	s := NewShadingTables(pal, 3)
	if len(s.Levels) != 3 {
		t.Fatalf("levels = %d", len(s.Levels))
	}
	if got := s.Shade(0, 0); got != Pack(0, 0, 0, 255) {
		t.Errorf("darkest = %08x", got)
	}
	if got := s.Shade(2, 0); got != Pack(200, 100, 50, 255) {
		t.Errorf("brightest = %08x", got)
	}
	if got := s.Shade(1, 0); got != Pack(100, 50, 25, 255) {
		t.Errorf("middle = %08x", got)
	}

	tests := []struct {
		intensity float64
		want      int
	}{
		{-1, 0}, {0, 0}, {0.6, 1}, {1, 2}, {3, 2},
	}
	for _, tc := range tests {
		if got := s.Level(tc.intensity); got != tc.want {
			t.Errorf("Level(%v) = %d, want %d", tc.intensity, got, tc.want)
		}
	}
}

func TestCheckerBitmap(t *testing.T) {
	b := NewCheckerBitmap(8, 8, 4, 1, 2)
	if b.At(0, 0) != 1 || b.At(4, 0) != 2 || b.At(4, 4) != 1 {
		t.Error("checker pattern wrong")
	}
}
