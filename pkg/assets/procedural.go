package assets

import (
	"context"
	"math"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/render"
)

// Procedural texture sizes
const (
	TileSize        = 64
	LandscapeWidth  = 512
	LandscapeHeight = 128
)

// IsLandscape reports whether collection holds landscape bitmaps.
func IsLandscape(collection int) bool {
	return collection >= mapdata.LandscapeCollection && collection < mapdata.LandscapeCollection+4
}

// Procedural draws every texture from its descriptor without touching the
// disk. Walls are bricks, floors tiles, liquids ripples and landscapes a
// sky over hills. The bitmap number picks the ramp.
type Procedural struct{}

// LoadBitmap implements Loader.
func (Procedural) LoadBitmap(ctx context.Context, d mapdata.ShapeDescriptor) (*render.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ramp := d.Bitmap() % rampCount
	switch c := d.Collection(); {
	case IsLandscape(c):
		return landscape(ramp), nil
	case c == mapdata.WallCollection:
		return bricks(ramp), nil
	case c == mapdata.FloorCollection:
		return tiles(ramp), nil
	case c == mapdata.LiquidCollection:
		return ripples(ramp), nil
	default:
		return render.NewCheckerBitmap(TileSize, TileSize, 8, Shade(ramp, 12), Shade(ramp, 6)), nil
	}
}

func bricks(ramp int) *render.Bitmap {
	b := render.NewBitmap(TileSize, TileSize, true)
	const rows = 4
	h := TileSize / rows
	for y := range TileSize {
		row := y / h
		shift := (row % 2) * TileSize / 4
		for x := range TileSize {
			bx := (x + shift) % (TileSize / 2)
			mortar := y%h == 0 || bx == 0
			s := 10 + (x*7+y*13)%4
			if mortar {
				s = 3
			}
			b.SetPixel(x, y, Shade(ramp, s))
		}
	}
	return b
}

func tiles(ramp int) *render.Bitmap {
	b := render.NewBitmap(TileSize, TileSize, false)
	for y := range TileSize {
		for x := range TileSize {
			s := 9
			if x%32 == 0 || y%32 == 0 {
				s = 4
			} else if (x/32+y/32)%2 == 0 {
				s = 12
			}
			b.SetPixel(x, y, Shade(ramp, s))
		}
	}
	return b
}

func ripples(ramp int) *render.Bitmap {
	b := render.NewBitmap(TileSize, TileSize, false)
	for y := range TileSize {
		for x := range TileSize {
			fx := float64(x) / TileSize * 2 * math.Pi
			fy := float64(y) / TileSize * 2 * math.Pi
			w := math.Sin(fx*2+math.Sin(fy)) + math.Cos(fy*3)
			b.SetPixel(x, y, Shade(ramp, 8+int(math.Round(w*3))))
		}
	}
	return b
}

func landscape(ramp int) *render.Bitmap {
	b := render.NewBitmap(LandscapeWidth, LandscapeHeight, false)
	for x := range LandscapeWidth {
		a := float64(x) / LandscapeWidth * 2 * math.Pi
		hill := LandscapeHeight * (0.55 + 0.08*math.Sin(3*a) + 0.04*math.Sin(11*a+1))
		for y := range LandscapeHeight {
			var c uint8
			if float64(y) > hill {
				c = Shade(ramp, 4+(y*3/LandscapeHeight))
			} else {
				c = Shade(RampSky, 15-y*10/LandscapeHeight)
			}
			b.SetPixel(x, y, c)
		}
	}
	return b
}
