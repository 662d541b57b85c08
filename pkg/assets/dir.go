package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math/bits"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/render"
)

var imageExts = []string{".png", ".bmp", ".jpg", ".jpeg"}

// DirLoader reads bitmaps from image files laid out as
// <Dir>/<collection>/<bitmap>.<ext>, e.g. textures/17/003.png. Images are
// scaled up to power-of-two sizes and quantized to the descriptor's colour
// table. Descriptors with no file fall through to Fallback when set.
type DirLoader struct {
	Dir      string
	Fallback Loader
}

// Path returns the file name tried first for d, without extension.
func (l DirLoader) Path(d mapdata.ShapeDescriptor) string {
	return filepath.Join(l.Dir, fmt.Sprintf("%02d", d.Collection()), fmt.Sprintf("%03d", d.Bitmap()))
}

// LoadBitmap implements Loader.
func (l DirLoader) LoadBitmap(ctx context.Context, d mapdata.ShapeDescriptor) (*render.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := l.Path(d)
	for _, ext := range imageExts {
		img, err := decodeFile(base + ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		landscape := IsLandscape(d.Collection())
		img = scalePowerOfTwo(img)
		logger().WithField("path", base+ext).Debug("loaded texture")
		return render.BitmapFromImage(img, Palette(d.CLUT()), !landscape), nil
	}
	if l.Fallback != nil {
		return l.Fallback.LoadBitmap(ctx, d)
	}
	return nil, fmt.Errorf("%s: %w", d, ErrNotFound)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// scalePowerOfTwo resamples img so both sides are powers of two, rounding
// each side up.
func scalePowerOfTwo(img image.Image) image.Image {
	b := img.Bounds()
	w, h := ceilPow2(b.Dx()), ceilPow2(b.Dy())
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
