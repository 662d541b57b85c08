package assets

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/render"
	"github.com/taigrr/pfhor/pkg/world"
)

type countingLoader struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (l *countingLoader) LoadBitmap(ctx context.Context, d mapdata.ShapeDescriptor) (*render.Bitmap, error) {
	l.calls.Add(1)
	if l.release != nil {
		select {
		case <-l.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if l.err != nil {
		return nil, l.err
	}
	return render.NewCheckerBitmap(8, 8, 2, 1, 2), nil
}

func newTestProvider(t *testing.T, l Loader) *Provider {
	t.Helper()
	p, err := NewProvider(l, Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)
	return p
}

func TestProviderAsyncBitmap(t *testing.T) {
	l := &countingLoader{release: make(chan struct{})}
	p := newTestProvider(t, l)
	d := mapdata.NewShapeDescriptor(17, 0, 0)

	for range 10 {
		if p.Bitmap(d) != nil {
			t.Fatal("bitmap ready before the load finished")
		}
	}
	close(l.release)
	p.Wait()
	if p.Bitmap(d) == nil {
		t.Fatal("bitmap missing after load")
	}
	if n := l.calls.Load(); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}
}

func TestProviderPinsRefusedBitmaps(t *testing.T) {
	l := &countingLoader{}
	// An 8x8 bitmap costs 64, more than the whole cache.
	p, err := NewProvider(l, Options{CacheSize: 32, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)
	d := mapdata.NewShapeDescriptor(17, 0, 0)

	p.Bitmap(d)
	p.Wait()
	for frame := range 5 {
		if p.Bitmap(d) == nil {
			t.Fatalf("frame %d: bitmap refused by the cache is missing", frame)
		}
		p.Wait()
	}
	if n := l.calls.Load(); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}
	if p.Err(d) != nil || p.Pinned() != 1 {
		t.Errorf("err = %v, pinned = %d", p.Err(d), p.Pinned())
	}
}

func TestProviderNoTexture(t *testing.T) {
	l := &countingLoader{}
	p := newTestProvider(t, l)
	if p.Bitmap(mapdata.NoTexture) != nil || p.ShadingTables(mapdata.NoTexture) != nil {
		t.Error("empty slot should have no texture")
	}
	p.Wait()
	if l.calls.Load() != 0 {
		t.Error("empty slot reached the loader")
	}
}

func TestProviderFailure(t *testing.T) {
	l := &countingLoader{err: ErrNotFound}
	p := newTestProvider(t, l)
	d := mapdata.NewShapeDescriptor(17, 0, 1)

	p.Bitmap(d)
	p.Wait()
	if p.Bitmap(d) != nil {
		t.Error("failed texture should stay missing")
	}
	p.Wait()
	if !errors.Is(p.Err(d), ErrNotFound) {
		t.Errorf("Err = %v", p.Err(d))
	}
	if n := l.calls.Load(); n != 1 {
		t.Errorf("failed texture retried %d times", n)
	}
}

func TestProviderPreload(t *testing.T) {
	m := mapdata.Demo()
	descs := Descriptors(m)
	p := newTestProvider(t, Procedural{})
	if err := p.Preload(context.Background(), descs); err != nil {
		t.Fatal(err)
	}
	for _, d := range descs {
		if p.Bitmap(d) == nil {
			t.Errorf("%s not loaded", d)
		}
	}
}

func TestProviderPreloadError(t *testing.T) {
	p := newTestProvider(t, DirLoader{Dir: t.TempDir()})
	err := p.Preload(context.Background(), []mapdata.ShapeDescriptor{mapdata.NewShapeDescriptor(17, 0, 0)})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProviderShadingTables(t *testing.T) {
	p := newTestProvider(t, Procedural{})
	a := p.ShadingTables(mapdata.NewShapeDescriptor(17, 1, 0))
	b := p.ShadingTables(mapdata.NewShapeDescriptor(17, 1, 5))
	if a == nil || a != b {
		t.Fatal("bitmaps of one collection and colour table share tables")
	}
	if len(a.Levels) != ShadingLevels {
		t.Errorf("%d levels, want %d", len(a.Levels), ShadingLevels)
	}
	white := Shade(RampWhite, rampSize-1)
	if got := a.Shade(ShadingLevels-1, white); got != render.Pack(255, 255, 255, 255) {
		t.Errorf("full light white = %08x", got)
	}
	if got := a.Shade(0, white); got != render.Pack(0, 0, 0, 255) {
		t.Errorf("no light white = %08x", got)
	}
}

func TestProviderClose(t *testing.T) {
	l := &countingLoader{release: make(chan struct{})}
	p, err := NewProvider(l, Options{})
	if err != nil {
		t.Fatal(err)
	}
	p.Bitmap(mapdata.NewShapeDescriptor(17, 0, 0))
	p.Close()
	if p.Bitmap(mapdata.NewShapeDescriptor(17, 0, 1)) != nil {
		t.Error("closed provider returned a bitmap")
	}
}

func TestDescriptors(t *testing.T) {
	descs := Descriptors(mapdata.Demo())
	if len(descs) == 0 {
		t.Fatal("demo has no textures")
	}
	liquid := mapdata.NewShapeDescriptor(mapdata.LiquidCollection, 0, 0)
	found := false
	for i, d := range descs {
		if !d.Valid() {
			t.Errorf("descriptor %d is empty", i)
		}
		if i > 0 && descs[i-1] >= d {
			t.Errorf("descriptors not sorted and unique at %d", i)
		}
		found = found || d == liquid
	}
	if !found {
		t.Error("media texture missing")
	}
}

func TestProviderRendersDemo(t *testing.T) {
	p := newTestProvider(t, Procedural{})
	m := mapdata.Demo()
	if err := p.Preload(context.Background(), Descriptors(m)); err != nil {
		t.Fatal(err)
	}
	w := world.New(m, rand.New(rand.NewSource(1)))
	fb := render.NewFramebuffer(64, 48)
	backend := render.NewSoftwareBackend(fb, p)
	v := render.NewView(w.NewPlayer(math.Pi/2, math.Pi/3), fb.Width, fb.Height)
	if _, err := render.NewRenderer(w, backend, render.Options{}).RenderFrame(v); err != nil {
		t.Fatal(err)
	}
	if backend.Stats.Pixels == 0 {
		t.Errorf("nothing drawn: %+v", backend.Stats)
	}
}
