package assets

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/render"
)

// Provider defaults
const (
	DefaultCacheSize = 64 << 20
	ShadingLevels    = 32
)

// Options configures a Provider.
type Options struct {
	// CacheSize bounds the bytes of bitmap data kept in the evicting cache.
	// Bitmaps the cache refuses are pinned instead.
	CacheSize int64
	// Workers bounds concurrent loads. Zero means GOMAXPROCS.
	Workers int
}

// Provider implements render.TextureSource on top of a Loader. Bitmap
// never blocks: a descriptor that is not cached starts a background load
// and reports nil until it lands. Failed descriptors stay nil. Bitmaps the
// cache will not admit are pinned so they are loaded only once.
type Provider struct {
	loader  Loader
	bitmaps *ristretto.Cache[uint32, *render.Bitmap]
	tables  *ristretto.Cache[uint32, *render.ShadingTables]
	group   singleflight.Group
	sem     chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending map[mapdata.ShapeDescriptor]bool
	failed  map[mapdata.ShapeDescriptor]error
	pinned  map[mapdata.ShapeDescriptor]*render.Bitmap
}

var _ render.TextureSource = (*Provider)(nil)

// NewProvider creates a provider reading through loader.
func NewProvider(loader Loader, opts Options) (*Provider, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	bitmaps, err := ristretto.NewCache(&ristretto.Config[uint32, *render.Bitmap]{
		NumCounters: 1 << 14,
		MaxCost:     opts.CacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("bitmap cache: %w", err)
	}
	tables, err := ristretto.NewCache(&ristretto.Config[uint32, *render.ShadingTables]{
		NumCounters: 1 << 10,
		MaxCost:     1 << 8,
		BufferItems: 64,
		// One unit per table; there are at most 32 collections × 8 cluts.
		IgnoreInternalCost: true,
	})
	if err != nil {
		bitmaps.Close()
		return nil, fmt.Errorf("shading cache: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Provider{
		loader:  loader,
		bitmaps: bitmaps,
		tables:  tables,
		sem:     make(chan struct{}, opts.Workers),
		ctx:     ctx,
		cancel:  cancel,
		pending: make(map[mapdata.ShapeDescriptor]bool),
		failed:  make(map[mapdata.ShapeDescriptor]error),
		pinned:  make(map[mapdata.ShapeDescriptor]*render.Bitmap),
	}, nil
}

// Bitmap returns the cached bitmap for d, or nil while it is loading.
func (p *Provider) Bitmap(d mapdata.ShapeDescriptor) *render.Bitmap {
	if !d.Valid() {
		return nil
	}
	if b, ok := p.bitmaps.Get(uint32(d)); ok {
		return b
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if b := p.pinned[d]; b != nil {
		return b
	}
	if p.pending[d] || p.failed[d] != nil || p.ctx.Err() != nil {
		return nil
	}
	p.pending[d] = true
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case p.sem <- struct{}{}:
		case <-p.ctx.Done():
			p.done(d)
			return
		}
		defer func() { <-p.sem }()
		_, _ = p.load(p.ctx, d)
		p.done(d)
	}()
	return nil
}

func (p *Provider) done(d mapdata.ShapeDescriptor) {
	p.mu.Lock()
	delete(p.pending, d)
	p.mu.Unlock()
}

// load fetches d once no matter how many callers ask at the same time.
func (p *Provider) load(ctx context.Context, d mapdata.ShapeDescriptor) (*render.Bitmap, error) {
	v, err, _ := p.group.Do(strconv.Itoa(int(d)), func() (any, error) {
		if b := p.cached(d); b != nil {
			return b, nil
		}
		b, err := p.loader.LoadBitmap(ctx, d)
		if err != nil {
			if ctx.Err() == nil {
				p.mu.Lock()
				p.failed[d] = err
				p.mu.Unlock()
				logger().WithError(err).WithField("texture", d.String()).Warn("texture load failed")
			}
			return nil, err
		}
		p.store(d, b)
		logger().WithFields(logrus.Fields{
			"texture": d.String(),
			"width":   b.Width,
			"height":  b.Height,
		}).Debug("texture ready")
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*render.Bitmap), nil
}

func (p *Provider) cached(d mapdata.ShapeDescriptor) *render.Bitmap {
	if b, ok := p.bitmaps.Get(uint32(d)); ok {
		return b
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pinned[d]
}

// store caches b. A bitmap the cache drops, because it costs more than the
// whole cache or loses admission, is pinned instead of being loaded again
// on every frame.
func (p *Provider) store(d mapdata.ShapeDescriptor, b *render.Bitmap) {
	cost := int64(len(b.Pixels))
	if p.bitmaps.Set(uint32(d), b, cost) {
		p.bitmaps.Wait()
		if _, ok := p.bitmaps.Get(uint32(d)); ok {
			return
		}
	}
	p.mu.Lock()
	p.pinned[d] = b
	n := len(p.pinned)
	p.mu.Unlock()
	logger().WithFields(logrus.Fields{
		"texture": d.String(),
		"bytes":   cost,
		"pinned":  n,
	}).Warn("texture cache refused bitmap, pinned")
}

// Pinned returns the number of bitmaps held outside the cache.
func (p *Provider) Pinned() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pinned)
}

// ShadingTables returns the tables for d's collection and colour table,
// building them on first use.
func (p *Provider) ShadingTables(d mapdata.ShapeDescriptor) *render.ShadingTables {
	if !d.Valid() {
		return nil
	}
	key := uint32(d.Collection()<<3 | d.CLUT())
	if t, ok := p.tables.Get(key); ok {
		return t
	}
	t := render.NewShadingTables(Palette(d.CLUT()), ShadingLevels)
	p.tables.Set(key, t, 1)
	p.tables.Wait()
	return t
}

// Preload loads every descriptor in descs and blocks until all are cached.
// It returns the first load error.
func (p *Provider) Preload(ctx context.Context, descs []mapdata.ShapeDescriptor) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cap(p.sem))
	for _, d := range descs {
		if !d.Valid() {
			continue
		}
		g.Go(func() error {
			if _, err := p.load(gctx, d); err != nil {
				return fmt.Errorf("load %s: %w", d, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Err returns the load error recorded for d, if any.
func (p *Provider) Err(d mapdata.ShapeDescriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed[d]
}

// Wait blocks until every background load started by Bitmap has finished.
func (p *Provider) Wait() {
	p.wg.Wait()
}

// Close cancels outstanding loads and releases the caches.
func (p *Provider) Close() {
	p.cancel()
	p.wg.Wait()
	p.bitmaps.Close()
	p.tables.Close()
	p.mu.Lock()
	clear(p.pinned)
	p.mu.Unlock()
}
