package render

import (
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// DefaultFlushThreshold is the number of entries a DrawList collects before
// handing them to the backend.
const DefaultFlushThreshold = 256

// EntryKind selects how a backend scans an entry.
type EntryKind int

const (
	WallEntry       EntryKind = iota // Vertical surface, scanned by columns
	HorizontalEntry                  // Floor, ceiling or liquid, scanned by rows
)

func (k EntryKind) String() string {
	if k == WallEntry {
		return "wall"
	}
	return "horizontal"
}

// Vertex is a clipped polygon corner: its view-space position and texture
// coordinate in texture repeats.
type Vertex struct {
	Pos math3d.Vec3
	Tex math3d.Vec2
}

// DrawEntry is one textured convex polygon ready for a backend. Entries
// with fewer than three vertices draw nothing. Clip bounds the entry on
// screen when Scissored is set, so an empty Clip then draws nothing;
// unscissored entries may cover the whole view.
type DrawEntry struct {
	Kind        EntryKind
	Vertices    []Vertex
	Texture     mapdata.ShapeDescriptor
	Brightness  float64
	Transfer    mapdata.TransferMode
	Transparent bool
	Clip        ScreenRect
	Scissored   bool

	// Where the entry came from in the map.
	Surface mapdata.Surface
	Bottom  float64
	Top     float64
}

// Drawable reports whether the entry has any area.
func (e *DrawEntry) Drawable() bool {
	return len(e.Vertices) >= 3
}

// Backend consumes draw lists. Entries arrive back to front; later entries
// overwrite earlier ones. Draw must not keep the slice after it returns.
type Backend interface {
	BeginFrame(v *View)
	Draw(entries []DrawEntry)
	EndFrame() error
}

// Stats describes one rendered frame.
type Stats struct {
	Polygons int // Polygons visited
	Portals  int // Portals recursed through
	Entries  int // Draw entries emitted
	Flushes  int // Draw calls made on the backend
}

// DrawList buffers entries and hands them to a backend in batches.
type DrawList struct {
	backend   Backend
	threshold int
	entries   []DrawEntry
	stats     *Stats
}

// NewDrawList creates a list flushing to backend every threshold entries.
// A threshold below one uses DefaultFlushThreshold.
func NewDrawList(backend Backend, threshold int, stats *Stats) *DrawList {
	if threshold < 1 {
		threshold = DefaultFlushThreshold
	}
	if stats == nil {
		stats = &Stats{}
	}
	return &DrawList{
		backend:   backend,
		threshold: threshold,
		entries:   make([]DrawEntry, 0, threshold),
		stats:     stats,
	}
}

// Add appends e, flushing when the list is full.
func (l *DrawList) Add(e DrawEntry) {
	l.entries = append(l.entries, e)
	l.stats.Entries++
	if len(l.entries) >= l.threshold {
		l.Flush()
	}
}

// Len returns the number of buffered entries.
func (l *DrawList) Len() int {
	return len(l.entries)
}

// Flush sends the buffered entries to the backend.
func (l *DrawList) Flush() {
	if len(l.entries) == 0 {
		return
	}
	l.backend.Draw(l.entries)
	l.stats.Flushes++
	clear(l.entries)
	l.entries = l.entries[:0]
}
