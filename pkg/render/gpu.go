package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/sirupsen/logrus"

	"github.com/taigrr/pfhor/pkg/mapdata"
)

// gpuVertexStride is the byte stride per vertex.
// Layout per vertex:
//
//	clip position (vec4<f32>) = 16 bytes (location 0)
//	texcoord      (vec2<f32>) = 8 bytes  (location 1)
//	brightness    (f32)       = 4 bytes  (location 2)
//	tint          (vec4<f32>) = 16 bytes (location 3)
//
// Total = 44 bytes per vertex.
const gpuVertexStride = 44

// DefaultMaxGPUVertices is the vertex capacity of one submission.
const DefaultMaxGPUVertices = 1 << 16

// ErrDeviceLost is returned by devices that can no longer accept work.
var ErrDeviceLost = errors.New("render: gpu device lost")

// DrawCall is a run of triangles sharing one texture and transfer mode.
type DrawCall struct {
	Texture     mapdata.ShapeDescriptor
	Transfer    mapdata.TransferMode
	Transparent bool
	FirstVertex uint32
	VertexCount uint32
	Scissor     ScreenRect
}

// Device accepts packed vertex data and the draw calls that index it. The
// vertex slice is only valid for the duration of the call.
type Device interface {
	Submit(vertices []byte, calls []DrawCall) error
}

// GPUVertex is one decoded vertex of a submission.
type GPUVertex struct {
	Clip       [4]float32
	Tex        [2]float32
	Brightness float32
	Tint       [4]float32
}

// DecodeVertex reads vertex i from packed vertex data.
func DecodeVertex(buf []byte, i int) GPUVertex {
	b := buf[i*gpuVertexStride : (i+1)*gpuVertexStride]
	f := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
	}
	return GPUVertex{
		Clip:       [4]float32{f(0), f(4), f(8), f(12)},
		Tex:        [2]float32{f(16), f(20)},
		Brightness: f(24),
		Tint:       [4]float32{f(28), f(32), f(36), f(40)},
	}
}

// VertexLayout describes the vertex buffer for pipeline creation.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: gpuVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32, Offset: 24, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 28, ShaderLocation: 3},
			},
		},
	}
}

// PrimitiveState describes how submitted vertices are assembled. Polygons
// arrive back to front in any winding, so nothing is culled.
func PrimitiveState() gputypes.PrimitiveState {
	return gputypes.PrimitiveState{
		Topology: gputypes.PrimitiveTopologyTriangleList,
		CullMode: gputypes.CullModeNone,
	}
}

// ColorTargets describes the render target. Transparent texels are
// discarded in the shader so premultiplied blending is sufficient.
func ColorTargets() []gputypes.ColorTargetState {
	blend := gputypes.BlendStatePremultiplied()
	return []gputypes.ColorTargetState{
		{
			Format:    gputypes.TextureFormatRGBA8Unorm,
			Blend:     &blend,
			WriteMask: gputypes.ColorWriteMaskAll,
		},
	}
}

// VertexBufferUsage is the usage the host should create the vertex buffer
// with.
var VertexBufferUsage = gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst

// GPUStats counts the work handed to the device in one frame.
type GPUStats struct {
	Submits  int
	Calls    int
	Vertices int
	Dropped  int // Entries too large for one submission
}

// GPUBackend fan-triangulates entries into a vertex buffer and batches
// consecutive entries with the same texture into one draw call.
type GPUBackend struct {
	// Highlight, when set, is tinted with HighlightTint.
	Highlight     *mapdata.Surface
	HighlightTint [4]float32
	Fade          DepthFade
	Stats         GPUStats

	device      Device
	textures    TextureSource
	maxVertices int
	view        *View

	buf   []byte
	calls []DrawCall
	err   error
}

// NewGPUBackend creates a backend submitting to device. When src is not
// nil, entries whose textures are not loaded yet are skipped.
func NewGPUBackend(device Device, src TextureSource, maxVertices int) *GPUBackend {
	if maxVertices < 3 {
		maxVertices = DefaultMaxGPUVertices
	}
	return &GPUBackend{
		HighlightTint: [4]float32{1, 0.5, 0.5, 1},
		Fade:          DefaultDepthFade,
		device:        device,
		textures:      src,
		maxVertices:   maxVertices,
	}
}

// BeginFrame resets the batch.
func (g *GPUBackend) BeginFrame(v *View) {
	g.view = v
	g.Stats = GPUStats{}
	g.err = nil
	g.buf = g.buf[:0]
	g.calls = g.calls[:0]
}

// Draw appends entries to the current batch.
func (g *GPUBackend) Draw(entries []DrawEntry) {
	for i := range entries {
		g.drawEntry(&entries[i])
	}
}

// EndFrame submits what is left of the batch and reports the first
// submission error of the frame.
func (g *GPUBackend) EndFrame() error {
	g.flush()
	return g.err
}

func (g *GPUBackend) vertexCount() int {
	return len(g.buf) / gpuVertexStride
}

func (g *GPUBackend) drawEntry(e *DrawEntry) {
	if !e.Drawable() || g.view == nil {
		return
	}
	if g.textures != nil && (g.textures.Bitmap(e.Texture) == nil || g.textures.ShadingTables(e.Texture) == nil) {
		return
	}

	scissor := ScreenRect{X1: g.view.Width, Y1: g.view.Height}
	if e.Scissored {
		if scissor = e.Clip.Intersect(scissor); scissor.Empty() {
			return
		}
	}

	n := 3 * (len(e.Vertices) - 2)
	if n > g.maxVertices {
		g.Stats.Dropped++
		logger().WithFields(logrus.Fields{
			"surface":  e.Surface.String(),
			"vertices": n,
			"capacity": g.maxVertices,
		}).Warn("draw entry exceeds gpu batch capacity")
		return
	}
	if g.vertexCount()+n > g.maxVertices {
		g.flush()
	}

	first := uint32(g.vertexCount())
	g.buf = slices.Grow(g.buf, n*gpuVertexStride)

	landscape := e.Transfer == mapdata.Landscape
	tint := [4]float32{1, 1, 1, 1}
	if g.Highlight != nil && *g.Highlight == e.Surface {
		tint = g.HighlightTint
	}
	for i := 1; i+1 < len(e.Vertices); i++ {
		for _, v := range [3]Vertex{e.Vertices[0], e.Vertices[i], e.Vertices[i+1]} {
			brightness := float32(1)
			if !landscape {
				brightness = float32(e.Brightness - g.Fade.At(v.Pos.Z))
			}
			g.appendVertex(v, brightness, tint)
		}
	}

	if k := len(g.calls) - 1; k >= 0 && g.calls[k].Texture == e.Texture &&
		g.calls[k].Transfer == e.Transfer && g.calls[k].Transparent == e.Transparent {
		g.calls[k].VertexCount += uint32(n)
		g.calls[k].Scissor = union(g.calls[k].Scissor, scissor)
		return
	}
	g.calls = append(g.calls, DrawCall{
		Texture:     e.Texture,
		Transfer:    e.Transfer,
		Transparent: e.Transparent,
		FirstVertex: first,
		VertexCount: uint32(n),
		Scissor:     scissor,
	})
}

// appendVertex packs v with its clip-space position.
func (g *GPUBackend) appendVertex(v Vertex, brightness float32, tint [4]float32) {
	clip := g.view.Clip().MulVec4(v.Pos.Vec4(1)).Float32()

	var b [gpuVertexStride]byte
	put := func(off int, f float32) {
		binary.LittleEndian.PutUint32(b[off:off+4], math.Float32bits(f))
	}
	for i, c := range clip {
		put(4*i, c)
	}
	put(16, float32(v.Tex.X))
	put(20, float32(v.Tex.Y))
	put(24, brightness)
	for i, c := range tint {
		put(28+4*i, c)
	}
	g.buf = append(g.buf, b[:]...)
}

func (g *GPUBackend) flush() {
	if len(g.calls) == 0 {
		return
	}
	g.Stats.Submits++
	g.Stats.Calls += len(g.calls)
	g.Stats.Vertices += g.vertexCount()
	if err := g.device.Submit(g.buf, g.calls); err != nil && g.err == nil {
		g.err = fmt.Errorf("submit %d draw calls: %w", len(g.calls), err)
	}
	g.buf = g.buf[:0]
	g.calls = g.calls[:0]
}

func union(a, b ScreenRect) ScreenRect {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	return ScreenRect{
		X0: min(a.X0, b.X0), Y0: min(a.Y0, b.Y0),
		X1: max(a.X1, b.X1), Y1: max(a.Y1, b.Y1),
	}
}

// Submission is one batch received by a RecordingDevice.
type Submission struct {
	Vertices []byte
	Calls    []DrawCall
}

// RecordingDevice keeps every submission in memory.
type RecordingDevice struct {
	Submissions []Submission
	// Fail, when set, is returned from every Submit.
	Fail error
}

// Submit records a copy of the batch.
func (d *RecordingDevice) Submit(vertices []byte, calls []DrawCall) error {
	if d.Fail != nil {
		return d.Fail
	}
	d.Submissions = append(d.Submissions, Submission{
		Vertices: slices.Clone(vertices),
		Calls:    slices.Clone(calls),
	})
	return nil
}

// Reset forgets all submissions.
func (d *RecordingDevice) Reset() {
	d.Submissions = d.Submissions[:0]
}

// Calls returns the draw calls of every submission in order.
func (d *RecordingDevice) Calls() []DrawCall {
	var out []DrawCall
	for _, s := range d.Submissions {
		out = append(out, s.Calls...)
	}
	return out
}
