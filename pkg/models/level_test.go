package models

import (
	"math"
	"math/rand"
	"testing"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
	"github.com/taigrr/pfhor/pkg/world"
)

const wu = mapdata.WorldUnit

var (
	wallTexture  = mapdata.NewShapeDescriptor(mapdata.WallCollection, 0, 0)
	floorTexture = mapdata.NewShapeDescriptor(mapdata.FloorCollection, 0, 0)
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func v2(x, y float64) math3d.Vec2 {
	return math3d.V2(x*wu, y*wu)
}

func square(x0, y0 float64) []math3d.Vec2 {
	return []math3d.Vec2{v2(x0, y0), v2(x0+1, y0), v2(x0+1, y0+1), v2(x0, y0+1)}
}

func room(verts []math3d.Vec2, floor, ceiling float64) mapdata.Room {
	return mapdata.Room{
		Vertices:       verts,
		Floor:          floor,
		Ceiling:        ceiling,
		FloorTexture:   mapdata.SurfaceTexture{Texture: floorTexture, Light: mapdata.None},
		CeilingTexture: mapdata.Blank(mapdata.None),
		WallTexture:    mapdata.SurfaceTexture{Texture: wallTexture, Light: mapdata.None},
		Media:          mapdata.None,
	}
}

func buildWorld(t testing.TB, rooms ...mapdata.Room) *world.World {
	t.Helper()
	b := mapdata.NewBuilder("test")
	for _, r := range rooms {
		b.Room(r)
	}
	b.Start(0, v2(0.5, 0.5), 0)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return world.New(m, rand.New(rand.NewSource(1)))
}

func TestFromWorldSquareRoom(t *testing.T) {
	mesh := FromWorld(buildWorld(t, room(square(0, 0), 0, wu)))

	if got := mesh.TriangleCount(); got != 12 {
		t.Errorf("triangles = %d, want 12", got)
	}
	if got := mesh.MaterialCount(); got != 2 {
		t.Errorf("materials = %d, want 2 (wall, floor)", got)
	}
	if mesh.BoundsMin != math3d.V3(0, 0, 0) || mesh.BoundsMax != math3d.V3(wu, wu, wu) {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}

	center := math3d.V3(wu/2, wu/2, wu/2)
	for i, f := range mesh.Faces {
		v0 := mesh.Vertices[f.V[0]]
		a := mesh.Vertices[f.V[1]].Position.Sub(v0.Position)
		b := mesh.Vertices[f.V[2]].Position.Sub(v0.Position)
		geometric := a.Cross(b)
		if geometric.Dot(v0.Normal) <= 0 {
			t.Errorf("face %d (%v) winding disagrees with its normal", i, f.Surface)
		}
		if center.Sub(v0.Position).Dot(v0.Normal) <= 0 {
			t.Errorf("face %d (%v) faces away from the room", i, f.Surface)
		}
		if f.Surface.Kind == mapdata.HorizontalSurfaceKind && f.Surface.Slot == mapdata.Ceiling && f.Material != -1 {
			t.Errorf("untextured ceiling got material %d", f.Material)
		}
	}
}

func TestFromWorldStepCeiling(t *testing.T) {
	mesh := FromWorld(buildWorld(t,
		room(square(0, 0), 0, 2*wu),
		room(square(1, 0), 0, wu),
	))
	if got := mesh.TriangleCount(); got != 22 {
		t.Errorf("triangles = %d, want 22", got)
	}
	found := false
	for _, f := range mesh.Faces {
		s := f.Surface
		if !s.IsWall() || s.Polygon != 0 {
			continue
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, vi := range f.V {
			z := mesh.Vertices[vi].Position.Z
			lo, hi = min(lo, z), max(hi, z)
		}
		if lo == wu && hi == 2*wu {
			found = true
		}
	}
	if !found {
		t.Error("no wall band above the portal")
	}
}

func TestWallQuadTexCoords(t *testing.T) {
	slice := mapdata.WallSlice{Slot: mapdata.Primary, Bottom: 0, Top: wu}
	tex := mapdata.SurfaceTexture{Texture: wallTexture, Offset: math3d.V2(wu/2, 0)}
	quad := wallQuad(v2(0, 0), v2(2, 0), slice, 2*wu, tex)
	if len(quad) != 4 {
		t.Fatalf("quad has %d vertices", len(quad))
	}
	if !near(quad[0].UV.X, 0.5) || !near(quad[3].UV.X, 2.5) {
		t.Errorf("u = %v..%v, want 0.5..2.5", quad[0].UV.X, quad[3].UV.X)
	}
	if !near(quad[1].UV.Y, 1) || !near(quad[0].UV.Y, 2) {
		t.Errorf("v = %v..%v, want 1..2", quad[1].UV.Y, quad[0].UV.Y)
	}
	if quad[0].Normal != math3d.V3(0, 1, 0) {
		t.Errorf("normal = %v, want (0, 1, 0)", quad[0].Normal)
	}
}

func TestFromWorldDemo(t *testing.T) {
	w := world.New(mapdata.Demo(), rand.New(rand.NewSource(1)))
	mesh := FromWorld(w)
	if mesh.TriangleCount() == 0 || mesh.MaterialCount() == 0 {
		t.Fatalf("empty demo mesh: %d triangles, %d materials", mesh.TriangleCount(), mesh.MaterialCount())
	}
	for i, f := range mesh.Faces {
		for _, vi := range f.V {
			if vi < 0 || vi >= mesh.VertexCount() {
				t.Fatalf("face %d index %d out of range", i, vi)
			}
		}
	}
}

func TestMeshCloneIndependent(t *testing.T) {
	mesh := FromWorld(buildWorld(t, room(square(0, 0), 0, wu)))
	clone := mesh.Clone()
	clone.Vertices[0].Position = math3d.V3(-1, -1, -1)
	clone.Materials[0].Name = "changed"
	if mesh.Vertices[0].Position == clone.Vertices[0].Position {
		t.Error("clone shares vertices")
	}
	if mesh.Materials[0].Name == "changed" {
		t.Error("clone shares materials")
	}
	if mesh.GetMaterial(-1) != nil || mesh.GetMaterial(mesh.MaterialCount()) != nil {
		t.Error("out of range material should be nil")
	}
}

func TestMeshTransform(t *testing.T) {
	mesh := FromWorld(buildWorld(t, room(square(0, 0), 0, wu)))
	mesh.Transform(math3d.Translate(math3d.V3(10, 0, 0)))
	if !near(mesh.BoundsMin.X, 10) || !near(mesh.BoundsMax.X, 10+wu) {
		t.Errorf("bounds after translate: %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
	if got := mesh.Size(); got.Distance(math3d.V3(wu, wu, wu)) > 1e-9 {
		t.Errorf("size = %v", got)
	}
}

func TestCalculateNormals(t *testing.T) {
	mesh := NewMesh("tri")
	mesh.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 1, 0)},
	}
	mesh.Faces = []Face{{V: [3]int{0, 1, 2}, Material: -1}}
	mesh.CalculateNormals()
	for i, v := range mesh.Vertices {
		if v.Normal != math3d.V3(0, 0, 1) {
			t.Errorf("vertex %d normal = %v", i, v.Normal)
		}
	}
}
