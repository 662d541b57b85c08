// Package models turns levels into triangle meshes and moves them in and
// out of glTF.
package models

import (
	"slices"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// Mesh is an indexed triangle soup. Level meshes never share vertices
// between surfaces, so each vertex carries the normal of its surface.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Axis-aligned bounds, kept current by builders and Transform.
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex is one corner of a surface.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2 // In texture repeats
}

// Face is a counter-clockwise triangle seen from the side its normal points
// to. Surface records the level surface the triangle was cut from; it is
// the zero Surface for meshes read from files.
type Face struct {
	V        [3]int // Into Mesh.Vertices
	Material int    // Into Mesh.Materials, -1 when untextured
	Surface  mapdata.Surface
}

// Material is one texture of the level.
type Material struct {
	Name     string
	Texture  mapdata.ShapeDescriptor
	Transfer mapdata.TransferMode
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds recomputes BoundsMin and BoundsMax. An empty mesh keeps
// its old bounds.
func (m *Mesh) CalculateBounds() {
	for i, v := range m.Vertices {
		if i == 0 {
			m.BoundsMin, m.BoundsMax = v.Position, v.Position
			continue
		}
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Size returns the extent of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int { return len(m.Faces) }

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int { return len(m.Materials) }

// GetMaterial returns material i, or nil when i is out of range (including
// the -1 of untextured faces).
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// CalculateNormals sets every vertex normal from the winding of its face.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		p0 := m.Vertices[f.V[0]].Position
		n := m.Vertices[f.V[1]].Position.Sub(p0).
			Cross(m.Vertices[f.V[2]].Position.Sub(p0)).
			Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// Transform applies mat to positions and normals and refreshes the bounds.
// mat must not shear, or normals lose their meaning.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		v.Normal = mat.MulVec3Dir(v.Normal).Normalize()
	}
	m.CalculateBounds()
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = slices.Clone(m.Vertices)
	c.Faces = slices.Clone(m.Faces)
	c.Materials = slices.Clone(m.Materials)
	return &c
}

// materialFor returns the index of the material for tex, adding it when
// new. Empty slots get no material.
func (m *Mesh) materialFor(tex mapdata.SurfaceTexture) int {
	if !tex.Texture.Valid() {
		return -1
	}
	for i, mat := range m.Materials {
		if mat.Texture == tex.Texture && mat.Transfer == tex.Transfer {
			return i
		}
	}
	m.Materials = append(m.Materials, Material{
		Name:     materialName(tex.Texture, tex.Transfer),
		Texture:  tex.Texture,
		Transfer: tex.Transfer,
	})
	return len(m.Materials) - 1
}

// addFan appends a convex polygon as a triangle fan sharing one normal.
func (m *Mesh) addFan(verts []MeshVertex, material int, s mapdata.Surface) {
	if len(verts) < 3 {
		return
	}
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, verts...)
	for i := 1; i+1 < len(verts); i++ {
		m.Faces = append(m.Faces, Face{
			V:        [3]int{base, base + i, base + i + 1},
			Material: material,
			Surface:  s,
		})
	}
}
