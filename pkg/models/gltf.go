package models

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/math3d"
)

// toGLTF maps map units, Z up, to meters-per-world-unit, Y up.
var toGLTF = math3d.RotateX(-math.Pi / 2).Mul(math3d.UniformScale(1.0 / mapdata.WorldUnit))

// fromGLTF undoes toGLTF.
var fromGLTF = toGLTF.Inverse()

func materialName(tex mapdata.ShapeDescriptor, transfer mapdata.TransferMode) string {
	if transfer == mapdata.Normal {
		return tex.String()
	}
	return tex.String() + " " + transfer.String()
}

// parseMaterialName reverses materialName. Names written by other tools
// come back as an empty slot.
func parseMaterialName(name string) (mapdata.ShapeDescriptor, mapdata.TransferMode) {
	desc, mode, _ := strings.Cut(name, " ")
	var collection, clut, bitmap int
	if n, err := fmt.Sscanf(desc, "%d/%d/%d", &collection, &clut, &bitmap); err != nil || n != 3 {
		return mapdata.NoTexture, mapdata.Normal
	}
	transfer := mapdata.Normal
	for t := mapdata.Normal; t <= mapdata.FastHorizontalSlide; t++ {
		if t.String() == mode {
			transfer = t
		}
	}
	return mapdata.NewShapeDescriptor(collection, clut, bitmap), transfer
}

// Document converts mesh into a glTF document with one primitive per
// material. Faces without a material share an untextured primitive.
func Document(mesh *Mesh) *gltf.Document {
	out := mesh.Clone()
	out.Transform(toGLTF)

	doc := gltf.NewDocument()
	for _, mat := range out.Materials {
		doc.Materials = append(doc.Materials, &gltf.Material{Name: mat.Name})
	}

	groups := make(map[int][]Face)
	order := []int{}
	for _, f := range out.Faces {
		if _, ok := groups[f.Material]; !ok {
			order = append(order, f.Material)
		}
		groups[f.Material] = append(groups[f.Material], f)
	}

	gm := &gltf.Mesh{Name: out.Name}
	for _, mat := range order {
		gm.Primitives = append(gm.Primitives, writePrimitive(doc, out, groups[mat], mat))
	}
	doc.Meshes = append(doc.Meshes, gm)
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: out.Name, Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func writePrimitive(doc *gltf.Document, mesh *Mesh, faces []Face, material int) *gltf.Primitive {
	remap := make(map[int]uint32)
	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		indices   []uint32
	)
	for _, f := range faces {
		for _, vi := range f.V {
			idx, ok := remap[vi]
			if !ok {
				v := mesh.Vertices[vi]
				idx = uint32(len(positions))
				remap[vi] = idx
				positions = append(positions, vec3f(v.Position))
				normals = append(normals, vec3f(v.Normal))
				uvs = append(uvs, [2]float32{float32(v.UV.X), float32(v.UV.Y)})
			}
			indices = append(indices, idx)
		}
	}

	prim := &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: map[string]int{
			gltf.POSITION:   modeler.WritePosition(doc, positions),
			gltf.NORMAL:     modeler.WriteNormal(doc, normals),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		},
	}
	if material >= 0 {
		prim.Material = gltf.Index(material)
	}
	return prim
}

func vec3f(v math3d.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// SaveGLB writes mesh to path as a binary glTF file.
func SaveGLB(mesh *Mesh, path string) error {
	if err := gltf.SaveBinary(Document(mesh), path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	logger().WithField("path", path).WithField("triangles", mesh.TriangleCount()).Info("exported level")
	return nil
}

// GLTFLoader loads GLTF/GLB files into Mesh format, back in map units with
// Z up.
type GLTFLoader struct {
	// CalculateNormals fills in flat normals for files without them.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := l.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	if mesh.Name == "" {
		mesh.Name = filepath.Base(path)
	}
	return mesh, nil
}

// FromDocument converts every mesh in doc into one Mesh.
func (l *GLTFLoader) FromDocument(doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh("")
	for _, mat := range doc.Materials {
		tex, transfer := parseMaterialName(mat.Name)
		mesh.Materials = append(mesh.Materials, Material{Name: mat.Name, Texture: tex, Transfer: transfer})
	}
	for _, m := range doc.Meshes {
		if mesh.Name == "" {
			mesh.Name = m.Name
		}
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if l.CalculateNormals && !hasNormals {
		mesh.CalculateNormals()
	}

	mesh.Transform(fromGLTF)
	return mesh, nil
}

// processMesh appends the triangle primitives of m to mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readAccessor(doc, posIdx, modeler.ReadPosition)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readAccessor(doc, idx, modeler.ReadNormal); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readAccessor(doc, idx, modeler.ReadTextureCoord); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			if i < len(uvs) {
				v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = readAccessor(doc, *prim.Indices, modeler.ReadIndices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}
		for i := 0; i+2 < len(indices); i += 3 {
			var f Face
			for j, idx := range indices[i : i+3] {
				if int(idx) >= len(positions) {
					return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
				}
				f.V[j] = base + int(idx)
			}
			f.Material = material
			mesh.Faces = append(mesh.Faces, f)
		}
	}
	return nil
}

// readAccessor decodes accessor i of doc with one of the modeler readers.
func readAccessor[T any](doc *gltf.Document, i int, read func(*gltf.Document, *gltf.Accessor, T) (T, error)) (T, error) {
	var buf T
	if i < 0 || i >= len(doc.Accessors) {
		return buf, fmt.Errorf("accessor %d out of range", i)
	}
	return read(doc, doc.Accessors[i], buf)
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}
