package input

import (
	"github.com/fredlinhares/bkge-import-mesh/types"
)

// A surface material referenced by one or more meshes. Diffuse is nil when
// the source file defines the material without a diffuse color entry.
type Material struct {
	Name    string
	Diffuse *types.Vec3
}

// A polygon defined as an ordered list of indices into the local vertex
// list of the mesh that owns it.
type Face struct {
	Indices []uint32
}

// A mesh groups the geometry that shares a single material. Vertex
// attributes are stored as parallel lists; Normals and UVs may be empty
// when the source file does not define them.
type Mesh struct {
	Name          string
	Vertices      []types.Vec3
	Normals       []types.Vec3
	UVs           []types.Vec2
	Faces         []Face
	MaterialIndex int
}

// Create a new mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:          name,
		MaterialIndex: -1,
	}
}

// Returns true if the mesh defines per-vertex normals.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// Returns true if the mesh defines a primary UV channel.
func (m *Mesh) HasUVs() bool {
	return len(m.UVs) > 0
}

// The scene contains all elements produced by an importer and consumed by
// the flattener.
type Scene struct {
	Meshes    []*Mesh
	Materials []*Material
}

// Create a new scene.
func NewScene() *Scene {
	return &Scene{
		Meshes:    make([]*Mesh, 0),
		Materials: make([]*Material, 0),
	}
}

// Lookup a material by index. Returns nil when the index does not resolve
// to a material table entry.
func (sc *Scene) Material(index int) *Material {
	if index < 0 || index >= len(sc.Materials) {
		return nil
	}
	return sc.Materials[index]
}
