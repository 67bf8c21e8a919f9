package importer

import (
	"sort"

	"github.com/fredlinhares/bkge-import-mesh/asset/compiler/input"
	"github.com/fredlinhares/bkge-import-mesh/log"
	"github.com/fredlinhares/bkge-import-mesh/types"
)

var ppLogger = log.New("importer")

// Apply the enabled post-process steps to every mesh in the scene.
func (flags PostProcess) apply(sc *input.Scene) {
	for _, mesh := range sc.Meshes {
		if flags&Triangulate != 0 {
			if split := triangulate(mesh); split > 0 {
				ppLogger.Infof("mesh %q: triangulated %d polygons", mesh.Name, split)
			}
		}
		if flags&JoinIdenticalVertices != 0 {
			if joined := joinIdenticalVertices(mesh); joined > 0 {
				ppLogger.Infof("mesh %q: joined %d identical vertices", mesh.Name, joined)
			}
		}
		if flags&SortByPType != 0 {
			sortFacesByType(mesh)
		}
	}
}

// Split polygons with more than 3 corners into a fan of triangles anchored
// at the first corner. Faces with fewer than 3 corners pass through
// unchanged; downstream stages drop them.
func triangulate(mesh *input.Mesh) int {
	split := 0
	faces := make([]input.Face, 0, len(mesh.Faces))
	for _, face := range mesh.Faces {
		if len(face.Indices) <= 3 {
			faces = append(faces, face)
			continue
		}

		split++
		for corner := 1; corner+1 < len(face.Indices); corner++ {
			faces = append(faces, input.Face{
				Indices: []uint32{face.Indices[0], face.Indices[corner], face.Indices[corner+1]},
			})
		}
	}
	mesh.Faces = faces
	return split
}

type vertexKey struct {
	position types.Vec3
	normal   types.Vec3
	uv       types.Vec2
}

// Merge vertices with identical position/normal/uv attributes into a
// single pooled vertex and remap the mesh faces. Returns the number of
// vertices that were removed.
func joinIdenticalVertices(mesh *input.Mesh) int {
	keyToIndex := make(map[vertexKey]uint32, len(mesh.Vertices))
	remap := make([]uint32, len(mesh.Vertices))

	vertices := make([]types.Vec3, 0, len(mesh.Vertices))
	normals := make([]types.Vec3, 0, len(mesh.Normals))
	uvs := make([]types.Vec2, 0, len(mesh.UVs))

	for index, pos := range mesh.Vertices {
		key := vertexKey{position: pos}
		if mesh.HasNormals() {
			key.normal = mesh.Normals[index]
		}
		if mesh.HasUVs() {
			key.uv = mesh.UVs[index]
		}

		joinedIndex, exists := keyToIndex[key]
		if !exists {
			joinedIndex = uint32(len(vertices))
			keyToIndex[key] = joinedIndex
			vertices = append(vertices, pos)
			if mesh.HasNormals() {
				normals = append(normals, mesh.Normals[index])
			}
			if mesh.HasUVs() {
				uvs = append(uvs, mesh.UVs[index])
			}
		}
		remap[index] = joinedIndex
	}

	joined := len(mesh.Vertices) - len(vertices)
	if joined == 0 {
		return 0
	}

	mesh.Vertices = vertices
	if mesh.HasNormals() {
		mesh.Normals = normals
	}
	if mesh.HasUVs() {
		mesh.UVs = uvs
	}
	for _, face := range mesh.Faces {
		for i, index := range face.Indices {
			face.Indices[i] = remap[index]
		}
	}
	return joined
}

// Stable-sort faces so triangles precede points, lines and polygons.
func sortFacesByType(mesh *input.Mesh) {
	sort.SliceStable(mesh.Faces, func(i, j int) bool {
		return len(mesh.Faces[i].Indices) == 3 && len(mesh.Faces[j].Indices) != 3
	})
}
