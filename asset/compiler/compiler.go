package compiler

import (
	"time"

	"github.com/fredlinhares/bkge-import-mesh/asset/compiler/input"
	"github.com/fredlinhares/bkge-import-mesh/asset/scene"
	"github.com/fredlinhares/bkge-import-mesh/log"
	"github.com/fredlinhares/bkge-import-mesh/types"
)

// Stats reports the permissive paths taken while flattening a scene. The
// flattener never fails on partial data; it substitutes defaults and keeps
// count so callers can assert on what was dropped.
type Stats struct {
	// Faces dropped because they do not have exactly 3 vertices.
	SkippedFaces int

	// Meshes whose material lookup failed and got a black diffuse color.
	DefaultedMaterials int
}

type sceneCompiler struct {
	parsedScene *input.Scene
	packedScene *scene.Scene
	stats       Stats
	logger      log.Logger
}

// Flatten a scene representation produced by an importer into the packed
// buffer format consumed by the renderer. One mesh record is emitted per
// input mesh, in scene order; vertex and index data is appended to the
// shared scene pools.
func Flatten(parsedScene *input.Scene) (*scene.Scene, Stats, error) {
	compiler := &sceneCompiler{
		parsedScene: parsedScene,
		packedScene: &scene.Scene{
			Meshes:   make([]scene.Mesh, 0, len(parsedScene.Meshes)),
			Vertices: make([]scene.Vertex, 0),
			Indices:  make([]uint32, 0),
		},
		logger: log.New("flattener"),
	}

	start := time.Now()
	compiler.logger.Noticef("flattening scene (%d meshes, %d materials)", len(parsedScene.Meshes), len(parsedScene.Materials))

	err := compiler.flattenGeometry()
	if err != nil {
		return nil, compiler.stats, err
	}

	compiler.logger.Noticef("flattened scene in %d ms (%d skipped faces, %d defaulted materials)",
		time.Since(start).Nanoseconds()/1e6, compiler.stats.SkippedFaces, compiler.stats.DefaultedMaterials)
	return compiler.packedScene, compiler.stats, nil
}

// Append the geometry of each input mesh to the shared vertex/index pools
// and emit a mesh record pointing into them.
func (sc *sceneCompiler) flattenGeometry() error {
	for _, pm := range sc.parsedScene.Meshes {
		packed := scene.Mesh{
			Color:       sc.resolveDiffuse(pm),
			VertexBase:  uint32(len(sc.packedScene.Vertices)),
			VertexCount: uint32(len(pm.Vertices)),
			IndexBase:   uint32(len(sc.packedScene.Indices)),
		}

		// Copy vertex positions in their original order. Normals and UVs
		// are available on the input mesh but the packed vertex keeps its
		// normal field zeroed; the on-disk layout reserves the space.
		for _, pos := range pm.Vertices {
			sc.packedScene.Vertices = append(sc.packedScene.Vertices, scene.Vertex{Position: pos})
		}

		// Indices reference the global vertex pool, so each local face
		// index is offset by the mesh vertex base. Polygons that are not
		// triangles are dropped; the importer is expected to have
		// triangulated the scene already.
		for _, face := range pm.Faces {
			if len(face.Indices) != 3 {
				sc.stats.SkippedFaces++
				continue
			}

			sc.packedScene.Indices = append(sc.packedScene.Indices,
				packed.VertexBase+face.Indices[0],
				packed.VertexBase+face.Indices[1],
				packed.VertexBase+face.Indices[2],
			)
			packed.IndexCount += 3
		}

		sc.logger.Infof("mesh %q: %d vertices, %d indices, diffuse %v (normals: %t, uvs: %t)",
			pm.Name, packed.VertexCount, packed.IndexCount, packed.Color, pm.HasNormals(), pm.HasUVs())

		sc.packedScene.Meshes = append(sc.packedScene.Meshes, packed)
	}

	return nil
}

// Lookup the diffuse color for a mesh material. Missing materials and
// materials without a diffuse entry yield black instead of an error.
func (sc *sceneCompiler) resolveDiffuse(pm *input.Mesh) types.Vec3 {
	mat := sc.parsedScene.Material(pm.MaterialIndex)
	if mat == nil || mat.Diffuse == nil {
		sc.stats.DefaultedMaterials++
		sc.logger.Warningf("mesh %q: no diffuse color for material index %d; using black", pm.Name, pm.MaterialIndex)
		return types.Vec3{}
	}
	return *mat.Diffuse
}
