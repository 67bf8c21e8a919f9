package importer

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fredlinhares/bkge-import-mesh/asset"
	"github.com/fredlinhares/bkge-import-mesh/asset/compiler/input"
	"github.com/fredlinhares/bkge-import-mesh/log"
	"github.com/fredlinhares/bkge-import-mesh/types"
)

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// True if the material definition contained a Kd entry.
	HasKd bool
}

// A face vertex as referenced by an obj file: resolved 0-based indices into
// the global coordinate lists, -1 when a component is absent.
type objVertex struct {
	v, vt, vn int
}

type wavefrontImporter struct {
	logger log.Logger

	// Coordinate lists shared by all objects in the file. Face indices are
	// 1-based (or negative, relative to the list end) and global.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	materials      []*wavefrontMaterial
	matNameToIndex map[string]int
	curMatIndex    int

	meshes  []*input.Mesh
	curMesh *input.Mesh

	// Map of obj face vertices to local indices of the current mesh.
	vertexRemap map[objVertex]uint32

	// Channels referenced by at least one face vertex of the current mesh.
	seenNormals bool
	seenUVs     bool
}

// Create a new importer for wavefront obj files.
func newWavefrontImporter() *wavefrontImporter {
	return &wavefrontImporter{
		logger:         log.New("wavefrontImporter"),
		matNameToIndex: make(map[string]int),
		curMatIndex:    -1,
	}
}

// Import scene definition from a wavefront obj resource.
func (wi *wavefrontImporter) Import(res *asset.Resource) (*input.Scene, error) {
	wi.logger.Noticef("parsing scene from %s", res.Path())
	start := time.Now()

	if err := wi.parse(res); err != nil {
		return nil, err
	}
	wi.finalizeMesh()

	sc := input.NewScene()
	sc.Meshes = wi.meshes
	for _, mat := range wi.materials {
		inMat := &input.Material{Name: mat.Name}
		if mat.HasKd {
			kd := mat.Kd
			inMat.Diffuse = &kd
		}
		sc.Materials = append(sc.Materials, inMat)
	}

	wi.logger.Noticef("parsed scene in %d ms (%d meshes, %d materials)",
		time.Since(start).Nanoseconds()/1e6, len(sc.Meshes), len(sc.Materials))
	return sc, nil
}

// Parse wavefront object scene format.
func (wi *wavefrontImporter) parse(res *asset.Resource) error {
	var lineNum int = 0

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "mtllib":
			if len(lineTokens) != 2 {
				return emitError(res.Path(), lineNum, `unsupported syntax for "mtllib"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err.Error())
			}
			err = wi.parseMaterials(matRes)
			matRes.Close()
			if err != nil {
				return err
			}
		case "usemtl":
			if len(lineTokens) != 2 {
				return emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}
			wi.useMaterial(lineTokens[1])
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err.Error())
			}
			wi.vertexList = append(wi.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err.Error())
			}
			wi.normalList = append(wi.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err.Error())
			}
			wi.uvList = append(wi.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}
			wi.beginMesh(lineTokens[1])
		case "f":
			if err := wi.parseFace(lineTokens); err != nil {
				return emitError(res.Path(), lineNum, "%s", err.Error())
			}
		default:
			wi.logger.Debugf("ignoring unsupported keyword %q", lineTokens[0])
		}
	}

	return scanner.Err()
}

// Activate a material for subsequent faces. Unknown material names get a
// placeholder entry without a diffuse color so the flattener can still
// process the geometry.
func (wi *wavefrontImporter) useMaterial(matName string) {
	matIndex, exists := wi.matNameToIndex[matName]
	if !exists {
		wi.logger.Warningf(`undefined material with name %q; adding placeholder`, matName)
		wi.materials = append(wi.materials, &wavefrontMaterial{Name: matName})
		matIndex = len(wi.materials) - 1
		wi.matNameToIndex[matName] = matIndex
	}

	wi.curMatIndex = matIndex

	// Faces sharing a mesh must share its material; split the mesh when the
	// active material changes mid-object.
	if wi.curMesh != nil {
		if len(wi.curMesh.Faces) == 0 {
			wi.curMesh.MaterialIndex = matIndex
		} else if wi.curMesh.MaterialIndex != matIndex {
			wi.beginMesh(wi.curMesh.Name)
		}
	}
}

// Start parsing a new mesh, flushing the current one.
func (wi *wavefrontImporter) beginMesh(name string) {
	wi.finalizeMesh()

	wi.curMesh = input.NewMesh(name)
	wi.curMesh.MaterialIndex = wi.curMatIndex
	wi.vertexRemap = make(map[objVertex]uint32)
	wi.seenNormals = false
	wi.seenUVs = false
}

// Append the current mesh to the parsed mesh list. Meshes without any
// faces are dropped.
func (wi *wavefrontImporter) finalizeMesh() {
	if wi.curMesh == nil {
		return
	}
	if len(wi.curMesh.Faces) == 0 {
		wi.logger.Debugf("dropping mesh %q with no faces", wi.curMesh.Name)
		wi.curMesh = nil
		return
	}

	if !wi.seenNormals {
		wi.curMesh.Normals = nil
	}
	if !wi.seenUVs {
		wi.curMesh.UVs = nil
	}

	wi.meshes = append(wi.meshes, wi.curMesh)
	wi.curMesh = nil
}

// Parse a face line and append it to the current mesh, remapping the
// global obj coordinate indices into mesh-local vertices.
func (wi *wavefrontImporter) parseFace(lineTokens []string) error {
	if len(lineTokens) < 4 {
		return fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	if wi.curMesh == nil {
		wi.beginMesh("default")
	}

	face := input.Face{Indices: make([]uint32, 0, len(lineTokens)-1)}
	for _, token := range lineTokens[1:] {
		objVert, err := wi.parseFaceVertex(token)
		if err != nil {
			return err
		}
		face.Indices = append(face.Indices, wi.localVertexIndex(objVert))
	}

	wi.curMesh.Faces = append(wi.curMesh.Faces, face)
	return nil
}

// Resolve a face vertex token of the form "v", "v/vt", "v//vn" or
// "v/vt/vn" into 0-based global coordinate indices.
func (wi *wavefrontImporter) parseFaceVertex(token string) (objVertex, error) {
	objVert := objVertex{v: -1, vt: -1, vn: -1}

	parts := strings.Split(token, "/")
	if len(parts) == 0 || len(parts) > 3 {
		return objVert, fmt.Errorf("unsupported face vertex syntax %q", token)
	}

	var err error
	objVert.v, err = selectFaceCoordIndex(parts[0], len(wi.vertexList))
	if err != nil {
		return objVert, err
	}
	if len(parts) > 1 && parts[1] != "" {
		objVert.vt, err = selectFaceCoordIndex(parts[1], len(wi.uvList))
		if err != nil {
			return objVert, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		objVert.vn, err = selectFaceCoordIndex(parts[2], len(wi.normalList))
		if err != nil {
			return objVert, err
		}
	}

	return objVert, nil
}

// Map a face vertex to a local index of the current mesh, appending its
// attributes the first time it is referenced. Attribute lists stay
// parallel: missing normal/uv components are stored as zero vectors and
// the channels are pruned at mesh finalization if nothing referenced them.
func (wi *wavefrontImporter) localVertexIndex(objVert objVertex) uint32 {
	if localIndex, exists := wi.vertexRemap[objVert]; exists {
		return localIndex
	}

	localIndex := uint32(len(wi.curMesh.Vertices))
	wi.vertexRemap[objVert] = localIndex

	wi.curMesh.Vertices = append(wi.curMesh.Vertices, wi.vertexList[objVert.v])

	var normal types.Vec3
	if objVert.vn != -1 {
		normal = wi.normalList[objVert.vn]
		wi.seenNormals = true
	}
	wi.curMesh.Normals = append(wi.curMesh.Normals, normal)

	var uv types.Vec2
	if objVert.vt != -1 {
		uv = wi.uvList[objVert.vt]
		wi.seenUVs = true
	}
	wi.curMesh.UVs = append(wi.curMesh.UVs, uv)

	return localIndex
}

// Parse wavefront material format.
func (wi *wavefrontImporter) parseMaterials(res *asset.Resource) error {
	wi.logger.Infof("parsing materials from %s", res.Path())

	var lineNum int = 0
	var curMaterial *wavefrontMaterial

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if _, exists := wi.matNameToIndex[matName]; exists {
				return emitError(res.Path(), lineNum, `duplicate material definition %q`, matName)
			}

			curMaterial = &wavefrontMaterial{Name: matName}
			wi.materials = append(wi.materials, curMaterial)
			wi.matNameToIndex[matName] = len(wi.materials) - 1
		case "Kd":
			if curMaterial == nil {
				return emitError(res.Path(), lineNum, `got "Kd" without a "newmtl" definition`)
			}

			v, err := parseVec3(lineTokens)
			if err != nil {
				return emitError(res.Path(), lineNum, "%s", err.Error())
			}
			curMaterial.Kd = v
			curMaterial.HasKd = true
		default:
			wi.logger.Debugf("ignoring unsupported material keyword %q", lineTokens[0])
		}
	}

	return scanner.Err()
}

// Generate an error message pointing at the offending file location.
func emitError(file string, line int, msgFormat string, args ...interface{}) error {
	return fmt.Errorf("[%s: %d] error: %s", file, line, fmt.Sprintf(msgFormat, args...))
}

// Resolve a 1-based (or negative, relative to the list end) coordinate
// index into a 0-based list offset.
func selectFaceCoordIndex(indexToken string, coordListLen int) (int, error) {
	index, err := strconv.Atoi(indexToken)
	if err != nil {
		return -1, err
	}

	if index < 0 {
		index += coordListLen
	} else {
		index--
	}

	if index < 0 || index >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return index, nil
}

func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) != 3 {
		return types.Vec2{}, fmt.Errorf("unsupported syntax for '%s'; expected 2 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	var v types.Vec2
	for i := 0; i < 2; i++ {
		val, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec2{}, err
		}
		v[i] = float32(val)
	}
	return v, nil
}

func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) != 4 {
		return types.Vec3{}, fmt.Errorf("unsupported syntax for '%s'; expected 3 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	var v types.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(lineTokens[i+1], 32)
		if err != nil {
			return types.Vec3{}, err
		}
		v[i] = float32(val)
	}
	return v, nil
}
