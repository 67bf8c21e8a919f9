package importer

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/fredlinhares/bkge-import-mesh/asset"
	"github.com/fredlinhares/bkge-import-mesh/types"
)

func servePayloads(t *testing.T, payloads map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, exists := payloads[r.URL.Path]
		if !exists {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(payload))
	}))
}

func TestWavefrontImporter(t *testing.T) {
	server := servePayloads(t, map[string]string{
		"/scene.obj": `
mtllib scene.mtl
o quad
usemtl red
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3
f 1 3 4
o tri
usemtl colorless
v 0 0 1
v 1 0 1
v 0 1 1
f 5 6 7
`,
		"/scene.mtl": `
newmtl red
Kd 1 0 0
newmtl colorless
`,
	})
	defer server.Close()

	res, err := asset.NewResource(server.URL+"/scene.obj", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	sc, err := newWavefrontImporter().Import(res)
	if err != nil {
		t.Fatal(err)
	}

	if len(sc.Meshes) != 2 {
		t.Fatalf("expected scene to contain 2 meshes; got %d", len(sc.Meshes))
	}
	if len(sc.Materials) != 2 {
		t.Fatalf("expected scene to contain 2 materials; got %d", len(sc.Materials))
	}

	quad := sc.Meshes[0]
	if quad.Name != "quad" {
		t.Fatalf("expected first mesh to be named 'quad'; got %q", quad.Name)
	}
	if len(quad.Vertices) != 4 {
		t.Fatalf("expected quad mesh to contain 4 vertices; got %d", len(quad.Vertices))
	}
	expFaces := [][]uint32{{0, 1, 2}, {0, 2, 3}}
	for index, exp := range expFaces {
		if !reflect.DeepEqual(quad.Faces[index].Indices, exp) {
			t.Fatalf("[face %d] expected local indices %v; got %v", index, exp, quad.Faces[index].Indices)
		}
	}
	if quad.HasNormals() || quad.HasUVs() {
		t.Fatal("expected quad mesh to define neither normals nor uvs")
	}

	tri := sc.Meshes[1]
	if tri.Name != "tri" {
		t.Fatalf("expected second mesh to be named 'tri'; got %q", tri.Name)
	}
	if len(tri.Vertices) != 3 {
		t.Fatalf("expected tri mesh to contain 3 local vertices; got %d", len(tri.Vertices))
	}
	if !reflect.DeepEqual(tri.Faces[0].Indices, []uint32{0, 1, 2}) {
		t.Fatalf("expected global obj indices to be remapped to mesh-local ones; got %v", tri.Faces[0].Indices)
	}

	red := sc.Material(quad.MaterialIndex)
	if red == nil || red.Diffuse == nil || *red.Diffuse != types.XYZ(1, 0, 0) {
		t.Fatalf("expected quad material to have diffuse (1,0,0); got %#v", red)
	}
	colorless := sc.Material(tri.MaterialIndex)
	if colorless == nil || colorless.Diffuse != nil {
		t.Fatalf("expected tri material to have no diffuse entry; got %#v", colorless)
	}
}

func TestWavefrontVertexAttributes(t *testing.T) {
	payload := `
o withAttribs
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vt 0.5 0.5
f 1/1/1 2/1/1 3/1/1
f 1/1/1 3/1/1 2/1/1
`
	res := asset.NewResourceFromStream("withAttribs.obj", strings.NewReader(payload))
	defer res.Close()

	sc, err := newWavefrontImporter().Import(res)
	if err != nil {
		t.Fatal(err)
	}

	mesh := sc.Meshes[0]
	if !mesh.HasNormals() || !mesh.HasUVs() {
		t.Fatal("expected mesh to define normals and uvs")
	}

	// Face vertices referencing the same v/vt/vn triple share one local vertex.
	if len(mesh.Vertices) != 3 {
		t.Fatalf("expected face vertex reuse to produce 3 local vertices; got %d", len(mesh.Vertices))
	}
	for index, normal := range mesh.Normals {
		if normal != (types.Vec3{0, 0, 1}) {
			t.Fatalf("[vertex %d] expected normal (0,0,1); got %v", index, normal)
		}
	}
	if mesh.UVs[0] != (types.Vec2{0.5, 0.5}) {
		t.Fatalf("expected uv (0.5,0.5); got %v", mesh.UVs[0])
	}
	if mesh.MaterialIndex != -1 {
		t.Fatalf("expected mesh without usemtl to have material index -1; got %d", mesh.MaterialIndex)
	}
}

func TestWavefrontUndefinedMaterial(t *testing.T) {
	payload := `
o orphan
usemtl missing
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	res := asset.NewResourceFromStream("orphan.obj", strings.NewReader(payload))
	defer res.Close()

	sc, err := newWavefrontImporter().Import(res)
	if err != nil {
		t.Fatal(err)
	}

	mat := sc.Material(sc.Meshes[0].MaterialIndex)
	if mat == nil || mat.Name != "missing" {
		t.Fatalf("expected a placeholder material named 'missing'; got %#v", mat)
	}
	if mat.Diffuse != nil {
		t.Fatalf("expected placeholder material to have no diffuse entry; got %v", *mat.Diffuse)
	}
}

func TestWavefrontMaterialSplit(t *testing.T) {
	server := servePayloads(t, map[string]string{
		"/split.obj": `
mtllib split.mtl
o both
usemtl first
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
f 1 2 3
usemtl second
f 2 3 4
`,
		"/split.mtl": `
newmtl first
Kd 1 0 0
newmtl second
Kd 0 1 0
`,
	})
	defer server.Close()

	res, err := asset.NewResource(server.URL+"/split.obj", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	sc, err := newWavefrontImporter().Import(res)
	if err != nil {
		t.Fatal(err)
	}

	// A material change mid-object splits the geometry into two meshes
	// since each mesh carries exactly one material.
	if len(sc.Meshes) != 2 {
		t.Fatalf("expected material switch to split the object into 2 meshes; got %d", len(sc.Meshes))
	}
	if sc.Meshes[0].MaterialIndex == sc.Meshes[1].MaterialIndex {
		t.Fatal("expected the split meshes to use different materials")
	}
}

func TestImportFileUnsupportedFormat(t *testing.T) {
	expError := "importFile: unsupported file format"
	_, err := ImportFile("scene.fbx", 0)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestSelectFaceCoordIndex(t *testing.T) {
	expError := "index out of bounds"
	type spec struct {
		in       string
		listLen  int
		out      int
		expError string
	}
	specs := []spec{
		{"2", 1, -1, expError},
		{"-2", 1, -1, expError},
		{"1", 10, 0, ""}, // indices are 1-based
		{"-1", 10, 9, ""},
	}

	for idx, s := range specs {
		v, err := selectFaceCoordIndex(s.in, s.listLen)
		if s.expError != "" && (err == nil || err.Error() != s.expError) {
			t.Fatalf("[spec %d] expected error %s; got %v", idx, s.expError, err)
		} else if v != s.out {
			t.Fatalf("[spec %d] expected index to be %d; got %d", idx, s.out, v)
		}
	}
}

func TestVec2Parser(t *testing.T) {
	expError := "unsupported syntax for 'vt'; expected 2 arguments; got 0"
	_, err := parseVec2([]string{"vt"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec2([]string{"vt", "not-a-float", "2"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec2([]string{"vt", "3.14", "0"})
	if err != nil {
		t.Fatal(err)
	}

	expVal := types.Vec2{3.14, 0}
	if !reflect.DeepEqual(v, expVal) {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}

func TestVec3Parser(t *testing.T) {
	expError := "unsupported syntax for 'v'; expected 3 arguments; got 0"
	_, err := parseVec3([]string{"v"})
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get %s; got %v", expError, err)
	}

	_, err = parseVec3([]string{"v", "not-a-float", "2", "3"})
	if err == nil {
		t.Fatal("expected to get a parse error")
	}

	v, err := parseVec3([]string{"v", "3.14", "0", "0.4"})
	if err != nil {
		t.Fatal(err)
	}

	expVal := types.Vec3{3.14, 0, 0.4}
	if !reflect.DeepEqual(v, expVal) {
		t.Fatalf("expected parsed value to be %v; got %v", expVal, v)
	}
}
