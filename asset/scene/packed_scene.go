package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/fredlinhares/bkge-import-mesh/types"
)

// Mesh describes one packed submesh. Its vertex and index ranges address
// the shared pools of the owning Scene; ranges of consecutive meshes tile
// the pools with no gaps or overlaps.
type Mesh struct {
	// Diffuse color of the mesh material.
	Color types.Vec3

	// Location of the mesh vertices inside the scene vertex pool.
	VertexBase  uint32
	VertexCount uint32

	// Location of the mesh indices inside the scene index pool.
	IndexBase  uint32
	IndexCount uint32
}

// Vertex is a single pooled vertex. The normal field is reserved; the
// flattener currently leaves it zeroed but it is always present on disk.
type Vertex struct {
	Position types.Vec3
	Normal   types.Vec3
}

// Scene holds the flat buffers produced by the flattener. All slices are
// append-only during flattening and never mutated afterwards.
type Scene struct {
	Meshes   []Mesh
	Vertices []Vertex
	Indices  []uint32
}

// Build a tabular representation of packed scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Buffer", "Records", "Size"})
	table.Append([]string{"Meshes", fmt.Sprintf("%d", len(sc.Meshes)), fmtSize(sc.Meshes)})
	table.Append([]string{"Vertices", fmt.Sprintf("%d", len(sc.Vertices)), fmtSize(sc.Vertices)})
	table.Append([]string{"Indices", fmt.Sprintf("%d", len(sc.Indices)), fmtSize(sc.Indices)})
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(sc.Meshes, sc.Vertices, sc.Indices), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
