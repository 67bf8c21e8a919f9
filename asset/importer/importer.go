package importer

import (
	"fmt"
	"strings"

	"github.com/fredlinhares/bkge-import-mesh/asset"
	"github.com/fredlinhares/bkge-import-mesh/asset/compiler/input"
)

// PostProcess is a bitmask of steps applied to a scene after parsing.
type PostProcess uint32

const (
	// Split polygons with more than 3 corners into triangle fans.
	Triangulate PostProcess = 1 << iota

	// Merge vertices within a mesh that carry identical attributes.
	JoinIdenticalVertices

	// Reorder faces inside each mesh so triangles come first.
	SortByPType
)

// The Importer interface is implemented by all scene importers.
type Importer interface {
	// Import scene definition from a resource.
	Import(res *asset.Resource) (*input.Scene, error)
}

// Import a 3d model file and apply the requested post-process steps. The
// file may be a local path or an http/https URL; the importer is selected
// by file extension.
func ImportFile(filename string, flags PostProcess) (*input.Scene, error) {
	var imp Importer
	if strings.HasSuffix(filename, ".obj") {
		imp = newWavefrontImporter()
	} else {
		return nil, fmt.Errorf("importFile: unsupported file format")
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	sc, err := imp.Import(res)
	if err != nil {
		return nil, err
	}

	flags.apply(sc)
	return sc, nil
}
