package writer

import (
	"io"

	"github.com/fredlinhares/bkge-import-mesh/asset/scene"
)

// The Writer interface is implemented by all packed scene writers.
type Writer interface {
	// Write packed scene data.
	Write(*scene.Scene) error
}

// Write packed scene to a file, truncating it if it already exists.
func WriteScene(sc *scene.Scene, filename string) error {
	return newBinarySceneWriter(filename).Write(sc)
}

// Write packed scene to a caller-owned sink. The sink is neither flushed
// nor closed.
func Write(w io.Writer, sc *scene.Scene) error {
	return writeScene(w, sc)
}
