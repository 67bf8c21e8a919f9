package reader

import (
	"io"

	"github.com/fredlinhares/bkge-import-mesh/asset/scene"
)

// The Reader interface is implemented by all packed scene readers.
type Reader interface {
	// Read packed scene data.
	Read() (*scene.Scene, error)
}

// Read packed scene from a file.
func ReadScene(filename string) (*scene.Scene, error) {
	return newBinarySceneReader(filename).Read()
}

// Read packed scene from a caller-owned source. The source is not closed.
func Read(r io.Reader) (*scene.Scene, error) {
	return readScene(r)
}
