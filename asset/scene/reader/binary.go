package reader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fredlinhares/bkge-import-mesh/asset/scene"
	"github.com/fredlinhares/bkge-import-mesh/log"
)

// Packed scene files carry no byte order marker; the writer always emits
// little-endian fields.
var byteOrder binary.ByteOrder = binary.LittleEndian

type binarySceneReader struct {
	logger    log.Logger
	sceneFile string
}

// Create a new binary scene reader.
func newBinarySceneReader(sceneFile string) *binarySceneReader {
	return &binarySceneReader{
		logger:    log.New("binarySceneReader"),
		sceneFile: sceneFile,
	}
}

// Read packed scene data from a file.
func (r *binarySceneReader) Read() (*scene.Scene, error) {
	r.logger.Noticef("loading packed scene from %s", r.sceneFile)
	start := time.Now()

	inFile, err := os.Open(r.sceneFile)
	if err != nil {
		return nil, err
	}
	defer inFile.Close()

	sc, err := readScene(bufio.NewReader(inFile))
	if err != nil {
		return nil, fmt.Errorf("binarySceneReader: failed to load %s: %s", r.sceneFile, err.Error())
	}

	r.logger.Noticef("loaded packed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

// Decode the three count-prefixed scene buffers in their on-disk order.
func readScene(r io.Reader) (*scene.Scene, error) {
	sc := &scene.Scene{}

	meshCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	sc.Meshes = make([]scene.Mesh, meshCount)
	if err = binary.Read(r, byteOrder, sc.Meshes); err != nil {
		return nil, err
	}

	vertexCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	sc.Vertices = make([]scene.Vertex, vertexCount)
	if err = binary.Read(r, byteOrder, sc.Vertices); err != nil {
		return nil, err
	}

	indexCount, err := readCount(r)
	if err != nil {
		return nil, err
	}
	sc.Indices = make([]uint32, indexCount)
	if err = binary.Read(r, byteOrder, sc.Indices); err != nil {
		return nil, err
	}

	return sc, nil
}

func readCount(r io.Reader) (uint32, error) {
	var count uint32
	err := binary.Read(r, byteOrder, &count)
	return count, err
}
