package writer

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/fredlinhares/bkge-import-mesh/asset/scene"
	"github.com/fredlinhares/bkge-import-mesh/log"
)

// byteOrder is the byte order of every numeric field in a packed scene
// file. The format has no header; readers must assume little-endian
// IEEE-754 single precision floats and 32-bit unsigned counts.
var byteOrder binary.ByteOrder = binary.LittleEndian

type binarySceneWriter struct {
	logger    log.Logger
	sceneFile string
}

// Create a new binary scene writer.
func newBinarySceneWriter(sceneFile string) *binarySceneWriter {
	return &binarySceneWriter{
		logger:    log.New("binarySceneWriter"),
		sceneFile: sceneFile,
	}
}

// Write packed scene data to a file.
func (w *binarySceneWriter) Write(sc *scene.Scene) error {
	w.logger.Noticef("writing packed scene to %s", w.sceneFile)
	start := time.Now()

	outFile, err := os.Create(w.sceneFile)
	if err != nil {
		return err
	}
	defer outFile.Close()

	bw := bufio.NewWriter(outFile)
	if err = writeScene(bw, sc); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}

	w.logger.Noticef("wrote packed scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Serialize the three scene buffers. Each buffer is prefixed by a u32
// record count, present even when the buffer is empty, so readers can skip
// a section without decoding its records:
//
//	mesh count    u32
//	mesh records  (color f32 x3, vertex base/count u32, index base/count u32)
//	vertex count  u32
//	vertex records (position f32 x3, normal f32 x3)
//	index count   u32
//	index records  u32
func writeScene(w io.Writer, sc *scene.Scene) error {
	if err := writeSection(w, uint32(len(sc.Meshes)), sc.Meshes); err != nil {
		return err
	}
	if err := writeSection(w, uint32(len(sc.Vertices)), sc.Vertices); err != nil {
		return err
	}
	return writeSection(w, uint32(len(sc.Indices)), sc.Indices)
}

// Write a count-prefixed block of fixed-size records.
func writeSection(w io.Writer, count uint32, records interface{}) error {
	if err := binary.Write(w, byteOrder, count); err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return binary.Write(w, byteOrder, records)
}
