package cmd

import (
	"bufio"
	"os"

	"github.com/urfave/cli"

	"github.com/fredlinhares/bkge-import-mesh/asset/compiler"
	"github.com/fredlinhares/bkge-import-mesh/asset/importer"
	"github.com/fredlinhares/bkge-import-mesh/asset/scene/writer"
)

// Post-process steps the flattener relies on: triangulated polygons,
// merged identical vertices and faces sorted by primitive type.
const importFlags = importer.Triangulate | importer.JoinIdenticalVertices | importer.SortByPType

// Import a model file and pack it into a flat binary scene asset.
//
// All failures are reported through the logger and terminate the run with
// status 0; existing callers only inspect the diagnostic output, so the
// exit code stays untouched for compatibility.
func ImportMesh(ctx *cli.Context) error {
	setupLogging(ctx)

	srcFile := ctx.String("source")
	outFile := ctx.String("out")

	incompleteArguments := false
	if srcFile == "" {
		logger.Error("source was not set")
		incompleteArguments = true
	}
	if outFile == "" {
		logger.Error("output was not set")
		incompleteArguments = true
	}
	if incompleteArguments {
		return nil
	}

	// The output file is truncated before the import runs; a failed import
	// leaves an empty file behind.
	outF, err := os.Create(outFile)
	if err != nil {
		logger.Errorf("failed to open output file: %s", err.Error())
		return nil
	}
	defer outF.Close()

	parsedScene, err := importer.ImportFile(srcFile, importFlags)
	if err != nil {
		logger.Errorf("failed to load model: %s", err.Error())
		return nil
	}

	sc, _, err := compiler.Flatten(parsedScene)
	if err != nil {
		logger.Errorf("failed to flatten scene: %s", err.Error())
		return nil
	}

	logger.Noticef("packed scene information:\n%s", sc.Stats())

	bw := bufio.NewWriter(outF)
	if err = writer.Write(bw, sc); err == nil {
		err = bw.Flush()
	}
	if err != nil {
		logger.Errorf("failed to write packed scene: %s", err.Error())
	}

	return nil
}
