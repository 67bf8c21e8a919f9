package cmd

import (
	"errors"

	"github.com/urfave/cli"

	"github.com/fredlinhares/bkge-import-mesh/asset/scene/reader"
)

// Display information about a packed scene asset.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing packed scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("packed scene information:\n%s", sc.Stats())
	return nil
}
