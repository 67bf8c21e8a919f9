package cmd

import (
	"github.com/urfave/cli"

	"github.com/fredlinhares/bkge-import-mesh/log"
)

var logger = log.New("bkge-import-mesh")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
