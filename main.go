package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/fredlinhares/bkge-import-mesh/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "bkge-import-mesh"
	app.Usage = "pack 3d model files into flat binary scene assets"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "source",
			Usage: "file to be imported",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "exported file name",
		},
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Action = cmd.ImportMesh
	app.Commands = []cli.Command{
		{
			Name:  "info",
			Usage: "display information about a packed scene asset",
			Description: `
Load a packed scene asset produced by this tool and print a summary of its
mesh, vertex and index buffers.`,
			ArgsUsage: "packed_scene.bin",
			Action:    cmd.ShowSceneInfo,
		},
	}

	app.Run(os.Args)
}
