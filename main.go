package main

import (
	"os"

	"github.com/df07/go-pathspace-renderer/cmd"
	"github.com/df07/go-pathspace-renderer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("pathspace")

func newApp() *cli.App {
	// the default version flag also claims -v
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathspace"
	app.Usage = "render scenes with spectral path tracing, light tracing and vertex connection and merging"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a built-in scene",
			Description: `
Render a built-in scene progressively. Every pass adds eye samples to each
pixel and, for the light tracer and VCM, one batch of light paths per worker.

The image is written when all passes finish, or after the last complete pass
when the render is interrupted.`,
			Flags:  cmd.RenderFlags,
			Action: cmd.Render,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
