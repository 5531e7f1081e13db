package cmd

import (
	"bytes"
	"fmt"

	"github.com/df07/go-pathspace-renderer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Resolution", "Description"})
	for _, info := range scene.List() {
		table.Append([]string{
			info.Name,
			fmt.Sprintf("%dx%d", info.DefaultWidth, info.DefaultHeight),
			info.Description,
		})
	}
	table.Render()

	logger.Noticef("built-in scenes\n%s", buf.String())
	return nil
}
