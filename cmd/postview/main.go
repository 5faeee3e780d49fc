// Command postview serves the post view page and its WASM bundle, and can
// render an author's posts without a browser.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/vcrobe/postview/config"
)

type cli struct {
	config.Config `kong:"embed"`

	ConfigFile kong.ConfigFlag `kong:"name='config',help='YAML config file',placeholder='PATH'"`

	Serve  serveCmd  `kong:"cmd,help='Serve the page and the WASM bundle'"`
	Render renderCmd `kong:"cmd,help='Render one author page without a browser and print the HTML'"`
}

func newParser(c *cli, configPaths ...string) (*kong.Kong, error) {
	options := append(config.Options(configPaths...),
		kong.Name("postview"),
		kong.Description("Browse jsonplaceholder posts by author."),
		kong.UsageOnError(),
	)
	return kong.New(c, options...)
}

func main() {
	var c cli
	parser, err := newParser(&c)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.FatalIfErrorf(kctx.Run(&c.Config))
}
