package main

import (
	"fmt"
	"os"

	"github.com/extend-xyz/spacegrid/common"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "spacegrid"
	app.Usage = "Operator tool of the spacegrid world"
	app.Version = common.VersionString()
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config, c",
			Usage:  "Path to the YAML configuration file",
			EnvVar: "SPACEGRID_CONFIG",
		},
	}
	app.Commands = []cli.Command{
		dumpCommand(),
		restoreCommand(),
		neighborhoodsCommand(),
		renderCommand(),
		addressCommand(),
	}
	return app
}
