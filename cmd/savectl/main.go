// Command savectl inspects and edits a save-data store from the shell.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

const version = "0.1.0"

func main() {
	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "savectl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "savectl"
	app.Usage = "Read and write named save files with optional encryption"
	app.Version = version
	app.Writer = out
	app.ErrWriter = out
	app.Flags = getFlags()
	app.Commands = getCommands(in, out)
	return app
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "dir, d",
			Usage: "store saves in `DIR` (overrides preset)",
		},
		cli.StringFlag{
			Name:  "preset, p",
			Usage: "default store directory preset [editor|runtime]",
		},
		cli.StringFlag{
			Name:  "level, l",
			Usage: "logging level [debug|info|warn|error]",
		},
	}
}

func getCommands(in io.Reader, out io.Writer) []cli.Command {
	return []cli.Command{
		{
			Name:      "save",
			Usage:     "write a save from TEXT, --file or stdin",
			ArgsUsage: "NAME [TEXT|-]",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "plain", Usage: "store without encryption"},
				cli.BoolFlag{Name: "encrypt", Usage: "encrypt even if the config disables it"},
				cli.StringFlag{Name: "file, f", Usage: "read the payload from `FILE`"},
			},
			Action: func(c *cli.Context) error { return saveAction(c, in) },
		},
		{
			Name:      "load",
			Usage:     "print a save to stdout or --out",
			ArgsUsage: "NAME",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "out, o", Usage: "write the payload to `FILE`"},
			},
			Action: func(c *cli.Context) error { return loadAction(c, out) },
		},
		{
			Name:      "exists",
			Usage:     "report whether a save exists",
			ArgsUsage: "NAME",
			Action:    func(c *cli.Context) error { return existsAction(c, out) },
		},
		{
			Name:      "delete",
			Usage:     "remove a save",
			ArgsUsage: "NAME",
			Action:    deleteAction,
		},
		{
			Name:   "list",
			Usage:  "list saves with their on-disk size",
			Action: func(c *cli.Context) error { return listAction(c, out) },
		},
		{
			Name:      "path",
			Usage:     "print the file path of a save",
			ArgsUsage: "NAME",
			Action:    func(c *cli.Context) error { return pathAction(c, out) },
		},
		{
			Name:      "init",
			Usage:     "write a configuration file with the current settings",
			ArgsUsage: "[FILE]",
			Action:    func(c *cli.Context) error { return initAction(c, out) },
		},
	}
}
