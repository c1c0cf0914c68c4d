package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/malphas-lang/sidewinder/internal/config"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sidewinder: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	r := &runner{in: stdin, log: zerolog.Nop()}

	app := cli.NewApp()
	app.Name = "sidewinder"
	app.Version = version
	app.Usage = "parse Python expressions and simple statements"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = globalFlags()
	app.Before = r.setup
	app.Commands = []*cli.Command{
		{
			Name:      "parse",
			Aliases:   []string{"p"},
			Usage:     "print the syntax tree of a file",
			ArgsUsage: "<file|->",
			Action:    r.parse,
		},
		{
			Name:      "check",
			Aliases:   []string{"c"},
			Usage:     "report diagnostics for files and directories",
			ArgsUsage: "<path>...",
			Action:    r.check,
		},
		{
			Name:      "targets",
			Aliases:   []string{"t"},
			Usage:     "list assigned and deleted expressions",
			ArgsUsage: "<file|->",
			Action:    r.targets,
		},
		{
			Name:   "serve",
			Usage:  "run a language server on stdin and stdout",
			Action: r.serve,
		},
	}
	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "settings file (default: ./" + config.DefaultFilename + " when present)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "tree output format: text, json, yaml or debug",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn, error or disabled",
		},
		&cli.IntFlag{
			Name:  "context",
			Usage: "source lines shown around each diagnostic",
		},
		&cli.BoolFlag{
			Name:  "fail-on-warning",
			Usage: "treat warnings as failures",
		},
	}
}
