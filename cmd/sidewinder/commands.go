package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/malphas-lang/sidewinder/internal/ast"
	"github.com/malphas-lang/sidewinder/internal/config"
	"github.com/malphas-lang/sidewinder/internal/diag"
	"github.com/malphas-lang/sidewinder/internal/dump"
	"github.com/malphas-lang/sidewinder/internal/lsp"
	"github.com/malphas-lang/sidewinder/internal/parser"
)

// runner carries the settings resolved before any command runs.
type runner struct {
	in  io.Reader
	cfg config.Config
	log zerolog.Logger
}

// setup loads the settings file, applies flag overrides and configures
// logging.
func (r *runner) setup(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}

	if ctx.IsSet("format") {
		cfg.Format = ctx.String("format")
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("context") {
		lines := ctx.Int("context")
		cfg.ContextLines = &lines
	}
	if ctx.IsSet("fail-on-warning") {
		cfg.FailOnWarning = ctx.Bool("fail-on-warning")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid settings")
	}

	level := zerolog.Disabled
	if cfg.LogLevel != "disabled" {
		if level, err = zerolog.ParseLevel(cfg.LogLevel); err != nil {
			return errors.Wrap(err, "invalid settings")
		}
	}

	r.cfg = cfg
	r.log = zerolog.New(zerolog.ConsoleWriter{Out: ctx.App.ErrWriter, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
	r.log.Debug().Str("format", cfg.Format).Int("context_lines", cfg.Context()).Msg("settings resolved")

	return nil
}

// source is one parsed input.
type source struct {
	name   string
	text   string
	module *ast.Module
	diags  []diag.Diagnostic
}

func (r *runner) load(ctx *cli.Context, path string) (*source, error) {
	var (
		data []byte
		err  error
		name = path
	)
	if path == "-" {
		name = "<stdin>"
		data, err = io.ReadAll(r.in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	module, diags := parser.ParseFile(name, string(data))
	r.log.Debug().
		Str("file", name).
		Int("statements", len(module.Body)).
		Int("diagnostics", len(diags)).
		Msg("parsed")

	return &source{name: name, text: string(data), module: module, diags: diags}, nil
}

// report prints diagnostics for src and tells whether they fail the run.
func (r *runner) report(ctx *cli.Context, src *source) bool {
	if len(src.diags) > 0 {
		f := diag.NewFormatter(ctx.App.ErrWriter, diag.WithContextLines(r.cfg.Context()))
		f.AddSource(src.name, src.text)
		f.FormatAll(src.diags)
	}
	return diag.HasErrors(src.diags, r.cfg.FailOnWarning)
}

func singleArg(ctx *cli.Context) (string, error) {
	if ctx.Args().Len() != 1 {
		return "", errors.Errorf("%s expects exactly one file, got %d", ctx.Command.Name, ctx.Args().Len())
	}
	return ctx.Args().First(), nil
}

func (r *runner) parse(ctx *cli.Context) error {
	path, err := singleArg(ctx)
	if err != nil {
		return err
	}
	src, err := r.load(ctx, path)
	if err != nil {
		return err
	}

	failed := r.report(ctx, src)
	if err := dump.Write(ctx.App.Writer, r.cfg.Format, src.module); err != nil {
		return err
	}
	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func (r *runner) targets(ctx *cli.Context) error {
	path, err := singleArg(ctx)
	if err != nil {
		return err
	}
	src, err := r.load(ctx, path)
	if err != nil {
		return err
	}

	failed := r.report(ctx, src)
	if err := dump.WriteTargets(ctx.App.Writer, []rune(src.text), dump.Targets(src.module)); err != nil {
		return err
	}
	if failed {
		return cli.Exit("", 1)
	}
	return nil
}

func (r *runner) check(ctx *cli.Context) error {
	paths := ctx.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string
	for _, path := range paths {
		found, err := findSourceFiles(path)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		fmt.Fprintln(ctx.App.Writer, "No source files found")
		return nil
	}

	var failedFiles, errorCount, warningCount int
	for _, file := range files {
		src, err := r.load(ctx, file)
		if err != nil {
			return err
		}
		if r.report(ctx, src) {
			failedFiles++
		}
		for _, d := range src.diags {
			switch d.Severity {
			case diag.SeverityError:
				errorCount++
			case diag.SeverityWarning:
				warningCount++
			}
		}
	}

	fmt.Fprintf(ctx.App.Writer, "Checked %d file(s): %d error(s), %d warning(s)\n", len(files), errorCount, warningCount)

	if failedFiles > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (r *runner) serve(ctx *cli.Context) error {
	log := r.log.With().Str("component", "lsp").Logger()
	log.Info().Msg("language server starting")

	return lsp.NewServer(log).Run(ctx.Context, r.in, ctx.App.Writer)
}
