// This tool lists the WAVE files whose iXML scene and take or bext
// description match glob patterns.
package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/cwbudde/wavinfo"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	sceneFlag   = "scene"
	takeFlag    = "take"
	descFlag    = "desc"
	verboseFlag = "verbose"
)

var red = color.New(color.FgRed).FprintfFunc()

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return newCommand(stdout, stderr).Run(ctx, args)
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:           "wavfind",
		Usage:          "Find WAVE files by iXML scene, take or bext description",
		ArgsUsage:      "PATH...",
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  sceneFlag,
				Usage: "Glob matched against the iXML scene",
			},
			&cli.StringFlag{
				Name:  takeFlag,
				Usage: "Glob matched against the iXML take",
			},
			&cli.StringFlag{
				Name:  descFlag,
				Usage: "Glob matched against the bext description",
			},
			&cli.BoolFlag{
				Name:  verboseFlag,
				Usage: "Log debug information to stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.ShowAppHelp(cmd)
			}

			f := &finder{
				scene:  cmd.String(sceneFlag),
				take:   cmd.String(takeFlag),
				desc:   cmd.String(descFlag),
				logger: buildLogger(stderr, cmd.Bool(verboseFlag)),
			}
			defer func() { _ = f.logger.Sync() }()

			var result *multierror.Error

			for _, arg := range cmd.Args().Slice() {
				if err := f.search(arg, stdout); err != nil {
					red(stderr, "[!] Error: %s\n", err)
					result = multierror.Append(result, err)
				}
			}

			return result.ErrorOrNil()
		},
	}
}

// finder matches files against glob predicates. An empty pattern matches
// everything.
type finder struct {
	scene  string
	take   string
	desc   string
	logger *zap.Logger
}

func (f *finder) search(arg string, out io.Writer) error {
	info, err := os.Stat(arg)

	switch {
	case err == nil && info.IsDir():
		return f.searchDir(arg, out)
	case err == nil:
		return f.report(arg, out)
	case strings.ContainsAny(arg, "*?[{"):
		paths, err := doublestar.Glob(arg)
		if err != nil {
			return fmt.Errorf("bad glob %q: %w", arg, err)
		}

		// glob matches are treated like the entries of a walk
		for _, path := range paths {
			info, err := os.Stat(path)
			if err == nil && info.IsDir() {
				if err := f.searchDir(path, out); err != nil {
					return err
				}

				continue
			}

			f.visit(path, out)
		}

		return nil
	default:
		return err
	}
}

func (f *finder) searchDir(root string, out io.Writer) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".wav") {
			return nil
		}

		f.visit(path, out)

		return nil
	})
}

// visit reports path, skipping it when it cannot be read.
func (f *finder) visit(path string, out io.Writer) {
	if err := f.report(path, out); err != nil {
		f.logger.Debug("skipping file", zap.String("path", path), zap.Error(err))
	}
}

func (f *finder) report(path string, out io.Writer) error {
	r, err := wavinfo.Open(path, wavinfo.WithLogger(f.logger))
	if err != nil {
		return err
	}

	ok, err := f.matches(r)
	if err != nil || !ok {
		return err
	}

	_, err = fmt.Fprintln(out, path)

	return err
}

func (f *finder) matches(r *wavinfo.Reader) (bool, error) {
	var scene, take, desc string

	if r.IXML != nil {
		scene, take = r.IXML.Scene(), r.IXML.Take()
	}

	if r.Bext != nil {
		desc = r.Bext.Description
	}

	predicates := []struct{ pattern, value string }{
		{f.scene, scene},
		{f.take, take},
		{f.desc, desc},
	}

	for _, p := range predicates {
		if p.pattern == "" {
			continue
		}

		ok, err := doublestar.Match(p.pattern, p.value)
		if err != nil {
			return false, fmt.Errorf("bad pattern %q: %w", p.pattern, err)
		}

		if !ok {
			return false, nil
		}
	}

	return true, nil
}

func buildLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)

	return zap.New(core).Named("wavfind")
}
