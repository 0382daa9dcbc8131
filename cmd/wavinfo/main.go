// This tool prints the format and metadata of WAVE files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/wavinfo"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/encoding/unicode"
)

const (
	admFlag     = "adm"
	ixmlFlag    = "ixml"
	formatFlag  = "format"
	utf8Flag    = "utf8"
	verboseFlag = "verbose"
	versionFlag = "version"

	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

var (
	errExclusiveXML  = errors.New("--adm and --ixml are mutually exclusive")
	errUnknownFormat = errors.New("unknown output format")
)

// MissingDataError reports a file lacking the metadata asked for.
type MissingDataError struct {
	Kind string
	Path string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("Missing metadata (%s) in file %s", e.Kind, e.Path)
}

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
		Name:      "wavinfo",
		Usage:     "Probe WAVE files for format information and metadata",
		ArgsUsage: "FILE...",
		Writer:    stdout,
		ErrWriter: stderr,
		// errors are reported per file, main only sets the exit status
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  admFlag,
				Usage: "Output the ADM XML only",
			},
			&cli.BoolFlag{
				Name:  ixmlFlag,
				Usage: "Output the iXML only",
			},
			&cli.StringFlag{
				Name:    formatFlag,
				Aliases: []string{"f"},
				Usage:   "Output format: json, yaml or text",
				Value:   formatJSON,
			},
			&cli.BoolFlag{
				Name:  utf8Flag,
				Usage: "Decode INFO texts as UTF-8 instead of ISO-8859-1",
			},
			&cli.BoolFlag{
				Name:  verboseFlag,
				Usage: "Log debug information to stderr",
			},
			&cli.BoolFlag{
				Name:  versionFlag,
				Usage: "Print the version",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool(versionFlag) {
				fmt.Fprintf(stdout, "wavinfo %s\n", wavinfo.Version)
				return nil
			}

			if cmd.Args().Len() == 0 {
				return cli.ShowAppHelp(cmd)
			}

			return probeFiles(cmd, stdout, stderr)
		},
	}
}

func probeFiles(cmd *cli.Command, stdout, stderr io.Writer) error {
	if cmd.Bool(admFlag) && cmd.Bool(ixmlFlag) {
		red(stderr, "[!] Error: %s\n", errExclusiveXML)
		return errExclusiveXML
	}

	format := cmd.String(formatFlag)

	switch format {
	case formatJSON, formatYAML, formatText:
	default:
		err := fmt.Errorf("%q: %w", format, errUnknownFormat)
		red(stderr, "[!] Error: %s\n", err)

		return err
	}

	logger := buildLogger(stderr, cmd.Bool(verboseFlag))
	defer func() { _ = logger.Sync() }()

	opts := []wavinfo.Option{wavinfo.WithLogger(logger)}
	if cmd.Bool(utf8Flag) {
		opts = append(opts, wavinfo.WithInfoEncoding(unicode.UTF8))
	}

	var result *multierror.Error

	for _, path := range cmd.Args().Slice() {
		err := probeFile(path, cmd, format, opts, stdout)

		var missing *MissingDataError
		if errors.As(err, &missing) {
			fmt.Fprintf(stderr, "MissingDataError: %s\n", missing)
			continue
		}

		if err != nil {
			red(stderr, "[!] Error: %s\n", err)
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

func probeFile(path string, cmd *cli.Command, format string, opts []wavinfo.Option, out io.Writer) error {
	r, err := wavinfo.Open(path, opts...)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool(admFlag):
		if r.ADM == nil {
			return &MissingDataError{Kind: "adm", Path: path}
		}

		return writeXML(out, r.ADM.XMLString)
	case cmd.Bool(ixmlFlag):
		if r.IXML == nil {
			return &MissingDataError{Kind: "ixml", Path: path}
		}

		return writeXML(out, r.IXML.XMLString)
	}

	switch format {
	case formatYAML:
		return writeYAML(out, newReport(r))
	case formatText:
		return writeText(out, r)
	default:
		return writeJSON(out, newReport(r))
	}
}

func writeXML(out io.Writer, render func() (string, error)) error {
	s, err := render()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, s)

	return err
}

// buildLogger logs warnings, or everything with verbose, to w.
func buildLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)

	return zap.New(core).Named("wavinfo")
}
