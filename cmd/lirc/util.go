package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/lirc"
	"github.com/deepnoodle-ai/lirc/bytecode"
	lircerrors "github.com/deepnoodle-ai/lirc/errors"
	"github.com/deepnoodle-ai/lirc/types"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = red(msg)
	case error:
		s = lircerrors.Friendly(msg, useColor(os.Stderr))
	default:
		s = red(fmt.Sprintf("%v", msg))
	}
	fmt.Fprintf(os.Stderr, "%s\n", strings.TrimRight(s, "\n"))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func useColor(f *os.File) bool {
	return !color.NoColor && isTerminal(f)
}

// Reads global flags and adjusts the environment accordingly.
func (a *app) processGlobalFlags() {
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	a.logger = log.Logger.Level(level)
}

// source returns the code to compile and a filename for diagnostics. The
// code comes from exactly one of --code, --stdin or a path argument.
func (a *app) source(cmd *cobra.Command, args []string) (string, string, error) {
	data, name, err := a.input(cmd, args)
	if err != nil {
		return "", "", err
	}
	return string(data), name, nil
}

func (a *app) input(cmd *cobra.Command, args []string) ([]byte, string, error) {
	var codeFlagSet, stdinFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	if a.v.GetBool("stdin") {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0
	sources := 0
	for _, set := range []bool{codeFlagSet, stdinFlagSet, pathSupplied} {
		if set {
			sources++
		}
	}
	switch {
	case sources > 1:
		return nil, "", errors.New("multiple input sources specified")
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", err
		}
		return data, "<stdin>", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(args[0]), nil
	case codeFlagSet || a.v.GetString("code") != "":
		return []byte(a.v.GetString("code")), "<code>", nil
	}
	return nil, "", errors.New("no input provided: pass a file, --code or --stdin")
}

// config builds a compilation request from the global flags.
func (a *app) config(src, filename string) (*lirc.Config, error) {
	addr, err := types.ParseAddress(a.v.GetString("address"))
	if err != nil {
		return nil, fmt.Errorf("invalid --address: %w", err)
	}
	return lirc.NewConfig(src,
		lirc.WithAddress(addr),
		lirc.WithSkipBaseline(a.v.GetBool("skip-baseline")),
		lirc.WithFilename(filename),
		lirc.WithLogger(a.logger),
	), nil
}

// deps reads the serialized modules named by --dep, in flag order.
func (a *app) deps() ([]*bytecode.CompiledModule, error) {
	var modules []*bytecode.CompiledModule
	for _, path := range a.v.GetStringSlice("dep") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		m, err := bytecode.DeserializeModule(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		a.logger.Debug().Str("path", path).Stringer("module", m.ID()).Msg("loaded dependency")
		modules = append(modules, m)
	}
	return modules, nil
}

var outputFormatsCompletion = []string{"text", "json", "hex"}

func (a *app) outputFormat() (string, error) {
	format := strings.ToLower(a.v.GetString("output"))
	for _, f := range outputFormatsCompletion {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

// writeJSON pretty prints data, colorized unless color is disabled.
func writeJSON(w io.Writer, data []byte) error {
	if !color.NoColor {
		formatted, err := prettyjson.Format(data)
		if err != nil {
			return err
		}
		data = formatted
	}
	_, err := fmt.Fprintln(w, string(data))
	return err
}

func writeHex(w io.Writer, blobs ...[]byte) error {
	for _, b := range blobs {
		if _, err := fmt.Fprintln(w, hex.EncodeToString(b)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	a.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("wrote artifact")
	return nil
}
