package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dollar/internal/config"
	"dollar/internal/diag"
	"dollar/internal/diagfmt"
	"dollar/internal/observ"
	"dollar/internal/source"
)

// settings: конфигурация проекта с применёнными поверх неё флагами.
type settings struct {
	cfg     config.Config
	quiet   bool
	timings bool
}

// loadSettings reads the config file (explicit --config or the nearest one
// found upwards) and applies persistent flags that were set explicitly.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Root().PersistentFlags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFrom(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.Changed("color") {
		if cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		if cfg.Output.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	s := &settings{cfg: cfg}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}

// useColor решает, раскрашивать ли вывод в f.
func (s *settings) useColor(f *os.File) bool {
	switch strings.ToLower(s.cfg.Output.Color) {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}

func (s *settings) prettyOpts(f *os.File) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.useColor(f),
		Context:   2,
		ShowNotes: true,
	}
}

// printDiagnostics writes bag in the given format (pretty|short|json).
func (s *settings) printDiagnostics(f *os.File, format string, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	switch format {
	case "short":
		_, err := fmt.Fprintln(f, diag.FormatShortDiagnostics(bag.Items(), fs, true))
		return err
	case "json":
		return diagfmt.JSON(f, bag, fs, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
	default:
		return diagfmt.Pretty(f, bag, fs, s.prettyOpts(f))
	}
}

// oneOf normalizes value and checks it against the allowed choices of flag.
func oneOf(flag, value string, choices ...string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, c := range choices {
		if v == c {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid --%s value %q (expected %s)", flag, value, strings.Join(choices, "|"))
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
