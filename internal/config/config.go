// Package config loads the optional project file (dollar.toml, dollar.yaml
// or dollar.yml) that sets defaults for the dollar commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"dollar/internal/diag"
)

// FileNames lists the recognised config file names in lookup order.
var FileNames = []string{"dollar.toml", "dollar.yaml", "dollar.yml"}

type Config struct {
	Check  CheckConfig  `toml:"check" yaml:"check"`
	Output OutputConfig `toml:"output" yaml:"output"`
	Source SourceConfig `toml:"source" yaml:"source"`

	// Path is the file the config was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

type CheckConfig struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Jobs       int      `toml:"jobs" yaml:"jobs"`
	Cache      bool     `toml:"cache" yaml:"cache"`
}

type OutputConfig struct {
	Format         string `toml:"format" yaml:"format"`
	Color          string `toml:"color" yaml:"color"`
	MaxDiagnostics int    `toml:"max_diagnostics" yaml:"max_diagnostics"`
}

type SourceConfig struct {
	Normalize string `toml:"normalize" yaml:"normalize"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Check: CheckConfig{
			Extensions: []string{".tmpl", ".dollar"},
		},
		Output: OutputConfig{
			Format:         "pretty",
			Color:          "auto",
			MaxDiagnostics: 100,
		},
		Source: SourceConfig{Normalize: "none"},
	}
}

// NormalizeNFC reports whether sources should be NFC-normalized on load.
func (c *Config) NormalizeNFC() bool {
	return c.Source.Normalize == "nfc"
}

// Error describes an invalid configuration file.
type Error struct {
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(diag.CfgInvalid.ID())
	sb.WriteString(": ")
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Find walks from startDir up to the filesystem root and returns the first
// config file found. ok is false when there is none.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load reads path on top of the defaults. The format follows the extension.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return Config{}, &Error{Path: path, Msg: "failed to parse TOML", Err: err}
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, &Error{Path: path, Msg: "unknown key " + undecoded[0].String()}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, &Error{Path: path, Msg: "failed to parse YAML", Err: err}
		}
	default:
		return Config{}, &Error{Path: path, Msg: "unsupported config format " + ext}
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFrom finds and loads the config for startDir, falling back to the
// defaults when no file exists.
func LoadFrom(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	bad := func(msg string) error { return &Error{Path: c.Path, Msg: msg} }
	if c.Check.Jobs < 0 {
		return bad("check.jobs must not be negative")
	}
	for _, ext := range c.Check.Extensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return bad("check.extensions contains an empty extension")
		}
	}
	if !slices.Contains([]string{"pretty", "json", "short"}, c.Output.Format) {
		return bad(fmt.Sprintf("output.format %q (expected: pretty|json|short)", c.Output.Format))
	}
	if !slices.Contains([]string{"auto", "on", "off"}, c.Output.Color) {
		return bad(fmt.Sprintf("output.color %q (expected: auto|on|off)", c.Output.Color))
	}
	if c.Output.MaxDiagnostics <= 0 {
		return bad("output.max_diagnostics must be positive")
	}
	if c.Source.Normalize != "none" && c.Source.Normalize != "nfc" {
		return bad(fmt.Sprintf("source.normalize %q (expected: none|nfc)", c.Source.Normalize))
	}
	return nil
}
