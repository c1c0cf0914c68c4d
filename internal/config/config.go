// Package config loads the optional .sidewinder.yaml settings file.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is looked up in the working directory when no path is given.
const DefaultFilename = ".sidewinder.yaml"

// Output formats understood by the parse command.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatDebug = "debug"
)

var (
	formats   = []string{FormatText, FormatJSON, FormatYAML, FormatDebug}
	logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
)

// Config holds CLI settings. Zero values are replaced by Default's.
type Config struct {
	Format        string `yaml:"format"`
	LogLevel      string `yaml:"log_level"`
	ContextLines  *int   `yaml:"context_lines"`
	FailOnWarning bool   `yaml:"fail_on_warning"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	lines := 1
	return Config{
		Format:       FormatText,
		LogLevel:     "warn",
		ContextLines: &lines,
	}
}

// Context returns the number of source lines shown around a diagnostic.
func (c Config) Context() int {
	if c.ContextLines == nil {
		return 1
	}
	return *c.ContextLines
}

// Load reads the file at path. An empty path means DefaultFilename in the
// working directory, and a missing default file yields Default().
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}

	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			abs = path
		}
		return Config{}, errors.Wrapf(err, "config: %s", abs)
	}
	return cfg, nil
}

// Decode parses YAML settings from r, fills defaults and validates the
// result. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "parse")
	}

	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.ContextLines == nil {
		c.ContextLines = def.ContextLines
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !contains(formats, c.Format) {
		return errors.Errorf("unknown format %q (want one of %s)", c.Format, strings.Join(formats, ", "))
	}
	if !contains(logLevels, c.LogLevel) {
		return errors.Errorf("unknown log_level %q (want one of %s)", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if c.Context() < 0 {
		return errors.Errorf("context_lines must not be negative, got %d", c.Context())
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
