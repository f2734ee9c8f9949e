// Package config loads the run configuration of the edxdstrain command.
//
// A run is described by a YAML or TOML file:
//
//	q0: [3.1, 3.6]
//	window: 0.3
//	model: gaussian
//	error_limit: 1.0e-4
//	unused_detector: 23
//
// Missing fields take the defaults of Default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-edxd/fit"
	"github.com/cwbudde/algo-edxd/peak"
	"github.com/cwbudde/algo-edxd/peak/shape"
	"github.com/cwbudde/algo-edxd/scan"
)

// AppName names the XDG directories.
const AppName = "edxdstrain"

// DefaultWindow is the peak window width used when none is configured.
const DefaultWindow = 0.3

// Config is one reduction run.
type Config struct {
	// Q0 is a scalar, a list or a [detector][peak] table.
	Q0 any `yaml:"q0" toml:"q0"`
	// Window is the full width of each peak window.
	Window float64 `yaml:"window" toml:"window"`
	// Model names the peak shape.
	Model string `yaml:"model" toml:"model"`
	// ErrorLimit rejects fits whose centre standard error exceeds it.
	// Zero disables the check.
	ErrorLimit *float64 `yaml:"error_limit" toml:"error_limit"`
	// Workers bounds fitting concurrency. Zero uses every CPU.
	Workers int `yaml:"workers" toml:"workers"`
	// UnusedDetector is removed before fitting. Negative keeps every detector.
	UnusedDetector *int `yaml:"unused_detector" toml:"unused_detector"`
	// Phi overrides the detector azimuths.
	Phi []float64 `yaml:"phi" toml:"phi"`
	// Output is the result database. Empty derives it from the input name.
	Output string `yaml:"output" toml:"output"`
}

// Default returns a configuration with every default applied and no q0.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Window == 0 {
		c.Window = DefaultWindow
	}
	if c.Model == "" {
		c.Model = "gaussian"
	}
	if c.ErrorLimit == nil {
		limit := fit.DefaultErrorLimit
		c.ErrorLimit = &limit
	}
	if c.UnusedDetector == nil {
		d := scan.UnusedDetector
		c.UnusedDetector = &d
	}
}

// Load reads a configuration file, choosing the format by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var c Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &c); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	c.applyDefaults()
	return &c, nil
}

// Validate checks the configuration and returns a sentinel error describing
// the first problem.
func (c *Config) Validate() error {
	if c.Q0 == nil {
		return ErrNoQ0
	}
	if _, err := c.Definition(); err != nil {
		return err
	}
	if !(c.Window > 0) {
		return ErrInvalidWindow
	}
	if _, err := shape.Lookup(c.Model); err != nil {
		return err
	}
	if c.ErrorLimit != nil && *c.ErrorLimit < 0 {
		return ErrInvalidErrorLimit
	}
	if c.Workers < 0 {
		return ErrInvalidWorkers
	}
	return nil
}

// Definition converts Q0 into a peak definition.
func (c *Config) Definition() (peak.Definition, error) {
	return peak.Parse(c.Q0)
}

// FitOptions returns the peak-fit options the configuration selects.
func (c *Config) FitOptions() ([]fit.Option, error) {
	m, err := shape.Lookup(c.Model)
	if err != nil {
		return nil, err
	}
	opts := []fit.Option{fit.WithModel(m), fit.WithWorkers(c.Workers)}
	if c.ErrorLimit != nil {
		opts = append(opts, fit.WithErrorLimit(*c.ErrorLimit))
	}
	return opts, nil
}

// OutputPath returns the result database for input. An empty Output gives
// <input without extension>_md.db next to the input.
func (c *Config) OutputPath(input string) string {
	if c.Output != "" {
		return c.Output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_md.db"
}

// XDGDataDir returns the data directory for result databases.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the directory searched for run.yaml and run.toml.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Find returns path if set, otherwise the first of run.yaml, run.yml and
// run.toml found in the working directory and then XDGConfigDir.
func Find(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	for _, dir := range []string{".", XDGConfigDir()} {
		for _, name := range []string{"run.yaml", "run.yml", "run.toml"} {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", ErrConfigNotFound
}
