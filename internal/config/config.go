// Package config loads evaluation settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	segsim "github.com/jamesainslie/go-segsim"
	"github.com/jamesainslie/go-segsim/boundary"
	"github.com/jamesainslie/go-segsim/weight"
)

// ErrInvalidConfig indicates a configuration that cannot be used.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Defaults used when a field is absent.
const (
	DefaultPolicy    = "saturating"
	DefaultPrecision = 10
)

// Config holds evaluation settings.
type Config struct {
	Window    int       `yaml:"window"`
	Policy    string    `yaml:"policy"`
	Labels    []string  `yaml:"labels"`
	Workers   int       `yaml:"workers"`
	Precision int       `yaml:"precision"`
	Store     string    `yaml:"store"`
	Metrics   string    `yaml:"metrics_file"`
	Log       LogConfig `yaml:"log"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the benchmark settings.
func Default() Config {
	return Config{
		Window:    segsim.DefaultWindow,
		Policy:    DefaultPolicy,
		Precision: DefaultPrecision,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return Config{}, fmt.Errorf("%w: expected single document", ErrInvalidConfig)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if c.Window < 0 {
		errs = append(errs, fmt.Errorf("window %d is negative", c.Window))
	}
	if _, err := weight.ByName(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if len(c.Labels) > 0 {
		if _, err := boundary.ParseUniverse(c.Labels); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d is negative", c.Workers))
	}
	if c.Precision < 1 {
		errs = append(errs, fmt.Errorf("precision %d must be at least 1", c.Precision))
	}
	if _, err := c.Log.level(); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log format %q is not text or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Weights resolves the weighting policy.
func (c Config) Weights() (weight.Set, error) {
	return weight.ByName(c.Policy)
}

// Universe resolves the label universe. No labels selects the default.
func (c Config) Universe() (boundary.Universe, error) {
	if len(c.Labels) == 0 {
		return boundary.DefaultUniverse(), nil
	}
	return boundary.ParseUniverse(c.Labels)
}

// Options converts the configuration into evaluator options.
func (c Config) Options() ([]segsim.Option, error) {
	weights, err := c.Weights()
	if err != nil {
		return nil, err
	}
	universe, err := c.Universe()
	if err != nil {
		return nil, err
	}
	return []segsim.Option{
		segsim.WithWindow(c.Window),
		segsim.WithWeights(weights),
		segsim.WithUniverse(universe),
		segsim.WithWorkers(c.Workers),
	}, nil
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	return level, nil
}

// NewLogger builds a logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(l.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q is not text or json", ErrInvalidConfig, l.Format)
	}
}
