package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/nikandfor/nearrank"
	"github.com/nikandfor/nearrank/agg"
)

// Config is the aggregation setup, read from a YAML file and overridden by flags.
type Config struct {
	Type        string     `yaml:"type"`
	Quantile    *float64   `yaml:"quantile"`
	Quantiles   *ArrayFlag `yaml:"quantiles"`
	SliceSize   int        `yaml:"slice_size"`
	MemoryLimit int64      `yaml:"memory_limit"`
	Format      string     `yaml:"format"`
	LogLevel    string     `yaml:"log_level"`
}

// ArrayFlag is a fraction array given either as a literal string ("{0.5,0.9}")
// or, in YAML, as a possibly nested sequence.
type ArrayFlag struct {
	nearrank.Array
}

var errRagged = errors.New("ragged nested sequence")

func defaultConfig() Config {
	return Config{
		Type:      "float8",
		SliceSize: nearrank.SliceSize,
		Format:    "text",
		LogLevel:  "info",
	}
}

func loadConfig(name string, cfg *Config) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return fmt.Errorf("parse config %v: %w", name, err)
	}

	return nil
}

// Validate checks the config and reports all problems at once.
func (c *Config) Validate() error {
	var errs error

	if _, err := agg.ParseKind(c.Type); err != nil {
		errs = multierr.Append(errs, err)
	}

	if c.Quantile != nil && c.Quantiles != nil {
		errs = multierr.Append(errs, errors.New("quantile and quantiles are mutually exclusive"))
	}

	if c.SliceSize < 1 {
		errs = multierr.Append(errs, fmt.Errorf("slice_size must be positive, got %d", c.SliceSize))
	}

	if c.MemoryLimit < 0 {
		errs = multierr.Append(errs, fmt.Errorf("memory_limit must not be negative, got %d", c.MemoryLimit))
	}

	switch c.Format {
	case "text", "yaml", "table":
	default:
		errs = multierr.Append(errs, fmt.Errorf("unknown format %q, must be text|yaml|table", c.Format))
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

// Fractions returns the aggregation fraction argument: the array if set,
// the scalar otherwise, the median by default.
func (c *Config) Fractions() agg.Fractions {
	if c.Quantiles != nil {
		return agg.List(c.Quantiles.Array)
	}

	if c.Quantile != nil {
		return agg.Scalar(*c.Quantile)
	}

	return agg.Scalar(0.5)
}

// String implements pflag.Value.
func (a *ArrayFlag) String() string {
	if a == nil {
		return ""
	}

	return fmt.Sprint(a.Elems)
}

// Set implements pflag.Value.
func (a *ArrayFlag) Set(s string) (err error) {
	a.Array, err = nearrank.ParseArrayLiteral(s)
	return err
}

// Type implements pflag.Value.
func (a *ArrayFlag) Type() string { return "array" }

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *ArrayFlag) UnmarshalYAML(n *yaml.Node) (err error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return a.Set(n.Value)
	case yaml.SequenceNode:
	default:
		return fmt.Errorf("line %d: quantiles must be a sequence or an array literal", n.Line)
	}

	var dims []int

	for c := n; c.Kind == yaml.SequenceNode; c = c.Content[0] {
		dims = append(dims, len(c.Content))

		if len(c.Content) == 0 {
			break
		}
	}

	var elems []any

	var walk func(n *yaml.Node, d int) error
	walk = func(n *yaml.Node, d int) error {
		if d == len(dims) {
			if n.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: %w", n.Line, errRagged)
			}

			if n.ShortTag() == "!!null" {
				elems = append(elems, nil)
			} else {
				elems = append(elems, n.Value)
			}

			return nil
		}

		if n.Kind != yaml.SequenceNode || len(n.Content) != dims[d] {
			return fmt.Errorf("line %d: %w", n.Line, errRagged)
		}

		for _, c := range n.Content {
			if err := walk(c, d+1); err != nil {
				return err
			}
		}

		return nil
	}

	err = walk(n, 0)
	if err != nil {
		return err
	}

	a.Array = nearrank.Array{Dims: dims, Elems: elems}

	return nil
}
