// Package config loads settings for the command line tools. Values come from
// built-in defaults, then an optional YAML file, then BLS_* environment
// variables.
package config

import (
	"os"

	"github.com/pkg/errors"
	"go-simpler.org/env"
	"gopkg.in/yaml.v3"

	"github.com/zmlAEQ/bls-signatures/pkg/bls"
)

// C is the tool configuration.
type C struct {
	Scheme      string `yaml:"scheme" env:"BLS_SCHEME" usage:"signing scheme: basic, augmented, pop or legacy"`
	Encoding    string `yaml:"encoding" env:"BLS_ENCODING" usage:"element encoding: current or legacy"`
	LogLevel    string `yaml:"log_level" env:"BLS_LOG_LEVEL" usage:"debug, info, warn or error"`
	Output      string `yaml:"output" env:"BLS_OUTPUT" usage:"output format: hex or json"`
	MetricsDump bool   `yaml:"metrics_dump" env:"BLS_METRICS_DUMP" usage:"print prometheus metrics on exit"`
}

// Default returns the built-in configuration.
func Default() C {
	return C{Scheme: "augmented", Encoding: "current", LogLevel: "info", Output: "hex"}
}

// Load reads path (if non-empty) over the defaults and applies environment
// overrides from src, or from the process environment when src is nil.
func Load(path string, src env.Source) (C, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, errors.Wrap(err, "config: read")
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, errors.Wrapf(err, "config: parse %s", path)
		}
	}
	if err := env.Load(&c, &env.Options{Source: src, SliceSep: ","}); err != nil {
		return c, errors.Wrap(err, "config: env")
	}
	return c, c.Validate()
}

// Validate rejects unknown scheme, encoding and output names.
func (c C) Validate() error {
	switch c.Scheme {
	case "basic", "augmented", "aug", "pop", "legacy":
	default:
		return errors.Errorf("config: unknown scheme %q", c.Scheme)
	}
	if _, ok := bls.ParseEncoding(c.Encoding); !ok {
		return errors.Errorf("config: unknown encoding %q", c.Encoding)
	}
	switch c.Output {
	case "hex", "json":
	default:
		return errors.Errorf("config: unknown output %q", c.Output)
	}
	return nil
}

// ElementEncoding returns the parsed encoding.
func (c C) ElementEncoding() bls.Encoding {
	enc, _ := bls.ParseEncoding(c.Encoding)
	return enc
}
