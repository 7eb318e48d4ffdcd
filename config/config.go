// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the converter,
// loaded from a TOML file and overridden by command line flags.
package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/reflectx"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the configuration file looked up in the
// working directory.
const FileName = "lightconv.toml"

// Config is the configuration of the converter. It is also the
// configuration of the lightconv command: the fields without a toml
// key are only set from the command line.
type Config struct {

	// Input is the device or venue file to convert or inspect,
	// or the directory to watch.
	Input string `posarg:"0" required:"-" toml:"-"`

	// StagingDir is the directory converted mesh assets are written to.
	// A leading ~ is expanded to the home directory; empty uses a
	// lightconv directory in the system temporary directory.
	StagingDir string `flag:"s,staging" toml:"staging_dir"`

	// KeepAssets keeps the staged assets after a conversion. The written
	// document refers to them, so removing them only suits inspection.
	KeepAssets bool `default:"true" toml:"keep_assets"`

	// MetersPerUnit is the unit of the written document.
	MetersPerUnit float32 `default:"0.01" toml:"meters_per_unit"`

	// LogLevel is the minimum level logged: debug, info, warn or error.
	LogLevel string `default:"info" toml:"log_level"`

	// Output is the output file, or "-" for stdout; empty writes next to
	// the input with the .usda extension. When watching, it is the
	// output directory, which defaults to the watched one.
	Output string `flag:"o,output" toml:"output"`

	// Format is the encoding of the inspected specification:
	// yaml or json.
	Format string `cmd:"inspect" default:"yaml" toml:"-"`
}

// Defaults returns the default configuration, as given by the
// default struct tags.
func Defaults() *Config {
	c := &Config{}
	errors.Log(reflectx.SetFromDefaultTags(c))
	return c
}

// Load returns the configuration in the given TOML file, on top of the
// defaults. A missing file yields the defaults without error.
func Load(fpath string) (*Config, error) {
	c := Defaults()
	b, err := os.ReadFile(fpath)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := c.Decode(b); err != nil {
		return nil, fmt.Errorf("config.Load: %s: %w", fpath, err)
	}
	return c, nil
}

// Decode decodes the given TOML on top of the current values.
func (c *Config) Decode(b []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return err
	}
	return c.Validate()
}

// Encode returns the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// OnConfig validates the configuration once the command line is parsed.
func (c *Config) OnConfig(cmd string) error {
	if cmd != "" && c.Input == "" {
		return fmt.Errorf("%s: missing input", cmd)
	}
	return c.Validate()
}

// Validate checks the values of the configuration.
func (c *Config) Validate() error {
	if c.MetersPerUnit <= 0 {
		return fmt.Errorf("meters_per_unit must be positive, got %g", c.MetersPerUnit)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level of LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lv, nil
}

// Staging returns StagingDir with a leading ~ expanded.
func (c *Config) Staging() (string, error) {
	if c.StagingDir == "" {
		return filepath.Join(os.TempDir(), "lightconv"), nil
	}
	return homedir.Expand(c.StagingDir)
}

// OutputFor returns the output file for the given input file.
func (c *Config) OutputFor(input string) string {
	if c.Output != "" {
		return c.Output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".usda"
}
