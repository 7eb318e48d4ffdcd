// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, float32(0.01), c.MetersPerUnit)
	assert.True(t, c.KeepAssets)
	assert.Equal(t, "yaml", c.Format)
	p, err := c.Staging()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.TempDir(), "lightconv"), p)
	lv, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lv)
	assert.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(p, []byte("meters_per_unit = 1.0\nlog_level = \"debug\"\noutput = \"out.usda\"\n"), 0666))

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, float32(1), c.MetersPerUnit)
	assert.Equal(t, "out.usda", c.Output)
	assert.Equal(t, Defaults().StagingDir, c.StagingDir)
	lv, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lv)

	c, err = Load(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"unknown.toml": "colour = 1\n",
		"unit.toml":    "meters_per_unit = 0\n",
		"level.toml":   "log_level = \"loud\"\n",
		"syntax.toml":  "meters_per_unit = \n",
	} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0666))
		_, err := Load(p)
		assert.Error(t, err, name)
	}
}

func TestEncode(t *testing.T) {
	c := Defaults()
	c.Output = "venue.usda"
	b, err := c.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(b), "yaml")
	d := Defaults()
	d.Output = ""
	require.NoError(t, d.Decode(b))
	assert.Equal(t, c, d)
}

func TestOnConfig(t *testing.T) {
	c := Defaults()
	assert.Error(t, c.OnConfig("convert"))
	assert.NoError(t, c.OnConfig(""))
	c.Input = "venue.mvr"
	assert.NoError(t, c.OnConfig("convert"))
	c.MetersPerUnit = -1
	assert.Error(t, c.OnConfig("convert"))
}

func TestOutputFor(t *testing.T) {
	c := Defaults()
	assert.Equal(t, filepath.Join("dir", "venue.usda"), c.OutputFor(filepath.Join("dir", "venue.mvr")))
	c.Output = "x.usda"
	assert.Equal(t, "x.usda", c.OutputFor("venue.mvr"))
}

func TestStaging(t *testing.T) {
	c := Defaults()
	c.StagingDir = "~/stage"
	p, err := c.Staging()
	require.NoError(t, err)
	assert.NotContains(t, p, "~")
	assert.Equal(t, "stage", filepath.Base(p))
}
