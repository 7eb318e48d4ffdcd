// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cogentcore.org/core/cli"
	"cogentcore.org/lighting/config"
	"cogentcore.org/lighting/diag"
	"cogentcore.org/lighting/emit"
	"cogentcore.org/lighting/format"
	"cogentcore.org/lighting/logx"
	"cogentcore.org/lighting/mesh"
	"cogentcore.org/lighting/scene"
	"cogentcore.org/lighting/usda"
)

// errDiagnostics is returned when a conversion reported errors.
var errDiagnostics = errors.New("conversion reported errors")

// app is the state shared by the commands.
type app struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	logger  *slog.Logger
	printer *logx.Printer
}

// commands returns the commands of the app.
func (a *app) commands() []*cli.Cmd[*config.Config] {
	return []*cli.Cmd[*config.Config]{
		{Func: a.convertCmd, Name: "convert", Doc: "convert a device or venue archive into a USDA document"},
		{Func: a.inspectCmd, Name: "inspect", Doc: "print the parsed specification of a device or venue archive"},
		{Func: a.watchCmd, Name: "watch", Doc: "convert the archives in a directory whenever they change"},
	}
}

// setup sets up the logging for the given configuration,
// which has been validated by [config.Config.OnConfig].
func (a *app) setup(c *config.Config) {
	lv, _ := c.Level()
	a.cfg = c
	a.logger = logx.NewLogger(a.stderr, lv)
	a.printer = logx.NewPrinter(a.stderr)
}

// registry returns a new registry staging the assets per the configuration.
// The returned staging must be closed.
func (a *app) registry() (*format.Registry, *mesh.Staging, error) {
	dir, err := a.cfg.Staging()
	if err != nil {
		return nil, nil, err
	}
	stg, err := mesh.NewOSStaging(dir)
	if err != nil {
		return nil, nil, err
	}
	stg.Keep = a.cfg.KeepAssets
	cv := mesh.NewConverter(stg)
	cv.Logger = a.logger
	opts := &emit.Options{MetersPerUnit: a.cfg.MetersPerUnit, Logger: a.logger}
	return format.DefaultRegistry(cv, opts), stg, nil
}

// convert converts one file and writes the document to out.
func (a *app) convert(ctx context.Context, rg *format.Registry, input, out string) error {
	st := scene.NewStage()
	diags, err := rg.Convert(ctx, input, st)
	a.report(diags)
	if err != nil {
		return err
	}
	if err := a.writeStage(out, st); err != nil {
		return err
	}
	a.logger.Info("wrote scene", "input", input, "output", out, "prims", st.Len())
	if format.HasErrors(diags) {
		return fmt.Errorf("%s: %w", input, errDiagnostics)
	}
	return nil
}

func (a *app) report(diags []diag.Diagnostic) {
	a.printer.Print(diags)
	a.printer.Summary(diags)
}

// writeStage writes the stage to the given file, or to stdout for "-".
func (a *app) writeStage(out string, st *scene.Stage) error {
	if out == "-" {
		return usda.Write(a.stdout, st)
	}
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	return closeAfter(f, usda.Write(f, st))
}

// closeAfter closes c, returning err if set or else the close error.
func closeAfter(c io.Closer, err error) error {
	cerr := c.Close()
	if err != nil {
		return err
	}
	return cerr
}
