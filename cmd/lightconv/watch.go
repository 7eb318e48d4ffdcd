// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"cogentcore.org/lighting/config"
	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must be left alone before it is converted,
// so that a file being written is converted once.
const settle = 300 * time.Millisecond

// watchCmd watches the input directory, writing the documents to the
// output directory, which defaults to the input one.
func (a *app) watchCmd(c *config.Config) error {
	a.setup(c)
	outDir := c.Output
	if outDir == "" {
		outDir = c.Input
	}
	return a.watch(a.ctx, c.Input, outDir)
}

// watch converts every supported file in dir, then each one that is
// created or written, until the context is done.
func (a *app) watch(ctx context.Context, dir, outDir string) error {
	rg, stg, err := a.registry()
	if err != nil {
		return err
	}
	defer closeStaging(stg)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	outFor := func(input string) string {
		base := filepath.Base(input)
		return filepath.Join(outDir, base[:len(base)-len(filepath.Ext(base))]+".usda")
	}
	run := func(input string) {
		if err := a.convert(ctx, rg, input, outFor(input)); err != nil && !errors.Is(err, errDiagnostics) {
			a.logger.Error("conversion failed", "input", input, "err", err)
		}
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range ents {
		if !e.IsDir() && rg.Supports(e.Name()) {
			run(filepath.Join(dir, e.Name()))
		}
	}
	a.logger.Info("watching", "dir", dir, "extensions", rg.Extensions())

	pending := map[string]time.Time{}
	tick := time.NewTicker(settle / 3)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && rg.Supports(event.Name) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "err", err)
		case now := <-tick.C:
			for name, at := range pending {
				if now.Sub(at) >= settle {
					delete(pending, name)
					run(name)
				}
			}
		}
	}
}
