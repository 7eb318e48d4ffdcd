// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lightconv converts GDTF device archives and MVR venue archives
// into USDA scene documents.
package main

import (
	"context"
	"os"
	"os/signal"

	"cogentcore.org/core/cli"
	"cogentcore.org/lighting/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	a := &app{ctx: ctx, stdout: os.Stdout, stderr: os.Stderr}
	opts := cli.DefaultOptions("lightconv", "Lightconv converts GDTF device archives and MVR venue archives into USDA scene documents.")
	opts.DefaultFiles = []string{config.FileName}
	opts.PrintSuccess = false
	cli.Run(opts, &config.Config{}, a.commands()...)
}
