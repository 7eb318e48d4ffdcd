// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides the leveled logger of the command line tools
// and the colored printing of conversion diagnostics.
package logx

import (
	"fmt"
	"io"
	"log/slog"

	"cogentcore.org/lighting/diag"
	"github.com/muesli/termenv"
)

// UserLevel is the level of the logger returned by [NewLogger] when no
// level is given. It is info, or debug when built with the debug tag.
var UserLevel = defaultUserLevel

// NewLogger returns a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	if level == nil {
		level = UserLevel
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Printer prints diagnostics, colored by severity when the output is a
// terminal that supports it.
type Printer struct {
	out *termenv.Output
}

// NewPrinter returns a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: termenv.NewOutput(w)}
}

// SeverityColor returns the color of a severity: red for errors and
// yellow for warnings.
func (pr *Printer) SeverityColor(s diag.Severity) termenv.Color {
	if s == diag.Error {
		return pr.out.Color("1")
	}
	return pr.out.Color("3")
}

// Print prints the diagnostics, one per line, oldest first.
func (pr *Printer) Print(diags []diag.Diagnostic) {
	for _, d := range diags {
		sev := pr.out.String(d.Severity.String()).Foreground(pr.SeverityColor(d.Severity)).Bold()
		fmt.Fprintf(pr.out, "%s: %s\n", sev, d.Error())
	}
}

// Summary prints the number of errors and warnings, or nothing if there
// were none.
func (pr *Printer) Summary(diags []diag.Diagnostic) {
	nerr := 0
	for _, d := range diags {
		if d.Severity == diag.Error {
			nerr++
		}
	}
	nwarn := len(diags) - nerr
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(pr.out, "%d error(s), %d warning(s)\n", nerr, nwarn)
}
