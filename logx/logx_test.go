// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"cogentcore.org/lighting/diag"
	"github.com/stretchr/testify/assert"
)

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	pr := NewPrinter(&buf)
	diags := []diag.Diagnostic{
		{Severity: diag.Warning, Source: "venue.mvr", Message: "no version"},
		{Severity: diag.Error, Source: "Spot.gdtf", Message: "bad manifest"},
	}
	pr.Print(diags)
	pr.Summary(diags)
	// a buffer is not a terminal, so no escape codes are written
	assert.Equal(t, "warning: venue.mvr: no version\nerror: Spot.gdtf: bad manifest\n1 error(s), 1 warning(s)\n", buf.String())

	buf.Reset()
	pr.Summary(nil)
	assert.Empty(t, buf.String())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(&buf, slog.LevelWarn)
	lg.Info("hidden")
	lg.Warn("shown", "n", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown n=1")
}
