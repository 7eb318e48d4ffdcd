// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"cogentcore.org/lighting/config"
	"cogentcore.org/lighting/format"
	"gopkg.in/yaml.v3"
)

// inspectCmd prints the parsed specification of the input archive.
func (a *app) inspectCmd(c *config.Config) error {
	a.setup(c)
	// inspection does not stage assets
	rg := format.DefaultRegistry(nil, nil)
	spec, diags, err := rg.Inspect(a.ctx, c.Input)
	a.report(diags)
	if err != nil {
		return err
	}
	return encodeSpec(a.stdout, c.Format, spec)
}

// encodeSpec writes the specification in the given format.
func encodeSpec(w io.Writer, outFormat string, spec any) error {
	switch outFormat {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(spec); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	}
	return fmt.Errorf("unknown format %q, want yaml or json", outFormat)
}
