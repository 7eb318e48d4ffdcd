// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"cogentcore.org/core/base/errors"
	"cogentcore.org/lighting/config"
	"cogentcore.org/lighting/mesh"
)

// convertCmd converts the input archive into a USDA document.
func (a *app) convertCmd(c *config.Config) error {
	a.setup(c)
	rg, stg, err := a.registry()
	if err != nil {
		return err
	}
	defer closeStaging(stg)
	return a.convert(a.ctx, rg, c.Input, c.OutputFor(c.Input))
}

// closeStaging removes the staged assets unless they are kept.
func closeStaging(stg *mesh.Staging) {
	errors.Log(stg.Close())
}
