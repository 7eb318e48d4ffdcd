// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"context"
	"fmt"

	"cogentcore.org/lighting/archive"
	"cogentcore.org/lighting/diag"
	"cogentcore.org/lighting/emit"
	"cogentcore.org/lighting/gdtf"
	"cogentcore.org/lighting/mesh"
	"cogentcore.org/lighting/mvr"
	"cogentcore.org/lighting/scene"
)

// DefaultRegistry returns a registry with the device and venue handlers,
// converting model assets with the given converter, which may be nil to
// skip the assets.
func DefaultRegistry(cv *mesh.Converter, opts *emit.Options) *Registry {
	return NewRegistry(&Device{Converter: cv, Options: opts}, &Venue{Converter: cv, Options: opts})
}

// Device is the [Handler] of device archives.
type Device struct {

	// Converter converts the model assets; nil skips them.
	Converter *mesh.Converter

	// Options are the emission options.
	Options *emit.Options
}

func (h *Device) Name() string         { return "gdtf" }
func (h *Device) Extensions() []string { return []string{archive.DeviceExt} }

func (h *Device) parse(ctx context.Context, path string) (*gdtf.DeviceSpecification, []diag.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	p := gdtf.NewParser(h.Converter)
	if h.Options != nil && h.Options.Logger != nil {
		p.Logger = h.Options.Logger
	}
	ds := p.ParseFile(path)
	return ds, p.Errors.Drain(), nil
}

func (h *Device) Convert(ctx context.Context, path string, sink scene.Sink) ([]diag.Diagnostic, error) {
	ds, diags, err := h.parse(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return diags, err
	}
	if err := emit.Device(ds, "", sink, h.Options); err != nil {
		return diags, fmt.Errorf("format.Device: %w", err)
	}
	return diags, nil
}

func (h *Device) Inspect(ctx context.Context, path string) (any, []diag.Diagnostic, error) {
	return h.parse(ctx, path)
}

// Venue is the [Handler] of venue archives.
type Venue struct {

	// Converter converts the model assets of the embedded device
	// archives; nil skips them.
	Converter *mesh.Converter

	// Options are the emission options.
	Options *emit.Options
}

func (h *Venue) Name() string         { return "mvr" }
func (h *Venue) Extensions() []string { return []string{archive.VenueExt} }

func (h *Venue) parse(ctx context.Context, path string) (*mvr.VenueSpecification, *mvr.Parser, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	p := mvr.NewParser(h.Converter)
	if h.Options != nil && h.Options.Logger != nil {
		p.Logger = h.Options.Logger
		p.Devices.Logger = h.Options.Logger
	}
	return p.ParseFile(path), p, nil
}

func (h *Venue) Convert(ctx context.Context, path string, sink scene.Sink) ([]diag.Diagnostic, error) {
	vs, p, err := h.parse(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return p.Errors.Drain(), err
	}
	err = emit.Venue(vs, p, sink, h.Options)
	// resolving the devices may add cache miss warnings
	diags := p.Errors.Drain()
	if err != nil {
		return diags, fmt.Errorf("format.Venue: %w", err)
	}
	return diags, nil
}

func (h *Venue) Inspect(ctx context.Context, path string) (any, []diag.Diagnostic, error) {
	vs, p, err := h.parse(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return vs, p.Errors.Drain(), nil
}
