// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package emit writes parsed device and venue specifications into a
// [scene.Sink]: one transform prim per geometry node, with a payload to
// the staged mesh of its model, a disk light per beam, and the device and
// fixture metadata as namespaced custom attributes.
//
// Device geometry is rotated with the YZX order and venue fixtures with
// the ZYX order; the two conventions are kept apart because they match
// the parent relative orientations of the respective sources.
package emit

import (
	"fmt"
	"log/slog"
	"strconv"

	"cogentcore.org/lighting/scene"
	"cogentcore.org/lighting/xform"
)

const (
	// DefaultDevicePath is the root prim of a standalone device document.
	DefaultDevicePath = "/default_prim"

	// DefaultVenuePath is the root prim of a venue document.
	DefaultVenuePath = "/mvr_payload"

	// DefaultMetersPerUnit is the document unit: centimeters.
	DefaultMetersPerUnit = 0.01

	// UpAxis is the up axis of the document.
	UpAxis = "Y"

	// BeamIntensity is the intensity of every beam light.
	BeamIntensity = 60000

	// LegacyMeshScale is the scale applied to meshes converted from the
	// legacy format, which are modeled in millimeters.
	LegacyMeshScale = 0.001

	// ModelPrim is the name of the child prim holding the mesh payload.
	ModelPrim = "model"

	// BeamPrim is the name of the child light prim of a beam.
	BeamPrim = "Beam"

	// GDTFNamespace and MVRNamespace prefix the custom attributes.
	GDTFNamespace = "mf:gdtf:"
	MVRNamespace  = "mf:mvr:"
)

// Options are the emission options. The zero value emits centimeters;
// a nil *Options is the zero value.
type Options struct {

	// MetersPerUnit is the document unit in meters. Device lengths are in
	// meters and venue lengths in millimeters, and both are scaled to it.
	// It defaults to [DefaultMetersPerUnit].
	MetersPerUnit float32

	// Logger receives debug output. It defaults to [slog.Default].
	Logger *slog.Logger
}

func (o *Options) metersPerUnit() float32 {
	if o == nil || o.MetersPerUnit <= 0 {
		return DefaultMetersPerUnit
	}
	return o.MetersPerUnit
}

// UnitScale returns the factor from device meters to document units,
// 100 by default.
func (o *Options) UnitScale() float32 {
	return 1 / o.metersPerUnit()
}

// VenueUnitScale returns the factor from venue millimeters to document
// units, 0.1 by default.
func (o *Options) VenueUnitScale() float32 {
	return 0.001 / o.metersPerUnit()
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// SetStageMetadata sets the unit and up axis metadata of the document.
func SetStageMetadata(sink scene.Sink, opts *Options) error {
	if err := sink.SetMetadata("metersPerUnit", opts.metersPerUnit()); err != nil {
		return err
	}
	return sink.SetMetadata("upAxis", UpAxis)
}

// emitter defines prims with sibling names made unique.
type emitter struct {
	sink scene.Sink
	opts *Options
	used map[string]bool
}

func newEmitter(sink scene.Sink, opts *Options) *emitter {
	return &emitter{sink: sink, opts: opts, used: make(map[string]bool)}
}

// define defines a prim of the given type under the parent, named by the
// cleaned name with a _N suffix if a sibling already has that name.
func (em *emitter) define(parent, name, typeName string) (string, error) {
	name = scene.CleanName(name)
	p := scene.Join(parent, name)
	for i := 1; em.used[p]; i++ {
		p = scene.Join(parent, name+"_"+strconv.Itoa(i))
	}
	em.used[p] = true
	if err := em.sink.DefinePrim(p, typeName); err != nil {
		return "", err
	}
	return p, nil
}

// claim marks an existing path as used.
func (em *emitter) claim(p string) {
	em.used[p] = true
}

func (em *emitter) attrs(p string, attrs ...scene.Attribute) error {
	for _, at := range attrs {
		if err := em.sink.SetAttribute(p, at); err != nil {
			return err
		}
	}
	return nil
}

func wrap(fn string, err error) error {
	return fmt.Errorf("emit.%s: %w", fn, err)
}

// unit is the unit scale op value.
var unit = xform.Vec3(1, 1, 1)

// quarterTurnX turns disk lights, which face -Z, to face down, and
// Z-up legacy meshes to Y-up.
var quarterTurnX = xform.Vec3(-90, 0, 0)
