// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gdtf parses GDTF device archives (*.gdtf) into a
// [DeviceSpecification]: the device identity and physical attributes,
// its model list, and the flattened geometry tree with the transform of
// every node. The embedded model assets are converted with a
// [mesh.Converter] while parsing.
package gdtf

import (
	"cogentcore.org/lighting/xform"
)

// ModelReference is one entry of the model list of a device.
type ModelReference struct {

	// Name is the model name that geometry nodes refer to. It falls back
	// to SourceFile when the manifest leaves it blank, and is not
	// guaranteed to be unique.
	Name string

	// SourceFile is the model file name, without directory or extension.
	SourceFile string

	// Length, Width and Height are the model dimensions in meters.
	Length float32
	Width  float32
	Height float32

	// PrimitiveType is the built-in primitive used when there is no file,
	// such as Cube or Cylinder.
	PrimitiveType string
}

// Photometry holds the photometric attributes of a beam.
type Photometry struct {
	LampType            string
	BeamType            string
	PowerConsumption    float32
	LuminousFlux        float32
	ColorTemperature    float32
	BeamAngle           float32
	FieldAngle          float32
	ColorRenderingIndex float32
}

// GeometryNode is one node of the flattened geometry tree.
type GeometryNode struct {

	// Name is the node name with spaces replaced by underscores.
	Name string

	// Tag is the element tag: Geometry, Axis or Beam.
	Tag string

	// ModelRef is the name of the [ModelReference] of the node.
	ModelRef string

	// Transform is the node position relative to its parent, row-major
	// as written in the manifest (translation in the last column).
	Transform xform.Matrix

	// Depth is the nesting depth, starting at 0 for the top-level nodes.
	Depth int

	IsBeam     bool
	BeamRadius float32

	// Photometry is only set for beams.
	Photometry Photometry
}

// DeviceSpecification is the parsed content of one device archive.
// It is populated by a single parse and read-only afterwards.
type DeviceSpecification struct {

	// Name is the display name, falling back to the long name.
	Name     string
	LongName string

	Manufacturer string

	// FixtureTypeID is the GUID of the fixture type.
	FixtureTypeID string

	// SpecArchiveName is the base file name of the archive.
	SpecArchiveName string

	// Physical attributes, 0 when absent.
	LegHeight       float32
	Weight          float32
	LowTemperature  float32
	HighTemperature float32

	Models []ModelReference

	// GeometryNodes is the pre-order (parent before child) flattening
	// of the geometry tree.
	GeometryNodes []GeometryNode

	// HasBeam, BeamRadius, BeamMatrix and the Photometry fields mirror
	// the first beam of the geometry tree.
	HasBeam    bool
	BeamRadius float32
	BeamMatrix xform.Matrix
	Photometry

	// ConvertedFromLegacyMesh is set when any model asset of the archive
	// was in the legacy 3DS format, which needs a scale and rotation
	// correction at emission time.
	ConvertedFromLegacyMesh bool

	// Assets maps the source file of every converted asset to its staged path.
	Assets map[string]string
}

// IsEmpty returns whether nothing was parsed into the specification.
func (ds *DeviceSpecification) IsEmpty() bool {
	return ds.Name == "" && ds.SpecArchiveName == "" && len(ds.Models) == 0 && len(ds.GeometryNodes) == 0
}

// Model returns the first model with the given name.
func (ds *DeviceSpecification) Model(name string) (ModelReference, bool) {
	for _, m := range ds.Models {
		if m.Name == name {
			return m, true
		}
	}
	return ModelReference{}, false
}

// NumBeams returns the number of beam nodes.
func (ds *DeviceSpecification) NumBeams() int {
	n := 0
	for i := range ds.GeometryNodes {
		if ds.GeometryNodes[i].IsBeam {
			n++
		}
	}
	return n
}
