// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mvr parses MVR venue archives (*.mvr): the layers of the scene
// and the fixture instances placed in them. The device archives embedded
// in the venue are parsed with a [gdtf.Parser] and cached by entry name,
// so that fixtures can resolve their device specification.
package mvr

import (
	"cogentcore.org/lighting/xform"
)

// SceneFile is the name of the scene manifest inside a venue archive.
const SceneFile = "GeneralSceneDescription.xml"

// VenueSpecification is the parsed content of one venue archive.
type VenueSpecification struct {

	// Version is the document version as major.minor, "" if absent.
	Version string

	// Layers are the layers with at least one fixture, in document order.
	Layers []Layer
}

// NumFixtures returns the total number of fixtures over all layers.
func (vs *VenueSpecification) NumFixtures() int {
	n := 0
	for i := range vs.Layers {
		n += len(vs.Layers[i].Fixtures)
	}
	return n
}

// Layer is one layer of the scene.
type Layer struct {
	Name string
	UUID string

	Fixtures []FixtureInstance
}

// FixtureInstance is one placed fixture. Every field is optional and
// keeps its zero value when absent or malformed.
type FixtureInstance struct {
	Name string
	UUID string

	// Transform is the placement in millimeters, with rows as written
	// in the document: three basis rows and the offset row.
	Transform xform.Affine

	// DeviceArchiveReference is the file name of the device archive that
	// describes the fixture, with or without the .gdtf extension.
	DeviceArchiveReference string

	// DeviceMode is the DMX mode of the device.
	DeviceMode string

	CustomCommands []string
	Classing       string
	Addresses      []string

	FixtureID     uint32
	UnitNumber    uint32
	FixtureTypeID uint32
	CustomID      uint32

	CastShadows bool

	// Color is the CIE xyY color of the fixture, if given.
	Color []float32
}
