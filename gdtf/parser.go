// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdtf

import (
	"log/slog"

	"cogentcore.org/lighting/archive"
	"cogentcore.org/lighting/diag"
	"cogentcore.org/lighting/mesh"
	"cogentcore.org/lighting/xmlx"
	"github.com/beevik/etree"
)

// Parser parses device archives. Parsing never fails: problems are
// recorded on Errors and the affected part of the specification is left
// at its defaults. A Parser is not safe for concurrent use.
type Parser struct {

	// Errors accumulates the diagnostics of all parses.
	Errors diag.Stack

	// Converter converts the model assets. If nil, assets are not
	// converted and the specification has no staged assets.
	Converter *mesh.Converter

	// Logger receives debug and per-asset failure output.
	// It defaults to [slog.Default].
	Logger *slog.Logger
}

// NewParser returns a new parser converting assets with the given converter,
// which may be nil.
func NewParser(cv *mesh.Converter) *Parser {
	return &Parser{Converter: cv, Logger: slog.Default()}
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// ParseFile parses the device archive at the given path. If the archive
// cannot be opened, an error diagnostic is recorded and an empty
// specification is returned.
func (p *Parser) ParseFile(fpath string) *DeviceSpecification {
	r, err := archive.Open(fpath)
	if err != nil {
		p.Errors.Errorf(fpath, "failed to open device archive: %v", err)
		return &DeviceSpecification{}
	}
	defer r.Close()
	return p.parse(r)
}

// ParseBytes parses a device archive held in memory, such as one nested
// in a venue archive. The name is the logical file name of the archive.
func (p *Parser) ParseBytes(data []byte, name string) *DeviceSpecification {
	r, err := archive.OpenBytes(name, data)
	if err != nil {
		p.Errors.Errorf(name, "failed to open device archive: %v", err)
		return &DeviceSpecification{}
	}
	defer r.Close()
	return p.parse(r)
}

func (p *Parser) parse(r *archive.Reader) *DeviceSpecification {
	src := r.Name()
	var manifest *archive.EntryInfo
	var assets []archive.EntryInfo
	legacy := false
	for _, e := range r.Entries() {
		switch {
		case e.Kind == archive.KindXML:
			if manifest == nil {
				manifest = &e
			}
		case e.Kind.IsModel():
			assets = append(assets, e)
			if e.Kind == archive.KindLegacyMesh {
				legacy = true
			}
		}
	}
	if manifest == nil {
		p.Errors.Errorf(src, "no XML manifest in device archive")
		return &DeviceSpecification{}
	}
	data, err := r.Read(*manifest)
	if err != nil {
		p.Errors.Errorf(src, "failed to read %s: %v", manifest.Name, err)
		return &DeviceSpecification{}
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
		p.Errors.Errorf(src, "failed to parse XML file %s: %v", manifest.Name, err)
		return &DeviceSpecification{}
	}

	ds := &DeviceSpecification{SpecArchiveName: src}
	p.parseManifest(ds, doc.Root(), src)
	ds.ConvertedFromLegacyMesh = legacy

	if p.Converter != nil {
		for _, e := range assets {
			p.convertAsset(r, e, src)
		}
		ds.Assets = p.Converter.Assets(src)
	}
	p.logger().Debug("parsed device archive", "archive", src, "name", ds.Name, "models", len(ds.Models), "geometry", len(ds.GeometryNodes), "assets", len(ds.Assets))
	return ds
}

// convertAsset converts one model asset; failures only affect that asset.
func (p *Parser) convertAsset(r *archive.Reader, e archive.EntryInfo, owner string) {
	data, err := r.Read(e)
	if err == nil {
		_, err = p.Converter.Convert(data, e.Name, owner)
	}
	if err != nil {
		p.Errors.Errorf(owner, "skipping model asset %s: %v", e.Name, err)
		p.logger().Warn("skipping model asset", "archive", owner, "asset", e.Name, "err", err)
	}
}

// parseManifest reads the FixtureType element of the manifest root.
func (p *Parser) parseManifest(ds *DeviceSpecification, root *etree.Element, src string) {
	ft := root.SelectElement("FixtureType")
	if ft == nil {
		p.Errors.Errorf(src, "manifest has no FixtureType element")
		return
	}
	ds.Name = xmlx.Attr(ft, "Name").String()
	ds.LongName = xmlx.Attr(ft, "LongName").String()
	if ds.Name == "" {
		ds.Name = ds.LongName
	}
	ds.Manufacturer = xmlx.Attr(ft, "Manufacturer").String()
	ds.FixtureTypeID = xmlx.Attr(ft, "FixtureTypeID").String()

	if pd := ft.SelectElement("PhysicalDescriptions"); pd != nil {
		readProperties(ds, pd.SelectElement("Properties"))
	} else {
		p.Errors.Warnf(src, "manifest has no PhysicalDescriptions element")
	}

	if models := ft.SelectElement("Models"); models != nil {
		for _, m := range models.SelectElements("Model") {
			mr := ModelReference{
				Name:          xmlx.Attr(m, "Name").String(),
				SourceFile:    xmlx.Attr(m, "File").String(),
				Length:        xmlx.Attr(m, "Length").FloatOr(0),
				Width:         xmlx.Attr(m, "Width").FloatOr(0),
				Height:        xmlx.Attr(m, "Height").FloatOr(0),
				PrimitiveType: xmlx.Attr(m, "PrimitiveType").String(),
			}
			if mr.Name == "" {
				mr.Name = mr.SourceFile
			}
			ds.Models = append(ds.Models, mr)
		}
	} else {
		p.Errors.Warnf(src, "manifest has no Models element")
	}

	geoms := ft.SelectElement("Geometries")
	if geoms == nil {
		p.Errors.Warnf(src, "manifest has no Geometries element")
		return
	}
	ds.GeometryNodes = WalkGeometry(geoms, 0)
	for _, nd := range ds.GeometryNodes {
		if nd.IsBeam {
			ds.HasBeam = true
			ds.BeamRadius = nd.BeamRadius
			ds.BeamMatrix = nd.Transform
			ds.Photometry = nd.Photometry
			break
		}
	}
}

// readProperties reads the physical properties; each one is optional.
func readProperties(ds *DeviceSpecification, props *etree.Element) {
	if props == nil {
		return
	}
	if ot := props.SelectElement("OperatingTemperature"); ot != nil {
		ds.HighTemperature = xmlx.Attr(ot, "High").FloatOr(0)
		ds.LowTemperature = xmlx.Attr(ot, "Low").FloatOr(0)
	}
	ds.Weight = xmlx.Attr(props.SelectElement("Weight"), "Value").FloatOr(0)
	ds.LegHeight = xmlx.Attr(props.SelectElement("LegHeight"), "Value").FloatOr(0)
}
