// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mvr

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"cogentcore.org/lighting/archive"
	"cogentcore.org/lighting/diag"
	"cogentcore.org/lighting/gdtf"
	"cogentcore.org/lighting/mesh"
	"cogentcore.org/lighting/xform"
	"cogentcore.org/lighting/xmlx"
	"github.com/Masterminds/semver/v3"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// SupportedVersion is the document version the parser is tested with.
// Other versions are parsed anyway, with a warning.
var SupportedVersion = semver.MustParse("1.5")

// MaxGroupDepth is the number of nested group objects searched for
// fixtures below a layer.
const MaxGroupDepth = 8

// Parser parses venue archives. Like the device parser, it never fails:
// problems are recorded on Errors. A Parser is not safe for concurrent use.
type Parser struct {

	// Errors accumulates the diagnostics of all parses, including those
	// of the embedded device archives.
	Errors diag.Stack

	// Devices parses the embedded device archives.
	Devices *gdtf.Parser

	// Logger receives debug output. It defaults to [slog.Default].
	Logger *slog.Logger

	// devices caches the parsed device archives by entry name.
	devices map[string]*gdtf.DeviceSpecification
}

// NewParser returns a new parser converting the model assets of the
// embedded device archives with the given converter, which may be nil.
func NewParser(cv *mesh.Converter) *Parser {
	p := &Parser{Devices: gdtf.NewParser(cv), Logger: slog.Default()}
	return p
}

func (p *Parser) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// ParseFile parses the venue archive at the given path. If the archive
// cannot be opened, an error diagnostic is recorded and an empty
// specification is returned.
func (p *Parser) ParseFile(fpath string) *VenueSpecification {
	r, err := archive.Open(fpath)
	if err != nil {
		p.Errors.Errorf(fpath, "failed to open venue archive: %v", err)
		return &VenueSpecification{}
	}
	defer r.Close()
	return p.parse(r)
}

// ParseBytes parses a venue archive held in memory.
func (p *Parser) ParseBytes(data []byte, name string) *VenueSpecification {
	r, err := archive.OpenBytes(name, data)
	if err != nil {
		p.Errors.Errorf(name, "failed to open venue archive: %v", err)
		return &VenueSpecification{}
	}
	defer r.Close()
	return p.parse(r)
}

func (p *Parser) parse(r *archive.Reader) *VenueSpecification {
	if p.Devices == nil {
		p.Devices = gdtf.NewParser(nil)
	}
	if p.devices == nil {
		p.devices = make(map[string]*gdtf.DeviceSpecification)
	}
	src := r.Name()
	var scene []byte
	found := false
	err := r.Walk(func(e archive.Entry) error {
		switch e.Kind {
		case archive.KindXML:
			if e.Name == SceneFile {
				scene = e.Content
				found = true
			}
		case archive.KindDeviceArchive:
			ds := p.Devices.ParseBytes(e.Content, e.Name)
			p.Errors.Merge(&p.Devices.Errors)
			p.devices[e.Name] = ds
		}
		return nil
	})
	if err != nil {
		p.Errors.Errorf(src, "failed to read venue archive: %v", err)
	}
	if !found {
		p.Errors.Errorf(src, "no %s in venue archive", SceneFile)
		return &VenueSpecification{}
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(scene); err != nil || doc.Root() == nil {
		p.Errors.Errorf(src, "failed to parse XML file %s: %v", SceneFile, err)
		return &VenueSpecification{}
	}
	vs := &VenueSpecification{}
	root := doc.Root()
	vs.Version = p.checkVersion(root, src)
	layers := root.FindElement("Scene/Layers")
	if layers == nil {
		p.Errors.Warnf(src, "scene has no Layers element")
		return vs
	}
	for _, el := range layers.SelectElements("Layer") {
		ly := p.readLayer(el, src)
		if len(ly.Fixtures) > 0 {
			vs.Layers = append(vs.Layers, ly)
		}
	}
	p.logger().Debug("parsed venue archive", "archive", src, "version", vs.Version, "layers", len(vs.Layers), "fixtures", vs.NumFixtures(), "devices", len(p.devices))
	return vs
}

// checkVersion returns the major.minor document version, warning when it
// differs from [SupportedVersion].
func (p *Parser) checkVersion(root *etree.Element, src string) string {
	major, mok := xmlx.Attr(root, "verMajor").Int()
	minor, nok := xmlx.Attr(root, "verMinor").Int()
	if !mok || !nok {
		p.Errors.Warnf(src, "document has no valid version, expected %d.%d", SupportedVersion.Major(), SupportedVersion.Minor())
		return ""
	}
	ver := strconv.Itoa(major) + "." + strconv.Itoa(minor)
	v, err := semver.NewVersion(ver)
	if err != nil || v.Major() != SupportedVersion.Major() || v.Minor() != SupportedVersion.Minor() {
		p.Errors.Warnf(src, "tested with version %d.%d, this document is version %s", SupportedVersion.Major(), SupportedVersion.Minor(), ver)
	}
	return ver
}

func (p *Parser) readLayer(el *etree.Element, src string) Layer {
	ly := Layer{
		Name: xmlx.Attr(el, "name").String(),
		UUID: xmlx.Attr(el, "uuid").String(),
	}
	for _, fx := range collectFixtures(el.SelectElement("ChildList"), 0) {
		ly.Fixtures = append(ly.Fixtures, p.readFixture(fx, src))
	}
	return ly
}

// collectFixtures returns the fixture elements of a child list, including
// those nested in group objects, in document order.
func collectFixtures(list *etree.Element, depth int) []*etree.Element {
	if list == nil || depth >= MaxGroupDepth {
		return nil
	}
	var out []*etree.Element
	for _, el := range list.ChildElements() {
		switch el.Tag {
		case "Fixture":
			out = append(out, el)
		case "GroupObject":
			out = append(out, collectFixtures(el.SelectElement("ChildList"), depth+1)...)
		}
	}
	return out
}

func (p *Parser) readFixture(el *etree.Element, src string) FixtureInstance {
	fx := FixtureInstance{
		Name:                   xmlx.Lookup(el, "name", "Name").String(),
		UUID:                   xmlx.Lookup(el, "uuid", "UUID").String(),
		DeviceArchiveReference: xmlx.Lookup(el, "GDTFSpec").String(),
		DeviceMode:             xmlx.Lookup(el, "GDTFMode").String(),
		CustomCommands:         xmlx.Texts(el, "CustomCommands", "CustomCommand"),
		Classing:               xmlx.Lookup(el, "Classing").String(),
		Addresses:              xmlx.Texts(el, "Addresses", "Address"),
		Transform:              xform.IdentityAffine(),
	}
	if m := xmlx.ChildText(el, "Matrix"); m.OK {
		fx.Transform = xform.ParseAffine(m.String())
	}
	fx.FixtureID, _ = xmlx.Lookup(el, "FixtureID", "fixtureId", "fixtureID").Uint32()
	fx.UnitNumber, _ = xmlx.Lookup(el, "UnitNumber").Uint32()
	fx.FixtureTypeID, _ = xmlx.Lookup(el, "FixtureTypeId", "FixtureTypeID").Uint32()
	fx.CustomID, _ = xmlx.Lookup(el, "CustomId", "CustomID").Uint32()
	fx.CastShadows, _ = xmlx.Lookup(el, "CastShadow").Bool()
	if c := xmlx.ChildText(el, "Color"); c.OK {
		fx.Color = parseColor(c.String())
	}
	if fx.UUID != "" {
		if _, err := uuid.Parse(fx.UUID); err != nil {
			p.Errors.Warnf(src, "fixture %q has an invalid uuid %q", fx.Name, fx.UUID)
		}
	}
	return fx
}

// parseColor parses a comma separated CIE color. It returns nil if any
// component is malformed.
func parseColor(s string) []float32 {
	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, pt := range parts {
		f, ok := xmlx.Value{Raw: pt, OK: true}.Float()
		if !ok {
			return nil
		}
		out = append(out, f)
	}
	return out
}

// DeviceKey returns the cache key for a device archive reference: the
// reference itself, with the .gdtf extension appended if it is missing.
func DeviceKey(name string) string {
	if strings.HasSuffix(name, archive.DeviceExt) {
		return name
	}
	return name + archive.DeviceExt
}

// DeviceSpecification returns a copy of the cached device specification
// for the given archive reference. If there is none, it records a
// diagnostic naming the closest cached archive and returns an empty
// specification.
func (p *Parser) DeviceSpecification(name string) *gdtf.DeviceSpecification {
	key := DeviceKey(name)
	ds, ok := p.devices[key]
	if !ok {
		if hint := p.closestDevice(key); hint != "" {
			p.Errors.Warnf(key, "no device archive %q in venue, closest match is %q", key, hint)
		} else {
			p.Errors.Warnf(key, "no device archive %q in venue", key)
		}
		return &gdtf.DeviceSpecification{}
	}
	cp := &gdtf.DeviceSpecification{}
	if err := copier.CopyWithOption(cp, ds, copier.Option{DeepCopy: true}); err != nil {
		p.Errors.Errorf(key, "failed to copy device specification: %v", err)
		return &gdtf.DeviceSpecification{}
	}
	return cp
}

// HasDevice returns whether a device archive is cached for the reference.
func (p *Parser) HasDevice(name string) bool {
	_, ok := p.devices[DeviceKey(name)]
	return ok
}

// DeviceNames returns the sorted cache keys of the parsed device archives.
func (p *Parser) DeviceNames() []string {
	names := make([]string, 0, len(p.devices))
	for k := range p.devices {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// closestDevice returns the cached key most similar to the given one,
// or "" if nothing is similar at all.
func (p *Parser) closestDevice(key string) string {
	lev := metrics.NewLevenshtein()
	best := ""
	bestSim := 0.0
	for _, k := range p.DeviceNames() {
		if sim := strutil.Similarity(key, k, lev); sim > bestSim {
			best, bestSim = k, sim
		}
	}
	return best
}
