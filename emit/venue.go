// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"cogentcore.org/lighting/gdtf"
	"cogentcore.org/lighting/mvr"
	"cogentcore.org/lighting/scene"
	"cogentcore.org/lighting/xform"
)

// DeviceResolver returns the device specification for a device archive
// reference of a fixture. It returns an empty specification for unknown
// references. [*mvr.Parser] is a DeviceResolver.
type DeviceResolver interface {
	DeviceSpecification(name string) *gdtf.DeviceSpecification
}

// Venue emits the venue specification under [DefaultVenuePath], marked as
// the default prim: a scope per layer and a transform prim per fixture,
// under which the resolved device of the fixture is emitted. If resolver
// is nil, only the fixtures are emitted. Any sink error aborts the
// emission and is returned.
func Venue(vs *mvr.VenueSpecification, resolver DeviceResolver, sink scene.Sink, opts *Options) error {
	em := newEmitter(sink, opts)
	if err := em.venue(vs, resolver); err != nil {
		return wrap("Venue", err)
	}
	return nil
}

func (em *emitter) venue(vs *mvr.VenueSpecification, resolver DeviceResolver) error {
	root := DefaultVenuePath
	if err := em.sink.DefinePrim(root, scene.TypeXform); err != nil {
		return err
	}
	em.claim(root)
	if err := em.sink.SetDefaultPrim(root); err != nil {
		return err
	}
	if err := SetStageMetadata(em.sink, em.opts); err != nil {
		return err
	}
	for li := range vs.Layers {
		ly := &vs.Layers[li]
		lp, err := em.define(root, ly.Name, scene.TypeScope)
		if err != nil {
			return err
		}
		for fi := range ly.Fixtures {
			if err := em.fixture(&ly.Fixtures[fi], lp, resolver); err != nil {
				return err
			}
		}
	}
	em.opts.logger().Debug("emitted venue", "root", root, "layers", len(vs.Layers), "fixtures", vs.NumFixtures())
	return nil
}

func (em *emitter) fixture(fx *mvr.FixtureInstance, parent string, resolver DeviceResolver) error {
	p, err := em.define(parent, fx.Name+fx.UUID, scene.TypeXform)
	if err != nil {
		return err
	}
	dec := xform.Decompose(fx.Transform.Matrix())
	err = em.sink.SetXformOps(p,
		scene.TranslateOp(dec.Translation.MulScalar(em.opts.VenueUnitScale())),
		scene.RotateOp(xform.ZYX, dec.Rotation))
	if err != nil {
		return err
	}
	if err := em.attrs(p, fixtureAttributes(fx)...); err != nil {
		return err
	}
	if resolver == nil {
		return nil
	}
	return em.device(resolver.DeviceSpecification(fx.DeviceArchiveReference), p)
}

// fixtureAttributes returns the metadata attributes of a fixture.
func fixtureAttributes(fx *mvr.FixtureInstance) []scene.Attribute {
	ns := MVRNamespace
	attrs := []scene.Attribute{
		scene.StringAttr(ns+"name", fx.Name),
		scene.StringAttr(ns+"uuid", fx.UUID),
		scene.StringAttr(ns+"GDTFSpec", fx.DeviceArchiveReference),
		scene.StringAttr(ns+"GDTFMode", fx.DeviceMode),
		scene.StringAttr(ns+"Classing", fx.Classing),
		scene.UintAttr(ns+"FixtureID", fx.FixtureID),
		scene.UintAttr(ns+"UnitNumber", fx.UnitNumber),
		scene.UintAttr(ns+"FixtureTypeId", fx.FixtureTypeID),
		scene.UintAttr(ns+"CustomId", fx.CustomID),
		scene.BoolAttr(ns+"CastShadow", fx.CastShadows),
	}
	if len(fx.CustomCommands) > 0 {
		attrs = append(attrs, scene.StringsAttr(ns+"CustomCommands", fx.CustomCommands))
	}
	if len(fx.Addresses) > 0 {
		attrs = append(attrs, scene.StringsAttr(ns+"Addresses", fx.Addresses))
	}
	if len(fx.Color) > 0 {
		attrs = append(attrs, scene.FloatsAttr(ns+"Color", fx.Color))
	}
	return attrs
}
