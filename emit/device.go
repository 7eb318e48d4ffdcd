// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package emit

import (
	"cogentcore.org/lighting/gdtf"
	"cogentcore.org/lighting/mesh"
	"cogentcore.org/lighting/scene"
	"cogentcore.org/lighting/xform"
)

// Device emits the device specification under the given root prim path.
// If rootPath is empty, the root is [DefaultDevicePath], marked as the
// default prim, and the stage metadata is set. Any sink error aborts the
// emission and is returned.
func Device(ds *gdtf.DeviceSpecification, rootPath string, sink scene.Sink, opts *Options) error {
	em := newEmitter(sink, opts)
	if err := em.device(ds, rootPath); err != nil {
		return wrap("Device", err)
	}
	return nil
}

func (em *emitter) device(ds *gdtf.DeviceSpecification, rootPath string) error {
	root := rootPath
	if root == "" {
		root = DefaultDevicePath
	}
	if err := em.sink.DefinePrim(root, scene.TypeXform); err != nil {
		return err
	}
	em.claim(root)
	if rootPath == "" {
		if err := em.sink.SetDefaultPrim(root); err != nil {
			return err
		}
		if err := SetStageMetadata(em.sink, em.opts); err != nil {
			return err
		}
	}
	if !ds.IsEmpty() {
		if err := em.attrs(root, deviceAttributes(ds)...); err != nil {
			return err
		}
	}

	// parents[d] is the parent path of the nodes at depth d.
	parents := []string{root}
	var emitted []emittedNode
	for i := range ds.GeometryNodes {
		nd := &ds.GeometryNodes[i]
		if nd.Depth >= len(parents) {
			continue // depth jumps past a missing parent
		}
		parents = parents[:nd.Depth+1]
		p, err := em.node(ds, nd, parents[nd.Depth])
		if err != nil {
			return err
		}
		parents = append(parents, p)
		emitted = append(emitted, emittedNode{node: nd, path: p})
	}
	if ds.NumBeams() == 0 {
		if en, ok := deepest(emitted); ok {
			if err := em.defaultLight(ds, en.node, en.path); err != nil {
				return err
			}
		}
	}
	em.opts.logger().Debug("emitted device", "root", root, "name", ds.Name, "nodes", len(emitted))
	return nil
}

// emittedNode is a geometry node with the path it was emitted at.
type emittedNode struct {
	node *gdtf.GeometryNode
	path string
}

// deepest returns the emitted node that carries the default light of a
// device without beams: the deepest non-inventory node, the last one on
// ties. It returns false if there is no such node.
func deepest(nodes []emittedNode) (emittedNode, bool) {
	found := false
	var best emittedNode
	for i := len(nodes) - 1; i >= 0; i-- {
		en := nodes[i]
		if en.node.Tag == "Inventory" {
			continue
		}
		if !found || en.node.Depth > best.node.Depth {
			best, found = en, true
		}
	}
	return best, found
}

// node emits one geometry node and returns its path.
func (em *emitter) node(ds *gdtf.DeviceSpecification, nd *gdtf.GeometryNode, parent string) (string, error) {
	p, err := em.define(parent, nd.Name, scene.TypeXform)
	if err != nil {
		return "", err
	}
	dec := xform.Decompose(nd.Transform.Transpose())
	err = em.sink.SetXformOps(p,
		scene.TranslateOp(dec.Translation.MulScalar(em.opts.UnitScale())),
		scene.RotateOp(xform.YZX, dec.Rotation),
		scene.ScaleOp(unit))
	if err != nil {
		return "", err
	}
	if nd.IsBeam {
		return p, em.beam(ds, nd, p)
	}
	return p, em.model(ds, nd, p)
}

// model emits the model child of a node, with a payload to the staged
// mesh of its model when there is one.
func (em *emitter) model(ds *gdtf.DeviceSpecification, nd *gdtf.GeometryNode, parent string) error {
	p, err := em.define(parent, ModelPrim, scene.TypeXform)
	if err != nil {
		return err
	}
	if ds.ConvertedFromLegacyMesh {
		err := em.sink.SetXformOps(p,
			scene.RotateOp(xform.XYZ, quarterTurnX),
			scene.ScaleOp(unit.MulScalar(LegacyMeshScale)))
		if err != nil {
			return err
		}
		if err := em.sink.SetAttribute(p, scene.BoolAttr(GDTFNamespace+"converter_from_3ds", true)); err != nil {
			return err
		}
	}
	file := nd.ModelRef
	if m, ok := ds.Model(nd.ModelRef); ok && m.SourceFile != "" {
		file = m.SourceFile
	}
	if asset, ok := mesh.Resolve(ds.Assets, file); ok {
		return em.sink.AddPayload(p, asset)
	}
	return nil
}

// beam emits the disk light of a beam node: centered half the model
// height below the node, facing down, with the beam diameter.
func (em *emitter) beam(ds *gdtf.DeviceSpecification, nd *gdtf.GeometryNode, parent string) error {
	var height float32
	if m, ok := ds.Model(nd.ModelRef); ok {
		height = m.Height
	}
	p, err := em.light(parent, height, 2*nd.BeamRadius)
	if err != nil {
		return err
	}
	return em.attrs(p, beamAttributes(nd)...)
}

// defaultLight emits the disk light of a device without beams under the
// given node, sized by the width of the node model.
func (em *emitter) defaultLight(ds *gdtf.DeviceSpecification, nd *gdtf.GeometryNode, parent string) error {
	m, _ := ds.Model(nd.ModelRef)
	_, err := em.light(parent, m.Height, m.Width)
	return err
}

// light defines a disk light under the parent, half the given height
// below it and facing down, with the given diameter, both in meters.
func (em *emitter) light(parent string, height, diameter float32) (string, error) {
	p, err := em.define(parent, BeamPrim, scene.TypeDiskLight)
	if err != nil {
		return "", err
	}
	us := em.opts.UnitScale()
	d := diameter * us
	err = em.sink.SetXformOps(p,
		scene.TranslateOp(xform.Vec3(0, -height/2*us, 0)),
		scene.RotateOp(xform.XYZ, quarterTurnX),
		scene.ScaleOp(xform.Vec3(d, d, 1)))
	if err != nil {
		return "", err
	}
	intensity := scene.Attribute{Name: "inputs:intensity", Type: scene.Float, Value: float32(BeamIntensity)}
	return p, em.attrs(p, intensity, scene.BoolAttr("visibleInPrimaryRay", true))
}

// deviceAttributes returns the general attributes of the device root.
func deviceAttributes(ds *gdtf.DeviceSpecification) []scene.Attribute {
	ns := GDTFNamespace
	return []scene.Attribute{
		scene.StringAttr(ns+"name", ds.Name),
		scene.StringAttr(ns+"longName", ds.LongName),
		scene.StringAttr(ns+"manufacturer", ds.Manufacturer),
		scene.StringAttr(ns+"fixtureTypeId", ds.FixtureTypeID),
		scene.StringAttr(ns+"specArchiveName", ds.SpecArchiveName),
		scene.FloatAttr(ns+"legHeight", ds.LegHeight),
		scene.FloatAttr(ns+"weight", ds.Weight),
		scene.FloatAttr(ns+"operatingTemperature:low", ds.LowTemperature),
		scene.FloatAttr(ns+"operatingTemperature:high", ds.HighTemperature),
	}
}

// beamAttributes returns the photometric attributes of a beam.
func beamAttributes(nd *gdtf.GeometryNode) []scene.Attribute {
	ns := GDTFNamespace
	ph := &nd.Photometry
	return []scene.Attribute{
		scene.FloatAttr(ns+"beamRadius", nd.BeamRadius),
		scene.FloatAttr(ns+"beamAngle", ph.BeamAngle),
		scene.StringAttr(ns+"beamType", ph.BeamType),
		scene.FloatAttr(ns+"colorRenderingIndex", ph.ColorRenderingIndex),
		scene.FloatAttr(ns+"colorTemperature", ph.ColorTemperature),
		scene.FloatAttr(ns+"fieldAngle", ph.FieldAngle),
		scene.StringAttr(ns+"lampType", ph.LampType),
		scene.FloatAttr(ns+"luminousFlux", ph.LuminousFlux),
		scene.FloatAttr(ns+"powerConsumption", ph.PowerConsumption),
	}
}
