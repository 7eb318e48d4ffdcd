// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gdtf

import (
	"strings"

	"cogentcore.org/lighting/xform"
	"cogentcore.org/lighting/xmlx"
	"github.com/beevik/etree"
)

const (
	// MaxDepth is the number of geometry levels read. Deeper nodes are
	// silently dropped.
	MaxDepth = 4

	// MaxSiblings is the number of child elements scanned per level.
	// Later siblings are silently dropped.
	MaxSiblings = 8
)

// geometryTags are the element tags that become geometry nodes.
var geometryTags = map[string]bool{
	"Geometry": true,
	"Axis":     true,
	"Beam":     true,
}

// IsPigtail returns whether a node with the given name or model is a
// cable stub, which is excluded from the geometry tree.
func IsPigtail(name, model string) bool {
	return strings.EqualFold(name, "pigtail") || strings.EqualFold(model, "pigtail")
}

// WalkGeometry returns the flattened pre-order list of geometry nodes
// below the given element, starting at the given depth. Only elements
// with a geometry tag and a Model attribute become nodes; other elements
// and pigtails are skipped along with their children. The walk reads at
// most [MaxDepth] levels and scans at most [MaxSiblings] child elements
// per level. Each call returns its own list, which is concatenated by
// the caller.
func WalkGeometry(el *etree.Element, depth int) []GeometryNode {
	if el == nil || depth >= MaxDepth {
		return nil
	}
	var nodes []GeometryNode
	for i, child := range el.ChildElements() {
		if i >= MaxSiblings {
			break
		}
		if !geometryTags[child.Tag] {
			continue
		}
		model := xmlx.Attr(child, "Model")
		if !model.OK {
			continue
		}
		name := strings.ReplaceAll(xmlx.Attr(child, "Name").String(), " ", "_")
		if IsPigtail(name, model.String()) {
			continue
		}
		nd := GeometryNode{
			Name:      name,
			Tag:       child.Tag,
			ModelRef:  model.String(),
			Transform: xform.Identity(),
			Depth:     depth,
		}
		if pos := xmlx.Attr(child, "Position"); pos.OK {
			nd.Transform = xform.ParseMatrix(pos.String())
		}
		if child.Tag == "Beam" {
			nd.IsBeam = true
			nd.BeamRadius = xmlx.Attr(child, "BeamRadius").FloatOr(0)
			nd.Photometry = readPhotometry(child)
		}
		nodes = append(nodes, nd)
		nodes = append(nodes, WalkGeometry(child, depth+1)...)
	}
	return nodes
}

func readPhotometry(el *etree.Element) Photometry {
	return Photometry{
		LampType:            xmlx.Attr(el, "LampType").String(),
		BeamType:            xmlx.Attr(el, "BeamType").String(),
		PowerConsumption:    xmlx.Attr(el, "PowerConsumption").FloatOr(0),
		LuminousFlux:        xmlx.Attr(el, "LuminousFlux").FloatOr(0),
		ColorTemperature:    xmlx.Attr(el, "ColorTemperature").FloatOr(0),
		BeamAngle:           xmlx.Attr(el, "BeamAngle").FloatOr(0),
		FieldAngle:          xmlx.Attr(el, "FieldAngle").FloatOr(0),
		ColorRenderingIndex: xmlx.Attr(el, "ColorRenderingIndex").FloatOr(0),
	}
}
