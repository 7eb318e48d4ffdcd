// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Generator is recorded in the asset header of exported glTF files.
const Generator = "cogentcore.org/lighting"

// GLTFDecoder decodes glTF 2.0 files, both the JSON (.gltf) and the
// binary (.glb) container. Buffers must be embedded: external buffer
// files are not available inside an archive.
type GLTFDecoder struct{}

func (dec *GLTFDecoder) Desc() string {
	return ".gltf, .glb = glTF 2.0 JSON or binary. Triangle, strip and fan primitives are read with node transforms applied; points and lines are ignored."
}

// Decode reads the given data and decodes it into a new Model.
func (dec *GLTFDecoder) Decode(r io.Reader) (*Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf.Decode: %w: %w", ErrCorrupt, err)
	}
	md := &Model{}
	roots := sceneRoots(doc)
	if len(roots) == 0 {
		for mi := range doc.Meshes {
			if err := addGLTFMesh(md, doc, mi, identity4); err != nil {
				return nil, err
			}
		}
		return md, nil
	}
	visited := map[int]bool{}
	var walk func(ni int, parent mat4) error
	walk = func(ni int, parent mat4) error {
		if ni < 0 || ni >= len(doc.Nodes) || visited[ni] {
			return nil
		}
		visited[ni] = true
		nd := doc.Nodes[ni]
		world := parent.mul(nodeMatrix(nd))
		if nd.Mesh != nil {
			if err := addGLTFMesh(md, doc, *nd.Mesh, world); err != nil {
				return err
			}
		}
		for _, ci := range nd.Children {
			if err := walk(ci, world); err != nil {
				return err
			}
		}
		return nil
	}
	for _, ni := range roots {
		if err := walk(ni, identity4); err != nil {
			return nil, err
		}
	}
	return md, nil
}

// sceneRoots returns the root nodes of the default scene, or of the first
// scene, or all parentless nodes when the document has no scene.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
			si = *doc.Scene
		}
		return doc.Scenes[si].Nodes
	}
	child := map[int]bool{}
	for _, nd := range doc.Nodes {
		for _, ci := range nd.Children {
			child[ci] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func addGLTFMesh(md *Model, doc *gltf.Document, mi int, world mat4) error {
	if mi < 0 || mi >= len(doc.Meshes) {
		return fmt.Errorf("gltf.Decode: mesh index %d out of range: %w", mi, ErrCorrupt)
	}
	gm := doc.Meshes[mi]
	for pi, p := range gm.Primitives {
		ms, err := readPrimitive(doc, p)
		if err != nil {
			return fmt.Errorf("gltf.Decode: mesh %q primitive %d: %w", gm.Name, pi, err)
		}
		if ms == nil {
			continue
		}
		ms.Name = gm.Name
		if len(gm.Primitives) > 1 {
			ms.Name = fmt.Sprintf("%s_%d", gm.Name, pi)
		}
		for i, v := range ms.Positions {
			ms.Positions[i] = world.mulPoint(v)
		}
		for i, n := range ms.Normals {
			ms.Normals[i] = world.mulDir(n)
		}
		md.Meshes = append(md.Meshes, ms)
	}
	return nil
}

func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range: %w", idx, ErrCorrupt)
	}
	return doc.Accessors[idx], nil
}

// readPrimitive reads one primitive into a mesh, returning nil for
// primitive modes without triangles.
func readPrimitive(doc *gltf.Document, p *gltf.Primitive) (*Mesh, error) {
	switch p.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
	default:
		return nil, nil
	}
	pi, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acr, err := accessor(doc, pi)
	if err != nil {
		return nil, err
	}
	ms := &Mesh{}
	if ms.Positions, err = modeler.ReadPosition(doc, acr, nil); err != nil {
		return nil, err
	}
	if ni, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := accessor(doc, ni)
		if err != nil {
			return nil, err
		}
		if ms.Normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, err
		}
	}
	if ti, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := accessor(doc, ti)
		if err != nil {
			return nil, err
		}
		if ms.UVs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return nil, err
		}
	}
	if len(ms.Normals) != len(ms.Positions) {
		ms.Normals = nil
	}
	if len(ms.UVs) != len(ms.Positions) {
		ms.UVs = nil
	}

	var idx []uint32
	if p.Indices != nil {
		acr, err := accessor(doc, *p.Indices)
		if err != nil {
			return nil, err
		}
		if idx, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, err
		}
	} else {
		idx = make([]uint32, len(ms.Positions))
		for i := range idx {
			idx[i] = uint32(i)
		}
	}
	switch p.Mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(idx); i += 3 {
			ms.Polygons = append(ms.Polygons, []uint32{idx[i], idx[i+1], idx[i+2]})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				ms.Polygons = append(ms.Polygons, []uint32{idx[i], idx[i+1], idx[i+2]})
			} else {
				ms.Polygons = append(ms.Polygons, []uint32{idx[i+1], idx[i], idx[i+2]})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(idx); i++ {
			ms.Polygons = append(ms.Polygons, []uint32{idx[0], idx[i], idx[i+1]})
		}
	}
	return ms, nil
}

// mat4 is a column-major 4x4 matrix, as used by glTF.
type mat4 [16]float64

var identity4 = mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func (m mat4) mul(o mat4) mat4 {
	var r mat4
	for c := 0; c < 4; c++ {
		for rw := 0; rw < 4; rw++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += m[k*4+rw] * o[c*4+k]
			}
			r[c*4+rw] = s
		}
	}
	return r
}

func (m mat4) mulPoint(v [3]float32) [3]float32 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return [3]float32{
		float32(m[0]*x + m[4]*y + m[8]*z + m[12]),
		float32(m[1]*x + m[5]*y + m[9]*z + m[13]),
		float32(m[2]*x + m[6]*y + m[10]*z + m[14]),
	}
}

func (m mat4) mulDir(v [3]float32) [3]float32 {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	return normalize([3]float32{
		float32(m[0]*x + m[4]*y + m[8]*z),
		float32(m[1]*x + m[5]*y + m[9]*z),
		float32(m[2]*x + m[6]*y + m[10]*z),
	})
}

// nodeMatrix returns the local transform of a node, either its explicit
// matrix or the composition of its translation, rotation and scale.
func nodeMatrix(nd *gltf.Node) mat4 {
	m := mat4(nd.MatrixOrDefault())
	if m != identity4 {
		return m
	}
	t := nd.TranslationOrDefault()
	q := nd.RotationOrDefault()
	s := nd.ScaleOrDefault()
	x, y, z, w := q[0], q[1], q[2], q[3]
	return mat4{
		(1 - 2*(y*y+z*z)) * s[0], 2 * (x*y + z*w) * s[0], 2 * (x*z - y*w) * s[0], 0,
		2 * (x*y - z*w) * s[1], (1 - 2*(x*x+z*z)) * s[1], 2 * (y*z + x*w) * s[1], 0,
		2 * (x*z + y*w) * s[2], 2 * (y*z - x*w) * s[2], (1 - 2*(x*x+y*y)) * s[2], 0,
		t[0], t[1], t[2], 1,
	}
}

// Encode writes the given processed model as a glTF 2.0 JSON document
// with its binary buffer embedded as a base64 data URI, so that every
// staged asset is a single self-contained file. The output depends only
// on the model.
func Encode(w io.Writer, md *Model) error {
	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator
	scene := doc.Scenes[0]
	for _, ms := range md.Meshes {
		if ms.NumTriangles() == 0 {
			continue
		}
		attrs := map[string]int{
			gltf.POSITION: modeler.WritePosition(doc, ms.Positions),
		}
		if len(ms.Normals) == len(ms.Positions) {
			attrs[gltf.NORMAL] = modeler.WriteNormal(doc, ms.Normals)
		}
		if len(ms.UVs) == len(ms.Positions) {
			attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, ms.UVs)
		}
		p := &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, ms.Indices)),
			Attributes: attrs,
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: ms.Name, Primitives: []*gltf.Primitive{p}})
		doc.Nodes = append(doc.Nodes, &gltf.Node{Name: ms.Name, Mesh: gltf.Index(len(doc.Meshes) - 1)})
		scene.Nodes = append(scene.Nodes, len(doc.Nodes)-1)
	}
	if len(doc.Meshes) == 0 {
		return fmt.Errorf("gltf.Encode: %w", ErrEmpty)
	}
	for _, b := range doc.Buffers {
		b.URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.Data)
	}
	enc := gltf.NewEncoder(w)
	enc.AsBinary = false
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("gltf.Encode: %w", err)
	}
	return nil
}
