// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/chewxy/math32"

// Process applies the fixed post-process pipeline to every mesh of the
// model, in order: triangulate polygons into fans, flip the V texture
// coordinate when the model has a bottom-left origin, make the winding of
// each triangle agree with its supplied normals, generate smooth normals
// where none were supplied, and weld identical vertices. Meshes left
// without triangles are removed.
func Process(md *Model) {
	var keep []*Mesh
	for _, ms := range md.Meshes {
		Triangulate(ms)
		if md.FlipV {
			FlipV(ms)
		}
		FixWinding(ms)
		GenerateNormals(ms)
		Weld(ms)
		if ms.NumTriangles() > 0 {
			keep = append(keep, ms)
		}
	}
	md.Meshes = keep
	md.FlipV = false
}

// Triangulate converts the polygons of the mesh into a triangle list
// using fans around the first vertex of each polygon. Polygons with an
// index out of range or fewer than three vertices are dropped.
func Triangulate(ms *Mesh) {
	n := uint32(len(ms.Positions))
	ms.Indices = ms.Indices[:0]
	for _, poly := range ms.Polygons {
		if len(poly) < 3 || !indicesValid(poly, n) {
			continue
		}
		for i := 1; i+1 < len(poly); i++ {
			ms.Indices = append(ms.Indices, poly[0], poly[i], poly[i+1])
		}
	}
	ms.Polygons = nil
}

func indicesValid(idx []uint32, n uint32) bool {
	for _, i := range idx {
		if i >= n {
			return false
		}
	}
	return true
}

// FlipV flips the V texture coordinate: v becomes 1 - v.
func FlipV(ms *Mesh) {
	for i := range ms.UVs {
		ms.UVs[i][1] = 1 - ms.UVs[i][1]
	}
}

// FixWinding reverses any triangle whose geometric normal points away
// from the average of its supplied vertex normals. It does nothing when
// the mesh has no normals.
func FixWinding(ms *Mesh) {
	if len(ms.Normals) != len(ms.Positions) {
		return
	}
	for t := 0; t+2 < len(ms.Indices); t += 3 {
		a, b, c := ms.Indices[t], ms.Indices[t+1], ms.Indices[t+2]
		fn := faceNormal(ms.Positions[a], ms.Positions[b], ms.Positions[c])
		vn := add(add(ms.Normals[a], ms.Normals[b]), ms.Normals[c])
		if dot(fn, vn) < 0 {
			ms.Indices[t+1], ms.Indices[t+2] = c, b
		}
	}
}

// GenerateNormals computes smooth vertex normals for a mesh without
// normals, averaging the area-weighted normals of all the triangles that
// share a vertex position. Vertices on degenerate geometry get +Y.
func GenerateNormals(ms *Mesh) {
	if len(ms.Normals) == len(ms.Positions) {
		return
	}
	acc := make(map[[3]float32][3]float32, len(ms.Positions))
	for t := 0; t+2 < len(ms.Indices); t += 3 {
		a, b, c := ms.Indices[t], ms.Indices[t+1], ms.Indices[t+2]
		fn := faceNormal(ms.Positions[a], ms.Positions[b], ms.Positions[c])
		for _, i := range []uint32{a, b, c} {
			p := ms.Positions[i]
			acc[p] = add(acc[p], fn)
		}
	}
	ms.Normals = make([][3]float32, len(ms.Positions))
	for i, p := range ms.Positions {
		n := normalize(acc[p])
		if n == ([3]float32{}) {
			n = [3]float32{0, 1, 0}
		}
		ms.Normals[i] = n
	}
}

// vertexKey identifies a vertex by all of its attributes.
type vertexKey struct {
	pos [3]float32
	nrm [3]float32
	uv  [2]float32
}

// Weld merges vertices with identical attributes and drops vertices that
// no triangle references. New indices are assigned in order of first use,
// so the result is deterministic.
func Weld(ms *Mesh) {
	hasN := len(ms.Normals) == len(ms.Positions)
	hasUV := len(ms.UVs) == len(ms.Positions)
	seen := make(map[vertexKey]uint32, len(ms.Positions))
	var pos, nrm [][3]float32
	var uvs [][2]float32
	for k, i := range ms.Indices {
		key := vertexKey{pos: ms.Positions[i]}
		if hasN {
			key.nrm = ms.Normals[i]
		}
		if hasUV {
			key.uv = ms.UVs[i]
		}
		ni, ok := seen[key]
		if !ok {
			ni = uint32(len(pos))
			seen[key] = ni
			pos = append(pos, key.pos)
			if hasN {
				nrm = append(nrm, key.nrm)
			}
			if hasUV {
				uvs = append(uvs, key.uv)
			}
		}
		ms.Indices[k] = ni
	}
	ms.Positions, ms.Normals, ms.UVs = pos, nrm, uvs
}

func add(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

// faceNormal returns the unnormalized normal of the counter-clockwise
// triangle a, b, c. Its length is twice the triangle area.
func faceNormal(a, b, c [3]float32) [3]float32 {
	return cross(sub(b, a), sub(c, a))
}

func normalize(v [3]float32) [3]float32 {
	l := math32.Sqrt(dot(v, v))
	if l == 0 {
		return v
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
