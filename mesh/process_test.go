// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadMesh() *Mesh {
	return &Mesh{
		Name:      "quad",
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Polygons:  [][]uint32{{0, 1, 2, 3}},
	}
}

func TestTriangulate(t *testing.T) {
	ms := quadMesh()
	ms.Polygons = append(ms.Polygons, []uint32{0, 1}, []uint32{0, 1, 9})
	Triangulate(ms)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, ms.Indices)
	assert.Nil(t, ms.Polygons)
}

func TestFlipV(t *testing.T) {
	ms := quadMesh()
	FlipV(ms)
	assert.Equal(t, [2]float32{0, 1}, ms.UVs[0])
	assert.Equal(t, [2]float32{1, 0}, ms.UVs[2])
}

func TestFixWinding(t *testing.T) {
	ms := quadMesh()
	Triangulate(ms)
	// normals point down, against the counter-clockwise winding
	ms.Normals = [][3]float32{{0, 0, -1}, {0, 0, -1}, {0, 0, -1}, {0, 0, -1}}
	FixWinding(ms)
	assert.Equal(t, []uint32{0, 2, 1, 0, 3, 2}, ms.Indices)
}

func TestGenerateNormals(t *testing.T) {
	ms := quadMesh()
	Triangulate(ms)
	GenerateNormals(ms)
	require.Len(t, ms.Normals, 4)
	for _, n := range ms.Normals {
		assert.Equal(t, [3]float32{0, 0, 1}, n)
	}

	// supplied normals are kept
	ms.Normals[0] = [3]float32{1, 0, 0}
	GenerateNormals(ms)
	assert.Equal(t, [3]float32{1, 0, 0}, ms.Normals[0])
}

func TestWeld(t *testing.T) {
	// two separate triangles sharing an edge with duplicated vertices
	ms := &Mesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {1, 1, 0}, {0, 1, 0}, {5, 5, 5}},
		Polygons:  [][]uint32{{0, 1, 2}, {3, 4, 5}},
	}
	Triangulate(ms)
	GenerateNormals(ms)
	Weld(ms)
	assert.Len(t, ms.Positions, 4)
	assert.Len(t, ms.Normals, 4)
	assert.Nil(t, ms.UVs)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, ms.Indices)
}

func TestProcess(t *testing.T) {
	md := &Model{FlipV: true, Meshes: []*Mesh{quadMesh(), {Name: "empty"}}}
	Process(md)
	require.Len(t, md.Meshes, 1)
	assert.False(t, md.FlipV)
	assert.Equal(t, 2, md.NumTriangles())
	ms := md.Meshes[0]
	assert.Len(t, ms.Normals, len(ms.Positions))
	assert.Equal(t, [2]float32{0, 1}, ms.UVs[0])
}

func TestOBJDecode(t *testing.T) {
	src := `# quad
mtllib quad.mtl
o Quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl none
s off
f 1/1/1 2/2/1 3/3/1 4/4/1
o Empty
`
	md, err := (&OBJDecoder{}).Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, md.Meshes, 1)
	ms := md.Meshes[0]
	assert.Equal(t, "Quad", ms.Name)
	assert.Len(t, ms.Positions, 4)
	assert.Len(t, ms.Normals, 4)
	assert.Len(t, ms.UVs, 4)
	Process(md)
	assert.Equal(t, 2, md.NumTriangles())
	assert.Len(t, md.Meshes[0].Positions, 4)

	_, err = (&OBJDecoder{}).Decode(strings.NewReader("v 0 0 0\nf 1 2 3\n"))
	assert.Error(t, err)
}
