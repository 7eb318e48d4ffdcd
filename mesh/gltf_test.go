// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processedQuad(t *testing.T) *Model {
	md := &Model{Name: "Quad", Meshes: []*Mesh{quadMesh()}}
	Process(md)
	require.Equal(t, 2, md.NumTriangles())
	return md
}

func TestEncodeDecode(t *testing.T) {
	md := processedQuad(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, md))
	assert.Contains(t, buf.String(), "data:application/octet-stream;base64,")
	assert.Contains(t, buf.String(), Generator)
	assert.Equal(t, "gltf", Detect(buf.Bytes(), "whatever.bin"))

	back, err := (&GLTFDecoder{}).Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.False(t, back.FlipV)
	require.Len(t, back.Meshes, 1)
	ms := back.Meshes[0]
	assert.Equal(t, "quad", ms.Name)
	assert.Equal(t, md.Meshes[0].Positions, ms.Positions)
	assert.Len(t, ms.Normals, len(ms.Positions))
	assert.Len(t, ms.UVs, len(ms.Positions))
	assert.Len(t, ms.Polygons, 2)
}

func TestEncodeDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, processedQuad(t)))
	require.NoError(t, Encode(&b, processedQuad(t)))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, &Model{}), ErrEmpty)
}

func TestGLTFCorrupt(t *testing.T) {
	_, err := (&GLTFDecoder{}).Decode(bytes.NewReader([]byte(`{"asset": {"version": "2.0"`)))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDetect(t *testing.T) {
	tds := quad3DS("Base")
	assert.Equal(t, "3ds", Detect(tds, "Base.3ds"))
	assert.Equal(t, "3ds", Detect(tds, "misnamed.glb"))

	glb := append([]byte("glTF"), 2, 0, 0, 0, 20, 0, 0, 0)
	assert.Equal(t, "glb", Detect(glb, "Head"))

	assert.Equal(t, "gltf", Detect([]byte(` {"asset":{"version":"2.0"}}`), "Head"))
	assert.Equal(t, "obj", Detect([]byte("v 0 0 0\n"), "Yoke.OBJ"))
	assert.Equal(t, "", Detect([]byte("hello"), "notes.txt"))
}

func TestStagedName(t *testing.T) {
	assert.Equal(t, "Base.gltf", StagedName("models/gltf/Base.glb"))
	assert.Equal(t, "Base.gltf", StagedName("Base.gltf"))
	assert.Equal(t, "Base_3ds.gltf", StagedName("models/3ds/Base.3ds"))
	assert.Equal(t, "Head", Stem(`models\3ds\Head.3ds`))
}
