// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkBytes encodes a 3DS chunk with the given id around the given parts.
func chunkBytes(id uint16, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	b := make([]byte, chunkHeader, chunkHeader+len(body))
	binary.LittleEndian.PutUint16(b, id)
	binary.LittleEndian.PutUint32(b[2:], uint32(chunkHeader+len(body)))
	return append(b, body...)
}

func u16(v int) []byte {
	return binary.LittleEndian.AppendUint16(nil, uint16(v))
}

func f32s(vs ...float32) []byte {
	var b []byte
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

// quad3DS returns a 3DS file with one object holding a unit quad in the
// XY plane, made of two counter-clockwise triangles.
func quad3DS(name string) []byte {
	verts := append(u16(4), f32s(0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0)...)
	faces := u16(2)
	for _, f := range [][3]int{{0, 1, 2}, {0, 2, 3}} {
		faces = append(faces, u16(f[0])...)
		faces = append(faces, u16(f[1])...)
		faces = append(faces, u16(f[2])...)
		faces = append(faces, u16(0)...)
	}
	uvs := append(u16(4), f32s(0, 0, 1, 0, 1, 1, 0, 1)...)
	mesh := chunkBytes(chunkTriMesh,
		chunkBytes(chunkVertices, verts),
		chunkBytes(chunkFaces, faces, chunkBytes(0x4150, []byte{0, 0, 0, 0, 0, 0, 0, 0})),
		chunkBytes(chunkUVs, uvs),
	)
	obj := chunkBytes(chunkObject, []byte(name), []byte{0}, mesh)
	return chunkBytes(chunkMain,
		chunkBytes(0x0002, f32s(3)),
		chunkBytes(chunkEditor, chunkBytes(0xAFFF, []byte("material")), obj),
		chunkBytes(0xB000),
	)
}

func TestTDSDecode(t *testing.T) {
	md, err := (&TDSDecoder{}).Decode(bytes.NewReader(quad3DS("Base")))
	require.NoError(t, err)
	assert.True(t, md.FlipV)
	require.Len(t, md.Meshes, 1)
	ms := md.Meshes[0]
	assert.Equal(t, "Base", ms.Name)
	assert.Len(t, ms.Positions, 4)
	assert.Equal(t, [3]float32{1, 1, 0}, ms.Positions[2])
	assert.Equal(t, [][]uint32{{0, 1, 2}, {0, 2, 3}}, ms.Polygons)
	assert.Len(t, ms.UVs, 4)
	assert.Nil(t, ms.Normals)
}

func TestTDSCorrupt(t *testing.T) {
	data := quad3DS("Base")
	_, err := (&TDSDecoder{}).Decode(bytes.NewReader(data[:len(data)-5]))
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = (&TDSDecoder{}).Decode(bytes.NewReader(chunkBytes(chunkEditor)))
	assert.ErrorIs(t, err, ErrCorrupt)

	// face list longer than its chunk
	bad := chunkBytes(chunkMain, chunkBytes(chunkEditor, chunkBytes(chunkObject, []byte("x\x00"),
		chunkBytes(chunkTriMesh, chunkBytes(chunkFaces, u16(10))))))
	_, err = (&TDSDecoder{}).Decode(bytes.NewReader(bad))
	assert.ErrorIs(t, err, ErrCorrupt)
}
