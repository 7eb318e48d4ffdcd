// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrCorrupt is returned when an asset is truncated or structurally invalid.
var ErrCorrupt = errors.New("mesh: corrupt asset")

// 3DS chunk identifiers. Only the mesh data chunks are read; materials,
// lights, cameras and keyframes are skipped.
const (
	chunkMain     = 0x4D4D
	chunkEditor   = 0x3D3D
	chunkObject   = 0x4000
	chunkTriMesh  = 0x4100
	chunkVertices = 0x4110
	chunkFaces    = 0x4120
	chunkUVs      = 0x4140
)

// chunkHeader is the size of the chunk id and length.
const chunkHeader = 6

type chunk struct {
	id   uint16
	data []byte
}

// readChunks splits the given data into consecutive chunks.
func readChunks(b []byte) ([]chunk, error) {
	var cs []chunk
	for len(b) > 0 {
		if len(b) < chunkHeader {
			return cs, fmt.Errorf("truncated chunk header: %w", ErrCorrupt)
		}
		id := binary.LittleEndian.Uint16(b)
		n := binary.LittleEndian.Uint32(b[2:])
		if n < chunkHeader || int64(n) > int64(len(b)) {
			return cs, fmt.Errorf("chunk 0x%04X length %d out of range: %w", id, n, ErrCorrupt)
		}
		cs = append(cs, chunk{id: id, data: b[chunkHeader:n]})
		b = b[n:]
	}
	return cs, nil
}

// TDSDecoder decodes Autodesk 3DS files, the legacy mesh format of
// device archives.
type TDSDecoder struct{}

func (dec *TDSDecoder) Desc() string {
	return ".3ds = Autodesk 3D Studio mesh format. Only triangle meshes with optional texture coordinates are read; materials and animation are ignored."
}

// Decode reads the given data and decodes it into a new Model.
func (dec *TDSDecoder) Decode(r io.Reader) (*Model, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	top, err := readChunks(b)
	if err != nil {
		return nil, fmt.Errorf("3ds.Decode: %w", err)
	}
	if len(top) == 0 || top[0].id != chunkMain {
		return nil, fmt.Errorf("3ds.Decode: missing main chunk: %w", ErrCorrupt)
	}
	md := &Model{FlipV: true}
	main, err := readChunks(top[0].data)
	if err != nil {
		return nil, fmt.Errorf("3ds.Decode: %w", err)
	}
	for _, c := range main {
		if c.id != chunkEditor {
			continue
		}
		objs, err := readChunks(c.data)
		if err != nil {
			return nil, fmt.Errorf("3ds.Decode: %w", err)
		}
		for _, oc := range objs {
			if oc.id != chunkObject {
				continue
			}
			meshes, err := decodeObject(oc.data)
			if err != nil {
				return nil, fmt.Errorf("3ds.Decode: %w", err)
			}
			md.Meshes = append(md.Meshes, meshes...)
		}
	}
	return md, nil
}

// decodeObject decodes a named object chunk: a zero-terminated name
// followed by sub-chunks.
func decodeObject(b []byte) ([]*Mesh, error) {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return nil, fmt.Errorf("unterminated object name: %w", ErrCorrupt)
	}
	name := string(b[:end])
	subs, err := readChunks(b[end+1:])
	if err != nil {
		return nil, err
	}
	var meshes []*Mesh
	for _, c := range subs {
		if c.id != chunkTriMesh {
			continue
		}
		ms, err := decodeTriMesh(c.data)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", name, err)
		}
		ms.Name = name
		meshes = append(meshes, ms)
	}
	return meshes, nil
}

func decodeTriMesh(b []byte) (*Mesh, error) {
	subs, err := readChunks(b)
	if err != nil {
		return nil, err
	}
	ms := &Mesh{}
	for _, c := range subs {
		switch c.id {
		case chunkVertices:
			n, rest, err := readCount(c.data, 12)
			if err != nil {
				return nil, err
			}
			ms.Positions = make([][3]float32, n)
			for i := range ms.Positions {
				ms.Positions[i] = [3]float32{readFloat(rest, 12*i), readFloat(rest, 12*i+4), readFloat(rest, 12*i+8)}
			}
		case chunkUVs:
			n, rest, err := readCount(c.data, 8)
			if err != nil {
				return nil, err
			}
			ms.UVs = make([][2]float32, n)
			for i := range ms.UVs {
				ms.UVs[i] = [2]float32{readFloat(rest, 8*i), readFloat(rest, 8*i+4)}
			}
		case chunkFaces:
			// each face is three indices and a flags word; material and
			// smoothing group sub-chunks follow the face list
			n, rest, err := readCount(c.data, 8)
			if err != nil {
				return nil, err
			}
			ms.Polygons = make([][]uint32, n)
			for i := range ms.Polygons {
				o := 8 * i
				ms.Polygons[i] = []uint32{
					uint32(binary.LittleEndian.Uint16(rest[o:])),
					uint32(binary.LittleEndian.Uint16(rest[o+2:])),
					uint32(binary.LittleEndian.Uint16(rest[o+4:])),
				}
			}
		}
	}
	if len(ms.UVs) != len(ms.Positions) {
		ms.UVs = nil
	}
	return ms, nil
}

// readCount reads a uint16 element count and checks that the remaining
// data holds that many elements of the given size.
func readCount(b []byte, size int) (int, []byte, error) {
	if len(b) < 2 {
		return 0, nil, fmt.Errorf("truncated element count: %w", ErrCorrupt)
	}
	n := int(binary.LittleEndian.Uint16(b))
	rest := b[2:]
	if n*size > len(rest) {
		return 0, nil, fmt.Errorf("%d elements of %d bytes exceed chunk: %w", n, size, ErrCorrupt)
	}
	return n, rest, nil
}

func readFloat(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}
