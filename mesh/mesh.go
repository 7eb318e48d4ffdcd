// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh imports the 3D model assets embedded in device archives
// (3DS, glTF, GLB, and Wavefront OBJ), prepares them with a fixed
// post-process pipeline, and re-exports them as glTF 2.0 files in a
// staging directory, recording where each asset was written so that the
// scene emitter can reference it.
package mesh

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrUnsupported is returned when no decoder handles the asset format.
	ErrUnsupported = errors.New("mesh: unsupported asset format")

	// ErrEmpty is returned when an asset decodes to no triangles.
	ErrEmpty = errors.New("mesh: asset contains no geometry")
)

// Mesh is one decoded mesh. Normals and UVs are per-vertex and are either
// empty or the same length as Positions.
type Mesh struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32

	// Polygons are the faces as decoded, each a list of vertex indices
	// with three or more entries. They are consumed by [Process].
	Polygons [][]uint32

	// Indices is the triangle list produced by [Process].
	Indices []uint32
}

// NumTriangles returns the number of triangles in the processed mesh.
func (ms *Mesh) NumTriangles() int {
	return len(ms.Indices) / 3
}

// Model is a decoded asset, made of one or more meshes.
type Model struct {
	Name   string
	Meshes []*Mesh

	// FlipV is set by decoders whose texture coordinate origin is the
	// bottom-left corner, which is flipped to the top-left glTF origin.
	FlipV bool
}

// NumTriangles returns the total number of triangles in all meshes.
func (md *Model) NumTriangles() int {
	n := 0
	for _, ms := range md.Meshes {
		n += ms.NumTriangles()
	}
	return n
}

// Decoder decodes one asset format into a [Model].
// This interface is implemented by the different format-specific decoders.
type Decoder interface {
	// Desc returns the description of this decoder
	Desc() string

	// Decode reads the given data and decodes it into a new Model.
	Decode(r io.Reader) (*Model, error)
}

// Decoders is the list of decoders, indexed by the extension they handle
// (without the dot).
var Decoders = map[string]Decoder{
	"3ds":  &TDSDecoder{},
	"gltf": &GLTFDecoder{},
	"glb":  &GLTFDecoder{},
	"obj":  &OBJDecoder{},
}

// DecoderFor returns the decoder for the given extension (without the dot).
func DecoderFor(ext string) (Decoder, error) {
	dec, ok := Decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("mesh.DecoderFor: %q: %w", ext, ErrUnsupported)
	}
	return dec, nil
}

// Stem returns the base name of the given source file without its extension.
func Stem(source string) string {
	b := path.Base(strings.ReplaceAll(source, "\\", "/"))
	return strings.TrimSuffix(b, path.Ext(b))
}

// StagedName returns the file name an asset is staged under. glTF sources
// keep their stem, other formats get the source extension appended so that
// the 3DS and glTF versions of the same model never overwrite each other.
func StagedName(source string) string {
	stem := Stem(source)
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(source), "."))
	switch ext {
	case "gltf", "glb", "":
		return stem + ".gltf"
	}
	return stem + "_" + ext + ".gltf"
}
