// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OBJDecoder decodes Wavefront OBJ files. Only geometry is read:
// material libraries (.mtl) are ignored. Basic format info:
// https://en.wikipedia.org/wiki/Wavefront_.obj_file
type OBJDecoder struct{}

func (dec *OBJDecoder) Desc() string {
	return ".obj = Wavefront OBJ format. Objects and groups become separate meshes; materials are ignored."
}

// objState holds the shared vertex arrays while decoding. Face corners
// index these arrays independently, so every corner is copied into the
// current mesh as its own vertex and merged later by the weld step.
type objState struct {
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32

	model   *Model
	current *Mesh
	line    int
}

// Decode reads the given data and decodes it into a new Model.
func (dec *OBJDecoder) Decode(r io.Reader) (*Model, error) {
	st := &objState{model: &Model{FlipV: true}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		st.line++
		if err := st.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("obj.Decode: line %d: %w", st.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj.Decode: %w", err)
	}
	// meshes without faces carry no geometry
	var meshes []*Mesh
	for _, ms := range st.model.Meshes {
		if len(ms.Polygons) > 0 {
			meshes = append(meshes, ms)
		}
	}
	st.model.Meshes = meshes
	return st.model, nil
}

func (st *objState) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "o", "g":
		name := fmt.Sprintf("unnamed%d", st.line)
		if len(fields) > 1 {
			name = fields[1]
		}
		st.newMesh(name)
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		st.positions = append(st.positions, [3]float32{v[0], v[1], v[2]})
	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return err
		}
		st.normals = append(st.normals, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return err
		}
		st.uvs = append(st.uvs, [2]float32{v[0], v[1]})
	case "f":
		return st.parseFace(fields[1:])
	}
	// mtllib, usemtl, s and other statements are not needed for geometry
	return nil
}

func (st *objState) newMesh(name string) {
	st.current = &Mesh{Name: name}
	st.model.Meshes = append(st.model.Meshes, st.current)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	vals := make([]float32, n)
	for i := range vals {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		vals[i] = float32(f)
	}
	return vals, nil
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into
// a 0-based index for an array of the given length.
func resolveIndex(s string, n int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v = n + v
	default:
		return 0, errors.New("index value equal to 0")
	}
	if v < 0 || v >= n {
		return 0, fmt.Errorf("index %s out of range", s)
	}
	return v, nil
}

// parseFace parses a face description:
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (st *objState) parseFace(fields []string) error {
	if len(fields) < 3 {
		return errors.New("face with less than 3 vertices")
	}
	if st.current == nil {
		// faces before any o or g statement go into a default mesh
		st.newMesh(fmt.Sprintf("unnamed%d", st.line))
	}
	ms := st.current
	poly := make([]uint32, 0, len(fields))
	for _, f := range fields {
		parts := strings.Split(f, "/")
		vi, err := resolveIndex(parts[0], len(st.positions))
		if err != nil {
			return err
		}
		nrm := [3]float32{}
		hasNorm := false
		if len(parts) > 2 && parts[2] != "" {
			ni, err := resolveIndex(parts[2], len(st.normals))
			if err != nil {
				return err
			}
			nrm, hasNorm = st.normals[ni], true
		}
		uv := [2]float32{}
		hasUV := false
		if len(parts) > 1 && parts[1] != "" {
			ti, err := resolveIndex(parts[1], len(st.uvs))
			if err != nil {
				return err
			}
			uv, hasUV = st.uvs[ti], true
		}
		idx := uint32(len(ms.Positions))
		ms.Positions = append(ms.Positions, st.positions[vi])
		// a mesh only keeps normals or uvs when every corner has them
		if hasNorm && len(ms.Normals) == int(idx) {
			ms.Normals = append(ms.Normals, nrm)
		}
		if hasUV && len(ms.UVs) == int(idx) {
			ms.UVs = append(ms.UVs, uv)
		}
		poly = append(poly, idx)
	}
	if len(ms.Normals) != len(ms.Positions) {
		ms.Normals = nil
	}
	if len(ms.UVs) != len(ms.Positions) {
		ms.UVs = nil
	}
	ms.Polygons = append(ms.Polygons, poly)
	return nil
}
