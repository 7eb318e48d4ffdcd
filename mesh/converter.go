// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Converter converts embedded model assets into staged glTF files.
type Converter struct {

	// Staging is where converted assets are written.
	Staging *Staging

	// Logger receives debug output about each conversion. It defaults
	// to [slog.Default].
	Logger *slog.Logger
}

// NewConverter returns a new converter writing into the given staging context.
func NewConverter(st *Staging) *Converter {
	return &Converter{Staging: st, Logger: slog.Default()}
}

func (cv *Converter) logger() *slog.Logger {
	if cv.Logger == nil {
		return slog.Default()
	}
	return cv.Logger
}

// Convert imports the given asset, detecting its format from the content
// and then from the source file name, runs the [Process] pipeline on it,
// and writes it as glTF into the staging directory of the given owner.
// It returns the staged path. Any error is specific to this asset.
func (cv *Converter) Convert(data []byte, source, owner string) (string, error) {
	ext := Detect(data, source)
	if ext == "" {
		return "", fmt.Errorf("mesh.Convert: %q: %w", source, ErrUnsupported)
	}
	dec, err := DecoderFor(ext)
	if err != nil {
		return "", err
	}
	md, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("mesh.Convert: %q: %w", source, err)
	}
	md.Name = Stem(source)
	Process(md)
	if md.NumTriangles() == 0 {
		return "", fmt.Errorf("mesh.Convert: %q: %w", source, ErrEmpty)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, md); err != nil {
		return "", fmt.Errorf("mesh.Convert: %q: %w", source, err)
	}
	staged, err := cv.Staging.Write(owner, source, StagedName(source), buf.Bytes())
	if err != nil {
		return "", err
	}
	cv.logger().Debug("converted mesh asset", "owner", owner, "source", source, "format", ext, "meshes", len(md.Meshes), "triangles", md.NumTriangles(), "staged", staged)
	return staged, nil
}

// Assets returns the source to staged path mapping of the given owner.
func (cv *Converter) Assets(owner string) map[string]string {
	return cv.Staging.Assets(owner)
}

// Resolve returns the staged path for a model file reference of the given
// owner. Model references name the file without directory or extension,
// so the staged sources are matched by stem (case insensitively); when
// several formats of the same model were staged, glTF sources are
// preferred over legacy ones, then the first in name order is used.
func Resolve(assets map[string]string, file string) (string, bool) {
	if file == "" {
		return "", false
	}
	if p, ok := assets[file]; ok {
		return p, true
	}
	want := strings.ToLower(Stem(file))
	var cands []string
	for src := range assets {
		if strings.ToLower(Stem(src)) == want {
			cands = append(cands, src)
		}
	}
	if len(cands) == 0 {
		return "", false
	}
	sort.Slice(cands, func(i, j int) bool {
		gi, gj := isGLTF(cands[i]), isGLTF(cands[j])
		if gi != gj {
			return gi
		}
		return cands[i] < cands[j]
	})
	return assets[cands[0]], true
}

func isGLTF(source string) bool {
	s := strings.ToLower(source)
	return strings.HasSuffix(s, ".gltf") || strings.HasSuffix(s, ".glb")
}
