// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"bytes"
	"encoding/binary"
	"path"
	"strings"

	"github.com/h2non/filetype"
)

var (
	typeGLB  = filetype.NewType("glb", "model/gltf-binary")
	typeGLTF = filetype.NewType("gltf", "model/gltf+json")
	type3DS  = filetype.NewType("3ds", "application/x-3ds")
)

func init() {
	filetype.AddMatcher(typeGLB, matchGLB)
	filetype.AddMatcher(typeGLTF, matchGLTF)
	filetype.AddMatcher(type3DS, match3DS)
}

// matchGLB matches the binary glTF container header.
func matchGLB(buf []byte) bool {
	return len(buf) >= 12 && bytes.Equal(buf[:4], []byte("glTF"))
}

// matchGLTF matches a JSON document with a top-level asset member.
func matchGLTF(buf []byte) bool {
	b := bytes.TrimLeft(buf, " \t\r\n\xef\xbb\xbf")
	return len(b) > 0 && b[0] == '{' && bytes.Contains(buf, []byte(`"asset"`))
}

// match3DS matches the 3DS main chunk, whose declared length must fit
// in the buffer (the header alone is 6 bytes).
func match3DS(buf []byte) bool {
	if len(buf) < 6 || binary.LittleEndian.Uint16(buf) != chunkMain {
		return false
	}
	n := binary.LittleEndian.Uint32(buf[2:])
	return n >= 6 && int64(n) <= int64(len(buf))
}

// Detect returns the format extension (without the dot) of the given
// asset, identified by content first and by the file name extension when
// the content is not recognized. It returns "" when neither is known.
func Detect(data []byte, name string) string {
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown {
		if _, ok := Decoders[kind.Extension]; ok {
			return kind.Extension
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if _, ok := Decoders[ext]; ok {
		return ext
	}
	return ""
}
