// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive reads the ZIP containers used by GDTF and MVR files.
// Archives can be opened from disk or from memory (nested GDTF archives
// are extracted from their parent MVR archive and never touch the disk),
// and entries are classified purely by their file name suffix.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

var (
	// ErrNotFound is returned by [Open] when the archive file does not exist.
	ErrNotFound = fs.ErrNotExist

	// ErrNotArchive is returned when the content is not a ZIP container.
	ErrNotArchive = errors.New("archive: not a zip archive")
)

// Kind is the type of an archive entry, derived from its file name suffix.
type Kind int

const (
	// KindUnknown entries are skipped by the parsers.
	KindUnknown Kind = iota

	// KindXML is an XML manifest (description.xml, GeneralSceneDescription.xml).
	KindXML

	// KindLegacyMesh is a 3DS mesh asset.
	KindLegacyMesh

	// KindMesh is a glTF mesh asset (.gltf or .glb).
	KindMesh

	// KindDeviceArchive is a nested GDTF archive inside an MVR archive.
	KindDeviceArchive
)

func (k Kind) String() string {
	switch k {
	case KindXML:
		return "xml"
	case KindLegacyMesh:
		return "legacy-mesh"
	case KindMesh:
		return "mesh"
	case KindDeviceArchive:
		return "device-archive"
	}
	return "unknown"
}

// IsModel returns whether the kind is a mesh asset of either generation.
func (k Kind) IsModel() bool {
	return k == KindLegacyMesh || k == KindMesh
}

const (
	// DeviceExt is the suffix of device (GDTF) archives, including the dot.
	DeviceExt = ".gdtf"

	// VenueExt is the suffix of venue (MVR) archives.
	VenueExt = ".mvr"
)

// kinds is the closed set of recognized extensions (without dot).
var kinds = map[string]Kind{
	"xml":  KindXML,
	"3ds":  KindLegacyMesh,
	"gltf": KindMesh,
	"glb":  KindMesh,
	"gdtf": KindDeviceArchive,
}

// Ext returns the extension of the given entry name without the dot:
// the text after the last '.', or "" if there is none.
func Ext(name string) string {
	ext := path.Ext(name)
	return strings.TrimPrefix(ext, ".")
}

// Classify returns the kind of the entry with the given name. The match is
// case sensitive; unrecognized extensions are [KindUnknown].
func Classify(name string) Kind {
	return kinds[Ext(name)]
}

// EntryInfo is the metadata of one archive entry.
type EntryInfo struct {
	Name string
	Ext  string
	Kind Kind

	file *zip.File
}

// Entry is one archive entry with its content. Entries are transient:
// they are handed to the caller during [Reader.Walk] and not retained.
type Entry struct {
	EntryInfo
	Content []byte
}

// Reader is an open archive.
type Reader struct {
	name    string
	zr      *zip.Reader
	closer  io.Closer
	entries []EntryInfo
}

// Open opens the archive file at the given path. It returns an error
// wrapping [ErrNotFound] if the file does not exist.
func Open(fpath string) (*Reader, error) {
	f, err := os.Open(fpath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("archive.Open: %q: %w", fpath, ErrNotFound)
		}
		return nil, fmt.Errorf("archive.Open: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("archive.Open: %w", err)
	}
	head := make([]byte, 262)
	n, _ := io.ReadFull(f, head)
	if !filetype.Is(head[:n], "zip") {
		f.Close()
		return nil, fmt.Errorf("archive.Open: %q: %w", fpath, ErrNotArchive)
	}
	zr, err := zip.NewReader(f, st.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("archive.Open: %q: %w", fpath, err)
	}
	return newReader(filepath.Base(fpath), zr, f), nil
}

// OpenBytes opens an archive held in memory. The name is the logical
// name of the archive, typically the entry name in its parent archive.
func OpenBytes(name string, data []byte) (*Reader, error) {
	if !filetype.Is(data, "zip") {
		return nil, fmt.Errorf("archive.OpenBytes: %q: %w", name, ErrNotArchive)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive.OpenBytes: %q: %w", name, err)
	}
	return newReader(path.Base(name), zr, nil), nil
}

func newReader(name string, zr *zip.Reader, closer io.Closer) *Reader {
	r := &Reader{name: name, zr: zr, closer: closer}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		r.entries = append(r.entries, EntryInfo{
			Name: f.Name,
			Ext:  Ext(f.Name),
			Kind: Classify(f.Name),
			file: f,
		})
	}
	return r
}

// Name returns the logical name (base file name) of the archive.
func (r *Reader) Name() string {
	return r.name
}

// Entries returns the metadata of all file entries, in archive order.
func (r *Reader) Entries() []EntryInfo {
	return r.entries
}

// Read returns the full content of the given entry.
func (r *Reader) Read(info EntryInfo) ([]byte, error) {
	if info.file == nil {
		return nil, fmt.Errorf("archive.Read: %q: entry does not belong to an open archive", info.Name)
	}
	rc, err := info.file.Open()
	if err != nil {
		return nil, fmt.Errorf("archive.Read: %q: %w", info.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("archive.Read: %q: %w", info.Name, err)
	}
	return b, nil
}

// Walk reads each entry in archive order and calls fn with it.
// Unknown entries are included; callers skip them by [Kind].
// Walk stops at the first error returned by fn or by reading.
func (r *Reader) Walk(fn func(e Entry) error) error {
	for _, info := range r.entries {
		b, err := r.Read(info)
		if err != nil {
			return err
		}
		if err := fn(Entry{EntryInfo: info, Content: b}); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
