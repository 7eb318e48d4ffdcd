// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hack-pad/hackpadfs"
	hackpados "github.com/hack-pad/hackpadfs/os"
	"github.com/mitchellh/go-homedir"
)

// Staging owns the directory that converted assets are written to.
// Each owner (device) gets its own sub-directory, and the staged path of
// every asset is recorded per owner and source file name. Staging is not
// safe for concurrent use.
type Staging struct {

	// FS is the filesystem the assets are written to.
	FS hackpadfs.FS

	// Root is the staging directory, as an absolute slash-separated path.
	// Staged paths are reported as Root joined with the owner and file.
	Root string

	// Keep disables the removal of the staged assets by [Staging.Close].
	Keep bool

	// assets maps owner to source file name to staged path.
	assets map[string]map[string]string

	// owners are the owner directories written, in first-write order.
	owners []string
}

// NewStaging returns a new staging context rooted at the given directory
// on the given filesystem. A leading ~ in root is expanded to the home
// directory. The root directory is created if it does not exist.
func NewStaging(fsys hackpadfs.FS, root string) (*Staging, error) {
	root, err := homedir.Expand(root)
	if err != nil {
		return nil, fmt.Errorf("mesh.NewStaging: %w", err)
	}
	st := &Staging{
		FS:     fsys,
		Root:   path.Clean("/" + filepath.ToSlash(root)),
		assets: map[string]map[string]string{},
	}
	if err := hackpadfs.MkdirAll(fsys, st.fsPath(st.Root), 0o755); err != nil {
		return nil, fmt.Errorf("mesh.NewStaging: %w", err)
	}
	return st, nil
}

// NewOSStaging returns a new staging context on the operating system
// filesystem. If root is empty, a new temporary directory is created.
func NewOSStaging(root string) (*Staging, error) {
	if root == "" {
		tmp, err := os.MkdirTemp("", "lightconv-")
		if err != nil {
			return nil, fmt.Errorf("mesh.NewOSStaging: %w", err)
		}
		root = tmp
	} else {
		exp, err := homedir.Expand(root)
		if err != nil {
			return nil, fmt.Errorf("mesh.NewOSStaging: %w", err)
		}
		if root, err = filepath.Abs(exp); err != nil {
			return nil, fmt.Errorf("mesh.NewOSStaging: %w", err)
		}
	}
	return NewStaging(hackpados.NewFS(), root)
}

// fsPath converts an absolute staged path into a path on the filesystem,
// which must be non-rooted as all go fs paths are.
func (st *Staging) fsPath(p string) string {
	p = strings.TrimPrefix(path.Clean(p), "/")
	if p == "" {
		return "."
	}
	return p
}

// cleanSegment turns an owner or file name into a single safe path element.
func cleanSegment(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// Dir returns the staging directory of the given owner.
func (st *Staging) Dir(owner string) string {
	return path.Join(st.Root, cleanSegment(owner))
}

// Write writes the given data as the staged file name for the given
// owner, creating the owner directory if needed, and records it as the
// staged asset of the source file name. Writing the same file again
// overwrites it. It returns the staged path.
func (st *Staging) Write(owner, source, name string, data []byte) (string, error) {
	dir := st.Dir(owner)
	if err := hackpadfs.MkdirAll(st.FS, st.fsPath(dir), 0o755); err != nil {
		return "", fmt.Errorf("mesh.Staging.Write: %w", err)
	}
	fpath := path.Join(dir, cleanSegment(name))
	if err := hackpadfs.WriteFullFile(st.FS, st.fsPath(fpath), data, 0o644); err != nil {
		return "", fmt.Errorf("mesh.Staging.Write: %w", err)
	}
	am, ok := st.assets[owner]
	if !ok {
		am = map[string]string{}
		st.assets[owner] = am
		st.owners = append(st.owners, dir)
	}
	am[source] = fpath
	return fpath, nil
}

// Path returns the staged path of the given source file of the given owner.
func (st *Staging) Path(owner, source string) (string, bool) {
	p, ok := st.assets[owner][source]
	return p, ok
}

// Assets returns a copy of the source to staged path mapping of the
// given owner.
func (st *Staging) Assets(owner string) map[string]string {
	am := st.assets[owner]
	if am == nil {
		return nil
	}
	cp := make(map[string]string, len(am))
	for k, v := range am {
		cp[k] = v
	}
	return cp
}

// Owners returns the owners with staged assets, sorted.
func (st *Staging) Owners() []string {
	owners := make([]string, 0, len(st.assets))
	for o := range st.assets {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners
}

// ReadFile returns the content of the given staged path.
func (st *Staging) ReadFile(p string) ([]byte, error) {
	return hackpadfs.ReadFile(st.FS, st.fsPath(p))
}

// Close removes all the owner directories written through this staging
// context, unless Keep is set. The root directory itself is left in place.
func (st *Staging) Close() error {
	if st.Keep {
		return nil
	}
	var errs []error
	for _, dir := range st.owners {
		if err := hackpadfs.RemoveAll(st.FS, st.fsPath(dir)); err != nil {
			errs = append(errs, err)
		}
	}
	st.owners = nil
	st.assets = map[string]map[string]string{}
	if len(errs) > 0 {
		return fmt.Errorf("mesh.Staging.Close: %w", errors.Join(errs...))
	}
	return nil
}
