// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"

	"cogentcore.org/core/base/ordmap"
)

// Prim is one node of a [Stage].
type Prim struct {

	// Path is the absolute path of the prim.
	Path string

	// Type is the schema type name, such as [TypeXform].
	Type string

	// Ops are the ordered transform operations.
	Ops []XformOp

	// Attributes are the attributes in the order they were first set.
	Attributes *ordmap.Map[string, Attribute]

	// Payloads are the payload asset paths, in the order they were added.
	Payloads []string

	// children are the paths of the child prims in definition order.
	children []string
}

// Name returns the last path segment of the prim.
func (pr *Prim) Name() string {
	return Base(pr.Path)
}

// Attribute returns the attribute with the given name.
func (pr *Prim) Attribute(name string) (Attribute, bool) {
	return pr.Attributes.ValueByKeyTry(name)
}

// Stage is an in-memory [Sink] that records prims in definition order.
// The zero value is not usable; use [NewStage].
type Stage struct {

	// DefaultPrim is the path of the default prim, if any.
	DefaultPrim string

	// Metadata is the document metadata in the order it was first set.
	Metadata *ordmap.Map[string, any]

	prims *ordmap.Map[string, *Prim]
	roots []string
}

// NewStage returns a new empty stage.
func NewStage() *Stage {
	return &Stage{
		Metadata: ordmap.New[string, any](),
		prims:    ordmap.New[string, *Prim](),
	}
}

// Len returns the number of prims.
func (st *Stage) Len() int {
	return st.prims.Len()
}

// Prim returns the prim at the given path, or nil if there is none.
func (st *Stage) Prim(path string) *Prim {
	pr, _ := st.prims.ValueByKeyTry(path)
	return pr
}

// Prims returns all prims in definition order.
func (st *Stage) Prims() []*Prim {
	return st.prims.Values()
}

// Roots returns the root prims in definition order.
func (st *Stage) Roots() []*Prim {
	return st.lookup(st.roots)
}

// Children returns the child prims of the given prim in definition order.
func (st *Stage) Children(pr *Prim) []*Prim {
	return st.lookup(pr.children)
}

func (st *Stage) lookup(paths []string) []*Prim {
	out := make([]*Prim, 0, len(paths))
	for _, p := range paths {
		out = append(out, st.Prim(p))
	}
	return out
}

func (st *Stage) DefinePrim(path, typeName string) error {
	if err := ValidPath(path); err != nil {
		return err
	}
	if pr := st.Prim(path); pr != nil {
		pr.Type = typeName
		return nil
	}
	parent := Parent(path)
	if parent == "/" {
		st.roots = append(st.roots, path)
	} else {
		pp := st.Prim(parent)
		if pp == nil {
			return fmt.Errorf("scene.DefinePrim: %q: parent %w", path, ErrNoPrim)
		}
		pp.children = append(pp.children, path)
	}
	st.prims.Add(path, &Prim{Path: path, Type: typeName, Attributes: ordmap.New[string, Attribute]()})
	return nil
}

func (st *Stage) prim(fn, path string) (*Prim, error) {
	pr := st.Prim(path)
	if pr == nil {
		return nil, fmt.Errorf("scene.%s: %q: %w", fn, path, ErrNoPrim)
	}
	return pr, nil
}

func (st *Stage) SetXformOps(path string, ops ...XformOp) error {
	pr, err := st.prim("SetXformOps", path)
	if err != nil {
		return err
	}
	pr.Ops = slices.Clone(ops)
	return nil
}

func (st *Stage) SetAttribute(path string, attr Attribute) error {
	pr, err := st.prim("SetAttribute", path)
	if err != nil {
		return err
	}
	if attr.Name == "" {
		return fmt.Errorf("scene.SetAttribute: %q: empty attribute name", path)
	}
	pr.Attributes.Add(attr.Name, attr)
	return nil
}

func (st *Stage) AddPayload(path, asset string) error {
	pr, err := st.prim("AddPayload", path)
	if err != nil {
		return err
	}
	pr.Payloads = append(pr.Payloads, asset)
	return nil
}

func (st *Stage) SetDefaultPrim(path string) error {
	if _, err := st.prim("SetDefaultPrim", path); err != nil {
		return err
	}
	if Parent(path) != "/" {
		return fmt.Errorf("scene.SetDefaultPrim: %q: %w: not a root prim", path, ErrInvalidPath)
	}
	st.DefaultPrim = path
	return nil
}

func (st *Stage) SetMetadata(key string, value any) error {
	if key == "" {
		return fmt.Errorf("scene.SetMetadata: empty key")
	}
	st.Metadata.Add(key, value)
	return nil
}
