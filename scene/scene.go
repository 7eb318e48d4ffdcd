// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene defines the scene graph that converted devices and venues
// are emitted into: a [Sink] receiving typed prims at absolute paths,
// their transform operations, namespaced attributes and payloads, and
// [Stage], an in-memory Sink that keeps everything in definition order.
package scene

import (
	"errors"
	"fmt"
	"strings"

	"cogentcore.org/lighting/xform"
)

var (
	// ErrNoPrim is returned when a prim or its parent is not defined.
	ErrNoPrim = errors.New("scene: no prim at path")

	// ErrInvalidPath is returned for malformed prim paths.
	ErrInvalidPath = errors.New("scene: invalid prim path")
)

// Prim type names.
const (
	TypeXform     = "Xform"
	TypeScope     = "Scope"
	TypeDiskLight = "DiskLight"
)

// Sink receives the scene graph. Paths are absolute, with segments that
// are valid identifiers (see [CleanName]); a prim must be defined before
// its children and before anything is set on it.
type Sink interface {

	// DefinePrim defines the prim at the given path with the given type.
	// Redefining an existing prim changes its type.
	DefinePrim(path, typeName string) error

	// SetXformOps sets the ordered transform operations of the prim,
	// replacing any previous ones.
	SetXformOps(path string, ops ...XformOp) error

	// SetAttribute sets an attribute of the prim, replacing any previous
	// attribute with the same name.
	SetAttribute(path string, attr Attribute) error

	// AddPayload adds a payload asset path to the prim.
	AddPayload(path, asset string) error

	// SetDefaultPrim marks the given root prim as the default prim.
	SetDefaultPrim(path string) error

	// SetMetadata sets document level metadata.
	SetMetadata(key string, value any) error
}

// OpType is the type of an [XformOp].
type OpType int32

const (
	Translate OpType = iota
	Rotate
	Scale
)

// XformOp is one transform operation. Rotations are Euler angles in
// degrees, applied in the given order.
type XformOp struct {
	Type  OpType
	Order xform.RotationOrder
	Value xform.Vector3
}

// TranslateOp returns a translation.
func TranslateOp(v xform.Vector3) XformOp {
	return XformOp{Type: Translate, Value: v}
}

// RotateOp returns an Euler rotation with the given order.
func RotateOp(order xform.RotationOrder, euler xform.Vector3) XformOp {
	return XformOp{Type: Rotate, Order: order, Value: euler}
}

// ScaleOp returns a scale.
func ScaleOp(v xform.Vector3) XformOp {
	return XformOp{Type: Scale, Value: v}
}

// Name returns the attribute name of the operation, such as
// xformOp:rotateYZX.
func (op XformOp) Name() string {
	switch op.Type {
	case Translate:
		return "xformOp:translate"
	case Rotate:
		return "xformOp:" + op.Order.Op()
	case Scale:
		return "xformOp:scale"
	}
	return fmt.Sprintf("xformOp:OpType(%d)", op.Type)
}

// ValueType is the value type name of an [Attribute].
type ValueType string

const (
	String  ValueType = "string"
	Token   ValueType = "token"
	Bool    ValueType = "bool"
	Float   ValueType = "float"
	Uint    ValueType = "uint"
	Float3  ValueType = "float3"
	Floats  ValueType = "float[]"
	Strings ValueType = "string[]"
)

// Attribute is a typed prim attribute. Value has the Go type matching
// Type: string, bool, float32, uint32, [xform.Vector3], []float32 or
// []string.
type Attribute struct {
	Name  string
	Type  ValueType
	Value any

	// Custom marks attributes outside of the prim schema.
	Custom bool
}

// StringAttr returns a custom string attribute.
func StringAttr(name, v string) Attribute {
	return Attribute{Name: name, Type: String, Value: v, Custom: true}
}

// BoolAttr returns a custom bool attribute.
func BoolAttr(name string, v bool) Attribute {
	return Attribute{Name: name, Type: Bool, Value: v, Custom: true}
}

// FloatAttr returns a custom float attribute.
func FloatAttr(name string, v float32) Attribute {
	return Attribute{Name: name, Type: Float, Value: v, Custom: true}
}

// UintAttr returns a custom uint attribute.
func UintAttr(name string, v uint32) Attribute {
	return Attribute{Name: name, Type: Uint, Value: v, Custom: true}
}

// FloatsAttr returns a custom float array attribute.
func FloatsAttr(name string, v []float32) Attribute {
	return Attribute{Name: name, Type: Floats, Value: v, Custom: true}
}

// StringsAttr returns a custom string array attribute.
func StringsAttr(name string, v []string) Attribute {
	return Attribute{Name: name, Type: Strings, Value: v, Custom: true}
}

// Join appends the given name to a prim path.
func Join(parent, name string) string {
	if parent == "/" || parent == "" {
		return "/" + name
	}
	return parent + "/" + name
}

// Parent returns the parent path of a prim path, "/" for root prims.
func Parent(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i <= 0 {
		return "/"
	}
	return path[:i]
}

// Base returns the last segment of a prim path.
func Base(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

// ValidPath returns an error wrapping [ErrInvalidPath] unless the path is
// absolute with non-empty identifier segments.
func ValidPath(path string) error {
	if !strings.HasPrefix(path, "/") || path == "/" {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	for _, seg := range strings.Split(path[1:], "/") {
		if !IsValidIdentifier(seg) {
			return fmt.Errorf("%w: %q: bad segment %q", ErrInvalidPath, path, seg)
		}
	}
	return nil
}
