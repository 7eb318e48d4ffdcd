// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xform parses the matrix literals of GDTF and MVR files and
// decomposes them into the translate / rotate / scale operations of the
// target scene graph, including the Z-up to Y-up axis correction.
//
// Source matrices are stored row-major, exactly as written in the text.
// Decomposition expects the row-vector layout used by the scene graph,
// with the translation in the last row: MVR matrices are already in that
// layout, while GDTF matrices (translation in the last column) must be
// transposed first with [Matrix.Transpose].
package xform

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Vector3 is a 3D vector or point with X, Y, and Z components.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// Vec3 returns a new [Vector3] with the given x, y and z components.
func Vec3(x, y, z float32) Vector3 {
	return Vector3{x, y, z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Add returns the vector plus the other vector.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns the vector minus the other vector.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// MulScalar returns the vector multiplied by the given scalar.
func (v Vector3) MulScalar(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of the vector with the other vector.
func (v Vector3) Dot(other Vector3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of the vector with the other vector.
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normal returns the vector normalized to unit length.
// The zero vector is returned unchanged.
func (v Vector3) Normal() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

// IsZero returns whether all components are zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Array returns the components as an array.
func (v Vector3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// DegToRad converts a number from degrees to radians.
func DegToRad(degrees float32) float32 {
	return degrees * (math32.Pi / 180)
}

// RadToDeg converts a number from radians to degrees.
func RadToDeg(radians float32) float32 {
	return radians * (180 / math32.Pi)
}
