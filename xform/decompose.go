// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xform

import "github.com/chewxy/math32"

// RotationOrder is the order in which the Euler rotations are applied
// when an Euler triple is re-composed into a rotation, named after the
// scene-graph rotate op (rotateXYZ applies X first, then Y, then Z).
type RotationOrder int32

const (
	// XYZ applies X, then Y, then Z: R = Rz * Ry * Rx.
	XYZ RotationOrder = iota

	// YZX applies Y, then Z, then X: R = Rx * Rz * Ry.
	YZX

	// ZYX applies Z, then Y, then X: R = Rx * Ry * Rz.
	ZYX
)

func (o RotationOrder) String() string {
	switch o {
	case YZX:
		return "YZX"
	case ZYX:
		return "ZYX"
	}
	return "XYZ"
}

// Op returns the scene-graph rotate op name for this order, such as "rotateXYZ".
func (o RotationOrder) Op() string {
	return "rotate" + o.String()
}

// Decomposition is a transform split into a translation and an Euler
// rotation in degrees. The rotation is always expressed as an XYZ triple
// (the rotation about each axis), independent of the order used to apply it.
type Decomposition struct {
	Translation Vector3
	Rotation    Vector3
}

// Decompose splits a matrix in row-vector layout (translation in the last
// row) into its translation, mapped through [AxisCorrection], and its
// rotation as Euler XYZ angles in degrees such that the rotation equals
// Rz * Ry * Rx. Any scale in the matrix is discarded.
func Decompose(m Matrix) Decomposition {
	return Decomposition{
		Translation: AxisCorrection.MulVector3(m.Translation()),
		Rotation:    EulerXYZ(m.Rotation()),
	}
}

// EulerXYZ returns the Euler angles in degrees of the given rotation
// matrix (applied to column vectors) such that r = Rz * Ry * Rx.
// In gimbal lock (Y rotation of +/-90 degrees) the Z angle is set to 0
// and the whole remaining rotation is assigned to X.
func EulerXYZ(r Matrix3) Vector3 {
	sy := -r[2][0]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	var a, b, c float32
	b = math32.Asin(sy)
	if math32.Abs(sy) < 0.9999999 {
		a = math32.Atan2(r[2][1], r[2][2])
		c = math32.Atan2(r[1][0], r[0][0])
	} else {
		c = 0
		if sy > 0 {
			a = math32.Atan2(r[0][1], r[0][2])
		} else {
			a = math32.Atan2(-r[0][1], -r[0][2])
		}
	}
	return Vector3{RadToDeg(a), RadToDeg(b), RadToDeg(c)}
}

// RotationX returns the rotation matrix about the X axis by the given degrees.
func RotationX(deg float32) Matrix3 {
	s, c := math32.Sincos(DegToRad(deg))
	return Matrix3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

// RotationY returns the rotation matrix about the Y axis by the given degrees.
func RotationY(deg float32) Matrix3 {
	s, c := math32.Sincos(DegToRad(deg))
	return Matrix3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

// RotationZ returns the rotation matrix about the Z axis by the given degrees.
func RotationZ(deg float32) Matrix3 {
	s, c := math32.Sincos(DegToRad(deg))
	return Matrix3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// Compose returns the rotation matrix for the given Euler angles in
// degrees, applied in the given order.
func Compose(euler Vector3, order RotationOrder) Matrix3 {
	rx := RotationX(euler.X)
	ry := RotationY(euler.Y)
	rz := RotationZ(euler.Z)
	switch order {
	case YZX:
		return rx.Mul(rz).Mul(ry)
	case ZYX:
		return rx.Mul(ry).Mul(rz)
	}
	return rz.Mul(ry).Mul(rx)
}

// FromRotation returns a matrix in row-vector layout with the given
// rotation (applied to column vectors) and translation.
func FromRotation(r Matrix3, t Vector3) Matrix {
	rt := r.Transpose()
	m := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = rt[i][j]
		}
	}
	m[3][0], m[3][1], m[3][2] = t.X, t.Y, t.Z
	return m
}
