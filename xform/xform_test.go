// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const standardTol = 1.0e-4

func assertVector(t *testing.T, want, got Vector3, msgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, standardTol, msgs...)
	assert.InDelta(t, want.Y, got.Y, standardTol, msgs...)
	assert.InDelta(t, want.Z, got.Z, standardTol, msgs...)
}

func assertMatrix3(t *testing.T, want, got Matrix3, msgs ...any) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assertVector(t, want.Row(i), got.Row(i), msgs...)
	}
}

func TestParseMatrix(t *testing.T) {
	m := ParseMatrix("{1,0,0,0}{0,1,0,0}{0,0,1,0}{5,6,7,1}")
	assert.Equal(t, Vec3(5, 6, 7), m.Translation())
	assert.Equal(t, Identity3(), m.Upper())
	assert.Equal(t, Identity3(), m.Rotation())

	// semicolons and extra spaces are separators too
	assert.Equal(t, m, ParseMatrix(" { 1 ; 0 ; 0 ; 0 } {0,1,0,0}{0,0,1,0} {5,6,7,1} "))
}

func TestParseMatrixLenient(t *testing.T) {
	assert.Equal(t, Matrix{}, ParseMatrix(""))

	short := ParseMatrix("{1,2,3}")
	assert.Equal(t, [4]float32{1, 2, 3, 0}, short[0])
	assert.Equal(t, [4]float32{}, short[3])

	// reading stops at the first bad value
	bad := ParseMatrix("{1,2,x,4}{5,6,7,8}")
	assert.Equal(t, [4]float32{1, 2, 0, 0}, bad[0])
	assert.Equal(t, [4]float32{}, bad[1])
}

func TestParseAffine(t *testing.T) {
	a := ParseAffine("{1,0,0}{0,1,0}{0,0,1}{100,200,300}")
	assert.Equal(t, Vec3(100, 200, 300), a.Offset())
	m := a.Matrix()
	assert.Equal(t, [4]float32{100, 200, 300, 1}, m[3])
	assert.Equal(t, [4]float32{1, 0, 0, 0}, m[0])
	assert.Equal(t, IdentityAffine().Matrix(), Identity())
}

func TestAxisCorrection(t *testing.T) {
	assert.Equal(t, Vec3(5, 7, -6), AxisCorrection.MulVector3(Vec3(5, 6, 7)))
	assert.Equal(t, Vec3(0, 1, 0), AxisCorrection.MulVector3(Vec3(0, 0, 1)))
}

func TestDecomposeTranslation(t *testing.T) {
	d := Decompose(ParseMatrix("{1,0,0,0}{0,1,0,0}{0,0,1,0}{5,6,7,1}"))
	assert.Equal(t, Vec3(5, 7, -6), d.Translation)
	assertVector(t, Vec3(0, 0, 0), d.Rotation)

	// device matrices carry the translation in the last column
	dev := ParseMatrix("{1,0,0,0.5}{0,1,0,0.25}{0,0,1,-1}{0,0,0,1}")
	d = Decompose(dev.Transpose())
	assertVector(t, Vec3(0.5, -1, -0.25), d.Translation)
}

func TestDecomposeRotation(t *testing.T) {
	// rotation of 90 degrees about Z, in row-vector layout
	d := Decompose(ParseMatrix("{0,1,0,0}{-1,0,0,0}{0,0,1,0}{0,0,0,1}"))
	assertVector(t, Vec3(0, 0, 90), d.Rotation)

	// 90 degrees about X
	d = Decompose(ParseMatrix("{1,0,0,0}{0,0,1,0}{0,-1,0,0}{0,0,0,1}"))
	assertVector(t, Vec3(90, 0, 0), d.Rotation)

	// scale is removed before decomposition
	d = Decompose(ParseMatrix("{0,3,0,0}{-3,0,0,0}{0,0,3,0}{0,0,0,1}"))
	assertVector(t, Vec3(0, 0, 90), d.Rotation)
}

func TestEulerRoundTrip(t *testing.T) {
	cases := []Vector3{
		Vec3(10, 20, 30),
		Vec3(-45, 30, 120),
		Vec3(0, -60, -170),
		Vec3(89, 1, -1),
	}
	for _, e := range cases {
		r := Compose(e, XYZ)
		assertVector(t, e, EulerXYZ(r), e.String())

		d := Decompose(FromRotation(r, Vec3(1, 2, 3)))
		assertVector(t, e, d.Rotation, e.String())
		assertVector(t, Vec3(1, 3, -2), d.Translation, e.String())
	}
}

func TestGimbalLock(t *testing.T) {
	r := Compose(Vec3(30, 90, 0), XYZ)
	e := EulerXYZ(r)
	assert.InDelta(t, 90, e.Y, standardTol)
	assert.InDelta(t, 0, e.Z, standardTol)
	assertMatrix3(t, r, Compose(e, XYZ))

	r = Compose(Vec3(20, -90, 40), XYZ)
	e = EulerXYZ(r)
	assert.InDelta(t, -90, e.Y, standardTol)
	assertMatrix3(t, r, Compose(e, XYZ))
}

func TestRotationOrder(t *testing.T) {
	assert.Equal(t, "rotateXYZ", XYZ.Op())
	assert.Equal(t, "rotateYZX", YZX.Op())
	assert.Equal(t, "rotateZYX", ZYX.Op())

	e := Vec3(10, 20, 30)
	assertMatrix3(t, RotationX(10).Mul(RotationZ(30)).Mul(RotationY(20)), Compose(e, YZX))
	assertMatrix3(t, RotationX(10).Mul(RotationY(20)).Mul(RotationZ(30)), Compose(e, ZYX))
}

func TestRotationDegenerate(t *testing.T) {
	assert.Equal(t, Identity3(), Matrix{}.Rotation())
	assert.True(t, Identity().IsFinite())
}
