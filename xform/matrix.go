// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xform

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Matrix3 is a 3x3 matrix stored row-major. Applied to column vectors.
type Matrix3 [3][3]float32

// Identity3 returns the 3x3 identity matrix.
func Identity3() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// AxisCorrection maps the Z-up source convention of GDTF and MVR into the
// Y-up convention of the scene graph: (x, y, z) becomes (x, z, -y).
var AxisCorrection = Matrix3{
	{1, 0, 0},
	{0, 0, 1},
	{0, -1, 0},
}

// MulVector3 returns the matrix times the given column vector.
func (m Matrix3) MulVector3(v Vector3) Vector3 {
	return Vector3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Mul returns the matrix product m * other.
func (m Matrix3) Mul(other Matrix3) Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return r
}

// Transpose returns the transpose of the matrix.
func (m Matrix3) Transpose() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Row returns the given row as a vector.
func (m Matrix3) Row(i int) Vector3 {
	return Vector3{m[i][0], m[i][1], m[i][2]}
}

// Matrix is a 4x4 matrix stored row-major, as written in GDTF Position
// literals ({row}{row}{row}{row}).
type Matrix [4][4]float32

// Identity returns the 4x4 identity matrix.
func Identity() Matrix {
	return Matrix{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

// Transpose returns the transpose of the matrix.
func (m Matrix) Transpose() Matrix {
	var r Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			r[i][j] = m[j][i]
		}
	}
	return r
}

// Translation returns the translation of a matrix in row-vector layout,
// which is the first three values of the last row.
func (m Matrix) Translation() Vector3 {
	return Vector3{m[3][0], m[3][1], m[3][2]}
}

// Upper returns the upper-left 3x3 submatrix.
func (m Matrix) Upper() Matrix3 {
	var r Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
	}
	return r
}

// Rotation returns the pure rotation of a matrix in row-vector layout, as
// a rotation matrix applied to column vectors. Scale is removed by
// normalizing each basis row, and the basis is re-orthogonalized.
// A degenerate (zero or collinear) basis yields the identity.
func (m Matrix) Rotation() Matrix3 {
	x := m.Upper().Row(0)
	y := m.Upper().Row(1)
	const eps = 1e-12
	if x.Dot(x) < eps || y.Dot(y) < eps {
		return Identity3()
	}
	x = x.Normal()
	y = y.Sub(x.MulScalar(x.Dot(y)))
	if y.Dot(y) < eps {
		return Identity3()
	}
	y = y.Normal()
	z := x.Cross(y)
	// keep the handedness of the source third axis
	if zs := m.Upper().Row(2); zs.Dot(z) < 0 {
		z = z.MulScalar(-1)
	}
	rows := Matrix3{x.Array(), y.Array(), z.Array()}
	return rows.Transpose()
}

// Affine is a 4x3 matrix stored row-major, as written in MVR Matrix
// elements: three basis rows followed by the offset row. The projective
// column is implicit (0, 0, 0, 1).
type Affine [4][3]float32

// IdentityAffine returns the identity affine matrix.
func IdentityAffine() Affine {
	return Affine{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}}
}

// Matrix returns the affine matrix as a full 4x4 matrix in row-vector
// layout, with the last column set to (0, 0, 0, 1).
func (a Affine) Matrix() Matrix {
	var m Matrix
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = a[i][j]
		}
	}
	m[3][3] = 1
	return m
}

// Offset returns the offset (translation) row.
func (a Affine) Offset() Vector3 {
	return Vector3{a[3][0], a[3][1], a[3][2]}
}

var matrixReplacer = strings.NewReplacer("{", " ", "}", " ", ",", " ", ";", " ")

// parseValues reads up to n floats from a matrix literal. Reading stops at
// the first malformed value, so the remaining values are left at zero.
func parseValues(text string, n int) []float32 {
	vals := make([]float32, n)
	fields := strings.Fields(matrixReplacer.Replace(text))
	for i := 0; i < n && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			break
		}
		vals[i] = float32(f)
	}
	return vals
}

// ParseMatrix parses a 4x4 matrix literal such as
// "{1,0,0,0}{0,1,0,0}{0,0,1,0}{0,0,0,1}". The braces, commas and
// semicolons are all treated as separators and 16 values are read in
// row-major order. Short or malformed input leaves the unread cells at 0;
// no error is reported.
func ParseMatrix(text string) Matrix {
	vals := parseValues(text, 16)
	var m Matrix
	for i := 0; i < 16; i++ {
		m[i/4][i%4] = vals[i]
	}
	return m
}

// ParseAffine parses a 4x3 matrix literal such as
// "{1,0,0}{0,1,0}{0,0,1}{0,0,0}" in the same lenient way as [ParseMatrix],
// reading 12 values in row-major order.
func ParseAffine(text string) Affine {
	vals := parseValues(text, 12)
	var a Affine
	for i := 0; i < 12; i++ {
		a[i/3][i%3] = vals[i]
	}
	return a
}

// IsFinite returns whether all the values of the matrix are finite.
func (m Matrix) IsFinite() bool {
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if math32.IsNaN(m[i][j]) || math32.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}
