// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package usda writes a [scene.Stage] as a USDA 1.0 text layer.
// The output depends only on the content of the stage, so writing the
// same stage twice produces identical bytes.
package usda

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/indent"
	"cogentcore.org/lighting/scene"
	"cogentcore.org/lighting/xform"
)

// IndentWidth is the number of spaces per nesting level.
const IndentWidth = 4

// Write writes the stage to w.
func Write(w io.Writer, st *scene.Stage) error {
	wr := &writer{w: bufio.NewWriter(w)}
	wr.header(st)
	for _, pr := range st.Roots() {
		wr.line(0, "")
		wr.prim(st, pr, 0)
	}
	if wr.err != nil {
		return fmt.Errorf("usda.Write: %w", wr.err)
	}
	if err := wr.w.Flush(); err != nil {
		return fmt.Errorf("usda.Write: %w", err)
	}
	return nil
}

// String returns the stage as USDA text.
func String(st *scene.Stage) string {
	var sb strings.Builder
	errors.Log(Write(&sb, st))
	return sb.String()
}

type writer struct {
	w   *bufio.Writer
	err error
}

func (wr *writer) line(depth int, format string, args ...any) {
	if wr.err != nil {
		return
	}
	if format != "" {
		_, wr.err = wr.w.WriteString(indent.Spaces(depth, IndentWidth))
		if wr.err != nil {
			return
		}
		_, wr.err = fmt.Fprintf(wr.w, format, args...)
	}
	if wr.err == nil {
		wr.err = wr.w.WriteByte('\n')
	}
}

func (wr *writer) header(st *scene.Stage) {
	wr.line(0, "#usda 1.0")
	if st.DefaultPrim == "" && st.Metadata.Len() == 0 {
		return
	}
	wr.line(0, "(")
	if st.DefaultPrim != "" {
		wr.line(1, "defaultPrim = %s", quote(scene.Base(st.DefaultPrim)))
	}
	for _, kv := range st.Metadata.Order {
		wr.line(1, "%s = %s", kv.Key, metadataValue(kv.Value))
	}
	wr.line(0, ")")
}

func (wr *writer) prim(st *scene.Stage, pr *scene.Prim, depth int) {
	switch len(pr.Payloads) {
	case 0:
		wr.line(depth, "def %s %s", pr.Type, quote(pr.Name()))
	case 1:
		wr.line(depth, "def %s %s (", pr.Type, quote(pr.Name()))
		wr.line(depth+1, "prepend payload = %s", assetPath(pr.Payloads[0]))
		wr.line(depth, ")")
	default:
		wr.line(depth, "def %s %s (", pr.Type, quote(pr.Name()))
		paths := make([]string, len(pr.Payloads))
		for i, p := range pr.Payloads {
			paths[i] = assetPath(p)
		}
		wr.line(depth+1, "prepend payload = [%s]", strings.Join(paths, ", "))
		wr.line(depth, ")")
	}
	wr.line(depth, "{")
	for _, kv := range pr.Attributes.Order {
		wr.attribute(depth+1, kv.Value)
	}
	if len(pr.Ops) > 0 {
		names := opNames(pr.Ops)
		for i, op := range pr.Ops {
			wr.line(depth+1, "float3 %s = %s", names[i], vector(op.Value))
		}
		quoted := make([]string, len(names))
		for i, n := range names {
			quoted[i] = quote(n)
		}
		wr.line(depth+1, "uniform token[] xformOpOrder = [%s]", strings.Join(quoted, ", "))
	}
	for _, c := range st.Children(pr) {
		wr.line(0, "")
		wr.prim(st, c, depth+1)
	}
	wr.line(depth, "}")
}

// opNames returns the attribute names of the ops, with a suffix for
// repeated ops of the same kind.
func opNames(ops []scene.XformOp) []string {
	seen := map[string]int{}
	names := make([]string, len(ops))
	for i, op := range ops {
		n := op.Name()
		if k := seen[n]; k > 0 {
			names[i] = n + ":" + strconv.Itoa(k)
		} else {
			names[i] = n
		}
		seen[n]++
	}
	return names
}

func (wr *writer) attribute(depth int, at scene.Attribute) {
	custom := ""
	if at.Custom {
		custom = "custom "
	}
	wr.line(depth, "%s%s %s = %s", custom, at.Type, at.Name, value(at.Value))
}

func quote(s string) string {
	return strconv.Quote(s)
}

// assetPath delimits an asset path with '@', or with "@@@" when the
// path itself contains an '@'.
func assetPath(p string) string {
	if !strings.Contains(p, "@") {
		return "@" + p + "@"
	}
	return "@@@" + strings.ReplaceAll(p, "@@@", `\@@@`) + "@@@"
}

func float(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func vector(v xform.Vector3) string {
	return "(" + float(v.X) + ", " + float(v.Y) + ", " + float(v.Z) + ")"
}

func value(v any) string {
	switch x := v.(type) {
	case string:
		return quote(x)
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return float(x)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case xform.Vector3:
		return vector(x)
	case []float32:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = float(f)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(x))
		for i, s := range x {
			parts[i] = quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return quote(fmt.Sprint(v))
}

func metadataValue(v any) string {
	switch x := v.(type) {
	case string:
		return quote(x)
	case float32:
		return float(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return quote(fmt.Sprint(v))
}
