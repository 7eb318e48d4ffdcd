// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xmlx provides lenient, optional-valued accessors for attributes
// and child text of [etree.Element] values, as used by the GDTF and MVR
// manifest parsers. Every accessor reports whether the value was present
// and well-formed, so callers can keep their documented defaults otherwise.
package xmlx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Value is an optional raw string value read from an element.
type Value struct {
	Raw string
	OK  bool
}

// Attr returns the value of the named attribute of the element.
// A nil element has no attributes.
func Attr(el *etree.Element, name string) Value {
	if el == nil {
		return Value{}
	}
	a := el.SelectAttr(name)
	if a == nil {
		return Value{}
	}
	return Value{Raw: a.Value, OK: true}
}

// ChildText returns the trimmed text of the first child element with the
// given tag. A child that is present but empty is reported as absent.
func ChildText(el *etree.Element, tag string) Value {
	if el == nil {
		return Value{}
	}
	c := el.SelectElement(tag)
	if c == nil {
		return Value{}
	}
	txt := strings.TrimSpace(c.Text())
	if txt == "" {
		return Value{}
	}
	return Value{Raw: txt, OK: true}
}

// Lookup returns the first present value among the attribute and child
// text lookups for each of the given names, in order: for each name the
// attribute is tried first, then the child element text.
func Lookup(el *etree.Element, names ...string) Value {
	for _, nm := range names {
		if v := Attr(el, nm); v.OK {
			return v
		}
		if v := ChildText(el, nm); v.OK {
			return v
		}
	}
	return Value{}
}

// String returns the value, or the empty string if absent.
func (v Value) String() string {
	return v.Raw
}

// Float returns the value parsed as a float32.
// It returns false if the value is absent or malformed.
func (v Value) Float() (float32, bool) {
	if !v.OK {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Raw), 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// FloatOr returns the float value, or def if absent or malformed.
func (v Value) FloatOr(def float32) float32 {
	if f, ok := v.Float(); ok {
		return f
	}
	return def
}

// Uint32 returns the value parsed as a base 10 uint32.
// It returns false if the value is absent or malformed.
func (v Value) Uint32() (uint32, bool) {
	if !v.OK {
		return 0, false
	}
	u, err := strconv.ParseUint(strings.TrimSpace(v.Raw), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(u), true
}

// Int returns the value parsed as a base 10 int.
// It returns false if the value is absent or malformed.
func (v Value) Int() (int, bool) {
	if !v.OK {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v.Raw))
	if err != nil {
		return 0, false
	}
	return i, true
}

// Bool returns the value parsed as a boolean. In addition to the
// strconv forms, "yes" and "no" are accepted, case insensitively.
// It returns false if the value is absent or malformed.
func (v Value) Bool() (bool, bool) {
	if !v.OK {
		return false, false
	}
	s := strings.ToLower(strings.TrimSpace(v.Raw))
	switch s {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return b, true
}

// Texts returns the trimmed, non-empty text of every child element of the
// named container child that has the given item tag, in document order.
// For example Texts(fixture, "Addresses", "Address").
func Texts(el *etree.Element, container, item string) []string {
	if el == nil {
		return nil
	}
	c := el.SelectElement(container)
	if c == nil {
		return nil
	}
	var out []string
	for _, it := range c.SelectElements(item) {
		txt := strings.TrimSpace(it.Text())
		if txt != "" {
			out = append(out, txt)
		}
	}
	return out
}
