// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IsValidIdentifier returns whether s is a non-empty ASCII identifier:
// a letter or underscore followed by letters, digits and underscores.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !identByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

func identByte(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}

// stripMarks returns a transformer that decomposes the string and drops
// the combining marks, so that accented letters become their base letter.
// Transformers are stateful, so each call gets its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// CleanName returns the given name as a valid prim name: "Default" for
// the empty name, an underscore prefixed name for a single character that
// is not an identifier by itself (so "1" becomes "_1"), and otherwise the
// name with diacritics removed and every remaining character that is not
// valid at its position replaced by an underscore.
func CleanName(name string) string {
	if name == "" {
		return "Default"
	}
	if utf8.RuneCountInString(name) == 1 && !IsValidIdentifier(name) {
		return CleanName("_" + name)
	}
	if s, _, err := transform.String(stripMarks(), name); err == nil {
		name = s
	}
	var sb strings.Builder
	sb.Grow(len(name))
	for i, r := range name {
		if r < utf8.RuneSelf && identByte(byte(r), i == 0) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
