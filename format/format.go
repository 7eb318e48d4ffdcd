// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package format provides the registry of the source formats that can be
// converted into a scene: a [Handler] per format, looked up from the file
// extension in a [Registry]. Registries are constructed explicitly; there
// is no global registry.
package format

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"cogentcore.org/lighting/diag"
	"cogentcore.org/lighting/scene"
)

// ErrUnsupported is returned by [Registry.Convert] when no handler is
// registered for the extension of a file.
var ErrUnsupported = errors.New("format: unsupported file extension")

// Handler converts the files of one source format into a scene.
type Handler interface {

	// Name returns the short name of the format, such as "gdtf".
	Name() string

	// Extensions returns the lowercase file extensions of the format,
	// including the leading dot.
	Extensions() []string

	// Convert parses the file at the given path and emits it into the
	// sink. Problems with the content of the file are returned as
	// diagnostics; the error is only for cancellation and sink failures.
	Convert(ctx context.Context, path string, sink scene.Sink) ([]diag.Diagnostic, error)
}

// Inspector is implemented by handlers that can return the parsed
// specification of a file without emitting it.
type Inspector interface {
	Inspect(ctx context.Context, path string) (any, []diag.Diagnostic, error)
}

// Registry maps file extensions to handlers.
type Registry struct {
	handlers []Handler
	byExt    map[string]Handler
}

// NewRegistry returns a new registry with the given handlers. When two
// handlers claim the same extension, the later one wins.
func NewRegistry(handlers ...Handler) *Registry {
	rg := &Registry{byExt: make(map[string]Handler)}
	for _, h := range handlers {
		rg.Register(h)
	}
	return rg
}

// Register adds the given handler to the registry.
func (rg *Registry) Register(h Handler) {
	rg.handlers = append(rg.handlers, h)
	for _, ext := range h.Extensions() {
		rg.byExt[strings.ToLower(ext)] = h
	}
}

// Handlers returns the registered handlers in registration order.
func (rg *Registry) Handlers() []Handler {
	return slices.Clone(rg.handlers)
}

// Extensions returns the sorted list of the registered extensions.
func (rg *Registry) Extensions() []string {
	exts := make([]string, 0, len(rg.byExt))
	for ext := range rg.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Lookup returns the handler for the extension of the given file name.
func (rg *Registry) Lookup(name string) (Handler, bool) {
	h, ok := rg.byExt[strings.ToLower(filepath.Ext(name))]
	return h, ok
}

// Supports returns whether a handler is registered for the given file.
func (rg *Registry) Supports(name string) bool {
	_, ok := rg.Lookup(name)
	return ok
}

// Convert converts the given file with the handler for its extension.
func (rg *Registry) Convert(ctx context.Context, path string, sink scene.Sink) ([]diag.Diagnostic, error) {
	h, ok := rg.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("format.Convert: %q: %w", path, ErrUnsupported)
	}
	return h.Convert(ctx, path, sink)
}

// Inspect returns the parsed specification of the given file with the
// handler for its extension.
func (rg *Registry) Inspect(ctx context.Context, path string) (any, []diag.Diagnostic, error) {
	h, ok := rg.Lookup(path)
	if !ok {
		return nil, nil, fmt.Errorf("format.Inspect: %q: %w", path, ErrUnsupported)
	}
	in, ok := h.(Inspector)
	if !ok {
		return nil, nil, fmt.Errorf("format.Inspect: %s handler cannot inspect files", h.Name())
	}
	return in.Inspect(ctx, path)
}

// HasErrors returns whether any of the diagnostics is an error.
func HasErrors(diags []diag.Diagnostic) bool {
	return slices.ContainsFunc(diags, func(d diag.Diagnostic) bool {
		return d.Severity == diag.Error
	})
}
