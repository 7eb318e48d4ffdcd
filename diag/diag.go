// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag provides the diagnostic accumulator used by the GDTF and MVR
// parsers. Parsing is best-effort: recoverable problems are recorded here
// instead of being returned as errors, and callers drain the stack after
// parsing to forward the messages to their own logging.
package diag

import (
	"context"
	"fmt"
	"log/slog"
)

// Severity is the severity of a [Diagnostic].
type Severity int

const (
	// Warning is for conditions that were worked around,
	// such as a version mismatch or a missing optional element.
	Warning Severity = iota

	// Error is for conditions that lost data: an archive that could
	// not be opened, an unparseable manifest, or a failed mesh asset.
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Level returns the slog level corresponding to the severity.
func (s Severity) Level() slog.Level {
	if s == Error {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// Diagnostic is one human-readable message about an archive.
type Diagnostic struct {
	Severity Severity

	// Source is the archive or entry the message is about.
	Source string

	Message string
}

func (d Diagnostic) Error() string {
	if d.Source == "" {
		return d.Message
	}
	return d.Source + ": " + d.Message
}

// Stack is a LIFO stack of diagnostics. The zero value is ready to use.
type Stack struct {
	items []Diagnostic
}

// Push adds a diagnostic to the top of the stack.
func (s *Stack) Push(d Diagnostic) {
	s.items = append(s.items, d)
}

// Warnf pushes a warning for the given source.
func (s *Stack) Warnf(source, format string, args ...any) {
	s.Push(Diagnostic{Severity: Warning, Source: source, Message: fmt.Sprintf(format, args...)})
}

// Errorf pushes an error for the given source.
func (s *Stack) Errorf(source, format string, args ...any) {
	s.Push(Diagnostic{Severity: Error, Source: source, Message: fmt.Sprintf(format, args...)})
}

// HasError returns whether there is at least one diagnostic on the stack.
func (s *Stack) HasError() bool {
	return len(s.items) > 0
}

// Len returns the number of diagnostics on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// PopError removes and returns the most recently pushed diagnostic.
// The second return value is false if the stack is empty.
func (s *Stack) PopError() (Diagnostic, bool) {
	n := len(s.items)
	if n == 0 {
		return Diagnostic{}, false
	}
	d := s.items[n-1]
	s.items = s.items[:n-1]
	return d, true
}

// Merge pushes all of the diagnostics of the other stack onto this one,
// preserving their order, and empties the other stack.
func (s *Stack) Merge(other *Stack) {
	s.items = append(s.items, other.items...)
	other.items = nil
}

// Drain empties the stack and returns its contents in the order
// they were pushed.
func (s *Stack) Drain() []Diagnostic {
	items := s.items
	s.items = nil
	return items
}

// Log drains the stack into the given logger, oldest first.
func (s *Stack) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, d := range s.Drain() {
		logger.Log(context.Background(), d.Severity.Level(), d.Message, "source", d.Source)
	}
}
