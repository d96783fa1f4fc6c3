// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log implements the asynchronous logging core. Emission
// calls construct an immutable Record, capture the call stack and
// enqueue without blocking; a single drain goroutine per Logger
// formats, filters and fans records out to the logger's sinks,
// forwarding each record first to every attached child logger.
//
// Loggers compose into a directed propagation graph via Attach and
// Detach. The graph may contain duplicate edges and cycles: a
// duplicate edge delivers a record to the child once per edge, while
// the delivery pass expands every logger at most once so cyclic
// graphs stay bounded.
package log

import (
	"time"

	"github.com/snerble/logfan/pkg/highlight"
	"github.com/snerble/logfan/pkg/severity"
	"github.com/snerble/logfan/pkg/sink"
)

// Options specifies parameters that affect logger behavior.
type Options struct {
	threshold    *severity.Level
	format       string
	sinks        []sink.Sink
	fileInfo     bool
	highlighting bool
	silent       bool
	highlighter  *highlight.Highlighter
	fallback     sink.Sink
	priority     Priority
	clock        func() time.Time
}

// Option represents an Options parameters modifier.
type Option func(*Options)

// WithThreshold sets the logger's severity ceiling: a record is
// written locally only when the threshold ordinal is greater than or
// equal to the record's level ordinal. The default is severity.Info.
func WithThreshold(l *severity.Level) Option {
	return func(opts *Options) { opts.threshold = l }
}

// WithFormat sets the format template. See the formatter for the
// placeholder syntax; the default is DefaultFormat.
func WithFormat(format string) Option {
	return func(opts *Options) { opts.format = format }
}

// WithSinks registers the logger's output streams. The logger owns
// the teardown of its sinks: Close closes them. Sinks may be shared
// between loggers; each sink write runs under that sink's own lock.
func WithSinks(sinks ...sink.Sink) Option {
	return func(opts *Options) { opts.sinks = append(opts.sinks, sinks...) }
}

// WithFileInfo tells the logger whether to capture the call stack at
// each emission call. Without a stack, templates referencing caller
// attributes fail to format. Enabled by default.
func WithFileInfo(v bool) Option {
	return func(opts *Options) { opts.fileInfo = v }
}

// WithHighlighting enables colorized output for console sinks.
func WithHighlighting(v bool) Option {
	return func(opts *Options) { opts.highlighting = v }
}

// WithHighlighter sets the highlighter used for console sinks when
// highlighting is enabled. Defaults to the stock rule set.
func WithHighlighter(h *highlight.Highlighter) Option {
	return func(opts *Options) { opts.highlighter = h }
}

// WithSilent creates the logger silenced. A silent logger drops every
// record it dequeues without writing or propagating to children.
func WithSilent(v bool) Option {
	return func(opts *Options) { opts.silent = v }
}

// WithPriority pins the drain thread to a fixed scheduling priority,
// disabling the adaptive queue-depth heuristic.
func WithPriority(p Priority) Option {
	return func(opts *Options) { opts.priority = p }
}

// WithFallback sets the sink receiving lines when no output streams
// are registered, as well as the drain loop's own fault reports.
// Defaults to the shared stderr sink.
func WithFallback(s sink.Sink) Option {
	return func(opts *Options) { opts.fallback = s }
}

// WithClock overrides the time source used for record creation
// timestamps. Test seam.
func WithClock(clock func() time.Time) Option {
	return func(opts *Options) { opts.clock = clock }
}
