// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/atomic"

	"github.com/snerble/logfan/pkg/highlight"
	"github.com/snerble/logfan/pkg/severity"
	"github.com/snerble/logfan/pkg/sink"
)

// Logger is the addressable logging unit. It owns its record queue,
// its drain goroutine and the teardown of its sinks, and holds the
// edges of the propagation graph it takes part in.
//
// Emission methods are safe for concurrent use from any number of
// goroutines. Attach and Detach are not internally synchronized
// against concurrent topology mutation or delivery; callers mutating
// the graph concurrently must serialize externally.
type Logger struct {
	id      string
	name    string
	created time.Time

	threshold    atomic.Pointer[severity.Level]
	format       atomic.String
	fileInfo     atomic.Bool
	highlighting atomic.Bool
	silent       atomic.Bool
	closed       atomic.Bool

	children []*Logger
	parents  []*Logger
	sinks    []sink.Sink

	highlighter *highlight.Highlighter
	fallback    sink.Sink
	clock       func() time.Time
	priority    Priority

	queue   *queue
	done    chan struct{}
	metrics metrics
}

// NewLogger returns a new named Logger and starts its drain loop.
// The logger must be released with Close.
func NewLogger(name string, opts ...Option) *Logger {
	options := &Options{
		threshold:   severity.Info,
		format:      DefaultFormat,
		fileInfo:    true,
		highlighter: highlight.New(highlight.DefaultRules()...),
		fallback:    sink.Stderr(),
		priority:    PriorityAuto,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	l := &Logger{
		id:          uuid.NewString(),
		name:        name,
		created:     options.clock(),
		sinks:       options.sinks,
		highlighter: options.highlighter,
		fallback:    options.fallback,
		clock:       options.clock,
		priority:    options.priority,
		done:        make(chan struct{}),
		metrics:     newMetrics(),
	}
	l.queue = newQueue(l.metrics.QueueDepth)
	l.threshold.Store(options.threshold)
	l.format.Store(options.format)
	l.fileInfo.Store(options.fileInfo)
	l.highlighting.Store(options.highlighting)
	l.silent.Store(options.silent)

	go l.drain()

	return l
}

// Name returns the logger's display name. Names need not be unique.
func (l *Logger) Name() string { return l.name }

// ID returns the unique instance identifier of the logger.
func (l *Logger) ID() string { return l.id }

// Created returns the construction time of the logger.
func (l *Logger) Created() time.Time { return l.created }

// String implements the fmt.Stringer interface.
func (l *Logger) String() string {
	return fmt.Sprintf("%s[%.8s]", l.name, l.id)
}

// Threshold returns the logger's severity ceiling.
func (l *Logger) Threshold() *severity.Level { return l.threshold.Load() }

// SetThreshold changes the logger's severity ceiling at runtime.
func (l *Logger) SetThreshold(level *severity.Level) error {
	if level == nil {
		return ErrNilLevel
	}
	l.threshold.Store(level)
	return nil
}

// Format returns the active format template.
func (l *Logger) Format() string { return l.format.Load() }

// SetFormat replaces the format template. The template is validated
// syntactically; unknown attribute tokens surface later, at
// formatting time.
func (l *Logger) SetFormat(format string) error {
	if _, err := parseTemplate(format); err != nil {
		return err
	}
	l.format.Store(format)
	return nil
}

// Silent reports whether the logger is silenced.
func (l *Logger) Silent() bool { return l.silent.Load() }

// SetSilent toggles silent mode. While silent, dequeued records are
// dropped without local output or propagation, silencing the whole
// subtree below this logger for those records.
func (l *Logger) SetSilent(v bool) { l.silent.Store(v) }

// SetHighlighting toggles console colorization.
func (l *Logger) SetHighlighting(v bool) { l.highlighting.Store(v) }

// SetFileInfo toggles call-stack capture on emission.
func (l *Logger) SetFileInfo(v bool) { l.fileInfo.Store(v) }

// Enabled reports whether a record at the given level would pass the
// local severity filter right now.
func (l *Logger) Enabled(level *severity.Level) bool {
	if level == nil || l.closed.Load() || l.silent.Load() {
		return false
	}
	return l.threshold.Load().Ordinal >= level.Ordinal
}

// Attach adds child to the logger's children and, symmetrically, the
// logger to the child's parents. There is no cycle or duplicate
// check: attaching the same child twice creates two edges and the
// child will receive each propagated record twice.
func (l *Logger) Attach(child *Logger) {
	if child == nil {
		return
	}
	l.children = append(l.children, child)
	child.parents = append(child.parents, l)
}

// Detach removes one child edge and its inverse parent edge.
// Detaching a logger that is not attached is a no-op.
func (l *Logger) Detach(child *Logger) {
	if child == nil {
		return
	}
	l.children = removeFirst(l.children, child)
	child.parents = removeFirst(child.parents, l)
}

// Children returns a copy of the logger's child edges.
func (l *Logger) Children() []*Logger {
	return append([]*Logger(nil), l.children...)
}

// Parents returns a copy of the logger's parent edges.
func (l *Logger) Parents() []*Logger {
	return append([]*Logger(nil), l.parents...)
}

func removeFirst(s []*Logger, x *Logger) []*Logger {
	for i, v := range s {
		if v == x {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// Write validates and enqueues a record at the given level. The call
// never blocks; formatting and output happen later on the drain loop.
func (l *Logger) Write(level *severity.Level, message any, includeStackTrace bool) error {
	return l.write(level, message, includeStackTrace, nil)
}

// WriteError enqueues a record for a caused failure. When the cause
// was created with github.com/pkg/errors its own captured stack is
// attributed instead of the stack of this call site. The stack trace
// is always included in the output.
func (l *Logger) WriteError(level *severity.Level, message any, cause error) error {
	return l.write(level, message, true, cause)
}

// Fatal logs a message at the FATAL level, including the stack trace.
func (l *Logger) Fatal(message any) error {
	return l.write(severity.Fatal, message, true, nil)
}

// Error logs a message at the ERROR level.
func (l *Logger) Error(message any) error {
	return l.write(severity.Error, message, false, nil)
}

// Warning logs a message at the WARN level.
func (l *Logger) Warning(message any) error {
	return l.write(severity.Warning, message, false, nil)
}

// Info logs a message at the INFO level.
func (l *Logger) Info(message any) error {
	return l.write(severity.Info, message, false, nil)
}

// Debug logs a message at the DEBUG level.
func (l *Logger) Debug(message any) error {
	return l.write(severity.Debug, message, false, nil)
}

// Trace logs a message at the TRACE level.
func (l *Logger) Trace(message any) error {
	return l.write(severity.Trace, message, false, nil)
}

func (l *Logger) write(level *severity.Level, message any, includeStackTrace bool, cause error) error {
	if l.closed.Load() {
		return ErrClosed
	}
	if level == nil {
		return ErrNilLevel
	}
	if message == nil {
		return ErrNilMessage
	}
	r := newRecord(level, message, includeStackTrace, cause, l.fileInfo.Load(), 1, l.clock())
	if !l.queue.push(r) {
		return ErrClosed
	}
	return nil
}

// drain is the logger's single queue consumer. It runs from
// construction until Close and survives per-record failures.
func (l *Logger) drain() {
	defer close(l.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	last := PriorityAuto
	if l.priority != PriorityAuto {
		_ = applyPriority(l.priority)
	}
	for {
		r, ok := l.queue.pop()
		if !ok {
			return
		}
		depth := l.queue.depth()
		if l.priority == PriorityAuto {
			if p := priorityFor(depth); p != last {
				_ = applyPriority(p) // renicing up needs privileges
				last = p
			}
		}
		l.safeDeliver(r)
		l.queue.settle()
	}
}

func (l *Logger) safeDeliver(r *Record) {
	defer func() {
		if v := recover(); v != nil {
			l.fault(fmt.Errorf("log: panic delivering record: %v", v))
		}
	}()
	l.deliver(r, make(map[*Logger]struct{}))
}

// deliver propagates r through the graph below l and then applies the
// local filter and output. Children receive the record before the
// parent's own threshold is consulted and are only subject to their
// own. The visited set bounds traversal on cyclic graphs: a logger
// already expanded still receives one local delivery per extra edge,
// but its own children are not walked again.
func (l *Logger) deliver(r *Record, visited map[*Logger]struct{}) {
	if l.silent.Load() {
		return
	}
	visited[l] = struct{}{}
	for _, c := range l.children {
		if _, seen := visited[c]; seen {
			c.emit(r)
			continue
		}
		c.deliver(r, visited)
	}
	l.emit(r)
}

// emit applies the local severity filter, formats and fans out.
func (l *Logger) emit(r *Record) {
	if l.silent.Load() {
		return
	}
	if l.threshold.Load().Ordinal < r.level.Ordinal {
		return
	}
	line, err := l.formatRecord(r)
	if err != nil {
		l.fault(fmt.Errorf("log: format record: %w", err))
		return
	}
	l.metrics.RecordCount.WithLabelValues(r.level.Name).Inc()
	l.fanout(line)
}

// fanout writes line to every registered sink under that sink's own
// lock, holding it across the write and the flush so a stream shared
// between loggers is never interleaved mid-line. With no sinks
// registered the line goes to the fallback sink instead.
func (l *Logger) fanout(line string) {
	if len(l.sinks) == 0 {
		if err := l.writeSink(l.fallback, line); err != nil {
			l.fault(fmt.Errorf("log: write fallback: %w", err))
		}
		return
	}
	var merr *multierror.Error
	for _, s := range l.sinks {
		if err := l.writeSink(s, line); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("log: write sink: %w", err))
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		l.fault(err)
	}
}

func (l *Logger) writeSink(s sink.Sink, line string) error {
	s.Lock()
	defer s.Unlock()
	if l.highlighting.Load() {
		if c, ok := s.(sink.Consoler); ok && c.Console() {
			line = highlight.Render(line, l.highlighter.Spans(line))
		}
	}
	if err := s.WriteLine(line); err != nil {
		return err
	}
	return s.Flush()
}

// fault reports a drain-loop failure to the fallback sink. The loop
// never logs through the logger itself.
func (l *Logger) fault(err error) {
	l.metrics.FaultCount.Inc()
	l.fallback.Lock()
	defer l.fallback.Unlock()
	_ = l.fallback.WriteLine(err.Error())
	_ = l.fallback.Flush()
}

// Flush flushes every registered sink.
func (l *Logger) Flush() error {
	var merr *multierror.Error
	for _, s := range l.sinks {
		s.Lock()
		err := s.Flush()
		s.Unlock()
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return merr.ErrorOrNil()
}

// Close tears the logger down: it refuses further writes, drains and
// joins the drain goroutine, recursively closes and detaches child
// loggers, closes the registered sinks and detaches from every
// parent. Records accepted before Close are still delivered. Close is
// idempotent; subsequent calls return nil without touching the sinks
// again. Joining the drain goroutine is the only blocking step.
func (l *Logger) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	l.queue.close()
	<-l.done

	var merr *multierror.Error
	for _, c := range l.Children() {
		if err := c.Close(); err != nil {
			merr = multierror.Append(merr, err)
		}
		l.Detach(c)
	}
	for _, p := range l.Parents() {
		p.Detach(l)
	}
	for _, s := range l.sinks {
		if err := s.Close(); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("log: close sink: %w", err))
		}
	}
	return merr.ErrorOrNil()
}
