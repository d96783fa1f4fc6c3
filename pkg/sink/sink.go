// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sink defines the output stream contract consumed by the
// logging core and provides the stock implementations: io.Writer
// backed sinks, buffered file sinks and a logrus bridge.
//
// Every sink carries its own exclusion lock. A sink value shared by
// multiple loggers therefore shares a single lock, which is what keeps
// a physical stream from being interleaved mid-line. WriteLine and
// Flush assume the caller holds the lock; Close acquires it itself and
// is idempotent.
package sink

import (
	"errors"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ErrClosed is returned by writes to a closed sink.
var ErrClosed = errors.New("sink: closed")

// Sink is an output stream for formatted log lines.
type Sink interface {
	sync.Locker

	// WriteLine writes one formatted line. The line carries no
	// trailing newline; the sink supplies its own framing.
	// The caller must hold the sink's lock.
	WriteLine(line string) error

	// Flush forces buffered data out. The caller must hold the
	// sink's lock.
	Flush() error

	// Close releases the sink. Subsequent writes fail with ErrClosed.
	Close() error
}

// Consoler is an optional capability reported by sinks bound to the
// process's standard output. The logging core routes lines through the
// highlighter only for sinks reporting Console() true.
type Consoler interface {
	Console() bool
}

// WriterSink adapts an io.Writer to the Sink interface.
type WriterSink struct {
	sync.Mutex
	w       io.Writer
	console bool
	closed  bool
}

// NewWriter returns a sink writing to w.
func NewWriter(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Console implements the Consoler interface.
func (s *WriterSink) Console() bool {
	return s.console
}

// WriteLine implements the Sink interface WriteLine method.
func (s *WriterSink) WriteLine(line string) error {
	if s.closed {
		return ErrClosed
	}
	_, err := io.WriteString(s.w, line+"\n")
	return err
}

// Flush implements the Sink interface Flush method. The process
// streams os.Stdout and os.Stderr are exempt from syncing: they are
// unbuffered, and fsync on a pipe or tty fails with EINVAL.
func (s *WriterSink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if s.w == os.Stdout || s.w == os.Stderr {
		return nil
	}
	if f, ok := s.w.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

// Close implements the Sink interface Close method. The underlying
// writer is closed as well when it implements io.Closer, except for
// the process streams os.Stdout and os.Stderr.
func (s *WriterSink) Close() error {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.w == os.Stdout || s.w == os.Stderr {
		return nil
	}
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

var (
	stdoutOnce sync.Once
	stdoutSink *WriterSink

	stderrOnce sync.Once
	stderrSink *WriterSink
)

// Stdout returns the shared process-stdout sink. All callers receive
// the same instance so that writes from different loggers serialize on
// one lock. The sink reports Console() true only when stdout is a
// terminal.
func Stdout() *WriterSink {
	stdoutOnce.Do(func() {
		stdoutSink = NewWriter(os.Stdout)
		stdoutSink.console = term.IsTerminal(int(os.Stdout.Fd()))
	})
	return stdoutSink
}

// Stderr returns the shared process-stderr sink.
func Stderr() *WriterSink {
	stderrOnce.Do(func() {
		stderrSink = NewWriter(os.Stderr)
	})
	return stderrSink
}

// Discard returns a sink that drops everything written to it.
func Discard() Sink {
	return &discard{}
}

type discard struct{ sync.Mutex }

func (*discard) WriteLine(string) error { return nil }
func (*discard) Flush() error           { return nil }
func (*discard) Close() error           { return nil }
