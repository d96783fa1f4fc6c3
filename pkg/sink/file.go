// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// FileSink is a buffered, append-mode file sink. It is built on the
// afero filesystem abstraction so tests can run against an in-memory
// filesystem.
type FileSink struct {
	sync.Mutex
	f      afero.File
	bw     *bufio.Writer
	closed bool
}

// NewFile opens (creating if needed) the file at path on fs in append
// mode and returns a sink writing to it.
func NewFile(fs afero.Fs, path string) (*FileSink, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	return &FileSink{f: f, bw: bufio.NewWriter(f)}, nil
}

// WriteLine implements the Sink interface WriteLine method.
func (s *FileSink) WriteLine(line string) error {
	if s.closed {
		return ErrClosed
	}
	if _, err := s.bw.WriteString(line); err != nil {
		return err
	}
	return s.bw.WriteByte('\n')
}

// Flush implements the Sink interface Flush method.
func (s *FileSink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return s.bw.Flush()
}

// Close implements the Sink interface Close method.
func (s *FileSink) Close() error {
	s.Lock()
	defer s.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.bw.Flush(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
