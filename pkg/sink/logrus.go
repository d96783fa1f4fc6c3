// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// LogrusSink forwards formatted lines into an existing logrus
// installation at a fixed logrus level. It exists as a migration path
// for applications whose sinks are already plumbed through logrus.
// The sink does not own the logrus logger and Close leaves it alone.
type LogrusSink struct {
	sync.Mutex
	l      *logrus.Logger
	lvl    logrus.Level
	closed bool
}

// NewLogrus returns a sink forwarding lines to l at the given level.
func NewLogrus(l *logrus.Logger, lvl logrus.Level) *LogrusSink {
	return &LogrusSink{l: l, lvl: lvl}
}

// WriteLine implements the Sink interface WriteLine method.
func (s *LogrusSink) WriteLine(line string) error {
	if s.closed {
		return ErrClosed
	}
	s.l.Log(s.lvl, line)
	return nil
}

// Flush implements the Sink interface Flush method.
func (s *LogrusSink) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close implements the Sink interface Close method.
func (s *LogrusSink) Close() error {
	s.Lock()
	defer s.Unlock()
	s.closed = true
	return nil
}
