// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/snerble/logfan/pkg/sink"
)

// NewTestLogger returns a logger for use in tests. Formatted lines
// end up in the test output through t.Log. The logger is closed
// automatically when the test finishes.
func NewTestLogger(t *testing.T, opts ...Option) *Logger {
	t.Helper()

	opts = append(opts, WithSinks(sink.NewWriter(&testWriter{t: t})))

	l := NewLogger(t.Name(), opts...)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

type testWriter struct {
	t *testing.T
}

func (tw *testWriter) Write(p []byte) (n int, err error) {
	tw.t.Log(string(p))
	return len(p), nil
}
