// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/snerble/logfan/pkg/sink"
	"github.com/snerble/logfan/pkg/util/testutil"
)

func TestWriterSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := sink.NewWriter(&buf)

	s.Lock()
	if err := s.WriteLine("hello"); err != nil {
		t.Fatalf("write line: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	s.Unlock()

	if have, want := buf.String(), "hello\n"; have != want {
		t.Errorf("have %q, want %q", have, want)
	}
	if s.Console() {
		t.Error("buffer backed sink must not report console")
	}
}

func TestWriterSinkClosed(t *testing.T) {
	t.Parallel()

	s := sink.NewWriter(&bytes.Buffer{})
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	s.Lock()
	err := s.WriteLine("late")
	s.Unlock()
	if !errors.Is(err, sink.ErrClosed) {
		t.Errorf("have %v, want %v", err, sink.ErrClosed)
	}
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	s, err := sink.NewFile(fs, "/logs/app.log")
	if err != nil {
		t.Fatalf("new file sink: %v", err)
	}

	s.Lock()
	if err := s.WriteLine("first"); err != nil {
		t.Fatalf("write line: %v", err)
	}
	if err := s.WriteLine("second"); err != nil {
		t.Fatalf("write line: %v", err)
	}
	s.Unlock()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := afero.ReadFile(fs, "/logs/app.log")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if have, want := string(data), "first\nsecond\n"; have != want {
		t.Errorf("have %q, want %q", have, want)
	}
}

func TestLogrusSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ll := logrus.New()
	ll.SetOutput(&buf)
	ll.SetLevel(logrus.InfoLevel)

	s := sink.NewLogrus(ll, logrus.InfoLevel)
	testutil.CleanupCloser(t, s)

	s.Lock()
	if err := s.WriteLine("bridged line"); err != nil {
		t.Fatalf("write line: %v", err)
	}
	s.Unlock()

	if !strings.Contains(buf.String(), "bridged line") {
		t.Errorf("logrus output %q does not contain forwarded line", buf.String())
	}
}

// Stdout under the test runner is a pipe, where fsync fails with
// EINVAL; flushing the process streams must not surface that.
func TestProcessStreamFlush(t *testing.T) {
	t.Parallel()

	for _, s := range []*sink.WriterSink{sink.Stdout(), sink.Stderr(), sink.NewWriter(os.Stdout)} {
		s.Lock()
		err := s.Flush()
		s.Unlock()
		if err != nil {
			t.Errorf("flush process stream: %v", err)
		}
	}
}

func TestStdoutShared(t *testing.T) {
	t.Parallel()

	if sink.Stdout() != sink.Stdout() {
		t.Error("Stdout must return the shared instance")
	}
	if sink.Stderr() != sink.Stderr() {
		t.Error("Stderr must return the shared instance")
	}
}
