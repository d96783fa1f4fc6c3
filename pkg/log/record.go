// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/snerble/logfan/pkg/severity"
)

// maxStackDepth bounds the number of program counters captured per record.
const maxStackDepth = 64

// Record is one immutable logging event awaiting delivery. Once
// constructed a record is never mutated; the same record value is
// shared by every logger it propagates to.
type Record struct {
	level             *severity.Level
	message           any
	cause             error
	pcs               []uintptr
	includeStackTrace bool
	creation          time.Time
	gid               uint64
}

// stackTracer is the stack-carrying error contract of github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// newRecord builds a record for the given level and message. The call
// stack is captured at the call site, skip frames above newRecord,
// unless capture is false or the cause error carries its own stack.
func newRecord(level *severity.Level, message any, includeStackTrace bool, cause error, capture bool, skip int, now time.Time) *Record {
	r := &Record{
		level:             level,
		message:           message,
		cause:             cause,
		includeStackTrace: includeStackTrace,
		creation:          now,
		gid:               goroutineID(),
	}
	if st, ok := cause.(stackTracer); ok {
		frames := st.StackTrace()
		r.pcs = make([]uintptr, len(frames))
		for i, f := range frames {
			r.pcs[i] = uintptr(f)
		}
		return r
	}
	if capture {
		pcs := make([]uintptr, maxStackDepth)
		n := runtime.Callers(skip+2, pcs)
		r.pcs = pcs[:n]
	}
	return r
}

// Level returns the severity level of the record.
func (r *Record) Level() *severity.Level { return r.level }

// Message returns the raw message value.
func (r *Record) Message() any { return r.message }

// Cause returns the failure that triggered the record, if any.
func (r *Record) Cause() error { return r.cause }

// Creation returns the time the record was constructed.
func (r *Record) Creation() time.Time { return r.creation }

// IncludeStackTrace reports whether the formatted output must carry
// the textual stack trace.
func (r *Record) IncludeStackTrace() bool { return r.includeStackTrace }

// messageText stringifies the message, appending the cause when present.
func (r *Record) messageText() string {
	if r.cause != nil {
		return fmt.Sprintf("%v: %v", r.message, r.cause)
	}
	if s, ok := r.message.(string); ok {
		return s
	}
	return fmt.Sprint(r.message)
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the current goroutine id out of the runtime
// stack header, "goroutine N [...".
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, goroutinePrefix)
	i := bytes.IndexByte(buf, ' ')
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseUint(string(buf[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
