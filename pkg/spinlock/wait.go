// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spinlock provides a facility to wait for a condition to be
// satisfied within a bounded amount of time. It is used by the tests
// to observe the asynchronous drain loop settling.
package spinlock

import (
	"errors"
	"time"
)

// ErrTimedOut is returned when the condition is not satisfied in time.
var ErrTimedOut = errors.New("spinlock: timed out waiting for condition")

// Wait polls cond until it returns true or the timeout elapses.
func Wait(timeout time.Duration, cond func() bool) error {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimedOut
		}
		time.Sleep(time.Millisecond)
	}
}
