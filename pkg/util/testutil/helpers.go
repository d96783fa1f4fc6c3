// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testutil holds shared helpers for the package tests.
package testutil

import (
	"io"
	"reflect"
	"testing"
)

// CleanupCloser adds a Cleanup function to the test which closes the
// supplied closers in order.
func CleanupCloser(t *testing.T, closers ...io.Closer) {
	t.Helper()

	t.Cleanup(func() {
		for _, c := range closers {
			if c == nil {
				continue
			}

			if err := c.Close(); err != nil {
				t.Fatalf("failed to gracefully close %s: %s", reflect.TypeOf(c), err)
			}
		}
	})
}
