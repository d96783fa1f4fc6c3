// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package log

// applyPriority is a no-op on platforms without per-thread renicing.
func applyPriority(Priority) error {
	return nil
}
