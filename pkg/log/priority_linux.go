// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package log

import "golang.org/x/sys/unix"

// applyPriority renices the calling OS thread. The caller must be
// pinned with runtime.LockOSThread for the setting to stick to the
// drain loop. Raising priority beyond the default may require
// privileges; callers are expected to ignore the error.
func applyPriority(p Priority) error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), niceFor(p))
}
