// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import "errors"

var (
	// ErrNilMessage is returned by emission calls with a nil message.
	ErrNilMessage = errors.New("log: nil message")

	// ErrNilLevel is returned by emission calls with a nil severity level.
	ErrNilLevel = errors.New("log: nil level")

	// ErrClosed is returned by operations on a logger after Close.
	ErrClosed = errors.New("log: logger closed")

	// ErrUnknownToken is returned when the active format template
	// references an attribute the formatter does not recognize.
	ErrUnknownToken = errors.New("log: unknown format token")

	// ErrEmptyStack is returned when caller attribution is required
	// but the record carries no captured stack frames.
	ErrEmptyStack = errors.New("log: record has no stack frames")
)
