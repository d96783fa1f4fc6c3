// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import "fmt"

// Priority is the scheduling priority of a logger's drain thread.
type Priority int32

const (
	// PriorityAuto lets the drain loop pick its own priority as a
	// step function of queue depth.
	PriorityAuto Priority = iota
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityHighest
)

// String implements the fmt.Stringer interface.
func (p Priority) String() string {
	switch p {
	case PriorityAuto:
		return "auto"
	case PriorityBelowNormal:
		return "below-normal"
	case PriorityNormal:
		return "normal"
	case PriorityAboveNormal:
		return "above-normal"
	case PriorityHighest:
		return "highest"
	}
	return fmt.Sprintf("priority(%d)", int32(p))
}

// ParsePriority returns the Priority named by s.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "", "auto":
		return PriorityAuto, nil
	case "below-normal":
		return PriorityBelowNormal, nil
	case "normal":
		return PriorityNormal, nil
	case "above-normal":
		return PriorityAboveNormal, nil
	case "highest":
		return PriorityHighest, nil
	}
	return PriorityAuto, fmt.Errorf("log: unknown priority %q", s)
}

// priorityFor maps queue depth to drain-thread priority. The 250-499
// band deliberately resolves to normal; the quantization gap is
// carried over from the source behavior and must not be "fixed" here
// without revisiting the callers of this heuristic.
func priorityFor(depth int) Priority {
	switch {
	case depth < 100:
		return PriorityBelowNormal
	case depth < 250:
		return PriorityNormal
	case depth >= 1000:
		return PriorityHighest
	case depth >= 500:
		return PriorityAboveNormal
	default:
		return PriorityNormal
	}
}

// niceFor maps a priority tier to a unix nice value.
func niceFor(p Priority) int {
	switch p {
	case PriorityBelowNormal:
		return 5
	case PriorityAboveNormal:
		return -5
	case PriorityHighest:
		return -10
	default:
		return 0
	}
}
