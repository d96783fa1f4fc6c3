// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// queue is the unbounded record buffer between the emission API and
// the drain loop. Any number of producers may push concurrently;
// exactly one consumer pops. After close, push is refused but pop
// keeps returning buffered records until the queue runs dry, so every
// accepted record is attempted.
//
// The depth gauge is maintained here, under the queue mutex, so its
// updates are totally ordered. A popped record counts as in flight
// until the consumer calls settle; a zero reading therefore means the
// queue is drained and the last record fully handled.
type queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []*Record
	head     int
	inflight int
	closed   bool
	gauge    prometheus.Gauge
}

func newQueue(gauge prometheus.Gauge) *queue {
	q := &queue{gauge: gauge}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends r and wakes the consumer. It reports false once the
// queue is closed for adding.
func (q *queue) push(r *Record) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, r)
	q.gauge.Set(float64(len(q.items) - q.head + q.inflight))
	q.cond.Signal()
	return true
}

// pop blocks until a record is available or the queue is closed and
// drained. The second return value is false only on termination. The
// returned record stays on the gauge until settle.
func (q *queue) pop() (*Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) && !q.closed {
		q.cond.Wait()
	}
	if q.head == len(q.items) {
		return nil, false
	}
	r := q.items[q.head]
	q.items[q.head] = nil
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	q.inflight = 1
	q.gauge.Set(float64(len(q.items) - q.head + 1))
	return r, true
}

// settle marks the in-flight record handled and publishes the new
// depth.
func (q *queue) settle() {
	q.mu.Lock()
	q.inflight = 0
	q.gauge.Set(float64(len(q.items) - q.head))
	q.mu.Unlock()
}

// close marks the queue closed for adding and wakes the consumer.
func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// depth returns the number of pending records.
func (q *queue) depth() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}
