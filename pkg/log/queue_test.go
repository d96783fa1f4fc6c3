// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/snerble/logfan/pkg/severity"
)

func testRecord(msg string) *Record {
	return newRecord(severity.Info, msg, false, nil, false, 0, time.Now())
}

func testQueue() *queue {
	return newQueue(prometheus.NewGauge(prometheus.GaugeOpts{Name: "depth"}))
}

func TestQueueOrder(t *testing.T) {
	t.Parallel()

	q := testQueue()
	for _, m := range []string{"a", "b", "c"} {
		if !q.push(testRecord(m)) {
			t.Fatal("push refused on open queue")
		}
	}
	if have, want := q.depth(), 3; have != want {
		t.Fatalf("depth: have %d, want %d", have, want)
	}
	for _, want := range []string{"a", "b", "c"} {
		r, ok := q.pop()
		if !ok {
			t.Fatal("pop reported termination on non-empty queue")
		}
		if have := r.Message(); have != want {
			t.Errorf("have %v, want %v", have, want)
		}
	}
}

func TestQueueCloseDrainsRemaining(t *testing.T) {
	t.Parallel()

	q := testQueue()
	q.push(testRecord("pending"))
	q.close()

	if q.push(testRecord("late")) {
		t.Error("push accepted after close")
	}

	r, ok := q.pop()
	if !ok || r.Message() != "pending" {
		t.Fatalf("expected buffered record after close, got %v, %v", r, ok)
	}
	if _, ok := q.pop(); ok {
		t.Error("expected termination once closed and drained")
	}
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	t.Parallel()

	q := testQueue()
	got := make(chan *Record, 1)
	go func() {
		r, _ := q.pop()
		got <- r
	}()

	time.Sleep(10 * time.Millisecond)
	q.push(testRecord("x"))

	select {
	case r := <-got:
		if r.Message() != "x" {
			t.Errorf("have %v, want %v", r.Message(), "x")
		}
	case <-time.After(time.Second):
		t.Fatal("consumer never woke up")
	}
}

func TestQueueCloseWakesBlockedConsumer(t *testing.T) {
	t.Parallel()

	q := testQueue()
	done := make(chan bool, 1)
	go func() {
		_, ok := q.pop()
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	q.close()

	select {
	case ok := <-done:
		if ok {
			t.Error("expected termination signal, got record")
		}
	case <-time.After(time.Second):
		t.Fatal("blocked consumer not released by close")
	}
}

func TestQueueGaugeCountsInFlight(t *testing.T) {
	t.Parallel()

	q := testQueue()
	q.push(testRecord("a"))
	if have, want := testutil.ToFloat64(q.gauge), 1.0; have != want {
		t.Fatalf("after push: have %v, want %v", have, want)
	}

	if _, ok := q.pop(); !ok {
		t.Fatal("pop reported termination on non-empty queue")
	}
	if have, want := testutil.ToFloat64(q.gauge), 1.0; have != want {
		t.Errorf("popped record must stay on the gauge: have %v, want %v", have, want)
	}

	q.settle()
	if have, want := testutil.ToFloat64(q.gauge), 0.0; have != want {
		t.Errorf("after settle: have %v, want %v", have, want)
	}
}

func TestQueueGaugeZeroAfterConcurrentProducers(t *testing.T) {
	t.Parallel()

	const records = 2000

	q := testQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < records/4; i++ {
				q.push(testRecord("x"))
			}
		}()
	}

	for i := 0; i < records; i++ {
		if _, ok := q.pop(); !ok {
			t.Fatal("pop reported termination mid-stream")
		}
		q.settle()
	}
	wg.Wait()

	if have, want := testutil.ToFloat64(q.gauge), 0.0; have != want {
		t.Errorf("drained queue gauge: have %v, want %v", have, want)
	}
}
