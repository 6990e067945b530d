// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/regchain/registryd/background"
)

// a process that drains a queue until told to stop
type drainer struct {
	queue   chan int
	drained int64
	stopped int64
}

func (d *drainer) Run(args interface{}, shutdown <-chan struct{}) {
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-d.queue:
			atomic.AddInt64(&d.drained, 1)
		}
	}
	atomic.AddInt64(&d.stopped, 1)
}

func TestStartStop(t *testing.T) {

	queue := make(chan int, 16)
	first := &drainer{queue: queue}
	second := &drainer{queue: queue}

	processes := background.Processes{
		first,
		second,
	}
	p := background.Start(processes, nil)

	for i := 0; i < 10; i += 1 {
		queue <- i
	}
	time.Sleep(50 * time.Millisecond)

	p.Stop()

	if 1 != atomic.LoadInt64(&first.stopped) {
		t.Fatalf("first process did not stop")
	}
	if 1 != atomic.LoadInt64(&second.stopped) {
		t.Fatalf("second process did not stop")
	}
	total := atomic.LoadInt64(&first.drained) + atomic.LoadInt64(&second.drained)
	if 10 != total {
		t.Fatalf("drained: expected: %d  actual: %d", 10, total)
	}
}

// stopping a nil handle must be a no-op so callers can stop
// unconditionally during shutdown
func TestStopNil(t *testing.T) {
	var p *background.T
	p.Stop()
}
