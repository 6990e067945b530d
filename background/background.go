// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run tasks in the background with a stop mechanism
package background

// T - handle to a running set of background processes
type T struct {
	finished chan bool
	shutdown chan struct{}
	count    int
}

// Process - a background process instance
type Process interface {

	// Run - a blocking loop; must return promptly after shutdown closes
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// Start - set up a group of background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		finished: make(chan bool),
		shutdown: make(chan struct{}),
		count:    len(processes),
	}

	for _, p := range processes {
		go func(p Process) {
			p.Run(args, register.shutdown)
			register.finished <- true
		}(p)
	}
	return register
}

// Stop - stop the group and wait for all processes to return
func (t *T) Stop() {

	if nil == t {
		return
	}

	close(t.shutdown)

	for i := 0; i < t.count; i += 1 {
		<-t.finished
	}
}
