// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - start and stop a set of long running goroutines
package background

// the shutdown and completed channels for a background
type shutdown struct {
	shutdown chan struct{}
	finished chan struct{}
}

// T - handle type
type T struct {
	s []shutdown
}

// Process - interface for a background process
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// Start - start up a set of background processes
// all with the same arguments
func Start(processes Processes, args interface{}) *T {

	register := &T{
		s: make([]shutdown, len(processes)),
	}

	// start each background
	for i, p := range processes {
		shutdown := make(chan struct{})
		finished := make(chan struct{})
		register.s[i].shutdown = shutdown
		register.s[i].finished = finished
		go func(p Process, shutdown <-chan struct{}, finished chan<- struct{}) {
			p.Run(args, shutdown)
			close(finished)
		}(p, shutdown, finished)
	}
	return register
}

// Stop - stop a set of background processes
// in reverse order of starting
func (t *T) Stop() {
	if nil == t {
		return
	}

	// shutdown all background tasks
	for i := len(t.s) - 1; i >= 0; i -= 1 {
		close(t.s[i].shutdown)
		<-t.s[i].finished
	}
}
