// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/background"
)

type recorder struct {
	sync.Mutex
	stopped []string
}

func (r *recorder) add(name string) {
	r.Lock()
	r.stopped = append(r.stopped, name)
	r.Unlock()
}

type worker struct {
	name  string
	ticks int
}

func (w *worker) Run(args interface{}, shutdown <-chan struct{}) {

	r := args.(*recorder)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(time.Millisecond):
			w.ticks += 1
		}
	}

	r.add(w.name)
}

func TestBackground(t *testing.T) {

	r := &recorder{}
	first := &worker{name: "first"}
	second := &worker{name: "second"}

	p := background.Start(background.Processes{first, second}, r)
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	assert.Equal(t, []string{"second", "first"}, r.stopped, "reverse stop order")
	assert.NotZero(t, first.ticks, "first ran")
	assert.NotZero(t, second.ticks, "second ran")
}

func TestStopNil(t *testing.T) {
	var p *background.T
	p.Stop()
}
