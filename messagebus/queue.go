// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"sync"
)

// default listener queue length
const defaultQueueSize = 1000

// Message - a command with packed parameters
type Message struct {
	Command    string
	Parameters [][]byte
}

// BroadcastQueue - fan out to all listeners
type BroadcastQueue struct {
	sync.RWMutex
	out []chan Message
}

// New - create an empty broadcast queue
func New() *BroadcastQueue {
	return &BroadcastQueue{}
}

// Send - queue a message to every listener
func (queue *BroadcastQueue) Send(command string, parameters ...[]byte) {
	m := Message{
		Command:    command,
		Parameters: parameters,
	}

	queue.RLock()
	defer queue.RUnlock()

	for _, out := range queue.out {
		select {
		case out <- m:
		default:
		}
	}
}

// Chan - subscribe a new listener
//
// size <= 0 selects the default queue length
func (queue *BroadcastQueue) Chan(size int) <-chan Message {
	if size <= 0 {
		size = defaultQueueSize
	}
	c := make(chan Message, size)

	queue.Lock()
	queue.out = append(queue.out, c)
	queue.Unlock()
	return c
}

// Unsubscribe - remove and close one listener
func (queue *BroadcastQueue) Unsubscribe(c <-chan Message) {
	queue.Lock()
	defer queue.Unlock()

	for i, out := range queue.out {
		if (<-chan Message)(out) == c {
			close(out)
			queue.out = append(queue.out[:i], queue.out[i+1:]...)
			return
		}
	}
}

// Release - close all listeners
func (queue *BroadcastQueue) Release() {
	queue.Lock()
	defer queue.Unlock()

	for _, out := range queue.out {
		close(out)
	}
	queue.out = nil
}
