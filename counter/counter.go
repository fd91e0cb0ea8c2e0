// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter - lock free tallies shared between the RPC listeners,
// the HTTP handlers and the node status call
package counter

import (
	"sync/atomic"
)

// Counter - an unsigned 64 bit tally of open connections or served calls
//
// the zero value is ready to use and must not be copied once shared
type Counter uint64

// Increment - count one more connection, returns the new total
func (c *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(c), 1)
}

// Decrement - release one connection, returns the new total
func (c *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(c), ^uint64(0))
}

// Uint64 - current total
func (c *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}

// IsZero - true when nothing is open
func (c *Counter) IsZero() bool {
	return 0 == c.Uint64()
}
