// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - serialized transactions over the storage pools
//
// Only one operation runs at a time. Each top-level Execute owns one
// storage batch which is committed if the operation succeeds, or
// aborted and followed by the registered compensations (in reverse
// order) if it fails.
//
// An Execute or View called with a context that already carries an
// open transaction of the same ledger joins that transaction instead
// of waiting for the lock, so in-process callbacks can re-enter.
package ledger
