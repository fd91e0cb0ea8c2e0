// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package escrow - the listing registry
//
// A seller lists an asset by letting the registry account take
// custody of it. The listing then ends exactly once: a buyer pays the
// exact price, receives the asset and the seller receives the payment;
// or the seller cancels and receives the asset back.
//
// Every operation is one ledger transaction. The listing record is
// resolved and its event appended before any custody or value leaves
// the registry, so a callback that re-enters during the transfers
// finds the listing no longer active.
//
// Resolved listings keep a tombstone recording the former seller and
// the terminal state; readers only ever see the default record.
package escrow
