// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the avaiable tables.
//
// All writes go through a single batch Transaction; values written
// inside the transaction are visible to reads through the same
// transaction before commit.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++           = concatenation of byte data
// 3. count        = big endian uint64 (8 bytes)
// 4. listing id   = big endian uint64 (8 bytes)
// 5. sequence     = big endian uint64 (8 bytes)
// 6. contract     = asset contract name bytes ++ 0x00
// 7. asset id     = big endian uint64 (8 bytes)
// 8. account      = encoded account bytes (key variant ++ public key)
//
// Listings:
//
//   L ++ listing id            - current listing record or tombstone
//                                data: packed listing
//   N ++ name                  - counters ("listing" = next id, "event" = next sequence)
//                                data: count
//   E ++ sequence              - append-only event log
//                                data: packed event
//
// Tokens:
//
//   O ++ contract ++ asset id  - current owner
//                                data: account
//   A ++ contract ++ asset id  - single asset approval
//                                data: account
//   P ++ contract ++ owner ++ operator
//                              - operator approval
//                                data: 0x01
//
// Funds:
//
//   B ++ account               - native balance
//                                data: count
//
// Client requests:
//
//   C ++ account               - last accepted request nonce
//                                data: count
package storage
