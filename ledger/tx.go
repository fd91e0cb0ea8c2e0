// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"

	"github.com/bitmark-inc/escrowd/storage"
)

// Tx - an open ledger transaction
type Tx struct {
	ledger        *Ledger
	trx           storage.Transaction
	active        bool
	failed        error
	compensations []func()
	afterCommit   []func()
}

// join an already open transaction
//
// a failure poisons the whole transaction even if the caller
// discards the error
func (tx *Tx) nested(ctx context.Context, fn func(context.Context, *Tx) error) error {
	if nil != tx.failed {
		return tx.failed
	}
	err := fn(ctx, tx)
	if nil != err && nil == tx.failed {
		tx.failed = err
	}
	return err
}

// Pool - the storage pools
func (tx *Tx) Pool() *storage.Pools {
	return tx.ledger.Pool()
}

// Put - store a key/value bytes pair
func (tx *Tx) Put(pool *storage.PoolHandle, key []byte, value []byte) {
	tx.trx.Put(pool, key, value)
}

// PutN - store a uint64 value
func (tx *Tx) PutN(pool *storage.PoolHandle, key []byte, value uint64) {
	tx.trx.PutN(pool, key, value)
}

// Delete - remove a key
func (tx *Tx) Delete(pool *storage.PoolHandle, key []byte) {
	tx.trx.Delete(pool, key)
}

// Get - read a value including uncommitted writes
func (tx *Tx) Get(pool *storage.PoolHandle, key []byte) []byte {
	return tx.trx.Get(pool, key)
}

// GetN - read a uint64 value including uncommitted writes
func (tx *Tx) GetN(pool *storage.PoolHandle, key []byte) (uint64, bool) {
	return tx.trx.GetN(pool, key)
}

// Has - check a key including uncommitted writes
func (tx *Tx) Has(pool *storage.PoolHandle, key []byte) bool {
	return tx.trx.Has(pool, key)
}

// OnAbort - register an undo action for an effect outside storage
//
// compensations run in reverse order of registration
func (tx *Tx) OnAbort(compensation func()) {
	tx.compensations = append(tx.compensations, compensation)
}

// OnCommit - register an action to run once the transaction is durable
//
// hooks run before the ledger lock is released so must not call back
// into the ledger
func (tx *Tx) OnCommit(hook func()) {
	tx.afterCommit = append(tx.afterCommit, hook)
}

func (tx *Tx) compensate() {
	for i := len(tx.compensations) - 1; i >= 0; i -= 1 {
		tx.compensations[i]()
	}
}
