// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"sync"

	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/logger"
)

// Reader - read access to the pools
//
// inside a transaction the reads observe its uncommitted writes
type Reader interface {
	Get(*storage.PoolHandle, []byte) []byte
	GetN(*storage.PoolHandle, []byte) (uint64, bool)
	Has(*storage.PoolHandle, []byte) bool
}

// Ledger - the serializing transaction manager
type Ledger struct {
	sync.Mutex
	log   *logger.L
	store *storage.Store
}

// key for the active transaction in a context
type txKey struct{}

// New - create a ledger over an open store
func New(log *logger.L, store *storage.Store) *Ledger {
	return &Ledger{
		log:   log,
		store: store,
	}
}

// Pool - the storage pools
func (l *Ledger) Pool() *storage.Pools {
	return &l.store.Pool
}

// Execute - run fn as a single atomic operation
//
// any error returned by fn, or by a nested Execute inside it, aborts
// all writes and runs the compensations
func (l *Ledger) Execute(ctx context.Context, fn func(context.Context, *Tx) error) error {

	if tx := l.current(ctx); nil != tx {
		return tx.nested(ctx, fn)
	}

	if err := ctx.Err(); nil != err {
		return err
	}

	l.Lock()
	defer l.Unlock()

	trx, err := l.store.Begin()
	if nil != err {
		return err
	}

	tx := &Tx{
		ledger: l,
		trx:    trx,
		active: true,
	}

	done := false
	defer func() {
		tx.active = false
		if !done {
			trx.Abort()
			tx.compensate()
		}
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx), tx)
	if nil == err {
		err = tx.failed
	}
	if nil != err {
		l.log.Debugf("abort: %s", err)
		return err
	}

	err = trx.Commit()
	if nil != err {
		l.log.Errorf("commit error: %s", err)
		return err
	}
	done = true
	tx.active = false

	for _, hook := range tx.afterCommit {
		hook()
	}
	return nil
}

// View - run fn with serialized read access
func (l *Ledger) View(ctx context.Context, fn func(Reader) error) error {

	if tx := l.current(ctx); nil != tx {
		return fn(tx)
	}

	if err := ctx.Err(); nil != err {
		return err
	}

	l.Lock()
	defer l.Unlock()

	return fn(committed{})
}

// the open transaction of this ledger carried by ctx, if any
func (l *Ledger) current(ctx context.Context) *Tx {
	tx, ok := ctx.Value(txKey{}).(*Tx)
	if !ok || tx.ledger != l || !tx.active {
		return nil
	}
	return tx
}

// Current - the open transaction carried by ctx
func Current(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*Tx)
	if !ok || !tx.active {
		return nil, false
	}
	return tx, true
}

// reads outside any transaction see only committed data
type committed struct{}

func (committed) Get(pool *storage.PoolHandle, key []byte) []byte {
	return pool.Get(key)
}

func (committed) GetN(pool *storage.PoolHandle, key []byte) (uint64, bool) {
	return pool.GetN(key)
}

func (committed) Has(pool *storage.PoolHandle, key []byte) bool {
	return pool.Has(key)
}
