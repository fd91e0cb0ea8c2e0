// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/escrowd/fault"
)

// Access - batched access to the database
type Access interface {
	Abort()
	Begin() error
	Commit() error
	Delete([]byte)
	DumpTx() []byte
	Get([]byte) ([]byte, error)
	GetCommitted([]byte) ([]byte, error)
	Has([]byte) (bool, error)
	InUse() bool
	Iterator(*ldb_util.Range) iterator.Iterator
	Put([]byte, []byte)
}

// AccessData - a database with its pending batch and write cache
type AccessData struct {
	sync.Mutex
	inUse bool
	db    *leveldb.DB
	batch *leveldb.Batch
	cache Cache
}

func newDA(db *leveldb.DB, trx *leveldb.Batch, cache Cache) Access {
	return &AccessData{
		inUse: false,
		db:    db,
		batch: trx,
		cache: cache,
	}
}

// Begin - mark the batch as in use
func (d *AccessData) Begin() error {
	d.Lock()
	defer d.Unlock()

	if d.inUse {
		return fault.TransactionAlreadyInUse
	}

	d.inUse = true
	return nil
}

// Put - queue a write
func (d *AccessData) Put(key []byte, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	d.cache.Set(dbPut, string(key), v)
	d.batch.Put(key, v)
}

// Delete - queue a removal
func (d *AccessData) Delete(key []byte) {
	d.cache.Set(dbDelete, string(key), nil)
	d.batch.Delete(key)
}

// Commit - write the batch and release it
func (d *AccessData) Commit() error {
	d.Lock()
	defer d.Unlock()

	if !d.inUse {
		return fault.TransactionNotInUse
	}

	err := d.db.Write(d.batch, nil)
	d.batch.Reset()
	d.cache.Clear()
	d.inUse = false
	return err
}

// DumpTx - raw batch contents
func (d *AccessData) DumpTx() []byte {
	return d.batch.Dump()
}

// Get - pending value if written in this batch, otherwise the stored value
func (d *AccessData) Get(key []byte) ([]byte, error) {
	val, op, found := d.cache.Get(string(key))
	if found {
		if dbDelete == op {
			return nil, leveldb.ErrNotFound
		}
		return val, nil
	}
	return d.db.Get(key, nil)
}

// GetCommitted - stored value ignoring any pending batch
func (d *AccessData) GetCommitted(key []byte) ([]byte, error) {
	return d.db.Get(key, nil)
}

// Iterator - over committed data only
func (d *AccessData) Iterator(searchRange *ldb_util.Range) iterator.Iterator {
	return d.db.NewIterator(searchRange, nil)
}

// Has - true if the key exists, honouring the pending batch
func (d *AccessData) Has(key []byte) (bool, error) {
	_, op, found := d.cache.Get(string(key))
	if found {
		return dbPut == op, nil
	}
	return d.db.Has(key, nil)
}

// InUse - true between Begin and Commit/Abort
func (d *AccessData) InUse() bool {
	d.Lock()
	defer d.Unlock()
	return d.inUse
}

// Abort - discard the batch
func (d *AccessData) Abort() {
	d.Lock()
	defer d.Unlock()

	d.batch.Reset()
	d.cache.Clear()
	d.inUse = false
}
