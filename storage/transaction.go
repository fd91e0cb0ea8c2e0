// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Transaction - batch of writes committed or aborted as a unit
//
// reads through the transaction see its own uncommitted writes
type Transaction interface {
	Begin() error
	Put(*PoolHandle, []byte, []byte)
	PutN(*PoolHandle, []byte, uint64)
	Delete(*PoolHandle, []byte)
	Get(*PoolHandle, []byte) []byte
	GetN(*PoolHandle, []byte) (uint64, bool)
	Has(*PoolHandle, []byte) bool
	InUse() bool
	Commit() error
	Abort()
}

// TransactionImpl - transaction over a single data access
type TransactionImpl struct {
	access Access
}

func newTransaction(access Access) Transaction {
	return &TransactionImpl{
		access: access,
	}
}

// Begin - start the transaction
func (t *TransactionImpl) Begin() error {
	return t.access.Begin()
}

// Put - store a key/value bytes pair
func (t *TransactionImpl) Put(handle *PoolHandle, key []byte, value []byte) {
	handle.put(key, value)
}

// PutN - store a uint64 as an 8 byte big endian value
func (t *TransactionImpl) PutN(handle *PoolHandle, key []byte, value uint64) {
	handle.putN(key, value)
}

// Delete - remove a key
func (t *TransactionImpl) Delete(handle *PoolHandle, key []byte) {
	handle.remove(key)
}

// Get - read a value, nil if absent
func (t *TransactionImpl) Get(handle *PoolHandle, key []byte) []byte {
	return handle.get(key)
}

// GetN - read a uint64 value
func (t *TransactionImpl) GetN(handle *PoolHandle, key []byte) (uint64, bool) {
	return handle.getN(key)
}

// Has - check a key exists
func (t *TransactionImpl) Has(handle *PoolHandle, key []byte) bool {
	return handle.has(key)
}

// InUse - true while the transaction is open
func (t *TransactionImpl) InUse() bool {
	return t.access.InUse()
}

// Commit - write all changes
func (t *TransactionImpl) Commit() error {
	return t.access.Commit()
}

// Abort - discard all changes
func (t *TransactionImpl) Abort() {
	t.access.Abort()
}
