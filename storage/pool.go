// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitmark-inc/logger"
)

// PoolHandle - the structure of a pool handle
type PoolHandle struct {
	prefix     byte
	limit      []byte
	dataAccess Access
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a committed value for a given key
//
// nil is returned if the key does not exist
func (p *PoolHandle) Get(key []byte) []byte {
	value, err := p.dataAccess.GetCommitted(p.prefixKey(key))
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// GetN - read a committed record and decode first 8 bytes as big endian uint64
//
// second parameter is false if record was not found
// panics if not 8 (or more) bytes in the record
func (p *PoolHandle) GetN(key []byte) (uint64, bool) {
	return decodeN(p.Get(key))
}

// Has - check if a committed key exists
func (p *PoolHandle) Has(key []byte) bool {
	return nil != p.Get(key)
}

// within a transaction

func (p *PoolHandle) put(key []byte, value []byte) {
	p.dataAccess.Put(p.prefixKey(key), value)
}

func (p *PoolHandle) putN(key []byte, value uint64) {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, value)
	p.put(key, buffer)
}

func (p *PoolHandle) remove(key []byte) {
	p.dataAccess.Delete(p.prefixKey(key))
}

func (p *PoolHandle) get(key []byte) []byte {
	value, err := p.dataAccess.Get(p.prefixKey(key))
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.get", err)
	return value
}

func (p *PoolHandle) getN(key []byte) (uint64, bool) {
	return decodeN(p.get(key))
}

func (p *PoolHandle) has(key []byte) bool {
	found, err := p.dataAccess.Has(p.prefixKey(key))
	logger.PanicIfError("pool.has", err)
	return found
}

func decodeN(buffer []byte) (uint64, bool) {
	if nil == buffer {
		return 0, false
	}
	if len(buffer) < 8 {
		logger.Panic("pool.GetN - too short record")
	}
	return binary.BigEndian.Uint64(buffer[:8]), true
}
