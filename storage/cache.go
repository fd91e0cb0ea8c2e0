// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	cache "github.com/patrickmn/go-cache"
)

// Cache - uncommitted writes of the current transaction
type Cache interface {
	Get(string) ([]byte, int, bool)
	Set(int, string, []byte)
	Clear()
}

const (
	dbPut = iota
	dbDelete
)

type dbCache struct {
	cache *cache.Cache
}

type cacheData struct {
	op    int
	value []byte
}

// entries live until the transaction ends, so no expiry or janitor
func newCache() Cache {
	return &dbCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Get - return the pending value and operation for a key
//
// a deleted key is found with op == dbDelete so the caller must not
// fall through to the database
func (c *dbCache) Get(key string) ([]byte, int, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, dbPut, false
	}

	data := obj.(cacheData)
	return data.value, data.op, true
}

func (c *dbCache) Set(op int, key string, value []byte) {
	cached := cacheData{
		op:    op,
		value: value,
	}
	c.cache.Set(key, cached, cache.NoExpiration)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
