// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/regchain/registryd/fault"
)

// PoolHandle - one key-prefixed slice of the database
type PoolHandle struct {
	store  *Store
	prefix byte
	limit  []byte
}

func (s *Store) newPool(prefix byte) *PoolHandle {
	limit := []byte(nil)
	if prefix < 255 {
		limit = []byte{prefix + 1}
	}
	return &PoolHandle{
		store:  s,
		prefix: prefix,
		limit:  limit,
	}
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Put - store a key/value bytes pair
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return fault.ErrNotInitialised
	}
	return p.store.db.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key
func (p *PoolHandle) Delete(key []byte) error {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return fault.ErrNotInitialised
	}
	return p.store.db.Delete(p.prefixKey(key), nil)
}

// Get - read the value for a key, nil if the key is absent
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return nil, fault.ErrNotInitialised
	}
	value, err := p.store.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	} else if nil != err {
		return nil, err
	}
	return value, nil
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	p.store.RLock()
	defer p.store.RUnlock()
	if nil == p.store.db {
		return false, fault.ErrNotInitialised
	}
	return p.store.db.Has(p.prefixKey(key), nil)
}

// NewIterator - iterate the whole pool
//
// returned keys still carry the pool prefix byte
func (p *PoolHandle) NewIterator() iterator.Iterator {
	keyRange := ldb_util.Range{
		Start: []byte{p.prefix},
		Limit: p.limit,
	}
	p.store.RLock()
	defer p.store.RUnlock()
	return p.store.db.NewIterator(&keyRange, nil)
}
