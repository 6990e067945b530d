// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/regchain/registryd/mirror"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// Store - one open asset database and its pools
type Store struct {
	sync.RWMutex

	db   *leveldb.DB
	log  *logger.L
	sink mirror.Sink

	// pools
	assets          *PoolHandle
	previousAssets  *PoolHandle
	settlementLocks *PoolHandle
	history         *PoolHandle
	aliasHistory    *PoolHandle
}

// New - open (creating if necessary) the asset database
//
// sink may be nil when indexing is disabled
func New(database string, sink mirror.Sink) (*Store, error) {
	if nil == sink {
		sink = mirror.Noop{}
	}

	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}
	db, err := leveldb.OpenFile(database, opt)
	if nil != err {
		return nil, err
	}

	version, err := getVersion(db)
	if nil != err {
		db.Close()
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		db.Close()
		return nil, fmt.Errorf("asset database version: %d > current version: %d", version, currentDBVersion)
	}
	if 0 == version {
		// database was empty so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			db.Close()
			return nil, err
		}
	}

	store := &Store{
		db:   db,
		log:  logger.New("storage"),
		sink: sink,
	}
	store.assets = store.newPool('A')
	store.previousAssets = store.newPool('P')
	store.settlementLocks = store.newPool('L')
	store.history = store.newPool('H')
	store.aliasHistory = store.newPool('I')

	return store, nil
}

// Close - close the database connection
func (s *Store) Close() {
	s.Lock()
	defer s.Unlock()
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

// return the stored version number, zero for an empty database
func getVersion(db *leveldb.DB) (int, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return db.Put(versionKey, currentVersion, nil)
}
