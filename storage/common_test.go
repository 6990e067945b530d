// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"

	"github.com/regchain/registryd/alias"
	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/script"
	"github.com/regchain/registryd/storage"
)

// test database and log files
const (
	databaseFileName = "test.leveldb"
	logDirectory     = "testlog"
)

// remove all files created by test
func removeFiles() {
	os.RemoveAll(databaseFileName)
}

// configure for testing
func setup(t *testing.T) *storage.Store {
	removeFiles()
	store, err := storage.New(databaseFileName, nil)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return store
}

// post test cleanup
func teardown(store *storage.Store) {
	store.Close()
	removeFiles()
}

func TestMain(m *testing.M) {
	os.MkdirAll(logDirectory, 0700)
	err := logger.Initialise(logger.Configuration{
		Directory: logDirectory,
		File:      "test.log",
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	if nil != err {
		fmt.Printf("logger setup failed: %s\n", err)
		os.Exit(1)
	}
	rc := m.Run()
	logger.Finalise()
	os.RemoveAll(logDirectory)
	removeFiles()
	os.Exit(rc)
}

// a resolver with one leased and one leaseless alias
func testResolver() *alias.Memory {
	resolver := alias.NewMemory()
	resolver.Add([]byte("leased-owner"), alias.Info{
		UnprunableExpiration:  5000,
		AcceptsAssetTransfers: true,
	})
	resolver.Add([]byte("brief-owner"), alias.Info{
		UnprunableExpiration:  1500,
		AcceptsAssetTransfers: true,
	})
	return resolver
}

var testView = chainview.Fixed{
	BlockHeight: 100,
	Median:      1000,
}

// build a stored record with a synthetic transaction digest
func makeRecord(name string, owner string, height uint64) *assetrecord.Record {
	return &assetrecord.Record{
		Operation:  script.OpActivate,
		AssetId:    assetrecord.NewAssetId(),
		Owner:      []byte(owner),
		Name:       name,
		PublicData: []byte("data:" + name),
		Category:   "assets",
		Height:     height,
		TxId:       digest.NewDigest([]byte("tx:" + name)),
	}
}
