// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"testing"

	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/fault"
)

func TestSweepRemovesExpired(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	resolver := testResolver()

	keeper := makeRecord("keeper", "leased-owner", 10)
	fleeting := makeRecord("fleeting", "brief-owner", 10)
	orphan := makeRecord("orphan", "unknown-owner", 10)
	if err := store.PutAsset(keeper, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}
	if err := store.PutAsset(fleeting, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}
	if err := store.PutAsset(orphan, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	// brief-owner's lease ended and the unknown owner never had one
	view := chainview.Fixed{BlockHeight: 200, Median: 1500}
	shutdown := make(chan struct{})

	removed, err := store.Sweep(resolver, view, shutdown)
	if nil != err {
		t.Fatalf("sweep error: %s", err)
	}
	if 2 != removed {
		t.Fatalf("sweep count: expected: %d  actual: %d", 2, removed)
	}

	back, err := store.ReadAsset(keeper.AssetId)
	if nil != err || nil == back {
		t.Fatalf("keeper swept, error: %s", err)
	}
	back, err = store.ReadAsset(fleeting.AssetId)
	if nil != err {
		t.Fatalf("read error: %s", err)
	}
	if nil != back {
		t.Fatal("expired record survived sweep")
	}
	back, err = store.ReadAsset(orphan.AssetId)
	if nil != err {
		t.Fatalf("read error: %s", err)
	}
	if nil != back {
		t.Fatal("leaseless record survived sweep")
	}

	// history of swept assets is gone too
	history, err := store.AssetHistory(fleeting.AssetId)
	if nil != err {
		t.Fatalf("history error: %s", err)
	}
	if 0 != len(history) {
		t.Fatalf("history survived sweep: %v", history)
	}
}

func TestSweepInterrupted(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	record := makeRecord("pending", "brief-owner", 10)
	if err := store.PutAsset(record, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	shutdown := make(chan struct{})
	close(shutdown)

	view := chainview.Fixed{BlockHeight: 200, Median: 1500}
	_, err := store.Sweep(testResolver(), view, shutdown)
	if fault.ErrSweepInterrupted != err {
		t.Fatalf("sweep error: expected: %s  actual: %s", fault.ErrSweepInterrupted, err)
	}

	// nothing was deleted
	back, err := store.ReadAsset(record.AssetId)
	if nil != err || nil == back {
		t.Fatalf("record lost during interrupted sweep, error: %s", err)
	}
}
