// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"reflect"
	"testing"

	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/digest"
)

func TestPutGetRoundTrip(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	record := makeRecord("widget", "leased-owner", 10)
	if err := store.PutAsset(record, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	back, err := store.GetAsset(record.AssetId, testResolver(), testView)
	if nil != err {
		t.Fatalf("get error: %s", err)
	}
	if nil == back {
		t.Fatal("stored record read back as absent")
	}
	if !reflect.DeepEqual(record, back) {
		t.Fatalf("record mismatch: stored: %v  actual: %v", record, back)
	}

	// unknown id reads back as absent, not as an error
	absent, err := store.GetAsset([]byte{0xde, 0xad}, testResolver(), testView)
	if nil != err {
		t.Fatalf("get error: %s", err)
	}
	if nil != absent {
		t.Fatalf("unexpected record: %v", absent)
	}
}

func TestLazyExpiry(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	resolver := testResolver()
	record := makeRecord("fleeting", "brief-owner", 10)
	if err := store.PutAsset(record, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	// alive while median time is below the owner's lease
	back, err := store.GetAsset(record.AssetId, resolver, testView)
	if nil != err || nil == back {
		t.Fatalf("expected live record, error: %s", err)
	}

	// at the lease boundary the record is logically gone
	lateView := chainview.Fixed{BlockHeight: 200, Median: 1500}
	back, err = store.GetAsset(record.AssetId, resolver, lateView)
	if nil != err {
		t.Fatalf("get error: %s", err)
	}
	if nil != back {
		t.Fatal("expired record still readable")
	}

	// but the bytes stay until a sweep runs
	raw, err := store.ReadAsset(record.AssetId)
	if nil != err || nil == raw {
		t.Fatalf("expected raw record, error: %s", err)
	}
}

func TestSettlementLock(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	before := makeRecord("ledger", "leased-owner", 10)
	if err := store.PutAsset(before, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	after := before.Copy()
	after.PublicData = []byte("updated")
	after.Height = 11
	after.TxId = digest.NewDigest([]byte("tx:ledger-update"))
	if err := store.PutAsset(after, before, true); nil != err {
		t.Fatalf("locked put error: %s", err)
	}

	lockTxId, locked, err := store.ReadLock(after.AssetId)
	if nil != err {
		t.Fatalf("lock read error: %s", err)
	}
	if !locked {
		t.Fatal("missing settlement lock")
	}
	if lockTxId != after.TxId {
		t.Fatalf("lock digest mismatch: expected: %s  actual: %s", after.TxId, lockTxId)
	}

	snapshot, err := store.ReadPreviousAsset(after.AssetId)
	if nil != err || nil == snapshot {
		t.Fatalf("expected snapshot, error: %s", err)
	}
	if !reflect.DeepEqual(before, snapshot) {
		t.Fatalf("snapshot mismatch: expected: %v  actual: %v", before, snapshot)
	}

	if err := store.SettleLock(after.AssetId); nil != err {
		t.Fatalf("settle error: %s", err)
	}
	_, locked, err = store.ReadLock(after.AssetId)
	if nil != err {
		t.Fatalf("lock read error: %s", err)
	}
	if locked {
		t.Fatal("lock survived settlement")
	}
	snapshot, err = store.ReadPreviousAsset(after.AssetId)
	if nil != err {
		t.Fatalf("snapshot read error: %s", err)
	}
	if nil != snapshot {
		t.Fatal("snapshot survived settlement")
	}
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	before := makeRecord("stable", "leased-owner", 10)
	if err := store.PutAsset(before, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	after := before.Copy()
	after.PublicData = []byte("contested")
	after.Height = 11
	after.TxId = digest.NewDigest([]byte("tx:stable-contested"))
	if err := store.PutAsset(after, before, true); nil != err {
		t.Fatalf("locked put error: %s", err)
	}

	if err := store.RollbackAsset(after.AssetId, after.TxId); nil != err {
		t.Fatalf("rollback error: %s", err)
	}

	back, err := store.ReadAsset(after.AssetId)
	if nil != err || nil == back {
		t.Fatalf("expected restored record, error: %s", err)
	}
	if !reflect.DeepEqual(before, back) {
		t.Fatalf("restore mismatch: expected: %v  actual: %v", before, back)
	}

	// the superseded history entry is gone, the original survives
	entry, err := store.ReadTxHistory(after.TxId)
	if nil != err {
		t.Fatalf("history read error: %s", err)
	}
	if nil != entry {
		t.Fatal("superseded history entry survived rollback")
	}
	entry, err = store.ReadTxHistory(before.TxId)
	if nil != err || nil == entry {
		t.Fatalf("expected original history entry, error: %s", err)
	}
}

func TestRollbackWithoutSnapshotErases(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	record := makeRecord("phantom", "leased-owner", 10)
	if err := store.PutAsset(record, nil, true); nil != err {
		t.Fatalf("locked put error: %s", err)
	}

	if err := store.RollbackAsset(record.AssetId, record.TxId); nil != err {
		t.Fatalf("rollback error: %s", err)
	}

	back, err := store.ReadAsset(record.AssetId)
	if nil != err {
		t.Fatalf("read error: %s", err)
	}
	if nil != back {
		t.Fatal("activation survived its own rollback")
	}
}

func TestAssetHistoryOrdering(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	first := makeRecord("tracked", "leased-owner", 10)
	if err := store.PutAsset(first, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	second := first.Copy()
	second.PublicData = []byte("second")
	second.Height = 12
	second.TxId = digest.NewDigest([]byte("tx:tracked-2"))
	if err := store.PutAsset(second, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	// an unrelated asset must not leak into the history
	other := makeRecord("unrelated", "leased-owner", 11)
	if err := store.PutAsset(other, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	history, err := store.AssetHistory(first.AssetId)
	if nil != err {
		t.Fatalf("history error: %s", err)
	}
	if 2 != len(history) {
		t.Fatalf("history length: expected: %d  actual: %d", 2, len(history))
	}
	if history[0].TxId != first.TxId || history[1].TxId != second.TxId {
		t.Fatalf("history out of order: %v", history)
	}
}

func TestEraseAssetCascades(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	record := makeRecord("doomed", "leased-owner", 10)
	if err := store.PutAsset(record, nil, true); nil != err {
		t.Fatalf("put error: %s", err)
	}
	survivor := makeRecord("survivor", "leased-owner", 10)
	if err := store.PutAsset(survivor, nil, false); nil != err {
		t.Fatalf("put error: %s", err)
	}

	if err := store.EraseAsset(record.AssetId, true); nil != err {
		t.Fatalf("erase error: %s", err)
	}

	back, err := store.ReadAsset(record.AssetId)
	if nil != err {
		t.Fatalf("read error: %s", err)
	}
	if nil != back {
		t.Fatal("erased record still readable")
	}
	_, locked, err := store.ReadLock(record.AssetId)
	if nil != err {
		t.Fatalf("lock read error: %s", err)
	}
	if locked {
		t.Fatal("lock survived erase")
	}
	history, err := store.AssetHistory(record.AssetId)
	if nil != err {
		t.Fatalf("history error: %s", err)
	}
	if 0 != len(history) {
		t.Fatalf("history survived erase: %v", history)
	}

	// unrelated records are untouched
	back, err = store.ReadAsset(survivor.AssetId)
	if nil != err || nil == back {
		t.Fatalf("expected survivor, error: %s", err)
	}
}

func TestAliasHistory(t *testing.T) {
	store := setup(t)
	defer teardown(store)

	owner := []byte("leased-owner")
	other := []byte("brief-owner")
	assetId := makeRecord("logged", "leased-owner", 10).AssetId

	store.WriteTxHistory(owner, nil, "aaaa", 10, "Asset activated", assetId)
	store.WriteTxHistory(owner, other, "bbbb", 11, "Asset transferred", assetId)
	store.WriteTxHistory(other, nil, "cccc", 12, "Asset updated", assetId)

	activities, err := store.ReadAliasHistory(owner)
	if nil != err {
		t.Fatalf("alias history error: %s", err)
	}
	if 2 != len(activities) {
		t.Fatalf("alias history length: expected: %d  actual: %d", 2, len(activities))
	}
	for _, activity := range activities {
		if "aaaa" != activity.TxId && "bbbb" != activity.TxId {
			t.Fatalf("unexpected activity: %v", activity)
		}
	}
}
