// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/json"
	"sort"

	"github.com/regchain/registryd/alias"
	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/expiry"
	"github.com/regchain/registryd/fault"
)

// GetAsset - read the current record, applying the lazy-expiry policy
//
// an expired record reads back as absent; its bytes stay until sweep
func (s *Store) GetAsset(assetId []byte, resolver alias.Resolver, view chainview.ChainView) (*assetrecord.Record, error) {
	record, err := s.ReadAsset(assetId)
	if nil != err || nil == record {
		return nil, err
	}
	if expiry.IsExpired(record, resolver, view) {
		return nil, nil
	}
	return record, nil
}

// ReadAsset - read the current record with no expiry check
func (s *Store) ReadAsset(assetId []byte) (*assetrecord.Record, error) {
	return s.readRecord(s.assets, assetId)
}

// ReadPreviousAsset - read the pre-lock snapshot of a record
func (s *Store) ReadPreviousAsset(assetId []byte) (*assetrecord.Record, error) {
	return s.readRecord(s.previousAssets, assetId)
}

func (s *Store) readRecord(pool *PoolHandle, key []byte) (*assetrecord.Record, error) {
	value, err := pool.Get(key)
	if nil != err || nil == value {
		return nil, err
	}
	record, err := assetrecord.UnpackRaw(value)
	if nil != err {
		return nil, err
	}
	return record, nil
}

// PutAsset - persist the post-operation record
//
// previous is the before-value snapshot; it is retained together with a
// settlement lock so an unsettled transaction can later be rolled back,
// and nil marks a fresh activation with nothing to restore
func (s *Store) PutAsset(record *assetrecord.Record, previous *assetrecord.Record, lock bool) error {
	packed, err := record.Pack()
	if nil != err {
		return err
	}
	if err := s.assets.Put(record.AssetId, packed); nil != err {
		return err
	}

	if lock {
		if nil != previous {
			packedPrevious, err := previous.Pack()
			if nil != err {
				return err
			}
			if err := s.previousAssets.Put(record.AssetId, packedPrevious); nil != err {
				s.log.Errorf("previous write error: asset: %x  error: %s", record.AssetId, err)
				return fault.ErrPreviousWriteFailure
			}
		}
		if err := s.settlementLocks.Put(record.AssetId, record.TxId[:]); nil != err {
			s.log.Errorf("lock write error: asset: %x  error: %s", record.AssetId, err)
			return fault.ErrLockWriteFailure
		}
	}

	if err := s.history.Put(record.TxId[:], packed); nil != err {
		return err
	}

	s.sink.Upsert(record, record.Operation)
	s.sink.AppendHistory(record, record.Operation)
	return nil
}

// SnapshotPrevious - persist a before-value snapshot only
//
// used on the idempotent re-accept of an already locked transaction
func (s *Store) SnapshotPrevious(record *assetrecord.Record) error {
	packed, err := record.Pack()
	if nil != err {
		return err
	}
	return s.previousAssets.Put(record.AssetId, packed)
}

// ReadLock - the transaction digest holding a settlement lock, if any
func (s *Store) ReadLock(assetId []byte) (digest.Digest, bool, error) {
	var txId digest.Digest
	value, err := s.settlementLocks.Get(assetId)
	if nil != err || nil == value {
		return txId, false, err
	}
	if err := digest.FromBytes(&txId, value); nil != err {
		return txId, false, err
	}
	return txId, true, nil
}

// SettleLock - release the lock and drop the now unneeded snapshot
func (s *Store) SettleLock(assetId []byte) error {
	if err := s.settlementLocks.Delete(assetId); nil != err {
		return err
	}
	return s.previousAssets.Delete(assetId)
}

// RollbackAsset - discard the locked write, restoring the snapshot
//
// an asset with no snapshot was created by the superseded transaction
// itself, so it is removed outright; the superseded history entry is
// purged both locally and from the mirror
func (s *Store) RollbackAsset(assetId []byte, supersededTxId digest.Digest) error {
	previous, err := s.previousAssets.Get(assetId)
	if nil != err {
		return err
	}
	if nil == previous {
		if err := s.assets.Delete(assetId); nil != err {
			return err
		}
		s.sink.Remove(assetId, false)
	} else {
		if err := s.assets.Put(assetId, previous); nil != err {
			return err
		}
		record, err := assetrecord.UnpackRaw(previous)
		if nil == err {
			s.sink.Upsert(record, record.Operation)
		} else {
			s.log.Errorf("rollback unpack error: asset: %x  error: %s", assetId, err)
		}
	}

	if err := s.SettleLock(assetId); nil != err {
		return err
	}
	return s.EraseTxHistory(supersededTxId)
}

// EraseAsset - remove a record and everything keyed from it
func (s *Store) EraseAsset(assetId []byte, cleanup bool) error {
	if err := s.assets.Delete(assetId); nil != err {
		return err
	}
	if err := s.previousAssets.Delete(assetId); nil != err {
		return err
	}
	if err := s.settlementLocks.Delete(assetId); nil != err {
		return err
	}
	if err := s.eraseAssetHistory(assetId); nil != err {
		return err
	}
	s.sink.Remove(assetId, cleanup)
	return nil
}

// EraseTxHistory - drop the history entry of one transaction
func (s *Store) EraseTxHistory(txId digest.Digest) error {
	if err := s.history.Delete(txId[:]); nil != err {
		return err
	}
	s.sink.RemoveTxHistory(txId.String())
	return nil
}

// ReadTxHistory - the record as written by one transaction
func (s *Store) ReadTxHistory(txId digest.Digest) (*assetrecord.Record, error) {
	return s.readRecord(s.history, txId[:])
}

// AssetHistory - every surviving operation on one asset, oldest first
func (s *Store) AssetHistory(assetId []byte) ([]*assetrecord.Record, error) {
	records := []*assetrecord.Record(nil)

	iter := s.history.NewIterator()
	defer iter.Release()
	for iter.Next() {
		record, err := assetrecord.UnpackRaw(iter.Value())
		if nil != err {
			s.log.Errorf("history unpack error: key: %x  error: %s", iter.Key(), err)
			continue
		}
		if !bytesEqual(record.AssetId, assetId) {
			continue
		}
		records = append(records, record)
	}
	if err := iter.Error(); nil != err {
		return nil, err
	}

	sort.Slice(records, func(i int, j int) bool {
		return records[i].Height < records[j].Height
	})
	return records, nil
}

func (s *Store) eraseAssetHistory(assetId []byte) error {
	keys := [][]byte(nil)

	iter := s.history.NewIterator()
	for iter.Next() {
		record, err := assetrecord.UnpackRaw(iter.Value())
		if nil != err || !bytesEqual(record.AssetId, assetId) {
			continue
		}
		key := make([]byte, len(iter.Key())-1)
		copy(key, iter.Key()[1:])
		keys = append(keys, key)
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return err
	}

	for _, key := range keys {
		if err := s.history.Delete(key); nil != err {
			return err
		}
	}
	return nil
}

// AliasActivity - one alias history entry
type AliasActivity struct {
	Sender      string `json:"sender"`
	Recipient   string `json:"recipient"`
	TxId        string `json:"txid"`
	Height      uint64 `json:"height"`
	Description string `json:"description"`
	AssetId     string `json:"asset_id"`
}

// WriteTxHistory - record one operation against the alias activity log
//
// satisfies alias.HistoryWriter; failures are logged, never surfaced,
// the activity log is informational only
func (s *Store) WriteTxHistory(owner []byte, recipient []byte, txId string, height uint64, description string, assetId []byte) {
	activity := AliasActivity{
		Sender:      alias.ToString(owner),
		Recipient:   alias.ToString(recipient),
		TxId:        txId,
		Height:      height,
		Description: description,
		AssetId:     assetrecord.IdToString(assetId),
	}
	value, err := json.Marshal(activity)
	if nil != err {
		s.log.Errorf("alias history marshal error: %s", err)
		return
	}
	key := make([]byte, 0, len(owner)+len(txId))
	key = append(key, owner...)
	key = append(key, txId...)
	if err := s.aliasHistory.Put(key, value); nil != err {
		s.log.Errorf("alias history write error: %s", err)
	}
}

// ReadAliasHistory - the activity log of one alias, unordered
func (s *Store) ReadAliasHistory(owner []byte) ([]AliasActivity, error) {
	activities := []AliasActivity(nil)

	iter := s.aliasHistory.NewIterator()
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()[1:]
		if len(key) < len(owner) || !bytesEqual(key[:len(owner)], owner) {
			continue
		}
		var activity AliasActivity
		if err := json.Unmarshal(iter.Value(), &activity); nil != err {
			s.log.Errorf("alias history unpack error: key: %x  error: %s", iter.Key(), err)
			continue
		}
		activities = append(activities, activity)
	}
	if err := iter.Error(); nil != err {
		return nil, err
	}
	return activities, nil
}

func bytesEqual(a []byte, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var _ alias.HistoryWriter = (*Store)(nil)
