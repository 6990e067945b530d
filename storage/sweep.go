// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/regchain/registryd/alias"
	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/chainview"
	"github.com/regchain/registryd/expiry"
	"github.com/regchain/registryd/fault"
)

// Sweep - physically delete every expired record
//
// the shutdown channel is checked between records so a long sweep can
// be abandoned; a record whose stored bytes no longer decode is
// treated as corrupt and deleted along with the expired ones
func (s *Store) Sweep(resolver alias.Resolver, view chainview.ChainView, shutdown <-chan struct{}) (int, error) {

	type target struct {
		assetId []byte
		cleanup bool
	}
	targets := []target(nil)

	iter := s.assets.NewIterator()
	for iter.Next() {
		select {
		case <-shutdown:
			iter.Release()
			return 0, fault.ErrSweepInterrupted
		default:
		}

		assetId := make([]byte, len(iter.Key())-1)
		copy(assetId, iter.Key()[1:])

		record, err := assetrecord.UnpackRaw(iter.Value())
		if nil != err {
			s.log.Errorf("sweep unpack error: asset: %x  error: %s", assetId, err)
			targets = append(targets, target{assetId: assetId, cleanup: false})
			continue
		}
		if expiry.IsExpired(record, resolver, view) {
			targets = append(targets, target{assetId: assetId, cleanup: true})
		}
	}
	iter.Release()
	if nil != iter.Error() {
		s.log.Errorf("sweep iteration error: %s", iter.Error())
		return 0, fault.ErrSweepReadFailure
	}

	removed := 0
	for _, t := range targets {
		select {
		case <-shutdown:
			return removed, fault.ErrSweepInterrupted
		default:
		}
		if err := s.EraseAsset(t.assetId, t.cleanup); nil != err {
			return removed, err
		}
		removed += 1
	}

	s.log.Infof("sweep removed: %d", removed)
	return removed, nil
}
