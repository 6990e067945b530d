// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mirror - best-effort read-model projection
//
// every successful operation is mirrored to an external store for
// query-side use; writes are unacknowledged and allowed to fail or lag
// without affecting validation, and a configuration with indexing
// disabled simply injects the no-op sink
package mirror

import (
	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/script"
)

// Projection - flattened current-state view keyed by asset id
type Projection struct {
	AssetId    string `json:"_id"`
	Title      string `json:"title"`
	Height     uint64 `json:"height"`
	Category   string `json:"category"`
	Alias      string `json:"alias"`
	Operation  string `json:"op"`
	TxId       string `json:"txid"`
	PublicData string `json:"publicvalue"`
}

// Flatten - build the projection of a record
func Flatten(record *assetrecord.Record, op script.Operation) Projection {
	return Projection{
		AssetId:    assetrecord.IdToString(record.AssetId),
		Title:      record.Name,
		Height:     record.Height,
		Category:   record.Category,
		Alias:      assetrecord.IdToString(record.Owner),
		Operation:  op.String(),
		TxId:       record.TxId.String(),
		PublicData: string(record.PublicData),
	}
}

// Sink - the injected read-model boundary
//
// all methods are idempotent: current state is an upsert keyed by
// asset id, history is append-only keyed by transaction id
type Sink interface {

	// Upsert - write the current projection of an asset
	Upsert(record *assetrecord.Record, op script.Operation)

	// AppendHistory - write one history entry for the producing transaction
	AppendHistory(record *assetrecord.Record, op script.Operation)

	// Remove - delete an asset projection and its history entries
	Remove(assetId []byte, cleanup bool)

	// RemoveTxHistory - delete the history entry of one superseded transaction
	RemoveTxHistory(txId string)
}

// Noop - the sink used when indexing is disabled; a normal, supported mode
type Noop struct{}

func (Noop) Upsert(record *assetrecord.Record, op script.Operation)        {}
func (Noop) AppendHistory(record *assetrecord.Record, op script.Operation) {}
func (Noop) Remove(assetId []byte, cleanup bool)                           {}
func (Noop) RemoveTxHistory(txId string)                                   {}

// Multi - fan out to several sinks
type Multi []Sink

func (m Multi) Upsert(record *assetrecord.Record, op script.Operation) {
	for _, sink := range m {
		sink.Upsert(record, op)
	}
}

func (m Multi) AppendHistory(record *assetrecord.Record, op script.Operation) {
	for _, sink := range m {
		sink.AppendHistory(record, op)
	}
}

func (m Multi) Remove(assetId []byte, cleanup bool) {
	for _, sink := range m {
		sink.Remove(assetId, cleanup)
	}
}

func (m Multi) RemoveTxHistory(txId string) {
	for _, sink := range m {
		sink.RemoveTxHistory(txId)
	}
}
