// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mirror_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/digest"
	"github.com/regchain/registryd/mirror"
	"github.com/regchain/registryd/script"
)

// a sink that records what it was told
type recorder struct {
	upserts   []string
	histories []string
	removes   []string
	txRemoves []string
}

func (r *recorder) Upsert(record *assetrecord.Record, op script.Operation) {
	r.upserts = append(r.upserts, assetrecord.IdToString(record.AssetId))
}

func (r *recorder) AppendHistory(record *assetrecord.Record, op script.Operation) {
	r.histories = append(r.histories, record.TxId.String())
}

func (r *recorder) Remove(assetId []byte, cleanup bool) {
	r.removes = append(r.removes, assetrecord.IdToString(assetId))
}

func (r *recorder) RemoveTxHistory(txId string) {
	r.txRemoves = append(r.txRemoves, txId)
}

func testRecord() *assetrecord.Record {
	return &assetrecord.Record{
		Operation:  script.OpActivate,
		AssetId:    []byte{0x01, 0x02, 0x03, 0x04},
		Owner:      []byte("alice"),
		Name:       "Widget",
		PublicData: []byte("some data"),
		Category:   "assets/tools",
		Height:     42,
		TxId:       digest.NewDigest([]byte("tx")),
	}
}

func TestFlatten(t *testing.T) {
	record := testRecord()
	projection := mirror.Flatten(record, script.OpUpdate)

	assert.Equal(t, "01020304", projection.AssetId, "asset id")
	assert.Equal(t, "Widget", projection.Title, "title")
	assert.Equal(t, uint64(42), projection.Height, "height")
	assert.Equal(t, "assets/tools", projection.Category, "category")
	assert.Equal(t, "assetupdate", projection.Operation, "operation")
	assert.Equal(t, record.TxId.String(), projection.TxId, "txid")
	assert.Equal(t, "some data", projection.PublicData, "public data")
}

func TestMultiFanOut(t *testing.T) {
	first := &recorder{}
	second := &recorder{}
	sink := mirror.Multi{first, second}

	record := testRecord()
	sink.Upsert(record, script.OpActivate)
	sink.AppendHistory(record, script.OpActivate)
	sink.Remove(record.AssetId, true)
	sink.RemoveTxHistory(record.TxId.String())

	for _, r := range []*recorder{first, second} {
		assert.Equal(t, []string{"01020304"}, r.upserts, "upserts")
		assert.Equal(t, []string{record.TxId.String()}, r.histories, "histories")
		assert.Equal(t, []string{"01020304"}, r.removes, "removes")
		assert.Equal(t, []string{record.TxId.String()}, r.txRemoves, "tx removes")
	}
}

// the disabled-indexing mode must be callable without any setup
func TestNoop(t *testing.T) {
	var sink mirror.Sink = mirror.Noop{}
	record := testRecord()
	assert.NotPanics(t, func() {
		sink.Upsert(record, script.OpActivate)
		sink.AppendHistory(record, script.OpActivate)
		sink.Remove(record.AssetId, false)
		sink.RemoveTxHistory(record.TxId.String())
	})
}
