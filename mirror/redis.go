// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mirror

import (
	"encoding/json"

	"github.com/go-redis/redis/v7"

	"github.com/bitmark-inc/logger"

	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/script"
)

// redis key prefixes
const (
	assetKeyPrefix     = "asset:"
	historyKeyPrefix   = "assethistory:"
	assetHistorySetKey = "assethistory.byasset:"
)

// Redis - projection into a redis instance
//
// a set per asset id tracks its history keys so removal can cascade
type Redis struct {
	client *redis.Client
	log    *logger.L
}

// NewRedis - connect the redis sink
//
// the connection is verified once; later failures are logged and
// dropped, never surfaced to validation
func NewRedis(address string, database int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: address,
		DB:   database,
	})
	if err := client.Ping().Err(); nil != err {
		return nil, err
	}
	return &Redis{
		client: client,
		log:    logger.New("mirror"),
	}, nil
}

// Upsert - write the current projection of an asset
func (r *Redis) Upsert(record *assetrecord.Record, op script.Operation) {
	projection := Flatten(record, op)
	data, err := json.Marshal(projection)
	if nil != err {
		r.log.Errorf("projection marshal error: %s", err)
		return
	}
	if err := r.client.Set(assetKeyPrefix+projection.AssetId, data, 0).Err(); nil != err {
		r.log.Errorf("asset upsert error: %s", err)
	}
}

// AppendHistory - write one history entry keyed by transaction id
func (r *Redis) AppendHistory(record *assetrecord.Record, op script.Operation) {
	projection := Flatten(record, op)
	data, err := json.Marshal(projection)
	if nil != err {
		r.log.Errorf("history marshal error: %s", err)
		return
	}
	if err := r.client.Set(historyKeyPrefix+projection.TxId, data, 0).Err(); nil != err {
		r.log.Errorf("history append error: %s", err)
		return
	}
	if err := r.client.SAdd(assetHistorySetKey+projection.AssetId, projection.TxId).Err(); nil != err {
		r.log.Errorf("history index error: %s", err)
	}
}

// Remove - delete an asset projection and cascade to its history
func (r *Redis) Remove(assetId []byte, cleanup bool) {
	id := assetrecord.IdToString(assetId)
	if err := r.client.Del(assetKeyPrefix + id).Err(); nil != err {
		r.log.Errorf("asset remove error: %s", err)
	}

	txIds, err := r.client.SMembers(assetHistorySetKey + id).Result()
	if nil != err {
		r.log.Errorf("history index read error: %s", err)
		return
	}
	for _, txId := range txIds {
		if err := r.client.Del(historyKeyPrefix + txId).Err(); nil != err {
			r.log.Errorf("history remove error: %s", err)
		}
	}
	if err := r.client.Del(assetHistorySetKey + id).Err(); nil != err {
		r.log.Errorf("history index remove error: %s", err)
	}
}

// RemoveTxHistory - delete the history entry of one superseded transaction
func (r *Redis) RemoveTxHistory(txId string) {
	if err := r.client.Del(historyKeyPrefix + txId).Err(); nil != err {
		r.log.Errorf("history remove error: %s", err)
	}
}
