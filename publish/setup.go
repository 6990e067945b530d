// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - broadcast registry events over a zmq PUB socket
//
// subscribers get a topic frame then a json payload; delivery is best
// effort, a full queue drops the event rather than stall validation
package publish

import (
	"encoding/json"

	"github.com/bitmark-inc/logger"

	"github.com/regchain/registryd/assetrecord"
	"github.com/regchain/registryd/background"
	"github.com/regchain/registryd/mirror"
	"github.com/regchain/registryd/script"
)

// Configuration - the publish block of the configuration file
type Configuration struct {
	Broadcast []string `gluamapper:"broadcast" json:"broadcast"`
	QueueSize int      `gluamapper:"queue_size" json:"queue_size"`
}

// event topics
const (
	TopicAsset         = "asset"
	TopicHistory       = "history"
	TopicRemove        = "remove"
	TopicRemoveHistory = "history.remove"
)

const defaultQueueSize = 256

type event struct {
	topic   string
	payload []byte
}

// Publisher - a running broadcaster; satisfies mirror.Sink
type Publisher struct {
	log        *logger.L
	queue      chan event
	background *background.T
}

// New - bind the broadcast addresses and start the send loop
func New(configuration *Configuration) (*Publisher, error) {

	log := logger.New("publish")
	log.Info("starting…")

	queueSize := configuration.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	p := &Publisher{
		log:   log,
		queue: make(chan event, queueSize),
	}

	brdc := &broadcaster{
		log:   logger.New("broadcaster"),
		queue: p.queue,
	}
	if err := brdc.bind(configuration.Broadcast); nil != err {
		return nil, err
	}

	p.background = background.Start(background.Processes{brdc}, nil)
	return p, nil
}

// Stop - stop the send loop and close the sockets
func (p *Publisher) Stop() {
	p.background.Stop()
	p.log.Info("finished")
}

// queue one event, dropping when the queue is full
func (p *Publisher) enqueue(topic string, payload []byte) {
	select {
	case p.queue <- event{topic: topic, payload: payload}:
	default:
		p.log.Warnf("queue full, dropping: %s", topic)
	}
}

func (p *Publisher) enqueueProjection(topic string, record *assetrecord.Record, op script.Operation) {
	payload, err := json.Marshal(mirror.Flatten(record, op))
	if nil != err {
		p.log.Errorf("projection marshal error: %s", err)
		return
	}
	p.enqueue(topic, payload)
}

// Upsert - broadcast the new current state of an asset
func (p *Publisher) Upsert(record *assetrecord.Record, op script.Operation) {
	p.enqueueProjection(TopicAsset, record, op)
}

// AppendHistory - broadcast one history entry
func (p *Publisher) AppendHistory(record *assetrecord.Record, op script.Operation) {
	p.enqueueProjection(TopicHistory, record, op)
}

// Remove - broadcast the removal of an asset
func (p *Publisher) Remove(assetId []byte, cleanup bool) {
	payload, err := json.Marshal(map[string]interface{}{
		"_id":     assetrecord.IdToString(assetId),
		"cleanup": cleanup,
	})
	if nil != err {
		p.log.Errorf("removal marshal error: %s", err)
		return
	}
	p.enqueue(TopicRemove, payload)
}

// RemoveTxHistory - broadcast the removal of a superseded history entry
func (p *Publisher) RemoveTxHistory(txId string) {
	payload, err := json.Marshal(map[string]interface{}{
		"txid": txId,
	})
	if nil != err {
		p.log.Errorf("removal marshal error: %s", err)
		return
	}
	p.enqueue(TopicRemoveHistory, payload)
}

var _ mirror.Sink = (*Publisher)(nil)
