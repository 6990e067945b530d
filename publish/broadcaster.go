// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish

import (
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"
)

const sendTimeout = 500 * time.Millisecond

// the send loop feeding the PUB sockets
type broadcaster struct {
	log     *logger.L
	queue   <-chan event
	sockets []*zmq.Socket
}

// create and bind one PUB socket per listed address
func (brdc *broadcaster) bind(addresses []string) error {
	for _, address := range addresses {
		socket, err := zmq.NewSocket(zmq.PUB)
		if nil != err {
			brdc.closeAll()
			return err
		}
		socket.SetSndtimeo(sendTimeout)
		socket.SetLinger(0)
		if err := socket.Bind(address); nil != err {
			socket.Close()
			brdc.closeAll()
			return err
		}
		brdc.log.Infof("bind: %q", address)
		brdc.sockets = append(brdc.sockets, socket)
	}
	return nil
}

func (brdc *broadcaster) closeAll() {
	for _, socket := range brdc.sockets {
		socket.Close()
	}
	brdc.sockets = nil
}

// Run - drain the queue onto the sockets until shutdown
func (brdc *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {

	log := brdc.log
	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-brdc.queue:
			for _, socket := range brdc.sockets {
				if _, err := socket.Send(item.topic, zmq.SNDMORE); nil != err {
					log.Errorf("send topic error: %s", err)
					continue
				}
				if _, err := socket.SendBytes(item.payload, 0); nil != err {
					log.Errorf("send payload error: %s", err)
				}
			}
		}
	}

	brdc.closeAll()
	log.Info("finished")
}
