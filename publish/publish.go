// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package publish - forward committed listing events to ZeroMQ subscribers
//
// each message is two frames: the command (topic) followed by the packed
// event, subscribers filter on the "listing" topic
package publish

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/messagebus"
	"github.com/bitmark-inc/escrowd/zmqutil"
	"github.com/bitmark-inc/logger"
)

const (
	publisherZapDomain = "publisher"
	publisherQueueSize = 1000
)

// Configuration - a block of configuration data
// this is read from the Lua configuration file
type Configuration struct {
	Broadcast  []string `gluamapper:"broadcast" json:"broadcast"`
	PrivateKey string   `gluamapper:"private_key" json:"private_key"`
	PublicKey  string   `gluamapper:"public_key" json:"public_key"`
}

// Publisher - a background process sending bus messages to a PUB socket
type Publisher struct {
	log       *logger.L
	bus       *messagebus.BroadcastQueue
	queue     <-chan messagebus.Message
	socket4   *zmq.Socket
	socket6   *zmq.Socket
	publicKey []byte
}

// New - read the keys, bind the sockets and subscribe to the bus
func New(log *logger.L, configuration *Configuration, bus *messagebus.BroadcastQueue) (*Publisher, error) {

	if nil == log {
		return nil, fault.InvalidLoggerChannel
	}
	if nil == configuration || 0 == len(configuration.Broadcast) {
		return nil, fault.MissingParameters
	}

	log.Info("initialising…")

	privateKey, err := zmqutil.ReadPrivateKeyFile(configuration.PrivateKey)
	if nil != err {
		log.Errorf("read private key file: %q  error: %s", configuration.PrivateKey, err)
		return nil, err
	}
	publicKey, err := zmqutil.ReadPublicKeyFile(configuration.PublicKey)
	if nil != err {
		log.Errorf("read public key file: %q  error: %s", configuration.PublicKey, err)
		return nil, err
	}
	log.Tracef("public key:  %x", publicKey)

	if err := zmqutil.StartAuthentication(); nil != err {
		log.Errorf("zmq authentication error: %s", err)
		return nil, err
	}

	socket4, socket6, err := zmqutil.NewBind(log, zmq.PUB, publisherZapDomain, privateKey, publicKey, configuration.Broadcast)
	if nil != err {
		log.Errorf("bind error: %s", err)
		return nil, err
	}

	p := &Publisher{
		log:       log,
		bus:       bus,
		queue:     bus.Chan(publisherQueueSize),
		socket4:   socket4,
		socket6:   socket6,
		publicKey: publicKey,
	}
	return p, nil
}

// PublicKey - the curve public key subscribers must use as server key
func (p *Publisher) PublicKey() []byte {
	return p.publicKey
}

// Run - wait for bus messages until shutdown
func (p *Publisher) Run(args interface{}, shutdown <-chan struct{}) {

	log := p.log

	log.Info("starting…")

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item, ok := <-p.queue:
			if !ok {
				break loop
			}
			log.Debugf("sending: %s  data: %x", item.Command, item.Parameters)
			p.process(p.socket4, &item)
			p.process(p.socket6, &item)
		}
	}

	p.bus.Unsubscribe(p.queue)

	if nil != p.socket4 {
		p.socket4.Close()
	}
	if nil != p.socket6 {
		p.socket6.Close()
	}
	log.Info("stopped")
}

// send one message as a multipart frame set
func (p *Publisher) process(socket *zmq.Socket, item *messagebus.Message) {
	if nil == socket {
		return
	}

	flags := zmq.DONTWAIT
	if 0 != len(item.Parameters) {
		flags |= zmq.SNDMORE
	}
	_, err := socket.Send(item.Command, flags)
	if nil != err {
		p.log.Errorf("send command: %s  error: %s", item.Command, err)
		return
	}

	last := len(item.Parameters) - 1
	for i, parameter := range item.Parameters {
		flags = zmq.DONTWAIT
		if i != last {
			flags |= zmq.SNDMORE
		}
		_, err = socket.SendBytes(parameter, flags)
		if nil != err {
			p.log.Errorf("send parameter[%d]  error: %s", i, err)
			return
		}
	}
}
