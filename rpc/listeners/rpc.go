// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/logger"
)

const (
	logName = "client_rpc"
)

// RPCConfiguration - configuration file data for RPC setup
type RPCConfiguration struct {
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

type rpcListener struct {
	sync.Mutex
	log            *logger.L
	count          *counter.Counter
	server         *rpc.Server
	maxConnections uint64
	tlsConfig      *tls.Config
	networks       []string
	addresses      []string
	listeners      []net.Listener
}

// NewRPC - validate the configuration for a JSON RPC over TLS listener
func NewRPC(
	configuration *RPCConfiguration,
	log *logger.L,
	count *counter.Counter,
	server *rpc.Server,
	tlsConfig *tls.Config,
	certificateFingerprint [32]byte,
) (Listener, error) {
	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", logName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}
	if 0 == len(configuration.Listen) {
		log.Errorf("missing %s listen", logName)
		return nil, fault.MissingParameters
	}

	networks, addresses, err := parseListenAddresses(configuration.Listen)
	if nil != err {
		log.Errorf("%s listen error: %s", logName, err)
		return nil, err
	}

	log.Infof("%s: SHA3-256 fingerprint: %x", logName, certificateFingerprint)

	r := &rpcListener{
		log:            log,
		count:          count,
		server:         server,
		maxConnections: configuration.MaximumConnections,
		tlsConfig:      tlsConfig,
		networks:       networks,
		addresses:      addresses,
	}
	return r, nil
}

// Serve - bind all addresses and start accepting
func (r *rpcListener) Serve() error {
	r.Lock()
	defer r.Unlock()

	for i, listen := range r.addresses {
		r.log.Infof("starting RPC server: %s", listen)
		listener, err := tls.Listen(r.networks[i], listen, r.tlsConfig)
		if nil != err {
			r.log.Errorf("rpc server listen error: %s", err)
			r.stop()
			return err
		}
		r.listeners = append(r.listeners, listener)

		go doServeRPC(listener, r.server, r.maxConnections, r.log, r.count)
	}
	return nil
}

// Stop - close all listeners, open connections run to completion
func (r *rpcListener) Stop() {
	r.Lock()
	r.stop()
	r.Unlock()
}

func (r *rpcListener) stop() {
	for _, listener := range r.listeners {
		_ = listener.Close()
	}
	r.listeners = nil
}

func doServeRPC(listen net.Listener, server *rpc.Server, maximumConnections uint64, log *logger.L, count *counter.Counter) {
	for {
		conn, err := listen.Accept()
		if nil != err {
			log.Infof("rpc accept terminated: %s", err)
			break
		}
		if count.Increment() <= maximumConnections {
			go func() {
				server.ServeCodec(jsonrpc.NewServerCodec(conn))
				_ = conn.Close()
				count.Decrement()
			}()
		} else {
			count.Decrement()
			_ = conn.Close()
		}
	}
	_ = listen.Close()
}
