// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/rpc/certificate"
	"github.com/bitmark-inc/escrowd/rpc/handler"
	"github.com/bitmark-inc/escrowd/rpc/listeners"
	"github.com/bitmark-inc/escrowd/rpc/server"
	"github.com/bitmark-inc/logger"
)

const (
	rpcName   = "client_rpc"
	httpsName = "https_rpc"
)

// RPC - the running listeners
type RPC struct {
	log       *logger.L
	listeners []listeners.Listener
}

// New - start the JSON RPC and HTTPS listeners
func New(log *logger.L, rpcConfiguration *listeners.RPCConfiguration, httpsConfiguration *listeners.HTTPSConfiguration, services *server.Services) (*RPC, error) {

	if nil == log {
		return nil, fault.InvalidLoggerChannel
	}
	if nil == rpcConfiguration || nil == httpsConfiguration || nil == services {
		return nil, fault.MissingParameters
	}

	log.Info("starting…")

	r := &RPC{
		log: log,
	}

	tlsConfig, fingerprint, err := certificate.GetFromFiles(log, rpcName, rpcConfiguration.Certificate, rpcConfiguration.PrivateKey)
	if nil != err {
		return nil, err
	}

	rpcListener, err := listeners.NewRPC(
		rpcConfiguration,
		log,
		services.Count,
		server.Create(log, services),
		tlsConfig,
		fingerprint,
	)
	if nil != err {
		return nil, err
	}
	if err := rpcListener.Serve(); nil != err {
		return nil, err
	}
	r.listeners = append(r.listeners, rpcListener)

	if 0 != len(httpsConfiguration.Listen) {
		httpsTLS, httpsFingerprint, err := certificate.GetFromFiles(log, httpsName, httpsConfiguration.Certificate, httpsConfiguration.PrivateKey)
		if nil != err {
			r.Stop()
			return nil, err
		}
		log.Infof("%s: SHA3-256 fingerprint: %x", httpsName, httpsFingerprint)

		hdlr := handler.New(
			log,
			server.Create(log, services),
			services.Start,
			services.Version,
			httpsConfiguration.MaximumConnections,
			services.Count,
			services.Registry,
			services.Bus,
		)

		httpsListener, err := listeners.NewHTTPS(httpsConfiguration, log, httpsTLS, hdlr)
		if nil != err {
			r.Stop()
			return nil, err
		}
		if err := httpsListener.Serve(); nil != err {
			r.Stop()
			return nil, err
		}
		r.listeners = append(r.listeners, httpsListener)
	}

	return r, nil
}

// Stop - close all listeners
func (r *RPC) Stop() {
	r.log.Info("shutting down…")
	for i := len(r.listeners) - 1; i >= 0; i -= 1 {
		r.listeners[i].Stop()
	}
	r.listeners = nil
	r.log.Info("finished")
	r.log.Flush()
}
