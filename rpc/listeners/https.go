// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/logger"
)

const (
	httpsLogName     = "http_rpc"
	readWriteTimeout = 10 * time.Second
	keepAlivePeriod  = 3 * time.Minute
)

// HTTPSConfiguration - configuration file data for HTTPS setup
type HTTPSConfiguration struct {
	MaximumConnections uint64              `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string            `gluamapper:"listen" json:"listen"`
	Certificate        string              `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string              `gluamapper:"private_key" json:"private_key"`
	Allow              map[string][]string `gluamapper:"allow" json:"allow"`
}

// Handler - the HTTP endpoints
type Handler interface {
	RPC(http.ResponseWriter, *http.Request)
	Listing(http.ResponseWriter, *http.Request)
	Events(http.ResponseWriter, *http.Request)
	Root(http.ResponseWriter, *http.Request)
	SetAllow(map[string][]*net.IPNet)
}

type httpsListener struct {
	sync.Mutex
	log       *logger.L
	addresses []string
	tlsConfig *tls.Config
	mux       *http.ServeMux
	servers   []*http.Server
}

// NewHTTPS - validate the configuration for an HTTPS listener
//
// returns nil, nil if no listen addresses are configured
func NewHTTPS(
	configuration *HTTPSConfiguration,
	log *logger.L,
	tlsConfig *tls.Config,
	hdlr Handler,
) (Listener, error) {
	if 0 == len(configuration.Listen) {
		log.Infof("disable: %s", httpsLogName)
		return nil, nil
	}

	if configuration.MaximumConnections < minConnectionCount {
		log.Errorf("invalid %s maximum connection limit: %d", httpsLogName, configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}

	_, addresses, err := parseListenAddresses(configuration.Listen)
	if nil != err {
		log.Errorf("%s listen error: %s", httpsLogName, err)
		return nil, err
	}

	// create access control and format strings to match http.Request.RemoteAddr
	local := make(map[string][]*net.IPNet)
	for path, networks := range configuration.Allow {
		set := make([]*net.IPNet, len(networks))
		local[path] = set
		for i, ip := range networks {
			_, cidr, err := net.ParseCIDR(strings.TrimSpace(ip))
			if nil != err {
				return nil, err
			}
			set[i] = cidr
		}
	}
	hdlr.SetAllow(local)

	h := &httpsListener{
		log:       log,
		addresses: addresses,
		tlsConfig: tlsConfig,
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("/escrowd/rpc", hdlr.RPC)
	h.mux.HandleFunc("/listing", hdlr.Listing)
	h.mux.HandleFunc("/events", hdlr.Events)
	h.mux.HandleFunc("/", hdlr.Root)

	return h, nil
}

// Serve - bind all addresses and start serving
func (h *httpsListener) Serve() error {
	h.Lock()
	defer h.Unlock()

	cfg := h.tlsConfig.Clone()
	cfg.NextProtos = []string{"http/1.1"}

	for _, listen := range h.addresses {
		h.log.Infof("starting server: %s on: %q", httpsLogName, listen)

		ln, err := net.Listen("tcp", listen)
		if nil != err {
			h.log.Errorf("%s listen error: %s", httpsLogName, err)
			h.stop()
			return err
		}

		s := &http.Server{
			Handler:        h.mux,
			ReadTimeout:    readWriteTimeout,
			MaxHeaderBytes: 1 << 20,
		}
		h.servers = append(h.servers, s)

		tlsListener := tls.NewListener(tcpKeepAliveListener{ln.(*net.TCPListener)}, cfg)
		go func() {
			err := s.Serve(tlsListener)
			h.log.Infof("%s serve terminated: %s", httpsLogName, err)
		}()
	}

	return nil
}

// Stop - close all servers
func (h *httpsListener) Stop() {
	h.Lock()
	h.stop()
	h.Unlock()
}

func (h *httpsListener) stop() {
	for _, s := range h.servers {
		_ = s.Close()
	}
	h.servers = nil
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if nil != err {
		return nil, err
	}
	_ = tc.SetKeepAlive(true)
	_ = tc.SetKeepAlivePeriod(keepAlivePeriod)
	return tc, nil
}
