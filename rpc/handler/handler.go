// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package handler - HTTPS access to the RPC server and the listing registry
package handler

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/rpc"
	"net/rpc/jsonrpc"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/messagebus"
	"github.com/bitmark-inc/logger"
)

// Handler - the argument passed to the HTTP handlers
type Handler struct {
	sync.RWMutex
	log                *logger.L
	server             *rpc.Server
	start              time.Time
	version            string
	maximumConnections uint64
	count              *counter.Counter
	registry           *escrow.Registry
	bus                *messagebus.BroadcastQueue
	upgrader           websocket.Upgrader
	allow              map[string][]*net.IPNet
}

// New - create the HTTP handlers
func New(
	log *logger.L,
	server *rpc.Server,
	start time.Time,
	version string,
	maximumConnections uint64,
	count *counter.Counter,
	registry *escrow.Registry,
	bus *messagebus.BroadcastQueue,
) *Handler {
	return &Handler{
		log:                log,
		server:             server,
		start:              start,
		version:            version,
		maximumConnections: maximumConnections,
		count:              count,
		registry:           registry,
		bus:                bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		allow: make(map[string][]*net.IPNet),
	}
}

// SetAllow - restrict paths to sets of networks
//
// a path with no entry is open to all
func (h *Handler) SetAllow(allow map[string][]*net.IPNet) {
	h.Lock()
	h.allow = allow
	h.Unlock()
}

// type to allow rpc system to interface to http request
type internalConnection struct {
	in  io.Reader
	out io.Writer
}

func (c *internalConnection) Read(p []byte) (n int, err error) {
	return c.in.Read(p)
}
func (c *internalConnection) Write(d []byte) (n int, err error) {
	return c.out.Write(d)
}
func (c *internalConnection) Close() error {
	return nil
}

// Root - this matches anything not matched and returns error
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// RPC - performs a call to any normal RPC
func (h *Handler) RPC(w http.ResponseWriter, r *http.Request) {
	if http.MethodPost != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if h.count.Increment() > h.maximumConnections {
		h.count.Decrement()
		sendTooManyRequests(w)
		return
	}
	defer h.count.Decrement()

	serverCodec := jsonrpc.NewServerCodec(&internalConnection{in: r.Body, out: w})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	err := h.server.ServeRequest(serverCodec)
	if nil != err {
		h.log.Warnf("rpc request error: %s", err)
		sendInternalServerError(w)
		return
	}
}

// Listing - GET one active listing
//
// query parameters:
//   id=<decimal listing id>
func (h *Handler) Listing(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !h.allowed("listing", r) {
		sendForbidden(w)
		return
	}

	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
	if nil != err {
		sendBadRequest(w)
		return
	}

	l, err := h.registry.Get(context.Background(), id)
	if nil != err {
		h.log.Errorf("listing: %d  error: %s", id, err)
		sendInternalServerError(w)
		return
	}
	if !l.IsActive() {
		sendNotFound(w)
		return
	}

	sendReply(w, l)
}

// check the remote address against the allowed networks for a path
func (h *Handler) allowed(path string, r *http.Request) bool {
	h.RLock()
	networks, ok := h.allow[path]
	h.RUnlock()

	if !ok {
		return true
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if nil != err {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	if nil != ip {
		for _, n := range networks {
			if n.Contains(ip) {
				return true
			}
		}
	}
	h.log.Warnf("deny access: %q  path: %s", r.RemoteAddr, path)
	return false
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

// selected errors as required above
func sendBadRequest(w http.ResponseWriter) {
	sendError(w, "bad request", http.StatusBadRequest)
}
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendForbidden(w http.ResponseWriter) {
	sendError(w, "forbidden", http.StatusForbidden)
}
func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(text)
}
