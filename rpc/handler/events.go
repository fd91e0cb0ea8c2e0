// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/listing"
	"github.com/bitmark-inc/escrowd/messagebus"
)

const (
	eventQueueSize  = 1000
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingInterval    = 54 * time.Second
	maximumReadSize = 512
)

// Events - stream events over a WebSocket as JSON
//
// query parameters:
//   start=<decimal sequence>   [optional: replay the log from this event first]
//
// without start only events committed after the connection are sent.
// events arrive strictly in sequence: a replayed event is never repeated
// by the live stream, and an event dropped from a full subscriber queue
// is read back from the log before any later event is written
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}
	if !h.allowed("events", r) {
		sendForbidden(w)
		return
	}

	next := uint64(0)
	replay := false
	if s := r.URL.Query().Get("start"); "" != s {
		n, err := strconv.ParseUint(s, 10, 64)
		if nil != err {
			sendBadRequest(w)
			return
		}
		next = n
		replay = true
	}

	if h.count.Increment() > h.maximumConnections {
		h.count.Decrement()
		sendTooManyRequests(w)
		return
	}
	defer h.count.Decrement()

	// subscribe before replay so no event falls between the two
	queue := h.bus.Chan(eventQueueSize)
	defer h.bus.Unsubscribe(queue)

	if !replay {
		count, err := h.registry.EventCount(r.Context())
		if nil != err {
			sendInternalServerError(w)
			return
		}
		next = count
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if nil != err {
		h.log.Warnf("websocket upgrade error: %s", err)
		return
	}
	defer conn.Close()

	id := uuid.New()
	log := h.log
	log.Infof("subscriber: %s  from: %s  start: %d  replay: %t", id, r.RemoteAddr, next, replay)

	closed := make(chan struct{})
	go readPump(conn, closed)

	if replay {
		next, err = h.replay(conn, next)
		if nil != err {
			log.Infof("subscriber: %s  replay error: %s", id, err)
			return
		}
	}

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-closed:
			break loop

		case item, ok := <-queue:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				break loop
			}
			event, err := decodeEvent(&item)
			if nil != err {
				log.Errorf("subscriber: %s  decode error: %s", id, err)
				continue loop
			}

			// an earlier event was dropped, fill the gap from the log
			if event.Sequence > next {
				log.Warnf("subscriber: %s  missed events: %d to %d", id, next, event.Sequence-1)
				next, err = h.replay(conn, next)
				if nil != err {
					log.Infof("subscriber: %s  backfill error: %s", id, err)
					break loop
				}
			}
			if event.Sequence < next {
				continue loop
			}
			if err := writeEvent(conn, event); nil != err {
				log.Infof("subscriber: %s  write error: %s", id, err)
				break loop
			}
			next = event.Sequence + 1

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); nil != err {
				break loop
			}
		}
	}
	log.Infof("subscriber: %s  finished", id)
}

// write every logged event from next onwards, returns the sequence
// following the last one written
func (h *Handler) replay(conn *websocket.Conn, next uint64) (uint64, error) {
	for {
		events, err := h.registry.Events(context.Background(), next, escrow.MaximumEventCount)
		if nil != err {
			return next, err
		}
		for i := range events {
			if err := writeEvent(conn, &events[i]); nil != err {
				return next, err
			}
			next = events[i].Sequence + 1
		}
		if len(events) < escrow.MaximumEventCount {
			return next, nil
		}
	}
}

// discard client messages, only control frames matter
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maximumReadSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); nil != err {
			return
		}
	}
}

func decodeEvent(item *messagebus.Message) (*listing.Event, error) {
	if escrow.EventCommand != item.Command || 1 != len(item.Parameters) {
		return nil, fault.InvalidItem
	}
	return listing.Packed(item.Parameters[0]).UnpackEvent()
}

func writeEvent(conn *websocket.Conn, event *listing.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(event)
}
