// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"context"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/listing"
	"github.com/bitmark-inc/logger"
)

// record an event in the same transaction as the state change and
// broadcast it once committed
func (r *Registry) appendEvent(tx *ledger.Tx, l *listing.Listing) {
	pool := tx.Pool()

	sequence, _ := tx.GetN(pool.Counters, eventCounterKey)
	tx.PutN(pool.Counters, eventCounterKey, sequence+1)

	event := l.Event(sequence)
	packed := event.Pack()
	tx.Put(pool.Events, idKey(sequence), packed)

	tx.OnCommit(func() {
		r.log.Infof("event: %d listing: %d status: %s contract: %s asset: %d", sequence, event.ListingId, event.Status, event.AssetContract, event.AssetId)
		if nil != r.bus {
			r.bus.Send(EventCommand, packed)
		}
	})
}

// Events - part of the event log in sequence order
//
// at most MaximumEventCount events are returned
func (r *Registry) Events(ctx context.Context, start uint64, count int) ([]listing.Event, error) {
	if count <= 0 {
		return nil, fault.InvalidCount
	}
	if count > MaximumEventCount {
		count = MaximumEventCount
	}

	events := make([]listing.Event, 0, count)
	err := r.ledger.View(ctx, func(reader ledger.Reader) error {
		pool := r.ledger.Pool()
		total, _ := reader.GetN(pool.Counters, eventCounterKey)

		for sequence := start; sequence < total && len(events) < count; sequence += 1 {
			packed := reader.Get(pool.Events, idKey(sequence))
			if nil == packed {
				logger.Panicf("event: %d missing from log of: %d", sequence, total)
			}
			event, err := listing.Packed(packed).UnpackEvent()
			if nil != err {
				logger.Panicf("event: %d unpack error: %s", sequence, err)
			}
			events = append(events, *event)
		}
		return nil
	})
	if nil != err {
		return nil, err
	}
	return events, nil
}

// EventCount - number of events recorded
func (r *Registry) EventCount(ctx context.Context) (uint64, error) {
	count := uint64(0)
	err := r.ledger.View(ctx, func(reader ledger.Reader) error {
		count, _ = reader.GetN(r.ledger.Pool().Counters, eventCounterKey)
		return nil
	})
	return count, err
}
