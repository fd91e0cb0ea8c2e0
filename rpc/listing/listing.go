// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listing - RPC calls for the listing registry
package listing

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/listing"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/auth"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitListing = 200
	rateBurstListing = 100
)

// method names covered by signatures
const (
	SellMethod   = "Listing.Sell"
	BuyMethod    = "Listing.Buy"
	CancelMethod = "Listing.Cancel"
)

// Listing - type for the RPC
type Listing struct {
	Log      *logger.L
	Limiter  *rate.Limiter
	ledger   *ledger.Ledger
	registry *escrow.Registry
	mode     *mode.Mode
}

// New - create the RPC handler
func New(log *logger.L, l *ledger.Ledger, registry *escrow.Registry, m *mode.Mode) *Listing {
	return &Listing{
		Log:      log,
		Limiter:  rate.NewLimiter(rateLimitListing, rateBurstListing),
		ledger:   l,
		registry: registry,
		mode:     m,
	}
}

// Reply - the listing after the call
type Reply struct {
	Listing listing.Listing `json:"listing"`
}

// Sell
// ----

// SellArguments - arguments for RPC
type SellArguments struct {
	auth.Authorisation
	Contract custody.ContractId `json:"contract"`
	AssetId  uint64             `json:"assetId,string"`
	Price    uint64             `json:"price,string"`
}

// SellFields - the signed fields of a sell request
func SellFields(arguments *SellArguments) [][]byte {
	return [][]byte{
		[]byte(arguments.Contract),
		auth.Uint64(arguments.AssetId),
		auth.Uint64(arguments.Price),
	}
}

// Sell - list an asset for sale
func (l *Listing) Sell(arguments *SellArguments, reply *Reply) error {

	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	l.Log.Infof("Listing.Sell: %s  asset: %d  price: %d", arguments.Contract, arguments.AssetId, arguments.Price)

	return l.signed(&arguments.Authorisation, SellMethod, SellFields(arguments), func(ctx context.Context) error {
		result, err := l.registry.ListForSale(ctx, arguments.Caller, arguments.Contract, arguments.AssetId, arguments.Price)
		reply.Listing = result
		return err
	})
}

// Buy
// ---

// BuyArguments - arguments for RPC
type BuyArguments struct {
	auth.Authorisation
	Id      uint64 `json:"id,string"`
	Payment uint64 `json:"payment,string"`
}

// BuyFields - the signed fields of a buy request
func BuyFields(arguments *BuyArguments) [][]byte {
	return [][]byte{
		auth.Uint64(arguments.Id),
		auth.Uint64(arguments.Payment),
	}
}

// Buy - pay for a listed asset
func (l *Listing) Buy(arguments *BuyArguments, reply *Reply) error {

	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	l.Log.Infof("Listing.Buy: %d  payment: %d", arguments.Id, arguments.Payment)

	return l.signed(&arguments.Authorisation, BuyMethod, BuyFields(arguments), func(ctx context.Context) error {
		result, err := l.registry.Buy(ctx, arguments.Caller, arguments.Id, arguments.Payment)
		reply.Listing = result
		return err
	})
}

// Cancel
// ------

// CancelArguments - arguments for RPC
type CancelArguments struct {
	auth.Authorisation
	Id uint64 `json:"id,string"`
}

// CancelFields - the signed fields of a cancel request
func CancelFields(arguments *CancelArguments) [][]byte {
	return [][]byte{
		auth.Uint64(arguments.Id),
	}
}

// Cancel - withdraw a listing
func (l *Listing) Cancel(arguments *CancelArguments, reply *Reply) error {

	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	l.Log.Infof("Listing.Cancel: %d", arguments.Id)

	return l.signed(&arguments.Authorisation, CancelMethod, CancelFields(arguments), func(ctx context.Context) error {
		result, err := l.registry.CancelSale(ctx, arguments.Caller, arguments.Id)
		reply.Listing = result
		return err
	})
}

// Get
// ---

// GetArguments - arguments for RPC
type GetArguments struct {
	Id uint64 `json:"id,string"`
}

// Get - read one active listing, the reply is empty if it is not active
func (l *Listing) Get(arguments *GetArguments, reply *Reply) error {

	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	result, err := l.registry.Get(context.Background(), arguments.Id)
	if nil != err {
		return err
	}
	reply.Listing = result
	return nil
}

// Events
// ------

// EventsArguments - arguments for RPC
type EventsArguments struct {
	Start uint64 `json:"start,string"`
	Count int    `json:"count"`
}

// EventsReply - result from RPC
type EventsReply struct {
	Events []listing.Event `json:"events"`
	Next   uint64          `json:"next,string"`
}

// Events - part of the event log
func (l *Listing) Events(arguments *EventsArguments, reply *EventsReply) error {

	if nil == arguments {
		return fault.MissingParameters
	}
	if err := ratelimit.LimitN(l.Limiter, arguments.Count, escrow.MaximumEventCount); nil != err {
		return err
	}

	events, err := l.registry.Events(context.Background(), arguments.Start, arguments.Count)
	if nil != err {
		return err
	}
	reply.Events = events
	reply.Next = arguments.Start + uint64(len(events))
	return nil
}

// verify the request and run the operation in one transaction
func (l *Listing) signed(a *auth.Authorisation, method string, fields [][]byte, operation func(context.Context) error) error {
	err := l.ledger.Execute(context.Background(), func(ctx context.Context, tx *ledger.Tx) error {
		if err := auth.Verify(tx, l.mode.IsTesting(), a, method, fields...); nil != err {
			return err
		}
		return operation(ctx)
	})
	if nil != err {
		l.Log.Warnf("%s: %s", method, err)
	}
	return err
}
