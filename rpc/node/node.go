// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package node - RPC call describing this registry node
package node

import (
	"context"
	"encoding/hex"
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitNode = 200
	rateBurstNode = 100
)

// Node - type for RPC calls
type Node struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	Start     time.Time
	Version   string
	mode      *mode.Mode
	registry  *escrow.Registry
	contracts []custody.ContractId
	publicKey []byte
	counter   *counter.Counter
}

// New - create the RPC handler
func New(log *logger.L, m *mode.Mode, registry *escrow.Registry, contracts []custody.ContractId, start time.Time, version string, publicKey []byte, counter *counter.Counter) *Node {
	return &Node{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitNode, rateBurstNode),
		Start:     start,
		Version:   version,
		mode:      m,
		registry:  registry,
		contracts: contracts,
		publicKey: publicKey,
		counter:   counter,
	}
}

// InfoArguments - empty arguments for info request
type InfoArguments struct{}

// InfoReply - results from info request
type InfoReply struct {
	Chain     string               `json:"chain"`
	Mode      string               `json:"mode"`
	Registry  *account.Account     `json:"registry"`
	Contracts []custody.ContractId `json:"contracts"`
	Listings  uint64               `json:"listings,string"`
	Events    uint64               `json:"events,string"`
	RPCs      uint64               `json:"rpcs"`
	Version   string               `json:"version"`
	Uptime    string               `json:"uptime"`
	PublicKey string               `json:"publicKey"`
}

// Info - return some information about this node
func (node *Node) Info(_ *InfoArguments, reply *InfoReply) error {

	if err := ratelimit.Limit(node.Limiter); nil != err {
		return err
	}

	ctx := context.Background()
	listings, err := node.registry.ListingCount(ctx)
	if nil != err {
		return err
	}
	events, err := node.registry.EventCount(ctx)
	if nil != err {
		return err
	}

	reply.Chain = node.mode.ChainName()
	reply.Mode = node.mode.String()
	reply.Registry = node.registry.Account()
	reply.Contracts = node.contracts
	reply.Listings = listings
	reply.Events = events
	reply.RPCs = node.counter.Uint64()
	reply.Version = node.Version
	reply.Uptime = time.Since(node.Start).String()
	reply.PublicKey = hex.EncodeToString(node.publicKey)
	return nil
}
