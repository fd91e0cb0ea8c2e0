// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package server - the set of RPC services offered by a node
package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/funds"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/messagebus"
	"github.com/bitmark-inc/escrowd/mode"
	rpcfunds "github.com/bitmark-inc/escrowd/rpc/funds"
	rpclisting "github.com/bitmark-inc/escrowd/rpc/listing"
	"github.com/bitmark-inc/escrowd/rpc/node"
	rpctoken "github.com/bitmark-inc/escrowd/rpc/token"
	"github.com/bitmark-inc/escrowd/token"
	"github.com/bitmark-inc/logger"
)

// Services - everything the RPC handlers operate on
type Services struct {
	Mode      *mode.Mode
	Ledger    *ledger.Ledger
	Funds     *funds.Funds
	Registry  *escrow.Registry
	Tokens    []*token.Token
	Bus       *messagebus.BroadcastQueue
	Start     time.Time
	Version   string
	Count     *counter.Counter
	PublicKey []byte
}

// Create - register all services on a new RPC server
func Create(log *logger.L, services *Services) *rpc.Server {

	contracts := make([]custody.ContractId, 0, len(services.Tokens))
	for _, t := range services.Tokens {
		contracts = append(contracts, t.Name())
	}

	server := rpc.NewServer()

	_ = server.Register(rpclisting.New(log, services.Ledger, services.Registry, services.Mode))
	_ = server.Register(rpctoken.New(log, services.Ledger, services.Tokens, services.Mode))
	_ = server.Register(rpcfunds.New(log, services.Ledger, services.Funds, services.Mode))
	_ = server.Register(node.New(log, services.Mode, services.Registry, contracts, services.Start, services.Version, services.PublicKey, services.Count))

	return server
}
