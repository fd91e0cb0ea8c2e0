// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package custody - the asset ownership registries a listing can name
package custody

import (
	"context"
	"sort"
	"sync"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
)

// ContractId - identifies a provider
type ContractId string

// MaximumIdLength - longest contract id that fits a packed listing
const MaximumIdLength = 64

// Provider - an external asset ownership registry
//
// approval of the escrow account is granted out of band and is only
// observed as TransferFrom succeeding. A provider whose state is not
// kept in the ledger must register a compensation with
// ledger.Tx.OnAbort after each successful transfer.
type Provider interface {
	OwnerOf(ctx context.Context, assetId uint64) (*account.Account, error)
	TransferFrom(ctx context.Context, operator *account.Account, from *account.Account, to *account.Account, assetId uint64) error
}

// Providers - the set of registered providers
type Providers struct {
	sync.RWMutex
	providers map[ContractId]Provider
}

// NewProviders - create an empty set
func NewProviders() *Providers {
	return &Providers{
		providers: make(map[ContractId]Provider),
	}
}

// Register - add a provider
func (p *Providers) Register(id ContractId, provider Provider) error {
	if "" == id || nil == provider {
		return fault.MissingParameters
	}
	if len(id) > MaximumIdLength {
		return fault.ContractNameTooLong
	}

	p.Lock()
	defer p.Unlock()

	if _, ok := p.providers[id]; ok {
		return fault.ContractAlreadyRegistered
	}
	p.providers[id] = provider
	return nil
}

// Lookup - find a provider
func (p *Providers) Lookup(id ContractId) (Provider, bool) {
	p.RLock()
	defer p.RUnlock()
	provider, ok := p.providers[id]
	return provider, ok
}

// Contracts - all registered ids in sorted order
func (p *Providers) Contracts() []ContractId {
	p.RLock()
	defer p.RUnlock()

	ids := make([]ContractId, 0, len(p.providers))
	for id := range p.providers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
