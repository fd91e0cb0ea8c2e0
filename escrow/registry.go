// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package escrow

import (
	"context"
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/funds"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/listing"
	"github.com/bitmark-inc/logger"
)

// maximum events returned by one query
const MaximumEventCount = 100

// message bus command for events
const EventCommand = "listing"

// counter keys
var (
	listingCounterKey = []byte("listing")
	eventCounterKey   = []byte("event")
)

// Broadcaster - receives each committed event
type Broadcaster interface {
	Send(command string, parameters ...[]byte)
}

// Registry - the listing registry
type Registry struct {
	log       *logger.L
	ledger    *ledger.Ledger
	funds     *funds.Funds
	providers *custody.Providers
	account   *account.Account
	bus       Broadcaster
}

// RegistryAccount - the custody account of a named registry
//
// it is derived from the name and has no private key, so assets and
// value can only leave it through the registry's own operations
func RegistryAccount(name string, testing bool) *account.Account {
	publicKey := sha3.Sum256([]byte("escrow registry:" + name))
	return &account.Account{
		AccountInterface: &account.ED25519Account{
			Test:      testing,
			PublicKey: publicKey[:],
		},
	}
}

// New - create a registry
//
// bus may be nil
func New(log *logger.L, l *ledger.Ledger, f *funds.Funds, providers *custody.Providers, registry *account.Account, bus Broadcaster) *Registry {
	return &Registry{
		log:       log,
		ledger:    l,
		funds:     f,
		providers: providers,
		account:   registry,
		bus:       bus,
	}
}

// Account - the registry's custody account
func (r *Registry) Account() *account.Account {
	return r.account
}

// ListForSale - take custody of an asset and offer it at a fixed price
func (r *Registry) ListForSale(ctx context.Context, caller *account.Account, assetContract custody.ContractId, assetId uint64, price uint64) (listing.Listing, error) {
	if caller.IsZero() {
		return listing.Listing{}, fault.InvalidAccount
	}

	provider, ok := r.providers.Lookup(assetContract)
	if !ok {
		return listing.Listing{}, fault.UnknownAssetContract
	}

	var result listing.Listing
	err := r.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {

		owner, err := provider.OwnerOf(ctx, assetId)
		if nil != err {
			if fault.IsErrNotFound(err) {
				return fault.MustOwnAssetToList
			}
			return r.custodyError("owner of", assetContract, assetId, err)
		}
		if !owner.Equal(caller) {
			return fault.MustOwnAssetToList
		}

		err = provider.TransferFrom(ctx, r.account, caller, r.account, assetId)
		if nil != err {
			return r.custodyError("list", assetContract, assetId, err)
		}

		pool := tx.Pool()
		id, _ := tx.GetN(pool.Counters, listingCounterKey)
		tx.PutN(pool.Counters, listingCounterKey, id+1)

		result = listing.Listing{
			Id:            id,
			AssetContract: assetContract,
			AssetId:       assetId,
			Seller:        caller,
			Price:         price,
			Status:        listing.Listed,
		}
		tx.Put(pool.Listings, idKey(id), result.Pack())
		r.appendEvent(tx, &result)
		return nil
	})
	if nil != err {
		return listing.Listing{}, err
	}
	return result, nil
}

// Buy - pay the exact price to receive a listed asset
func (r *Registry) Buy(ctx context.Context, caller *account.Account, listingId uint64, payment uint64) (listing.Listing, error) {
	if caller.IsZero() {
		return listing.Listing{}, fault.InvalidAccount
	}

	var result listing.Listing
	err := r.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {

		current, err := r.read(tx, listingId)
		if nil != err {
			return err
		}
		if nil == current {
			return fault.UnknownListing
		}
		if !current.IsActive() {
			return fault.ListingNotActive
		}
		if payment != current.Price {
			return fault.PaymentMismatch
		}

		provider, ok := r.providers.Lookup(current.AssetContract)
		if !ok {
			return fault.UnknownAssetContract
		}

		// resolve before anything leaves the registry
		result = *current
		result.Buyer = caller
		result.Status = listing.Bought
		tx.Put(tx.Pool().Listings, idKey(listingId), result.Pack())
		r.appendEvent(tx, &result)

		err = provider.TransferFrom(ctx, r.account, r.account, caller, current.AssetId)
		if nil != err {
			return r.custodyError("buy", current.AssetContract, current.AssetId, err)
		}

		return r.funds.Transfer(ctx, caller, current.Seller, payment)
	})
	if nil != err {
		return listing.Listing{}, err
	}
	return result, nil
}

// CancelSale - return a listed asset to its seller
func (r *Registry) CancelSale(ctx context.Context, caller *account.Account, listingId uint64) (listing.Listing, error) {
	if caller.IsZero() {
		return listing.Listing{}, fault.MustOwnListingToCancel
	}

	var result listing.Listing
	err := r.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {

		current, err := r.read(tx, listingId)
		if nil != err {
			return err
		}

		// ownership first: only the seller learns the listing's state
		if nil == current || !current.Seller.Equal(caller) {
			return fault.MustOwnListingToCancel
		}
		if !current.IsActive() {
			return fault.ListingNotActive
		}

		provider, ok := r.providers.Lookup(current.AssetContract)
		if !ok {
			return fault.UnknownAssetContract
		}

		result = *current
		result.Buyer = nil
		result.Status = listing.Cancelled
		tx.Put(tx.Pool().Listings, idKey(listingId), result.Pack())
		r.appendEvent(tx, &result)

		err = provider.TransferFrom(ctx, r.account, r.account, current.Seller, current.AssetId)
		if nil != err {
			return r.custodyError("cancel", current.AssetContract, current.AssetId, err)
		}
		return nil
	})
	if nil != err {
		return listing.Listing{}, err
	}
	return result, nil
}

// Get - the active listing, or the default record if none
func (r *Registry) Get(ctx context.Context, listingId uint64) (listing.Listing, error) {
	var result listing.Listing
	err := r.ledger.View(ctx, func(reader ledger.Reader) error {
		current, err := r.read(reader, listingId)
		if nil != err {
			return err
		}
		if nil != current && current.IsActive() {
			result = *current
		}
		return nil
	})
	return result, err
}

// ListingCount - the id the next listing will receive
func (r *Registry) ListingCount(ctx context.Context) (uint64, error) {
	count := uint64(0)
	err := r.ledger.View(ctx, func(reader ledger.Reader) error {
		count, _ = reader.GetN(r.ledger.Pool().Counters, listingCounterKey)
		return nil
	})
	return count, err
}

// the stored record or tombstone, nil if never created
func (r *Registry) read(reader ledger.Reader, listingId uint64) (*listing.Listing, error) {
	packed := reader.Get(r.ledger.Pool().Listings, idKey(listingId))
	if nil == packed {
		return nil, nil
	}
	current, err := listing.Packed(packed).Unpack()
	if nil != err {
		r.log.Criticalf("listing: %d unpack error: %s", listingId, err)
		logger.Panicf("listing: %d unpack error: %s", listingId, err)
	}
	return current, nil
}

// a provider error that is not already a custody error is reported
// as a rejected transfer
func (r *Registry) custodyError(operation string, contract custody.ContractId, assetId uint64, err error) error {
	r.log.Warnf("%s: contract: %s asset: %d error: %s", operation, contract, assetId, err)
	if fault.IsErrCustody(err) {
		return err
	}
	return fault.CustodyTransferRejected
}

func idKey(id uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, id)
	return key
}
