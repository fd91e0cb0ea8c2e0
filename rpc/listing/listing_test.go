// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/listing"
	rpclisting "github.com/bitmark-inc/escrowd/rpc/listing"
	"github.com/bitmark-inc/escrowd/rpc/fixtures"
	"github.com/bitmark-inc/escrowd/rpc/server"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/logger"
)

func setup(t *testing.T) (*server.Services, *storage.Store, *rpclisting.Listing) {
	services, store, err := fixtures.NewServices()
	if nil != err {
		t.Fatalf("services error: %s", err)
	}
	l := rpclisting.New(logger.New(fixtures.LogCategory), services.Ledger, services.Registry, services.Mode)
	return services, store, l
}

// mint an asset to owner and approve the registry for it
func mint(t *testing.T, services *server.Services, owner *account.Account, assetId uint64) {
	ctx := context.Background()
	art := services.Tokens[0]
	if err := art.Mint(ctx, nil, owner, assetId); nil != err {
		t.Fatalf("mint error: %s", err)
	}
	if err := art.Approve(ctx, owner, services.Registry.Account(), assetId); nil != err {
		t.Fatalf("approve error: %s", err)
	}
}

func sell(key *account.PrivateKey, nonce uint64, assetId uint64, price uint64) *rpclisting.SellArguments {
	arguments := &rpclisting.SellArguments{
		Contract: fixtures.Contract,
		AssetId:  assetId,
		Price:    price,
	}
	arguments.Sign(key, nonce, rpclisting.SellMethod, rpclisting.SellFields(arguments)...)
	return arguments
}

func TestSellBuy(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	services, store, l := setup(t)
	defer store.Close()
	ctx := context.Background()

	seller := fixtures.NewKey()
	buyer := fixtures.NewKey()
	mint(t, services, seller.Account(), 7)

	var reply rpclisting.Reply
	err := l.Sell(sell(seller, 1, 7, 500), &reply)
	assert.Nil(t, err, "sell")
	assert.Equal(t, uint64(0), reply.Listing.Id, "first id")
	assert.Equal(t, listing.Listed, reply.Listing.Status, "listed")
	assert.True(t, seller.Account().Equal(reply.Listing.Seller), "seller")

	var got rpclisting.Reply
	err = l.Get(&rpclisting.GetArguments{Id: 0}, &got)
	assert.Nil(t, err, "get")
	assert.Equal(t, reply.Listing, got.Listing, "get matches sell")

	err = services.Funds.Deposit(ctx, buyer.Account(), 500)
	assert.Nil(t, err, "deposit")

	buy := &rpclisting.BuyArguments{Id: 0, Payment: 500}
	buy.Sign(buyer, 1, rpclisting.BuyMethod, rpclisting.BuyFields(buy)...)
	err = l.Buy(buy, &reply)
	assert.Nil(t, err, "buy")
	assert.Equal(t, listing.Bought, reply.Listing.Status, "bought")
	assert.True(t, buyer.Account().Equal(reply.Listing.Buyer), "buyer")

	owner, err := services.Tokens[0].OwnerOf(ctx, 7)
	assert.Nil(t, err, "owner")
	assert.True(t, buyer.Account().Equal(owner), "asset delivered")

	balance, _ := services.Funds.Balance(ctx, seller.Account())
	assert.Equal(t, uint64(500), balance, "seller paid")

	got = rpclisting.Reply{}
	err = l.Get(&rpclisting.GetArguments{Id: 0}, &got)
	assert.Nil(t, err, "get after buy")
	assert.Equal(t, listing.Listing{}, got.Listing, "resolved listing is empty")

	// replaying the buy is rejected before reaching the registry
	err = l.Buy(buy, &reply)
	assert.Equal(t, fault.InvalidNonce, err, "replayed buy")
}

func TestSellErrors(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	services, store, l := setup(t)
	defer store.Close()

	seller := fixtures.NewKey()
	other := fixtures.NewKey()
	mint(t, services, seller.Account(), 1)

	var reply rpclisting.Reply
	err := l.Sell(sell(other, 1, 1, 10), &reply)
	assert.Equal(t, fault.MustOwnAssetToList, err, "not owner")

	// the failed request did not consume the nonce
	err = l.Sell(sell(seller, 1, 1, 10), &reply)
	assert.Nil(t, err, "owner")

	arguments := sell(seller, 2, 2, 10)
	arguments.Price = 11
	err = l.Sell(arguments, &reply)
	assert.Equal(t, fault.InvalidSignature, err, "tampered price")

	arguments = sell(seller, 3, 1, 10)
	arguments.Contract = "unknown"
	arguments.Sign(seller, 3, rpclisting.SellMethod, rpclisting.SellFields(arguments)...)
	err = l.Sell(arguments, &reply)
	assert.Equal(t, fault.UnknownAssetContract, err, "unknown contract")

	err = l.Sell(nil, &reply)
	assert.Equal(t, fault.MissingParameters, err, "nil arguments")
}

func TestCancel(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	services, store, l := setup(t)
	defer store.Close()
	ctx := context.Background()

	seller := fixtures.NewKey()
	other := fixtures.NewKey()
	mint(t, services, seller.Account(), 3)

	var reply rpclisting.Reply
	err := l.Sell(sell(seller, 1, 3, 10), &reply)
	assert.Nil(t, err, "sell")

	cancel := &rpclisting.CancelArguments{Id: 0}
	cancel.Sign(other, 1, rpclisting.CancelMethod, rpclisting.CancelFields(cancel)...)
	err = l.Cancel(cancel, &reply)
	assert.Equal(t, fault.MustOwnListingToCancel, err, "not seller")

	cancel.Sign(seller, 2, rpclisting.CancelMethod, rpclisting.CancelFields(cancel)...)
	err = l.Cancel(cancel, &reply)
	assert.Nil(t, err, "seller cancels")
	assert.Equal(t, listing.Cancelled, reply.Listing.Status, "cancelled")

	owner, _ := services.Tokens[0].OwnerOf(ctx, 3)
	assert.True(t, seller.Account().Equal(owner), "asset returned")

	cancel.Sign(seller, 3, rpclisting.CancelMethod, rpclisting.CancelFields(cancel)...)
	err = l.Cancel(cancel, &reply)
	assert.Equal(t, fault.ListingNotActive, err, "cancel twice")
}

func TestEvents(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	services, store, l := setup(t)
	defer store.Close()

	seller := fixtures.NewKey()
	for i := uint64(0); i < 3; i += 1 {
		mint(t, services, seller.Account(), i)
		var reply rpclisting.Reply
		err := l.Sell(sell(seller, i+1, i, 100+i), &reply)
		assert.Nil(t, err, "sell")
	}

	var reply rpclisting.EventsReply
	err := l.Events(&rpclisting.EventsArguments{Start: 1, Count: 10}, &reply)
	assert.Nil(t, err, "events")
	if assert.Equal(t, 2, len(reply.Events), "event count") {
		assert.Equal(t, uint64(1), reply.Events[0].Sequence, "first sequence")
		assert.Equal(t, uint64(101), reply.Events[0].Price, "first price")
	}
	assert.Equal(t, uint64(3), reply.Next, "next")

	err = l.Events(&rpclisting.EventsArguments{Start: 0, Count: 0}, &reply)
	assert.Equal(t, fault.InvalidCount, err, "zero count")

	err = l.Events(&rpclisting.EventsArguments{Start: 0, Count: 101}, &reply)
	assert.Equal(t, fault.InvalidCount, err, "count too large")
}
