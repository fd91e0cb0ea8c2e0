// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"bytes"
	"net"
	"net/rpc/jsonrpc"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/listing"
	"github.com/bitmark-inc/escrowd/rpc/fixtures"
	"github.com/bitmark-inc/escrowd/rpc/server"
	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

func newTestClient(t *testing.T, verbose bool, handle *bytes.Buffer) (*Client, *server.Services, func()) {
	services, store, err := fixtures.NewServices()
	if nil != err {
		t.Fatalf("services error: %s", err)
	}

	serverConn, clientConn := net.Pipe()
	s := server.Create(logger.New(fixtures.LogCategory), services)
	go s.ServeCodec(jsonrpc.NewServerCodec(serverConn))

	client := newClient(clientConn, true, verbose, handle)
	return client, services, func() {
		client.Close()
		store.Close()
	}
}

func TestNonceIncreases(t *testing.T) {
	c := &Client{}
	previous := c.nonce()
	for i := 0; i < 1000; i += 1 {
		n := c.nonce()
		assert.True(t, n > previous, "nonce: %d not above: %d", n, previous)
		previous = n
	}
}

func TestSaleFlow(t *testing.T) {
	client, services, done := newTestClient(t, false, nil)
	defer done()

	seller := fixtures.NewKey()
	buyer := fixtures.NewKey()
	registry := services.Registry.Account()

	info, err := client.GetInfo()
	if nil != err {
		t.Fatalf("info error: %s", err)
	}
	assert.Equal(t, "local", info.Chain, "wrong chain")
	assert.True(t, registry.Equal(info.Registry), "wrong registry")

	balance, err := client.Deposit(buyer, 500)
	assert.Nil(t, err, "deposit")
	assert.Equal(t, uint64(500), balance.Balance, "deposit balance")

	minted, err := client.Mint(seller, fixtures.Contract, seller.Account(), 7)
	assert.Nil(t, err, "mint")
	assert.True(t, seller.Account().Equal(minted.Owner), "mint owner")

	err = client.Approve(seller, fixtures.Contract, registry, 7)
	assert.Nil(t, err, "approve")

	sold, err := client.Sell(&SellData{
		Seller:   seller,
		Contract: fixtures.Contract,
		AssetId:  7,
		Price:    300,
	})
	if nil != err {
		t.Fatalf("sell error: %s", err)
	}
	assert.Equal(t, uint64(0), sold.Listing.Id, "first listing id")
	assert.Equal(t, listing.Listed, sold.Listing.Status, "listed")

	got, err := client.GetListing(0)
	assert.Nil(t, err, "get")
	assert.Equal(t, uint64(300), got.Listing.Price, "price")

	owner, err := client.Owner(fixtures.Contract, 7)
	assert.Nil(t, err, "owner in escrow")
	assert.True(t, registry.Equal(owner.Owner), "escrow owner")

	_, err = client.Buy(buyer, 0, 299)
	assert.EqualError(t, err, fault.PaymentMismatch.Error(), "under payment")

	bought, err := client.Buy(buyer, 0, 300)
	assert.Nil(t, err, "buy")
	assert.Equal(t, listing.Bought, bought.Listing.Status, "bought")

	owner, err = client.Owner(fixtures.Contract, 7)
	assert.Nil(t, err, "owner after sale")
	assert.True(t, buyer.Account().Equal(owner.Owner), "buyer owns asset")

	balance, err = client.Balance(seller.Account())
	assert.Nil(t, err, "seller balance")
	assert.Equal(t, uint64(300), balance.Balance, "seller paid")

	balance, err = client.Balance(buyer.Account())
	assert.Nil(t, err, "buyer balance")
	assert.Equal(t, uint64(200), balance.Balance, "buyer charged")

	_, err = client.Cancel(seller, 0)
	assert.EqualError(t, err, fault.ListingNotActive.Error(), "cancel resolved listing")

	events, err := client.GetEvents(0, 10)
	assert.Nil(t, err, "events")
	assert.Equal(t, 2, len(events.Events), "event count")
	assert.Equal(t, uint64(2), events.Next, "next sequence")
	assert.Equal(t, listing.Listed, events.Events[0].Status, "first event")
	assert.Equal(t, listing.Bought, events.Events[1].Status, "second event")
}

func TestCancelAndOperator(t *testing.T) {
	client, services, done := newTestClient(t, false, nil)
	defer done()

	seller := fixtures.NewKey()
	registry := services.Registry.Account()

	_, err := client.Mint(seller, fixtures.Contract, seller.Account(), 1)
	assert.Nil(t, err, "mint")

	err = client.SetApprovalForAll(seller, fixtures.Contract, registry, true)
	assert.Nil(t, err, "operator")

	_, err = client.Sell(&SellData{
		Seller:   seller,
		Contract: fixtures.Contract,
		AssetId:  1,
		Price:    0,
	})
	assert.Nil(t, err, "sell for zero")

	_, err = client.Cancel(fixtures.NewKey(), 0)
	assert.EqualError(t, err, fault.MustOwnListingToCancel.Error(), "not seller")

	cancelled, err := client.Cancel(seller, 0)
	assert.Nil(t, err, "cancel")
	assert.Equal(t, listing.Cancelled, cancelled.Listing.Status, "cancelled")

	got, err := client.GetListing(0)
	assert.Nil(t, err, "get tombstone")
	assert.False(t, got.Listing.IsActive(), "tombstone is inactive")

	owner, err := client.Owner(fixtures.Contract, 1)
	assert.Nil(t, err, "owner")
	assert.True(t, seller.Account().Equal(owner.Owner), "asset returned")
}

func TestVerbose(t *testing.T) {
	var b bytes.Buffer
	client, _, done := newTestClient(t, true, &b)
	defer done()

	_, err := client.GetInfo()
	assert.Nil(t, err, "info")
	assert.Contains(t, b.String(), "Node.Info request:", "request shown")
	assert.Contains(t, b.String(), "Node.Info reply:", "reply shown")
}

func TestBalanceWrongNetwork(t *testing.T) {
	client, _, done := newTestClient(t, false, nil)
	defer done()

	key := fixtures.NewKey()

	client.testnet = false
	_, err := client.Balance(key.Account())
	assert.Equal(t, fault.WrongNetworkForPublicKey, err, "test account on live client")

	_, err = client.Deposit(key, 10)
	assert.Equal(t, fault.NotAvailableOnLiveChain, err, "deposit on live")
}
