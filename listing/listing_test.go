// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/listing"
)

func mustAccount(s string) *account.Account {
	a, err := account.AccountFromBase58(s)
	if nil != err {
		panic(err)
	}
	return a
}

var (
	seller = mustAccount("eopaSeB7uiSVMdAmTrijq3W2MCWA5KHZrZvm5QLFGRVd3oWNe2")
	buyer  = mustAccount("fUjtNvmUJn7yJ7PVP7NT2FZbKDrudFxLVBHkwLJFgKWmGsPNVi")
)

func TestPackListing(t *testing.T) {
	items := []listing.Listing{
		{
			Id:            0,
			AssetContract: "art",
			AssetId:       42,
			Seller:        seller,
			Price:         1000,
			Status:        listing.Listed,
		},
		{
			Id:            1 << 40,
			AssetContract: "deeds",
			AssetId:       0,
			Seller:        seller,
			Buyer:         buyer,
			Price:         0,
			Status:        listing.Bought,
		},
		{
			Status: listing.None,
		},
	}

	for i, item := range items {
		packed := item.Pack()
		unpacked, err := packed.Unpack()
		if !assert.Nil(t, err, "%d: unpack", i) {
			continue
		}
		assert.Equal(t, item.Id, unpacked.Id, "%d: id", i)
		assert.Equal(t, item.AssetContract, unpacked.AssetContract, "%d: contract", i)
		assert.Equal(t, item.AssetId, unpacked.AssetId, "%d: asset id", i)
		assert.True(t, item.Seller.Equal(unpacked.Seller), "%d: seller", i)
		assert.True(t, item.Buyer.Equal(unpacked.Buyer), "%d: buyer", i)
		assert.Equal(t, item.Price, unpacked.Price, "%d: price", i)
		assert.Equal(t, item.Status, unpacked.Status, "%d: status", i)
	}
}

func TestUnpackErrors(t *testing.T) {
	l := listing.Listing{
		Id:            3,
		AssetContract: "art",
		AssetId:       9,
		Seller:        seller,
		Price:         10,
		Status:        listing.Listed,
	}
	packed := l.Pack()

	_, err := listing.Packed{}.Unpack()
	assert.Equal(t, fault.InvalidItem, err, "empty")

	_, err = listing.Packed{0x09}.Unpack()
	assert.Equal(t, fault.InvalidItem, err, "bad status")

	_, err = packed[:len(packed)-1].Unpack()
	assert.NotNil(t, err, "truncated")

	_, err = append(packed, 0x00).Unpack()
	assert.Equal(t, fault.InvalidCount, err, "trailing data")
}

func TestPackEvent(t *testing.T) {
	l := listing.Listing{
		Id:            5,
		AssetContract: "art",
		AssetId:       7,
		Seller:        seller,
		Buyer:         buyer,
		Price:         99,
		Status:        listing.Bought,
	}
	e := l.Event(12)

	packed := e.Pack()
	unpacked, err := packed.UnpackEvent()
	if !assert.Nil(t, err, "unpack") {
		return
	}
	assert.Equal(t, uint64(12), unpacked.Sequence, "sequence")
	assert.Equal(t, uint64(5), unpacked.ListingId, "listing id")
	assert.Equal(t, listing.Bought, unpacked.Status, "status")
	assert.True(t, buyer.Equal(unpacked.Buyer), "buyer")
	assert.True(t, seller.Equal(unpacked.Seller), "seller")
}

func TestIsActive(t *testing.T) {
	assert.True(t, (&listing.Listing{Seller: seller, Status: listing.Listed}).IsActive(), "listed")
	assert.False(t, (&listing.Listing{Seller: seller, Status: listing.Cancelled}).IsActive(), "cancelled")
	assert.False(t, (&listing.Listing{Status: listing.Listed}).IsActive(), "no seller")
	assert.False(t, (&listing.Listing{}).IsActive(), "default")
}

func TestJSON(t *testing.T) {
	l := listing.Listing{
		Id:            1,
		AssetContract: "art",
		AssetId:       2,
		Seller:        seller,
		Price:         3,
		Status:        listing.Listed,
	}

	b, err := json.Marshal(l)
	assert.Nil(t, err, "marshal")
	assert.Equal(t, `{"id":"1","assetContract":"art","assetId":"2","seller":"eopaSeB7uiSVMdAmTrijq3W2MCWA5KHZrZvm5QLFGRVd3oWNe2","buyer":null,"price":"3","status":"Listed"}`, string(b), "json")

	var decoded listing.Listing
	assert.Nil(t, json.Unmarshal(b, &decoded), "unmarshal")
	assert.Equal(t, listing.Listed, decoded.Status, "status")
	assert.True(t, seller.Equal(decoded.Seller), "seller")
	assert.Nil(t, decoded.Buyer, "buyer")

	var s listing.Status
	assert.Equal(t, fault.InvalidItem, s.UnmarshalText([]byte("Sold")), "unknown status")
}
