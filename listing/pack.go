// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listing

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

// Packed - packed records are just a byte slice
type Packed []byte

// Pack - turn a listing into its binary form
//
//   status ++ id ++ contract ++ asset id ++ seller ++ buyer ++ price
//
// integers are varints, contract and accounts are length prefixed
// with an empty field for an absent account
func (l *Listing) Pack() Packed {
	buffer := util.ToVarint64(uint64(l.Status))
	buffer = util.AppendVarint64(buffer, l.Id)
	buffer = util.AppendBytes(buffer, []byte(l.AssetContract))
	buffer = util.AppendVarint64(buffer, l.AssetId)
	buffer = util.AppendBytes(buffer, accountBytes(l.Seller))
	buffer = util.AppendBytes(buffer, accountBytes(l.Buyer))
	buffer = util.AppendVarint64(buffer, l.Price)
	return buffer
}

// Unpack - turn a binary form back into a listing
func (record Packed) Unpack() (*Listing, error) {
	l, n, err := unpackListing(record)
	if nil != err {
		return nil, err
	}
	if n != len(record) {
		return nil, fault.InvalidCount
	}
	return l, nil
}

// Pack - sequence ++ packed listing snapshot
func (e *Event) Pack() Packed {
	l := Listing{
		Id:            e.ListingId,
		AssetContract: e.AssetContract,
		AssetId:       e.AssetId,
		Seller:        e.Seller,
		Buyer:         e.Buyer,
		Price:         e.Price,
		Status:        e.Status,
	}
	buffer := util.ToVarint64(e.Sequence)
	return append(buffer, l.Pack()...)
}

// UnpackEvent - turn a binary form back into an event
func (record Packed) UnpackEvent() (*Event, error) {
	sequence, n := util.FromVarint64(record)
	if 0 == n {
		return nil, fault.InvalidCount
	}
	l, err := record[n:].Unpack()
	if nil != err {
		return nil, err
	}
	e := l.Event(sequence)
	return &e, nil
}

func unpackListing(record Packed) (*Listing, int, error) {
	n := 0

	status, statusLength := util.ClippedVarint64(record[n:], 0, int(maximum)-1)
	if 0 == statusLength {
		return nil, 0, fault.InvalidItem
	}
	n += statusLength

	id, idLength := util.FromVarint64(record[n:])
	if 0 == idLength {
		return nil, 0, fault.InvalidCount
	}
	n += idLength

	contract, contractLength := util.ExtractBytes(record[n:], custody.MaximumIdLength)
	if 0 == contractLength {
		return nil, 0, fault.InvalidCount
	}
	n += contractLength

	assetId, assetIdLength := util.FromVarint64(record[n:])
	if 0 == assetIdLength {
		return nil, 0, fault.InvalidCount
	}
	n += assetIdLength

	seller, sellerLength, err := extractAccount(record[n:])
	if nil != err {
		return nil, 0, err
	}
	n += sellerLength

	buyer, buyerLength, err := extractAccount(record[n:])
	if nil != err {
		return nil, 0, err
	}
	n += buyerLength

	price, priceLength := util.FromVarint64(record[n:])
	if 0 == priceLength {
		return nil, 0, fault.InvalidCount
	}
	n += priceLength

	l := &Listing{
		Id:            id,
		AssetContract: custody.ContractId(contract),
		AssetId:       assetId,
		Seller:        seller,
		Buyer:         buyer,
		Price:         price,
		Status:        Status(status),
	}
	return l, n, nil
}

func accountBytes(acct *account.Account) []byte {
	if acct.IsZero() {
		return nil
	}
	return acct.Bytes()
}

func extractAccount(buffer []byte) (*account.Account, int, error) {
	data, n := util.ExtractBytes(buffer, account.MaximumBytes)
	if 0 == n {
		return nil, 0, fault.InvalidCount
	}
	if 0 == len(data) {
		return nil, n, nil
	}
	acct, err := account.AccountFromBytes(data)
	if nil != err {
		return nil, 0, err
	}
	return acct, n, nil
}
