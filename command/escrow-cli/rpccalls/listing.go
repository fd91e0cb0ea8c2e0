// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	rpclisting "github.com/bitmark-inc/escrowd/rpc/listing"
)

// SellData - arguments for a new listing
type SellData struct {
	Seller   *account.PrivateKey
	Contract custody.ContractId
	AssetId  uint64
	Price    uint64
}

// Sell - put an approved asset into escrow at a fixed price
func (client *Client) Sell(data *SellData) (*rpclisting.Reply, error) {
	arguments := rpclisting.SellArguments{
		Contract: data.Contract,
		AssetId:  data.AssetId,
		Price:    data.Price,
	}
	arguments.Sign(data.Seller, client.nonce(), rpclisting.SellMethod, rpclisting.SellFields(&arguments)...)

	var reply rpclisting.Reply
	if err := client.call(rpclisting.SellMethod, &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Buy - pay exactly the price of an active listing
func (client *Client) Buy(buyer *account.PrivateKey, id uint64, payment uint64) (*rpclisting.Reply, error) {
	arguments := rpclisting.BuyArguments{
		Id:      id,
		Payment: payment,
	}
	arguments.Sign(buyer, client.nonce(), rpclisting.BuyMethod, rpclisting.BuyFields(&arguments)...)

	var reply rpclisting.Reply
	if err := client.call(rpclisting.BuyMethod, &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Cancel - return the asset of an active listing to its seller
func (client *Client) Cancel(seller *account.PrivateKey, id uint64) (*rpclisting.Reply, error) {
	arguments := rpclisting.CancelArguments{
		Id: id,
	}
	arguments.Sign(seller, client.nonce(), rpclisting.CancelMethod, rpclisting.CancelFields(&arguments)...)

	var reply rpclisting.Reply
	if err := client.call(rpclisting.CancelMethod, &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// GetListing - read one listing
func (client *Client) GetListing(id uint64) (*rpclisting.Reply, error) {
	arguments := rpclisting.GetArguments{
		Id: id,
	}

	var reply rpclisting.Reply
	if err := client.call("Listing.Get", &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// GetEvents - read part of the event log
func (client *Client) GetEvents(start uint64, count int) (*rpclisting.EventsReply, error) {
	arguments := rpclisting.EventsArguments{
		Start: start,
		Count: count,
	}

	var reply rpclisting.EventsReply
	if err := client.call("Listing.Events", &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
