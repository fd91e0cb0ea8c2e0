// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/command/escrow-cli/rpccalls"
)

func runSell(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	contract, err := checkContract(c.String("contract"))
	if nil != err {
		return err
	}
	assetId, err := checkNumber(c.String("asset"), ErrRequiredAsset)
	if nil != err {
		return err
	}
	price, err := checkNumber(c.String("price"), ErrRequiredPrice)
	if nil != err {
		return err
	}

	name, seller, err := checkSigner(c, m.config)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "seller: %s\n", name)
		fmt.Fprintf(m.e, "contract: %s\n", contract)
		fmt.Fprintf(m.e, "asset: %d\n", assetId)
		fmt.Fprintf(m.e, "price: %d\n", price)
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Sell(&rpccalls.SellData{
		Seller:   seller,
		Contract: contract,
		AssetId:  assetId,
		Price:    price,
	})
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runBuy(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkNumber(c.String("id"), ErrRequiredListing)
	if nil != err {
		return err
	}
	payment, err := checkNumber(c.String("payment"), ErrRequiredAmount)
	if nil != err {
		return err
	}

	name, buyer, err := checkSigner(c, m.config)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "buyer: %s\n", name)
		fmt.Fprintf(m.e, "listing: %d\n", id)
		fmt.Fprintf(m.e, "payment: %d\n", payment)
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Buy(buyer, id, payment)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runCancel(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkNumber(c.String("id"), ErrRequiredListing)
	if nil != err {
		return err
	}

	name, seller, err := checkSigner(c, m.config)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "seller: %s\n", name)
		fmt.Fprintf(m.e, "listing: %d\n", id)
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Cancel(seller, id)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runListing(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	id, err := checkNumber(c.String("id"), ErrRequiredListing)
	if nil != err {
		return err
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetListing(id)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runEvents(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	start, err := checkNumber(c.String("start"), ErrInvalidNumber)
	if nil != err {
		return err
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.GetEvents(start, c.Int("count"))
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}
