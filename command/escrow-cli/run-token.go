// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/command/escrow-cli/rpccalls"
)

func runMint(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	contract, err := checkContract(c.String("contract"))
	if nil != err {
		return err
	}
	assetId, err := checkNumber(c.String("asset"), ErrRequiredAsset)
	if nil != err {
		return err
	}

	name, minter, err := checkSigner(c, m.config)
	if nil != err {
		return err
	}

	to := minter.Account()
	if "" != c.String("to") {
		to, err = checkRecipient(c.String("to"), "", m.config)
		if nil != err {
			return err
		}
	}

	if m.verbose {
		fmt.Fprintf(m.e, "minter: %s\n", name)
		fmt.Fprintf(m.e, "contract: %s\n", contract)
		fmt.Fprintf(m.e, "asset: %d\n", assetId)
		fmt.Fprintf(m.e, "to: %s\n", to)
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Mint(minter, contract, to, assetId)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runApprove(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	contract, err := checkContract(c.String("contract"))
	if nil != err {
		return err
	}
	assetId, err := checkNumber(c.String("asset"), ErrRequiredAsset)
	if nil != err {
		return err
	}

	name, owner, err := checkSigner(c, m.config)
	if nil != err {
		return err
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	approved, err := approvalTarget(client, c.String("approved"), m)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "owner: %s\n", name)
		fmt.Fprintf(m.e, "contract: %s\n", contract)
		fmt.Fprintf(m.e, "asset: %d\n", assetId)
		fmt.Fprintf(m.e, "approved: %s\n", approved)
	}

	return client.Approve(owner, contract, approved, assetId)
}

func runOperator(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	contract, err := checkContract(c.String("contract"))
	if nil != err {
		return err
	}

	name, owner, err := checkSigner(c, m.config)
	if nil != err {
		return err
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	operator, err := approvalTarget(client, c.String("operator"), m)
	if nil != err {
		return err
	}
	approved := !c.Bool("revoke")

	if m.verbose {
		fmt.Fprintf(m.e, "owner: %s\n", name)
		fmt.Fprintf(m.e, "contract: %s\n", contract)
		fmt.Fprintf(m.e, "operator: %s\n", operator)
		fmt.Fprintf(m.e, "approved: %t\n", approved)
	}

	return client.SetApprovalForAll(owner, contract, operator, approved)
}

func runOwner(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	contract, err := checkContract(c.String("contract"))
	if nil != err {
		return err
	}
	assetId, err := checkNumber(c.String("asset"), ErrRequiredAsset)
	if nil != err {
		return err
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Owner(contract, assetId)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

// blank selects the registry account reported by the node
func approvalTarget(client *rpccalls.Client, value string, m *metadata) (*account.Account, error) {
	if "" == value {
		return registryAccount(client)
	}
	return checkRecipient(value, "", m.config)
}
