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

func runBalance(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := checkRecipient(c.String("owner"), m.config.DefaultIdentity, m.config)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "owner: %s\n", owner)
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Balance(owner)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}

func runDeposit(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	amount, err := checkNumber(c.String("amount"), ErrRequiredAmount)
	if nil != err {
		return err
	}

	name, owner, err := checkSigner(c, m.config)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "owner: %s\n", name)
		fmt.Fprintf(m.e, "amount: %d\n", amount)
	}

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	response, err := client.Deposit(owner, amount)
	if nil != err {
		return err
	}

	printJson(m.w, response)
	return nil
}
