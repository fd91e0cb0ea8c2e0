// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/command/escrow-cli/rpccalls"
)

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := rpccalls.NewClient(m.testnet, m.config.Connect, m.verbose, m.e)
	if nil != err {
		return err
	}
	defer client.Close()

	info, err := client.GetInfo()
	if nil != err {
		return err
	}

	printJson(m.w, info)
	return nil
}

// the registry account is the default approval target
func registryAccount(client *rpccalls.Client) (*account.Account, error) {
	info, err := client.GetInfo()
	if nil != err {
		return nil, err
	}
	return info.Registry, nil
}
