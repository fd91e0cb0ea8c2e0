// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/command/escrow-cli/configuration"
)

func runSetup(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name, err := checkName(c.GlobalString("identity"))
	if nil != err {
		return err
	}

	connect, err := checkConnect(c.String("connect"))
	if nil != err {
		return err
	}

	description, err := checkDescription(c.String("description"))
	if nil != err {
		return err
	}

	privateKey := c.String("privateKey")
	key, err := checkKeySource(privateKey, "" == privateKey, "", m.testnet)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "config: %s\n", m.file)
		fmt.Fprintf(m.e, "testnet: %t\n", m.testnet)
		fmt.Fprintf(m.e, "connect: %s\n", connect)
		fmt.Fprintf(m.e, "identity: %s\n", name)
		fmt.Fprintf(m.e, "description: %s\n", description)
	}

	// create the folder hierarchy for configuration if not existing
	configDir := path.Dir(m.file)
	d, err := checkFileExists(configDir)
	if nil != err {
		if err := os.MkdirAll(configDir, 0o750); nil != err {
			return err
		}
	} else if !d {
		return ErrNotADirectory
	}

	config := configuration.New(connect, m.testnet)

	password := c.GlobalString("password")
	if "" == password {
		password, err = promptNewPassword()
		if nil != err {
			return err
		}
	}

	err = config.AddIdentity(name, description, key, password)
	if nil != err {
		return err
	}

	m.config = config
	m.save = true

	printJson(m.w, identityAccount(name, key))

	return nil
}

type identityResult struct {
	Name    string           `json:"name"`
	Account *account.Account `json:"account"`
}

func identityAccount(name string, key *account.PrivateKey) *identityResult {
	return &identityResult{
		Name:    name,
		Account: key.Account(),
	}
}
