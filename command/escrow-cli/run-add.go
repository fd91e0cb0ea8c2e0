// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func runAdd(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	name, err := checkName(c.GlobalString("identity"))
	if nil != err {
		return err
	}

	description, err := checkDescription(c.String("description"))
	if nil != err {
		return err
	}

	acc := c.String("account")
	key, err := checkKeySource(c.String("privateKey"), c.Bool("new"), acc, m.testnet)
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "identity: %s\n", name)
		fmt.Fprintf(m.e, "description: %s\n", description)
	}

	if nil == key {
		err = m.config.AddReceiveOnlyIdentity(name, description, acc)
		if nil != err {
			return err
		}
		m.save = true
		return nil
	}

	password := c.GlobalString("password")
	if "" == password {
		password, err = promptNewPassword()
		if nil != err {
			return err
		}
	}

	err = m.config.AddIdentity(name, description, key, password)
	if nil != err {
		return err
	}
	m.save = true

	printJson(m.w, identityAccount(name, key))

	return nil
}
