// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/command/escrow-cli/configuration"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/fault"
)

var (
	ErrInvalidNetwork        = fault.InvalidError("network can only be live/testing/local")
	ErrInvalidNumber         = fault.InvalidError("value must be a positive decimal number")
	ErrKeySelection          = fault.InvalidError("select exactly one of private key, new or account")
	ErrRequiredAmount        = fault.InvalidError("amount is required")
	ErrRequiredAsset         = fault.InvalidError("asset id is required")
	ErrRequiredConnect       = fault.InvalidError("connect is required")
	ErrRequiredContract      = fault.InvalidError("contract is required")
	ErrRequiredDescription   = fault.InvalidError("description is required")
	ErrRequiredIdentity      = fault.InvalidError("identity is required")
	ErrRequiredListing       = fault.InvalidError("listing id is required")
	ErrRequiredPrice         = fault.InvalidError("price is required")
	ErrReceiveOnlyIdentity   = fault.InvalidError("identity has no private key")
	ErrNotADirectory         = fault.InvalidError("not a directory")
	ErrInvalidPasswordLength = fault.InvalidError("password must be at least 8 characters")
	ErrPasswordMismatch      = fault.InvalidError("passwords do not match")
)

// map network aliases to the configuration file prefix
func checkNetwork(network string) (string, error) {
	switch network {
	case "live", "bitmark":
		return "live", nil
	case "testing", "test":
		return "testing", nil
	case "local", "regression":
		return "local", nil
	default:
		return "", ErrInvalidNetwork
	}
}

// check if file exists, and whether it is a directory
func checkFileExists(name string) (bool, error) {
	s, err := os.Stat(name)
	if nil != err {
		return false, err
	}
	return s.IsDir(), nil
}

// identity is required, but not checked against the config file
func checkName(name string) (string, error) {
	if "" == name {
		return "", ErrRequiredIdentity
	}
	return name, nil
}

// connect is required
func checkConnect(connect string) (string, error) {
	if "" == connect {
		return "", ErrRequiredConnect
	}
	return connect, nil
}

// description is required
func checkDescription(description string) (string, error) {
	if "" == description {
		return "", ErrRequiredDescription
	}
	return description, nil
}

func checkContract(contract string) (custody.ContractId, error) {
	if "" == contract {
		return "", ErrRequiredContract
	}
	if len(contract) > custody.MaximumIdLength {
		return "", fault.ContractNameTooLong
	}
	return custody.ContractId(contract), nil
}

// a required unsigned decimal value
func checkNumber(value string, missing error) (uint64, error) {
	if "" == value {
		return 0, missing
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if nil != err {
		return 0, ErrInvalidNumber
	}
	return n, nil
}

// private key for a new identity: exactly one source must be given
//
// returns nil private key for a receive only account
func checkKeySource(privateKey string, generate bool, acc string, testnet bool) (*account.PrivateKey, error) {
	count := 0
	if "" != privateKey {
		count += 1
	}
	if generate {
		count += 1
	}
	if "" != acc {
		count += 1
	}
	if 1 != count {
		return nil, ErrKeySelection
	}

	switch {
	case generate:
		return account.NewPrivateKey(testnet)

	case "" != privateKey:
		key, err := account.PrivateKeyFromBase58(privateKey)
		if nil != err {
			return nil, err
		}
		if key.IsTesting() != testnet {
			return nil, fault.WrongNetworkForPublicKey
		}
		return key, nil

	default:
		return nil, nil
	}
}

// resolve an identity name or a base58 account
//
// blank selects the default value, which may itself be blank
func checkRecipient(value string, defaultValue string, config *configuration.Configuration) (*account.Account, error) {
	if "" == value {
		value = defaultValue
	}
	if "" == value {
		return nil, ErrRequiredIdentity
	}

	if a, err := config.Account(value); nil == err {
		return a, nil
	}

	a, err := account.AccountFromBase58(value)
	if nil != err {
		return nil, err
	}
	if a.IsTesting() != config.TestNet {
		return nil, fault.WrongNetworkForPublicKey
	}
	return a, nil
}

// the signing identity: global identity flag or the default
func checkSigner(c *cli.Context, config *configuration.Configuration) (string, *account.PrivateKey, error) {
	name := c.GlobalString("identity")
	if "" == name {
		name = config.DefaultIdentity
	}
	name, err := checkName(name)
	if nil != err {
		return "", nil, err
	}

	id, err := config.Identity(name)
	if nil != err {
		return "", nil, err
	}
	if "" == id.Salt {
		return "", nil, ErrReceiveOnlyIdentity
	}

	password := c.GlobalString("password")
	if "" == password {
		password, err = promptCheckPassword()
		if nil != err {
			return "", nil, err
		}
	}

	private, err := config.Private(password, name)
	if nil != err {
		return "", nil, err
	}
	return name, private.PrivateKey, nil
}
