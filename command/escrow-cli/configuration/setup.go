// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - the escrow-cli identity file
//
// each identity holds a plain account and the private key encrypted
// with a key derived from a password by argon2
package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
)

// Configuration - configuration file data format
type Configuration struct {
	DefaultIdentity string              `json:"default_identity"`
	TestNet         bool                `json:"testnet"`
	Connect         string              `json:"connect"`
	Identities      map[string]Identity `json:"identities"`
}

// Identity - mix of plain and encrypted data
type Identity struct {
	Description string `json:"description"`
	Account     string `json:"account"`
	Data        string `json:"data"`
	Salt        string `json:"salt"`
}

// New - an empty configuration
func New(connect string, testnet bool) *Configuration {
	return &Configuration{
		TestNet:    testnet,
		Connect:    connect,
		Identities: make(map[string]Identity),
	}
}

// Load - read the configuration
func Load(filename string) (*Configuration, error) {

	filename, err := filepath.Abs(filepath.Clean(filename))
	if nil != err {
		return nil, err
	}

	f, err := os.Open(filename)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	options := &Configuration{}
	if err := json.NewDecoder(f).Decode(options); nil != err {
		return nil, err
	}
	if nil == options.Identities {
		options.Identities = make(map[string]Identity)
	}
	return options, nil
}

// Save - write the configuration keeping the previous file as a backup
func Save(filename string, configuration *Configuration) error {

	tempFile := filename + ".new"
	previousFile := filename + ".bk"

	_ = os.Remove(tempFile)

	b, err := json.MarshalIndent(configuration, "", "  ")
	if nil != err {
		return err
	}

	file, err := os.OpenFile(tempFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if nil != err {
		return err
	}
	_, err = file.Write(append(b, '\n'))
	if closeErr := file.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		_ = os.Remove(tempFile)
		return err
	}

	err = os.Remove(previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	err = os.Rename(filename, previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tempFile, filename)
}

// Names - sorted identity names
func (config *Configuration) Names() []string {
	names := make([]string, 0, len(config.Identities))
	for name := range config.Identities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Identity - find identity for a given name
func (config *Configuration) Identity(name string) (*Identity, error) {
	id, ok := config.Identities[name]
	if !ok {
		return nil, fault.IdentityNameNotFound
	}

	return &id, nil
}

// Account - find identity for a given name and convert to an account
func (config *Configuration) Account(name string) (*account.Account, error) {
	id, err := config.Identity(name)
	if nil != err {
		return nil, err
	}

	return account.AccountFromBase58(id.Account)
}

// Private - find identity decrypt all data for a given name
func (config *Configuration) Private(password string, name string) (*Private, error) {
	id, err := config.Identity(name)
	if nil != err {
		return nil, err
	}

	return decryptIdentity(password, id)
}

// AddIdentity - store encrypted identity
//
// the first identity added becomes the default
func (config *Configuration) AddIdentity(name string, description string, privateKey *account.PrivateKey, password string) error {

	if _, ok := config.Identities[name]; ok {
		return fault.IdentityNameAlreadyExists
	}
	if privateKey.IsTesting() != config.TestNet {
		return fault.WrongNetworkForPublicKey
	}

	salt, secretKey, err := hashPassword(password)
	if nil != err {
		return err
	}

	encrypted, err := encryptData(privateKey.String(), secretKey)
	if nil != err {
		return err
	}

	config.Identities[name] = Identity{
		Description: description,
		Account:     privateKey.Account().String(),
		Data:        encrypted,
		Salt:        salt.String(),
	}
	if "" == config.DefaultIdentity {
		config.DefaultIdentity = name
	}

	return nil
}

// AddReceiveOnlyIdentity - store public-only identity
func (config *Configuration) AddReceiveOnlyIdentity(name string, description string, acc string) error {

	if _, ok := config.Identities[name]; ok {
		return fault.IdentityNameAlreadyExists
	}

	a, err := account.AccountFromBase58(acc)
	if nil != err {
		return err
	}
	if a.IsTesting() != config.TestNet {
		return fault.WrongNetworkForPublicKey
	}

	config.Identities[name] = Identity{
		Description: description,
		Account:     acc,
	}

	return nil
}
