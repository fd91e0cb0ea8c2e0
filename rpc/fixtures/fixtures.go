// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared set up for the RPC tests
package fixtures

import (
	"io/ioutil"
	"os"
	"sync"
	"time"

	"github.com/bitmark-inc/certgen"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/counter"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/escrow"
	"github.com/bitmark-inc/escrowd/funds"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/messagebus"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/server"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/token"
	"github.com/bitmark-inc/logger"
)

// logger channel used by the tests
const LogCategory = "testing"

// Contract - the asset contract registered by NewServices
const Contract = custody.ContractId("art")

var testingDirName string

// generated once, certificate generation is slow
var certificatePair struct {
	sync.Once
	certificate string
	key         string
}

// SetupTestLogger - start the logger in a temporary directory
func SetupTestLogger() {
	dir, err := ioutil.TempDir("", "rpc-test")
	if nil != err {
		panic(err)
	}
	testingDirName = dir

	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
}

// TeardownTestLogger - stop the logger and remove its directory
func TeardownTestLogger() {
	logger.Finalise()
	os.RemoveAll(testingDirName)
}

// NewServices - a complete in-memory registry on the local chain
//
// call Close on the store when done
func NewServices() (*server.Services, *storage.Store, error) {
	store, err := storage.OpenMemory()
	if nil != err {
		return nil, nil, err
	}

	log := logger.New(LogCategory)

	m, err := mode.New(log, chain.Local)
	if nil != err {
		store.Close()
		return nil, nil, err
	}
	m.Set(mode.Normal)

	l := ledger.New(log, store)
	f := funds.New(log, l)

	art := token.New(log, l, Contract, nil, true)
	providers := custody.NewProviders()
	if err := providers.Register(Contract, art); nil != err {
		store.Close()
		return nil, nil, err
	}

	bus := messagebus.New()
	registry := escrow.New(log, l, f, providers, escrow.RegistryAccount("test", true), bus)

	services := &server.Services{
		Mode:      m,
		Ledger:    l,
		Funds:     f,
		Registry:  registry,
		Tokens:    []*token.Token{art},
		Bus:       bus,
		Start:     time.Now(),
		Version:   "1.0",
		Count:     new(counter.Counter),
		PublicKey: []byte{},
	}
	return services, store, nil
}

// NewKey - a fresh testing private key
func NewKey() *account.PrivateKey {
	privateKey, err := account.NewPrivateKey(true)
	if nil != err {
		panic(err)
	}
	return privateKey
}

// CertificatePair - a self signed PEM certificate and key for localhost
func CertificatePair() (string, string) {
	certificatePair.Do(func() {
		validUntil := time.Now().Add(24 * time.Hour)
		certificate, key, err := certgen.NewTLSCertPair("escrowd test certificate", validUntil, false, []string{"127.0.0.1", "localhost"})
		if nil != err {
			panic(err)
		}
		certificatePair.certificate = string(certificate)
		certificatePair.key = string(key)
	})
	return certificatePair.certificate, certificatePair.key
}
