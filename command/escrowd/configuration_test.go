// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/custody"
)

const minimalConfiguration = `
local M = {}

M.data_directory = "."
M.chain = chain_name
M.contracts = {
    { name = "art" },
}

M.client_rpc = {
    maximum_connections = 50,
    listen = { "127.0.0.1:2130" },
}

M.https_rpc = {
    listen = { "127.0.0.1:2131" },
    allow = {
        listing = { "127.0.0.0/8" },
    },
}

M.publishing = {
    broadcast = { "127.0.0.1:2135" },
}

M.logging = {
    size = 4096,
    count = 5,
    levels = {
        DEFAULT = "info",
    },
}

return M
`

func writeConfiguration(t *testing.T, script string) (string, string) {
	dir, err := ioutil.TempDir("", "escrowd-configuration")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	fileName := filepath.Join(dir, "escrowd.conf")
	if err := ioutil.WriteFile(fileName, []byte(script), 0600); nil != err {
		os.RemoveAll(dir)
		t.Fatalf("write error: %s", err)
	}
	dir, err = filepath.EvalSymlinks(dir)
	if nil != err {
		t.Fatalf("symlink error: %s", err)
	}
	return dir, filepath.Join(dir, "escrowd.conf")
}

func TestGetConfiguration(t *testing.T) {
	dir, fileName := writeConfiguration(t, minimalConfiguration)
	defer os.RemoveAll(dir)

	c, err := getConfiguration(fileName, map[string]string{
		"chain_name": "Local",
	})
	if nil != err {
		t.Fatalf("configuration error: %s", err)
	}

	assert.Equal(t, dir+"/", c.DataDirectory, "wrong data directory")
	assert.Equal(t, chain.Local, c.Chain, "chain not lower cased")
	assert.Equal(t, defaultRegistryName, c.Registry, "wrong registry")
	assert.Equal(t, []ContractType{{Name: "art"}}, c.Contracts, "wrong contracts")

	assert.Equal(t, filepath.Join(dir, defaultLevelDBDirectory), c.Database.Directory, "wrong database directory")
	assert.Equal(t, filepath.Join(dir, defaultLevelDBDirectory, chain.Local), c.Database.Name, "wrong database name")

	assert.Equal(t, uint64(50), c.ClientRPC.MaximumConnections, "wrong rpc connections")
	assert.Equal(t, []string{"127.0.0.1:2130"}, c.ClientRPC.Listen, "wrong rpc listen")
	assert.Equal(t, filepath.Join(dir, defaultCertificateFile), c.ClientRPC.Certificate, "wrong rpc certificate")
	assert.Equal(t, filepath.Join(dir, defaultKeyFile), c.ClientRPC.PrivateKey, "wrong rpc key")

	assert.Equal(t, uint64(defaultRPCClients), c.HttpsRPC.MaximumConnections, "wrong https default connections")
	assert.Equal(t, []string{"127.0.0.0/8"}, c.HttpsRPC.Allow["listing"], "wrong allow")

	assert.Equal(t, filepath.Join(dir, defaultPublisherPrivateKeyFile), c.Publishing.PrivateKey, "wrong publisher key")

	assert.Equal(t, filepath.Join(dir, defaultLogDirectory), c.Logging.Directory, "wrong log directory")
	assert.Equal(t, defaultLogFile, c.Logging.File, "wrong log file")
	assert.Equal(t, 5, c.Logging.Count, "wrong log count")
	assert.Equal(t, "info", c.Logging.Levels["DEFAULT"], "wrong log level")

	_, err = os.Stat(c.Database.Directory)
	assert.Nil(t, err, "database directory not created")
	_, err = os.Stat(c.Logging.Directory)
	assert.Nil(t, err, "log directory not created")
}

func TestGetConfigurationErrors(t *testing.T) {
	dir, fileName := writeConfiguration(t, minimalConfiguration)
	defer os.RemoveAll(dir)

	_, err := getConfiguration(fileName, map[string]string{
		"chain_name": "nowhere",
	})
	assert.NotNil(t, err, "bad chain")

	_, err = getConfiguration(filepath.Join(dir, "missing.conf"), nil)
	assert.NotNil(t, err, "missing file")

	longName := strings.Repeat("x", custody.MaximumIdLength+1)

	for _, script := range []string{
		"return { chain = \"local\", contracts = { { name = \"art\" } } }",
		"return { data_directory = \".\", chain = \"local\" }",
		"return { data_directory = \".\", chain = \"local\", contracts = { { name = \"art\" }, { name = \"art\" } } }",
		"return { data_directory = \".\", chain = \"local\", contracts = { { name = \"" + longName + "\" } } }",
		"return { data_directory = \".\", chain = \"local\", registry = \" \", contracts = { { name = \"art\" } } }",
		"return { data_directory = \"/no/such/directory\", chain = \"local\", contracts = { { name = \"art\" } } }",
		"return { data_directory = \".\", chain = \"local\", contracts = { { name = \"art\" } }, logging = { file = \"x/y.log\" } }",
	} {
		d, f := writeConfiguration(t, script)
		_, err := getConfiguration(f, nil)
		assert.NotNil(t, err, "script: %s", script)
		os.RemoveAll(d)
	}
}
