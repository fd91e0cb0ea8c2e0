// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/configuration"
	"github.com/bitmark-inc/escrowd/fault"
)

type contract struct {
	Name   string `gluamapper:"name"`
	Minter string `gluamapper:"minter"`
}

type testConfiguration struct {
	DataDirectory string            `gluamapper:"data_directory"`
	Chain         string            `gluamapper:"chain"`
	Registry      string            `gluamapper:"registry"`
	Contracts     []contract        `gluamapper:"contracts"`
	Listen        []string          `gluamapper:"listen"`
	Levels        map[string]string `gluamapper:"levels"`
}

const testScript = `
local M = {}

M.data_directory = arg[0]:match("(.*/)")
M.chain = "local"
M.registry = "escrow-" .. node_name

M.contracts = {
    { name = "art" },
    { name = "music", minter = "eFfU8Sj2VZh4gu3NiX4Y7KbR1wPMfEhLwkzhJG2sfeU9ySSNuX" },
}

M.listen = {
    "127.0.0.1:2130",
    "[::1]:2130",
}

M.levels = {
    DEFAULT = "info",
    escrow = "debug",
}

return M
`

func writeScript(t *testing.T, script string) (string, string) {
	dir, err := ioutil.TempDir("", "configuration")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	fileName := filepath.Join(dir, "escrowd.conf")
	if err := ioutil.WriteFile(fileName, []byte(script), 0600); nil != err {
		os.RemoveAll(dir)
		t.Fatalf("write error: %s", err)
	}
	return dir, fileName
}

func TestParseConfigurationFile(t *testing.T) {
	dir, fileName := writeScript(t, testScript)
	defer os.RemoveAll(dir)

	var c testConfiguration
	err := configuration.ParseConfigurationFile(fileName, &c, map[string]string{
		"node_name": "one",
	})
	assert.Nil(t, err, "wrong error")

	assert.Equal(t, dir+"/", c.DataDirectory, "wrong data directory")
	assert.Equal(t, "local", c.Chain, "wrong chain")
	assert.Equal(t, "escrow-one", c.Registry, "variable not set")
	assert.Equal(t, 2, len(c.Contracts), "wrong contract count")
	assert.Equal(t, "art", c.Contracts[0].Name, "wrong first contract")
	assert.Equal(t, "", c.Contracts[0].Minter, "unexpected minter")
	assert.Equal(t, "music", c.Contracts[1].Name, "wrong second contract")
	assert.NotEqual(t, "", c.Contracts[1].Minter, "missing minter")
	assert.Equal(t, []string{"127.0.0.1:2130", "[::1]:2130"}, c.Listen, "wrong listen")
	assert.Equal(t, "debug", c.Levels["escrow"], "wrong level")
}

func TestParseConfigurationFileErrors(t *testing.T) {
	dir, fileName := writeScript(t, testScript)
	defer os.RemoveAll(dir)

	var c testConfiguration
	err := configuration.ParseConfigurationFile(fileName, c, nil)
	assert.Equal(t, fault.InvalidStructPointer, err, "not a pointer")

	var s string
	err = configuration.ParseConfigurationFile(fileName, &s, nil)
	assert.Equal(t, fault.InvalidStructPointer, err, "not a struct")

	// node_name is undefined so the concatenation fails
	err = configuration.ParseConfigurationFile(fileName, &c, nil)
	assert.NotNil(t, err, "missing variable")

	err = configuration.ParseConfigurationFile(filepath.Join(dir, "missing.conf"), &c, nil)
	assert.NotNil(t, err, "missing file")

	_, noReturn := writeScript(t, "local x = 1\n")
	defer os.RemoveAll(filepath.Dir(noReturn))
	err = configuration.ParseConfigurationFile(noReturn, &c, nil)
	assert.Equal(t, fault.MissingParameters, err, "no table returned")
}
