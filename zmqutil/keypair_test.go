// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/zmqutil"
)

const (
	publicText  = "PUBLIC:a0dd8e3d2c38da1ad4db0d2316e82a9fe2e78aa9fb0f6b2d4e4e3a6bdf5f2a16\n"
	privateText = "PRIVATE:3c2b2b0ad7c4eb1c7a0a4a6fd41d2f4c1d6f2e4cb3ab9e1bb52f16e1e05ccf0b\n"
)

func TestParseKey(t *testing.T) {
	public, err := zmqutil.ReadPublicKey(publicText)
	assert.Nil(t, err, "public")
	assert.Equal(t, 32, len(public), "public length")

	private, err := zmqutil.ReadPrivateKey(privateText)
	assert.Nil(t, err, "private")
	assert.Equal(t, 32, len(private), "private length")

	_, err = zmqutil.ReadPublicKey(privateText)
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "private as public")

	_, err = zmqutil.ReadPrivateKey(publicText)
	assert.Equal(t, fault.InvalidPrivateKeyFile, err, "public as private")

	_, err = zmqutil.ReadPublicKey("PUBLIC:abcd")
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "short key")

	_, err = zmqutil.ReadPublicKey("SECRET:abcd")
	assert.Equal(t, fault.InvalidPublicKeyFile, err, "untagged")

	_, err = zmqutil.ReadPrivateKey("PRIVATE:xyz")
	assert.NotNil(t, err, "bad hex")
}

func TestMakeKeyPair(t *testing.T) {
	dir, err := ioutil.TempDir("", "zmqutil-test")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(dir)

	publicFile := filepath.Join(dir, "test.public")
	privateFile := filepath.Join(dir, "test.private")

	err = zmqutil.MakeKeyPair(publicFile, privateFile)
	assert.Nil(t, err, "make key pair")

	public, err := zmqutil.ReadPublicKeyFile(publicFile)
	assert.Nil(t, err, "read public")
	assert.Equal(t, 32, len(public), "public length")

	private, err := zmqutil.ReadPrivateKeyFile(privateFile)
	assert.Nil(t, err, "read private")
	assert.Equal(t, 32, len(private), "private length")

	data, _ := ioutil.ReadFile(publicFile)
	assert.True(t, strings.HasPrefix(string(data), "PUBLIC:"), "tagged")

	err = zmqutil.MakeKeyPair(publicFile, privateFile)
	assert.Equal(t, fault.KeyFileAlreadyExists, err, "no overwrite")
}
