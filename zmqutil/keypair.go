// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	publicLength  = 32
	privateLength = 32
)

// MakeKeyPair - create a new public/private keypair and write them to separate
// files
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	if util.EnsureFileExists(publicKeyFileName) {
		return fault.KeyFileAlreadyExists
	}

	if util.EnsureFileExists(privateKeyFileName) {
		return fault.KeyFileAlreadyExists
	}

	// keys are encoded in in Z85 (ZeroMQ Base-85 Encoding) see: http://rfc.zeromq.org/spec:32
	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	publicKey = taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	privateKey = taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err = ioutil.WriteFile(publicKeyFileName, []byte(publicKey), 0666); nil != err {
		return err
	}

	if err = ioutil.WriteFile(privateKeyFileName, []byte(privateKey), 0600); nil != err {
		os.Remove(publicKeyFileName)
		return err
	}

	return nil
}

// ReadPublicKeyFile - read a public key file returning it as 32 bytes
func ReadPublicKeyFile(fileName string) ([]byte, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return ReadPublicKey(string(data))
}

// ReadPrivateKeyFile - read a private key file returning it as 32 bytes
func ReadPrivateKeyFile(fileName string) ([]byte, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return ReadPrivateKey(string(data))
}

// ReadPublicKey - read a public key from a string returning it as 32 bytes
func ReadPublicKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if nil != err {
		return []byte{}, err
	}
	if private {
		return []byte{}, fault.InvalidPublicKeyFile
	}
	return data, err
}

// ReadPrivateKey - read a private key from a string returning it as 32 bytes
func ReadPrivateKey(key string) ([]byte, error) {
	data, private, err := ParseKey(key)
	if nil != err {
		return []byte{}, err
	}
	if !private {
		return []byte{}, fault.InvalidPrivateKeyFile
	}
	return data, err
}

// ParseKey - decode a tagged hex key, second result is true for a private key
func ParseKey(data string) ([]byte, bool, error) {
	s := strings.TrimSpace(data)
	if strings.HasPrefix(s, taggedPrivate) {
		h, err := hex.DecodeString(s[len(taggedPrivate):])
		if nil != err {
			return []byte{}, false, err
		}
		if len(h) != privateLength {
			return []byte{}, false, fault.InvalidPrivateKeyFile
		}
		return h, true, nil
	} else if strings.HasPrefix(s, taggedPublic) {
		h, err := hex.DecodeString(s[len(taggedPublic):])
		if nil != err {
			return []byte{}, false, err
		}
		if len(h) != publicLength {
			return []byte{}, false, fault.InvalidPublicKeyFile
		}
		return h, false, nil
	}

	return []byte{}, false, fault.InvalidPublicKeyFile
}
