// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

// PrivateKey - base type for PrivateKey
type PrivateKey struct {
	PrivateKeyInterface
}

// PrivateKeyInterface - interface for private key
type PrivateKeyInterface interface {
	Account() *Account
	KeyType() int
	PrivateKeyBytes() []byte
	Sign(message []byte) Signature
	Bytes() []byte
	String() string
	IsTesting() bool
	MarshalText() ([]byte, error)
}

// ED25519PrivateKey - structure for ed25519 keys
type ED25519PrivateKey struct {
	Test       bool
	PrivateKey []byte
}

// NewPrivateKey - generate a fresh ed25519 key
func NewPrivateKey(test bool) (*PrivateKey, error) {
	return newPrivateKeyFrom(rand.Reader, test)
}

func newPrivateKeyFrom(random io.Reader, test bool) (*PrivateKey, error) {
	_, privateKey, err := ed25519.GenerateKey(random)
	if nil != err {
		return nil, err
	}
	return &PrivateKey{
		PrivateKeyInterface: &ED25519PrivateKey{
			Test:       test,
			PrivateKey: privateKey,
		},
	}, nil
}

// PrivateKeyFromBase58 - this converts a Base58 encoded string and returns a private key
//
// one of the specific private key types are returned using the base "PrivateKeyInterface"
// interface type to allow individual methods to be called.
func PrivateKeyFromBase58(privateKeyBase58Encoded string) (*PrivateKey, error) {
	privateKey := util.FromBase58(privateKeyBase58Encoded)
	if 0 == len(privateKey) {
		return nil, fault.CannotDecodeAccount
	}

	checksumStart := len(privateKey) - checksumLength
	if checksumStart <= 0 {
		return nil, fault.InvalidKeyLength
	}
	checksum := sha3.Sum256(privateKey[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], privateKey[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	return PrivateKeyFromBytes(privateKey[:checksumStart])
}

// PrivateKeyFromBytes - this converts a byte encoded buffer and returns a private key
func PrivateKeyFromBytes(privateKeyBytes []byte) (*PrivateKey, error) {

	keyVariant, keyVariantLength := util.FromVarint64(privateKeyBytes)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != 0 {
		return nil, fault.NotPrivateKey
	}

	keyAlgorithm := keyVariant >> algorithmShift
	if keyAlgorithm != ED25519 {
		return nil, fault.InvalidKeyType
	}

	isTest := 0 != keyVariant&testKeyCode

	if len(privateKeyBytes)-keyVariantLength != ed25519.PrivateKeySize {
		return nil, fault.InvalidKeyLength
	}
	key := make([]byte, ed25519.PrivateKeySize)
	copy(key, privateKeyBytes[keyVariantLength:])

	return &PrivateKey{
		PrivateKeyInterface: &ED25519PrivateKey{
			Test:       isTest,
			PrivateKey: key,
		},
	}, nil
}

// UnmarshalText - convert from the Base58 JSON form
func (privateKey *PrivateKey) UnmarshalText(s []byte) error {
	a, err := PrivateKeyFromBase58(string(s))
	if nil != err {
		return err
	}
	privateKey.PrivateKeyInterface = a.PrivateKeyInterface
	return nil
}

// ED25519
// -------

// Account - return the corresponding account
func (privateKey *ED25519PrivateKey) Account() *Account {
	publicKey := make([]byte, ed25519.PublicKeySize)
	copy(publicKey, privateKey.PrivateKey[ed25519.PrivateKeySize-ed25519.PublicKeySize:])
	return &Account{
		AccountInterface: &ED25519Account{
			Test:      privateKey.Test,
			PublicKey: publicKey,
		},
	}
}

// KeyType - key type code (see enumeration in account.go)
func (privateKey *ED25519PrivateKey) KeyType() int {
	return ED25519
}

// PrivateKeyBytes - fetch the private key as byte slice
func (privateKey *ED25519PrivateKey) PrivateKeyBytes() []byte {
	return privateKey.PrivateKey[:]
}

// Sign - produce an ed25519 signature over a message
func (privateKey *ED25519PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.PrivateKey, message)
}

// Bytes - byte slice for encoded key
func (privateKey *ED25519PrivateKey) Bytes() []byte {
	keyVariant := byte(ED25519 << algorithmShift)
	if privateKey.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, privateKey.PrivateKey[:]...)
}

// String - base58 encoding of encoded key
func (privateKey *ED25519PrivateKey) String() string {
	buffer := privateKey.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return util.ToBase58(buffer)
}

// IsTesting - return whether the private key is in test mode or not
func (privateKey ED25519PrivateKey) IsTesting() bool {
	return privateKey.Test
}

// MarshalText - convert a private key to its Base58 JSON form
func (privateKey ED25519PrivateKey) MarshalText() ([]byte, error) {
	return []byte(privateKey.String()), nil
}
