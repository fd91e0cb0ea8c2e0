// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"crypto/ed25519"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
)

// enumeration of supported key algorithms
const (
	// list of valid algorithms
	ED25519 = iota + 1
	// end of list (one greater than last item)
	algorithmLimit
)

// miscellaneous constants
const (
	checksumLength = 4

	// bits in key code starting from LSB
	publicKeyCode = 0x01
	testKeyCode   = 0x02

	algorithmShift = 4 // shift 4 bits to get algorithm

	// largest encoded account: variant + ed25519 public key
	MaximumBytes = 1 + ed25519.PublicKeySize
)

// Account - base type for an identity that can own assets and funds
type Account struct {
	AccountInterface
}

// AccountInterface - methods of a specific key algorithm
type AccountInterface interface {
	KeyType() int
	PublicKeyBytes() []byte
	CheckSignature(message []byte, signature Signature) error
	Bytes() []byte
	String() string
	MarshalText() ([]byte, error)
	IsTesting() bool
}

// ED25519Account - for ed25519 signatures
type ED25519Account struct {
	Test      bool
	PublicKey []byte
}

// AccountFromBase58 - this converts a Base58 encoded string and returns an account
//
// one of the specific account types are returned using the base "AccountInterface"
// interface type to allow individual methods to be called.
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {
	accountDecoded := util.FromBase58(accountBase58Encoded)
	if 0 == len(accountDecoded) {
		return nil, fault.CannotDecodeAccount
	}

	checksumStart := len(accountDecoded) - checksumLength
	if checksumStart <= 0 {
		return nil, fault.InvalidKeyLength
	}
	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	return AccountFromBytes(accountDecoded[:checksumStart])
}

// AccountFromBytes - this converts a byte encoded buffer and returns an account
func AccountFromBytes(accountBytes []byte) (*Account, error) {

	keyVariant, keyVariantLength := util.FromVarint64(accountBytes)
	if 0 == keyVariantLength || keyVariant&publicKeyCode != publicKeyCode {
		return nil, fault.NotPublicKey
	}

	keyAlgorithm := keyVariant >> algorithmShift
	if keyAlgorithm < ED25519 || keyAlgorithm >= algorithmLimit {
		return nil, fault.InvalidKeyType
	}

	isTest := 0 != keyVariant&testKeyCode

	keyLength := len(accountBytes) - keyVariantLength
	if keyLength <= 0 {
		return nil, fault.InvalidKeyLength
	}

	switch keyAlgorithm {
	case ED25519:
		if keyLength != ed25519.PublicKeySize {
			return nil, fault.InvalidKeyLength
		}
		publicKey := make([]byte, ed25519.PublicKeySize)
		copy(publicKey, accountBytes[keyVariantLength:])
		account := &Account{
			AccountInterface: &ED25519Account{
				Test:      isTest,
				PublicKey: publicKey,
			},
		}
		return account, nil
	default:
		return nil, fault.InvalidKeyType
	}
}

// UnmarshalText - convert from the Base58 JSON form
func (account *Account) UnmarshalText(s []byte) error {
	a, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	account.AccountInterface = a.AccountInterface
	return nil
}

// Equal - true if both are the same identity, nil is only equal to nil
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == account.AccountInterface {
		return nil == other || nil == other.AccountInterface
	}
	if nil == other || nil == other.AccountInterface {
		return false
	}
	return bytes.Equal(account.Bytes(), other.Bytes())
}

// IsZero - the absent identity
func (account *Account) IsZero() bool {
	return nil == account || nil == account.AccountInterface
}

// ED25519
// -------

// KeyType - key type code (see enumeration above)
func (account *ED25519Account) KeyType() int {
	return ED25519
}

// PublicKeyBytes - fetch the public key as byte slice
func (account *ED25519Account) PublicKeyBytes() []byte {
	return account.PublicKey[:]
}

// CheckSignature - check the signature of a message
func (account *ED25519Account) CheckSignature(message []byte, signature Signature) error {

	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}

	if !ed25519.Verify(account.PublicKey[:], message, signature) {
		return fault.InvalidSignature
	}
	return nil
}

// Bytes - byte slice for encoded key
func (account *ED25519Account) Bytes() []byte {
	keyVariant := byte(ED25519<<algorithmShift) | publicKeyCode
	if account.Test {
		keyVariant |= testKeyCode
	}
	return append([]byte{keyVariant}, account.PublicKey[:]...)
}

// String - base58 encoding of encoded key
func (account *ED25519Account) String() string {
	buffer := account.Bytes()
	checksum := sha3.Sum256(buffer)
	buffer = append(buffer, checksum[:checksumLength]...)
	return util.ToBase58(buffer)
}

// MarshalText - convert an account to its Base58 JSON form
func (account ED25519Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// IsTesting - return whether the public key is in test mode or not
func (account ED25519Account) IsTesting() bool {
	return account.Test
}
