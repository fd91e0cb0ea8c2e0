// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/bitmark-inc/escrowd/fault"
)

const (
	saltSize = 32
)

// Salt - random argon2 salt stored with each identity
type Salt [saltSize]byte

// MakeSalt - create a random salt
func MakeSalt() (*Salt, error) {
	salt := new(Salt)
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return salt, err
	}
	return salt, nil
}

// Bytes - convert a binary salt to byte slice
func (salt Salt) Bytes() []byte {
	return salt[:]
}

// String - convert a binary salt to hex string for use by the fmt package (for %s)
func (salt Salt) String() string {
	return hex.EncodeToString(salt.Bytes())
}

// MarshalText - convert salt to hex text
func (salt Salt) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(saltSize)
	buffer := make([]byte, size)
	hex.Encode(buffer, salt.Bytes())
	return buffer, nil
}

// UnmarshalText - convert hex text into a salt
func (salt *Salt) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(buffer, s)
	if nil != err {
		return err
	}

	if saltSize != byteCount {
		return fault.InvalidKeyLength
	}
	copy(salt[:], buffer)
	return nil
}
