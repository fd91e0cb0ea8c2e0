// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package auth - signed requests with replay protection
//
// the signed message is the method name followed by each request
// field, all length prefixed, then the nonce as a Varint64
package auth

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/util"
)

// Authorisation - fields carried by every mutating request
type Authorisation struct {
	Caller    *account.Account  `json:"caller"`
	Nonce     uint64            `json:"nonce,string"`
	Signature account.Signature `json:"signature"`
}

// Message - the bytes covered by the signature
func Message(method string, nonce uint64, fields ...[]byte) []byte {
	message := util.AppendBytes(nil, []byte(method))
	for _, f := range fields {
		message = util.AppendBytes(message, f)
	}
	return util.AppendVarint64(message, nonce)
}

// Sign - fill in the caller and signature for a request
func (a *Authorisation) Sign(privateKey *account.PrivateKey, nonce uint64, method string, fields ...[]byte) {
	a.Caller = privateKey.Account()
	a.Nonce = nonce
	a.Signature = privateKey.Sign(Message(method, nonce, fields...))
}

// Verify - check the signature and consume the nonce
//
// the nonce must be strictly greater than the last nonce accepted from
// the caller, it is stored in the enclosing transaction so it is only
// consumed if the request commits
func Verify(tx *ledger.Tx, testing bool, a *Authorisation, method string, fields ...[]byte) error {
	if nil == a || a.Caller.IsZero() {
		return fault.InvalidAccount
	}
	if testing != a.Caller.IsTesting() {
		return fault.WrongNetworkForPublicKey
	}
	if 0 == len(a.Signature) {
		return fault.InvalidSignature
	}

	err := a.Caller.CheckSignature(Message(method, a.Nonce, fields...), a.Signature)
	if nil != err {
		return err
	}

	pool := tx.Pool()
	key := a.Caller.Bytes()
	last, _ := tx.GetN(pool.Nonces, key)
	if a.Nonce <= last {
		return fault.InvalidNonce
	}
	tx.PutN(pool.Nonces, key, a.Nonce)

	return nil
}

// Uint64 - encode a numeric field
func Uint64(value uint64) []byte {
	return util.ToVarint64(value)
}

// Account - encode an account field, nil is encoded as empty
func Account(acct *account.Account) []byte {
	if acct.IsZero() {
		return []byte{}
	}
	return acct.Bytes()
}

// Bool - encode a boolean field
func Bool(value bool) []byte {
	if value {
		return []byte{1}
	}
	return []byte{0}
}
