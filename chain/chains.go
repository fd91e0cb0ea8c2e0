// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain - names of the networks a registry can run on
package chain

// names of all chains
const (
	Live    = "live"
	Testing = "testing"
	Local   = "local"
)

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Live, Testing, Local:
		return true
	default:
		return false
	}
}

// IsTesting - true for any chain that uses test accounts
func IsTesting(name string) bool {
	return Live != name
}
