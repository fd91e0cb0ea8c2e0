// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listeners - TLS servers for JSON RPC and HTTPS
package listeners

import (
	"strings"

	"github.com/bitmark-inc/escrowd/util"
)

const (
	minConnectionCount = 1
)

// Listener - a server bound to its listen addresses
type Listener interface {
	Serve() error
	Stop()
}

// convert each listen address to a network type and canonical address
//
// "*:PORT" listens on both tcp4 and tcp6
func parseListenAddresses(addresses []string) ([]string, []string, error) {
	networks := make([]string, len(addresses))
	canonical := make([]string, len(addresses))
	for i, listen := range addresses {
		listen = strings.TrimSpace(listen)
		address, v6, err := util.CanonicalIPandPort("", listen)
		if nil != err {
			return nil, nil, err
		}
		canonical[i] = address
		switch {
		case strings.HasPrefix(listen, "*"):
			networks[i] = "tcp"
		case v6:
			networks[i] = "tcp6"
		default:
			networks[i] = "tcp4"
		}
	}
	return networks, canonical, nil
}
