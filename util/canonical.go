// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"net"
	"strconv"
	"strings"

	"github.com/bitmark-inc/escrowd/fault"
)

// CanonicalIPandPort - make the IP:Port canonical with an optional
// scheme prefix, "*" is accepted as the IPv6 wildcard
//
// examples:
//   IPv4:  127.0.0.1:1234
//   IPv6:  [::1]:1234
//
// the second result is true for an IPv6 address
func CanonicalIPandPort(prefix string, hostPort string) (string, bool, error) {

	host, port, err := net.SplitHostPort(strings.TrimSpace(hostPort))
	if nil != err {
		return "", false, fault.InvalidIpAddress
	}

	host = strings.TrimSpace(host)
	if "*" == host {
		host = "::"
	}
	IP := net.ParseIP(host)
	if nil == IP {
		return "", false, fault.InvalidIpAddress
	}

	numericPort, err := strconv.Atoi(strings.TrimSpace(port))
	if nil != err {
		return "", false, fault.InvalidPortNumber
	}
	if numericPort < 1 || numericPort > 65535 {
		return "", false, fault.InvalidPortNumber
	}

	if nil != IP.To4() {
		return prefix + IP.String() + ":" + strconv.Itoa(numericPort), false, nil
	}
	return prefix + "[" + IP.String() + "]:" + strconv.Itoa(numericPort), true, nil
}
