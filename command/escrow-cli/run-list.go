// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"
)

func runList(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	for _, name := range m.config.Names() {
		id := m.config.Identities[name]
		flag := "--"
		if "" != id.Salt {
			flag = "SK"
		}
		if name == m.config.DefaultIdentity {
			flag += "*"
		} else {
			flag += " "
		}
		fmt.Fprintf(m.w, "%s %-20s  %s  %q\n", flag, name, id.Account, id.Description)
	}

	return nil
}
