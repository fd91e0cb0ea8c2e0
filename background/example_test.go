// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"

	"github.com/bitmark-inc/escrowd/background"
)

type printer struct{}

func Example() {

	processes := background.Processes{
		&printer{},
	}

	p := background.Start(processes, "publisher")
	p.Stop()

	// Output:
	// start: publisher
	// stop: publisher
}

func (state *printer) Run(args interface{}, shutdown <-chan struct{}) {
	fmt.Printf("start: %s\n", args)
	<-shutdown
	fmt.Printf("stop: %s\n", args)
}
