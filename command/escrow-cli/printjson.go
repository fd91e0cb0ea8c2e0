// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJson(handle io.Writer, message interface{}) {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(handle, "error: %s\n", err)
		return
	}

	fmt.Fprintf(handle, "%s\n", b)
}
