// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"bytes"
	"testing"

	"github.com/bitmark-inc/escrowd/util"
)

func TestBase58(t *testing.T) {
	tests := []struct {
		raw     []byte
		encoded string
	}{
		{[]byte{}, ""},
		{[]byte{0x00}, "1"},
		{[]byte("hello world"), "StV1DL6CwTryKyV"},
		{[]byte{0x00, 0x00, 0x01}, "112"},
	}

	for i, item := range tests {
		if s := util.ToBase58(item.raw); s != item.encoded {
			t.Errorf("%d: ToBase58(%x) -> %q  expected: %q", i, item.raw, s, item.encoded)
		}
		if b := util.FromBase58(item.encoded); !bytes.Equal(b, item.raw) {
			t.Errorf("%d: FromBase58(%q) -> %x  expected: %x", i, item.encoded, b, item.raw)
		}
	}

	if b := util.FromBase58("0OIl"); 0 != len(b) {
		t.Errorf("invalid characters decoded to: %x", b)
	}
}
