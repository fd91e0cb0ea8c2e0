// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package custody_test

import (
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/custody/mocks"
	"github.com/bitmark-inc/escrowd/fault"
)

func TestRegister(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	p := custody.NewProviders()
	art := mocks.NewMockProvider(ctl)
	deeds := mocks.NewMockProvider(ctl)

	assert.Nil(t, p.Register("deeds", deeds), "register deeds")
	assert.Nil(t, p.Register("art", art), "register art")

	err := p.Register("art", deeds)
	assert.Equal(t, fault.ContractAlreadyRegistered, err, "duplicate")
	assert.True(t, fault.IsErrExists(err), "exists class")

	assert.Equal(t, fault.MissingParameters, p.Register("", art), "empty id")
	assert.Equal(t, fault.MissingParameters, p.Register("x", nil), "nil provider")

	long := custody.ContractId(strings.Repeat("x", custody.MaximumIdLength+1))
	err = p.Register(long, art)
	assert.Equal(t, fault.ContractNameTooLong, err, "long id")
	assert.True(t, fault.IsErrLength(err), "length class")
	_, ok := p.Lookup(long)
	assert.False(t, ok, "long id not registered")

	longest := custody.ContractId(strings.Repeat("x", custody.MaximumIdLength))
	assert.Nil(t, p.Register(longest, art), "register longest id")

	provider, ok := p.Lookup("art")
	assert.True(t, ok, "lookup art")
	assert.Equal(t, art, provider, "art provider")

	_, ok = p.Lookup("unknown")
	assert.False(t, ok, "lookup unknown")

	assert.Equal(t, []custody.ContractId{"art", "deeds"}, p.Contracts(), "sorted contracts")
}
