// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mode_test

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "mode-test")
	if nil != err {
		panic(err)
	}
	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "test.log",
		Size:      50000,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})

	rc := m.Run()

	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

func TestMode(t *testing.T) {
	m, err := mode.New(logger.New("test"), chain.Local)
	assert.Nil(t, err, "new")
	assert.True(t, m.IsTesting(), "local is testing")
	assert.Equal(t, chain.Local, m.ChainName(), "chain")
	assert.True(t, m.Is(mode.Starting), "initial state")

	m.Set(mode.Normal)
	assert.True(t, m.Is(mode.Normal), "normal")
	assert.Equal(t, "Normal", m.String(), "string")

	m.Set(mode.State(99))
	assert.True(t, m.Is(mode.Normal), "invalid set ignored")
}

func TestModeLive(t *testing.T) {
	m, err := mode.New(logger.New("test"), chain.Live)
	assert.Nil(t, err, "new")
	assert.False(t, m.IsTesting(), "live")
}

func TestModeInvalidChain(t *testing.T) {
	_, err := mode.New(logger.New("test"), "bitmark")
	assert.Equal(t, fault.InvalidChain, err, "invalid chain")
}
