// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mode - run state of the node and the chain it serves
package mode

import (
	"sync"

	"github.com/bitmark-inc/escrowd/chain"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/logger"
)

// State - the run state
type State int

// all possible states
const (
	Stopped State = iota
	Starting
	Normal
	maximum
)

// Mode - holds the run state of one node
type Mode struct {
	sync.RWMutex
	log     *logger.L
	state   State
	testing bool
	chain   string
}

// New - set up the mode for a chain, the node starts in the Starting state
func New(log *logger.L, chainName string) (*Mode, error) {

	if !chain.Valid(chainName) {
		log.Criticalf("mode cannot handle chain: '%s'", chainName)
		return nil, fault.InvalidChain
	}

	m := &Mode{
		log:     log,
		state:   Starting,
		testing: chain.IsTesting(chainName),
		chain:   chainName,
	}
	log.Infof("chain: %s  testing: %t", chainName, m.testing)

	return m, nil
}

// Set - change state
func (m *Mode) Set(state State) {

	if state >= Stopped && state < maximum {
		m.Lock()
		m.state = state
		m.Unlock()

		m.log.Infof("set: %s", state)
	} else {
		m.log.Errorf("ignore invalid set: %d", state)
	}
}

// Is - detect state
func (m *Mode) Is(state State) bool {
	m.RLock()
	defer m.RUnlock()
	return state == m.state
}

// IsTesting - true if the chain uses test accounts
func (m *Mode) IsTesting() bool {
	m.RLock()
	defer m.RUnlock()
	return m.testing
}

// ChainName - name of the current chain
func (m *Mode) ChainName() string {
	m.RLock()
	defer m.RUnlock()
	return m.chain
}

// String - current state as a string
func (m *Mode) String() string {
	m.RLock()
	defer m.RUnlock()
	return m.state.String()
}

// String - state as a string
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Starting:
		return "Starting"
	case Normal:
		return "Normal"
	default:
		return "*Unknown*"
	}
}
