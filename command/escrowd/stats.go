// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// background process to log memory use
type memoryStats struct {
	log   *logger.L
	delay time.Duration
}

func (m *memoryStats) Run(args interface{}, shutdown <-chan struct{}) {

	log := m.log

	for {
		var s runtime.MemStats
		runtime.ReadMemStats(&s)

		text, err := json.Marshal(s)
		if nil != err {
			log.Errorf("marshal error: %s", err)
		} else {
			log.Infof("stats: %s", text)
		}
		a := s.Alloc / mega
		t := s.TotalAlloc / mega
		v := s.Sys / mega
		log.Warnf("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, v)

		select {
		case <-shutdown:
			return
		case <-time.After(m.delay):
		}
	}
}
