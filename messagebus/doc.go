// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - a broadcast queue for committed events
//
// every listener receives every message sent after it subscribed; a
// listener that falls behind loses messages rather than blocking the
// sender
package messagebus
