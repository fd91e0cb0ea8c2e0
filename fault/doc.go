// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
//
// The escrow operations report one of five classes:
//
//   AuthorisationError - caller is not the owner or seller required
//   StateError         - listing is not in the state the operation needs
//   ValueError         - attached payment differs from the price
//   CustodyError       - custody provider rejected an asset transfer
//   FundError          - moving native value failed
package fault
