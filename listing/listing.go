// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package listing - listing records and their transition events
package listing

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/fault"
)

// Status - position in the listing state machine
type Status uint8

// all possible states
const (
	None Status = iota
	Listed
	Bought
	Cancelled
	maximum
)

// Listing - an asset held in escrow for sale at a fixed price
type Listing struct {
	Id            uint64             `json:"id,string"`
	AssetContract custody.ContractId `json:"assetContract"`
	AssetId       uint64             `json:"assetId,string"`
	Seller        *account.Account   `json:"seller"`
	Buyer         *account.Account   `json:"buyer"`
	Price         uint64             `json:"price,string"`
	Status        Status             `json:"status"`
}

// Event - snapshot of a listing at one transition
type Event struct {
	Sequence      uint64             `json:"sequence,string"`
	ListingId     uint64             `json:"listingId,string"`
	Status        Status             `json:"status"`
	AssetContract custody.ContractId `json:"assetContract"`
	AssetId       uint64             `json:"assetId,string"`
	Seller        *account.Account   `json:"seller"`
	Buyer         *account.Account   `json:"buyer"`
	Price         uint64             `json:"price,string"`
}

// IsActive - listed and holding an asset
func (l *Listing) IsActive() bool {
	return Listed == l.Status && !l.Seller.IsZero()
}

// Event - the event recording this listing's current state
func (l *Listing) Event(sequence uint64) Event {
	return Event{
		Sequence:      sequence,
		ListingId:     l.Id,
		Status:        l.Status,
		AssetContract: l.AssetContract,
		AssetId:       l.AssetId,
		Seller:        l.Seller,
		Buyer:         l.Buyer,
		Price:         l.Price,
	}
}

// String - status name
func (s Status) String() string {
	switch s {
	case None:
		return "None"
	case Listed:
		return "Listed"
	case Bought:
		return "Bought"
	case Cancelled:
		return "Cancelled"
	default:
		return "*Unknown*"
	}
}

// MarshalText - status as its name
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText - status from its name
func (s *Status) UnmarshalText(text []byte) error {
	for i := None; i < maximum; i += 1 {
		if string(text) == i.String() {
			*s = i
			return nil
		}
	}
	return fault.InvalidItem
}
