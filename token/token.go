// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token - a ledger backed non-fungible asset registry
//
// each Token is one asset contract: assets are numbered, have exactly
// one owner, and may be moved by the owner, by a single approved
// account per asset, or by an operator the owner has approved for all
// of its assets
package token

import (
	"context"
	"encoding/binary"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/logger"
)

// Token - one asset contract
type Token struct {
	log     *logger.L
	ledger  *ledger.Ledger
	name    custody.ContractId
	minter  *account.Account
	testing bool
}

// New - create an asset contract
//
// if minter is nil only a testing chain allows minting (by anyone)
func New(log *logger.L, l *ledger.Ledger, name custody.ContractId, minter *account.Account, testing bool) *Token {
	return &Token{
		log:     log,
		ledger:  l,
		name:    name,
		minter:  minter,
		testing: testing,
	}
}

// Name - the contract id
func (t *Token) Name() custody.ContractId {
	return t.name
}

// Mint - create a new asset owned by to
func (t *Token) Mint(ctx context.Context, minter *account.Account, to *account.Account, assetId uint64) error {
	if to.IsZero() {
		return fault.InvalidAccount
	}
	if nil == t.minter {
		if !t.testing {
			return fault.NotAuthorisedMinter
		}
	} else if !t.minter.Equal(minter) {
		return fault.NotAuthorisedMinter
	}

	return t.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {
		key := t.assetKey(assetId)
		if tx.Has(tx.Pool().Owners, key) {
			return fault.AssetAlreadyExists
		}
		tx.Put(tx.Pool().Owners, key, to.Bytes())
		t.log.Infof("mint: %d to: %s", assetId, to)
		return nil
	})
}

// OwnerOf - current owner of an asset
func (t *Token) OwnerOf(ctx context.Context, assetId uint64) (*account.Account, error) {
	var owner *account.Account
	err := t.ledger.View(ctx, func(r ledger.Reader) error {
		var err error
		owner, err = t.ownerOf(r, assetId)
		return err
	})
	return owner, err
}

// Approve - allow a single account to transfer one asset
//
// a nil approved account clears the approval
func (t *Token) Approve(ctx context.Context, caller *account.Account, approved *account.Account, assetId uint64) error {
	return t.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {
		owner, err := t.ownerOf(tx, assetId)
		if nil != err {
			return err
		}
		if !owner.Equal(caller) && !t.isOperator(tx, owner, caller) {
			return fault.NotAssetOwnerOrOperator
		}

		key := t.assetKey(assetId)
		if approved.IsZero() {
			tx.Delete(tx.Pool().Approvals, key)
		} else {
			tx.Put(tx.Pool().Approvals, key, approved.Bytes())
		}
		return nil
	})
}

// GetApproved - the single account approved for an asset, nil if none
func (t *Token) GetApproved(ctx context.Context, assetId uint64) (*account.Account, error) {
	var approved *account.Account
	err := t.ledger.View(ctx, func(r ledger.Reader) error {
		if _, err := t.ownerOf(r, assetId); nil != err {
			return err
		}
		var err error
		approved, err = t.approved(r, assetId)
		return err
	})
	return approved, err
}

// SetApprovalForAll - allow or disallow an operator for all of owner's assets
func (t *Token) SetApprovalForAll(ctx context.Context, owner *account.Account, operator *account.Account, approved bool) error {
	if owner.IsZero() || operator.IsZero() {
		return fault.InvalidAccount
	}

	return t.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {
		key := t.operatorKey(owner, operator)
		if approved {
			tx.Put(tx.Pool().Operators, key, []byte{0x01})
		} else {
			tx.Delete(tx.Pool().Operators, key)
		}
		return nil
	})
}

// IsApprovedForAll - check for an operator approval
func (t *Token) IsApprovedForAll(ctx context.Context, owner *account.Account, operator *account.Account) (bool, error) {
	if owner.IsZero() || operator.IsZero() {
		return false, fault.InvalidAccount
	}

	approved := false
	err := t.ledger.View(ctx, func(r ledger.Reader) error {
		approved = t.isOperator(r, owner, operator)
		return nil
	})
	return approved, err
}

// TransferFrom - move an asset, clearing its single approval
func (t *Token) TransferFrom(ctx context.Context, operator *account.Account, from *account.Account, to *account.Account, assetId uint64) error {
	if to.IsZero() {
		return fault.InvalidAccount
	}

	return t.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {
		owner, err := t.ownerOf(tx, assetId)
		if nil != err {
			return err
		}
		if !owner.Equal(from) {
			return fault.TransferFromNotOwner
		}

		if !operator.Equal(owner) && !t.isOperator(tx, owner, operator) {
			approved, err := t.approved(tx, assetId)
			if nil != err {
				return err
			}
			if approved.IsZero() || !approved.Equal(operator) {
				return fault.TransferNotAuthorised
			}
		}

		key := t.assetKey(assetId)
		tx.Delete(tx.Pool().Approvals, key)
		tx.Put(tx.Pool().Owners, key, to.Bytes())

		t.log.Debugf("transfer: %d from: %s to: %s", assetId, from, to)
		return nil
	})
}

func (t *Token) ownerOf(r ledger.Reader, assetId uint64) (*account.Account, error) {
	buffer := r.Get(t.ledger.Pool().Owners, t.assetKey(assetId))
	if nil == buffer {
		return nil, fault.AssetNotFound
	}
	owner, err := account.AccountFromBytes(buffer)
	if nil != err {
		logger.Panicf("token: %s asset: %d owner record error: %s", t.name, assetId, err)
	}
	return owner, nil
}

func (t *Token) approved(r ledger.Reader, assetId uint64) (*account.Account, error) {
	buffer := r.Get(t.ledger.Pool().Approvals, t.assetKey(assetId))
	if nil == buffer {
		return nil, nil
	}
	return account.AccountFromBytes(buffer)
}

func (t *Token) isOperator(r ledger.Reader, owner *account.Account, operator *account.Account) bool {
	if operator.IsZero() {
		return false
	}
	return r.Has(t.ledger.Pool().Operators, t.operatorKey(owner, operator))
}

// contract ++ 0x00 ++ asset id
func (t *Token) assetKey(assetId uint64) []byte {
	key := make([]byte, len(t.name)+1+8)
	n := copy(key, t.name)
	binary.BigEndian.PutUint64(key[n+1:], assetId)
	return key
}

// contract ++ 0x00 ++ owner ++ operator
func (t *Token) operatorKey(owner *account.Account, operator *account.Account) []byte {
	key := append([]byte(t.name), 0x00)
	key = append(key, owner.Bytes()...)
	return append(key, operator.Bytes()...)
}
