// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token - RPC calls for the asset contracts
package token

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/auth"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/escrowd/token"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitToken = 200
	rateBurstToken = 100
)

// method names covered by signatures
const (
	MintMethod              = "Token.Mint"
	ApproveMethod           = "Token.Approve"
	SetApprovalForAllMethod = "Token.SetApprovalForAll"
)

// Token - type for the RPC
type Token struct {
	Log     *logger.L
	Limiter *rate.Limiter
	ledger  *ledger.Ledger
	tokens  map[custody.ContractId]*token.Token
	mode    *mode.Mode
}

// New - create the RPC handler
func New(log *logger.L, l *ledger.Ledger, tokens []*token.Token, m *mode.Mode) *Token {
	t := &Token{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitToken, rateBurstToken),
		ledger:  l,
		tokens:  make(map[custody.ContractId]*token.Token),
		mode:    m,
	}
	for _, item := range tokens {
		t.tokens[item.Name()] = item
	}
	return t
}

// Mint
// ----

// MintArguments - arguments for RPC
type MintArguments struct {
	auth.Authorisation
	Contract custody.ContractId `json:"contract"`
	To       *account.Account   `json:"to"`
	AssetId  uint64             `json:"assetId,string"`
}

// MintFields - the signed fields of a mint request
func MintFields(arguments *MintArguments) [][]byte {
	return [][]byte{
		[]byte(arguments.Contract),
		auth.Account(arguments.To),
		auth.Uint64(arguments.AssetId),
	}
}

// MintReply - result from RPC
type MintReply struct {
	Contract custody.ContractId `json:"contract"`
	AssetId  uint64             `json:"assetId,string"`
	Owner    *account.Account   `json:"owner"`
}

// Mint - create a new asset
func (t *Token) Mint(arguments *MintArguments, reply *MintReply) error {

	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	contract, err := t.lookup(arguments.Contract)
	if nil != err {
		return err
	}

	t.Log.Infof("Token.Mint: %s  asset: %d", arguments.Contract, arguments.AssetId)

	err = t.signed(&arguments.Authorisation, MintMethod, MintFields(arguments), func(ctx context.Context) error {
		return contract.Mint(ctx, arguments.Caller, arguments.To, arguments.AssetId)
	})
	if nil != err {
		return err
	}

	reply.Contract = arguments.Contract
	reply.AssetId = arguments.AssetId
	reply.Owner = arguments.To
	return nil
}

// Approve
// -------

// ApproveArguments - arguments for RPC
//
// a null approved account clears the approval
type ApproveArguments struct {
	auth.Authorisation
	Contract custody.ContractId `json:"contract"`
	Approved *account.Account   `json:"approved"`
	AssetId  uint64             `json:"assetId,string"`
}

// ApproveFields - the signed fields of an approve request
func ApproveFields(arguments *ApproveArguments) [][]byte {
	return [][]byte{
		[]byte(arguments.Contract),
		auth.Account(arguments.Approved),
		auth.Uint64(arguments.AssetId),
	}
}

// ApproveReply - empty result from RPC
type ApproveReply struct{}

// Approve - let one account transfer a single asset
func (t *Token) Approve(arguments *ApproveArguments, reply *ApproveReply) error {

	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	contract, err := t.lookup(arguments.Contract)
	if nil != err {
		return err
	}

	return t.signed(&arguments.Authorisation, ApproveMethod, ApproveFields(arguments), func(ctx context.Context) error {
		return contract.Approve(ctx, arguments.Caller, arguments.Approved, arguments.AssetId)
	})
}

// SetApprovalForAll
// -----------------

// SetApprovalForAllArguments - arguments for RPC
type SetApprovalForAllArguments struct {
	auth.Authorisation
	Contract custody.ContractId `json:"contract"`
	Operator *account.Account   `json:"operator"`
	Approved bool               `json:"approved"`
}

// SetApprovalForAllFields - the signed fields of an operator request
func SetApprovalForAllFields(arguments *SetApprovalForAllArguments) [][]byte {
	return [][]byte{
		[]byte(arguments.Contract),
		auth.Account(arguments.Operator),
		auth.Bool(arguments.Approved),
	}
}

// SetApprovalForAll - let an operator transfer every asset of the caller
func (t *Token) SetApprovalForAll(arguments *SetApprovalForAllArguments, reply *ApproveReply) error {

	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	contract, err := t.lookup(arguments.Contract)
	if nil != err {
		return err
	}

	return t.signed(&arguments.Authorisation, SetApprovalForAllMethod, SetApprovalForAllFields(arguments), func(ctx context.Context) error {
		return contract.SetApprovalForAll(ctx, arguments.Caller, arguments.Operator, arguments.Approved)
	})
}

// Owner
// -----

// OwnerArguments - arguments for RPC
type OwnerArguments struct {
	Contract custody.ContractId `json:"contract"`
	AssetId  uint64             `json:"assetId,string"`
}

// OwnerReply - result from RPC
type OwnerReply struct {
	Owner    *account.Account `json:"owner"`
	Approved *account.Account `json:"approved"`
}

// Owner - current owner and approved account of an asset
func (t *Token) Owner(arguments *OwnerArguments, reply *OwnerReply) error {

	if err := ratelimit.Limit(t.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	contract, err := t.lookup(arguments.Contract)
	if nil != err {
		return err
	}

	ctx := context.Background()
	owner, err := contract.OwnerOf(ctx, arguments.AssetId)
	if nil != err {
		return err
	}
	approved, err := contract.GetApproved(ctx, arguments.AssetId)
	if nil != err {
		return err
	}

	reply.Owner = owner
	reply.Approved = approved
	return nil
}

func (t *Token) lookup(contract custody.ContractId) (*token.Token, error) {
	item, ok := t.tokens[contract]
	if !ok {
		return nil, fault.UnknownAssetContract
	}
	return item, nil
}

// verify the request and run the operation in one transaction
func (t *Token) signed(a *auth.Authorisation, method string, fields [][]byte, operation func(context.Context) error) error {
	err := t.ledger.Execute(context.Background(), func(ctx context.Context, tx *ledger.Tx) error {
		if err := auth.Verify(tx, t.mode.IsTesting(), a, method, fields...); nil != err {
			return err
		}
		return operation(ctx)
	})
	if nil != err {
		t.Log.Warnf("%s: %s", method, err)
	}
	return err
}
