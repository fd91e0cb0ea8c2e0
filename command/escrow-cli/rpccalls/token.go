// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	rpctoken "github.com/bitmark-inc/escrowd/rpc/token"
)

// Mint - create a new asset
func (client *Client) Mint(minter *account.PrivateKey, contract custody.ContractId, to *account.Account, assetId uint64) (*rpctoken.MintReply, error) {
	arguments := rpctoken.MintArguments{
		Contract: contract,
		To:       to,
		AssetId:  assetId,
	}
	arguments.Sign(minter, client.nonce(), rpctoken.MintMethod, rpctoken.MintFields(&arguments)...)

	var reply rpctoken.MintReply
	if err := client.call(rpctoken.MintMethod, &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Approve - let an account transfer one asset, nil clears the approval
func (client *Client) Approve(owner *account.PrivateKey, contract custody.ContractId, approved *account.Account, assetId uint64) error {
	arguments := rpctoken.ApproveArguments{
		Contract: contract,
		Approved: approved,
		AssetId:  assetId,
	}
	arguments.Sign(owner, client.nonce(), rpctoken.ApproveMethod, rpctoken.ApproveFields(&arguments)...)

	var reply rpctoken.ApproveReply
	return client.call(rpctoken.ApproveMethod, &arguments, &reply)
}

// SetApprovalForAll - set or clear an operator for every asset of the owner
func (client *Client) SetApprovalForAll(owner *account.PrivateKey, contract custody.ContractId, operator *account.Account, approved bool) error {
	arguments := rpctoken.SetApprovalForAllArguments{
		Contract: contract,
		Operator: operator,
		Approved: approved,
	}
	arguments.Sign(owner, client.nonce(), rpctoken.SetApprovalForAllMethod, rpctoken.SetApprovalForAllFields(&arguments)...)

	var reply rpctoken.ApproveReply
	return client.call(rpctoken.SetApprovalForAllMethod, &arguments, &reply)
}

// Owner - the owner and approved account of an asset
func (client *Client) Owner(contract custody.ContractId, assetId uint64) (*rpctoken.OwnerReply, error) {
	arguments := rpctoken.OwnerArguments{
		Contract: contract,
		AssetId:  assetId,
	}

	var reply rpctoken.OwnerReply
	if err := client.call("Token.Owner", &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
