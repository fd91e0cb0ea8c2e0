// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	rpcfunds "github.com/bitmark-inc/escrowd/rpc/funds"
)

// Balance - the balance of an account
func (client *Client) Balance(acct *account.Account) (*rpcfunds.BalanceReply, error) {
	if acct.IsTesting() != client.testnet {
		return nil, fault.WrongNetworkForPublicKey
	}

	arguments := rpcfunds.BalanceArguments{
		Account: acct,
	}

	var reply rpcfunds.BalanceReply
	if err := client.call("Funds.Balance", &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Deposit - credit the caller on a test chain
func (client *Client) Deposit(owner *account.PrivateKey, amount uint64) (*rpcfunds.BalanceReply, error) {
	if !client.testnet {
		return nil, fault.NotAvailableOnLiveChain
	}

	arguments := rpcfunds.DepositArguments{
		Amount: amount,
	}
	arguments.Sign(owner, client.nonce(), rpcfunds.DepositMethod, rpcfunds.DepositFields(&arguments)...)

	var reply rpcfunds.BalanceReply
	if err := client.call(rpcfunds.DepositMethod, &arguments, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
