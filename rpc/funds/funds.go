// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package funds - RPC calls for native value balances
package funds

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/funds"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/mode"
	"github.com/bitmark-inc/escrowd/rpc/auth"
	"github.com/bitmark-inc/escrowd/rpc/ratelimit"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitFunds = 200
	rateBurstFunds = 100
)

// DepositMethod - method name covered by the deposit signature
const DepositMethod = "Funds.Deposit"

// Funds - type for the RPC
type Funds struct {
	Log     *logger.L
	Limiter *rate.Limiter
	ledger  *ledger.Ledger
	funds   *funds.Funds
	mode    *mode.Mode
}

// New - create the RPC handler
func New(log *logger.L, l *ledger.Ledger, f *funds.Funds, m *mode.Mode) *Funds {
	return &Funds{
		Log:     log,
		Limiter: rate.NewLimiter(rateLimitFunds, rateBurstFunds),
		ledger:  l,
		funds:   f,
		mode:    m,
	}
}

// BalanceArguments - arguments for RPC
type BalanceArguments struct {
	Account *account.Account `json:"account"`
}

// BalanceReply - result from RPC
type BalanceReply struct {
	Account *account.Account `json:"account"`
	Balance uint64           `json:"balance,string"`
}

// Balance - read the balance of one account
func (f *Funds) Balance(arguments *BalanceArguments, reply *BalanceReply) error {

	if err := ratelimit.Limit(f.Limiter); nil != err {
		return err
	}
	if nil == arguments || arguments.Account.IsZero() {
		return fault.InvalidAccount
	}
	if f.mode.IsTesting() != arguments.Account.IsTesting() {
		return fault.WrongNetworkForPublicKey
	}

	balance, err := f.funds.Balance(context.Background(), arguments.Account)
	if nil != err {
		return err
	}
	reply.Account = arguments.Account
	reply.Balance = balance
	return nil
}

// DepositArguments - arguments for RPC
type DepositArguments struct {
	auth.Authorisation
	Amount uint64 `json:"amount,string"`
}

// DepositFields - the signed fields of a deposit request
func DepositFields(arguments *DepositArguments) [][]byte {
	return [][]byte{
		auth.Uint64(arguments.Amount),
	}
}

// Deposit - credit the caller, only available on test chains
func (f *Funds) Deposit(arguments *DepositArguments, reply *BalanceReply) error {

	if err := ratelimit.Limit(f.Limiter); nil != err {
		return err
	}
	if !f.mode.IsTesting() {
		return fault.NotAvailableOnLiveChain
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	f.Log.Infof("Funds.Deposit: %d", arguments.Amount)

	var balance uint64
	err := f.ledger.Execute(context.Background(), func(ctx context.Context, tx *ledger.Tx) error {
		err := auth.Verify(tx, true, &arguments.Authorisation, DepositMethod, DepositFields(arguments)...)
		if nil != err {
			return err
		}
		err = f.funds.Deposit(ctx, arguments.Caller, arguments.Amount)
		if nil != err {
			return err
		}
		balance, err = f.funds.Balance(ctx, arguments.Caller)
		return err
	})
	if nil != err {
		f.Log.Warnf("%s: %s", DepositMethod, err)
		return err
	}

	reply.Account = arguments.Caller
	reply.Balance = balance
	return nil
}
