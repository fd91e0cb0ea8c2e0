// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package funds - balances of the native value unit
package funds

import (
	"context"
	"sync"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/logger"
)

// Receiver - called after value has been credited to an account
//
// it runs inside the transfer's transaction: returning an error
// rejects the value and aborts the whole operation, and any ledger
// call made with ctx joins that transaction
type Receiver interface {
	Receive(ctx context.Context, from *account.Account, amount uint64) error
}

// Funds - the balance ledger
type Funds struct {
	sync.RWMutex
	log       *logger.L
	ledger    *ledger.Ledger
	receivers map[string]Receiver
}

// New - create the balance ledger
func New(log *logger.L, l *ledger.Ledger) *Funds {
	return &Funds{
		log:       log,
		ledger:    l,
		receivers: make(map[string]Receiver),
	}
}

// Register - install the receive hook for an account
func (f *Funds) Register(acct *account.Account, receiver Receiver) {
	f.Lock()
	defer f.Unlock()
	f.receivers[string(acct.Bytes())] = receiver
}

// Unregister - remove the receive hook for an account
func (f *Funds) Unregister(acct *account.Account) {
	f.Lock()
	defer f.Unlock()
	delete(f.receivers, string(acct.Bytes()))
}

// Balance - current balance of an account
func (f *Funds) Balance(ctx context.Context, acct *account.Account) (uint64, error) {
	if acct.IsZero() {
		return 0, fault.InvalidAccount
	}

	balance := uint64(0)
	err := f.ledger.View(ctx, func(r ledger.Reader) error {
		balance, _ = r.GetN(f.ledger.Pool().Balances, acct.Bytes())
		return nil
	})
	return balance, err
}

// Deposit - create value in an account
func (f *Funds) Deposit(ctx context.Context, acct *account.Account, amount uint64) error {
	if acct.IsZero() {
		return fault.InvalidAccount
	}
	if 0 == amount {
		return fault.ZeroAmount
	}

	return f.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {
		err := credit(tx, acct, amount)
		if nil != err {
			return err
		}
		f.log.Debugf("deposit: %d to: %s", amount, acct)
		return nil
	})
}

// Transfer - move value between accounts then run the recipient's hook
func (f *Funds) Transfer(ctx context.Context, from *account.Account, to *account.Account, amount uint64) error {
	if from.IsZero() || to.IsZero() {
		return fault.InvalidAccount
	}

	return f.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {
		pool := tx.Pool()

		balance, _ := tx.GetN(pool.Balances, from.Bytes())
		if balance < amount {
			return fault.InsufficientFunds
		}
		if 0 != amount {
			tx.PutN(pool.Balances, from.Bytes(), balance-amount)
			err := credit(tx, to, amount)
			if nil != err {
				return err
			}
		}

		f.log.Debugf("transfer: %d from: %s to: %s", amount, from, to)

		f.RLock()
		receiver := f.receivers[string(to.Bytes())]
		f.RUnlock()

		if nil == receiver {
			return nil
		}

		err := receiver.Receive(ctx, from, amount)
		if nil == err {
			return nil
		}
		f.log.Warnf("receiver: %s rejected: %d error: %s", to, amount, err)
		if fault.IsErrFund(err) {
			return err
		}
		return fault.ReceiverRejectedFunds
	})
}

func credit(tx *ledger.Tx, acct *account.Account, amount uint64) error {
	pool := tx.Pool()
	balance, _ := tx.GetN(pool.Balances, acct.Bytes())
	if balance+amount < balance {
		return fault.BalanceOverflow
	}
	tx.PutN(pool.Balances, acct.Bytes(), balance+amount)
	return nil
}
