// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package funds_test

import (
	"context"
	"io/ioutil"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/funds"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "funds-test")
	if nil != err {
		panic(err)
	}

	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})

	rc := m.Run()

	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

func setupFunds(t *testing.T) (*funds.Funds, *ledger.Ledger, func()) {
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory error: %s", err)
	}
	l := ledger.New(logger.New("testing"), store)
	return funds.New(logger.New("testing"), l), l, store.Close
}

func newAccount(t *testing.T) *account.Account {
	privateKey, err := account.NewPrivateKey(true)
	if nil != err {
		t.Fatalf("new private key error: %s", err)
	}
	return privateKey.Account()
}

func assertBalance(t *testing.T, f *funds.Funds, acct *account.Account, expected uint64, message string) {
	balance, err := f.Balance(context.Background(), acct)
	assert.Nil(t, err, message)
	assert.Equal(t, expected, balance, message)
}

// receiver that records calls and returns a fixed result
type recordingReceiver struct {
	calls  int
	from   *account.Account
	amount uint64
	err    error
}

func (r *recordingReceiver) Receive(ctx context.Context, from *account.Account, amount uint64) error {
	r.calls += 1
	r.from = from
	r.amount = amount
	return r.err
}

func TestDeposit(t *testing.T) {
	f, _, done := setupFunds(t)
	defer done()

	alice := newAccount(t)

	assertBalance(t, f, alice, 0, "initial")
	assert.Nil(t, f.Deposit(context.Background(), alice, 100), "deposit")
	assert.Nil(t, f.Deposit(context.Background(), alice, 50), "deposit")
	assertBalance(t, f, alice, 150, "after deposit")

	assert.Equal(t, fault.ZeroAmount, f.Deposit(context.Background(), alice, 0), "zero deposit")
	assert.Equal(t, fault.InvalidAccount, f.Deposit(context.Background(), nil, 1), "nil account")

	assert.Equal(t, fault.BalanceOverflow, f.Deposit(context.Background(), alice, math.MaxUint64), "overflow")
	assertBalance(t, f, alice, 150, "after overflow")
}

func TestTransfer(t *testing.T) {
	f, _, done := setupFunds(t)
	defer done()

	alice := newAccount(t)
	bob := newAccount(t)

	assert.Nil(t, f.Deposit(context.Background(), alice, 100), "deposit")

	assert.Nil(t, f.Transfer(context.Background(), alice, bob, 60), "transfer")
	assertBalance(t, f, alice, 40, "alice")
	assertBalance(t, f, bob, 60, "bob")

	err := f.Transfer(context.Background(), alice, bob, 41)
	assert.Equal(t, fault.InsufficientFunds, err, "insufficient")
	assert.True(t, fault.IsErrFund(err), "fund class")
	assertBalance(t, f, alice, 40, "alice unchanged")
	assertBalance(t, f, bob, 60, "bob unchanged")

	assert.Nil(t, f.Transfer(context.Background(), alice, alice, 40), "self transfer")
	assertBalance(t, f, alice, 40, "self transfer unchanged")

	assert.Nil(t, f.Transfer(context.Background(), bob, alice, 0), "zero transfer")
	assertBalance(t, f, bob, 60, "zero transfer unchanged")
}

func TestReceiverAccepts(t *testing.T) {
	f, _, done := setupFunds(t)
	defer done()

	alice := newAccount(t)
	bob := newAccount(t)
	receiver := &recordingReceiver{}
	f.Register(bob, receiver)

	assert.Nil(t, f.Deposit(context.Background(), alice, 10), "deposit")
	assert.Nil(t, f.Transfer(context.Background(), alice, bob, 7), "transfer")

	assert.Equal(t, 1, receiver.calls, "called once")
	assert.True(t, alice.Equal(receiver.from), "from")
	assert.Equal(t, uint64(7), receiver.amount, "amount")

	f.Unregister(bob)
	assert.Nil(t, f.Transfer(context.Background(), alice, bob, 1), "transfer")
	assert.Equal(t, 1, receiver.calls, "not called after unregister")
}

func TestReceiverRejects(t *testing.T) {
	f, _, done := setupFunds(t)
	defer done()

	alice := newAccount(t)
	bob := newAccount(t)
	f.Register(bob, &recordingReceiver{err: fault.InvalidItem})

	assert.Nil(t, f.Deposit(context.Background(), alice, 10), "deposit")

	err := f.Transfer(context.Background(), alice, bob, 7)
	assert.Equal(t, fault.ReceiverRejectedFunds, err, "rejected")
	assertBalance(t, f, alice, 10, "alice refunded")
	assertBalance(t, f, bob, 0, "bob not credited")
}

// a receiver that reads its own balance during the hook
type balanceReceiver struct {
	f       *funds.Funds
	self    *account.Account
	balance uint64
}

func (r *balanceReceiver) Receive(ctx context.Context, from *account.Account, amount uint64) error {
	balance, err := r.f.Balance(ctx, r.self)
	r.balance = balance
	return err
}

func TestReceiverSeesCredit(t *testing.T) {
	f, _, done := setupFunds(t)
	defer done()

	alice := newAccount(t)
	bob := newAccount(t)
	receiver := &balanceReceiver{f: f, self: bob}
	f.Register(bob, receiver)

	assert.Nil(t, f.Deposit(context.Background(), alice, 10), "deposit")
	assert.Nil(t, f.Transfer(context.Background(), alice, bob, 4), "transfer")
	assert.Equal(t, uint64(4), receiver.balance, "credit visible inside hook")
}

func TestTransferJoinsTransaction(t *testing.T) {
	f, l, done := setupFunds(t)
	defer done()

	alice := newAccount(t)
	bob := newAccount(t)
	assert.Nil(t, f.Deposit(context.Background(), alice, 10), "deposit")

	err := l.Execute(context.Background(), func(ctx context.Context, tx *ledger.Tx) error {
		err := f.Transfer(ctx, alice, bob, 10)
		assert.Nil(t, err, "inner transfer")
		return fault.InvalidItem
	})
	assert.Equal(t, fault.InvalidItem, err, "outer error")
	assertBalance(t, f, alice, 10, "alice restored")
	assertBalance(t, f, bob, 0, "bob restored")
}
