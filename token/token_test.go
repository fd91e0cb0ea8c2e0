// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token_test

import (
	"context"
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/account"
	"github.com/bitmark-inc/escrowd/custody"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/ledger"
	"github.com/bitmark-inc/escrowd/storage"
	"github.com/bitmark-inc/escrowd/token"
	"github.com/bitmark-inc/logger"
)

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "token-test")
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

// the demonstration registry is a custody provider
var _ custody.Provider = &token.Token{}

type fixture struct {
	ledger *ledger.Ledger
	token  *token.Token
	minter *account.Account
	alice  *account.Account
	bob    *account.Account
	carol  *account.Account
	close  func()
}

func newAccount(t *testing.T) *account.Account {
	privateKey, err := account.NewPrivateKey(true)
	if nil != err {
		t.Fatalf("new private key error: %s", err)
	}
	return privateKey.Account()
}

func setupToken(t *testing.T) *fixture {
	store, err := storage.OpenMemory()
	if nil != err {
		t.Fatalf("open memory error: %s", err)
	}
	l := ledger.New(logger.New("testing"), store)
	f := &fixture{
		ledger: l,
		minter: newAccount(t),
		alice:  newAccount(t),
		bob:    newAccount(t),
		carol:  newAccount(t),
		close:  store.Close,
	}
	f.token = token.New(logger.New("testing"), l, "art", f.minter, false)
	return f
}

func TestMint(t *testing.T) {
	f := setupToken(t)
	defer f.close()

	ctx := context.Background()

	assert.Equal(t, fault.NotAuthorisedMinter, f.token.Mint(ctx, f.alice, f.alice, 1), "not minter")
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.alice, 1), "mint")
	assert.Equal(t, fault.AssetAlreadyExists, f.token.Mint(ctx, f.minter, f.bob, 1), "duplicate")
	assert.Equal(t, fault.InvalidAccount, f.token.Mint(ctx, f.minter, nil, 2), "nil owner")

	owner, err := f.token.OwnerOf(ctx, 1)
	assert.Nil(t, err, "owner of")
	assert.True(t, f.alice.Equal(owner), "owner")

	_, err = f.token.OwnerOf(ctx, 2)
	assert.Equal(t, fault.AssetNotFound, err, "unknown asset")
}

func TestMintOpenOnTesting(t *testing.T) {
	f := setupToken(t)
	defer f.close()

	ctx := context.Background()

	open := token.New(logger.New("testing"), f.ledger, "open", nil, true)
	assert.Nil(t, open.Mint(ctx, f.alice, f.alice, 1), "anyone on testing")

	closed := token.New(logger.New("testing"), f.ledger, "closed", nil, false)
	assert.Equal(t, fault.NotAuthorisedMinter, closed.Mint(ctx, f.alice, f.alice, 1), "nobody on live")

	// contracts have separate namespaces
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.bob, 1), "same id other contract")
	owner, _ := open.OwnerOf(ctx, 1)
	assert.True(t, f.alice.Equal(owner), "open owner")
	owner, _ = f.token.OwnerOf(ctx, 1)
	assert.True(t, f.bob.Equal(owner), "art owner")
}

func TestTransferByOwner(t *testing.T) {
	f := setupToken(t)
	defer f.close()

	ctx := context.Background()
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.alice, 7), "mint")

	err := f.token.TransferFrom(ctx, f.bob, f.bob, f.carol, 7)
	assert.Equal(t, fault.TransferFromNotOwner, err, "wrong from")
	assert.True(t, fault.IsErrCustody(err), "custody class")

	assert.Equal(t, fault.AssetNotFound, f.token.TransferFrom(ctx, f.alice, f.alice, f.bob, 8), "unknown asset")

	assert.Nil(t, f.token.TransferFrom(ctx, f.alice, f.alice, f.bob, 7), "owner transfer")
	owner, _ := f.token.OwnerOf(ctx, 7)
	assert.True(t, f.bob.Equal(owner), "new owner")
}

func TestApprove(t *testing.T) {
	f := setupToken(t)
	defer f.close()

	ctx := context.Background()
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.alice, 7), "mint")

	assert.Equal(t, fault.TransferNotAuthorised, f.token.TransferFrom(ctx, f.bob, f.alice, f.bob, 7), "not approved")

	assert.Equal(t, fault.NotAssetOwnerOrOperator, f.token.Approve(ctx, f.bob, f.bob, 7), "only owner approves")
	assert.Nil(t, f.token.Approve(ctx, f.alice, f.bob, 7), "approve")

	approved, err := f.token.GetApproved(ctx, 7)
	assert.Nil(t, err, "get approved")
	assert.True(t, f.bob.Equal(approved), "approved account")

	assert.Equal(t, fault.TransferNotAuthorised, f.token.TransferFrom(ctx, f.carol, f.alice, f.carol, 7), "other account")
	assert.Nil(t, f.token.TransferFrom(ctx, f.bob, f.alice, f.carol, 7), "approved transfer")

	approved, err = f.token.GetApproved(ctx, 7)
	assert.Nil(t, err, "get approved after transfer")
	assert.Nil(t, approved, "approval cleared by transfer")

	assert.Equal(t, fault.TransferFromNotOwner, f.token.TransferFrom(ctx, f.bob, f.alice, f.bob, 7), "approval used")

	_, err = f.token.GetApproved(ctx, 99)
	assert.Equal(t, fault.AssetNotFound, err, "unknown asset")
}

func TestApproveClear(t *testing.T) {
	f := setupToken(t)
	defer f.close()

	ctx := context.Background()
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.alice, 7), "mint")
	assert.Nil(t, f.token.Approve(ctx, f.alice, f.bob, 7), "approve")
	assert.Nil(t, f.token.Approve(ctx, f.alice, nil, 7), "clear")

	assert.Equal(t, fault.TransferNotAuthorised, f.token.TransferFrom(ctx, f.bob, f.alice, f.bob, 7), "cleared")
}

func TestOperator(t *testing.T) {
	f := setupToken(t)
	defer f.close()

	ctx := context.Background()
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.alice, 1), "mint 1")
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.alice, 2), "mint 2")

	approved, err := f.token.IsApprovedForAll(ctx, f.alice, f.bob)
	assert.Nil(t, err, "is approved")
	assert.False(t, approved, "not yet")

	assert.Nil(t, f.token.SetApprovalForAll(ctx, f.alice, f.bob, true), "set operator")
	approved, _ = f.token.IsApprovedForAll(ctx, f.alice, f.bob)
	assert.True(t, approved, "operator")

	// operator may approve and transfer
	assert.Nil(t, f.token.Approve(ctx, f.bob, f.carol, 2), "operator approves")
	assert.Nil(t, f.token.TransferFrom(ctx, f.bob, f.alice, f.bob, 1), "operator transfer")

	assert.Nil(t, f.token.SetApprovalForAll(ctx, f.alice, f.bob, false), "revoke operator")
	approved, _ = f.token.IsApprovedForAll(ctx, f.alice, f.bob)
	assert.False(t, approved, "revoked")

	assert.Equal(t, fault.TransferNotAuthorised, f.token.TransferFrom(ctx, f.bob, f.alice, f.bob, 2), "revoked transfer")
	assert.Nil(t, f.token.TransferFrom(ctx, f.carol, f.alice, f.carol, 2), "single approval survives")

	assert.Equal(t, fault.InvalidAccount, f.token.SetApprovalForAll(ctx, nil, f.bob, true), "nil owner")
}

func TestTransferRollsBack(t *testing.T) {
	f := setupToken(t)
	defer f.close()

	ctx := context.Background()
	assert.Nil(t, f.token.Mint(ctx, f.minter, f.alice, 1), "mint")
	assert.Nil(t, f.token.Approve(ctx, f.alice, f.carol, 1), "approve")

	err := f.ledger.Execute(ctx, func(ctx context.Context, tx *ledger.Tx) error {
		assert.Nil(t, f.token.TransferFrom(ctx, f.alice, f.alice, f.bob, 1), "transfer")
		return fault.InvalidItem
	})
	assert.Equal(t, fault.InvalidItem, err, "aborted")

	owner, _ := f.token.OwnerOf(ctx, 1)
	assert.True(t, f.alice.Equal(owner), "owner restored")
	approved, _ := f.token.GetApproved(ctx, 1)
	assert.True(t, f.carol.Equal(approved), "approval restored")
}
