// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var (
	minter = thor.Address{0xff}
	alice  = thor.Address{1}
	bob    = thor.Address{2}
)

func newToken(t *testing.T) (*Token, *xenv.Environment) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	tok := New(thor.Address{0xaa}, "DEP", st)
	tok.SetMinter(minter)
	return tok, xenv.New(st, &xenv.BlockContext{Number: 1, Time: 1000}, minter)
}

func balanceOf(t *testing.T, tok *Token, env *xenv.Environment, addr thor.Address) *big.Int {
	bal, err := tok.BalanceOf(env, addr)
	require.NoError(t, err)
	return bal
}

func TestMint(t *testing.T) {
	tok, env := newToken(t)

	require.NoError(t, tok.Mint(env, alice, thor.Units(10)))
	assert.Equal(t, thor.Units(10), balanceOf(t, tok, env, alice))
	supply, err := tok.TotalSupply(env)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(10), supply)

	err = tok.Mint(env.WithCaller(alice), alice, thor.Units(1))
	assert.Equal(t, reverts.Authorization, reverts.KindOf(err))

	logs := env.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, events.Transfer{To: alice, Amount: thor.Units(10)}, logs[0].Event)
}

func TestTransfer(t *testing.T) {
	tok, env := newToken(t)
	require.NoError(t, tok.Mint(env, alice, thor.Units(10)))

	asAlice := env.WithCaller(alice)
	require.NoError(t, tok.Transfer(asAlice, bob, thor.Units(3)))
	assert.Equal(t, thor.Units(7), balanceOf(t, tok, env, alice))
	assert.Equal(t, thor.Units(3), balanceOf(t, tok, env, bob))

	err := tok.Transfer(asAlice, bob, thor.Units(8))
	assert.Equal(t, reverts.Transfer, reverts.KindOf(err))

	err = tok.Transfer(asAlice, thor.Address{}, thor.Units(1))
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))
}

func TestTransferFrom(t *testing.T) {
	tok, env := newToken(t)
	require.NoError(t, tok.Mint(env, alice, thor.Units(10)))

	asBob := env.WithCaller(bob)
	err := tok.TransferFrom(asBob, alice, bob, thor.Units(1))
	assert.Equal(t, reverts.Transfer, reverts.KindOf(err), "no allowance")

	require.NoError(t, tok.Approve(env.WithCaller(alice), bob, thor.Units(4)))
	require.NoError(t, tok.TransferFrom(asBob, alice, bob, thor.Units(3)))

	allowance, err := tok.Allowance(env, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(1), allowance)
	assert.Equal(t, thor.Units(3), balanceOf(t, tok, env, bob))

	err = tok.TransferFrom(asBob, alice, bob, thor.Units(2))
	assert.Equal(t, reverts.Transfer, reverts.KindOf(err))
}
