// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/token"
	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var (
	minter = thor.BytesToAddress([]byte("minter"))
	alice  = thor.BytesToAddress([]byte("alice"))
	bob    = thor.BytesToAddress([]byte("bob"))
)

func newRuntime(t *testing.T) (*runtime.Runtime, *token.Token) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(db)
	tok := rt.NewToken(thor.BytesToAddress([]byte("tok")), "TOK")
	_, err = rt.Execute(xenv.BlockContext{Number: 1, Time: 100}, minter, "mint", func(env *xenv.Environment) error {
		tok.SetMinter(minter)
		return tok.Mint(env, alice, thor.Units(10))
	})
	require.NoError(t, err)
	return rt, tok
}

func balanceOf(t *testing.T, rt *runtime.Runtime, tok *token.Token, owner thor.Address) *big.Int {
	var bal *big.Int
	require.NoError(t, rt.View(func(env *xenv.Environment) (err error) {
		bal, err = tok.BalanceOf(env, owner)
		return
	}))
	return bal
}

func TestExecuteReceipt(t *testing.T) {
	rt, tok := newRuntime(t)

	block := xenv.BlockContext{Number: 2, Time: 200}
	receipt, err := rt.Execute(block, alice, "transfer", func(env *xenv.Environment) error {
		return tok.Transfer(env, bob, thor.Units(4))
	})
	require.NoError(t, err)

	assert.Equal(t, "transfer", receipt.Op)
	assert.Equal(t, alice, receipt.Caller)
	assert.Equal(t, uint32(2), receipt.BlockNumber)
	assert.Equal(t, uint64(200), receipt.BlockTime)
	transfers := receipt.Find(events.Transfer{}.Name())
	require.Len(t, transfers, 1)
	assert.Equal(t, tok.Address(), transfers[0].Address)
	assert.Equal(t, bob, transfers[0].Data.(events.Transfer).To)
	assert.Empty(t, receipt.Find("Approval"))

	assert.Equal(t, block, rt.Block())
	assert.Equal(t, 0, balanceOf(t, rt, tok, bob).Cmp(thor.Units(4)))
}

func TestExecuteRevertsAll(t *testing.T) {
	rt, tok := newRuntime(t)

	_, err := rt.Execute(xenv.BlockContext{Number: 2, Time: 200}, alice, "transfer", func(env *xenv.Environment) error {
		if err := tok.Transfer(env, bob, thor.Units(4)); err != nil {
			return err
		}
		// second transfer overdraws, the first one must be undone too
		return tok.Transfer(env, bob, thor.Units(7))
	})
	assert.Equal(t, reverts.Transfer, reverts.KindOf(err))
	assert.Equal(t, 0, balanceOf(t, rt, tok, bob).Sign())
	assert.Equal(t, 0, balanceOf(t, rt, tok, alice).Cmp(thor.Units(10)))

	_, err = rt.Execute(xenv.BlockContext{Number: 3, Time: 300}, alice, "broken", func(env *xenv.Environment) error {
		if err := tok.Transfer(env, bob, thor.Units(1)); err != nil {
			return err
		}
		return errors.New("storage failure")
	})
	assert.False(t, reverts.IsRevertErr(err))
	assert.Equal(t, 0, balanceOf(t, rt, tok, bob).Sign())
}

func TestExecuteRejectsPastBlocks(t *testing.T) {
	rt, tok := newRuntime(t)

	_, err := rt.Execute(xenv.BlockContext{Number: 1, Time: 99}, alice, "transfer", func(env *xenv.Environment) error {
		return tok.Transfer(env, bob, thor.Units(1))
	})
	assert.ErrorContains(t, err, "behind the current block")

	// same block is fine
	_, err = rt.Execute(xenv.BlockContext{Number: 1, Time: 100}, alice, "transfer", func(env *xenv.Environment) error {
		return tok.Transfer(env, bob, thor.Units(1))
	})
	assert.NoError(t, err)
}

func TestViewDiscardsChanges(t *testing.T) {
	rt, tok := newRuntime(t)

	err := rt.View(func(env *xenv.Environment) error {
		return tok.Transfer(env.WithCaller(alice), bob, thor.Units(1))
	})
	require.NoError(t, err)
	assert.Equal(t, 0, balanceOf(t, rt, tok, bob).Sign())
}

func TestVaults(t *testing.T) {
	rt, tok := newRuntime(t)

	cfg := vault.Config{DepositToken: tok.Address(), MaxLockDuration: thor.Year}
	a, b := thor.BytesToAddress([]byte{2}), thor.BytesToAddress([]byte{1})
	_, err := rt.NewVault(a, cfg)
	require.NoError(t, err)
	_, err = rt.NewVault(b, cfg)
	require.NoError(t, err)
	_, err = rt.NewVault(a, cfg)
	assert.Error(t, err)

	_, err = rt.NewVault(thor.BytesToAddress([]byte{3}), vault.Config{MaxLockDuration: thor.Year})
	assert.Error(t, err, "deposit token is required")

	assert.Equal(t, []thor.Address{b, a}, rt.Vaults())
	v, ok := rt.Vault(a)
	require.True(t, ok)
	assert.Equal(t, vault.DefaultMinLockDuration, v.Config().MinLockDuration)

	target, err := rt.EscrowTarget(b)
	require.NoError(t, err)
	assert.Equal(t, b, target.Address())

	_, err = rt.Token(bob)
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))
	_, err = rt.BadgeToken(bob)
	assert.Error(t, err)
}

func TestCommitPersists(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	addr := thor.BytesToAddress([]byte("tok"))
	rt := runtime.New(db)
	tok := rt.NewToken(addr, "TOK")
	_, err = rt.Execute(xenv.BlockContext{Number: 1, Time: 1}, minter, "mint", func(env *xenv.Environment) error {
		tok.SetMinter(minter)
		return tok.Mint(env, alice, big.NewInt(7))
	})
	require.NoError(t, err)
	require.NoError(t, rt.Commit())

	reopened := runtime.New(db)
	tok2 := reopened.NewToken(addr, "TOK")
	assert.Equal(t, 0, balanceOf(t, reopened, tok2, alice).Cmp(big.NewInt(7)))
}
