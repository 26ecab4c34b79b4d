// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eligibility

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/builtin/vault/shares"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
)

var (
	token = thor.Address{0xa}
	alice = thor.Address{1}
	bob   = thor.Address{2}
)

type fixture struct {
	t      *testing.T
	book   *shares.Book
	ledger *rewards.Ledger
	layer  *Layer
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := solidity.NewContext(thor.Address{0xee}, state.New(db))
	book := shares.New(ctx)
	ledger := rewards.New(ctx)
	require.NoError(t, ledger.Register(token, rewards.TokenConfig{EscrowPortion: new(big.Int)}))
	return &fixture{t: t, book: book, ledger: ledger, layer: New(ctx, book, ledger)}
}

func (f *fixture) distribute(amount *big.Int) {
	supply, err := f.layer.AdjustedTotalSupply()
	require.NoError(f.t, err)
	require.NoError(f.t, f.ledger.Allocate(token, amount, supply))
}

func (f *fixture) withdrawable(account thor.Address) *big.Int {
	bal, err := f.layer.AdjustedBalanceOf(account)
	require.NoError(f.t, err)
	v, err := f.ledger.WithdrawableRewardsOf(token, account, bal)
	require.NoError(f.t, err)
	return v
}

// checkSupply asserts AdjustedTotalSupply + blacklisted amounts == TotalSupply.
func (f *fixture) checkSupply(accounts ...thor.Address) {
	adjusted, err := f.layer.AdjustedTotalSupply()
	require.NoError(f.t, err)
	total, err := f.book.TotalSupply()
	require.NoError(f.t, err)
	sum := new(big.Int).Set(adjusted)
	for _, account := range accounts {
		entry, err := f.layer.Entry(account)
		require.NoError(f.t, err)
		sum.Add(sum, entry.Amount)
	}
	assert.Equal(f.t, 0, sum.Cmp(total), "adjusted %v total %v", adjusted, total)
}

func TestBlacklistConservation(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.layer.Mint(alice, thor.Units(100)))
	require.NoError(t, f.layer.Mint(bob, thor.Units(50)))

	totalBefore, err := f.book.TotalSupply()
	require.NoError(t, err)

	amount, err := f.layer.Add(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(100), amount)

	totalAfter, err := f.book.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, totalBefore, totalAfter)

	adjusted, err := f.layer.AdjustedTotalSupply()
	require.NoError(t, err)
	assert.Equal(t, thor.Units(50), adjusted)
	f.checkSupply(alice, bob)

	_, err = f.layer.Add(alice)
	assert.Equal(t, reverts.State, reverts.KindOf(err))

	amount, err = f.layer.Remove(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(100), amount)
	adjusted, err = f.layer.AdjustedTotalSupply()
	require.NoError(t, err)
	assert.Equal(t, thor.Units(150), adjusted)
	f.checkSupply(alice, bob)

	_, err = f.layer.Remove(alice)
	assert.Equal(t, reverts.State, reverts.KindOf(err))
}

func TestBlacklistedAccrualIsFrozen(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.layer.Mint(alice, thor.Units(100)))
	require.NoError(t, f.layer.Mint(bob, thor.Units(50)))

	f.distribute(thor.Units(15))
	assert.Equal(t, thor.Units(10), f.withdrawable(alice))

	_, err := f.layer.Add(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(10), f.withdrawable(alice), "accrual kept at blacklist time")

	// full distribution goes to the 50 eligible shares
	f.distribute(thor.Units(30))
	assert.Equal(t, thor.Units(10), f.withdrawable(alice))
	assert.Equal(t, thor.Units(35), f.withdrawable(bob))

	// mint and burn while blacklisted only move the excluded amount
	require.NoError(t, f.layer.Mint(alice, thor.Units(20)))
	require.NoError(t, f.layer.Burn(alice, thor.Units(40)))
	entry, err := f.layer.Entry(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(80), entry.Amount)
	f.checkSupply(alice, bob)

	_, err = f.layer.Remove(alice)
	require.NoError(t, err)
	assert.Equal(t, thor.Units(10), f.withdrawable(alice), "nothing earned while blacklisted")

	f.distribute(thor.Units(13))
	assert.Equal(t, thor.Units(18), f.withdrawable(alice))
	assert.Equal(t, thor.Units(40), f.withdrawable(bob))
	f.checkSupply(alice, bob)
}
