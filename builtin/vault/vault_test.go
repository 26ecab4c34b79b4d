// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault_test

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/builtin/access"
	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/builtin/vault/escrow"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/genesis"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/test/testchain"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var million = thor.Units(1_000_000)

type fixture struct {
	t        *testing.T
	chain    *testchain.Chain
	vault    *vault.Vault
	escrow   *vault.Vault
	accounts []thor.Address
}

func newFixture(t *testing.T) *fixture {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	v, err := chain.Vault(genesis.DevVault)
	require.NoError(t, err)
	e, err := chain.Vault(genesis.DevEscrowVault)
	require.NoError(t, err)
	return &fixture{t: t, chain: chain, vault: v, escrow: e, accounts: genesis.DevAccounts()}
}

func (f *fixture) admin() thor.Address { return f.accounts[0] }

func (f *fixture) exec(caller thor.Address, fn func(env *xenv.Environment) error) (*runtime.Receipt, error) {
	return f.chain.Execute(caller, "test", fn)
}

// deposit approves and deposits in one transaction.
func (f *fixture) deposit(account thor.Address, amount *big.Int, duration uint64) error {
	tok, err := f.chain.Token(genesis.DevToken)
	require.NoError(f.t, err)
	_, err = f.exec(account, func(env *xenv.Environment) error {
		if err := tok.Approve(env, genesis.DevVault, amount); err != nil {
			return err
		}
		return f.vault.Deposit(env, amount, duration, account)
	})
	return err
}

func (f *fixture) distribute(amount *big.Int) error {
	tok, err := f.chain.Token(genesis.DevRewardToken)
	require.NoError(f.t, err)
	_, err = f.exec(f.admin(), func(env *xenv.Environment) error {
		if err := tok.Approve(env, genesis.DevVault, amount); err != nil {
			return err
		}
		return f.vault.Distribute(env, genesis.DevRewardToken, amount)
	})
	return err
}

func (f *fixture) balance(token, account thor.Address) *big.Int {
	bal, err := f.chain.BalanceOf(token, account)
	require.NoError(f.t, err)
	return bal
}

func (f *fixture) shares(v *vault.Vault, account thor.Address) *big.Int {
	var bal *big.Int
	require.NoError(f.t, f.chain.View(func(*xenv.Environment) (err error) {
		bal, err = v.BalanceOf(account)
		return
	}))
	return bal
}

func (f *fixture) withdrawable(account thor.Address) *big.Int {
	var amount *big.Int
	require.NoError(f.t, f.chain.View(func(*xenv.Environment) (err error) {
		amount, err = f.vault.WithdrawableRewardsOf(genesis.DevRewardToken, account)
		return
	}))
	return amount
}

func (f *fixture) deposits(v *vault.Vault, account thor.Address) []depositView {
	var out []depositView
	require.NoError(f.t, f.chain.View(func(*xenv.Environment) error {
		ds, err := v.DepositsOf(account)
		for _, d := range ds {
			out = append(out, depositView{Amount: d.Amount, Duration: d.Duration(), BadgeBoost: d.BadgeBoost})
		}
		return err
	}))
	return out
}

type depositView struct {
	Amount     *big.Int
	Duration   uint64
	BadgeBoost *big.Int
}

func assertBig(t *testing.T, want, got *big.Int, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, 0, want.Cmp(got), append([]any{"want %v got %v", want, got}, msgAndArgs...)...)
}

func TestGetMultiplier(t *testing.T) {
	f := newFixture(t)

	assertBig(t, thor.Scale(), f.vault.GetMultiplier(0))
	assertBig(t, big.NewInt(15e17), f.vault.GetMultiplier(2*thor.Year))
	assertBig(t, big.NewInt(2e18), f.vault.GetMultiplier(4*thor.Year))
	assertBig(t, big.NewInt(2e18), f.vault.GetMultiplier(40*thor.Year))
}

func TestDepositWithdraw(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	require.NoError(t, f.deposit(alice, thor.Units(10), 4*thor.Year))
	assertBig(t, thor.Units(20), f.shares(f.vault, alice))
	assertBig(t, new(big.Int).Sub(million, thor.Units(10)), f.balance(genesis.DevToken, alice))

	f.chain.Advance(4*thor.Year - 1)
	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Withdraw(env, 0, alice)
	})
	assert.ErrorContains(t, err, "too soon")
	assert.Equal(t, reverts.State, reverts.KindOf(err))

	f.chain.Advance(1)
	receipt, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Withdraw(env, 0, alice)
	})
	require.NoError(t, err)
	assert.Len(t, receipt.Find(events.Withdrawn{}.Name()), 1)

	assert.Equal(t, 0, f.shares(f.vault, alice).Sign())
	assertBig(t, million, f.balance(genesis.DevToken, alice))
	assert.Empty(t, f.deposits(f.vault, alice))
}

func TestDepositClampsDuration(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	require.NoError(t, f.deposit(alice, thor.Units(1), 1))
	require.NoError(t, f.deposit(alice, thor.Units(1), 100*thor.Year))

	ds := f.deposits(f.vault, alice)
	require.Len(t, ds, 2)
	assert.Equal(t, vault.DefaultMinLockDuration, ds[0].Duration)
	assert.Equal(t, 4*thor.Year, ds[1].Duration)
}

func TestDepositValidation(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	err := f.deposit(alice, new(big.Int), thor.Year)
	assert.ErrorContains(t, err, "cannot deposit 0")
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))

	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Deposit(env, thor.Units(1), thor.Year, thor.Address{})
	})
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))

	// no allowance
	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Deposit(env, thor.Units(1), thor.Year, alice)
	})
	assert.Equal(t, reverts.Transfer, reverts.KindOf(err))
}

func TestWithdrawUnknownDeposit(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Withdraw(env, 3, alice)
	})
	assert.ErrorContains(t, err, "does not exist")
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))
}

func TestWithdrawMovesLastDeposit(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	require.NoError(t, f.deposit(alice, thor.Units(1), thor.Day))
	require.NoError(t, f.deposit(alice, thor.Units(2), thor.Year))
	require.NoError(t, f.deposit(alice, thor.Units(3), 2*thor.Year))

	f.chain.Advance(thor.Day)
	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Withdraw(env, 0, alice)
	})
	require.NoError(t, err)

	ds := f.deposits(f.vault, alice)
	require.Len(t, ds, 2)
	assertBig(t, thor.Units(3), ds[0].Amount)
	assertBig(t, thor.Units(2), ds[1].Amount)
}

func TestRewardsEscrowSplit(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	require.NoError(t, f.deposit(alice, thor.Units(100), 4*thor.Year))
	require.NoError(t, f.distribute(thor.Units(1337)))
	assertBig(t, thor.Units(1337), f.withdrawable(alice))

	var claim *escrow.Claim
	receipt, err := f.exec(alice, func(env *xenv.Environment) (err error) {
		claim, err = f.vault.ClaimRewards(env, genesis.DevRewardToken, alice)
		return
	})
	require.NoError(t, err)

	escrowed := new(big.Int).Mul(big.NewInt(8022), big.NewInt(1e17))
	direct := new(big.Int).Mul(big.NewInt(5348), big.NewInt(1e17))
	assertBig(t, escrowed, claim.Escrowed)
	assertBig(t, direct, claim.Direct)
	assert.Len(t, receipt.Find(events.RewardsClaimed{}.Name()), 1)

	assertBig(t, new(big.Int).Add(million, direct), f.balance(genesis.DevRewardToken, alice))
	assert.Equal(t, 0, f.withdrawable(alice).Sign())

	// the escrowed part is locked in the escrow vault for a year
	ds := f.deposits(f.escrow, alice)
	require.Len(t, ds, 1)
	assertBig(t, escrowed, ds[0].Amount)
	assert.Equal(t, thor.Year, ds[0].Duration)
	assertBig(t, new(big.Int).Mul(escrowed, big.NewInt(2)), f.shares(f.escrow, alice))
	assertBig(t, escrowed, f.balance(genesis.DevRewardToken, genesis.DevEscrowVault))
}

func TestClaimAllIdempotent(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	require.NoError(t, f.deposit(alice, thor.Units(10), thor.Year))
	require.NoError(t, f.distribute(thor.Units(5)))

	claimAll := func() []*escrow.Claim {
		var claims []*escrow.Claim
		_, err := f.exec(alice, func(env *xenv.Environment) (err error) {
			claims, err = f.vault.ClaimAll(env, alice)
			return
		})
		require.NoError(t, err)
		return claims
	}

	first := claimAll()
	require.Len(t, first, 1)
	assert.Positive(t, first[0].Direct.Sign())
	balance := f.balance(genesis.DevRewardToken, alice)

	second := claimAll()
	require.Len(t, second, 1)
	assert.Equal(t, 0, second[0].Escrowed.Sign())
	assert.Equal(t, 0, second[0].Direct.Sign())
	assertBig(t, balance, f.balance(genesis.DevRewardToken, alice))
	assert.Len(t, f.deposits(f.escrow, alice), 1)
}

func TestDistributeWithoutShares(t *testing.T) {
	f := newFixture(t)

	err := f.distribute(thor.Units(1))
	assert.ErrorContains(t, err, "zero share supply")
	assertBig(t, million, f.balance(genesis.DevRewardToken, f.admin()))
}

func TestKickExpiredDeposit(t *testing.T) {
	f := newFixture(t)
	alice, kicker := f.accounts[1], f.accounts[2]
	kick := func() error {
		_, err := f.exec(kicker, func(env *xenv.Environment) error {
			return f.vault.KickExpiredDeposit(env, alice, 0)
		})
		return err
	}

	require.NoError(t, f.deposit(alice, thor.Units(100), 0))
	assert.ErrorContains(t, kick(), "too soon")

	// inside the grace period the kicker earns nothing
	f.chain.Advance(vault.DefaultMinLockDuration + thor.Week - 1)
	require.NoError(t, kick())
	assertBig(t, million, f.balance(genesis.DevToken, alice))
	assertBig(t, million, f.balance(genesis.DevToken, kicker))
	assert.Equal(t, 0, f.shares(f.vault, alice).Sign())

	// past it the kicker takes 1%
	require.NoError(t, f.deposit(alice, thor.Units(100), 0))
	f.chain.Advance(vault.DefaultMinLockDuration + thor.Week)
	require.NoError(t, kick())
	assertBig(t, new(big.Int).Sub(million, thor.Units(1)), f.balance(genesis.DevToken, alice))
	assertBig(t, new(big.Int).Add(million, thor.Units(1)), f.balance(genesis.DevToken, kicker))
	assert.Empty(t, f.deposits(f.vault, alice))
}

func TestProcessExpiredLock(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	require.NoError(t, f.deposit(alice, thor.Units(10), 0))
	f.chain.Advance(vault.DefaultMinLockDuration)

	receipt, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.ProcessExpiredLock(env, 0, 4*thor.Year)
	})
	require.NoError(t, err)
	assert.Len(t, receipt.Find(events.ExpiredLockProcessed{}.Name()), 1)

	ds := f.deposits(f.vault, alice)
	require.Len(t, ds, 1)
	assertBig(t, thor.Units(10), ds[0].Amount)
	assert.Equal(t, 4*thor.Year, ds[0].Duration)
	assertBig(t, thor.Units(20), f.shares(f.vault, alice))
	assertBig(t, new(big.Int).Sub(million, thor.Units(10)), f.balance(genesis.DevToken, alice))
}

func TestProcessExpiredLockPastGrace(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	require.NoError(t, f.deposit(alice, thor.Units(100), 0))
	f.chain.Advance(vault.DefaultMinLockDuration + thor.Week)

	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.ProcessExpiredLock(env, 0, 4*thor.Year)
	})
	require.NoError(t, err)

	// the 1% incentive comes out of the principal and goes to the caller
	ds := f.deposits(f.vault, alice)
	require.Len(t, ds, 1)
	assertBig(t, thor.Units(99), ds[0].Amount)
	assert.Equal(t, 4*thor.Year, ds[0].Duration)
	assertBig(t, thor.Units(198), f.shares(f.vault, alice))
	assertBig(t, new(big.Int).Sub(million, thor.Units(99)), f.balance(genesis.DevToken, alice))
	assertBig(t, thor.Units(99), f.balance(genesis.DevToken, genesis.DevVault))
}

func TestExpiredBadgeBoostedDeposit(t *testing.T) {
	f := newFixture(t)
	alice, kicker := f.accounts[1], f.accounts[2]

	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.DelegateBadgeTo(env, genesis.DevBadge, genesis.DevBadgeID(1), alice)
	})
	require.NoError(t, err)

	// relock keeps the old boost and mints a fresh one for the new deposit
	require.NoError(t, f.deposit(alice, thor.Units(10), 0))
	f.chain.Advance(vault.DefaultMinLockDuration)
	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.ProcessExpiredLock(env, 0, 4*thor.Year)
	})
	require.NoError(t, err)
	ds := f.deposits(f.vault, alice)
	require.Len(t, ds, 1)
	assertBig(t, thor.Units(1), ds[0].BadgeBoost)
	assertBig(t, thor.Units(22), f.shares(f.vault, alice))

	// a kick burns the duration shares only
	f.chain.Advance(4 * thor.Year)
	_, err = f.exec(kicker, func(env *xenv.Environment) error {
		return f.vault.KickExpiredDeposit(env, alice, 0)
	})
	require.NoError(t, err)
	assert.Empty(t, f.deposits(f.vault, alice))
	assertBig(t, thor.Units(2), f.shares(f.vault, alice))
	assertBig(t, million, f.balance(genesis.DevToken, alice))
	assertBig(t, million, f.balance(genesis.DevToken, kicker))
}

func TestKickWithUnboundedGracePeriod(t *testing.T) {
	f := newFixture(t)
	alice, kicker := f.accounts[1], f.accounts[2]

	_, err := f.exec(f.admin(), func(env *xenv.Environment) error {
		return f.vault.SetGracePeriod(env, math.MaxUint64)
	})
	require.NoError(t, err)

	require.NoError(t, f.deposit(alice, thor.Units(100), 0))
	f.chain.Advance(vault.DefaultMinLockDuration)
	_, err = f.exec(kicker, func(env *xenv.Environment) error {
		return f.vault.KickExpiredDeposit(env, alice, 0)
	})
	require.NoError(t, err)
	assertBig(t, million, f.balance(genesis.DevToken, alice))
	assertBig(t, million, f.balance(genesis.DevToken, kicker))
}

func TestInitializeOnce(t *testing.T) {
	f := newFixture(t)
	mallory := f.accounts[5]

	_, err := f.exec(mallory, func(env *xenv.Environment) error {
		return f.vault.Initialize(env, mallory, vault.Params{KickRewardIncentive: thor.BasisPoints})
	})
	assert.ErrorContains(t, err, "already initialized")
	assert.Equal(t, reverts.State, reverts.KindOf(err))

	require.NoError(t, f.chain.View(func(*xenv.Environment) error {
		ok, err := f.vault.HasRole(access.AdminRole, mallory)
		require.NoError(t, err)
		assert.False(t, ok)
		incentive, err := f.vault.KickRewardIncentive()
		require.NoError(t, err)
		assert.Equal(t, uint64(100), incentive)
		return nil
	}))
}

func TestRewardTokenEscrowTargetMismatch(t *testing.T) {
	f := newFixture(t)

	// the escrow vault locks the reward token, not the deposit token
	_, err := f.exec(f.admin(), func(env *xenv.Environment) error {
		return f.vault.AddRewardToken(env, genesis.DevToken, rewards.TokenConfig{
			EscrowTarget:   genesis.DevEscrowVault,
			EscrowPortion:  big.NewInt(5e17),
			EscrowDuration: thor.Year,
		})
	})
	assert.ErrorContains(t, err, "does not lock")
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))

	_, err = f.exec(f.admin(), func(env *xenv.Environment) error {
		return f.escrow.AddRewardToken(env, genesis.DevRewardToken, rewards.TokenConfig{
			EscrowTarget:   genesis.DevVault,
			EscrowPortion:  thor.Scale(),
			EscrowDuration: thor.Year,
		})
	})
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))
}

func TestBlacklist(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.accounts[1], f.accounts[2]

	require.NoError(t, f.deposit(alice, thor.Units(50), 4*thor.Year))
	require.NoError(t, f.deposit(bob, thor.Units(75), 4*thor.Year))

	_, err := f.exec(f.admin(), func(env *xenv.Environment) error {
		return f.vault.AddBlacklist(env, alice)
	})
	require.NoError(t, err)

	require.NoError(t, f.chain.View(func(*xenv.Environment) error {
		supply, err := f.vault.AdjustedTotalSupply()
		require.NoError(t, err)
		assertBig(t, thor.Units(150), supply)
		entry, err := f.vault.BlacklistEntry(alice)
		require.NoError(t, err)
		assert.True(t, entry.IsBlacklisted)
		assertBig(t, thor.Units(100), entry.Amount)
		return nil
	}))

	require.NoError(t, f.distribute(thor.Units(30)))
	assert.Equal(t, 0, f.withdrawable(alice).Sign())
	assertBig(t, thor.Units(30), f.withdrawable(bob))

	_, err = f.exec(f.admin(), func(env *xenv.Environment) error {
		return f.vault.RemoveBlacklist(env, alice)
	})
	require.NoError(t, err)

	require.NoError(t, f.distribute(thor.Units(25)))
	assertBig(t, thor.Units(10), f.withdrawable(alice))
	assertBig(t, thor.Units(45), f.withdrawable(bob))
}

func TestBatchDepositIsAtomic(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.accounts[1], f.accounts[2]
	tok, err := f.chain.Token(genesis.DevToken)
	require.NoError(t, err)

	_, err = f.exec(alice, func(env *xenv.Environment) error {
		if err := tok.Approve(env, genesis.DevVault, thor.Units(10)); err != nil {
			return err
		}
		return f.vault.BatchDeposit(env,
			[]*big.Int{thor.Units(5), new(big.Int)},
			[]uint64{thor.Year, thor.Year},
			[]thor.Address{alice, bob})
	})
	assert.ErrorContains(t, err, "cannot deposit 0")

	assertBig(t, million, f.balance(genesis.DevToken, alice))
	assert.Empty(t, f.deposits(f.vault, alice))
	assert.Equal(t, 0, f.shares(f.vault, alice).Sign())

	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.BatchDeposit(env, []*big.Int{thor.Units(1)}, nil, nil)
	})
	assert.ErrorContains(t, err, "array length mismatch")
}

func TestSharesAreNotTransferable(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.accounts[1], f.accounts[2]
	require.NoError(t, f.deposit(alice, thor.Units(1), thor.Year))

	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Transfer(env, bob, big.NewInt(1))
	})
	assert.ErrorContains(t, err, "non-transferable")
	assert.Equal(t, 0, f.shares(f.vault, bob).Sign())
}

func TestBadgeBoost(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.DelegateBadgeTo(env, genesis.DevBadge, genesis.DevBadgeID(1), alice)
	})
	require.NoError(t, err)

	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.DelegateBadgeTo(env, genesis.DevBadge, genesis.DevBadgeID(1), f.accounts[2])
	})
	assert.Equal(t, reverts.State, reverts.KindOf(err))

	require.NoError(t, f.deposit(alice, thor.Units(10), 4*thor.Year))
	assertBig(t, thor.Units(21), f.shares(f.vault, alice))
	ds := f.deposits(f.vault, alice)
	require.Len(t, ds, 1)
	assertBig(t, thor.Units(1), ds[0].BadgeBoost)

	f.chain.Advance(4 * thor.Year)
	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.Withdraw(env, 0, alice)
	})
	require.NoError(t, err)
	assert.Equal(t, 0, f.shares(f.vault, alice).Sign())
}

func TestBadgeBoostFollowsOwnership(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.accounts[1], f.accounts[2]

	_, err := f.exec(alice, func(env *xenv.Environment) error {
		return f.vault.DelegateBadgeTo(env, genesis.DevBadge, genesis.DevBadgeID(1), bob)
	})
	require.NoError(t, err)

	multiplier := func() *big.Int {
		var m *big.Int
		require.NoError(t, f.chain.View(func(env *xenv.Environment) (err error) {
			m, err = f.vault.GetBadgeMultiplier(env, bob)
			return
		}))
		return m
	}
	assertBig(t, big.NewInt(1e17), multiplier())

	// alice gives the badge away, the delegation stops counting
	bdg, err := f.chain.Runtime().BadgeToken(genesis.DevBadge)
	require.NoError(t, err)
	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return bdg.(interface {
			Transfer(*xenv.Environment, thor.Address, *big.Int, *big.Int) error
		}).Transfer(env, f.accounts[3], genesis.DevBadgeID(1), big.NewInt(1))
	})
	require.NoError(t, err)
	assert.Equal(t, 0, multiplier().Sign())
}

func TestAdminOnly(t *testing.T) {
	f := newFixture(t)
	alice := f.accounts[1]

	ops := map[string]func(env *xenv.Environment) error{
		"blacklist":   func(env *xenv.Environment) error { return f.vault.AddBlacklist(env, alice) },
		"grace":       func(env *xenv.Environment) error { return f.vault.SetGracePeriod(env, 1) },
		"incentive":   func(env *xenv.Environment) error { return f.vault.SetKickRewardIncentive(env, 1) },
		"migration":   func(env *xenv.Environment) error { return f.vault.TurnOffMigration(env) },
		"ineligible":  func(env *xenv.Environment) error { return f.vault.AddToIneligibleList(env, alice) },
		"badge":       func(env *xenv.Environment) error { return f.vault.AddBadge(env, genesis.DevBadge, big.NewInt(99), big.NewInt(1)) },
		"grant admin": func(env *xenv.Environment) error { return f.vault.GrantRole(env, thor.Bytes32{}, alice) },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			_, err := f.exec(alice, op)
			assert.Equal(t, reverts.Authorization, reverts.KindOf(err), "%v", err)
		})
	}

	_, err := f.exec(f.admin(), func(env *xenv.Environment) error {
		return f.vault.SetKickRewardIncentive(env, thor.BasisPoints+1)
	})
	assert.Equal(t, reverts.Validation, reverts.KindOf(err))
}

func TestMigration(t *testing.T) {
	f := newFixture(t)
	admin, alice := f.admin(), f.accounts[1]
	tok, err := f.chain.Token(genesis.DevToken)
	require.NoError(t, err)

	f.chain.Advance(thor.Year)
	start := f.chain.Now() - thor.Year
	end := f.chain.Now() + thor.Year

	migrate := func() error {
		_, err := f.exec(admin, func(env *xenv.Environment) error {
			if err := tok.Approve(env, genesis.DevVault, thor.Units(10)); err != nil {
				return err
			}
			return f.vault.MigrationDeposit(env, thor.Units(10), start, end, alice)
		})
		return err
	}
	require.NoError(t, migrate())

	ds := f.deposits(f.vault, alice)
	require.Len(t, ds, 1)
	assert.Equal(t, 2*thor.Year, ds[0].Duration)
	assertBig(t, thor.Units(15), f.shares(f.vault, alice))
	assertBig(t, new(big.Int).Sub(million, thor.Units(10)), f.balance(genesis.DevToken, admin))

	turnOff := func() error {
		_, err := f.exec(admin, f.vault.TurnOffMigration)
		return err
	}
	require.NoError(t, turnOff())
	assert.ErrorContains(t, turnOff(), "already turned off")
	assert.ErrorContains(t, migrate(), "migration is turned off")
}

// reentrantToken calls back into the vault while tokens are being pulled.
type reentrantToken struct {
	addr  thor.Address
	vault *vault.Vault
	err   error
}

func (r *reentrantToken) Address() thor.Address { return r.addr }
func (r *reentrantToken) BalanceOf(*xenv.Environment, thor.Address) (*big.Int, error) {
	return new(big.Int), nil
}
func (r *reentrantToken) Transfer(*xenv.Environment, thor.Address, *big.Int) error { return nil }
func (r *reentrantToken) Approve(*xenv.Environment, thor.Address, *big.Int) error  { return nil }
func (r *reentrantToken) TransferFrom(env *xenv.Environment, from, _ thor.Address, amount *big.Int) error {
	r.err = r.vault.Deposit(env.WithCaller(from), amount, thor.Year, from)
	return r.err
}

func TestReentrancy(t *testing.T) {
	f := newFixture(t)
	rt := f.chain.Runtime()

	evil := &reentrantToken{addr: thor.BytesToAddress([]byte("evil"))}
	rt.AddToken(evil)
	v, err := rt.NewVault(thor.BytesToAddress([]byte("evil-vault")), vault.Config{
		DepositToken:    evil.addr,
		MaxBonus:        thor.Scale(),
		MaxLockDuration: thor.Year,
	})
	require.NoError(t, err)
	evil.vault = v

	alice := f.accounts[1]
	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return v.Deposit(env, thor.Units(1), thor.Year, alice)
	})
	assert.ErrorContains(t, err, "reentrant call")
	assert.ErrorContains(t, evil.err, "reentrant call")

	require.NoError(t, f.chain.View(func(*xenv.Environment) error {
		supply, err := v.TotalSupply()
		require.NoError(t, err)
		assert.Equal(t, 0, supply.Sign())
		return nil
	}))

	// the guard is released after the failed call
	evil.vault = nil
	_, err = f.exec(alice, func(env *xenv.Environment) error {
		return v.KickExpiredDeposit(env, alice, 0)
	})
	assert.ErrorContains(t, err, "does not exist")
}
