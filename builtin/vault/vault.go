// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault implements the time locked staking vault.
//
// Deposits are locked for a duration and mint non-transferable shares scaled by a
// duration multiplier and a badge multiplier. Shares earn a pro-rata stream of the
// registered reward tokens through the points-per-share ledger.
package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/access"
	"github.com/vechain/vault/builtin/contracts"
	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/builtin/vault/badges"
	"github.com/vechain/vault/builtin/vault/deposits"
	"github.com/vechain/vault/builtin/vault/eligibility"
	"github.com/vechain/vault/builtin/vault/escrow"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/builtin/vault/shares"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/metrics"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var logger = log.WithContext("pkg", "vault")

var metricRewardOps = metrics.LazyLoadCounterVec("vault_reward_ops_count", []string{"vault", "op"})

var (
	gracePeriodSlot  = solidity.Slot("vault/grace-period")
	kickIncentive    = solidity.Slot("vault/kick-reward-incentive")
	migrationOffSlot = solidity.Slot("vault/migration-off")
	initializedSlot  = solidity.Slot("vault/initialized")
)

var (
	errReentrant      = reverts.NewState("reentrant call")
	errZeroAmount     = reverts.NewValidation("cannot deposit 0")
	errZeroReceiver   = reverts.NewValidation("receiver cannot be zero address")
	errLengthMismatch = reverts.NewValidation("array length mismatch")
	errTooSoon        = reverts.NewState("too soon")
)

type Vault struct {
	addr   thor.Address
	cfg    Config
	dir    contracts.Directory
	access *access.Control

	book     *shares.Book
	ledger   *rewards.Ledger
	layer    *eligibility.Layer
	router   *escrow.Router
	deposits *deposits.Repository
	badges   *badges.Registry

	gracePeriod   *solidity.Uint256
	kickIncentive *solidity.Uint256
	migrationOff  *solidity.Value[bool]
	initialized   *solidity.Value[bool]

	entered bool
}

// New binds a vault to its storage at addr. Tokens and escrow targets are resolved through dir.
func New(addr thor.Address, st *state.State, cfg Config, dir contracts.Directory) (*Vault, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	ctx := solidity.NewContext(addr, st)
	book := shares.New(ctx)
	ledger := rewards.New(ctx)
	layer := eligibility.New(ctx, book, ledger)
	return &Vault{
		addr:          addr,
		cfg:           cfg,
		dir:           dir,
		access:        access.New(ctx),
		book:          book,
		ledger:        ledger,
		layer:         layer,
		router:        escrow.New(addr, ledger, layer, dir),
		deposits:      deposits.New(ctx),
		badges:        badges.New(ctx, dir),
		gracePeriod:   solidity.NewUint256(ctx, gracePeriodSlot),
		kickIncentive: solidity.NewUint256(ctx, kickIncentive),
		migrationOff:  solidity.NewValue[bool](ctx, migrationOffSlot),
		initialized:   solidity.NewValue[bool](ctx, initializedSlot),
	}, nil
}

// Initialize grants the admin role and sets the adjustable parameters.
// It succeeds once per vault, later calls revert.
func (v *Vault) Initialize(env *xenv.Environment, admin thor.Address, params Params) error {
	done, err := v.initialized.Get()
	if err != nil {
		return err
	}
	if done {
		return reverts.NewState("already initialized")
	}
	if params.KickRewardIncentive > thor.BasisPoints {
		return reverts.NewValidation("kick reward incentive over 100%")
	}
	if err := v.initialized.Set(true); err != nil {
		return err
	}
	if err := v.access.Setup(env, access.AdminRole, admin); err != nil {
		return err
	}
	if err := v.gracePeriod.Set(new(big.Int).SetUint64(params.GracePeriod)); err != nil {
		return err
	}
	return v.kickIncentive.Set(new(big.Int).SetUint64(params.KickRewardIncentive))
}

func (v *Vault) Address() thor.Address      { return v.addr }
func (v *Vault) Config() Config             { return v.cfg }
func (v *Vault) DepositToken() thor.Address { return v.cfg.DepositToken }

// nonReentrant marks the vault as entered until the returned release is called.
func (v *Vault) nonReentrant() (func(), error) {
	if v.entered {
		return nil, errReentrant
	}
	v.entered = true
	return func() { v.entered = false }, nil
}

func (v *Vault) onlyAdmin(env *xenv.Environment) error {
	if err := v.access.CheckRole(access.AdminRole, env.Caller()); err != nil {
		logger.Info("admin operation rejected", "vault", v.addr, "caller", env.Caller())
		return err
	}
	return nil
}

func (v *Vault) depositToken() (contracts.Token, error) {
	return v.dir.Token(v.cfg.DepositToken)
}

// self is the env of calls made by the vault itself.
func (v *Vault) self(env *xenv.Environment) *xenv.Environment {
	return env.WithCaller(v.addr)
}

// GetMultiplier is 1e18 + maxBonus * min(duration, maxLockDuration) / maxLockDuration.
func (v *Vault) GetMultiplier(duration uint64) *big.Int {
	d := min(duration, v.cfg.MaxLockDuration)
	bonus := new(big.Int).Mul(v.cfg.MaxBonus, new(big.Int).SetUint64(d))
	bonus.Div(bonus, new(big.Int).SetUint64(v.cfg.MaxLockDuration))
	return bonus.Add(bonus, thor.Scale())
}

// GetBadgeMultiplier is the badge multiplier of account, read from live badge ownership.
func (v *Vault) GetBadgeMultiplier(env *xenv.Environment, account thor.Address) (*big.Int, error) {
	return v.badges.Multiplier(env, account)
}

// durationShares is amount scaled by the multiplier of duration.
func (v *Vault) durationShares(amount *big.Int, duration uint64) *big.Int {
	s := new(big.Int).Mul(amount, v.GetMultiplier(duration))
	return s.Div(s, thor.Scale())
}

func (v *Vault) clampDuration(duration uint64) uint64 {
	return max(v.cfg.MinLockDuration, min(duration, v.cfg.MaxLockDuration))
}

// Deposit locks amount of the deposit token pulled from the caller for receiver.
// The duration is clamped into [minLockDuration, maxLockDuration].
func (v *Vault) Deposit(env *xenv.Environment, amount *big.Int, duration uint64, receiver thor.Address) error {
	release, err := v.nonReentrant()
	if err != nil {
		return err
	}
	defer release()

	_, err = v.deposit(env, env.Caller(), amount, duration, receiver)
	return err
}

// BatchDeposit deposits every element of the parallel slices. Any failure reverts the whole batch.
func (v *Vault) BatchDeposit(env *xenv.Environment, amounts []*big.Int, durations []uint64, receivers []thor.Address) error {
	if len(amounts) != len(durations) || len(amounts) != len(receivers) {
		return errLengthMismatch
	}
	release, err := v.nonReentrant()
	if err != nil {
		return err
	}
	defer release()

	for i := range amounts {
		if _, err := v.deposit(env, env.Caller(), amounts[i], durations[i], receivers[i]); err != nil {
			return err
		}
	}
	return nil
}

// deposit opens a lock. A zero from skips pulling tokens, they are already held by the vault.
func (v *Vault) deposit(env *xenv.Environment, from thor.Address, amount *big.Int, duration uint64, receiver thor.Address) (uint64, error) {
	if amount == nil || amount.Sign() <= 0 {
		return 0, errZeroAmount
	}
	if receiver.IsZero() {
		return 0, errZeroReceiver
	}
	duration = v.clampDuration(duration)

	if !from.IsZero() {
		token, err := v.depositToken()
		if err != nil {
			return 0, err
		}
		if err := token.TransferFrom(v.self(env), from, v.addr, amount); err != nil {
			return 0, err
		}
	}
	now := env.Now()
	return v.openLock(env, amount, now, now+duration, receiver)
}

// openLock stores a deposit for receiver and mints its shares, badge boost included.
func (v *Vault) openLock(env *xenv.Environment, amount *big.Int, start, end uint64, receiver thor.Address) (uint64, error) {
	badgeMultiplier, err := v.badges.Multiplier(env, receiver)
	if err != nil {
		return 0, err
	}
	boost := new(big.Int).Mul(amount, badgeMultiplier)
	boost.Div(boost, thor.Scale())

	d := deposits.Deposit{Amount: new(big.Int).Set(amount), Start: start, End: end, BadgeBoost: boost}
	id, err := v.deposits.Append(receiver, d)
	if err != nil {
		return 0, err
	}
	minted := v.durationShares(amount, d.Duration())
	minted.Add(minted, boost)
	if err := v.layer.Mint(receiver, minted); err != nil {
		return 0, err
	}

	env.Log(v.addr, events.DepositCreated{
		Receiver:   receiver,
		DepositID:  id,
		Amount:     new(big.Int).Set(amount),
		Shares:     minted,
		Start:      start,
		End:        end,
		BadgeBoost: new(big.Int).Set(boost),
	})
	logger.Debug("deposit created", "vault", v.addr, "receiver", receiver, "id", id, "amount", amount, "shares", minted)
	return id, nil
}

// Withdraw releases a matured deposit of the caller to receiver, burning the shares it minted.
// Removing a deposit moves the caller's last deposit to depositID.
func (v *Vault) Withdraw(env *xenv.Environment, depositID uint64, receiver thor.Address) error {
	if receiver.IsZero() {
		return errZeroReceiver
	}
	release, err := v.nonReentrant()
	if err != nil {
		return err
	}
	defer release()

	account := env.Caller()
	d, err := v.deposits.Get(account, depositID)
	if err != nil {
		return err
	}
	if env.Now() < d.End {
		return errTooSoon
	}
	burned := v.durationShares(d.Amount, d.Duration())
	burned.Add(burned, d.BadgeBoost)

	if _, err := v.deposits.Remove(account, depositID); err != nil {
		return err
	}
	if err := v.layer.Burn(account, burned); err != nil {
		return err
	}
	token, err := v.depositToken()
	if err != nil {
		return err
	}
	if err := token.Transfer(v.self(env), receiver, d.Amount); err != nil {
		return err
	}

	env.Log(v.addr, events.Withdrawn{Account: account, Receiver: receiver, DepositID: depositID, Amount: d.Amount, Shares: burned})
	logger.Debug("withdrawn", "vault", v.addr, "account", account, "id", depositID, "amount", d.Amount)
	return nil
}

// KickExpiredDeposit settles a matured deposit of account. Past the grace period the caller earns the kick incentive.
func (v *Vault) KickExpiredDeposit(env *xenv.Environment, account thor.Address, depositID uint64) error {
	release, err := v.nonReentrant()
	if err != nil {
		return err
	}
	defer release()

	return v.processExpired(env, account, depositID, false, 0)
}

// ProcessExpiredLock relocks a matured deposit of the caller for newDuration.
func (v *Vault) ProcessExpiredLock(env *xenv.Environment, depositID uint64, newDuration uint64) error {
	release, err := v.nonReentrant()
	if err != nil {
		return err
	}
	defer release()

	return v.processExpired(env, env.Caller(), depositID, true, newDuration)
}

func (v *Vault) processExpired(env *xenv.Environment, account thor.Address, depositID uint64, relock bool, newDuration uint64) error {
	d, err := v.deposits.Get(account, depositID)
	if err != nil {
		return err
	}
	now := env.Now()
	if now < d.End {
		return errTooSoon
	}
	grace, err := v.GracePeriod()
	if err != nil {
		return err
	}
	incentive, err := v.KickRewardIncentive()
	if err != nil {
		return err
	}

	// the badge boost of the deposit is not part of the burned amount
	burned := v.durationShares(d.Amount, d.Duration())
	if _, err := v.deposits.Remove(account, depositID); err != nil {
		return err
	}
	if err := v.layer.Burn(account, burned); err != nil {
		return err
	}

	token, err := v.depositToken()
	if err != nil {
		return err
	}
	reward := new(big.Int)
	// now >= d.End, so the elapsed time cannot underflow
	if now-d.End >= grace {
		reward.Mul(d.Amount, new(big.Int).SetUint64(incentive))
		reward.Div(reward, big.NewInt(thor.BasisPoints))
	}
	if reward.Sign() > 0 {
		if err := token.Transfer(v.self(env), env.Caller(), reward); err != nil {
			return err
		}
	}
	remaining := new(big.Int).Sub(d.Amount, reward)
	if relock {
		if _, err := v.deposit(env, thor.Address{}, remaining, newDuration, account); err != nil {
			return err
		}
	} else if remaining.Sign() > 0 {
		if err := token.Transfer(v.self(env), account, remaining); err != nil {
			return err
		}
	}

	env.Log(v.addr, events.ExpiredLockProcessed{
		Account:      account,
		Kicker:       env.Caller(),
		DepositID:    depositID,
		Amount:       d.Amount,
		KickerReward: reward,
		Relocked:     relock,
	})
	logger.Debug("expired lock processed", "vault", v.addr, "account", account, "id", depositID, "reward", reward, "relock", relock)
	return nil
}

// Distribute pulls amount of a registered reward token from the caller and allocates it over the adjusted supply.
func (v *Vault) Distribute(env *xenv.Environment, token thor.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.NewValidation("cannot distribute 0")
	}
	release, err := v.nonReentrant()
	if err != nil {
		return err
	}
	defer release()

	supply, err := v.layer.AdjustedTotalSupply()
	if err != nil {
		return err
	}
	if err := v.ledger.Allocate(token, amount, supply); err != nil {
		return err
	}
	rewardToken, err := v.dir.Token(token)
	if err != nil {
		return err
	}
	if err := rewardToken.TransferFrom(v.self(env), env.Caller(), v.addr, amount); err != nil {
		return err
	}
	env.Log(v.addr, events.RewardsDistributed{Token: token, From: env.Caller(), Amount: new(big.Int).Set(amount)})
	metricRewardOps().AddWithLabel(1, map[string]string{"vault": v.addr.String(), "op": "distribute"})
	return nil
}

// ClaimRewards claims the caller's rewards of token for receiver.
func (v *Vault) ClaimRewards(env *xenv.Environment, token, receiver thor.Address) (*escrow.Claim, error) {
	release, err := v.nonReentrant()
	if err != nil {
		return nil, err
	}
	defer release()

	claim, err := v.router.ClaimRewards(env, token, env.Caller(), receiver)
	if err != nil {
		return nil, err
	}
	metricRewardOps().AddWithLabel(1, map[string]string{"vault": v.addr.String(), "op": "claim"})
	return claim, nil
}

// ClaimAll claims the caller's rewards of every registered token for receiver.
func (v *Vault) ClaimAll(env *xenv.Environment, receiver thor.Address) ([]*escrow.Claim, error) {
	release, err := v.nonReentrant()
	if err != nil {
		return nil, err
	}
	defer release()

	claims, err := v.router.ClaimAll(env, env.Caller(), receiver)
	if err != nil {
		return nil, err
	}
	metricRewardOps().AddWithLabel(int64(len(claims)), map[string]string{"vault": v.addr.String(), "op": "claim"})
	return claims, nil
}

// Transfer fails, vault shares are non-transferable.
func (v *Vault) Transfer(env *xenv.Environment, to thor.Address, amount *big.Int) error {
	return v.book.Transfer(env.Caller(), to, amount)
}

// DelegateBadgeTo delegates a badge held by the caller to delegate, once and for all.
func (v *Vault) DelegateBadgeTo(env *xenv.Environment, badge thor.Address, id *big.Int, delegate thor.Address) error {
	return v.badges.Delegate(env, env.Caller(), badge, id, delegate)
}

// MigrationDeposit imports a lock with its original timing. Tokens are pulled from the admin.
func (v *Vault) MigrationDeposit(env *xenv.Environment, amount *big.Int, start, end uint64, receiver thor.Address) error {
	return v.BatchMigrationDeposit(env, []*big.Int{amount}, []uint64{start}, []uint64{end}, []thor.Address{receiver})
}

func (v *Vault) BatchMigrationDeposit(env *xenv.Environment, amounts []*big.Int, starts, ends []uint64, receivers []thor.Address) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	on, err := v.MigrationIsOn()
	if err != nil {
		return err
	}
	if !on {
		return reverts.NewState("migration is turned off")
	}
	if len(amounts) != len(starts) || len(amounts) != len(ends) || len(amounts) != len(receivers) {
		return errLengthMismatch
	}
	release, err := v.nonReentrant()
	if err != nil {
		return err
	}
	defer release()

	token, err := v.depositToken()
	if err != nil {
		return err
	}
	for i := range amounts {
		if amounts[i] == nil || amounts[i].Sign() <= 0 {
			return errZeroAmount
		}
		if receivers[i].IsZero() {
			return errZeroReceiver
		}
		if ends[i] <= starts[i] {
			return reverts.NewValidation("end must be after start")
		}
		if err := token.TransferFrom(v.self(env), env.Caller(), v.addr, amounts[i]); err != nil {
			return err
		}
		if _, err := v.openLock(env, amounts[i], starts[i], ends[i], receivers[i]); err != nil {
			return err
		}
	}
	return nil
}

// TurnOffMigration closes the migration path for good.
func (v *Vault) TurnOffMigration(env *xenv.Environment) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	on, err := v.MigrationIsOn()
	if err != nil {
		return err
	}
	if !on {
		return reverts.NewState("already turned off")
	}
	if err := v.migrationOff.Set(true); err != nil {
		return errors.Wrap(err, "failed to turn off migration")
	}
	env.Log(v.addr, events.MigrationTurnedOff{Sender: env.Caller()})
	return nil
}
