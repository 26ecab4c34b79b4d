// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements the points-per-share reward ledger.
//
// Every registered token keeps a monotonic accumulator of rewards allocated per unit of adjusted
// share. Balance changes never loop over holders: a signed per-account correction offsets
// the accumulator so minted shares earn nothing retroactively and burned shares keep what
// they already accrued.
package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/thor"
)

var logger = log.WithContext("pkg", "rewards")

var (
	tokensSlot         = solidity.Slot("rewards/tokens")
	tokenListSlot      = solidity.Slot("rewards/token-list")
	pointsPerShareSlot = solidity.Slot("rewards/points-per-share")
	correctionsSlot    = solidity.Slot("rewards/points-correction")
	withdrawnSlot      = solidity.Slot("rewards/withdrawn")
)

func accountKey(token, account thor.Address) thor.Bytes32 {
	return thor.Blake2b(token.Bytes(), account.Bytes())
}

type Ledger struct {
	tokens         *solidity.Mapping[thor.Address, *tokenEntry]
	tokenList      *solidity.Array[thor.Address]
	pointsPerShare *solidity.Mapping[thor.Address, *big.Int]
	corrections    *solidity.Mapping[thor.Bytes32, *correction]
	withdrawn      *solidity.Mapping[thor.Bytes32, *big.Int]
}

func New(ctx *solidity.Context) *Ledger {
	return &Ledger{
		tokens:         solidity.NewMapping[thor.Address, *tokenEntry](ctx, tokensSlot),
		tokenList:      solidity.NewArray[thor.Address](ctx, tokenListSlot),
		pointsPerShare: solidity.NewMapping[thor.Address, *big.Int](ctx, pointsPerShareSlot),
		corrections:    solidity.NewMapping[thor.Bytes32, *correction](ctx, correctionsSlot),
		withdrawn:      solidity.NewMapping[thor.Bytes32, *big.Int](ctx, withdrawnSlot),
	}
}

func validateConfig(cfg TokenConfig) error {
	if cfg.EscrowPortion == nil || cfg.EscrowPortion.Sign() < 0 {
		return reverts.NewValidation("rewards: invalid escrow portion")
	}
	if cfg.EscrowPortion.Cmp(thor.Scale()) > 0 {
		return reverts.NewValidation("rewards: cannot escrow more than 100%")
	}
	if cfg.EscrowPortion.Sign() > 0 && cfg.EscrowTarget.IsZero() {
		return reverts.NewValidation("rewards: escrow target required")
	}
	return nil
}

// Register adds a reward token. Its accumulator starts at zero.
func (l *Ledger) Register(token thor.Address, cfg TokenConfig) error {
	if token.IsZero() {
		return reverts.NewValidation("rewards: zero token")
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	entry, err := l.tokens.Get(token)
	if err != nil {
		return err
	}
	if entry.Registered {
		return reverts.NewState("rewards: token already registered")
	}
	if err := l.tokens.Set(token, &tokenEntry{Registered: true, Config: cfg}); err != nil {
		return errors.Wrap(err, "failed to register token")
	}
	if err := l.tokenList.Push(token); err != nil {
		return errors.Wrap(err, "failed to list token")
	}
	logger.Debug("reward token registered", "token", token, "portion", cfg.EscrowPortion)
	return nil
}

// Update replaces the claim routing of a registered token.
func (l *Ledger) Update(token thor.Address, cfg TokenConfig) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if _, err := l.requireRegistered(token); err != nil {
		return err
	}
	return errors.Wrap(l.tokens.Set(token, &tokenEntry{Registered: true, Config: cfg}), "failed to update token")
}

func (l *Ledger) requireRegistered(token thor.Address) (*tokenEntry, error) {
	entry, err := l.tokens.Get(token)
	if err != nil {
		return nil, err
	}
	if !entry.Registered {
		return nil, reverts.NewState("rewards: token not registered")
	}
	return entry, nil
}

func (l *Ledger) IsRegistered(token thor.Address) (bool, error) {
	entry, err := l.tokens.Get(token)
	if err != nil {
		return false, err
	}
	return entry.Registered, nil
}

// TokenConfig returns the routing of a registered token.
func (l *Ledger) TokenConfig(token thor.Address) (TokenConfig, error) {
	entry, err := l.requireRegistered(token)
	if err != nil {
		return TokenConfig{}, err
	}
	if entry.Config.EscrowPortion == nil {
		entry.Config.EscrowPortion = new(big.Int)
	}
	return entry.Config, nil
}

// Tokens lists registered tokens in registration order.
func (l *Ledger) Tokens() ([]thor.Address, error) {
	return l.tokenList.All()
}

func (l *Ledger) PointsPerShare(token thor.Address) (*big.Int, error) {
	return l.pointsPerShare.Get(token)
}

// Allocate spreads amount over adjustedSupply shares in O(1).
func (l *Ledger) Allocate(token thor.Address, amount, adjustedSupply *big.Int) error {
	if _, err := l.requireRegistered(token); err != nil {
		return err
	}
	if adjustedSupply.Sign() <= 0 {
		return reverts.NewState("zero share supply")
	}
	pps, err := l.pointsPerShare.Get(token)
	if err != nil {
		return err
	}
	inc := new(big.Int).Mul(amount, thor.Scale())
	inc.Div(inc, adjustedSupply)
	if err := l.pointsPerShare.Set(token, pps.Add(pps, inc)); err != nil {
		return errors.Wrap(err, "failed to set points per share")
	}
	logger.Debug("rewards allocated", "token", token, "amount", amount, "supply", adjustedSupply, "pps", pps)
	return nil
}

// CumulativeRewardsOf is everything ever accrued by account, withdrawn or not.
func (l *Ledger) CumulativeRewardsOf(token, account thor.Address, adjustedBalance *big.Int) (*big.Int, error) {
	pps, err := l.pointsPerShare.Get(token)
	if err != nil {
		return nil, err
	}
	corr, err := l.corrections.Get(accountKey(token, account))
	if err != nil {
		return nil, err
	}
	points := new(big.Int).Mul(pps, adjustedBalance)
	points.Add(points, corr.value())
	if points.Sign() < 0 {
		return new(big.Int), nil
	}
	return points.Div(points, thor.Scale()), nil
}

func (l *Ledger) WithdrawnRewardsOf(token, account thor.Address) (*big.Int, error) {
	return l.withdrawn.Get(accountKey(token, account))
}

// WithdrawableRewardsOf is the accrued amount not yet collected. It has no side effect.
func (l *Ledger) WithdrawableRewardsOf(token, account thor.Address, adjustedBalance *big.Int) (*big.Int, error) {
	cumulative, err := l.CumulativeRewardsOf(token, account, adjustedBalance)
	if err != nil {
		return nil, err
	}
	withdrawn, err := l.WithdrawnRewardsOf(token, account)
	if err != nil {
		return nil, err
	}
	if cumulative.Cmp(withdrawn) <= 0 {
		return new(big.Int), nil
	}
	return cumulative.Sub(cumulative, withdrawn), nil
}

// PrepareCollect marks the withdrawable amount as withdrawn and returns it.
// Callers must run it before transferring anything out.
func (l *Ledger) PrepareCollect(token, account thor.Address, adjustedBalance *big.Int) (*big.Int, error) {
	amount, err := l.WithdrawableRewardsOf(token, account, adjustedBalance)
	if err != nil {
		return nil, err
	}
	if amount.Sign() == 0 {
		return amount, nil
	}
	key := accountKey(token, account)
	withdrawn, err := l.withdrawn.Get(key)
	if err != nil {
		return nil, err
	}
	if err := l.withdrawn.Set(key, withdrawn.Add(withdrawn, amount)); err != nil {
		return nil, errors.Wrap(err, "failed to set withdrawn rewards")
	}
	return amount, nil
}

// CorrectPoints offsets a change of sharesDelta in the adjusted balance of account.
// Mints pass a negative delta, burns a positive one.
func (l *Ledger) CorrectPoints(token, account thor.Address, sharesDelta *big.Int) error {
	if sharesDelta.Sign() == 0 {
		return nil
	}
	pps, err := l.pointsPerShare.Get(token)
	if err != nil {
		return err
	}
	if pps.Sign() == 0 {
		return nil
	}
	key := accountKey(token, account)
	corr, err := l.corrections.Get(key)
	if err != nil {
		return err
	}
	v := corr.value()
	v.Add(v, pps.Mul(pps, sharesDelta))
	return errors.Wrap(l.corrections.Set(key, newCorrection(v)), "failed to set points correction")
}

// CorrectPointsAll applies CorrectPoints for every registered token.
func (l *Ledger) CorrectPointsAll(account thor.Address, sharesDelta *big.Int) error {
	tokens, err := l.Tokens()
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := l.CorrectPoints(token, account, sharesDelta); err != nil {
			return err
		}
	}
	return nil
}

// CorrectPointsForTransfer keeps the accrual of both parties unaffected by a transfer of amount.
func (l *Ledger) CorrectPointsForTransfer(token, from, to thor.Address, amount *big.Int) error {
	if err := l.CorrectPoints(token, from, amount); err != nil {
		return err
	}
	return l.CorrectPoints(token, to, new(big.Int).Neg(amount))
}
