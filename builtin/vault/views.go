// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/vechain/vault/builtin/vault/badges"
	"github.com/vechain/vault/builtin/vault/deposits"
	"github.com/vechain/vault/builtin/vault/eligibility"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/thor"
)

func (v *Vault) BalanceOf(account thor.Address) (*big.Int, error) {
	return v.book.BalanceOf(account)
}

func (v *Vault) TotalSupply() (*big.Int, error) {
	return v.book.TotalSupply()
}

func (v *Vault) AdjustedTotalSupply() (*big.Int, error) {
	return v.layer.AdjustedTotalSupply()
}

func (v *Vault) AdjustedBalanceOf(account thor.Address) (*big.Int, error) {
	return v.layer.AdjustedBalanceOf(account)
}

func (v *Vault) BlacklistEntry(account thor.Address) (*eligibility.Entry, error) {
	return v.layer.Entry(account)
}

// DepositsOf lists the deposits of account. The position of a deposit is its id.
func (v *Vault) DepositsOf(account thor.Address) ([]deposits.Deposit, error) {
	return v.deposits.List(account)
}

func (v *Vault) DepositOf(account thor.Address, depositID uint64) (deposits.Deposit, error) {
	return v.deposits.Get(account, depositID)
}

func (v *Vault) DepositCount(account thor.Address) (uint64, error) {
	return v.deposits.Count(account)
}

func (v *Vault) TotalDepositedOf(account thor.Address) (*big.Int, error) {
	return v.deposits.TotalDeposited(account)
}

func (v *Vault) WithdrawableRewardsOf(token, account thor.Address) (*big.Int, error) {
	balance, err := v.layer.AdjustedBalanceOf(account)
	if err != nil {
		return nil, err
	}
	return v.ledger.WithdrawableRewardsOf(token, account, balance)
}

func (v *Vault) CumulativeRewardsOf(token, account thor.Address) (*big.Int, error) {
	balance, err := v.layer.AdjustedBalanceOf(account)
	if err != nil {
		return nil, err
	}
	return v.ledger.CumulativeRewardsOf(token, account, balance)
}

func (v *Vault) WithdrawnRewardsOf(token, account thor.Address) (*big.Int, error) {
	return v.ledger.WithdrawnRewardsOf(token, account)
}

func (v *Vault) PointsPerShare(token thor.Address) (*big.Int, error) {
	return v.ledger.PointsPerShare(token)
}

func (v *Vault) RewardTokens() ([]thor.Address, error) {
	return v.ledger.Tokens()
}

func (v *Vault) RewardTokenConfig(token thor.Address) (rewards.TokenConfig, error) {
	return v.ledger.TokenConfig(token)
}

func (v *Vault) GracePeriod() (uint64, error) {
	grace, err := v.gracePeriod.Get()
	if err != nil {
		return 0, err
	}
	return grace.Uint64(), nil
}

// KickRewardIncentive is the kicker reward in basis points.
func (v *Vault) KickRewardIncentive() (uint64, error) {
	incentive, err := v.kickIncentive.Get()
	if err != nil {
		return 0, err
	}
	return incentive.Uint64(), nil
}

func (v *Vault) MigrationIsOn() (bool, error) {
	off, err := v.migrationOff.Get()
	if err != nil {
		return false, err
	}
	return !off, nil
}

func (v *Vault) BadgeWeight(badge thor.Address, id *big.Int) (*big.Int, error) {
	return v.badges.Weight(badge, id)
}

func (v *Vault) BadgesDelegatedTo(delegate thor.Address) ([]badges.Delegation, error) {
	return v.badges.DelegatedTo(delegate)
}

func (v *Vault) IsIneligible(account thor.Address) (bool, error) {
	return v.badges.IsIneligible(account)
}
