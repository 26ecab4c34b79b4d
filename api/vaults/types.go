// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaults

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/builtin/vault/deposits"
	"github.com/vechain/vault/thor"
)

type RewardToken struct {
	Token          thor.Address          `json:"token"`
	EscrowTarget   thor.Address          `json:"escrowTarget"`
	EscrowPortion  *math.HexOrDecimal256 `json:"escrowPortion"`
	EscrowDuration uint64                `json:"escrowDuration"`
	PointsPerShare *math.HexOrDecimal256 `json:"pointsPerShare"`
}

type Vault struct {
	Address             thor.Address          `json:"address"`
	DepositToken        thor.Address          `json:"depositToken"`
	MaxBonus            *math.HexOrDecimal256 `json:"maxBonus"`
	MinLockDuration     uint64                `json:"minLockDuration"`
	MaxLockDuration     uint64                `json:"maxLockDuration"`
	TotalSupply         *math.HexOrDecimal256 `json:"totalSupply"`
	AdjustedTotalSupply *math.HexOrDecimal256 `json:"adjustedTotalSupply"`
	GracePeriod         uint64                `json:"gracePeriod"`
	KickRewardIncentive uint64                `json:"kickRewardIncentive"`
	MigrationOn         bool                  `json:"migrationOn"`
	RewardTokens        []RewardToken         `json:"rewardTokens"`
}

type Deposit struct {
	ID         uint64                `json:"id"`
	Amount     *math.HexOrDecimal256 `json:"amount"`
	Start      uint64                `json:"start"`
	End        uint64                `json:"end"`
	BadgeBoost *math.HexOrDecimal256 `json:"badgeBoost"`
	Matured    bool                  `json:"matured"`
}

type Reward struct {
	Token        thor.Address          `json:"token"`
	Withdrawable *math.HexOrDecimal256 `json:"withdrawable"`
	Cumulative   *math.HexOrDecimal256 `json:"cumulative"`
	Withdrawn    *math.HexOrDecimal256 `json:"withdrawn"`
}

type Account struct {
	Shares            *math.HexOrDecimal256 `json:"shares"`
	AdjustedShares    *math.HexOrDecimal256 `json:"adjustedShares"`
	TotalDeposited    *math.HexOrDecimal256 `json:"totalDeposited"`
	Blacklisted       bool                  `json:"blacklisted"`
	BlacklistedAmount *math.HexOrDecimal256 `json:"blacklistedAmount"`
	Ineligible        bool                  `json:"ineligible"`
	BadgeMultiplier   *math.HexOrDecimal256 `json:"badgeMultiplier"`
	Deposits          []Deposit             `json:"deposits"`
	Rewards           []Reward              `json:"rewards"`
}

type Multiplier struct {
	Duration   uint64                `json:"duration"`
	Multiplier *math.HexOrDecimal256 `json:"multiplier"`
}

func hex(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

func convertDeposit(id uint64, d deposits.Deposit, now uint64) Deposit {
	return Deposit{
		ID:         id,
		Amount:     hex(d.Amount),
		Start:      d.Start,
		End:        d.End,
		BadgeBoost: hex(d.BadgeBoost),
		Matured:    now >= d.End,
	}
}

func convertVault(v *vault.Vault) (*Vault, error) {
	cfg := v.Config()
	out := &Vault{
		Address:         v.Address(),
		DepositToken:    cfg.DepositToken,
		MaxBonus:        hex(cfg.MaxBonus),
		MinLockDuration: cfg.MinLockDuration,
		MaxLockDuration: cfg.MaxLockDuration,
		RewardTokens:    []RewardToken{},
	}
	var err error
	var supply, adjusted *big.Int
	if supply, err = v.TotalSupply(); err != nil {
		return nil, err
	}
	if adjusted, err = v.AdjustedTotalSupply(); err != nil {
		return nil, err
	}
	out.TotalSupply, out.AdjustedTotalSupply = hex(supply), hex(adjusted)
	if out.GracePeriod, err = v.GracePeriod(); err != nil {
		return nil, err
	}
	if out.KickRewardIncentive, err = v.KickRewardIncentive(); err != nil {
		return nil, err
	}
	if out.MigrationOn, err = v.MigrationIsOn(); err != nil {
		return nil, err
	}

	tokens, err := v.RewardTokens()
	if err != nil {
		return nil, err
	}
	for _, token := range tokens {
		cfg, err := v.RewardTokenConfig(token)
		if err != nil {
			return nil, err
		}
		pps, err := v.PointsPerShare(token)
		if err != nil {
			return nil, err
		}
		out.RewardTokens = append(out.RewardTokens, RewardToken{
			Token:          token,
			EscrowTarget:   cfg.EscrowTarget,
			EscrowPortion:  hex(cfg.EscrowPortion),
			EscrowDuration: cfg.EscrowDuration,
			PointsPerShare: hex(pps),
		})
	}
	return out, nil
}
