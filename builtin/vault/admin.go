// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

func (v *Vault) AddBlacklist(env *xenv.Environment, account thor.Address) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	amount, err := v.layer.Add(account)
	if err != nil {
		return err
	}
	env.Log(v.addr, events.BlacklistAdded{Account: account, Amount: amount})
	return nil
}

func (v *Vault) RemoveBlacklist(env *xenv.Environment, account thor.Address) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	amount, err := v.layer.Remove(account)
	if err != nil {
		return err
	}
	env.Log(v.addr, events.BlacklistRemoved{Account: account, Amount: amount})
	return nil
}

func (v *Vault) validateRewardToken(token thor.Address, cfg rewards.TokenConfig) error {
	if _, err := v.dir.Token(token); err != nil {
		return err
	}
	if cfg.EscrowTarget.IsZero() {
		return nil
	}
	if cfg.EscrowTarget == v.addr {
		return reverts.NewValidation("escrow target cannot be the vault itself")
	}
	target, err := v.dir.EscrowTarget(cfg.EscrowTarget)
	if err != nil {
		return err
	}
	if target.DepositToken() != token {
		return reverts.Newf(reverts.Validation, "escrow target %v does not lock %v", cfg.EscrowTarget, token)
	}
	return nil
}

// AddRewardToken registers a reward token with its claim routing.
func (v *Vault) AddRewardToken(env *xenv.Environment, token thor.Address, cfg rewards.TokenConfig) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	if err := v.validateRewardToken(token, cfg); err != nil {
		return err
	}
	if err := v.ledger.Register(token, cfg); err != nil {
		return err
	}
	env.Log(v.addr, events.RewardTokenAdded{
		Token:          token,
		EscrowTarget:   cfg.EscrowTarget,
		EscrowPortion:  new(big.Int).Set(cfg.EscrowPortion),
		EscrowDuration: cfg.EscrowDuration,
	})
	return nil
}

// UpdateRewardToken replaces the claim routing of a registered reward token.
func (v *Vault) UpdateRewardToken(env *xenv.Environment, token thor.Address, cfg rewards.TokenConfig) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	if err := v.validateRewardToken(token, cfg); err != nil {
		return err
	}
	if err := v.ledger.Update(token, cfg); err != nil {
		return err
	}
	env.Log(v.addr, events.RewardTokenUpdated{
		Token:          token,
		EscrowTarget:   cfg.EscrowTarget,
		EscrowPortion:  new(big.Int).Set(cfg.EscrowPortion),
		EscrowDuration: cfg.EscrowDuration,
	})
	return nil
}

func (v *Vault) SetGracePeriod(env *xenv.Environment, gracePeriod uint64) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	if err := v.gracePeriod.Set(new(big.Int).SetUint64(gracePeriod)); err != nil {
		return errors.Wrap(err, "failed to set grace period")
	}
	env.Log(v.addr, events.GracePeriodUpdated{GracePeriod: gracePeriod})
	return nil
}

// SetKickRewardIncentive sets the kicker reward in basis points.
func (v *Vault) SetKickRewardIncentive(env *xenv.Environment, incentive uint64) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	if incentive > thor.BasisPoints {
		return reverts.NewValidation("kick reward incentive over 100%")
	}
	if err := v.kickIncentive.Set(new(big.Int).SetUint64(incentive)); err != nil {
		return errors.Wrap(err, "failed to set kick reward incentive")
	}
	env.Log(v.addr, events.KickRewardIncentiveUpdated{KickRewardIncentive: incentive})
	return nil
}

func (v *Vault) AddBadge(env *xenv.Environment, badge thor.Address, id, boostedWeight *big.Int) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	return v.badges.AddBadge(env, badge, id, boostedWeight)
}

func (v *Vault) UpdateBadge(env *xenv.Environment, badge thor.Address, id, boostedWeight *big.Int) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	return v.badges.UpdateBadge(env, badge, id, boostedWeight)
}

func (v *Vault) AddToIneligibleList(env *xenv.Environment, account thor.Address) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	return v.badges.AddIneligible(env, account)
}

func (v *Vault) RemoveFromIneligibleList(env *xenv.Environment, account thor.Address) error {
	if err := v.onlyAdmin(env); err != nil {
		return err
	}
	return v.badges.RemoveIneligible(env, account)
}

func (v *Vault) GrantRole(env *xenv.Environment, role thor.Bytes32, account thor.Address) error {
	return v.access.GrantRole(env, role, account)
}

func (v *Vault) RevokeRole(env *xenv.Environment, role thor.Bytes32, account thor.Address) error {
	return v.access.RevokeRole(env, role, account)
}

func (v *Vault) HasRole(role thor.Bytes32, account thor.Address) (bool, error) {
	return v.access.HasRole(role, account)
}
