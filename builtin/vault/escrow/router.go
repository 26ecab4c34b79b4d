// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package escrow routes claimed rewards between a direct transfer and an escrow lock.
package escrow

import (
	"math/big"

	"github.com/vechain/vault/builtin/contracts"
	"github.com/vechain/vault/builtin/events"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/vault/eligibility"
	"github.com/vechain/vault/builtin/vault/rewards"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

var logger = log.WithContext("pkg", "escrow")

// dustThreshold is the largest direct amount dropped instead of transferred.
var dustThreshold = big.NewInt(1)

type Router struct {
	addr   thor.Address
	ledger *rewards.Ledger
	layer  *eligibility.Layer
	dir    contracts.Directory
}

// New creates the router of the vault at addr, which holds the reward tokens.
func New(addr thor.Address, ledger *rewards.Ledger, layer *eligibility.Layer, dir contracts.Directory) *Router {
	return &Router{addr: addr, ledger: ledger, layer: layer, dir: dir}
}

// Claim is the outcome of claiming one reward token. Direct is what was actually transferred.
type Claim struct {
	Token    thor.Address `json:"token"`
	Escrowed *big.Int     `json:"escrowed"`
	Direct   *big.Int     `json:"direct"`
}

// ClaimRewards pays everything account can withdraw of token to receiver.
// Nothing happens when there is nothing to withdraw.
func (r *Router) ClaimRewards(env *xenv.Environment, token, account, receiver thor.Address) (*Claim, error) {
	if receiver.IsZero() {
		return nil, reverts.NewValidation("escrow: zero receiver")
	}
	cfg, err := r.ledger.TokenConfig(token)
	if err != nil {
		return nil, err
	}
	balance, err := r.layer.AdjustedBalanceOf(account)
	if err != nil {
		return nil, err
	}
	amount, err := r.ledger.PrepareCollect(token, account, balance)
	if err != nil {
		return nil, err
	}
	claim := &Claim{Token: token, Escrowed: new(big.Int), Direct: new(big.Int)}
	if amount.Sign() == 0 {
		return claim, nil
	}

	claim.Escrowed.Mul(amount, cfg.EscrowPortion).Div(claim.Escrowed, thor.Scale())
	claim.Direct.Sub(amount, claim.Escrowed)

	rewardToken, err := r.dir.Token(token)
	if err != nil {
		return nil, err
	}
	self := env.WithCaller(r.addr)
	if claim.Escrowed.Sign() > 0 && !cfg.EscrowTarget.IsZero() {
		target, err := r.dir.EscrowTarget(cfg.EscrowTarget)
		if err != nil {
			return nil, err
		}
		if err := rewardToken.Approve(self, target.Address(), claim.Escrowed); err != nil {
			return nil, err
		}
		if err := target.Deposit(self, claim.Escrowed, cfg.EscrowDuration, receiver); err != nil {
			return nil, err
		}
	}
	if claim.Direct.Cmp(dustThreshold) > 0 {
		if err := rewardToken.Transfer(self, receiver, claim.Direct); err != nil {
			return nil, err
		}
	} else {
		// dropped dust stays in the vault and is not reported as paid
		claim.Direct.SetUint64(0)
	}

	env.Log(r.addr, events.RewardsClaimed{
		Token:    token,
		Payer:    account,
		Receiver: receiver,
		Escrowed: new(big.Int).Set(claim.Escrowed),
		Direct:   new(big.Int).Set(claim.Direct),
	})
	logger.Debug("rewards claimed", "token", token, "account", account, "escrowed", claim.Escrowed, "direct", claim.Direct)
	return claim, nil
}

// ClaimAll claims every registered reward token independently.
func (r *Router) ClaimAll(env *xenv.Environment, account, receiver thor.Address) ([]*Claim, error) {
	tokens, err := r.ledger.Tokens()
	if err != nil {
		return nil, err
	}
	claims := make([]*Claim, 0, len(tokens))
	for _, token := range tokens {
		claim, err := r.ClaimRewards(env, token, account, receiver)
		if err != nil {
			return nil, err
		}
		claims = append(claims, claim)
	}
	return claims, nil
}
