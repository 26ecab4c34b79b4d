// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vaults serves read only views of the vaults.
package vaults

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/builtin/vault"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

type Vaults struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Vaults {
	return &Vaults{rt: rt}
}

func (v *Vaults) vault(req *http.Request) (*vault.Vault, error) {
	addr, err := utils.AddressVar(req, "vault")
	if err != nil {
		return nil, err
	}
	bound, ok := v.rt.Vault(addr)
	if !ok {
		return nil, utils.NotFound(errors.Errorf("vault %v not found", addr))
	}
	return bound, nil
}

func (v *Vaults) handleList(w http.ResponseWriter, _ *http.Request) error {
	var bound []*vault.Vault
	for _, addr := range v.rt.Vaults() {
		if vlt, ok := v.rt.Vault(addr); ok {
			bound = append(bound, vlt)
		}
	}
	list := make([]*Vault, 0, len(bound))
	err := v.rt.View(func(*xenv.Environment) error {
		for _, vlt := range bound {
			out, err := convertVault(vlt)
			if err != nil {
				return err
			}
			list = append(list, out)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

func (v *Vaults) handleGetVault(w http.ResponseWriter, req *http.Request) error {
	vlt, err := v.vault(req)
	if err != nil {
		return err
	}
	var out *Vault
	if err := v.rt.View(func(*xenv.Environment) (err error) {
		out, err = convertVault(vlt)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (v *Vaults) handleGetMultiplier(w http.ResponseWriter, req *http.Request) error {
	vlt, err := v.vault(req)
	if err != nil {
		return err
	}
	duration, err := utils.Uint64Query(req, "duration", vlt.Config().MaxLockDuration)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Multiplier{
		Duration:   duration,
		Multiplier: hex(vlt.GetMultiplier(duration)),
	})
}

func (v *Vaults) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	vlt, err := v.vault(req)
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}

	var out Account
	err = v.rt.View(func(env *xenv.Environment) error {
		shares, err := vlt.BalanceOf(account)
		if err != nil {
			return err
		}
		adjusted, err := vlt.AdjustedBalanceOf(account)
		if err != nil {
			return err
		}
		total, err := vlt.TotalDepositedOf(account)
		if err != nil {
			return err
		}
		entry, err := vlt.BlacklistEntry(account)
		if err != nil {
			return err
		}
		if out.Ineligible, err = vlt.IsIneligible(account); err != nil {
			return err
		}
		multiplier, err := vlt.GetBadgeMultiplier(env, account)
		if err != nil {
			return err
		}
		out.Shares, out.AdjustedShares, out.TotalDeposited = hex(shares), hex(adjusted), hex(total)
		out.Blacklisted, out.BlacklistedAmount = entry.IsBlacklisted, hex(entry.Amount)
		out.BadgeMultiplier = hex(multiplier)

		ds, err := vlt.DepositsOf(account)
		if err != nil {
			return err
		}
		out.Deposits = make([]Deposit, 0, len(ds))
		for i, d := range ds {
			out.Deposits = append(out.Deposits, convertDeposit(uint64(i), d, env.Now()))
		}

		tokens, err := vlt.RewardTokens()
		if err != nil {
			return err
		}
		out.Rewards = make([]Reward, 0, len(tokens))
		for _, token := range tokens {
			r, err := reward(vlt, token, account)
			if err != nil {
				return err
			}
			out.Rewards = append(out.Rewards, r)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

func reward(vlt *vault.Vault, token, account thor.Address) (Reward, error) {
	withdrawable, err := vlt.WithdrawableRewardsOf(token, account)
	if err != nil {
		return Reward{}, err
	}
	cumulative, err := vlt.CumulativeRewardsOf(token, account)
	if err != nil {
		return Reward{}, err
	}
	withdrawn, err := vlt.WithdrawnRewardsOf(token, account)
	if err != nil {
		return Reward{}, err
	}
	return Reward{Token: token, Withdrawable: hex(withdrawable), Cumulative: hex(cumulative), Withdrawn: hex(withdrawn)}, nil
}

func (v *Vaults) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	vlt, err := v.vault(req)
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var out Deposit
	err = v.rt.View(func(env *xenv.Environment) error {
		d, err := vlt.DepositOf(account, id)
		if err != nil {
			return utils.NotFound(err)
		}
		out = convertDeposit(id, d, env.Now())
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

func (v *Vaults) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /vaults").
		HandlerFunc(utils.WrapHandlerFunc(v.handleList))
	sub.Path("/{vault}").
		Methods(http.MethodGet).
		Name("GET /vaults/{vault}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetVault))
	sub.Path("/{vault}/multiplier").
		Methods(http.MethodGet).
		Name("GET /vaults/{vault}/multiplier").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetMultiplier))
	sub.Path("/{vault}/accounts/{account}").
		Methods(http.MethodGet).
		Name("GET /vaults/{vault}/accounts/{account}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetAccount))
	sub.Path("/{vault}/accounts/{account}/deposits/{id}").
		Methods(http.MethodGet).
		Name("GET /vaults/{vault}/accounts/{account}/deposits/{id}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetDeposit))
}
