// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package tokens serves token balances.
package tokens

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

type Balance struct {
	Token   thor.Address          `json:"token"`
	Account thor.Address          `json:"account"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt: rt}
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	token, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	account, err := utils.AddressVar(req, "account")
	if err != nil {
		return err
	}
	var balance *big.Int
	err = t.rt.View(func(env *xenv.Environment) error {
		tok, err := t.rt.Token(token)
		if err != nil {
			return utils.NotFound(err)
		}
		balance, err = tok.BalanceOf(env, account)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Token: token, Account: account, Balance: (*math.HexOrDecimal256)(balance)})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{token}/balances/{account}").
		Methods(http.MethodGet).
		Name("GET /tokens/{token}/balances/{account}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
}
