// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/thor"
)

// AddressVar parses the path variable name as an address.
func AddressVar(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Uint64Var parses the path variable name as an unsigned integer.
func Uint64Var(req *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(req)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Uint64Query parses the query parameter name, falling back to def when absent.
func Uint64Query(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}
