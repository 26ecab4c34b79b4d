// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/thor"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*big.Int, error) {
	raw, err := u.context.state.GetRawStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errors.New("uint256: negative value")
	}
	if value.BitLen() > 256 {
		return errors.New("uint256: overflow")
	}
	u.context.state.SetRawStorage(u.context.address, u.pos, value.Bytes())
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Sub(storage, value))
}
