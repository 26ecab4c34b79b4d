// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/vechain/vault/thor"
)

// TokenConfig is the claim routing of a reward token.
type TokenConfig struct {
	EscrowTarget   thor.Address // zero when nothing is escrowed
	EscrowPortion  *big.Int     // fraction routed to escrow, 1e18 is 100%
	EscrowDuration uint64       // lock duration of escrow deposits
}

type tokenEntry struct {
	Registered bool
	Config     TokenConfig
}

// correction is a signed fixed-point value. rlp cannot encode negative integers,
// so the sign is stored apart from the magnitude.
type correction struct {
	Neg bool
	Abs *big.Int
}

func (c *correction) value() *big.Int {
	v := new(big.Int)
	if c.Abs != nil {
		v.Set(c.Abs)
	}
	if c.Neg {
		v.Neg(v)
	}
	return v
}

func newCorrection(v *big.Int) *correction {
	return &correction{Neg: v.Sign() < 0, Abs: new(big.Int).Abs(v)}
}
