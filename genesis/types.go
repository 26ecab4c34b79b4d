// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/vault/thor"
)

// Amount is an integer amount written as decimal, hex or scientific notation ("10e18", "0.6e18").
type Amount math.HexOrDecimal256

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	s := strings.ReplaceAll(strings.TrimSpace(string(text)), "_", "")
	if v, ok := math.ParseBig256(s); ok && v.Sign() >= 0 {
		(*big.Int)(a).Set(v)
		return nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok || !r.IsInt() || r.Sign() < 0 {
		return errors.Errorf("invalid amount %q", s)
	}
	(*big.Int)(a).Set(r.Num())
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a *Amount) MarshalText() ([]byte, error) {
	return []byte((*big.Int)(a).String()), nil
}

// Big returns the amount, zero for a nil receiver.
func (a *Amount) Big() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(a))
}

// NewAmount wraps v.
func NewAmount(v *big.Int) *Amount {
	return (*Amount)(new(big.Int).Set(v))
}

// Duration is a number of seconds. It is written as an integer or a duration
// string accepting the extra units d (day) and y (365 days).
type Duration uint64

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}
	for suffix, unit := range map[string]uint64{"d": thor.Day, "y": thor.Year} {
		if n, ok := strings.CutSuffix(s, suffix); ok {
			v, err := strconv.ParseUint(n, 10, 64)
			if err != nil {
				return errors.Errorf("invalid duration %q", s)
			}
			*d = Duration(v * unit)
			return nil
		}
	}
	v, err := time.ParseDuration(s)
	if err != nil || v < 0 {
		return errors.Errorf("invalid duration %q", s)
	}
	*d = Duration(v / time.Second)
	return nil
}

func (d Duration) Seconds() uint64 { return uint64(d) }

// Allocation is an initial token balance.
type Allocation struct {
	Address thor.Address `yaml:"address"`
	Amount  *Amount      `yaml:"amount"`
}

type Token struct {
	Address     thor.Address `yaml:"address"`
	Symbol      string       `yaml:"symbol"`
	Allocations []Allocation `yaml:"allocations"`
}

// Holding is an initial badge balance.
type Holding struct {
	Owner  thor.Address `yaml:"owner"`
	ID     *Amount      `yaml:"id"`
	Amount *Amount      `yaml:"amount"`
}

type Badge struct {
	Address  thor.Address `yaml:"address"`
	Holdings []Holding    `yaml:"holdings"`
}

type RewardToken struct {
	Token          thor.Address `yaml:"token"`
	EscrowTarget   thor.Address `yaml:"escrowTarget"`
	EscrowPortion  *Amount      `yaml:"escrowPortion"`
	EscrowDuration Duration     `yaml:"escrowDuration"`
}

type BadgeWeight struct {
	Badge  thor.Address `yaml:"badge"`
	ID     *Amount      `yaml:"id"`
	Weight *Amount      `yaml:"weight"`
}

type Vault struct {
	Address             thor.Address  `yaml:"address"`
	DepositToken        thor.Address  `yaml:"depositToken"`
	MaxBonus            *Amount       `yaml:"maxBonus"`
	MinLockDuration     Duration      `yaml:"minLockDuration"`
	MaxLockDuration     Duration      `yaml:"maxLockDuration"`
	GracePeriod         Duration      `yaml:"gracePeriod"`
	KickRewardIncentive uint64        `yaml:"kickRewardIncentive"`
	Admin               thor.Address  `yaml:"admin"`
	RewardTokens        []RewardToken `yaml:"rewardTokens"`
	Badges              []BadgeWeight `yaml:"badges"`
}

// Spec describes the contracts and initial state of a deployment.
type Spec struct {
	LaunchTime uint64       `yaml:"launchTime"`
	Minter     thor.Address `yaml:"minter"`
	Tokens     []Token      `yaml:"tokens"`
	Badges     []Badge      `yaml:"badges"`
	Vaults     []Vault      `yaml:"vaults"`
}
