// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/thor"
)

// DefaultMinLockDuration is the lock floor applied when a config leaves it unset.
const DefaultMinLockDuration = 10 * thor.Minute

// Config holds the immutable parameters of a vault.
type Config struct {
	DepositToken    thor.Address
	MaxBonus        *big.Int // extra multiplier at MaxLockDuration, 1e18 is +100%
	MinLockDuration uint64
	MaxLockDuration uint64
}

// Params are the admin adjustable settings set when the vault is initialized.
type Params struct {
	GracePeriod         uint64
	KickRewardIncentive uint64 // in basis points
}

func (c *Config) validate() error {
	if c.DepositToken.IsZero() {
		return errors.New("vault: deposit token not set")
	}
	if c.MaxBonus == nil {
		c.MaxBonus = new(big.Int)
	}
	if c.MaxBonus.Sign() < 0 {
		return errors.New("vault: negative max bonus")
	}
	if c.MinLockDuration == 0 {
		c.MinLockDuration = DefaultMinLockDuration
	}
	if c.MaxLockDuration < c.MinLockDuration {
		return errors.Errorf("vault: max lock duration %d below min lock duration %d", c.MaxLockDuration, c.MinLockDuration)
	}
	return nil
}
