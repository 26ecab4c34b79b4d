// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/binary"
	"math/big"

	"github.com/vechain/vault/thor"
)

var (
	devAccounts = func() []thor.Address {
		accs := make([]thor.Address, 10)
		for i := range accs {
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], uint64(i))
			h := thor.Blake2b([]byte("dev-account"), b[:])
			accs[i] = thor.BytesToAddress(h[12:])
		}
		return accs
	}()

	// DevToken is the deposit token of the devnet vault.
	DevToken = thor.BytesToAddress([]byte("dev-token"))
	// DevRewardToken is distributed by the devnet vault, 60% escrowed into DevEscrowVault.
	DevRewardToken = thor.BytesToAddress([]byte("dev-reward"))
	DevBadge       = thor.BytesToAddress([]byte("dev-badge"))
	DevVault       = thor.BytesToAddress([]byte("dev-vault"))
	DevEscrowVault = thor.BytesToAddress([]byte("dev-escrow-vault"))

	// DevLaunchTime is the devnet genesis timestamp.
	DevLaunchTime uint64 = 1_700_000_000
)

// DevAccounts returns the pre-funded devnet accounts. The first one administrates the vaults.
func DevAccounts() []thor.Address {
	return append([]thor.Address(nil), devAccounts...)
}

// DevBadgeID is the badge id held by the i-th dev account.
func DevBadgeID(i int) *big.Int {
	return big.NewInt(int64(i) + 1)
}

// percent returns p% of the 1e18 scale.
func percent(p int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(p), big.NewInt(1e16))
}

// NewDevnet returns the devnet spec. Every dev account holds 1,000,000 of each token
// and its own badge, worth a 10% boost in the devnet vault.
func NewDevnet() *Spec {
	million := NewAmount(thor.Units(1_000_000))

	tokens := []Token{{Address: DevToken, Symbol: "DEV"}, {Address: DevRewardToken, Symbol: "RWD"}}
	var (
		holdings []Holding
		weights  []BadgeWeight
	)
	for i, acc := range devAccounts {
		for j := range tokens {
			tokens[j].Allocations = append(tokens[j].Allocations, Allocation{Address: acc, Amount: million})
		}
		id := NewAmount(DevBadgeID(i))
		holdings = append(holdings, Holding{Owner: acc, ID: id, Amount: NewAmount(big.NewInt(1))})
		weights = append(weights, BadgeWeight{Badge: DevBadge, ID: id, Weight: NewAmount(percent(10))})
	}

	admin := devAccounts[0]
	return &Spec{
		LaunchTime: DevLaunchTime,
		Minter:     DefaultMinter,
		Tokens:     tokens,
		Badges:     []Badge{{Address: DevBadge, Holdings: holdings}},
		Vaults: []Vault{
			{
				Address:         DevEscrowVault,
				DepositToken:    DevRewardToken,
				MaxBonus:        NewAmount(thor.Scale()),
				MaxLockDuration: Duration(thor.Year),
				GracePeriod:     Duration(thor.Week),
				Admin:           admin,
			},
			{
				Address:             DevVault,
				DepositToken:        DevToken,
				MaxBonus:            NewAmount(thor.Scale()),
				MaxLockDuration:     Duration(4 * thor.Year),
				GracePeriod:         Duration(thor.Week),
				KickRewardIncentive: 100,
				Admin:               admin,
				RewardTokens: []RewardToken{{
					Token:          DevRewardToken,
					EscrowTarget:   DevEscrowVault,
					EscrowPortion:  NewAmount(percent(60)),
					EscrowDuration: Duration(thor.Year),
				}},
				Badges: weights,
			},
		},
	}
}
