// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "math/big"

const (
	// BasisPoints is the denominator of percentages expressed in basis points.
	BasisPoints = 10000

	// Durations in seconds, as read from the block clock.
	Minute uint64 = 60
	Hour          = 60 * Minute
	Day           = 24 * Hour
	Week          = 7 * Day
	Year          = 365 * Day
)

// Scale returns the fixed-point scale (1e18) shared by shares, multipliers and points.
// A new value is returned on every call, callers may mutate it.
func Scale() *big.Int {
	return big.NewInt(1e18)
}

// Units converts a whole number of tokens into 1e18 based units.
func Units(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Scale())
}
