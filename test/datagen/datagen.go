// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random values for tests.
package datagen

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"

	"github.com/vechain/vault/thor"
)

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandBytes32() (b thor.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr thor.Address) {
	rand.Read(addr[:])
	return
}

// RandUnits returns a random amount in [1, n] whole tokens.
func RandUnits(n int) *big.Int {
	return thor.Units(int64(RandIntN(n) + 1))
}
