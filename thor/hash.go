// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

// Blake2b computes blake2b-256 checksum for given data.
// Storage positions and composite keys are derived with it.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}

	w := hasherPool.Get().(*hasher)
	defer hasherPool.Put(w)

	w.Reset()
	for _, b := range data {
		w.Write(b)
	}
	var h Bytes32
	w.Sum(h[:0])
	return h
}

type hasher struct {
	hash.Hash
}

var hasherPool = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return &hasher{h}
	},
}
