// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats is a utility for collecting cache hit/miss.
type Stats struct {
	hit, miss atomic.Int64
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Counts returns the number of hits and misses.
func (cs *Stats) Counts() (hit int64, miss int64) {
	return cs.hit.Load(), cs.miss.Load()
}
