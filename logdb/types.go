// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"encoding/json"

	"github.com/vechain/vault/thor"
)

// Event is a stored receipt event.
type Event struct {
	Seq         uint64          `json:"seq"`
	BlockNumber uint32          `json:"blockNumber"`
	BlockTime   uint64          `json:"blockTime"`
	Op          string          `json:"op"`
	Caller      thor.Address    `json:"caller"`
	Address     thor.Address    `json:"address"`
	Name        string          `json:"name"`
	Data        json.RawMessage `json:"data"`
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventFilter selects events. Zero fields match everything.
type EventFilter struct {
	Address *thor.Address
	Name    string
	Range   *Range
	Options *Options
	Order   Order
}
