// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/vault/thor"
	"github.com/vechain/vault/xenv"
)

// Event is an emitted event in a receipt.
type Event struct {
	Address thor.Address `json:"address"`
	Name    string       `json:"name"`
	Data    xenv.Event   `json:"data"`
}

// Receipt is the outcome of a successful transaction.
type Receipt struct {
	Op          string       `json:"op"`
	Caller      thor.Address `json:"caller"`
	BlockNumber uint32       `json:"blockNumber"`
	BlockTime   uint64       `json:"blockTime"`
	Events      []Event      `json:"events"`
}

func newReceipt(op string, caller thor.Address, block xenv.BlockContext, logs []xenv.Log) *Receipt {
	r := &Receipt{
		Op:          op,
		Caller:      caller,
		BlockNumber: block.Number,
		BlockTime:   block.Time,
		Events:      make([]Event, 0, len(logs)),
	}
	for _, l := range logs {
		r.Events = append(r.Events, Event{Address: l.Address, Name: l.Event.Name(), Data: l.Event})
	}
	return r
}

// Find returns the events named name.
func (r *Receipt) Find(name string) []Event {
	var found []Event
	for _, ev := range r.Events {
		if ev.Name == name {
			found = append(found, ev)
		}
	}
	return found
}
