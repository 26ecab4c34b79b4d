// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/vechain/vault/logdb"
	"github.com/vechain/vault/thor"
)

type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	Address *thor.Address `json:"address,omitempty"`
	Name    string        `json:"name,omitempty"`
	Range   *Range        `json:"range,omitempty"`
	Options *Options      `json:"options,omitempty"`
	Order   logdb.Order   `json:"order,omitempty"`
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	unit := logdb.RangeType(r.Unit)
	switch unit {
	case "":
		unit = logdb.Block
	case logdb.Block, logdb.Time:
	default:
		return nil, fmt.Errorf("unknown range unit %q", r.Unit)
	}
	out := &logdb.Range{Unit: unit, To: math.MaxInt64}
	if r.From != nil {
		out.From = min(*r.From, math.MaxInt64)
	}
	if r.To != nil && *r.To < math.MaxInt64 {
		out.To = *r.To
	}
	if out.From > out.To {
		return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return out, nil
}

func convertFilter(f *EventFilter) (*logdb.EventFilter, error) {
	r, err := convertRange(f.Range)
	if err != nil {
		return nil, err
	}
	out := &logdb.EventFilter{
		Address: f.Address,
		Name:    f.Name,
		Range:   r,
		Order:   f.Order,
	}
	if f.Options != nil {
		out.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	return out, nil
}
