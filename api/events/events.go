// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events filters the indexed receipt events.
package events

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Order != "" && filter.Order != logdb.ASC && filter.Order != logdb.DESC {
		return utils.BadRequest(fmt.Errorf("unknown order %q", filter.Order))
	}
	if filter.Options == nil {
		// one more than the limit detects an oversized result
		filter.Options = &Options{Limit: e.limit + 1}
	}

	f, err := convertFilter(&filter)
	if err != nil {
		return utils.BadRequest(err)
	}
	events, err := e.db.FilterEvents(req.Context(), f)
	if err != nil {
		return err
	}
	if len(events) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered logs exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	if events == nil {
		events = []*logdb.Event{}
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
