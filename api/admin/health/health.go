// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health reports whether the service is bootstrapped and persisting state.
package health

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/runtime"
)

type Status struct {
	Healthy      bool       `json:"healthy"`
	Bootstrapped bool       `json:"bootstrapped"`
	BlockNumber  uint32     `json:"blockNumber"`
	BlockTime    uint64     `json:"blockTime"`
	LastCommit   *time.Time `json:"lastCommit"`
	CommitError  string     `json:"commitError,omitempty"`
}

// Health tracks the bootstrap and commit progress of a runtime.
type Health struct {
	lock         sync.RWMutex
	rt           *runtime.Runtime
	bootstrapped bool
	lastCommit   time.Time
	commitErr    error
}

func New(rt *runtime.Runtime) *Health {
	return &Health{rt: rt}
}

func (h *Health) Bootstrapped() {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.bootstrapped = true
}

// CommitDone records the outcome of a state commit.
func (h *Health) CommitDone(err error) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.lastCommit = time.Now()
	h.commitErr = err
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	block := h.rt.Block()
	s := &Status{
		Healthy:      h.bootstrapped && h.commitErr == nil,
		Bootstrapped: h.bootstrapped,
		BlockNumber:  block.Number,
		BlockTime:    block.Time,
	}
	if !h.lastCommit.IsZero() {
		last := h.lastCommit
		s.LastCommit = &last
	}
	if h.commitErr != nil {
		s.CommitError = h.commitErr.Error()
	}
	return s
}

type API struct {
	health *Health
}

func NewAPI(health *Health) *API {
	return &API{health: health}
}

func (a *API) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status := a.health.Status()
	if !status.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHealth))
}
