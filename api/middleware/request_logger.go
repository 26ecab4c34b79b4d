// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package middleware holds http middlewares shared by the api servers.
package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pborman/uuid"

	"github.com/vechain/vault/log"
)

// RequestIDHeader carries the id correlating a request with its log line.
const RequestIDHeader = "X-Request-Id"

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestLoggerMiddleware logs every request while enabled, and the ones slower than
// slowQueriesThreshold when it is not zero.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowQueriesThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New()
			}
			w.Header().Set(RequestIDHeader, id)

			// the body can be read once, put it back for the handlers
			var bodyBytes []byte
			if r.Body != nil {
				var err error
				if bodyBytes, err = io.ReadAll(r.Body); err != nil {
					logger.Warn("unexpected body read error", "err", err, "requestID", id)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			slow := slowQueriesThreshold > 0 && duration > slowQueriesThreshold
			if enabled.Load() || slow {
				logger.Info("API Request",
					"requestID", id,
					"durationMs", duration.Milliseconds(),
					"status", sw.status,
					"URI", r.URL.String(),
					"method", r.Method,
					"body", string(bodyBytes),
					"slow", slow,
				)
			}
		})
	}
}
