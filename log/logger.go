// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Levels understood by the handlers.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to the root handler.
type Logger interface {
	With(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

// contextLogger resolves the root logger on every write, so package level
// loggers created at init time follow later SetDefault calls.
type contextLogger struct {
	ctx []any
}

// WithContext returns a logger carrying the given context pairs.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

func (l *contextLogger) With(ctx ...any) Logger {
	return &contextLogger{ctx: l.merge(ctx)}
}

func (l *contextLogger) merge(ctx []any) []any {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return append(merged, ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, l.merge(ctx)...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, l.merge(ctx)...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, l.merge(ctx)...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, l.merge(ctx)...) }
func (l *contextLogger) Error(msg string, ctx ...any) { ethlog.Root().Error(msg, l.merge(ctx)...) }

// SetDefault replaces the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// Root returns the root logger.
func Root() Logger {
	return &contextLogger{}
}

// Package level shortcuts writing to the root logger.
func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }

// FromLegacyLevel converts a 0 (crit) - 5 (trace) verbosity into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}
