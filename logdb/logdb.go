// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb indexes the events of executed transactions in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"encoding/json"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/thor"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Write stores the events of the receipts in one sql transaction.
func (db *LogDB) Write(ctx context.Context, receipts ...*runtime.Receipt) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO event(blockNumber, blockTime, op, caller, address, name, data) VALUES(?,?,?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range receipts {
		for _, ev := range r.Events {
			data, err := json.Marshal(ev.Data)
			if err != nil {
				return errors.Wrap(err, "encode event")
			}
			if _, err := stmt.ExecContext(ctx,
				r.BlockNumber,
				r.BlockTime,
				r.Op,
				r.Caller.Bytes(),
				ev.Address.Bytes(),
				ev.Name,
				string(data),
			); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		condition := "blockNumber"
		if filter.Range.Unit == Time {
			condition = "blockTime"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ? "
		}
	}
	if filter.Address != nil {
		args = append(args, filter.Address.Bytes())
		stmt += " AND address = ? "
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		stmt += " AND name = ? "
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}

	if filter.Options != nil {
		stmt += " limit ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq         uint64
			blockNumber uint32
			blockTime   uint64
			op          string
			caller      []byte
			address     []byte
			name        string
			data        string
		)
		if err := rows.Scan(
			&seq,
			&blockNumber,
			&blockTime,
			&op,
			&caller,
			&address,
			&name,
			&data,
		); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:         seq,
			BlockNumber: blockNumber,
			BlockTime:   blockTime,
			Op:          op,
			Caller:      thor.BytesToAddress(caller),
			Address:     thor.BytesToAddress(address),
			Name:        name,
			Data:        json.RawMessage(data),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
