// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	blockNumber integer,
	blockTime integer,
	op text,
	caller blob(20),
	address blob(20),
	name text,
	data text
);

CREATE INDEX if not exists eventBlockNumberIndex on event(blockNumber);
CREATE INDEX if not exists eventBlockTimeIndex on event(blockTime);
CREATE INDEX if not exists eventAddressIndex on event(address);
CREATE INDEX if not exists eventNameIndex on event(name);
`
