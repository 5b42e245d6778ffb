// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	callID BLOB(32) NOT NULL,
	eventIndex INTEGER NOT NULL,
	height INTEGER NOT NULL,
	callTime INTEGER NOT NULL,
	caller TEXT NOT NULL,
	address TEXT NOT NULL,
	topic0 BLOB(32),
	topic1 BLOB(32),
	topic2 BLOB(32),
	topic3 BLOB(32),
	topic4 BLOB(32),
	data BLOB,
	PRIMARY KEY (callID, eventIndex));
CREATE INDEX IF NOT EXISTS eventHeight ON event(height);
CREATE INDEX IF NOT EXISTS eventTime ON event(callTime);
CREATE INDEX IF NOT EXISTS eventTopic1 ON event(topic1);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	callID BLOB(32) NOT NULL,
	transferIndex INTEGER NOT NULL,
	height INTEGER NOT NULL,
	callTime INTEGER NOT NULL,
	caller TEXT NOT NULL,
	sender TEXT NOT NULL,
	recipient TEXT NOT NULL,
	amount BLOB(32),
	seq INTEGER NOT NULL UNIQUE,
	status TEXT NOT NULL DEFAULT 'pending',
	settledAt INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (callID, transferIndex));
CREATE INDEX IF NOT EXISTS transferHeight ON transfer(height);
CREATE INDEX IF NOT EXISTS transferRecipient ON transfer(recipient);
CREATE INDEX IF NOT EXISTS transferStatus ON transfer(status);
`

	eventColumns    = "callID, eventIndex, height, callTime, caller, address, topic0, topic1, topic2, topic3, topic4, data"
	transferColumns = "callID, transferIndex, height, callTime, caller, sender, recipient, amount, seq, status, settledAt"
)
