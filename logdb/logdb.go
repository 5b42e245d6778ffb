// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
	"github.com/pkg/errors"
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
			if err := db.Close(); err != nil {
				slog.Error("could not close logdb", "err", err)
			}
		}
	}()
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create logdb schema")
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
func (db *LogDB) Close() {
	if err := db.db.Close(); err != nil {
		slog.Error("could not close logdb", "err", err)
	}
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

func (db *LogDB) Prepare(height, callTime uint64) *CallBatch {
	return &CallBatch{
		db:       db.db,
		height:   height,
		callTime: callTime,
	}
}

// SetTransferStatus records the settlement outcome of the transfer with the given outbox sequence.
func (db *LogDB) SetTransferStatus(ctx context.Context, seq uint64, status TransferStatus, settledAt uint64) error {
	res, err := db.db.ExecContext(ctx, "UPDATE transfer SET status = ?, settledAt = ? WHERE seq = ?;", string(status), settledAt, seq)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Errorf("transfer seq %v not found", seq)
	}
	return nil
}

func appendRange(stmt string, args []interface{}, r *Range) (string, []interface{}) {
	if r == nil {
		return stmt, args
	}
	condition := "height"
	if r.Unit == Time {
		condition = "callTime"
	}
	args = append(args, r.From)
	stmt += " AND " + condition + " >= ? "
	if r.To >= r.From {
		args = append(args, r.To)
		stmt += " AND " + condition + " <= ? "
	}
	return stmt, args
}

func appendOptions(stmt string, args []interface{}, opts *Options) (string, []interface{}) {
	if opts == nil {
		return stmt, args
	}
	stmt += " LIMIT ?, ? "
	return stmt, append(args, opts.Offset, opts.Limit)
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT "+eventColumns+" FROM event ORDER BY height ASC, eventIndex ASC")
	}
	var args []interface{}
	stmt := "SELECT " + eventColumns + " FROM event WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)
	if filter.CallID != nil {
		args = append(args, filter.CallID.Bytes())
		stmt += " AND callID = ? "
	}
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.String())
			stmt += " AND address = ? "
		}
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY height DESC, eventIndex DESC "
	} else {
		stmt += " ORDER BY height ASC, eventIndex ASC "
	}
	stmt, args = appendOptions(stmt, args, filter.Options)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, "SELECT "+transferColumns+" FROM transfer ORDER BY seq ASC")
	}
	var args []interface{}
	stmt := "SELECT " + transferColumns + " FROM transfer WHERE 1"
	stmt, args = appendRange(stmt, args, filter.Range)
	if filter.CallID != nil {
		args = append(args, filter.CallID.Bytes())
		stmt += " AND callID = ? "
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		stmt += " AND status = ? "
	}
	length := len(filter.CriteriaSet)
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1 "
		} else {
			stmt += " OR ( 1 "
		}
		if criteria.Caller != nil {
			args = append(args, criteria.Caller.String())
			stmt += " AND caller = ? "
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.String())
			stmt += " AND sender = ? "
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.String())
			stmt += " AND recipient = ? "
		}
		if i == length-1 {
			stmt += " )) "
		} else {
			stmt += " ) "
		}
	}
	// seq follows height and index, so it orders transfers in emission order
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}
	stmt, args = appendOptions(stmt, args, filter.Options)
	return db.queryTransfers(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...interface{}) ([]*Event, error) {
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
			callID   []byte
			index    uint32
			height   uint64
			callTime uint64
			caller   string
			address  string
			topics   [5][]byte
			data     []byte
		)
		if err := rows.Scan(
			&callID,
			&index,
			&height,
			&callTime,
			&caller,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			CallID:   meter.BytesToBytes32(callID),
			Index:    index,
			Height:   height,
			CallTime: callTime,
			Caller:   meter.AccountID(caller),
			Address:  meter.AccountID(address),
			Data:     data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := meter.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...interface{}) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			callID    []byte
			index     uint32
			height    uint64
			callTime  uint64
			caller    string
			sender    string
			recipient string
			amount    []byte
			seq       uint64
			status    string
			settledAt uint64
		)
		if err := rows.Scan(
			&callID,
			&index,
			&height,
			&callTime,
			&caller,
			&sender,
			&recipient,
			&amount,
			&seq,
			&status,
			&settledAt,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			CallID:    meter.BytesToBytes32(callID),
			Index:     index,
			Height:    height,
			CallTime:  callTime,
			Caller:    meter.AccountID(caller),
			Sender:    meter.AccountID(sender),
			Recipient: meter.AccountID(recipient),
			Amount:    new(big.Int).SetBytes(amount),
			Seq:       seq,
			Status:    TransferStatus(status),
			SettledAt: settledAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *meter.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// CallBatch collects the logs of calls executed at one height.
type CallBatch struct {
	db        *sql.DB
	height    uint64
	callTime  uint64
	events    []*Event
	transfers []*Transfer
}

func (cb *CallBatch) execInTx(proc func(*sql.Tx) error) (err error) {
	tx, err := cb.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		if e := tx.Rollback(); e != nil {
			slog.Error("could not rollback logdb tx", "err", e)
		}
		return err
	}
	return tx.Commit()
}

func (cb *CallBatch) Commit() error {
	return cb.execInTx(func(tx *sql.Tx) error {
		for _, event := range cb.events {
			if _, err := tx.Exec("INSERT OR REPLACE INTO event("+eventColumns+") VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				event.CallID.Bytes(),
				event.Index,
				event.Height,
				event.CallTime,
				event.Caller.String(),
				event.Address.String(),
				topicValue(event.Topics[0]),
				topicValue(event.Topics[1]),
				topicValue(event.Topics[2]),
				topicValue(event.Topics[3]),
				topicValue(event.Topics[4]),
				event.Data,
			); err != nil {
				return err
			}
		}

		for _, transfer := range cb.transfers {
			if _, err := tx.Exec("INSERT OR REPLACE INTO transfer("+transferColumns+") VALUES ( ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);",
				transfer.CallID.Bytes(),
				transfer.Index,
				transfer.Height,
				transfer.CallTime,
				transfer.Caller.String(),
				transfer.Sender.String(),
				transfer.Recipient.String(),
				transfer.Amount.Bytes(),
				transfer.Seq,
				string(transfer.Status),
				transfer.SettledAt,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// ForCall binds the logs inserted next to one call. Transfers take consecutive
// outbox sequence numbers starting at firstSeq.
func (cb *CallBatch) ForCall(callID meter.Bytes32, caller meter.AccountID) struct {
	Insert func(tx.Events, tx.Transfers, uint64) *CallBatch
} {
	return struct {
		Insert func(events tx.Events, transfers tx.Transfers, firstSeq uint64) *CallBatch
	}{
		func(events tx.Events, transfers tx.Transfers, firstSeq uint64) *CallBatch {
			for _, event := range events {
				cb.events = append(cb.events, newEvent(cb.height, cb.callTime, uint32(len(cb.events)), callID, caller, event))
			}
			for i, transfer := range transfers {
				cb.transfers = append(cb.transfers, newTransfer(cb.height, cb.callTime, uint32(len(cb.transfers)), callID, caller, firstSeq+uint64(i), transfer))
			}
			return cb
		},
	}
}
