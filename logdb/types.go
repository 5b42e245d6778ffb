// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

//Event represents tx.Event that can be stored in db.
type Event struct {
	CallID   meter.Bytes32
	Index    uint32
	Height   uint64
	CallTime uint64
	Caller   meter.AccountID
	Address  meter.AccountID // always the contract account
	Topics   [5]*meter.Bytes32
	Data     []byte
}

//newEvent converts tx.Event to Event.
func newEvent(height, callTime uint64, index uint32, callID meter.Bytes32, caller meter.AccountID, txEvent *tx.Event) *Event {
	ev := &Event{
		CallID:   callID,
		Index:    index,
		Height:   height,
		CallTime: callTime,
		Caller:   caller,
		Address:  txEvent.Address,
		Data:     txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		topic := txEvent.Topics[i]
		ev.Topics[i] = &topic
	}
	return ev
}

type TransferStatus string

const (
	Pending TransferStatus = "pending"
	Settled TransferStatus = "settled"
	Failed  TransferStatus = "failed"
	Noop    TransferStatus = "noop"
)

//Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	CallID    meter.Bytes32
	Index     uint32
	Height    uint64
	CallTime  uint64
	Caller    meter.AccountID
	Sender    meter.AccountID
	Recipient meter.AccountID
	Amount    *big.Int
	Seq       uint64
	Status    TransferStatus
	SettledAt uint64
}

//newTransfer converts tx.Transfer to Transfer.
func newTransfer(height, callTime uint64, index uint32, callID meter.Bytes32, caller meter.AccountID, seq uint64, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		CallID:    callID,
		Index:     index,
		Height:    height,
		CallTime:  callTime,
		Caller:    caller,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    new(big.Int).Set(transfer.Amount),
		Seq:       seq,
		Status:    Pending,
	}
}

type RangeType string

const (
	Height RangeType = "height"
	Time   RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *meter.AccountID
	Topics  [5]*meter.Bytes32
}

//EventFilter filter
type EventFilter struct {
	CallID      *meter.Bytes32
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}

type TransferCriteria struct {
	Caller    *meter.AccountID //who made the call
	Sender    *meter.AccountID
	Recipient *meter.AccountID
}

type TransferFilter struct {
	CallID      *meter.Bytes32
	Status      *TransferStatus
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order //default asc
}
