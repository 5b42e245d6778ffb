// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfers

import (
	"github.com/meterio/meter-auction/api/events"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
)

type FilteredTransfer struct {
	Sender    meter.AccountID      `json:"sender"`
	Recipient meter.AccountID      `json:"recipient"`
	Amount    string               `json:"amount"`
	NEAR      string               `json:"near"`
	Seq       uint64               `json:"seq"`
	Status    logdb.TransferStatus `json:"status"`
	SettledAt uint64               `json:"settledAt,omitempty"`
	Meta      events.LogMeta       `json:"meta"`
}

func convertTransfer(transfer *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    transfer.Amount.String(),
		NEAR:      meter.FormatNEAR(transfer.Amount),
		Seq:       transfer.Seq,
		Status:    transfer.Status,
		SettledAt: transfer.SettledAt,
		Meta: events.LogMeta{
			CallID:   transfer.CallID,
			Height:   transfer.Height,
			CallTime: transfer.CallTime,
			Caller:   transfer.Caller,
		},
	}
}

type TransferCriteria struct {
	Caller    *meter.AccountID `json:"caller"`
	Sender    *meter.AccountID `json:"sender"`
	Recipient *meter.AccountID `json:"recipient"`
}

type TransferFilter struct {
	CallID      *meter.Bytes32        `json:"callID"`
	Status      *logdb.TransferStatus `json:"status"`
	CriteriaSet []*TransferCriteria   `json:"criteriaSet"`
	Range       *logdb.Range          `json:"range"`
	Options     *logdb.Options        `json:"options"`
	Order       logdb.Order           `json:"order"`
}

func convertTransferFilter(filter *TransferFilter) *logdb.TransferFilter {
	f := &logdb.TransferFilter{
		CallID:  filter.CallID,
		Status:  filter.Status,
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	for _, c := range filter.CriteriaSet {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.TransferCriteria{
			Caller:    c.Caller,
			Sender:    c.Sender,
			Recipient: c.Recipient,
		})
	}
	return f
}
