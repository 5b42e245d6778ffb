// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	auctionscript "github.com/meterio/meter-auction/script/auction"
	"github.com/pkg/errors"
)

type Status struct {
	IsActive      bool            `json:"isActive"`
	TimeRemaining uint64          `json:"timeRemaining"`
	Remaining     string          `json:"remaining"`
	EndTime       uint64          `json:"endTime"`
	HighestBidder meter.AccountID `json:"highestBidder"`
	HighestBid    string          `json:"highestBid"`
	HighestNEAR   string          `json:"highestBidNEAR"`
	Claimed       bool            `json:"claimed"`
	Beneficiary   meter.AccountID `json:"beneficiary"`
}

func ConvertStatus(s *auctionscript.AuctionStatus) *Status {
	return &Status{
		IsActive:      s.IsActive,
		TimeRemaining: s.TimeRemaining,
		Remaining:     meter.PrettyNanos(s.TimeRemaining),
		EndTime:       s.EndTime,
		HighestBidder: s.HighestBidder,
		HighestBid:    s.HighestBid.String(),
		HighestNEAR:   meter.FormatNEAR(s.HighestBid),
		Claimed:       s.Claimed,
		Beneficiary:   s.Beneficiary,
	}
}

type Bid struct {
	Bidder meter.AccountID `json:"bidder"`
	Amount string          `json:"amount"`
	NEAR   string          `json:"near"`
}

func convertBid(b *meter.HighestBid) *Bid {
	return &Bid{
		Bidder: b.Bidder,
		Amount: b.Amount.String(),
		NEAR:   meter.FormatNEAR(b.Amount),
	}
}

type EndTime struct {
	EndTime uint64 `json:"endTime"`
}

type InitializeRequest struct {
	Caller      meter.AccountID `json:"caller"`
	EndTime     uint64          `json:"endTime"`
	Beneficiary meter.AccountID `json:"beneficiary"`
}

// BidRequest carries the deposit either in yocto or in NEAR.
type BidRequest struct {
	Caller  meter.AccountID `json:"caller"`
	Deposit string          `json:"deposit,omitempty"`
	NEAR    string          `json:"near,omitempty"`
}

func (r *BidRequest) amount() (*big.Int, error) {
	switch {
	case r.Deposit != "" && r.NEAR != "":
		return nil, errors.New("only one of deposit and near may be set")
	case r.Deposit != "":
		return meter.ParseAmount(r.Deposit)
	case r.NEAR != "":
		return meter.ParseNEAR(r.NEAR)
	default:
		return nil, errors.New("deposit required")
	}
}

type ClaimRequest struct {
	Caller meter.AccountID `json:"caller"`
}

type Event struct {
	Name    string          `json:"name"`
	Bidder  meter.AccountID `json:"bidder,omitempty"`
	Winner  meter.AccountID `json:"winner,omitempty"`
	Amount  string          `json:"amount"`
	Address meter.AccountID `json:"address"`
}

type Transfer struct {
	Sender    meter.AccountID `json:"sender"`
	Recipient meter.AccountID `json:"recipient"`
	Amount    string          `json:"amount"`
	Seq       uint64          `json:"seq"`
}

// Receipt is the JSON form of runtime.Receipt.
type Receipt struct {
	CallID    meter.Bytes32   `json:"callID"`
	Height    uint64          `json:"height"`
	Time      uint64          `json:"time"`
	Caller    meter.AccountID `json:"caller"`
	Contract  meter.AccountID `json:"contract"`
	Deposit   string          `json:"deposit"`
	GasUsed   uint64          `json:"gasUsed"`
	Reverted  bool            `json:"reverted"`
	Error     string          `json:"error,omitempty"`
	Output    hexutil.Bytes   `json:"output"`
	Events    []*Event        `json:"events"`
	Transfers []*Transfer     `json:"transfers"`
}

func ConvertReceipt(r *runtime.Receipt) *Receipt {
	rcpt := &Receipt{
		CallID:    r.CallID,
		Height:    r.Height,
		Time:      r.Time,
		Caller:    r.Caller,
		Contract:  r.Contract,
		Deposit:   r.Deposit.String(),
		GasUsed:   r.GasUsed,
		Reverted:  r.Reverted,
		Output:    r.Output,
		Events:    make([]*Event, 0, len(r.Events)),
		Transfers: make([]*Transfer, 0, len(r.Transfers)),
	}
	if r.VMErr != nil {
		rcpt.Error = r.VMErr.Error()
	}
	for _, ev := range r.Events {
		decoded, err := auctionscript.DecodeEvent(ev.Topics, ev.Data)
		if err != nil {
			continue
		}
		rcpt.Events = append(rcpt.Events, &Event{
			Name:    decoded.Name,
			Bidder:  decoded.Bidder,
			Winner:  decoded.Winner,
			Amount:  decoded.Amount.String(),
			Address: ev.Address,
		})
	}
	for i, t := range r.Transfers {
		rcpt.Transfers = append(rcpt.Transfers, &Transfer{
			Sender:    t.Sender,
			Recipient: t.Recipient,
			Amount:    t.Amount.String(),
			Seq:       r.FirstSeq + uint64(i),
		})
	}
	return rcpt
}
