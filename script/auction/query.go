// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
)

// AuctionStatus is the composite view of an initialized auction.
type AuctionStatus struct {
	IsActive      bool
	TimeRemaining uint64
	EndTime       uint64
	HighestBidder meter.AccountID
	HighestBid    *big.Int
	Claimed       bool
	Beneficiary   meter.AccountID
}

// GetHighestBid returns the current highest bid.
func GetHighestBid(st *state.State, contract meter.AccountID) (*meter.HighestBid, error) {
	bid, found := st.GetHighestBid(contract)
	if err := st.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInitialized
	}
	return bid, nil
}

// GetAuctionEndTime returns the end time.
func GetAuctionEndTime(st *state.State, contract meter.AccountID) (uint64, error) {
	endTime, found := st.GetAuctionEndTime(contract)
	if err := st.Err(); err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNotInitialized
	}
	return endTime, nil
}

// GetAuctionStatus evaluates the auction at time now.
func GetAuctionStatus(st *state.State, contract meter.AccountID, now uint64) (*AuctionStatus, error) {
	cfg, found := st.GetAuctionConfig(contract)
	bid, hasBid := st.GetHighestBid(contract)
	claimed, _ := st.GetClaimed(contract)
	if err := st.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotInitialized
	}
	if !hasBid {
		return nil, errMissingHighestBid
	}

	var remaining uint64
	if now < cfg.EndTime {
		remaining = cfg.EndTime - now
	}
	return &AuctionStatus{
		IsActive:      now < cfg.EndTime,
		TimeRemaining: remaining,
		EndTime:       cfg.EndTime,
		HighestBidder: bid.Bidder,
		HighestBid:    bid.Amount,
		Claimed:       claimed,
		Beneficiary:   cfg.Beneficiary,
	}, nil
}
