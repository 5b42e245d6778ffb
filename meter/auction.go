// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"fmt"
	"math/big"
)

// storage keys of the auction records
const (
	AuctionEndTimeKey    = "auction_end_time"
	AuctionHighestBidKey = "highest_bid"
	AuctionAuctioneerKey = "auctioneer"
	AuctionClaimedKey    = "claimed"
)

// AuctionConfig is written once at initialization.
type AuctionConfig struct {
	EndTime     uint64    `json:"endTime"`
	Beneficiary AccountID `json:"beneficiary"`
}

func (c *AuctionConfig) String() string {
	return fmt.Sprintf("AuctionConfig(endTime=%v, beneficiary=%v)", c.EndTime, c.Beneficiary)
}

// HighestBid is the current leading bid.
type HighestBid struct {
	Bidder AccountID
	Amount *big.Int
}

func NewHighestBid(bidder AccountID, amount *big.Int) *HighestBid {
	return &HighestBid{
		Bidder: bidder,
		Amount: new(big.Int).Set(amount),
	}
}

// SentinelBid is the placeholder bid owned by the contract itself.
func SentinelBid(contract AccountID) *HighestBid {
	return NewHighestBid(contract, OneYocto)
}

func (b *HighestBid) String() string {
	return fmt.Sprintf("HighestBid(bidder=%v, amount=%v)", b.Bidder, b.Amount)
}
