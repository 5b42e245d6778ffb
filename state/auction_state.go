// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

var errIncompleteAuction = errors.New("auction records are incomplete")

// Auction end time
func (s *State) GetAuctionEndTime(addr meter.AccountID) (endTime uint64, found bool) {
	found = s.DecodeStorage(addr, meter.AuctionEndTimeKey, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &endTime)
	})
	return
}

func (s *State) SetAuctionEndTime(addr meter.AccountID, endTime uint64) {
	s.EncodeStorage(addr, meter.AuctionEndTimeKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(endTime)
	})
}

// Auctioneer, the beneficiary of the proceeds
func (s *State) GetAuctioneer(addr meter.AccountID) (auctioneer meter.AccountID, found bool) {
	found = s.DecodeStorage(addr, meter.AuctionAuctioneerKey, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &auctioneer)
	})
	return
}

func (s *State) SetAuctioneer(addr meter.AccountID, auctioneer meter.AccountID) {
	s.EncodeStorage(addr, meter.AuctionAuctioneerKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(auctioneer)
	})
}

// Highest bid
func (s *State) GetHighestBid(addr meter.AccountID) (result *meter.HighestBid, found bool) {
	found = s.DecodeStorage(addr, meter.AuctionHighestBidKey, func(raw []byte) error {
		bid := &meter.HighestBid{}
		if err := rlp.DecodeBytes(raw, bid); err != nil {
			return err
		}
		result = bid
		return nil
	})
	return result, found && result != nil
}

func (s *State) SetHighestBid(addr meter.AccountID, bid *meter.HighestBid) {
	s.EncodeStorage(addr, meter.AuctionHighestBidKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(bid)
	})
}

// Claimed flag. found is false when the key was never written, which differs from claimed == false.
func (s *State) GetClaimed(addr meter.AccountID) (claimed bool, found bool) {
	found = s.DecodeStorage(addr, meter.AuctionClaimedKey, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &claimed)
	})
	return
}

func (s *State) SetClaimed(addr meter.AccountID, claimed bool) {
	s.EncodeStorage(addr, meter.AuctionClaimedKey, func() ([]byte, error) {
		return rlp.EncodeToBytes(claimed)
	})
}

// GetAuctionConfig assembles the config from its two records.
func (s *State) GetAuctionConfig(addr meter.AccountID) (*meter.AuctionConfig, bool) {
	endTime, hasEnd := s.GetAuctionEndTime(addr)
	auctioneer, hasAuctioneer := s.GetAuctioneer(addr)
	if hasEnd != hasAuctioneer {
		s.setError(errors.WithMessagef(errIncompleteAuction, "contract %v", addr))
		return nil, false
	}
	if !hasEnd {
		return nil, false
	}
	return &meter.AuctionConfig{EndTime: endTime, Beneficiary: auctioneer}, true
}

func (s *State) SetAuctionConfig(addr meter.AccountID, cfg *meter.AuctionConfig) {
	s.SetAuctionEndTime(addr, cfg.EndTime)
	s.SetAuctioneer(addr, cfg.Beneficiary)
}
