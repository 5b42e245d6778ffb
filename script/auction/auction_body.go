// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

const (
	OP_INIT  = uint32(1)
	OP_BID   = uint32(2)
	OP_CLAIM = uint32(3)
)

// AuctionBody is the payload of an auction call. Bidder and amount of a bid come
// from the call context, never from the body.
type AuctionBody struct {
	Opcode      uint32
	Version     uint32
	EndTime     uint64          // init only
	Beneficiary meter.AccountID // init only
}

func NewInitBody(endTime uint64, beneficiary meter.AccountID) *AuctionBody {
	return &AuctionBody{Opcode: OP_INIT, EndTime: endTime, Beneficiary: beneficiary}
}

func NewBidBody() *AuctionBody {
	return &AuctionBody{Opcode: OP_BID}
}

func NewClaimBody() *AuctionBody {
	return &AuctionBody{Opcode: OP_CLAIM}
}

func (ab *AuctionBody) ToString() string {
	return fmt.Sprintf("AuctionBody: Opcode=%v, Version=%v, EndTime=%v, Beneficiary=%v",
		ab.Opcode, ab.Version, ab.EndTime, ab.Beneficiary)
}

func (ab *AuctionBody) String() string {
	return ab.ToString()
}

func (ab *AuctionBody) GetOpName(op uint32) string {
	switch op {
	case OP_INIT:
		return "Init"
	case OP_BID:
		return "Bid"
	case OP_CLAIM:
		return "Claim"
	default:
		return "Unknown"
	}
}

func EncodeBytes(ab *AuctionBody) ([]byte, error) {
	return rlp.EncodeToBytes(ab)
}

func DecodeFromBytes(bytes []byte) (*AuctionBody, error) {
	ab := AuctionBody{}
	err := rlp.DecodeBytes(bytes, &ab)
	return &ab, err
}

// DecodeConfig decodes the return data of a successful init.
func DecodeConfig(data []byte) (*meter.AuctionConfig, error) {
	cfg := &meter.AuctionConfig{}
	if err := rlp.DecodeBytes(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DecodeBid decodes the return data of a successful bid or claim.
func DecodeBid(data []byte) (*meter.HighestBid, error) {
	bid := &meter.HighestBid{}
	if err := rlp.DecodeBytes(data, bid); err != nil {
		return nil, err
	}
	return bid, nil
}
