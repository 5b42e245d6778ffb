// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

const (
	NewBidEventName         = "new_bid"
	AuctionClaimedEventName = "auction_claimed"
)

const eventsJSON = `[
	{"type":"event","name":"new_bid","anonymous":false,"inputs":[
		{"name":"bidder","type":"string","indexed":false},
		{"name":"amount","type":"uint256","indexed":false}]},
	{"type":"event","name":"auction_claimed","anonymous":false,"inputs":[
		{"name":"winner","type":"string","indexed":false},
		{"name":"amount","type":"uint256","indexed":false}]}
]`

var (
	eventsABI = mustParseABI(eventsJSON)

	NewBidEvent         = eventsABI.Events[NewBidEventName]
	AuctionClaimedEvent = eventsABI.Events[AuctionClaimedEventName]

	newBidID         = meter.Bytes32(NewBidEvent.ID)
	auctionClaimedID = meter.Bytes32(AuctionClaimedEvent.ID)

	errUnknownEvent = errors.New("not an auction event")
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// EventID returns topic0 of the named event.
func EventID(name string) (meter.Bytes32, bool) {
	ev, ok := eventsABI.Events[name]
	if !ok {
		return meter.Bytes32{}, false
	}
	return meter.Bytes32(ev.ID), true
}

// emitEvent appends an audit record. topic0 is the event id, topic1 the account topic.
func emitEvent(env *setypes.ScriptEnv, ev abi.Event, account meter.AccountID, amount *big.Int) error {
	data, err := ev.Inputs.NonIndexed().Pack(account.String(), amount)
	if err != nil {
		return errors.Wrap(err, "pack "+ev.Name)
	}
	env.AddEvent(env.GetToAddr(), []meter.Bytes32{meter.Bytes32(ev.ID), account.Topic()}, data)
	return nil
}

// DecodedEvent is the readable form of an auction audit record.
type DecodedEvent struct {
	Name   string          `json:"name"`
	Bidder meter.AccountID `json:"bidder,omitempty"`
	Winner meter.AccountID `json:"winner,omitempty"`
	Amount *big.Int        `json:"-"`
}

// DecodeEvent decodes an event emitted by this module.
func DecodeEvent(topics []meter.Bytes32, data []byte) (*DecodedEvent, error) {
	if len(topics) == 0 {
		return nil, errUnknownEvent
	}
	var ev abi.Event
	switch topics[0] {
	case newBidID:
		ev = NewBidEvent
	case auctionClaimedID:
		ev = AuctionClaimedEvent
	default:
		return nil, errUnknownEvent
	}

	values, err := ev.Inputs.Unpack(data)
	if err != nil {
		return nil, errors.Wrap(err, "unpack "+ev.Name)
	}
	if len(values) != 2 {
		return nil, errors.Errorf("unpack %v: expect 2 values, got %d", ev.Name, len(values))
	}
	account, ok := values[0].(string)
	if !ok {
		return nil, errors.Errorf("unpack %v: account is %T", ev.Name, values[0])
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unpack %v: amount is %T", ev.Name, values[1])
	}

	decoded := &DecodedEvent{Name: ev.Name, Amount: amount}
	if ev.Name == NewBidEventName {
		decoded.Bidder = meter.AccountID(account)
	} else {
		decoded.Winner = meter.AccountID(account)
	}
	return decoded, nil
}
