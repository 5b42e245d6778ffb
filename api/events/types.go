// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/pkg/errors"
)

type TopicSet struct {
	Topic0 *meter.Bytes32 `json:"topic0"`
	Topic1 *meter.Bytes32 `json:"topic1"`
	Topic2 *meter.Bytes32 `json:"topic2"`
	Topic3 *meter.Bytes32 `json:"topic3"`
	Topic4 *meter.Bytes32 `json:"topic4"`
}

// LogMeta locates a log by the call that emitted it.
type LogMeta struct {
	CallID   meter.Bytes32   `json:"callID"`
	Height   uint64          `json:"height"`
	CallTime uint64          `json:"callTime"`
	Caller   meter.AccountID `json:"caller"`
}

// Decoded is the readable payload of an auction event.
type Decoded struct {
	Name    string          `json:"name"`
	Account meter.AccountID `json:"account"`
	Amount  string          `json:"amount"`
}

// FilteredEvent only comes from one contract
type FilteredEvent struct {
	Address meter.AccountID  `json:"address"`
	Topics  []*meter.Bytes32 `json:"topics"`
	Data    string           `json:"data"`
	Decoded *Decoded         `json:"decoded,omitempty"`
	Meta    LogMeta          `json:"meta"`
}

//convert a logdb.Event into a json format Event
func convertEvent(event *logdb.Event) *FilteredEvent {
	fe := FilteredEvent{
		Address: event.Address,
		Data:    hexutil.Encode(event.Data),
		Meta: LogMeta{
			CallID:   event.CallID,
			Height:   event.Height,
			CallTime: event.CallTime,
			Caller:   event.Caller,
		},
	}
	fe.Topics = make([]*meter.Bytes32, 0)
	topics := make([]meter.Bytes32, 0, 5)
	for i := 0; i < 5; i++ {
		if event.Topics[i] != nil {
			fe.Topics = append(fe.Topics, event.Topics[i])
			topics = append(topics, *event.Topics[i])
		}
	}
	if decoded, err := auction.DecodeEvent(topics, event.Data); err == nil {
		account := decoded.Bidder
		if account.IsZero() {
			account = decoded.Winner
		}
		fe.Decoded = &Decoded{
			Name:    decoded.Name,
			Account: account,
			Amount:  decoded.Amount.String(),
		}
	}
	return &fe
}

func (e *FilteredEvent) String() string {
	return fmt.Sprintf(`
		Event(
			address: 	   %v,
			topics:        %v,
			data:          %v,
			meta: (callID  %v,
				height     %v,
				callTime   %v,
				caller     %v)
			)`,
		e.Address,
		e.Topics,
		e.Data,
		e.Meta.CallID,
		e.Meta.Height,
		e.Meta.CallTime,
		e.Meta.Caller,
	)
}

type EventCriteria struct {
	Address *meter.AccountID `json:"address"`
	TopicSet
}

type EventFilter struct {
	CallID      *meter.Bytes32   `json:"callID"`
	Name        string           `json:"name"`
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *logdb.Range     `json:"range"`
	Options     *logdb.Options   `json:"options"`
	Order       logdb.Order      `json:"order"`
}

func convertEventFilter(filter *EventFilter) (*logdb.EventFilter, error) {
	f := &logdb.EventFilter{
		CallID:  filter.CallID,
		Range:   filter.Range,
		Options: filter.Options,
		Order:   filter.Order,
	}
	var nameTopic *meter.Bytes32
	if filter.Name != "" {
		id, ok := auction.EventID(filter.Name)
		if !ok {
			return nil, errors.Errorf("unknown event %v", filter.Name)
		}
		nameTopic = &id
	}
	for _, c := range filter.CriteriaSet {
		criteria := &logdb.EventCriteria{
			Address: c.Address,
			Topics: [5]*meter.Bytes32{
				c.Topic0,
				c.Topic1,
				c.Topic2,
				c.Topic3,
				c.Topic4,
			},
		}
		if nameTopic != nil && criteria.Topics[0] == nil {
			criteria.Topics[0] = nameTopic
		}
		f.CriteriaSet = append(f.CriteriaSet, criteria)
	}
	if nameTopic != nil && len(f.CriteriaSet) == 0 {
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Topics: [5]*meter.Bytes32{nameTopic},
		})
	}
	return f, nil
}
