// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package natsbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
)

// Conn is the subset of *nats.Conn used by the publisher.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Message is the JSON body published for each audit event.
type Message struct {
	EventID  string          `json:"eventID"`
	CallID   meter.Bytes32   `json:"callID"`
	Height   uint64          `json:"height"`
	Time     uint64          `json:"time"`
	Contract meter.AccountID `json:"contract"`
	Name     string          `json:"name"`
	Bidder   meter.AccountID `json:"bidder,omitempty"`
	Winner   meter.AccountID `json:"winner,omitempty"`
	Amount   string          `json:"amount"`
	NEAR     string          `json:"near"`
}

type Publisher struct {
	conn     Conn
	subject  string
	receipts chan *runtime.Receipt
	sub      event.Subscription
	logger   *slog.Logger
}

// Connect dials the NATS server at url.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("meter-auction"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect nats")
	}
	return conn, nil
}

// NewPublisher subscribes to receipts of rt. Run must be called to drain them.
func NewPublisher(conn Conn, subject string, rt *runtime.Runtime) *Publisher {
	p := &Publisher{
		conn:     conn,
		subject:  subject,
		receipts: make(chan *runtime.Receipt, 64),
		logger:   slog.Default().With("pkg", "natsbus", "subject", subject),
	}
	p.sub = rt.SubscribeReceipts(p.receipts)
	return p
}

// Messages converts the audit events of a receipt.
func Messages(r *runtime.Receipt) []*Message {
	var msgs []*Message
	for _, ev := range r.Events {
		decoded, err := auction.DecodeEvent(ev.Topics, ev.Data)
		if err != nil {
			continue
		}
		msgs = append(msgs, &Message{
			EventID:  uuid.New().String(),
			CallID:   r.CallID,
			Height:   r.Height,
			Time:     r.Time,
			Contract: ev.Address,
			Name:     decoded.Name,
			Bidder:   decoded.Bidder,
			Winner:   decoded.Winner,
			Amount:   decoded.Amount.String(),
			NEAR:     meter.FormatNEAR(decoded.Amount),
		})
	}
	return msgs
}

// Publish sends every audit event of r to <subject>.<event name>.
func (p *Publisher) Publish(r *runtime.Receipt) error {
	for _, msg := range Messages(r) {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := p.conn.Publish(p.subject+"."+msg.Name, data); err != nil {
			return errors.Wrap(err, "publish "+msg.Name)
		}
	}
	return nil
}

// Run publishes receipts until ctx is done.
func (p *Publisher) Run(ctx context.Context) {
	defer p.sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-p.sub.Err():
			if err != nil {
				p.logger.Error("receipt subscription failed", "err", err)
			}
			return
		case r := <-p.receipts:
			if err := p.Publish(r); err != nil {
				p.logger.Warn("publish receipt failed", "height", r.Height, "err", err)
			}
		}
	}
}
