// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package natsbus_test

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/natsbus"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	lock sync.Mutex
	msgs []published
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.msgs = append(c.msgs, published{subject, data})
	return nil
}

func (c *fakeConn) all() []published {
	c.lock.Lock()
	defer c.lock.Unlock()
	return append([]published(nil), c.msgs...)
}

func TestPublishReceipts(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	contract := meter.MustParseAccountID("auction.near")
	alice := meter.MustParseAccountID("alice.near")
	rt := runtime.New(runtime.Options{
		Contract: contract,
		Stater:   state.NewCreator(db, 0),
		Clock:    clock.NewManual(10),
	})
	conn := &fakeConn{}
	pub := natsbus.NewPublisher(conn, "auction", rt)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pub.Run(ctx)
		close(done)
	}()

	_, err = rt.Mint(alice, meter.OneNEAR)
	require.NoError(t, err)
	_, err = rt.Initialize(ctx, "owner.near", 100, "bob.near")
	require.NoError(t, err)
	_, err = rt.Bid(ctx, alice, big.NewInt(1000))
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return len(conn.all()) == 1 }, time.Second, time.Millisecond*5)
	msg := conn.all()[0]
	assert.Equal(t, "auction.new_bid", msg.subject)

	var body natsbus.Message
	require.NoError(t, json.Unmarshal(msg.data, &body))
	assert.Equal(t, alice, body.Bidder)
	assert.Equal(t, "1000", body.Amount)
	assert.Equal(t, uint64(2), body.Height)
	assert.NotEmpty(t, body.EventID)

	cancel()
	<-done
}
