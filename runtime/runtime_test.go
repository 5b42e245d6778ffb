// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/runtime"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/transfer"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contract    = meter.MustParseAccountID("auction.near")
	owner       = meter.MustParseAccountID("owner.near")
	beneficiary = meter.MustParseAccountID("bob.near")
	alice       = meter.MustParseAccountID("alice.near")
	carol       = meter.MustParseAccountID("carol.near")
)

func newStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newRuntime(t *testing.T, store kv.Store, clk clock.Clock, ldb *logdb.LogDB) *runtime.Runtime {
	return runtime.New(runtime.Options{
		Contract: contract,
		Stater:   state.NewCreator(store, 0),
		Clock:    clk,
		LogDB:    ldb,
	})
}

func kind(r *runtime.Receipt) string {
	k, _ := auction.ErrorKind(r.VMErr)
	return k
}

func settleAll(t *testing.T, rt *runtime.Runtime) int {
	n := 0
	for {
		settled, err := rt.Settle(context.Background())
		require.NoError(t, err)
		if !settled {
			return n
		}
		n++
	}
}

func balance(t *testing.T, rt *runtime.Runtime, account meter.AccountID) string {
	b, err := rt.Balance(account)
	require.NoError(t, err)
	return b.String()
}

func TestAuctionLifecycle(t *testing.T) {
	ctx := context.Background()
	ldb, err := logdb.NewMem()
	require.NoError(t, err)
	defer ldb.Close()

	clk := clock.NewManual(100)
	rt := newRuntime(t, newStore(t), clk, ldb)

	_, err = rt.Mint(alice, big.NewInt(100))
	require.NoError(t, err)
	_, err = rt.Mint(carol, big.NewInt(100))
	require.NoError(t, err)

	_, err = rt.Status()
	assert.ErrorIs(t, err, auction.ErrNotInitialized)

	r, err := rt.Initialize(ctx, owner, 1000, beneficiary)
	require.NoError(t, err)
	require.False(t, r.Reverted, "%v", r.VMErr)
	assert.Equal(t, uint64(1), r.Height)
	assert.Equal(t, uint64(100), r.Time)

	r, err = rt.Bid(ctx, alice, big.NewInt(10))
	require.NoError(t, err)
	require.False(t, r.Reverted)
	assert.Equal(t, meter.ClauseGas, r.GasUsed)
	require.Len(t, r.Transfers, 1)
	assert.True(t, r.Transfers[0].IsSelf(), "sentinel refund goes back to the contract")
	assert.Len(t, r.Events, 1)
	assert.Equal(t, "90", balance(t, rt, alice))
	assert.Equal(t, "10", balance(t, rt, contract))

	r, err = rt.Bid(ctx, carol, big.NewInt(20))
	require.NoError(t, err)
	require.False(t, r.Reverted)
	require.Len(t, r.Transfers, 1)
	assert.Equal(t, alice, r.Transfers[0].Recipient)

	// a reverted call keeps its deposit with the caller
	r, err = rt.Bid(ctx, alice, big.NewInt(15))
	require.NoError(t, err)
	assert.True(t, r.Reverted)
	assert.Equal(t, "BidTooLow", kind(r))
	assert.Empty(t, r.Transfers)
	assert.Equal(t, "90", balance(t, rt, alice))

	pending, err := rt.Pending()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), pending)
	assert.Equal(t, 2, settleAll(t, rt))
	assert.Equal(t, "100", balance(t, rt, alice))
	assert.Equal(t, "80", balance(t, rt, carol))
	assert.Equal(t, "20", balance(t, rt, contract))

	bid, err := rt.HighestBid()
	require.NoError(t, err)
	assert.Equal(t, carol, bid.Bidder)
	assert.Equal(t, "20", bid.Amount.String())

	r, err = rt.Claim(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "AuctionNotEnded", kind(r))

	clk.Set(1001)
	r, err = rt.Claim(ctx, owner)
	require.NoError(t, err)
	require.False(t, r.Reverted)
	require.Len(t, r.Transfers, 1)
	assert.Equal(t, beneficiary, r.Transfers[0].Recipient)
	assert.Equal(t, uint64(6), r.Height)

	r, err = rt.Claim(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "AlreadyClaimed", kind(r))

	assert.Equal(t, 1, settleAll(t, rt))
	assert.Equal(t, "20", balance(t, rt, beneficiary))
	assert.Equal(t, "0", balance(t, rt, contract))

	status, err := rt.Status()
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.True(t, status.Claimed)

	transfers, err := ldb.FilterTransfers(ctx, nil)
	require.NoError(t, err)
	require.Len(t, transfers, 3)
	assert.Equal(t, logdb.Noop, transfers[0].Status)
	assert.Equal(t, logdb.Settled, transfers[1].Status)
	assert.Equal(t, alice, transfers[1].Recipient)
	assert.Equal(t, logdb.Settled, transfers[2].Status)
	assert.Equal(t, uint64(1001), transfers[2].SettledAt)

	events, err := ldb.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, events, 3)
	ev, err := auction.DecodeEvent(eventTopics(events[2]), events[2].Data)
	require.NoError(t, err)
	assert.Equal(t, "auction_claimed", ev.Name)
}

func eventTopics(e *logdb.Event) []meter.Bytes32 {
	var topics []meter.Bytes32
	for _, t := range e.Topics {
		if t != nil {
			topics = append(topics, *t)
		}
	}
	return topics
}

func TestRejectedCalls(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, newStore(t), clock.NewManual(100), nil)

	_, err := rt.Initialize(ctx, owner, 1000, beneficiary)
	require.NoError(t, err)

	_, err = rt.Bid(ctx, alice, big.NewInt(5))
	assert.Equal(t, runtime.ErrInsufficientBalance, err)

	_, err = rt.Execute(ctx, &runtime.Call{Caller: alice, Data: []byte{1, 2, 3, 4, 5}})
	assert.Equal(t, runtime.ErrInvalidCallData, err)

	_, err = rt.Execute(ctx, &runtime.Call{Caller: alice, Deposit: big.NewInt(-1), Data: []byte{0xff, 0xff, 0xff, 0xff}})
	assert.Equal(t, runtime.ErrInvalidDeposit, err)

	height, err := rt.Height()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), height, "rejected calls do not advance the height")
}

func TestCallTimeNeverDecreases(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(500)
	rt := newRuntime(t, newStore(t), clk, nil)

	r, err := rt.Initialize(ctx, owner, 1000, beneficiary)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), r.Time)

	clk.Set(200)
	r, err = rt.Initialize(ctx, owner, 1000, beneficiary)
	require.NoError(t, err)
	assert.Equal(t, "AlreadyInitialized", kind(r))
	assert.Equal(t, uint64(500), r.Time)
	assert.Equal(t, uint64(2), r.Height)
	assert.NotEqual(t, meter.Bytes32{}, r.CallID)
}

func TestReceiptFeed(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, newStore(t), clock.NewManual(1), nil)

	ch := make(chan *runtime.Receipt, 4)
	sub := rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	_, err := rt.Initialize(ctx, owner, 1000, beneficiary)
	require.NoError(t, err)
	select {
	case r := <-ch:
		assert.Equal(t, owner, r.Caller)
		assert.False(t, r.Reverted)
	case <-time.After(time.Second):
		t.Fatal("no receipt published")
	}
}

func TestStalledSubscriberDoesNotBlockQueries(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, newStore(t), clock.NewManual(1), nil)

	stalled := make(chan *runtime.Receipt)
	sub := rt.SubscribeReceipts(stalled)

	done := make(chan error, 1)
	go func() {
		_, err := rt.Initialize(ctx, owner, 1000, beneficiary)
		done <- err
	}()

	queried := make(chan error, 1)
	go func() {
		// the call is committed before its receipt is sent
		for {
			status, err := rt.Status()
			if err == nil {
				assert.Equal(t, beneficiary, status.Beneficiary)
				queried <- nil
				return
			}
			if !errors.Is(err, auction.ErrNotInitialized) {
				queried <- err
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	select {
	case err := <-queried:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("query blocked by a stalled receipt subscriber")
	}

	select {
	case <-done:
		t.Fatal("receipt should still be waiting for the subscriber")
	default:
	}
	sub.Unsubscribe()
	require.NoError(t, <-done)
}

func TestOutboxSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	rt := newRuntime(t, store, clock.NewManual(100), nil)
	_, err := rt.Mint(alice, big.NewInt(50))
	require.NoError(t, err)
	_, err = rt.Mint(carol, big.NewInt(50))
	require.NoError(t, err)
	_, err = rt.Initialize(ctx, owner, 1000, beneficiary)
	require.NoError(t, err)
	_, err = rt.Bid(ctx, alice, big.NewInt(30))
	require.NoError(t, err)
	_, err = rt.Bid(ctx, carol, big.NewInt(40))
	require.NoError(t, err)

	// restart before anything settles
	rt = newRuntime(t, store, clock.NewManual(100), nil)
	d := transfer.NewDispatcher(rt)
	rt.OnCommit(d.Notify)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		d.Run(runCtx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		n, err := rt.Pending()
		return err == nil && n == 0
	}, time.Second, time.Millisecond*5)
	assert.Equal(t, "50", balance(t, rt, alice))
	assert.Equal(t, "10", balance(t, rt, carol))
	assert.Equal(t, "40", balance(t, rt, contract))

	cancel()
	<-done
}
