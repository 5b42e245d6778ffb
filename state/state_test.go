// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state_test

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contract = meter.MustParseAccountID("auction.near")

func newCreator(t *testing.T) *state.Creator {
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return state.NewCreator(db, 16)
}

func TestClaimedAbsentVsFalse(t *testing.T) {
	c := newCreator(t)

	st := c.NewState()
	claimed, found := st.GetClaimed(contract)
	assert.False(t, found)
	assert.False(t, claimed)

	st.SetClaimed(contract, false)
	claimed, found = st.GetClaimed(contract)
	assert.True(t, found)
	assert.False(t, claimed)
	require.Nil(t, st.Stage().Commit())

	claimed, found = c.NewState().GetClaimed(contract)
	assert.True(t, found)
	assert.False(t, claimed)
}

func TestWritesInvisibleUntilCommit(t *testing.T) {
	c := newCreator(t)

	st := c.NewState()
	st.SetAuctionConfig(contract, &meter.AuctionConfig{EndTime: 100, Beneficiary: "bob.near"})
	st.SetHighestBid(contract, meter.SentinelBid(contract))

	other := c.NewState()
	_, found := other.GetAuctionConfig(contract)
	assert.False(t, found)

	require.Nil(t, st.Stage().Commit())

	cfg, found := c.NewState().GetAuctionConfig(contract)
	assert.True(t, found)
	assert.Equal(t, uint64(100), cfg.EndTime)
	assert.Equal(t, meter.AccountID("bob.near"), cfg.Beneficiary)

	bid, found := c.NewState().GetHighestBid(contract)
	assert.True(t, found)
	assert.Equal(t, contract, bid.Bidder)
	assert.Equal(t, 0, bid.Amount.Cmp(meter.OneYocto))
}

func TestDiscardedState(t *testing.T) {
	c := newCreator(t)

	st := c.NewState()
	st.SetAuctionEndTime(contract, 5)
	// never staged

	_, found := c.NewState().GetAuctionEndTime(contract)
	assert.False(t, found)
}

func TestIncompleteConfig(t *testing.T) {
	c := newCreator(t)

	st := c.NewState()
	st.SetAuctionEndTime(contract, 5)
	require.Nil(t, st.Stage().Commit())

	st = c.NewState()
	_, found := st.GetAuctionConfig(contract)
	assert.False(t, found)
	assert.NotNil(t, st.Err())
	assert.NotNil(t, st.Stage().Commit())
}

func TestBalance(t *testing.T) {
	c := newCreator(t)
	alice := meter.MustParseAccountID("alice.near")

	st := c.NewState()
	assert.Equal(t, 0, st.GetBalance(alice).Sign())
	assert.False(t, st.SubBalance(alice, big.NewInt(1)))
	assert.True(t, st.SubBalance(alice, big.NewInt(0)))

	st.AddBalance(alice, big.NewInt(100))
	assert.True(t, st.SubBalance(alice, big.NewInt(40)))
	assert.Equal(t, big.NewInt(60).String(), st.GetBalance(alice).String())
	require.Nil(t, st.Stage().Commit())

	assert.Equal(t, "60", c.NewState().GetBalance(alice).String())
}

func TestOutbox(t *testing.T) {
	c := newCreator(t)

	st := c.NewState()
	_, ok := st.PeekOutbox()
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		seq := st.PushOutbox(&state.PendingTransfer{
			Index:     uint32(i),
			Sender:    contract,
			Recipient: "alice.near",
			Amount:    big.NewInt(int64(10 * (i + 1))),
		})
		assert.Equal(t, uint64(i), seq)
	}
	require.Nil(t, st.Stage().Commit())

	for i := 0; i < 3; i++ {
		st = c.NewState()
		pt, ok := st.PeekOutbox()
		require.True(t, ok)
		assert.Equal(t, uint64(i), pt.Seq)
		assert.Equal(t, uint32(i), pt.Index)
		assert.Equal(t, int64(10*(i+1)), pt.Amount.Int64())
		st.PopOutbox()
		require.Nil(t, st.Stage().Commit())
	}

	head, tail := c.NewState().OutboxRange()
	assert.Equal(t, uint64(3), head)
	assert.Equal(t, uint64(3), tail)
}
