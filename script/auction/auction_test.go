// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction_test

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contract    = meter.MustParseAccountID("auction.near")
	beneficiary = meter.MustParseAccountID("bob.near")
	alice       = meter.MustParseAccountID("alice.near")
	carol       = meter.MustParseAccountID("carol.near")
)

const endTime = uint64(1000)

type testEnv struct {
	t       *testing.T
	creator *state.Creator
	module  *auction.Auction
	now     uint64
	height  uint64
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return &testEnv{
		t:       t,
		creator: state.NewCreator(db, 64),
		module:  auction.NewAuction(),
	}
}

// call runs body and commits the state only on success, as the host does.
func (e *testEnv) call(caller meter.AccountID, deposit int64, body *auction.AuctionBody) (*setypes.ScriptEngineOutput, error) {
	payload, err := auction.EncodeBytes(body)
	require.Nil(e.t, err)

	e.height++
	st := e.creator.NewState()
	senv := setypes.NewScriptEnv(st,
		&xenv.BlockContext{Number: e.height, Time: e.now},
		&xenv.TransactionContext{ID: meter.Blake2b(payload), Origin: caller, Deposit: big.NewInt(deposit)},
		contract)

	out, leftOverGas, err := e.module.Handle(senv, payload, contract, 100000)
	require.Nil(e.t, st.Err())
	assert.Equal(e.t, 100000-meter.ClauseGas, leftOverGas)
	if err == nil {
		require.Nil(e.t, st.Stage().Commit())
	}
	return out, err
}

func (e *testEnv) initialize() {
	out, err := e.call(beneficiary, 0, auction.NewInitBody(endTime, beneficiary))
	require.Nil(e.t, err)
	cfg, err := auction.DecodeConfig(out.GetData())
	require.Nil(e.t, err)
	assert.Equal(e.t, &meter.AuctionConfig{EndTime: endTime, Beneficiary: beneficiary}, cfg)
}

func (e *testEnv) highest() *meter.HighestBid {
	bid, err := auction.GetHighestBid(e.creator.NewState(), contract)
	require.Nil(e.t, err)
	return bid
}

func TestAuctionScenario(t *testing.T) {
	e := newTestEnv(t)
	e.now = 10
	e.initialize()

	// first real bid refunds the sentinel to the contract itself
	e.now = 20
	out, err := e.call(alice, 100, auction.NewBidBody())
	require.Nil(t, err)
	bid, err := auction.DecodeBid(out.GetData())
	require.Nil(t, err)
	assert.Equal(t, alice, bid.Bidder)
	assert.Equal(t, int64(100), bid.Amount.Int64())

	require.Len(t, out.GetTransfers(), 1)
	refund := out.GetTransfers()[0]
	assert.True(t, refund.IsSelf())
	assert.Equal(t, contract, refund.Recipient)
	assert.Equal(t, 0, refund.Amount.Cmp(meter.OneYocto))

	require.Len(t, out.GetEvents(), 1)
	ev, err := auction.DecodeEvent(out.GetEvents()[0].Topics, out.GetEvents()[0].Data)
	require.Nil(t, err)
	assert.Equal(t, auction.NewBidEventName, ev.Name)
	assert.Equal(t, alice, ev.Bidder)
	assert.Equal(t, int64(100), ev.Amount.Int64())
	assert.Equal(t, alice.Topic(), out.GetEvents()[0].Topics[1])

	// carol outbids alice, alice gets her 100 back
	e.now = 30
	out, err = e.call(carol, 150, auction.NewBidBody())
	require.Nil(t, err)
	require.Len(t, out.GetTransfers(), 1)
	refund = out.GetTransfers()[0]
	assert.Equal(t, contract, refund.Sender)
	assert.Equal(t, alice, refund.Recipient)
	assert.Equal(t, int64(100), refund.Amount.Int64())
	assert.Equal(t, carol, e.highest().Bidder)

	// claim after end pays the auctioneer
	e.now = endTime + 1
	out, err = e.call(alice, 0, auction.NewClaimBody())
	require.Nil(t, err)
	won, err := auction.DecodeBid(out.GetData())
	require.Nil(t, err)
	assert.Equal(t, carol, won.Bidder)
	assert.Equal(t, int64(150), won.Amount.Int64())

	require.Len(t, out.GetTransfers(), 1)
	payout := out.GetTransfers()[0]
	assert.Equal(t, beneficiary, payout.Recipient)
	assert.Equal(t, int64(150), payout.Amount.Int64())

	require.Len(t, out.GetEvents(), 1)
	ev, err = auction.DecodeEvent(out.GetEvents()[0].Topics, out.GetEvents()[0].Data)
	require.Nil(t, err)
	assert.Equal(t, auction.AuctionClaimedEventName, ev.Name)
	assert.Equal(t, carol, ev.Winner)

	claimed, found := e.creator.NewState().GetClaimed(contract)
	assert.True(t, found)
	assert.True(t, claimed)

	// no second payout
	out, err = e.call(beneficiary, 0, auction.NewClaimBody())
	assert.Equal(t, auction.ErrAlreadyClaimed, err)
	assert.Empty(t, out.GetTransfers())

	// a claimed auction is past its end time
	_, err = e.call(alice, 500, auction.NewBidBody())
	assert.Equal(t, auction.ErrAuctionEnded, err)
	assert.Equal(t, carol, e.highest().Bidder)
}

func TestDecodeEventIDs(t *testing.T) {
	id, ok := auction.EventID(auction.NewBidEventName)
	require.True(t, ok)
	assert.Equal(t, meter.Bytes32(auction.NewBidEvent.ID), id)

	_, err := auction.DecodeEvent([]meter.Bytes32{meter.BytesToBytes32([]byte("other"))}, nil)
	assert.NotNil(t, err)
	_, err = auction.DecodeEvent(nil, nil)
	assert.NotNil(t, err)
	_, ok = auction.EventID("withdrawn")
	assert.False(t, ok)
}

func TestRefundsFollowBidOrder(t *testing.T) {
	e := newTestEnv(t)
	e.initialize()

	bidders := []meter.AccountID{"b1.near", "b2.near", "b3.near", "b4.near"}
	var refunds []meter.AccountID
	for i, b := range bidders {
		e.now++
		out, err := e.call(b, int64(100*(i+1)), auction.NewBidBody())
		require.Nil(t, err)
		require.Len(t, out.GetTransfers(), 1)
		refunds = append(refunds, out.GetTransfers()[0].Recipient)
		assert.Equal(t, b, e.highest().Bidder)
	}
	assert.Equal(t, []meter.AccountID{contract, "b1.near", "b2.near", "b3.near"}, refunds)
}

func TestNotInitialized(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.call(alice, 100, auction.NewBidBody())
	assert.Equal(t, auction.ErrNotInitialized, err)

	e.now = endTime + 1
	_, err = e.call(alice, 0, auction.NewClaimBody())
	assert.Equal(t, auction.ErrNotInitialized, err)

	st := e.creator.NewState()
	_, err = auction.GetHighestBid(st, contract)
	assert.Equal(t, auction.ErrNotInitialized, err)
	_, err = auction.GetAuctionEndTime(st, contract)
	assert.Equal(t, auction.ErrNotInitialized, err)
	_, err = auction.GetAuctionStatus(st, contract, e.now)
	assert.Equal(t, auction.ErrNotInitialized, err)
}

func TestReinitialize(t *testing.T) {
	e := newTestEnv(t)
	e.initialize()

	e.now = 5
	_, err := e.call(alice, 100, auction.NewBidBody())
	require.Nil(t, err)

	_, err = e.call(carol, 0, auction.NewInitBody(endTime*2, carol))
	assert.Equal(t, auction.ErrAlreadyInitialized, err)

	cfg, found := e.creator.NewState().GetAuctionConfig(contract)
	require.True(t, found)
	assert.Equal(t, endTime, cfg.EndTime)
	assert.Equal(t, beneficiary, cfg.Beneficiary)
	assert.Equal(t, alice, e.highest().Bidder)
}

func TestInvalidBeneficiary(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.call(alice, 0, auction.NewInitBody(endTime, "Not Valid"))
	assert.NotNil(t, err)

	_, found := e.creator.NewState().GetAuctionConfig(contract)
	assert.False(t, found)
}

func TestBidTooLow(t *testing.T) {
	e := newTestEnv(t)
	e.initialize()

	// zero and sentinel-equal deposits never beat the sentinel
	for _, amount := range []int64{0, 1} {
		out, err := e.call(alice, amount, auction.NewBidBody())
		assert.Equal(t, auction.ErrBidTooLow, err)
		assert.Empty(t, out.GetTransfers())
		assert.Empty(t, out.GetEvents())
	}

	_, err := e.call(alice, 100, auction.NewBidBody())
	require.Nil(t, err)

	for _, amount := range []int64{99, 100} {
		out, err := e.call(carol, amount, auction.NewBidBody())
		assert.Equal(t, auction.ErrBidTooLow, err)
		assert.Empty(t, out.GetTransfers())
	}
	assert.Equal(t, alice, e.highest().Bidder)
	assert.Equal(t, int64(100), e.highest().Amount.Int64())
}

func TestEndTimeBoundary(t *testing.T) {
	e := newTestEnv(t)
	e.initialize()

	e.now = endTime - 1
	_, err := e.call(alice, 100, auction.NewBidBody())
	require.Nil(t, err)
	_, err = e.call(alice, 0, auction.NewClaimBody())
	assert.Equal(t, auction.ErrAuctionNotEnded, err)

	// neither bid nor claim at exactly end time
	e.now = endTime
	_, err = e.call(carol, 200, auction.NewBidBody())
	assert.Equal(t, auction.ErrAuctionEnded, err)
	_, err = e.call(alice, 0, auction.NewClaimBody())
	assert.Equal(t, auction.ErrAuctionNotEnded, err)

	e.now = endTime + 1
	_, err = e.call(carol, 200, auction.NewBidBody())
	assert.Equal(t, auction.ErrAuctionEnded, err)
	_, err = e.call(alice, 0, auction.NewClaimBody())
	assert.Nil(t, err)

	// claimed auctions reject bids as ended
	_, err = e.call(carol, 300, auction.NewBidBody())
	assert.Equal(t, auction.ErrAuctionEnded, err)
	assert.Equal(t, alice, e.highest().Bidder)
}

func TestClaimWithoutBids(t *testing.T) {
	e := newTestEnv(t)
	e.initialize()

	e.now = endTime + 1
	out, err := e.call(beneficiary, 0, auction.NewClaimBody())
	require.Nil(t, err)
	require.Len(t, out.GetTransfers(), 1)
	assert.Equal(t, beneficiary, out.GetTransfers()[0].Recipient)
	assert.Equal(t, 0, out.GetTransfers()[0].Amount.Cmp(meter.OneYocto))

	won, err := auction.DecodeBid(out.GetData())
	require.Nil(t, err)
	assert.Equal(t, contract, won.Bidder)
}

func TestAuctionStatus(t *testing.T) {
	e := newTestEnv(t)
	e.initialize()

	e.now = 100
	_, err := e.call(alice, 100, auction.NewBidBody())
	require.Nil(t, err)

	status, err := auction.GetAuctionStatus(e.creator.NewState(), contract, 400)
	require.Nil(t, err)
	assert.True(t, status.IsActive)
	assert.Equal(t, endTime-400, status.TimeRemaining)
	assert.Equal(t, alice, status.HighestBidder)
	assert.Equal(t, int64(100), status.HighestBid.Int64())
	assert.False(t, status.Claimed)
	assert.Equal(t, beneficiary, status.Beneficiary)

	again, err := auction.GetAuctionStatus(e.creator.NewState(), contract, 400)
	require.Nil(t, err)
	assert.Equal(t, status, again)

	status, err = auction.GetAuctionStatus(e.creator.NewState(), contract, endTime)
	require.Nil(t, err)
	assert.False(t, status.IsActive)
	assert.Equal(t, uint64(0), status.TimeRemaining)

	e.now = endTime + 10
	_, err = e.call(alice, 0, auction.NewClaimBody())
	require.Nil(t, err)
	status, err = auction.GetAuctionStatus(e.creator.NewState(), contract, endTime+20)
	require.Nil(t, err)
	assert.True(t, status.Claimed)
	assert.Equal(t, uint64(0), status.TimeRemaining)

	endAt, err := auction.GetAuctionEndTime(e.creator.NewState(), contract)
	require.Nil(t, err)
	assert.Equal(t, endTime, endAt)
}

func TestUnknownOpcode(t *testing.T) {
	e := newTestEnv(t)
	payload, err := auction.EncodeBytes(&auction.AuctionBody{Opcode: 99})
	require.Nil(t, err)

	st := e.creator.NewState()
	senv := setypes.NewScriptEnv(st, &xenv.BlockContext{}, &xenv.TransactionContext{Origin: alice}, contract)
	_, leftOverGas, err := e.module.Handle(senv, payload, contract, 100)
	assert.NotNil(t, err)
	assert.Equal(t, uint64(100), leftOverGas)

	_, _, err = e.module.Handle(senv, payload, "other.near", 100)
	assert.NotNil(t, err)
}

func TestErrorKind(t *testing.T) {
	kind, ok := auction.ErrorKind(auction.ErrBidTooLow)
	assert.True(t, ok)
	assert.Equal(t, "BidTooLow", kind)

	kind, ok = auction.ErrorKind(auction.ErrAlreadyClaimed)
	assert.True(t, ok)
	assert.Equal(t, "AlreadyClaimed", kind)

	_, ok = auction.ErrorKind(assert.AnError)
	assert.False(t, ok)
}
