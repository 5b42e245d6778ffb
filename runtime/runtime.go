// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"encoding/binary"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/meterio/meter-auction/clock"
	"github.com/meterio/meter-auction/logdb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/tx"
	"github.com/meterio/meter-auction/xenv"
	"github.com/pkg/errors"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance for deposit")
	ErrInvalidCallData     = errors.New("call data is not script data")
	ErrInvalidDeposit      = errors.New("negative deposit")
)

type Options struct {
	Contract     meter.AccountID
	Stater       *state.Creator
	Engine       *script.ScriptEngine // nil starts a new engine
	Clock        clock.Clock          // nil uses the system clock
	LogDB        *logdb.LogDB         // optional audit log
	CallGasLimit uint64
}

// Runtime executes calls against the contract one at a time.
type Runtime struct {
	lock         sync.Mutex
	contract     meter.AccountID
	stater       *state.Creator
	se           *script.ScriptEngine
	clock        clock.Clock
	logDB        *logdb.LogDB
	callGasLimit uint64
	notify       func()
	feed         event.Feed
	logger       *slog.Logger
}

// New create a Runtime object.
func New(opts Options) *Runtime {
	rt := &Runtime{
		contract:     opts.Contract,
		stater:       opts.Stater,
		se:           opts.Engine,
		clock:        opts.Clock,
		logDB:        opts.LogDB,
		callGasLimit: opts.CallGasLimit,
		notify:       func() {},
		logger:       slog.Default().With("pkg", "rt", "contract", opts.Contract.String()),
	}
	if rt.se == nil {
		rt.se = script.NewScriptEngine()
	}
	if rt.clock == nil {
		rt.clock = clock.NewSystem()
	}
	if rt.callGasLimit == 0 {
		rt.callGasLimit = meter.DefaultCallGasLimit
	}
	st := rt.stater.NewState()
	head, tail := st.OutboxRange()
	outboxGauge.Set(float64(tail - head))
	heightGauge.Set(float64(st.GetHeight()))
	return rt
}

func (rt *Runtime) Contract() meter.AccountID    { return rt.contract }
func (rt *Runtime) Engine() *script.ScriptEngine { return rt.se }

// OnCommit sets the callback invoked after each successful call commit.
func (rt *Runtime) OnCommit(f func()) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	if f == nil {
		f = func() {}
	}
	rt.notify = f
}

// SubscribeReceipts delivers receipts of committed calls to ch. A send blocks
// the calling Execute until every subscriber receives, but never holds the
// runtime lock. Receipts of concurrent calls may arrive out of height order.
func (rt *Runtime) SubscribeReceipts(ch chan<- *Receipt) event.Subscription {
	return rt.feed.Subscribe(ch)
}

// callTime never goes below the time of the last committed call.
func (rt *Runtime) callTime(st *state.State) uint64 {
	now := rt.clock.Now()
	if last := st.GetLastTime(); now < last {
		return last
	}
	return now
}

func callID(height uint64, caller meter.AccountID, data []byte) meter.Bytes32 {
	var h [8]byte
	binary.BigEndian.PutUint64(h[:], height)
	return meter.Blake2b(h[:], caller.Bytes(), data)
}

// ExecuteCall runs script data against the contract.
func (rt *Runtime) ExecuteCall(st *state.State, blockCtx *xenv.BlockContext, txCtx *xenv.TransactionContext, data []byte, gas uint64) *Output {
	senv := setypes.NewScriptEnv(st, blockCtx, txCtx, rt.contract)
	seOutput, leftOverGas, vmErr := rt.se.HandleScriptData(senv, data[len(script.ScriptPrefix):], rt.contract, gas)
	output := &Output{
		LeftOverGas: leftOverGas,
		VMErr:       vmErr,
	}
	if seOutput != nil {
		output.Data = seOutput.GetData()
		output.Events = seOutput.GetEvents()
		output.Transfers = seOutput.GetTransfers()
	}
	return output
}

// Execute executes a call and commits its effects. A reverted call returns a
// receipt with Reverted set; err is reserved for rejected calls and host faults.
func (rt *Runtime) Execute(ctx context.Context, call *Call) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !script.IsScriptData(call.Data) {
		return nil, ErrInvalidCallData
	}
	deposit := new(big.Int)
	if call.Deposit != nil {
		if call.Deposit.Sign() < 0 {
			return nil, ErrInvalidDeposit
		}
		deposit.Set(call.Deposit)
	}
	gas := call.Gas
	if gas == 0 || gas > rt.callGasLimit {
		gas = rt.callGasLimit
	}

	receipt, notify, err := rt.commit(call, deposit, gas)
	if err != nil || receipt.Reverted {
		return receipt, err
	}
	if len(receipt.Transfers) > 0 {
		notify()
	}
	rt.feed.Send(receipt)
	return receipt, nil
}

// commit executes and commits a call under the runtime lock, returning the
// notify callback in effect for it.
func (rt *Runtime) commit(call *Call, deposit *big.Int, gas uint64) (*Receipt, func(), error) {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	start := time.Now()

	st := rt.stater.NewState()
	if !st.SubBalance(call.Caller, deposit) {
		return nil, nil, ErrInsufficientBalance
	}
	st.AddBalance(rt.contract, deposit)

	height := st.GetHeight() + 1
	now := rt.callTime(st)
	blockCtx := &xenv.BlockContext{Number: height, Time: now}
	txCtx := &xenv.TransactionContext{
		ID:      callID(height, call.Caller, call.Data),
		Origin:  call.Caller,
		Deposit: deposit,
	}

	output := rt.ExecuteCall(st, blockCtx, txCtx, call.Data, gas)
	receipt := &Receipt{
		CallID:   txCtx.ID,
		Height:   height,
		Time:     now,
		Caller:   call.Caller,
		Contract: rt.contract,
		Deposit:  deposit,
		GasUsed:  gas - output.LeftOverGas,
		Reverted: output.VMErr != nil,
		VMErr:    output.VMErr,
		Output:   output.Data,
	}

	if receipt.Reverted {
		// drop every change of the call, including the deposit
		st = rt.stater.NewState()
	} else {
		receipt.Events = output.Events
		receipt.Transfers = output.Transfers
		_, receipt.FirstSeq = st.OutboxRange()
		for i, t := range output.Transfers {
			st.PushOutbox(&state.PendingTransfer{
				CallID:    txCtx.ID,
				Index:     uint32(i),
				Sender:    t.Sender,
				Recipient: t.Recipient,
				Amount:    t.Amount,
			})
		}
	}
	st.SetHeight(height)
	st.SetLastTime(now)
	if err := st.Err(); err != nil {
		callsCounter.WithLabelValues("fault").Inc()
		return nil, nil, errors.Wrap(err, "state")
	}
	if err := st.Stage().Commit(); err != nil {
		callsCounter.WithLabelValues("fault").Inc()
		return nil, nil, errors.Wrap(err, "commit state")
	}
	heightGauge.Set(float64(height))
	callDuration.Observe(time.Since(start).Seconds())

	if receipt.Reverted {
		callsCounter.WithLabelValues("reverted").Inc()
		rt.logger.Debug("call reverted", "id", receipt.CallID.AbbrevString(), "height", height, "caller", call.Caller, "err", receipt.VMErr)
		return receipt, rt.notify, nil
	}
	callsCounter.WithLabelValues("success").Inc()
	outboxGauge.Add(float64(len(receipt.Transfers)))
	transfersCounter.Add(float64(len(receipt.Transfers)))
	observeEvents(receipt.Events)
	rt.logger.Debug("call committed", "id", receipt.CallID.AbbrevString(), "height", height, "caller", call.Caller,
		"events", len(receipt.Events), "transfers", len(receipt.Transfers))

	if rt.logDB != nil {
		if err := rt.logDB.Prepare(height, now).ForCall(receipt.CallID, call.Caller).
			Insert(receipt.Events, receipt.Transfers, receipt.FirstSeq).Commit(); err != nil {
			rt.logger.Error("write logdb failed", "height", height, "err", err)
		}
	}
	return receipt, rt.notify, nil
}

func (rt *Runtime) executeBody(ctx context.Context, caller meter.AccountID, deposit *big.Int, body *auction.AuctionBody) (*Receipt, error) {
	data, err := script.EncodeScriptData(body)
	if err != nil {
		return nil, err
	}
	return rt.Execute(ctx, &Call{Caller: caller, Deposit: deposit, Data: data})
}

func (rt *Runtime) Initialize(ctx context.Context, caller meter.AccountID, endTime uint64, beneficiary meter.AccountID) (*Receipt, error) {
	return rt.executeBody(ctx, caller, nil, auction.NewInitBody(endTime, beneficiary))
}

func (rt *Runtime) Bid(ctx context.Context, caller meter.AccountID, deposit *big.Int) (*Receipt, error) {
	return rt.executeBody(ctx, caller, deposit, auction.NewBidBody())
}

func (rt *Runtime) Claim(ctx context.Context, caller meter.AccountID) (*Receipt, error) {
	return rt.executeBody(ctx, caller, nil, auction.NewClaimBody())
}

// View runs fn against committed state. now is the time a call would observe.
func (rt *Runtime) View(fn func(st *state.State, now uint64) error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()
	st := rt.stater.NewState()
	if err := fn(st, rt.callTime(st)); err != nil {
		return err
	}
	return errors.Wrap(st.Err(), "state")
}

func (rt *Runtime) Status() (status *auction.AuctionStatus, err error) {
	err = rt.View(func(st *state.State, now uint64) error {
		status, err = auction.GetAuctionStatus(st, rt.contract, now)
		return err
	})
	return
}

func (rt *Runtime) HighestBid() (bid *meter.HighestBid, err error) {
	err = rt.View(func(st *state.State, _ uint64) error {
		bid, err = auction.GetHighestBid(st, rt.contract)
		return err
	})
	return
}

func (rt *Runtime) EndTime() (endTime uint64, err error) {
	err = rt.View(func(st *state.State, _ uint64) error {
		endTime, err = auction.GetAuctionEndTime(st, rt.contract)
		return err
	})
	return
}

func (rt *Runtime) Balance(account meter.AccountID) (balance *big.Int, err error) {
	err = rt.View(func(st *state.State, _ uint64) error {
		balance = st.GetBalance(account)
		return nil
	})
	return
}

// Height returns the height of the last committed call.
func (rt *Runtime) Height() (height uint64, err error) {
	err = rt.View(func(st *state.State, _ uint64) error {
		height = st.GetHeight()
		return nil
	})
	return
}

// Mint credits amount to account outside of any call.
func (rt *Runtime) Mint(account meter.AccountID, amount *big.Int) (*big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New("mint amount must be positive")
	}
	rt.lock.Lock()
	defer rt.lock.Unlock()
	st := rt.stater.NewState()
	st.AddBalance(account, amount)
	balance := st.GetBalance(account)
	if err := st.Err(); err != nil {
		return nil, errors.Wrap(err, "state")
	}
	if err := st.Stage().Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	rt.logger.Info("minted", "account", account, "amount", meter.FormatNEAR(amount))
	return balance, nil
}

// Pending returns the number of transfer instructions waiting in the outbox.
func (rt *Runtime) Pending() (n uint64, err error) {
	err = rt.View(func(st *state.State, _ uint64) error {
		head, tail := st.OutboxRange()
		n = tail - head
		return nil
	})
	return
}

// Settle settles the oldest outbox instruction and reports whether one was found.
func (rt *Runtime) Settle(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	rt.lock.Lock()
	defer rt.lock.Unlock()

	st := rt.stater.NewState()
	pt, found := st.PeekOutbox()
	if !found {
		return false, errors.Wrap(st.Err(), "state")
	}
	t := &tx.Transfer{Sender: pt.Sender, Recipient: pt.Recipient, Amount: pt.Amount}
	var status logdb.TransferStatus
	switch {
	case t.IsSelf():
		status = logdb.Noop
	case !st.SubBalance(t.Sender, t.Amount):
		status = logdb.Failed
	default:
		st.AddBalance(t.Recipient, t.Amount)
		status = logdb.Settled
	}
	st.PopOutbox()
	if err := st.Err(); err != nil {
		return false, errors.Wrap(err, "state")
	}
	if err := st.Stage().Commit(); err != nil {
		return false, errors.Wrap(err, "commit state")
	}
	outboxGauge.Dec()
	settlementsCounter.WithLabelValues(string(status)).Inc()

	level := slog.LevelDebug
	if status == logdb.Failed {
		level = slog.LevelWarn
	}
	rt.logger.Log(ctx, level, "transfer settled", "seq", pt.Seq, "transfer", t.String(), "status", status)

	if rt.logDB != nil {
		if err := rt.logDB.SetTransferStatus(ctx, pt.Seq, status, rt.clock.Now()); err != nil {
			rt.logger.Error("record transfer status failed", "seq", pt.Seq, "err", err)
		}
	}
	return true, nil
}
