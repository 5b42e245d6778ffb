// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// HandleBid admits the attached deposit as the new highest bid and refunds the bid it replaces.
func (a *Auction) HandleBid(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	start := time.Now()
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
		a.logger.Debug("Bid completed", "elapsed", meter.PrettyDuration(time.Since(start)))
	}()

	if gas < meter.ClauseGas {
		leftOverGas = 0
	} else {
		leftOverGas = gas - meter.ClauseGas
	}

	state := env.GetState()
	contract := env.GetToAddr()
	cfg, found := state.GetAuctionConfig(contract)
	if !found {
		a.logger.Info("HandleBid: auction not initialized")
		err = ErrNotInitialized
		return
	}

	now := env.GetTime()
	if now >= cfg.EndTime {
		a.logger.Info("HandleBid: auction ended", "now", now, "endTime", cfg.EndTime)
		err = ErrAuctionEnded
		return
	}

	highest, found := state.GetHighestBid(contract)
	if !found {
		err = errMissingHighestBid
		return
	}

	bidder := env.GetTxCtx().Origin
	amount := env.GetTxCtx().AttachedDeposit()
	if amount.Cmp(highest.Amount) <= 0 {
		a.logger.Info("HandleBid: bid too low", "bidder", bidder, "amount", amount, "highest", highest.Amount)
		err = ErrBidTooLow
		return
	}

	newBid := meter.NewHighestBid(bidder, amount)
	state.SetHighestBid(contract, newBid)
	if err = emitEvent(env, NewBidEvent, bidder, amount); err != nil {
		return
	}
	// the first real bid refunds the sentinel to the contract itself
	env.QueueRefund(highest.Bidder, highest.Amount)

	ret, err = rlp.EncodeToBytes(newBid)
	a.logger.Info("bid accepted", "bidder", bidder, "amount", amount, "outbid", highest.Bidder)
	return
}
