// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// ClaimAuction pays the highest bid to the auctioneer, once, after the end time.
func (a *Auction) ClaimAuction(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
	var ret []byte
	defer func() {
		if err != nil {
			ret = []byte(err.Error())
		}
		env.SetReturnData(ret)
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
		a.logger.Info("ClaimAuction: auction not initialized")
		err = ErrNotInitialized
		return
	}

	now := env.GetTime()
	if now <= cfg.EndTime {
		a.logger.Info("ClaimAuction: auction not ended", "now", now, "endTime", cfg.EndTime)
		err = ErrAuctionNotEnded
		return
	}

	if claimed, _ := state.GetClaimed(contract); claimed {
		a.logger.Info("ClaimAuction: already claimed")
		err = ErrAlreadyClaimed
		return
	}

	highest, found := state.GetHighestBid(contract)
	if !found {
		err = errMissingHighestBid
		return
	}

	// claimed is set before the payout is queued
	state.SetClaimed(contract, true)
	if err = emitEvent(env, AuctionClaimedEvent, highest.Bidder, highest.Amount); err != nil {
		return
	}
	env.QueuePayout(cfg.Beneficiary, highest.Amount)

	ret, err = rlp.EncodeToBytes(highest)
	a.logger.Info("auction claimed", "winner", highest.Bidder, "amount", highest.Amount, "beneficiary", cfg.Beneficiary)
	return
}
