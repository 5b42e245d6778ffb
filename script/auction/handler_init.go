// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// InitAuction writes the config, the sentinel bid and claimed=false. It runs once per contract.
func (a *Auction) InitAuction(env *setypes.ScriptEnv, ab *AuctionBody, gas uint64) (leftOverGas uint64, err error) {
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
	if _, found := state.GetAuctionConfig(contract); found {
		a.logger.Info("InitAuction: auction already initialized", "contract", contract)
		err = ErrAlreadyInitialized
		return
	}
	if _, perr := meter.ParseAccountID(ab.Beneficiary.String()); perr != nil {
		a.logger.Info("InitAuction: invalid beneficiary", "beneficiary", ab.Beneficiary, "err", perr)
		err = errInvalidBeneficiary
		return
	}

	cfg := &meter.AuctionConfig{
		EndTime:     ab.EndTime,
		Beneficiary: ab.Beneficiary,
	}
	state.SetAuctionConfig(contract, cfg)
	state.SetHighestBid(contract, meter.SentinelBid(contract))
	state.SetClaimed(contract, false)

	ret, err = rlp.EncodeToBytes(cfg)
	a.logger.Info("auction initialized", "endTime", cfg.EndTime, "beneficiary", cfg.Beneficiary, "now", env.GetTime())
	return
}
