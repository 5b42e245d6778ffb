// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"log/slog"

	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
)

// Auction is the single-item ascending auction module.
type Auction struct {
	logger *slog.Logger
}

func NewAuction() *Auction {
	return &Auction{
		logger: slog.Default().With("pkg", "auction"),
	}
}

func (a *Auction) Start() error {
	a.logger.Info("auction module started")
	return nil
}

// Handle decodes the auction body and runs the operation against env.
// State changes are buffered in env's state and only persist if the caller commits it.
func (a *Auction) Handle(senv *setypes.ScriptEnv, payload []byte, to meter.AccountID, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	ab, err := DecodeFromBytes(payload)
	if err != nil {
		a.logger.Error("Decode script message failed", "error", err)
		return nil, gas, err
	}

	if senv == nil {
		panic("create auction enviroment failed")
	}
	if senv.GetToAddr() != to {
		a.logger.Error("auction body sent to another contract", "to", to, "contract", senv.GetToAddr())
		return nil, gas, errWrongContract
	}

	a.logger.Debug("received auction", "body", ab.ToString(), "txCtx", senv.GetTxCtx().String())
	switch ab.Opcode {
	case OP_INIT:
		leftOverGas, err = a.InitAuction(senv, ab, gas)

	case OP_BID:
		leftOverGas, err = a.HandleBid(senv, ab, gas)

	case OP_CLAIM:
		leftOverGas, err = a.ClaimAuction(senv, ab, gas)

	default:
		a.logger.Error("unknown Opcode", "Opcode", ab.Opcode)
		return nil, gas, errUnknownOpcode
	}
	seOutput = senv.GetOutput()
	a.logger.Debug("Leaving script handler for operation", "op", ab.GetOpName(ab.Opcode))
	return
}
