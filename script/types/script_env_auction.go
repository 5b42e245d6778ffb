// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

// ==================== contract outbound transfers ===========================
// Both only queue the instruction. Settlement happens after the call commits and its
// outcome never flows back into the call.

// from contract ==> previous bidder
func (env *ScriptEnv) QueueRefund(bidder meter.AccountID, amount *big.Int) {
	env.AddTransfer(env.toAddr, bidder, amount)
}

// from contract ==> auctioneer
func (env *ScriptEnv) QueuePayout(beneficiary meter.AccountID, amount *big.Int) {
	env.AddTransfer(env.toAddr, beneficiary, amount)
}
