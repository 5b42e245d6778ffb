// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"fmt"
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

// BlockContext host facts shared by everything executed at one height.
type BlockContext struct {
	Number uint64
	// Time in unix nanoseconds, never decreasing across calls.
	Time uint64
}

func (ctx *BlockContext) String() string {
	return fmt.Sprintf("blockCtx{Number:%d Time:%d}", ctx.Number, ctx.Time)
}

// TransactionContext per-call facts.
type TransactionContext struct {
	ID      meter.Bytes32
	Origin  meter.AccountID
	Deposit *big.Int
}

// AttachedDeposit returns the deposit, zero if none.
func (ctx *TransactionContext) AttachedDeposit() *big.Int {
	if ctx.Deposit == nil {
		return new(big.Int)
	}
	return ctx.Deposit
}

func (ctx *TransactionContext) String() string {
	return fmt.Sprintf("txCtx{ID:%s Origin:%s Deposit:%s}", ctx.ID.String(), ctx.Origin.String(), ctx.AttachedDeposit().String())
}
