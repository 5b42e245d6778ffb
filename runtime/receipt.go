// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/tx"
)

// Call is a single invocation of the contract.
type Call struct {
	Caller  meter.AccountID
	Deposit *big.Int
	Data    []byte // prefixed script data
	Gas     uint64 // zero means the runtime's limit
}

// Output output of call execution.
type Output struct {
	Data        []byte
	Events      tx.Events
	Transfers   tx.Transfers
	LeftOverGas uint64
	VMErr       error // VMErr identify the execution result of the contract, not a host failure.
}

// Receipt is the outcome of an executed call.
type Receipt struct {
	CallID    meter.Bytes32
	Height    uint64
	Time      uint64
	Caller    meter.AccountID
	Contract  meter.AccountID
	Deposit   *big.Int
	GasUsed   uint64
	Reverted  bool
	VMErr     error
	Output    []byte
	Events    tx.Events
	Transfers tx.Transfers
	FirstSeq  uint64 // outbox sequence of Transfers[0]
}
