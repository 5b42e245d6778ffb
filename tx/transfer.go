// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

// Transfer value transfer instruction produced by a call.
type Transfer struct {
	Sender    meter.AccountID
	Recipient meter.AccountID
	Amount    *big.Int
}

// IsSelf reports a transfer whose sender is its recipient, which settles as a no-op.
func (t *Transfer) IsSelf() bool {
	return t.Sender == t.Recipient
}

func (t *Transfer) String() string {
	return fmt.Sprintf("Transfer(%v -> %v, amount=%v)", t.Sender, t.Recipient, t.Amount)
}

// Transfers slisce of transfer logs.
type Transfers []*Transfer
