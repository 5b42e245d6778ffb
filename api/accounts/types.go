// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"

	"github.com/meterio/meter-auction/meter"
)

//Account for marshal account
type Account struct {
	ID      meter.AccountID `json:"id"`
	Balance string          `json:"balance"`
	NEAR    string          `json:"near"`
}

func convertAccount(id meter.AccountID, balance *big.Int) *Account {
	return &Account{
		ID:      id,
		Balance: balance.String(),
		NEAR:    meter.FormatNEAR(balance),
	}
}

type MintRequest struct {
	Amount string `json:"amount,omitempty"`
	NEAR   string `json:"near,omitempty"`
}
