// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import "github.com/meterio/meter-auction/meter"

type Module struct {
	Name string `json:"name"`
	ID   uint32 `json:"id"`
}

type Status struct {
	Contract         meter.AccountID `json:"contract"`
	Height           uint64          `json:"height"`
	PendingTransfers uint64          `json:"pendingTransfers"`
	Modules          []Module        `json:"modules"`
}
