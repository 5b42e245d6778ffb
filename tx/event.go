// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/meterio/meter-auction/meter"
)

// Event audit record emitted by a contract. Topics[0] identifies the event.
type Event struct {
	Address meter.AccountID
	Topics  []meter.Bytes32
	Data    []byte
}

// Events slice of event logs.
type Events []*Event
