// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package types

import (
	"github.com/meterio/meter-auction/tx"
)

type ScriptEngineOutput struct {
	data      []byte
	transfers []*tx.Transfer
	events    []*tx.Event
}

func NewScriptEngineOutput(data []byte) *ScriptEngineOutput {
	return &ScriptEngineOutput{
		data:      data,
		transfers: make([]*tx.Transfer, 0),
		events:    make([]*tx.Event, 0),
	}
}

func (o *ScriptEngineOutput) SetData(d []byte) {
	o.data = d
}

func (o *ScriptEngineOutput) GetTransfers() tx.Transfers {
	return o.transfers
}

func (o *ScriptEngineOutput) GetEvents() tx.Events {
	return o.events
}

func (o *ScriptEngineOutput) GetData() []byte {
	if len(o.data) <= 0 {
		return nil
	}
	return o.data
}
