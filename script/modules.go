// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"github.com/meterio/meter-auction/script/auction"
)

const (
	AUCTION_MODULE_NAME = string("auction")
	AUCTION_MODULE_ID   = uint32(1001)
)

func ModuleAuctionInit(se *ScriptEngine) *auction.Auction {
	a := auction.NewAuction()
	if a == nil {
		panic("init auction module failed")
	}

	mod := &Module{
		modName:    AUCTION_MODULE_NAME,
		modID:      AUCTION_MODULE_ID,
		modHandler: a.Handle,
	}
	if err := se.modReg.Register(AUCTION_MODULE_ID, mod); err != nil {
		panic("register auction module failed")
	}

	a.Start()
	se.logger.Info("ScriptEngine", "started module", mod.modName)
	return a
}
