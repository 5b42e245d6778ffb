// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"bytes"
	"encoding/hex"
	"log/slog"

	"github.com/meterio/meter-auction/meter"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/pkg/errors"
)

var (
	errPatternMismatch = errors.New("pattern mismatch")
	errUnknownModule   = errors.New("could not address module")
)

// ScriptEngine dispatches script data to registered modules.
type ScriptEngine struct {
	logger *slog.Logger
	modReg Registry
}

func NewScriptEngine() *ScriptEngine {
	se := &ScriptEngine{
		logger: slog.Default().With("pkg", "se"),
	}

	// start all sub modules
	se.StartAllModules()
	return se
}

func (se *ScriptEngine) StartAllModules() {
	// auction
	ModuleAuctionInit(se)
}

// Modules lists registered modules.
func (se *ScriptEngine) Modules() []Module {
	return se.modReg.All()
}

// HandleScriptData runs data (prefix stripped) against the addressed module.
func (se *ScriptEngine) HandleScriptData(senv *setypes.ScriptEnv, data []byte, to meter.AccountID, gas uint64) (seOutput *setypes.ScriptEngineOutput, leftOverGas uint64, err error) {
	if len(data) < len(ScriptPattern) || !bytes.Equal(data[:len(ScriptPattern)], ScriptPattern[:]) {
		n := len(ScriptPattern)
		if len(data) < n {
			n = len(data)
		}
		se.logger.Debug("script pattern mismatch", "pattern", hex.EncodeToString(data[:n]))
		return nil, gas, errPatternMismatch
	}
	script, err := DecodeScriptData(data[len(ScriptPattern):])
	if err != nil {
		se.logger.Debug("decode script message failed", "err", err)
		return nil, gas, errors.WithMessage(err, "decode script data")
	}

	header := script.Header
	mod, find := se.modReg.Find(header.GetModID())
	if !find {
		return nil, gas, errors.WithMessagef(errUnknownModule, "module %v", header.GetModID())
	}
	se.logger.Debug("script header", "header", header.ToString(), "module", mod.ToString())

	//module handler
	seOutput, leftOverGas, err = mod.modHandler(senv, script.Payload, to, gas)
	return
}
