// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/script/auction"
	"github.com/pkg/errors"
)

var (
	ScriptPrefix  = [4]byte{0xff, 0xff, 0xff, 0xff}
	ScriptPattern = [4]byte{0xde, 0xad, 0xbe, 0xef} //pattern: deadbeef

	errUnrecognizedBody = errors.New("unrecognized body")
)

type ScriptData struct {
	Header  ScriptHeader
	Payload []byte
}

type ScriptHeader struct {
	Version uint32
	ModID   uint32
}

// Version returns the version
func (sh *ScriptHeader) GetVersion() uint32 { return sh.Version }
func (sh *ScriptHeader) GetModID() uint32   { return sh.ModID }

func (sh *ScriptHeader) ToString() string {
	return fmt.Sprintf("ScriptHeader:::  Version: %v, ModID: %v", sh.Version, sh.ModID)
}

// IsScriptData reports whether call data carries the script prefix.
func IsScriptData(data []byte) bool {
	return len(data) >= len(ScriptPrefix) && bytes.Equal(data[:len(ScriptPrefix)], ScriptPrefix[:])
}

// EncodeScriptData wraps a module body as prefix + pattern + rlp(ScriptData).
func EncodeScriptData(body interface{}) ([]byte, error) {
	var modID uint32
	switch body.(type) {
	case auction.AuctionBody:
		modID = AUCTION_MODULE_ID
	case *auction.AuctionBody:
		modID = AUCTION_MODULE_ID
	default:
		return []byte{}, errUnrecognizedBody
	}
	payload, err := rlp.EncodeToBytes(body)
	if err != nil {
		return []byte{}, errors.Wrap(err, "rlp encode body")
	}
	s := new(Builder).SetVersion(0).SetModID(modID).SetPayload(payload).Build()
	data, err := rlp.EncodeToBytes(s)
	if err != nil {
		return []byte{}, errors.Wrap(err, "rlp encode script data")
	}

	scriptBytes := make([]byte, 0, len(ScriptPrefix)+len(ScriptPattern)+len(data))
	scriptBytes = append(scriptBytes, ScriptPrefix[:]...)
	scriptBytes = append(scriptBytes, ScriptPattern[:]...)
	scriptBytes = append(scriptBytes, data...)
	return scriptBytes, nil
}

func DecodeScriptData(bytes []byte) (*ScriptData, error) {
	script := ScriptData{}
	err := rlp.DecodeBytes(bytes, &script)
	return &script, err
}
