// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package script_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/lvldb"
	"github.com/meterio/meter-auction/meter"
	"github.com/meterio/meter-auction/script"
	"github.com/meterio/meter-auction/script/auction"
	setypes "github.com/meterio/meter-auction/script/types"
	"github.com/meterio/meter-auction/state"
	"github.com/meterio/meter-auction/xenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contract = meter.MustParseAccountID("auction.near")

func newEnv(t *testing.T, now uint64, caller meter.AccountID, deposit int64) (*setypes.ScriptEnv, *state.State) {
	db, err := lvldb.NewMem()
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.NewCreator(db, 0).NewState()
	return setypes.NewScriptEnv(st,
		&xenv.BlockContext{Number: 1, Time: now},
		&xenv.TransactionContext{Origin: caller, Deposit: big.NewInt(deposit)},
		contract), st
}

func TestEncodeScriptData(t *testing.T) {
	data, err := script.EncodeScriptData(auction.NewInitBody(100, "bob.near"))
	require.Nil(t, err)
	assert.True(t, script.IsScriptData(data))
	assert.Equal(t, script.ScriptPattern[:], data[4:8])

	sd, err := script.DecodeScriptData(data[8:])
	require.Nil(t, err)
	assert.Equal(t, script.AUCTION_MODULE_ID, sd.Header.GetModID())
	assert.Equal(t, uint32(0), sd.Header.GetVersion())

	body, err := auction.DecodeFromBytes(sd.Payload)
	require.Nil(t, err)
	assert.Equal(t, auction.OP_INIT, body.Opcode)
	assert.Equal(t, uint64(100), body.EndTime)
	assert.Equal(t, meter.AccountID("bob.near"), body.Beneficiary)

	_, err = script.EncodeScriptData("not a body")
	assert.NotNil(t, err)
	assert.False(t, script.IsScriptData([]byte{0xff}))
}

func TestHandleScriptData(t *testing.T) {
	se := script.NewScriptEngine()
	require.Len(t, se.Modules(), 1)
	assert.Equal(t, script.AUCTION_MODULE_NAME, se.Modules()[0].Name())

	senv, st := newEnv(t, 10, "bob.near", 0)
	data, err := script.EncodeScriptData(auction.NewInitBody(100, "bob.near"))
	require.Nil(t, err)

	out, leftOverGas, err := se.HandleScriptData(senv, data[len(script.ScriptPrefix):], contract, 50000)
	require.Nil(t, err)
	assert.Equal(t, 50000-meter.ClauseGas, leftOverGas)
	cfg, err := auction.DecodeConfig(out.GetData())
	require.Nil(t, err)
	assert.Equal(t, uint64(100), cfg.EndTime)

	bid, found := st.GetHighestBid(contract)
	require.True(t, found)
	assert.Equal(t, contract, bid.Bidder)
}

func TestHandleScriptDataErrors(t *testing.T) {
	se := script.NewScriptEngine()
	senv, _ := newEnv(t, 10, "bob.near", 0)

	_, leftOverGas, err := se.HandleScriptData(senv, []byte{0x01}, contract, 10)
	assert.NotNil(t, err)
	assert.Equal(t, uint64(10), leftOverGas)

	_, _, err = se.HandleScriptData(senv, append(script.ScriptPattern[:], 0xc0), contract, 10)
	assert.NotNil(t, err)

	raw, err := rlp.EncodeToBytes(&script.ScriptData{Header: script.ScriptHeader{ModID: 7}})
	require.Nil(t, err)
	_, _, err = se.HandleScriptData(senv, append(script.ScriptPattern[:], raw...), contract, 10)
	assert.NotNil(t, err)
}

func TestRegistry(t *testing.T) {
	var r script.Registry
	assert.Nil(t, r.Register(1, &script.Module{}))
	assert.NotNil(t, r.Register(1, &script.Module{}))
	assert.Nil(t, r.Register(0, &script.Module{}))
	assert.Nil(t, r.Register(7, &script.Module{}))

	m, ok := r.Find(7)
	require.True(t, ok)
	assert.Equal(t, uint32(7), m.ID(), "id follows the registry key")
	_, ok = r.Find(2)
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, uint32(0), all[0].ID())
	assert.Equal(t, uint32(1), all[1].ID())
	assert.Equal(t, uint32(7), all[2].ID())
}
