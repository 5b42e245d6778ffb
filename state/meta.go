// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
)

var (
	heightKey   = []byte("meta/height")
	lastTimeKey = []byte("meta/time")
)

func (s *State) getUint64(key []byte) uint64 {
	raw, found := s.getRaw(key)
	if !found {
		return 0
	}
	var v uint64
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		s.setError(err)
		return 0
	}
	return v
}

func (s *State) setUint64(key []byte, v uint64) {
	raw, err := rlp.EncodeToBytes(v)
	if err != nil {
		s.setError(err)
		return
	}
	s.putRaw(key, raw)
}

// GetHeight returns the number of the last executed call.
func (s *State) GetHeight() uint64       { return s.getUint64(heightKey) }
func (s *State) SetHeight(height uint64) { s.setUint64(heightKey, height) }
func (s *State) GetLastTime() uint64     { return s.getUint64(lastTimeKey) }
func (s *State) SetLastTime(ts uint64)   { s.setUint64(lastTimeKey, ts) }
