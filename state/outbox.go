// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

var (
	outboxHeadKey = []byte("outbox/head")
	outboxTailKey = []byte("outbox/tail")
)

func outboxKey(seq uint64) []byte {
	key := make([]byte, 0, 18)
	key = append(key, "outbox/q/"...)
	return binary.BigEndian.AppendUint64(key, seq)
}

// PendingTransfer is a transfer instruction waiting in the outbox.
type PendingTransfer struct {
	Seq       uint64 `rlp:"-"`
	CallID    meter.Bytes32
	Index     uint32
	Sender    meter.AccountID
	Recipient meter.AccountID
	Amount    *big.Int
}

// OutboxRange returns [head, tail) of pending sequence numbers.
func (s *State) OutboxRange() (head, tail uint64) {
	return s.getUint64(outboxHeadKey), s.getUint64(outboxTailKey)
}

// PushOutbox appends a pending transfer and returns its sequence number.
func (s *State) PushOutbox(pt *PendingTransfer) uint64 {
	_, tail := s.OutboxRange()
	raw, err := rlp.EncodeToBytes(pt)
	if err != nil {
		s.setError(err)
		return 0
	}
	s.putRaw(outboxKey(tail), raw)
	s.setUint64(outboxTailKey, tail+1)
	pt.Seq = tail
	return tail
}

// PeekOutbox returns the oldest pending transfer.
func (s *State) PeekOutbox() (*PendingTransfer, bool) {
	head, tail := s.OutboxRange()
	if head >= tail {
		return nil, false
	}
	raw, found := s.getRaw(outboxKey(head))
	if !found {
		return nil, false
	}
	pt := &PendingTransfer{}
	if err := rlp.DecodeBytes(raw, pt); err != nil {
		s.setError(err)
		return nil, false
	}
	pt.Seq = head
	return pt, true
}

// PopOutbox removes the oldest pending transfer.
func (s *State) PopOutbox() {
	head, tail := s.OutboxRange()
	if head >= tail {
		return
	}
	s.deleteRaw(outboxKey(head))
	s.setUint64(outboxHeadKey, head+1)
}
