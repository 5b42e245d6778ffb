// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"hash"
	"log/slog"

	"golang.org/x/crypto/blake2b"
)

// NewBlake2b return blake2b-256 hash.
func NewBlake2b() hash.Hash {
	hash, err := blake2b.New256(nil)
	if err != nil {
		slog.Error("could not new blake2b 256", "err", err)
	}
	return hash
}

// Blake2b computes blake2b-256 checksum for given data.
func Blake2b(data ...[]byte) (b32 Bytes32) {
	hash := NewBlake2b()
	for _, b := range data {
		hash.Write(b)
	}
	hash.Sum(b32[:0])
	return
}

// Blake2bString hashes strings, used for account topics.
func Blake2bString(s ...string) Bytes32 {
	data := make([][]byte, 0, len(s))
	for _, v := range s {
		data = append(data, []byte(v))
	}
	return Blake2b(data...)
}
