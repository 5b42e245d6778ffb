// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// Bytes32 array of 32 bytes.
type Bytes32 [32]byte

// String implements stringer
func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// AbbrevString returns abbrev string presentation.
func (b Bytes32) AbbrevString() string {
	return "0x" + hex.EncodeToString(b[:4]) + "…" + hex.EncodeToString(b[28:])
}

// Bytes returns byte slice form of Bytes32.
func (b Bytes32) Bytes() []byte {
	return b[:]
}

// IsZero returns if Bytes32 has all zero bytes.
func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// MarshalJSON implements json.Marshaler.
func (b Bytes32) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytes32) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBytes32(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 convert string presented into Bytes32 type
func ParseBytes32(s string) (Bytes32, error) {
	var b32 Bytes32
	raw, err := hexutil.Decode(s)
	if err != nil {
		return Bytes32{}, errors.WithMessage(err, "bytes32")
	}
	if len(raw) != len(b32) {
		return Bytes32{}, errors.New("invalid bytes32 length")
	}
	copy(b32[:], raw)
	return b32, nil
}

// BytesToBytes32 converts bytes slice into Bytes32.
// If b is larger than Bytes32 legnth, b will be cropped (from the left).
// If b is smaller than Bytes32 length, b will be extended (from the left).
func BytesToBytes32(b []byte) Bytes32 {
	var b32 Bytes32
	if len(b) > len(b32) {
		b = b[len(b)-len(b32):]
	}
	copy(b32[len(b32)-len(b):], b)
	return b32
}
