// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"regexp"

	"github.com/pkg/errors"
)

const (
	MinAccountIDLen = 2
	MaxAccountIDLen = 64
)

var (
	accountIDRe = regexp.MustCompile(`^(([a-z\d]+[\-_])*[a-z\d]+\.)*([a-z\d]+[\-_])*[a-z\d]+$`)

	errInvalidAccountID = errors.New("invalid account id")
)

// AccountID is a human readable account name such as "alice.near".
type AccountID string

// ParseAccountID validates s against the account naming rules.
func ParseAccountID(s string) (AccountID, error) {
	if len(s) < MinAccountIDLen || len(s) > MaxAccountIDLen {
		return "", errors.WithMessagef(errInvalidAccountID, "%q: length must be in [%d, %d]", s, MinAccountIDLen, MaxAccountIDLen)
	}
	if !accountIDRe.MatchString(s) {
		return "", errors.WithMessagef(errInvalidAccountID, "%q", s)
	}
	return AccountID(s), nil
}

// MustParseAccountID panics on an invalid account id. Use for constants only.
func MustParseAccountID(s string) AccountID {
	id, err := ParseAccountID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (a AccountID) String() string { return string(a) }
func (a AccountID) Bytes() []byte  { return []byte(a) }
func (a AccountID) IsZero() bool   { return len(a) == 0 }

// Topic is the event topic for an account, allowing log filtering by account.
func (a AccountID) Topic() Bytes32 {
	return Blake2b([]byte(a))
}
