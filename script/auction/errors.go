// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package auction

import (
	"github.com/pkg/errors"
)

// precondition failures seen by callers
var (
	ErrNotInitialized     = errors.New("auction is not initialized")
	ErrAlreadyInitialized = errors.New("auction is already initialized")
	ErrAuctionEnded       = errors.New("auction has ended")
	ErrAuctionNotEnded    = errors.New("auction has not ended yet")
	ErrBidTooLow          = errors.New("you must place a higher bid")
	ErrAlreadyClaimed     = errors.New("auction has already been claimed")
)

var (
	errUnknownOpcode      = errors.New("unknown auction opcode")
	errWrongContract      = errors.New("auction body addressed to another contract")
	errInvalidBeneficiary = errors.New("invalid beneficiary")
	errMissingHighestBid  = errors.New("highest bid record missing")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrNotInitialized, "NotInitialized"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrAuctionEnded, "AuctionEnded"},
	{ErrAuctionNotEnded, "AuctionNotEnded"},
	{ErrBidTooLow, "BidTooLow"},
	{ErrAlreadyClaimed, "AlreadyClaimed"},
}

// ErrorKind names the precondition failure behind err.
func ErrorKind(err error) (string, bool) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind, true
		}
	}
	return "", false
}
