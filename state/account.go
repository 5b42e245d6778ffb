// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/meterio/meter-auction/meter"
)

func balanceKey(addr meter.AccountID) []byte {
	return []byte("balance/" + addr.String())
}

// GetBalance returns balance for the given account, zero if never funded.
func (s *State) GetBalance(addr meter.AccountID) *big.Int {
	raw, found := s.getRaw(balanceKey(addr))
	if !found {
		return new(big.Int)
	}
	balance := new(big.Int)
	if err := rlp.DecodeBytes(raw, balance); err != nil {
		s.setError(err)
		return new(big.Int)
	}
	return balance
}

// SetBalance set balance for the given account.
func (s *State) SetBalance(addr meter.AccountID, balance *big.Int) {
	raw, err := rlp.EncodeToBytes(balance)
	if err != nil {
		s.setError(err)
		return
	}
	s.putRaw(balanceKey(addr), raw)
}

// SubBalance returns false and changes nothing if the balance is insufficient.
func (s *State) SubBalance(addr meter.AccountID, amount *big.Int) bool {
	if amount.Sign() == 0 {
		return true
	}
	balance := s.GetBalance(addr)
	if balance.Cmp(amount) < 0 {
		return false
	}
	s.SetBalance(addr, new(big.Int).Sub(balance, amount))
	return true
}

// AddBalance credits amount to addr.
func (s *State) AddBalance(addr meter.AccountID, amount *big.Int) {
	if amount.Sign() == 0 {
		return
	}
	balance := s.GetBalance(addr)
	s.SetBalance(addr, new(big.Int).Add(balance, amount))
}
