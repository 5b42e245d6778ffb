// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// YoctoDecimals is the number of decimals between one NEAR and its smallest unit.
	YoctoDecimals = 24
	// MaxAmountDigits is the number of decimal digits of 2^256-1.
	MaxAmountDigits = 78
)

var (
	// OneYocto is the smallest positive amount.
	OneYocto = big.NewInt(1)
	// OneNEAR = 10^24 yocto
	OneNEAR = new(big.Int).Exp(big.NewInt(10), big.NewInt(YoctoDecimals), nil)

	errNegativeAmount   = errors.New("amount must not be negative")
	errFractionalAmount = errors.New("amount has more precision than one yocto")
	errAmountTooLarge   = errors.New("amount exceeds 256 bits")
)

// FormatNEAR renders a yocto amount as a NEAR decimal string, e.g. 1.5 for 1.5*10^24.
func FormatNEAR(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -YoctoDecimals).String()
}

// ParseNEAR parses a NEAR decimal string into yocto.
func ParseNEAR(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.WithMessage(err, "near amount")
	}
	if err := checkDigits(d, YoctoDecimals); err != nil {
		return nil, err
	}
	return toYocto(d.Shift(YoctoDecimals))
}

// ParseAmount parses an integral yocto amount.
func ParseAmount(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.WithMessage(err, "amount")
	}
	if err := checkDigits(d, 0); err != nil {
		return nil, err
	}
	return toYocto(d)
}

// checkDigits bounds the exponent of d before it is expanded into a big.Int.
// shift is the number of decimals d will be shifted left by.
func checkDigits(d decimal.Decimal, shift int64) error {
	exp := int64(d.Exponent())
	if exp+shift < -MaxAmountDigits {
		return errFractionalAmount
	}
	if int64(d.NumDigits())+exp+shift > MaxAmountDigits {
		return errAmountTooLarge
	}
	return nil
}

func toYocto(d decimal.Decimal) (*big.Int, error) {
	if d.Sign() < 0 {
		return nil, errNegativeAmount
	}
	if !d.IsInteger() {
		return nil, errFractionalAmount
	}
	v := d.BigInt()
	if v.BitLen() > 256 {
		return nil, errAmountTooLarge
	}
	return v, nil
}
