// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meter_test

import (
	"math/big"
	"testing"

	"github.com/meterio/meter-auction/meter"
	"github.com/stretchr/testify/assert"
)

func TestFormatNEAR(t *testing.T) {
	assert.Equal(t, "1", meter.FormatNEAR(meter.OneNEAR))
	assert.Equal(t, "0.000000000000000000000001", meter.FormatNEAR(meter.OneYocto))
	assert.Equal(t, "0", meter.FormatNEAR(nil))

	oneAndHalf := new(big.Int).Add(meter.OneNEAR, new(big.Int).Div(meter.OneNEAR, big.NewInt(2)))
	assert.Equal(t, "1.5", meter.FormatNEAR(oneAndHalf))
}

func TestParseNEAR(t *testing.T) {
	v, err := meter.ParseNEAR("2.5")
	assert.Nil(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(25), new(big.Int).Div(meter.OneNEAR, big.NewInt(10))).String(), v.String())

	_, err = meter.ParseNEAR("0.0000000000000000000000001")
	assert.NotNil(t, err)
	_, err = meter.ParseNEAR("-1")
	assert.NotNil(t, err)
	_, err = meter.ParseNEAR("abc")
	assert.NotNil(t, err)
}

func TestParseAmount(t *testing.T) {
	v, err := meter.ParseAmount("150")
	assert.Nil(t, err)
	assert.Equal(t, "150", v.String())

	_, err = meter.ParseAmount("1.5")
	assert.NotNil(t, err)
}

func TestAmountLimits(t *testing.T) {
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	v, err := meter.ParseAmount(maxUint256.String())
	assert.Nil(t, err)
	assert.Equal(t, maxUint256.String(), v.String())

	_, err = meter.ParseAmount(new(big.Int).Add(maxUint256, big.NewInt(1)).String())
	assert.NotNil(t, err, "2^256 has 78 digits but overflows uint256")
	_, err = meter.ParseAmount("1e78")
	assert.NotNil(t, err)
	_, err = meter.ParseAmount("1e10000000")
	assert.NotNil(t, err)
	_, err = meter.ParseAmount("0e-10000000")
	assert.NotNil(t, err)

	v, err = meter.ParseAmount("1e77")
	assert.Nil(t, err)
	assert.Equal(t, 78, len(v.String()))

	_, err = meter.ParseNEAR("1e54")
	assert.NotNil(t, err)
	_, err = meter.ParseNEAR("1e100000000")
	assert.NotNil(t, err)
	v, err = meter.ParseNEAR("1e53")
	assert.Nil(t, err)
	assert.Equal(t, 78, len(v.String()))
}
