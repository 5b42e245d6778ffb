// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock_test

import (
	"testing"
	"time"

	"github.com/meterio/meter-auction/clock"
	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	c := clock.NewManual(10)
	assert.Equal(t, uint64(10), c.Now())
	c.Advance(5)
	assert.Equal(t, uint64(15), c.Now())
	c.Set(3)
	assert.Equal(t, uint64(3), c.Now())
}

func TestSystem(t *testing.T) {
	c := clock.NewSystem()
	before := uint64(time.Now().UnixNano())
	now := c.Now()
	assert.True(t, now >= before)
	assert.Equal(t, time.Duration(0), c.Offset())
}
