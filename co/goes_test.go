// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/meterio/meter-auction/co"
	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	defer leaktest.Check(t)()

	var (
		goes co.Goes
		n    int32
	)
	for i := 0; i < 10; i++ {
		goes.Go(func() {
			time.Sleep(time.Millisecond * 5)
			atomic.AddInt32(&n, 1)
		})
	}
	<-goes.Done()
	assert.Equal(t, int32(10), atomic.LoadInt32(&n))
	goes.Wait()
}
