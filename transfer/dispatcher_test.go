// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
)

type queueSettler struct {
	lock    sync.Mutex
	queue   []int
	settled []int
	failing int
}

func (q *queueSettler) push(v ...int) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.queue = append(q.queue, v...)
}

func (q *queueSettler) Settle(ctx context.Context) (bool, error) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if q.failing > 0 {
		q.failing--
		return false, errors.New("store unavailable")
	}
	if len(q.queue) == 0 {
		return false, nil
	}
	q.settled = append(q.settled, q.queue[0])
	q.queue = q.queue[1:]
	return true, nil
}

func (q *queueSettler) result() []int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return append([]int(nil), q.settled...)
}

func TestDispatcherDrainsInOrder(t *testing.T) {
	defer leaktest.Check(t)()

	q := &queueSettler{}
	// left over from a previous run
	q.push(1, 2)
	d := NewDispatcher(q)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(q.result()) == 2 }, time.Second, time.Millisecond*5)
	q.push(3, 4, 5)
	d.Notify()
	d.Notify()
	assert.Eventually(t, func() bool { return len(q.result()) == 5 }, time.Second, time.Millisecond*5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, q.result())

	cancel()
	<-done
}

func TestDispatcherRetries(t *testing.T) {
	defer leaktest.Check(t)()

	q := &queueSettler{failing: 2}
	q.push(7)
	d := NewDispatcher(q)
	d.retryDelay = time.Millisecond * 10

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(q.result()) == 1 }, time.Second, time.Millisecond*5)
	cancel()
	<-done
}
