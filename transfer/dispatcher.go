// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"context"
	"log/slog"
	"time"

	"github.com/meterio/meter-auction/co"
)

// Settler settles the oldest queued transfer instruction, reporting false when none is queued.
type Settler interface {
	Settle(ctx context.Context) (bool, error)
}

// Dispatcher drains queued transfers in order on a single goroutine.
type Dispatcher struct {
	settler    Settler
	wakeup     chan struct{}
	retryDelay time.Duration
	logger     *slog.Logger
}

func NewDispatcher(settler Settler) *Dispatcher {
	return &Dispatcher{
		settler:    settler,
		wakeup:     make(chan struct{}, 1),
		retryDelay: time.Second,
		logger:     slog.Default().With("pkg", "transfer"),
	}
}

// Notify wakes the dispatcher. It never blocks.
func (d *Dispatcher) Notify() {
	select {
	case d.wakeup <- struct{}{}:
	default:
	}
}

// Run drains the queue until ctx is done. Instructions left by a previous run
// are drained first.
func (d *Dispatcher) Run(ctx context.Context) {
	var goes co.Goes
	d.logger.Debug("dispatcher started")
	defer func() {
		goes.Wait()
		d.logger.Debug("dispatcher stopped")
	}()

	d.Notify()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.wakeup:
			if !d.drain(ctx) {
				retriesCounter.Inc()
				// retry later without waiting for a new call
				goes.Go(func() {
					select {
					case <-ctx.Done():
					case <-time.After(d.retryDelay):
						d.Notify()
					}
				})
			}
		}
	}
}

// drain returns false if settlement stopped on an error.
func (d *Dispatcher) drain(ctx context.Context) bool {
	n := 0
	for {
		settled, err := d.settler.Settle(ctx)
		if err != nil {
			if ctx.Err() == nil {
				d.logger.Error("settle transfer failed", "err", err)
				return false
			}
			return true
		}
		if !settled {
			if n > 0 {
				d.logger.Debug("outbox drained", "settled", n)
			}
			return true
		}
		n++
		drainedCounter.Inc()
	}
}
