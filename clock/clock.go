// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"log/slog"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
)

// Clock is the host's source of current time, in unix nanoseconds.
type Clock interface {
	Now() uint64
}

// System reads the local clock, optionally corrected by an offset.
type System struct {
	offset time.Duration
}

func NewSystem() *System {
	return &System{}
}

// NewNTP measures the local clock offset against server once.
func NewNTP(server string) (*System, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return nil, errors.Wrap(err, "query ntp")
	}
	if err := resp.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate ntp response")
	}
	slog.Info("clock offset measured", "server", server, "offset", meter.PrettyDuration(resp.ClockOffset))
	return &System{offset: resp.ClockOffset}, nil
}

func (c *System) Offset() time.Duration {
	return c.offset
}

func (c *System) Now() uint64 {
	return uint64(time.Now().Add(c.offset).UnixNano())
}

// Manual is a settable clock.
type Manual struct {
	lock sync.Mutex
	now  uint64
}

func NewManual(now uint64) *Manual {
	return &Manual{now: now}
}

func (c *Manual) Now() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *Manual) Set(now uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = now
}

func (c *Manual) Advance(d uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now += d
}
