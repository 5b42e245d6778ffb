// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Goes to run a group of goroutines and wait for their termination.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a new goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait waits for all goroutines to terminate.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel that closes when all goroutines terminate.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()
	return done
}
