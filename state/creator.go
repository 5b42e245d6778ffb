// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/meterio/meter-auction/kv"
)

// Creator state creator to cut-off kv dependency.
type Creator struct {
	kv    kv.Store
	cache *storageCache
}

// NewCreator create a new state creator. cacheSize is the number of committed values kept in memory.
func NewCreator(store kv.Store, cacheSize int) *Creator {
	return &Creator{
		kv:    store,
		cache: newStorageCache(cacheSize),
	}
}

// NewState create a new state object over committed values.
func (c *Creator) NewState() *State {
	return newState(c.kv, c.cache)
}
