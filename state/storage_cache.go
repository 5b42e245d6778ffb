// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"
)

const defaultCacheSize = 1024

// cachedValue also caches absence.
type cachedValue struct {
	value  []byte
	exists bool
}

// storageCache caches committed values only.
type storageCache struct {
	cache *lru.Cache
}

func newStorageCache(size int) *storageCache {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil
	}
	return &storageCache{cache: cache}
}

func (sc *storageCache) Get(key []byte) (cachedValue, bool) {
	if v, ok := sc.cache.Get(string(key)); ok {
		return v.(cachedValue), true
	}
	return cachedValue{}, false
}

func (sc *storageCache) Add(key []byte, v cachedValue) {
	sc.cache.Add(string(key), v)
}

func (sc *storageCache) Purge() {
	sc.cache.Purge()
}
