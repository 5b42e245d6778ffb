// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/meterio/meter-auction/kv"
)

// Stage abstracts changes of one state, committed in a single batch.
type Stage struct {
	err error

	kv      kv.Store
	cache   *storageCache
	changes map[string]*change
}

func newStage(store kv.Store, cache *storageCache, changes map[string]*change) *Stage {
	return &Stage{
		kv:      store,
		cache:   cache,
		changes: changes,
	}
}

// Len returns number of changed keys.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes in one batch and refreshes the cache.
func (s *Stage) Commit() error {
	if s.err != nil {
		return s.err
	}
	if len(s.changes) == 0 {
		return nil
	}

	batch := s.kv.NewBatch()
	for k, c := range s.changes {
		var err error
		if c.deleted {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), c.value)
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		s.cache.Purge()
		return err
	}

	for k, c := range s.changes {
		if c.deleted {
			s.cache.Add([]byte(k), cachedValue{})
		} else {
			s.cache.Add([]byte(k), cachedValue{value: c.value, exists: true})
		}
	}
	return nil
}
