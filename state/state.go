// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/meterio/meter-auction/kv"
	"github.com/meterio/meter-auction/meter"
)

type change struct {
	value   []byte
	deleted bool
}

// State buffers reads and writes of one call over the committed kv.
// Writes stay invisible to others until Stage().Commit().
type State struct {
	kv      kv.Store
	cache   *storageCache
	changes map[string]*change
	err     error
}

func newState(store kv.Store, cache *storageCache) *State {
	return &State{
		kv:      store,
		cache:   cache,
		changes: make(map[string]*change),
	}
}

func storageKey(addr meter.AccountID, key string) []byte {
	return []byte("storage/" + addr.String() + "/" + key)
}

func (s *State) setError(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns first occurred error.
func (s *State) Err() error {
	return s.err
}

// HasChanges returns whether anything was written.
func (s *State) HasChanges() bool {
	return len(s.changes) > 0
}

func (s *State) getRaw(key []byte) ([]byte, bool) {
	if c, ok := s.changes[string(key)]; ok {
		if c.deleted {
			return nil, false
		}
		return c.value, true
	}
	if v, ok := s.cache.Get(key); ok {
		return v.value, v.exists
	}

	value, err := s.kv.Get(key)
	if err != nil {
		if s.kv.IsNotFound(err) {
			s.cache.Add(key, cachedValue{})
			return nil, false
		}
		s.setError(err)
		return nil, false
	}
	s.cache.Add(key, cachedValue{value: value, exists: true})
	return value, true
}

func (s *State) putRaw(key []byte, value []byte) {
	s.changes[string(key)] = &change{value: value}
}

func (s *State) deleteRaw(key []byte) {
	s.changes[string(key)] = &change{deleted: true}
}

// GetRawStorage returns the raw value under key of the given account, and whether it is present.
func (s *State) GetRawStorage(addr meter.AccountID, key string) ([]byte, bool) {
	return s.getRaw(storageKey(addr, key))
}

// SetRawStorage sets raw value under key of the given account.
func (s *State) SetRawStorage(addr meter.AccountID, key string, raw []byte) {
	s.putRaw(storageKey(addr, key), raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr meter.AccountID, key string, enc func() ([]byte, error)) {
	raw, err := enc()
	if err != nil {
		s.setError(err)
		return
	}
	s.SetRawStorage(addr, key, raw)
}

// DecodeStorage get and decode storage value. dec is only called when the key is present.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr meter.AccountID, key string, dec func([]byte) error) (found bool) {
	raw, found := s.GetRawStorage(addr, key)
	if !found {
		return false
	}
	if err := dec(raw); err != nil {
		s.setError(err)
	}
	return true
}

// Stage makes a stage object to commit changes.
func (s *State) Stage() *Stage {
	if s.err != nil {
		return &Stage{err: s.err}
	}
	return newStage(s.kv, s.cache, s.changes)
}
