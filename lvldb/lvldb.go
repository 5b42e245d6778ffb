// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"github.com/meterio/meter-auction/kv"
	"github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var _ kv.Store = (*LevelDB)(nil)

var (
	writeOpt = opt.WriteOptions{}
	readOpt  = opt.ReadOptions{}
)

// Options options for creating level db instance.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
}

// LevelDB wraps level db impls.
type LevelDB struct {
	db *leveldb.DB
}

// New create a persistent level db instance.
// Create an empty one if not exists, or open if already there.
func New(path string, opts Options) (*LevelDB, error) {
	if opts.CacheSize < 16 {
		opts.CacheSize = 16
	}
	if opts.OpenFilesCacheCapacity < 16 {
		opts.OpenFilesCacheCapacity = 16
	}

	db, err := leveldb.OpenFile(path, &opt.Options{
		OpenFilesCacheCapacity: opts.OpenFilesCacheCapacity,
		BlockCacheCapacity:     opts.CacheSize / 2 * opt.MiB,
		WriteBuffer:            opts.CacheSize / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})

	if _, corrupted := err.(*dberrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}

	if err != nil {
		return nil, err
	}
	return &LevelDB{db}, nil
}

// NewMem create a level db in memory.
func NewMem() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db}, nil
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return err == leveldb.ErrNotFound
}

// Get retrieve value for given key.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, &readOpt)
}

// Has returns whether a key exists.
func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, &readOpt)
}

// Put save value for given key.
func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, &writeOpt)
}

// Delete deletes a key.
func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, &writeOpt)
}

// Close close the db.
func (ldb *LevelDB) Close() error {
	return ldb.db.Close()
}

// NewBatch creates a batch object.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &levelDBBatch{
		ldb.db,
		&leveldb.Batch{},
	}
}

type levelDBBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelDBBatch) Put(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelDBBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelDBBatch) Len() int {
	return b.batch.Len()
}

func (b *levelDBBatch) Write() error {
	return b.db.Write(b.batch, &writeOpt)
}
