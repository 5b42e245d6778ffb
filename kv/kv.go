// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter defines methods to read kv.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// GetPutter defines methods to read/write kv.
type GetPutter interface {
	Getter
	Putter
}

// Batch is a write-only buffer applied atomically on Write.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Store is a durable kv with atomic batches.
type Store interface {
	GetPutter
	NewBatch() Batch
	Close() error
}
