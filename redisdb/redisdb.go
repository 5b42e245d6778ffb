// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package redisdb

import (
	"context"
	"time"

	"github.com/meterio/meter-auction/kv"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ kv.Store = (*RedisDB)(nil)

const defaultTimeout = 5 * time.Second

// Options options for connecting to redis.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key, so several contracts can share one server.
	Prefix  string
	Timeout time.Duration
}

// RedisDB is a kv store backed by a redis server.
type RedisDB struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// New connects to redis and checks the connection.
func New(opts Options) (*RedisDB, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "connect redis")
	}
	return &RedisDB{
		client:  client,
		prefix:  opts.Prefix,
		timeout: opts.Timeout,
	}, nil
}

// Key returns the namespaced redis key.
func (r *RedisDB) Key(key []byte) string {
	return r.prefix + string(key)
}

func (r *RedisDB) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (r *RedisDB) IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}

func (r *RedisDB) Get(key []byte) ([]byte, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Get(ctx, r.Key(key)).Bytes()
}

func (r *RedisDB) Has(key []byte) (bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	n, err := r.client.Exists(ctx, r.Key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisDB) Put(key, value []byte) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Set(ctx, r.Key(key), value, 0).Err()
}

func (r *RedisDB) Delete(key []byte) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Del(ctx, r.Key(key)).Err()
}

func (r *RedisDB) Close() error {
	return r.client.Close()
}

// NewBatch creates a batch applied in a MULTI/EXEC transaction.
func (r *RedisDB) NewBatch() kv.Batch {
	return &redisBatch{db: r}
}

type batchOp struct {
	key    string
	value  []byte
	delete bool
}

type redisBatch struct {
	db  *RedisDB
	ops []batchOp
}

func (b *redisBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: b.db.Key(key), value: append([]byte(nil), value...)})
	return nil
}

func (b *redisBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: b.db.Key(key), delete: true})
	return nil
}

func (b *redisBatch) Len() int {
	return len(b.ops)
}

func (b *redisBatch) Write() error {
	if len(b.ops) == 0 {
		return nil
	}
	ctx, cancel := b.db.ctx()
	defer cancel()
	_, err := b.db.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range b.ops {
			if op.delete {
				pipe.Del(ctx, op.key)
			} else {
				pipe.Set(ctx, op.key, op.value, 0)
			}
		}
		return nil
	})
	return err
}
