package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"service-request-form/internal/form"

	"github.com/redis/go-redis/v9"
)

const maxTxRetries = 5

// RedisStore shares sessions between replicas. Updates use WATCH/MULTI and
// are retried when another writer touched the key.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, f *form.RequestForm) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, stateKey(f.ID), data, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*form.RequestForm, error) {
	raw, err := s.rdb.Get(ctx, stateKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f := &form.RequestForm{}
	if err := json.Unmarshal(raw, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*form.RequestForm) error) (*form.RequestForm, error) {
	key := stateKey(id)

	var updated *form.RequestForm
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		f := &form.RequestForm{}
		if err := json.Unmarshal(raw, f); err != nil {
			return err
		}
		if err := fn(f); err != nil {
			return err
		}

		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			updated = f
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, stateKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
