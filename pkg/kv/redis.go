package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores each document as a JSON envelope carrying its version.
// Conditional puts run inside an optimistic WATCH transaction so that a
// concurrent writer aborts the stale one instead of being clobbered.
type Redis struct {
	client *redis.Client
}

type redisEnvelope struct {
	Version int64           `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// ConnectRedis dials the configured Redis server, retrying until it is
// ready or the attempts are exhausted.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return &Redis{client: client}, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrNotReady
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, int64, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}

	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, err
	}
	return env.Data, env.Version, nil
}

func (r *Redis) Put(ctx context.Context, key string, value []byte, version int64) error {
	payload, err := json.Marshal(redisEnvelope{Version: version + 1, Data: value})
	if err != nil {
		return err
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		current := int64(0)
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var env redisEnvelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return err
			}
			current = env.Version
		}
		if current != version {
			return ErrVersionMismatch
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}, key)

	// The watched key changed between read and commit: same outcome as a
	// plain version mismatch.
	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionMismatch
	}
	return err
}

func (r *Redis) Close() error { return r.client.Close() }
