package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

// Сколько раз повторять транзакцию, если наблюдаемый ключ изменился.
const redisMaxTxAttempts = 3

// Пауза между повторами после конфликта WATCH.
const redisRetryInterval = 20 * time.Millisecond

// RedisStore — реализация на Redis. Update — оптимистическая транзакция
// WATCH/MULTI/EXEC: каждый прочитанный ключ попадает под WATCH.
type RedisStore struct {
	client *redis.Client
	retry  *rate.Limiter
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		retry:  rate.NewLimiter(rate.Every(redisRetryInterval), 1),
	}
}

func (s *RedisStore) View(ctx context.Context, fn func(tx Tx) error) error {
	return fn(readOnlyTx{get: func(key string) ([]byte, error) {
		return redisGet(ctx, s.client, key)
	}})
}

func (s *RedisStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 0; attempt < redisMaxTxAttempts; attempt++ {
		if attempt > 0 {
			if werr := s.retry.Wait(ctx); werr != nil {
				return fmt.Errorf("kv update: %w", werr)
			}
		}
		err = s.client.Watch(ctx, func(rtx *redis.Tx) error {
			btx := newBufferedTx(func(key string) ([]byte, error) {
				if err := rtx.Watch(ctx, key).Err(); err != nil {
					return nil, fmt.Errorf("kv watch %s: %w", key, err)
				}
				return redisGet(ctx, rtx, key)
			})
			if err := fn(btx); err != nil {
				return err
			}

			sets, deletes := btx.pending()
			if len(sets) == 0 && len(deletes) == 0 {
				return nil
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, k := range sets {
					pipe.Set(ctx, k, btx.writes[k], 0)
				}
				if len(deletes) > 0 {
					pipe.Del(ctx, deletes...)
				}
				return nil
			})
			return err
		})
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("kv update: %w", err)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func redisGet(ctx context.Context, c redisGetter, key string) ([]byte, error) {
	b, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return b, nil
}
