package memo

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	fieldQuestion = "question"
	fieldScenario = "scenario"
)

// RedisStore keeps each session's entry in a Redis hash with a TTL, so
// several server processes share one memo.
type RedisStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. Keys are prefix + session.
func NewRedisStore(rdb goredis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "anees:memo:"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// DialRedis connects to addr and checks the connection with a ping.
func DialRedis(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (r *RedisStore) key(session string) string {
	return r.prefix + session
}

func (r *RedisStore) Get(ctx context.Context, session string) (Entry, error) {
	vals, err := r.rdb.HGetAll(ctx, r.key(session)).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("read memo: %w", err)
	}
	return Entry{Question: vals[fieldQuestion], Scenario: vals[fieldScenario]}, nil
}

func (r *RedisStore) SetQuestion(ctx context.Context, session, question string) error {
	return r.set(ctx, session, fieldQuestion, question)
}

func (r *RedisStore) SetScenario(ctx context.Context, session, scenario string) error {
	return r.set(ctx, session, fieldScenario, scenario)
}

func (r *RedisStore) set(ctx context.Context, session, field, value string) error {
	key := r.key(session)
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write memo: %w", err)
	}
	return nil
}
