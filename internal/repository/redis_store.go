package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"StockTiming/internal/domain/models"
)

// RedisStore keeps endpoints and history as JSON blobs in Redis, one key per
// collection. Suited for multi-instance deployments where the file store
// cannot be shared.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "stocktiming:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Load(ctx context.Context) ([]models.Endpoint, error) {
	var endpoints []models.Endpoint
	if err := s.get(ctx, s.prefix+"endpoints", &endpoints); err != nil {
		return nil, err
	}
	return endpoints, nil
}

func (s *RedisStore) Save(ctx context.Context, endpoints []models.Endpoint) error {
	return s.set(ctx, s.prefix+"endpoints", endpoints)
}

// RedisHistoryStore persists history under its own key on the shared client.
type RedisHistoryStore struct {
	rs *RedisStore
}

func NewRedisHistoryStore(rs *RedisStore) *RedisHistoryStore {
	return &RedisHistoryStore{rs: rs}
}

func (s *RedisHistoryStore) Load(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := s.rs.get(ctx, s.rs.prefix+"history", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *RedisHistoryStore) Save(ctx context.Context, entries []models.HistoryEntry) error {
	return s.rs.set(ctx, s.rs.prefix+"history", entries)
}

func (s *RedisStore) get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
