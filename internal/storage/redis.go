package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
)

// RedisStore keeps the whole appointment set as one JSON value under a
// single key, mirroring the flat-file document.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a redis-backed store.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if client == nil {
		panic("storage: redis client required")
	}
	if key == "" {
		key = "clinic:appointments"
	}
	return &RedisStore{client: client, key: key}
}

// Load reads the persisted set. A missing key yields an empty set.
func (s *RedisStore) Load(ctx context.Context) ([]scheduling.Appointment, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []scheduling.Appointment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: redis get %s: %w", s.key, err)
	}

	var appointments []scheduling.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", s.key, err)
	}
	return appointments, nil
}

// Save replaces the stored value with the given set.
func (s *RedisStore) Save(ctx context.Context, appointments []scheduling.Appointment) error {
	data, err := json.Marshal(appointments)
	if err != nil {
		return fmt.Errorf("storage: encode appointments: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w", s.key, err)
	}
	return nil
}

var _ scheduling.Repository = (*RedisStore)(nil)
