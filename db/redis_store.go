package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/logger"
)

// RedisStore keeps each document as one string key holding the JSON array.
type RedisStore struct {
	Client *redis.Client
	prefix string
	log    *logger.Logger
}

// NewRedisStore creates a RedisStore instance
func NewRedisStore(client *redis.Client, prefix string, log *logger.Logger) *RedisStore {
	if log == nil {
		log = logger.Nop()
	}
	return &RedisStore{Client: client, prefix: prefix, log: log}
}

// Helper to generate the key of a document
func (s *RedisStore) documentKey(name string) string {
	return s.prefix + name
}

// Read returns the stored document, or an empty array when the key is absent
func (s *RedisStore) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := s.Client.Get(ctx, s.documentKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return emptyCollection, nil
		}
		s.log.Error("redis read failed", "document", name, "error", err)
		return nil, &NetworkError{Err: err}
	}
	return data, nil
}

// Write replaces the stored document
func (s *RedisStore) Write(ctx context.Context, name string, body []byte) error {
	if err := s.Client.Set(ctx, s.documentKey(name), body, 0).Err(); err != nil {
		s.log.Error("redis write failed", "document", name, "error", err)
		return &NetworkError{Err: err}
	}
	return nil
}

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
