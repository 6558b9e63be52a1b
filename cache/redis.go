package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ZaguanLabs/gotext"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore is a Redis-backed VersionStore. Versions are stored as JSON
// under a prefixed flat key.
type RedisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	timeout   time.Duration
	logger    zerolog.Logger
}

// RedisConfig holds configuration for the Redis store.
type RedisConfig struct {
	URL       string        // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int           // TTL in seconds (0 = no expiration)
	KeyPrefix string        // Prefix for all keys (default: "gotext:")
	Timeout   time.Duration // Per-operation timeout (default: 2s)
}

// NewRedisStore creates a new Redis store with the given configuration.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, &gotext.CacheError{Message: "invalid redis URL", Cause: err}
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, &gotext.CacheError{Message: "redis ping failed", Cause: err}
	}

	s := NewRedisStoreFromClient(client, cfg.TTL, cfg.KeyPrefix)
	if cfg.Timeout > 0 {
		s.timeout = cfg.Timeout
	}
	return s, nil
}

// NewRedisStoreFromClient creates a RedisStore from an existing Redis client.
func NewRedisStoreFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "gotext:"
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
		timeout:   2 * time.Second,
		logger:    zerolog.Nop(),
	}
}

// WithLogger sets the logger used for read errors, which are otherwise reported as misses.
func (s *RedisStore) WithLogger(logger zerolog.Logger) *RedisStore {
	s.logger = logger
	return s
}

// Key returns the Redis key for a version key.
func (s *RedisStore) Key(k gotext.VersionKey) string {
	return s.keyPrefix + gotext.KeyString(k)
}

// Get retrieves a version from Redis. Errors are reported as misses.
func (s *RedisStore) Get(k gotext.VersionKey) (*gotext.Version, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, s.Key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("ref", k.Ref).Msg("redis get failed")
		return nil, false
	}

	var v gotext.Version
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn().Err(err).Str("ref", k.Ref).Msg("corrupt cached version")
		return nil, false
	}
	return &v, true
}

// Set stores a version in Redis.
func (s *RedisStore) Set(k gotext.VersionKey, v *gotext.Version) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &gotext.CacheError{Message: "encoding version", Cause: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.client.Set(ctx, s.Key(k), data, s.ttl).Err(); err != nil {
		return &gotext.CacheError{Message: "redis set failed", Cause: err}
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisStore) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Verify RedisStore implements VersionStore
var _ VersionStore = (*RedisStore)(nil)
