package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store is the cache abstraction consumed by the report pipeline. The two
// serialization modes are selected per key namespace at the call site: Set/Get
// store the whole value as one JSON blob, SetFlat/GetFlat store a nested
// document as independently serialized dot-path fields.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string, dest any) (bool, error)
	SetFlat(ctx context.Context, key string, doc map[string]any, ttl time.Duration) error
	GetFlat(ctx context.Context, key string) (map[string]any, bool, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
}

// Redis implements Store on a go-redis universal client. Blob values are SET
// with TTL; flattened documents live in a hash whose fields are dot paths.
type Redis struct {
	client goredis.UniversalClient
}

// NewRedis creates a Redis-backed store
func NewRedis(client goredis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// Config configures the Redis connection
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect creates a Redis client and verifies the connection with a ping
func Connect(ctx context.Context, cfg Config) (*Redis, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return NewRedis(client), nil
}

// Set stores value as a single JSON document under key
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache value: %w", err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("setting cache key %q: %w", key, err)
	}
	return nil
}

// Get loads a blob value into dest; the second return is false on miss
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("getting cache key %q: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decoding cache value for %q: %w", key, err)
	}
	return true, nil
}

// SetFlat stores doc as a hash of dot-path fields, each leaf JSON-encoded
func (r *Redis) SetFlat(ctx context.Context, key string, doc map[string]any, ttl time.Duration) error {
	flat := Flatten(doc)
	fields := make(map[string]any, len(flat))
	for path, leaf := range flat {
		data, err := json.Marshal(leaf)
		if err != nil {
			return fmt.Errorf("encoding cache field %q: %w", path, err)
		}
		fields[path] = data
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(fields) > 0 {
		pipe.HSet(ctx, key, fields)
	}
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("setting flattened cache key %q: %w", key, err)
	}
	return nil
}

// GetFlat reads all dot-path fields of key and rebuilds the nested document
func (r *Redis) GetFlat(ctx context.Context, key string) (map[string]any, bool, error) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("getting flattened cache key %q: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	flat := make(map[string]any, len(fields))
	for path, raw := range fields {
		var leaf any
		if err := json.Unmarshal([]byte(raw), &leaf); err != nil {
			return nil, false, fmt.Errorf("decoding cache field %q of %q: %w", path, key, err)
		}
		flat[path] = leaf
	}
	return Unflatten(flat), true, nil
}

// Delete removes key
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting cache key %q: %w", key, err)
	}
	return nil
}

// Exists reports whether key is present
func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("checking cache key %q: %w", key, err)
	}
	return n > 0, nil
}

// Ping checks connectivity to the cache backend
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}

// Close releases the underlying connection
func (r *Redis) Close() error {
	return r.client.Close()
}
