package debate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis key pattern helpers.
//
// All keys are namespaced by instance name so multiple Moot instances can
// safely share one Redis server.
//
// Key pattern: moot:{instance_name}:debate:{debate_id}
// Index pattern: moot:{instance_name}:debates (ZSET scored by creation time)

// DebateKey returns the Redis key for a debate record.
func DebateKey(instanceName, debateID string) string {
	return fmt.Sprintf("moot:%s:debate:%s", instanceName, debateID)
}

// DebateIndexKey returns the Redis key for the instance's debate index.
func DebateIndexKey(instanceName string) string {
	return fmt.Sprintf("moot:%s:debates", instanceName)
}

// RedisStore is an optional Redis-backed Store for operators who want debate
// records to survive service restarts. Record reads and writes go through the
// same hash serialization used across the codebase; a ZSET keyed by creation
// time provides ordered listing.
//
// Like MemoryStore, RedisStore offers per-operation safety only - concurrent
// read-modify-write of the same debate must be serialized by the caller.
type RedisStore struct {
	rdb          *redis.Client
	instanceName string
}

// NewRedisStore creates a Redis-backed store for the given instance.
// Returns an error if instanceName is empty.
func NewRedisStore(redisOpts *redis.Options, instanceName string) (*RedisStore, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &RedisStore{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
	}, nil
}

// Create writes the debate hash and adds the ID to the index.
func (s *RedisStore) Create(ctx context.Context, d *Debate) error {
	return s.write(ctx, d)
}

// Get retrieves a debate by ID. Returns ErrNotFound when the key is absent.
func (s *RedisStore) Get(ctx context.Context, id string) (*Debate, error) {
	key := DebateKey(s.instanceName, id)

	hashData, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read debate from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, ErrNotFound
	}

	d, err := HashToDebate(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize debate: %w", err)
	}

	return d, nil
}

// Update overwrites the debate hash. No existence check, mirroring the
// memory store's last-write-wins contract.
func (s *RedisStore) Update(ctx context.Context, d *Debate) error {
	return s.write(ctx, d)
}

// List returns all debates for this instance ordered by creation time.
func (s *RedisStore) List(ctx context.Context) ([]*Debate, error) {
	ids, err := s.rdb.ZRange(ctx, DebateIndexKey(s.instanceName), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read debate index: %w", err)
	}

	out := make([]*Debate, 0, len(ids))
	for _, id := range ids {
		d, err := s.Get(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				// Index entry outlived the record; skip it
				continue
			}
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Delete removes a debate and its index entry. Idempotent.
func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := s.rdb.Del(ctx, DebateKey(s.instanceName, id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete debate from Redis: %w", err)
	}

	if err := s.rdb.ZRem(ctx, DebateIndexKey(s.instanceName), id).Err(); err != nil {
		return false, fmt.Errorf("failed to remove debate from index: %w", err)
	}

	return removed > 0, nil
}

// Ping verifies Redis connectivity. Useful for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection. After Close the store must not be used.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisStore) write(ctx context.Context, d *Debate) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("invalid debate: %w", err)
	}

	hash, err := DebateToHash(d)
	if err != nil {
		return fmt.Errorf("failed to serialize debate: %w", err)
	}

	key := DebateKey(s.instanceName, d.ID)
	if err := s.rdb.HSet(ctx, key, hash).Err(); err != nil {
		return fmt.Errorf("failed to write debate to Redis: %w", err)
	}

	index := DebateIndexKey(s.instanceName)
	member := redis.Z{Score: float64(d.CreatedAt.UnixMilli()), Member: d.ID}
	if err := s.rdb.ZAdd(ctx, index, member).Err(); err != nil {
		return fmt.Errorf("failed to index debate: %w", err)
	}

	return nil
}
