package debate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisStore creates a RedisStore backed by a miniredis instance.
func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := NewRedisStore(&redis.Options{Addr: mr.Addr()}, "test-instance")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// storeImpls returns both Store implementations so the contract tests run
// against each.
func storeImpls(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  setupRedisStore(t),
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := NewDebate("topic", "gpt-4o", "gpt-4-turbo", 2)
			d.AppendMessage(RoleFor, "opening")

			require.NoError(t, store.Create(ctx, d))

			got, err := store.Get(ctx, d.ID)
			require.NoError(t, err)
			assert.Equal(t, d.ID, got.ID)
			assert.Equal(t, d.Proposition, got.Proposition)
			assert.Equal(t, StatusCreated, got.Status)
			require.Len(t, got.Messages, 1)
			assert.Equal(t, "opening", got.Messages[0].Content)
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "no-such-id")
			require.Error(t, err)
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestStoreRejectsInvalidRecord(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			d := NewDebate("topic", "gpt-4o", "gpt-4-turbo", 2)
			d.ID = "not-a-uuid"
			assert.Error(t, store.Create(context.Background(), d))
		})
	}
}

func TestStoreUpdate(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := NewDebate("topic", "gpt-4o", "gpt-4-turbo", 2)
			require.NoError(t, store.Create(ctx, d))

			// Mutate a working copy and write it back
			copy, err := store.Get(ctx, d.ID)
			require.NoError(t, err)
			copy.Status = StatusInProgress
			copy.AppendMessage(RoleFor, "argument")
			copy.AppendMessage(RoleAgainst, "rebuttal")
			copy.CurrentTurn = 1
			require.NoError(t, store.Update(ctx, copy))

			got, err := store.Get(ctx, d.ID)
			require.NoError(t, err)
			assert.Equal(t, StatusInProgress, got.Status)
			assert.Equal(t, 1, got.CurrentTurn)
			assert.Len(t, got.Messages, 2)
		})
	}
}

func TestStoreList(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			debates, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, debates)

			a := NewDebate("first", "gpt-4o", "gpt-4-turbo", 1)
			b := NewDebate("second", "gpt-4o", "gpt-4-turbo", 1)
			// Force distinct index scores for deterministic ordering
			b.CreatedAt = a.CreatedAt.Add(time.Millisecond)
			require.NoError(t, store.Create(ctx, a))
			require.NoError(t, store.Create(ctx, b))

			debates, err = store.List(ctx)
			require.NoError(t, err)
			require.Len(t, debates, 2)
			assert.Equal(t, "first", debates[0].Proposition)
			assert.Equal(t, "second", debates[1].Proposition)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			d := NewDebate("topic", "gpt-4o", "gpt-4-turbo", 1)
			require.NoError(t, store.Create(ctx, d))

			removed, err := store.Delete(ctx, d.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			_, err = store.Get(ctx, d.ID)
			assert.True(t, IsNotFound(err))

			// Idempotent: second delete reports nothing removed
			removed, err = store.Delete(ctx, d.ID)
			require.NoError(t, err)
			assert.False(t, removed)

			debates, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, debates)
		})
	}
}

func TestStorePing(t *testing.T) {
	for name, store := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, store.Ping(context.Background()))
		})
	}
}

func TestMemoryStoreClonesRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	d := NewDebate("topic", "gpt-4o", "gpt-4-turbo", 2)
	require.NoError(t, store.Create(ctx, d))

	// Mutating the original after Create must not affect the stored copy
	d.AppendMessage(RoleFor, "late mutation")
	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)

	// Mutating a retrieved copy must not affect the canonical record
	got.Status = StatusCompleted
	again, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, again.Status)
}

func TestNewRedisStoreRejectsEmptyInstance(t *testing.T) {
	_, err := NewRedisStore(&redis.Options{Addr: "localhost:6379"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance name cannot be empty")
}
