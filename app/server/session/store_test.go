package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// 两种实现共用同一组行为测试
func runStoreTests(t *testing.T, s Store, advance func(time.Duration)) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get(ctx, "nobody")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("put get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "alice", "t1", 30*time.Minute))

		token, err := s.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "t1", token)
	})

	t.Run("put replaces and resets ttl", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "bob", "t1", 30*time.Minute))
		advance(20 * time.Minute)
		require.NoError(t, s.Put(ctx, "bob", "t2", 30*time.Minute))
		advance(20 * time.Minute)

		token, err := s.Get(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, "t2", token)
	})

	t.Run("expires", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "carol", "t1", 30*time.Minute))
		advance(30*time.Minute + time.Second)

		_, err := s.Get(ctx, "carol")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "dave", "t1", 30*time.Minute))
		require.NoError(t, s.Delete(ctx, "dave"))

		_, err := s.Get(ctx, "dave")
		assert.ErrorIs(t, err, ErrSessionNotFound)

		// 删除不存在的会话不是错误
		require.NoError(t, s.Delete(ctx, "dave"))
	})

	t.Run("subjects are independent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "erin", "e", 30*time.Minute))
		require.NoError(t, s.Put(ctx, "frank", "f", 30*time.Minute))
		require.NoError(t, s.Delete(ctx, "erin"))

		token, err := s.Get(ctx, "frank")
		require.NoError(t, err)
		assert.Equal(t, "f", token)
	})

	t.Run("concurrent put keeps one value", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_ = s.Put(ctx, "grace", fmt.Sprintf("t%d", i), 30*time.Minute)
			}(i)
		}
		wg.Wait()

		token, err := s.Get(ctx, "grace")
		require.NoError(t, err)
		assert.Regexp(t, `^t\d+$`, token)
	})
}

func TestMemoryStore(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	runStoreTests(t, NewMemoryStore(clock.Now), clock.Advance)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := NewMemoryStore(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Get(ctx, "alice")
	assert.ErrorIs(t, err, context.Canceled)
}

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb), mr
}

func TestRedisStore(t *testing.T) {
	s, mr := setupRedisStore(t)
	runStoreTests(t, s, mr.FastForward)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	s, mr := setupRedisStore(t)

	require.NoError(t, s.Put(context.Background(), "alice", "t1", 30*time.Minute))

	value, err := mr.Get("token:alice")
	require.NoError(t, err)
	assert.Equal(t, "t1", value)
	assert.Equal(t, 30*time.Minute, mr.TTL("token:alice"))
}

func TestRedisStore_ConnectionError(t *testing.T) {
	s, mr := setupRedisStore(t)
	mr.Close()

	_, err := s.Get(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}
