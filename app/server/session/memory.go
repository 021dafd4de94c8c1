package session

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore 仅用于开发和测试，多实例部署时无法共享
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries: map[string]entry{},
		now:     now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, subject string, token string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[subject] = entry{
		token:     token,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, subject string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, exist := s.entries[subject]
	if !exist {
		return "", ErrSessionNotFound
	}
	if !s.now().Before(e.expiresAt) {
		// 已过期，顺手清理
		delete(s.entries, subject)
		return "", ErrSessionNotFound
	}
	return e.token, nil
}

func (s *MemoryStore) Delete(ctx context.Context, subject string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, subject)
	return nil
}
