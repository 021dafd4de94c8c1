package session

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Store 以用户名为 key 保存当前有效的令牌，每个用户最多一个会话
type Store interface {
	// Put 覆盖旧令牌并重置有效期
	Put(ctx context.Context, subject string, token string, ttl time.Duration) error
	Get(ctx context.Context, subject string) (string, error)
	Delete(ctx context.Context, subject string) error
}
