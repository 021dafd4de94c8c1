package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"personal-blog/app/server/constants"
	"personal-blog/app/server/identity"
	"personal-blog/app/server/jwt"
	"personal-blog/app/server/metrics"
	"personal-blog/app/server/session"
	"personal-blog/app/server/types"

	"go.uber.org/zap"
)

// ErrBadCredentials 用户不存在、密码错误、角色不符都返回这一个错误
var ErrBadCredentials = errors.New("bad credentials")

type SecretVerifier interface {
	Verify(secret string, hashed string) (bool, error)
	DummyVerify(secret string)
}

type TokenCodec interface {
	Issue(subject string) (string, *jwt.Claims, error)
	Parse(token string) (*jwt.Claims, error)
	TTL() time.Duration
}

type PrincipalResolver interface {
	Resolve(ctx context.Context, username string) (*types.Principal, error)
}

type Authenticator struct {
	l        *zap.Logger
	hasher   SecretVerifier
	codec    TokenCodec
	sessions session.Store
	resolver PrincipalResolver
	m        *metrics.Metrics

	storeTimeout time.Duration // 每次查询会话或用户的超时时间
}

func New(l *zap.Logger, hasher SecretVerifier, codec TokenCodec, sessions session.Store, resolver PrincipalResolver, m *metrics.Metrics, storeTimeout time.Duration) *Authenticator {
	if storeTimeout <= 0 {
		storeTimeout = constants.DefaultStoreTimeout
	}

	return &Authenticator{
		l:            l,
		hasher:       hasher,
		codec:        codec,
		sessions:     sessions,
		resolver:     resolver,
		m:            m,
		storeTimeout: storeTimeout,
	}
}

func (a *Authenticator) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.storeTimeout)
}

// Authenticate 校验用户名密码并签发新令牌，旧会话会被覆盖
func (a *Authenticator) Authenticate(ctx context.Context, username string, secret string, requiredRole *types.Role) (string, error) {
	kind := "user"
	if requiredRole != nil {
		kind = strings.ToLower(requiredRole.String())
	}

	token, err := a.authenticate(ctx, username, secret, requiredRole)
	if a.m != nil {
		result := "success"
		if errors.Is(err, ErrBadCredentials) {
			result = "failure"
		} else if err != nil {
			result = "error"
		}
		a.m.LoginsTotal.WithLabelValues(kind, result).Inc()
	}

	return token, err
}

func (a *Authenticator) authenticate(ctx context.Context, username string, secret string, requiredRole *types.Role) (string, error) {
	// 查找用户
	rctx, cancel := a.withDeadline(ctx)
	principal, err := a.resolver.Resolve(rctx, username)
	cancel()
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			a.hasher.DummyVerify(secret)
			return "", ErrBadCredentials
		}
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}

	// 校验密码
	match, err := a.hasher.Verify(secret, principal.HashedSecret)
	if err != nil {
		// 数据库里的哈希有问题，对客户端依然只返回凭据错误
		a.l.Error("failed to verify password", zap.String("username", username), zap.Error(err))
		return "", ErrBadCredentials
	} else if !match {
		return "", ErrBadCredentials
	}

	// 校验角色
	if requiredRole != nil && principal.Role != *requiredRole {
		return "", ErrBadCredentials
	}

	// 签发令牌
	token, _, err := a.codec.Issue(principal.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	// 保存会话
	pctx, cancel := a.withDeadline(ctx)
	defer cancel()
	if err = a.sessions.Put(pctx, principal.Username, token, a.codec.TTL()); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	return token, nil
}

// Logout 令牌无法解析时直接视为成功
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	claims, err := a.codec.Parse(token)
	if err != nil {
		a.l.Debug("logout with unparsable token", zap.Error(err))
		return nil
	}

	return a.Revoke(ctx, claims.Subject)
}

// Revoke 删除指定用户的会话，用于修改密码和删除账号
func (a *Authenticator) Revoke(ctx context.Context, username string) error {
	ctx, cancel := a.withDeadline(ctx)
	defer cancel()

	if err := a.sessions.Delete(ctx, username); err != nil {
		return fmt.Errorf("failed to revoke session of %s: %w", username, err)
	}
	return nil
}
