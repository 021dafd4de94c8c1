package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"personal-blog/app/server/auth"
	"personal-blog/app/server/constants"
	"personal-blog/app/server/identity"
	"personal-blog/app/server/jwt"
	"personal-blog/app/server/metrics"
	"personal-blog/app/server/policy"
	"personal-blog/app/server/session"
	"personal-blog/app/server/types"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TokenCodec interface {
	auth.TokenCodec
	MinutesUntilExpiry(claims *jwt.Claims) int
}

type AuthConfig struct {
	Logger   *zap.Logger
	Codec    TokenCodec
	Sessions session.Store
	Resolver auth.PrincipalResolver
	Policy   *policy.Table
	Metrics  *metrics.Metrics

	RefreshThreshold time.Duration // 剩余有效期不超过这个值时续签
	StoreTimeout     time.Duration // 查询会话和用户的超时时间
}

// rejection 是认证失败时交给 ErrorHandler 的错误
type rejection struct {
	status int
	reason string
	cause  error
}

func (r *rejection) Error() string {
	return fmt.Sprintf("%s: %v", r.reason, r.cause)
}

func (r *rejection) Unwrap() error {
	return r.cause
}

// Auth 先校验令牌再按访问控制表鉴权，公开接口直接跳过
func Auth(cfg AuthConfig) echo.MiddlewareFunc {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = constants.DefaultStoreTimeout
	}

	isPublic := func(c echo.Context) bool {
		return cfg.Policy.Classify(c.Request().Method, c.Request().URL.Path) == policy.Public
	}

	authenticate := echojwt.WithConfig(echojwt.Config{
		Skipper:     isPublic,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  constants.ContextKeyIdentity,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return resolveIdentity(c, &cfg, token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var rej *rejection
			if !errors.As(err, &rej) {
				// 没有携带令牌，交给鉴权决定
				return nil
			}

			cfg.countRejection(rej.reason)

			res := &types.Result{
				Code:    http.StatusUnauthorized,
				Message: constants.MsgTokenInvalid,
			}
			if rej.status == http.StatusServiceUnavailable {
				cfg.Logger.Error("auth backend unavailable", zap.Error(rej.cause))
				res.Code = http.StatusServiceUnavailable
				res.Message = constants.MsgUnavailable
			} else {
				cfg.Logger.Debug("token rejected", zap.String("reason", rej.reason), zap.Error(rej.cause))
			}

			if err := c.JSON(res.Code, res); err != nil {
				return err
			}
			// 响应已写出，返回错误以中断后续处理
			return rej
		},
		ContinueOnIgnoredError: true,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authenticate(authorize(&cfg)(next))
	}
}

func resolveIdentity(c echo.Context, cfg *AuthConfig, token string) (*types.Identity, error) {
	// 解析令牌
	claims, err := cfg.Codec.Parse(token)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "expired"
		}
		return nil, &rejection{status: http.StatusUnauthorized, reason: reason, cause: err}
	}

	rctx := c.Request().Context()

	// 必须是该用户当前的会话
	stored, err := withTimeout(rctx, cfg.StoreTimeout, func(ctx context.Context) (string, error) {
		return cfg.Sessions.Get(ctx, claims.Subject)
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, &rejection{status: http.StatusUnauthorized, reason: "revoked", cause: err}
		}
		return nil, infraRejection(err)
	}
	if stored != token {
		return nil, &rejection{status: http.StatusUnauthorized, reason: "revoked", cause: errors.New("token superseded")}
	}

	// 查找用户
	principal, err := withTimeout(rctx, cfg.StoreTimeout, func(ctx context.Context) (*types.Principal, error) {
		return cfg.Resolver.Resolve(ctx, claims.Subject)
	})
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return nil, &rejection{status: http.StatusUnauthorized, reason: "unknown_user", cause: err}
		}
		return nil, infraRejection(err)
	}

	id := &types.Identity{
		Principal: principal,
		Token:     token,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}

	// 快过期了就续签，失败也不影响本次请求
	if cfg.Codec.MinutesUntilExpiry(claims) <= int(cfg.RefreshThreshold.Minutes()) {
		refresh(c, cfg, id)
	}

	return id, nil
}

func refresh(c echo.Context, cfg *AuthConfig, id *types.Identity) {
	result := "failure"
	defer func() {
		if cfg.Metrics != nil {
			cfg.Metrics.TokenRefreshesTotal.WithLabelValues(result).Inc()
		}
	}()

	username := id.Principal.Username

	token, claims, err := cfg.Codec.Issue(username)
	if err != nil {
		cfg.Logger.Error("failed to issue refreshed token", zap.String("username", username), zap.Error(err))
		return
	}

	if _, err = withTimeout(c.Request().Context(), cfg.StoreTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, cfg.Sessions.Put(ctx, username, token, cfg.Codec.TTL())
	}); err != nil {
		cfg.Logger.Error("failed to save refreshed token", zap.String("username", username), zap.Error(err))
		return
	}

	c.Response().Header().Set(echo.HeaderAuthorization, "Bearer "+token)
	id.Token = token
	id.IssuedAt = claims.IssuedAt
	id.ExpiresAt = claims.ExpiresAt
	result = "success"
}

func withTimeout[T any](parent context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	return fn(ctx)
}

func infraRejection(err error) *rejection {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return &rejection{status: http.StatusServiceUnavailable, reason: "unavailable", cause: err}
	}
	return &rejection{status: http.StatusUnauthorized, reason: "error", cause: err}
}

func (cfg *AuthConfig) countRejection(reason string) {
	if cfg.Metrics != nil {
		cfg.Metrics.RejectionsTotal.WithLabelValues(reason).Inc()
	}
}

// GetIdentity 取出认证中间件写入的身份，公开接口上为 nil
func GetIdentity(c echo.Context) *types.Identity {
	id, _ := c.Get(constants.ContextKeyIdentity).(*types.Identity)
	return id
}
