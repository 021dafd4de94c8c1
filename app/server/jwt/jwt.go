package jwt

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type JWT struct {
	kid     string            // 当前签名密钥版本
	key     []byte            // 当前签名密钥
	retired map[string][]byte // 宽限期内仍可验证的旧密钥
	ttl     time.Duration
	now     func() time.Time
}

type Claims struct {
	Subject    string
	ID         string
	KeyVersion string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

type Option func(*JWT)

func WithRetiredKeys(keys map[string]string) Option {
	return func(j *JWT) {
		for kid, key := range keys {
			j.retired[kid] = []byte(key)
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(j *JWT) {
		j.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

func New(key string, kid string, opts ...Option) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}
	if len(kid) == 0 {
		return nil, errors.New("key version is empty")
	}

	j := &JWT{
		kid:     kid,
		key:     []byte(key),
		retired: map[string][]byte{},
		ttl:     30 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	if j.ttl <= 0 {
		return nil, fmt.Errorf("invalid token ttl: %s", j.ttl)
	}
	if _, exist := j.retired[kid]; exist {
		return nil, fmt.Errorf("key version %s is both active and retired", kid)
	}
	for rkid, rkey := range j.retired {
		if len(rkey) == 0 {
			return nil, fmt.Errorf("retired key %s is empty", rkid)
		}
	}

	return j, nil
}

func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) Issue(subject string) (string, *Claims, error) {
	if len(subject) == 0 {
		return "", nil, errors.New("subject is empty")
	}

	// JWT 的时间精度为秒
	iat := j.now().Truncate(time.Second)
	claims := &Claims{
		Subject:    subject,
		ID:         uuid.NewString(), // 同一秒内多次签发也能得到不同的令牌
		KeyVersion: j.kid,
		IssuedAt:   iat,
		ExpiresAt:  iat.Add(j.ttl),
	}

	// 创建令牌
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   claims.Subject,
		ID:        claims.ID,
		IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	})
	token.Header["kid"] = j.kid

	// 签名并返回
	signed, err := token.SignedString(j.key)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return signed, claims, nil
}

func (j *JWT) Parse(tokenString string) (*Claims, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, fmt.Errorf("%w: token string is empty", ErrTokenInvalid)
	}

	var (
		registered jwt.RegisteredClaims
		kid        string
	)
	_, err := jwt.ParseWithClaims(tokenString, &registered, func(token *jwt.Token) (interface{}, error) {
		// 没有 kid 的令牌使用当前密钥
		v, exist := token.Header["kid"]
		if !exist {
			kid = j.kid
			return j.key, nil
		}

		s, ok := v.(string)
		if !ok {
			return nil, errors.New("kid is not a string")
		}
		kid = s

		if s == j.kid {
			return j.key, nil
		} else if key, exist := j.retired[s]; exist {
			return key, nil
		}
		return nil, fmt.Errorf("unknown key version: %s", s)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	// 匹配内容
	if len(registered.Subject) == 0 || registered.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing subject or iat", ErrTokenInvalid)
	}

	return &Claims{
		Subject:    registered.Subject,
		ID:         registered.ID,
		KeyVersion: kid,
		IssuedAt:   registered.IssuedAt.Time,
		ExpiresAt:  registered.ExpiresAt.Time,
	}, nil
}

// MinutesUntilExpiry 向下取整，已过期时为负数
func (j *JWT) MinutesUntilExpiry(claims *Claims) int {
	return int(math.Floor(claims.ExpiresAt.Sub(j.now()).Minutes()))
}
