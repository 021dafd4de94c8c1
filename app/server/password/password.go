package password

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"

	MinWorkFactor = 10
)

var (
	ErrWorkFactorTooLow = fmt.Errorf("hash work factor must be at least %d", MinWorkFactor)
	ErrUnknownScheme    = errors.New("unknown password scheme")
	ErrMalformedHash    = errors.New("malformed password hash")
)

type Hasher struct {
	scheme string
	cost   int
	params *argon2id.Params

	dummy string // 用户不存在时拿来校验，让两种失败耗时接近
}

func New(scheme string, workFactor int) (*Hasher, error) {
	if workFactor < MinWorkFactor {
		return nil, ErrWorkFactorTooLow
	}
	if workFactor > bcrypt.MaxCost {
		return nil, fmt.Errorf("hash work factor must be at most %d", bcrypt.MaxCost)
	}

	h := &Hasher{
		cost: workFactor,
	}

	switch strings.ToLower(scheme) {
	case "", SchemeBcrypt:
		h.scheme = SchemeBcrypt
	case SchemeArgon2id:
		h.scheme = SchemeArgon2id
		params := *argon2id.DefaultParams
		h.params = &params
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}

	dummy, err := h.Hash("dummy-password")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	h.dummy = dummy

	return h, nil
}

func (h *Hasher) Scheme() string {
	return h.scheme
}

func (h *Hasher) Hash(secret string) (string, error) {
	switch h.scheme {
	case SchemeArgon2id:
		hashed, err := argon2id.CreateHash(secret, h.params)
		if err != nil {
			return "", fmt.Errorf("argon2id: %w", err)
		}
		return hashed, nil
	default:
		hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(hashed), nil
	}
}

// Verify 按哈希前缀选择算法，切换 PASSWORD_SCHEME 后旧哈希依然可用
func (h *Hasher) Verify(secret string, hashed string) (bool, error) {
	switch {
	case isBcrypt(hashed):
		err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret))
		if err == nil {
			return true, nil
		} else if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)

	case strings.HasPrefix(hashed, "$argon2id$"):
		match, err := argon2id.ComparePasswordAndHash(secret, hashed)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
		}
		return match, nil

	default:
		return false, ErrMalformedHash
	}
}

// DummyVerify 消耗与一次真实校验相同的时间，结果总是 false
func (h *Hasher) DummyVerify(secret string) {
	_, _ = h.Verify(secret, h.dummy)
}

func isBcrypt(hashed string) bool {
	return strings.HasPrefix(hashed, "$2a$") ||
		strings.HasPrefix(hashed, "$2b$") ||
		strings.HasPrefix(hashed, "$2y$")
}
