package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func newCodec(t *testing.T, clock *fakeClock, opts ...Option) *JWT {
	t.Helper()

	j, err := New("active-secret", "2", append([]Option{WithClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	return j
}

func TestIssueParse_RoundTrip(t *testing.T) {
	clock := newClock()
	j := newCodec(t, clock)

	token, issued, err := j.Issue("alice")
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+$`, token)
	assert.Equal(t, 30*time.Minute, issued.ExpiresAt.Sub(issued.IssuedAt))

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "2", claims.KeyVersion)
	assert.Equal(t, issued.ID, claims.ID)
	assert.True(t, issued.IssuedAt.Equal(claims.IssuedAt))
	assert.Equal(t, j.TTL(), claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestIssue_UniqueWithinSameSecond(t *testing.T) {
	j := newCodec(t, newClock())

	a, _, err := j.Issue("alice")
	require.NoError(t, err)
	b, _, err := j.Issue("alice")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestParse_Expiry(t *testing.T) {
	clock := newClock()
	j := newCodec(t, clock)

	token, _, err := j.Issue("alice")
	require.NoError(t, err)

	clock.Advance(30*time.Minute - time.Second)
	_, err = j.Parse(token)
	require.NoError(t, err)

	// exp 等于 now 时已经过期
	clock.Advance(time.Second)
	_, err = j.Parse(token)
	require.ErrorIs(t, err, ErrTokenExpired)

	clock.Advance(time.Hour)
	_, err = j.Parse(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_Tampered(t *testing.T) {
	j := newCodec(t, newClock())

	token, _, err := j.Issue("alice")
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	other, _, err := j.Issue("mallory")
	require.NoError(t, err)
	otherParts := strings.Split(other, ".")

	flip := func(s string) string {
		b := []byte(s)
		if b[len(b)/2] == 'A' {
			b[len(b)/2] = 'B'
		} else {
			b[len(b)/2] = 'A'
		}
		return string(b)
	}

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not.a.jwt",
		"two parts":       parts[0] + "." + parts[1],
		"swapped payload": parts[0] + "." + otherParts[1] + "." + parts[2],
		"flipped sig":     parts[0] + "." + parts[1] + "." + flip(parts[2]),
		"flipped payload": parts[0] + "." + flip(parts[1]) + "." + parts[2],
	}

	for name, tampered := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := j.Parse(tampered)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	clock := newClock()
	j := newCodec(t, clock)

	registered := jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(clock.Now()),
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, registered).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = j.Parse(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, registered).SignedString([]byte("active-secret"))
	require.NoError(t, err)
	_, err = j.Parse(hs512)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_KeyRotation(t *testing.T) {
	clock := newClock()

	old, err := New("old-secret", "1", WithClock(clock.Now))
	require.NoError(t, err)
	oldToken, _, err := old.Issue("alice")
	require.NoError(t, err)

	// 旧密钥在宽限期内仍可验证
	rotated := newCodec(t, clock, WithRetiredKeys(map[string]string{"1": "old-secret"}))
	claims, err := rotated.Parse(oldToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.KeyVersion)

	// 宽限期结束，旧密钥被移除
	dropped := newCodec(t, clock)
	_, err = dropped.Parse(oldToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// 新令牌使用新密钥
	newToken, _, err := rotated.Issue("alice")
	require.NoError(t, err)
	_, err = old.Parse(newToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_WithoutKid(t *testing.T) {
	clock := newClock()
	j := newCodec(t, clock)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(clock.Now()),
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}).SignedString([]byte("active-secret"))
	require.NoError(t, err)

	claims, err := j.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "2", claims.KeyVersion)
}

func TestMinutesUntilExpiry(t *testing.T) {
	clock := newClock()
	j := newCodec(t, clock)

	_, claims, err := j.Issue("alice")
	require.NoError(t, err)
	assert.Equal(t, 30, j.MinutesUntilExpiry(claims))

	clock.Advance(25*time.Minute + 30*time.Second)
	assert.Equal(t, 4, j.MinutesUntilExpiry(claims))

	clock.Advance(4*time.Minute + 30*time.Second)
	assert.Equal(t, 0, j.MinutesUntilExpiry(claims))

	clock.Advance(30 * time.Second)
	assert.Equal(t, -1, j.MinutesUntilExpiry(claims))
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", "1")
	assert.Error(t, err)

	_, err = New("key", "")
	assert.Error(t, err)

	_, err = New("key", "1", WithTTL(0))
	assert.Error(t, err)

	_, err = New("key", "1", WithRetiredKeys(map[string]string{"1": "other"}))
	assert.Error(t, err)
}
