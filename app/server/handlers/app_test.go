package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"personal-blog/app/server/auth"
	"personal-blog/app/server/identity"
	"personal-blog/app/server/inits"
	"personal-blog/app/server/jwt"
	"personal-blog/app/server/metrics"
	"personal-blog/app/server/middlewares"
	"personal-blog/app/server/models"
	"personal-blog/app/server/password"
	"personal-blog/app/server/policy"
	"personal-blog/app/server/session"
	"personal-blog/app/server/storage"
	"personal-blog/app/server/types"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
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

type testServer struct {
	e        *echo.Echo
	db       *gorm.DB
	clock    *fakeClock
	codec    *jwt.JWT
	hasher   *password.Hasher
	sessions *session.MemoryStore
	media    *storage.LocalStore
	metrics  *metrics.Metrics
}

// result 和 types.Result 一样，只是 data 延迟解析
type result struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pageOf[T any] struct {
	List    []T   `json:"list"`
	Limit   int   `json:"limit"`
	PageMax int64 `json:"pageMax"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	l := zaptest.NewLogger(t)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := inits.DB("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	hasher, err := password.New("bcrypt", 10)
	require.NoError(t, err)

	codec, err := jwt.New("test-secret", "1", jwt.WithClock(clock.Now))
	require.NoError(t, err)

	media, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	sessions := session.NewMemoryStore(clock.Now)
	resolver := identity.NewResolver(db)
	m := metrics.New()
	authenticator := auth.New(l, hasher, codec, sessions, resolver, m, time.Second)

	app := NewApp(l, db, authenticator, hasher, media)

	e := echo.New()
	e.HTTPErrorHandler = app.HTTPErrorHandler
	e.Use(middlewares.Auth(middlewares.AuthConfig{
		Logger:           l,
		Codec:            codec,
		Sessions:         sessions,
		Resolver:         resolver,
		Policy:           policy.Default(),
		Metrics:          m,
		RefreshThreshold: 5 * time.Minute,
		StoreTimeout:     time.Second,
	}))
	app.Register(e)

	return &testServer{
		e:        e,
		db:       db,
		clock:    clock,
		codec:    codec,
		hasher:   hasher,
		sessions: sessions,
		media:    media,
		metrics:  m,
	}
}

func (s *testServer) seedUser(t *testing.T, username string, secret string, role types.Role) *models.User {
	t.Helper()

	hashed, err := s.hasher.Hash(secret)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Nickname: username,
		UserRole: role.Int(),
		Password: hashed,
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func (s *testServer) login(t *testing.T, username string, secret string) string {
	t.Helper()

	rec, res := s.do(t, http.MethodPost, "/api/user/login", map[string]string{
		"username": username,
		"password": secret,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, res.Code, res.Message)

	var data types.LoginToken
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func (s *testServer) do(t *testing.T, method string, target string, body any, token string) (*httptest.ResponseRecorder, result) {
	t.Helper()

	var req *http.Request
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req = newJSONRequest(method, target, bytes.NewReader(raw))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	return s.serve(t, req, token)
}

func newJSONRequest(method string, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func (s *testServer) serve(t *testing.T, req *http.Request, token string) (*httptest.ResponseRecorder, result) {
	t.Helper()

	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var res result
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	}
	return rec, res
}

func decodeData[T any](t *testing.T, res result) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(res.Data, &v))
	return v
}

func (s *testServer) storedToken(t *testing.T, username string) string {
	t.Helper()

	token, err := s.sessions.Get(context.Background(), username)
	require.NoError(t, err)
	return token
}
