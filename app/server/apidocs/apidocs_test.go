package apidocs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"personal-blog/app/server/policy"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func testRoutes() *echo.Echo {
	e := echo.New()
	e.POST("/api/user/login", noop)
	e.GET("/api/user/me", noop)
	e.DELETE("/api/tag/deletetag/:tagId", noop)
	e.GET("/internal/debug", noop)
	return e
}

func TestBuild(t *testing.T) {
	e := testRoutes()
	doc := Build("blog", "test", e.Routes(), policy.Default())

	assert.Nil(t, doc.Paths.Value("/internal/debug"))

	login := doc.Paths.Value("/api/user/login")
	require.NotNil(t, login)
	require.NotNil(t, login.Post)
	require.NotNil(t, login.Post.Security)
	assert.Empty(t, *login.Post.Security)
	assert.Equal(t, "PUBLIC", login.Post.Extensions["x-access"])
	assert.Equal(t, []string{"user"}, login.Post.Tags)

	me := doc.Paths.Value("/api/user/me")
	require.NotNil(t, me)
	require.NotNil(t, me.Get)
	assert.Nil(t, me.Get.Security)
	assert.Equal(t, "AUTHENTICATED", me.Get.Extensions["x-access"])

	del := doc.Paths.Value("/api/tag/deletetag/{tagId}")
	require.NotNil(t, del)
	require.NotNil(t, del.Delete)
	assert.Equal(t, "ADMIN", del.Delete.Extensions["x-access"])
	require.Len(t, del.Delete.Parameters, 1)
	assert.Equal(t, "tagId", del.Delete.Parameters[0].Value.Name)
	assert.Equal(t, "path", del.Delete.Parameters[0].Value.In)

	require.Contains(t, doc.Components.SecuritySchemes, securitySchemeName)
}

func TestConvertPath(t *testing.T) {
	p, params := convertPath("/api/comment/deletecomment/:commentId")
	assert.Equal(t, "/api/comment/deletecomment/{commentId}", p)
	assert.Equal(t, []string{"commentId"}, params)

	p, params = convertPath("/api/user/me")
	assert.Equal(t, "/api/user/me", p)
	assert.Empty(t, params)
}

func TestOperationID(t *testing.T) {
	assert.Equal(t, "UserLogin", operationID("personal-blog/app/server/handlers.(*App).UserLogin-fm"))
	assert.Equal(t, "noop", operationID("personal-blog/app/server/apidocs.noop"))
}

func TestDoc(t *testing.T) {
	spec := []byte(`{"openapi":"3.0.3"}`)

	e := echo.New()
	e.Pre(Doc("/api", spec, WithAuthorizer(func(r *http.Request) bool {
		return r.Header.Get("X-Docs") != "deny"
	})))
	e.GET("/api/user/me", noop)

	do := func(target string, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if header != "" {
			req.Header.Set("X-Docs", header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do("/api/apispec.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "3.0.3", body["openapi"])

	rec = do("/api/apidocs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-url="/api/apispec.json"`)

	rec = do("/api", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api/apidocs", rec.Header().Get(echo.HeaderLocation))

	rec = do("/api/apidocs", "deny")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 其他路径照常路由
	rec = do("/api/user/me", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDoc_PrivateNetworkOnly(t *testing.T) {
	e := echo.New()
	e.Pre(Doc("/docs", []byte(`{}`), WithAuthorizer(PrivateNetworkOnly)))

	cases := []struct {
		remote string
		status int
	}{
		{"127.0.0.1:40000", http.StatusOK},
		{"[::1]:40000", http.StatusOK},
		{"10.1.2.3:40000", http.StatusOK},
		{"192.168.0.7:40000", http.StatusOK},
		{"[::ffff:172.16.0.1]:40000", http.StatusOK},
		{"203.0.113.9:40000", http.StatusForbidden},
		{"[2001:db8::1]:40000", http.StatusForbidden},
		{"not-an-address", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.remote, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/docs/apispec.json", nil)
			req.RemoteAddr = tc.remote
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
