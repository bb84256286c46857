package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-pos-backoffice/internal/application"
	"github.com/oksasatya/go-pos-backoffice/internal/domain/entity"
	"github.com/oksasatya/go-pos-backoffice/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeAuthorizer map[string]*application.Identity

func (f fakeAuthorizer) Authorize(_ context.Context, token string) (*application.Identity, error) {
	if token == "broken" {
		return nil, errors.New("redis down")
	}
	if id, ok := f[token]; ok {
		return id, nil
	}
	return nil, application.ErrUnauthorized
}

var authz = fakeAuthorizer{
	"admin-token": {ID: 1, Email: "admin@pos.com", Role: entity.RoleAdmin},
	"shop-token":  {ID: 7, Email: "downtown@mithai.com", Role: entity.RoleShop},
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func guarded(roles ...entity.Role) *gin.Engine {
	r := gin.New()
	chain := []gin.HandlerFunc{Auth(authz)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": id.ID, "account": c.GetInt64(CtxAccountIDKey)})
	})
	r.GET("/x", chain...)
	return r
}

func TestAuth(t *testing.T) {
	r := guarded()

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":1,"account":1}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: "shop-token"})
		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":7,"account":7}`, w.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
	})

	t.Run("revoked", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer stale")
		assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
	})

	t.Run("store failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer broken")
		assert.Equal(t, http.StatusInternalServerError, serve(r, req).Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := guarded(entity.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer shop-token")
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	keep := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, keep)
	assert.Equal(t, keep, serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	assert.NotEqual(t, "<script>", serve(r, req).Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	cases := []struct {
		name, header, value, want string
	}{
		{"cloudflare", "CF-Connecting-IP", "203.0.113.9", "203.0.113.9"},
		{"forwarded left-most", "X-Forwarded-For", "198.51.100.4, 10.0.0.1", "198.51.100.4"},
		{"garbage falls back", "X-Forwarded-For", "nope", "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			req.Header.Set(tc.header, tc.value)
			assert.Equal(t, tc.want, serve(r, req).Body.String())
		})
	}
}

func TestKeyFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/shops", nil)
	c.Set("real_ip", "203.0.113.5")

	assert.Equal(t, "rl:ip:203.0.113.5", KeyByIP()(c))
	assert.Equal(t, "rl:path:/api/shops:ip:203.0.113.5", KeyByIPAndPath()(c))
	assert.Equal(t, "rl:account:anon:ip:203.0.113.5", KeyByAccountID()(c))

	c.Set(CtxIdentityKey, &application.Identity{ID: 42, Role: entity.RoleAdmin})
	assert.Equal(t, "rl:account:42", KeyByAccountID()(c))
}

func TestAllowFuncs(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	c.Set("real_ip", "10.1.2.3")
	assert.True(t, AllowPrivateIP()(c))
	c.Set("real_ip", "8.8.8.8")
	assert.False(t, AllowPrivateIP()(c))

	assert.False(t, AllowRole(entity.RoleAdmin)(c))
	c.Set(CtxIdentityKey, &application.Identity{ID: 1, Role: entity.RoleAdmin})
	assert.True(t, AllowRole(entity.RoleAdmin)(c))
	assert.True(t, AnyOf(AllowPrivateIP(), AllowRole(entity.RoleAdmin))(c))
	assert.False(t, AnyOf(nil, AllowRole(entity.RoleShop))(c))
}

func TestRateLimit_WithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 1, 0, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}
